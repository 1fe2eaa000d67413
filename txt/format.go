// SPDX-License-Identifier: MIT

package txt

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/ct/model"
	"github.com/katalvlaran/ct/primals"
)

// ErrUnmapped indicates an active entity without an external id.
var ErrUnmapped = errors.New("txt: no external id")

// Format writes the active part of p using the external ids of bm.
//
// Implementation:
//   - Stage 1: Reject an inconsistent p.
//   - Stage 2: Per active detection in (timestep, index) order: "APP <id>" if
//     it appears, "H <id>", "DISAPP <id>" if it disappears.
//   - Stage 3: "MOVE <id>" per active transition, then "DIV <id>" per active
//     division, each in key order.
//
// Errors:
//   - primals.ErrInconsistent, wrapped.
//   - ErrUnmapped if bm lacks the id of an entity that must be written.
//   - write errors of w.
func Format(w io.Writer, p *primals.Primals, bm *BiMap) error {
	if !p.CheckConsistency() {
		return fmt.Errorf("txt: format: %w", primals.ErrInconsistent)
	}
	bw := bufio.NewWriter(w)
	emit := func(k ModelKey, want Tag) error {
		id, ok := bm.External(k)
		if !ok || id.Tag != want {
			return fmt.Errorf("txt: format: %s: %w", k, ErrUnmapped)
		}
		_, err := fmt.Fprintf(bw, "%s %d\n", k.Kind, id.ID)
		return err
	}

	for _, k := range p.ActiveDetections() {
		t, d := k.Timestep, k.Index
		if p.Appearance(t, d) {
			if err := emit(appearanceKey(t, d), TagVariable); err != nil {
				return err
			}
		}
		if err := emit(detectionKey(t, d), TagDetection); err != nil {
			return err
		}
		if p.Disappearance(t, d) {
			if err := emit(disappearanceKey(t, d), TagVariable); err != nil {
				return err
			}
		}
	}
	for _, k := range p.ActiveTransitions() {
		if err := emit(moveKey(k), TagVariable); err != nil {
			return err
		}
	}
	for _, k := range p.ActiveDivisions() {
		if err := emit(divisionKey(k), TagVariable); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func moveKey(k model.TransitionKey) ModelKey {
	return ModelKey{Kind: KeyMove, Timestep: k.Timestep, From: k.From, To1: k.To}
}

func divisionKey(k model.DivisionKey) ModelKey {
	return ModelKey{Kind: KeyDivision, Timestep: k.Timestep, From: k.From, To1: k.To1, To2: k.To2}
}
