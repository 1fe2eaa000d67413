// SPDX-License-Identifier: MIT

package tracker

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/ct/model"
	"github.com/katalvlaran/ct/primals"
)

// Construct translates m into the native factor graph held by native and
// returns the owning Tracker. Construct takes ownership of native: if
// construction fails, the handle is destroyed before returning.
//
// Implementation:
//   - Stage 1: Per timestep, number each detection's conflict memberships
//     (model.ConflictSlots), add detection factors with their slot counts and
//     base costs, then conflict factors and their links.
//   - Stage 2: Per transition, put ½ of its cost on each endpoint slot and link
//     the slots; per division, ⅓ on each of its three endpoint slots.
//   - Stage 3: Finalize.
//
// Errors:
//   - ErrNilNative if native is nil.
//   - any error from the native construction calls, wrapped.
//
// Complexity: O(V + E + Σ|conflict|) native calls.
func Construct(m *model.Model, native Native, opts ...Option) (*Tracker, error) {
	if native == nil {
		return nil, ErrNilNative
	}
	cfg := gatherOptions(opts)
	t := &Tracker{m: m, native: native, logger: cfg.logger}

	if err := build(m, native); err != nil {
		t.Close()
		return nil, fmt.Errorf("tracker: construct: %w", err)
	}

	cfg.logger.Debug("native tracker constructed",
		slog.Int("timesteps", m.Timesteps()),
		slog.Int("transitions", len(m.TransitionKeys())),
		slog.Int("divisions", len(m.DivisionKeys())))

	return t, nil
}

func build(m *model.Model, g Native) error {
	factors := make(map[model.DetectionKey]DetectionFactor)

	for ts := 0; ts < m.Timesteps(); ts++ {
		slots, counts := m.ConflictSlots(ts)

		for d := 0; d < m.Detections(ts); d++ {
			f, err := g.AddDetection(ts, d, m.IncomingEdges(ts, d), m.OutgoingEdges(ts, d), counts[d])
			if err != nil {
				return err
			}
			c, _ := m.Detection(ts, d)
			f.SetDetectionCost(c.Detection)
			f.SetAppearanceCost(c.Appearance)
			f.SetDisappearanceCost(c.Disappearance)
			factors[model.DetectionKey{Timestep: ts, Index: d}] = f
		}

		for c := 0; c < m.Conflicts(ts); c++ {
			members, _ := m.Conflict(ts, c)
			if _, err := g.AddConflict(ts, c, len(members)); err != nil {
				return err
			}
			for i, d := range members {
				if err := g.AddConflictLink(ts, c, i, d, slots[c][i]); err != nil {
					return err
				}
			}
		}
	}

	for _, k := range m.TransitionKeys() {
		tr, _ := m.Transition(k)
		half := tr.Cost * .5
		factors[k.Left()].SetOutgoingCost(tr.SlotLeft, half)
		factors[k.Right()].SetIncomingCost(tr.SlotRight, half)
		if err := g.AddTransition(k.Timestep, k.From, tr.SlotLeft, k.To, tr.SlotRight); err != nil {
			return err
		}
	}

	for _, k := range m.DivisionKeys() {
		dv, _ := m.Division(k)
		third := dv.Cost / 3.0
		factors[k.Left()].SetOutgoingCost(dv.SlotLeft, third)
		factors[k.Right1()].SetIncomingCost(dv.SlotRight1, third)
		factors[k.Right2()].SetIncomingCost(dv.SlotRight2, third)
		if err := g.AddDivision(k.Timestep, k.From, dv.SlotLeft, k.To1, dv.SlotRight1, k.To2, dv.SlotRight2); err != nil {
			return err
		}
	}

	return g.Finalize()
}

// ExtractPrimals reads the native assignment back into a Primals over the
// tracker's Model.
//
// Implementation:
//   - Stage 1: Per detection, read incoming/outgoing primal slots. Both must be
//     Unassigned or both assigned; assigned means active.
//   - Stage 2: A slot below the edge count selects the edge occupying it
//     (resolved through the Model's slot arenas); the appearance/disappearance
//     slot selects nothing.
//   - Stage 3: Verify CheckConsistency.
//
// Errors:
//   - ErrClosed, ErrAssignmentMismatch, ErrInconsistentPrimals.
func ExtractPrimals(t *Tracker) (*primals.Primals, error) {
	if err := t.check("ExtractPrimals"); err != nil {
		return nil, err
	}
	m := t.m
	p := primals.New(m)

	for ts := 0; ts < m.Timesteps(); ts++ {
		for d := 0; d < m.Detections(ts); d++ {
			f, err := t.native.Detection(ts, d)
			if err != nil {
				return nil, fmt.Errorf("ExtractPrimals: %w", err)
			}
			in, out := f.IncomingPrimal(), f.OutgoingPrimal()
			if (in == Unassigned) != (out == Unassigned) {
				return nil, fmt.Errorf("ExtractPrimals: detection (%d,%d) in=%d out=%d: %w",
					ts, d, in, out, ErrAssignmentMismatch)
			}
			if err := p.SetDetection(ts, d, in != Unassigned); err != nil {
				return nil, err
			}
			if ref, ok := m.IncomingSlot(ts, d, in); ok {
				if err := p.SetEdge(ref, true); err != nil {
					return nil, err
				}
			}
			if ref, ok := m.OutgoingSlot(ts, d, out); ok {
				if err := p.SetEdge(ref, true); err != nil {
					return nil, err
				}
			}
		}
	}

	if !p.CheckConsistency() {
		return nil, fmt.Errorf("ExtractPrimals: %w", ErrInconsistentPrimals)
	}

	return p, nil
}
