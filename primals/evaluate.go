// SPDX-License-Identifier: MIT

package primals

import (
	"fmt"

	"github.com/katalvlaran/ct/model"
)

// CheckConsistency reports whether the assignment is admissible:
//   - every conflict set has at most one active member;
//   - every incidence counter is at most the activation flag (0 or 1) of its
//     detection, so an inactive detection has no active edges and an active
//     one has at most one per side.
//
// It returns a boolean and leaves severity to the caller.
//
// Complexity: O(Σ|conflict| + V).
func (p *Primals) CheckConsistency() bool {
	for t := 0; t < p.m.Timesteps(); t++ {
		for c := 0; c < p.m.Conflicts(t); c++ {
			members, _ := p.m.Conflict(t, c)
			active := 0
			for _, d := range members {
				if p.Detection(t, d) {
					active++
				}
			}
			if active > 1 {
				return false
			}
		}
	}

	for _, counters := range []map[model.DetectionKey]int{p.incoming, p.outgoing} {
		for k, v := range counters {
			if v > activation(p.Detection(k.Timestep, k.Index)) {
				return false
			}
		}
	}

	return true
}

func activation(on bool) int {
	if on {
		return 1
	}

	return 0
}

// Evaluate returns the total cost of the assignment:
//
//	Σ active detections (detection + appearance if appearing + disappearance if disappearing)
//	+ Σ active transitions cost + Σ active divisions cost
//
// Errors:
//   - ErrInconsistent if CheckConsistency fails; the sum is undefined then.
//
// Complexity: O(Σ|conflict| + V + E).
func (p *Primals) Evaluate() (float64, error) {
	if !p.CheckConsistency() {
		return 0, fmt.Errorf("Evaluate: %w", ErrInconsistent)
	}

	var total float64
	for _, k := range p.ActiveDetections() {
		c, _ := p.m.Detection(k.Timestep, k.Index)
		total += c.Detection
		if p.Appearance(k.Timestep, k.Index) {
			total += c.Appearance
		}
		if p.Disappearance(k.Timestep, k.Index) {
			total += c.Disappearance
		}
	}
	for _, k := range p.ActiveTransitions() {
		tr, _ := p.m.Transition(k)
		total += tr.Cost
	}
	for _, k := range p.ActiveDivisions() {
		dv, _ := p.m.Division(k)
		total += dv.Cost
	}

	return total, nil
}
