// SPDX-License-Identifier: MIT

// Package primals holds a concrete activation assignment over a fixed
// *model.Model: which detections, transitions and divisions are active.
//
// Per detection it maintains live counters of active incoming and outgoing
// edges. The counters change together with set membership, inside the same
// setter call. Appearance and disappearance are never stored; they are read
// from the live counters each time they are asked for:
//
//	appearance(t,d)    ⇔ detection(t,d) ∧ incoming(t,d) == 0
//	disappearance(t,d) ⇔ detection(t,d) ∧ outgoing(t,d) == 0
//
// A Primals is bound to exactly one Model for its lifetime and is not safe
// for concurrent use.
package primals

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/katalvlaran/ct/model"
)

// Sentinel errors for primal access and evaluation.
var (
	// ErrUnknownDetection indicates a detection key absent from the Model.
	ErrUnknownDetection = errors.New("primals: unknown detection")

	// ErrUnknownTransition indicates a transition key absent from the Model.
	ErrUnknownTransition = errors.New("primals: unknown transition")

	// ErrUnknownDivision indicates a division key absent from the Model.
	ErrUnknownDivision = errors.New("primals: unknown division")

	// ErrInconsistent indicates a primal violating a conflict set or an
	// incidence bound.
	ErrInconsistent = errors.New("primals: inconsistent assignment")
)

// Primals is an activation overlay on one Model.
type Primals struct {
	m *model.Model

	detections  map[model.DetectionKey]struct{}
	transitions map[model.TransitionKey]struct{}
	divisions   map[model.DivisionKey]struct{}

	incoming map[model.DetectionKey]int // active incoming edge count
	outgoing map[model.DetectionKey]int // active outgoing edge count
}

// New returns an empty Primals bound to m.
// Complexity: O(1); counters are materialized lazily.
func New(m *model.Model) *Primals {
	return &Primals{
		m:           m,
		detections:  make(map[model.DetectionKey]struct{}),
		transitions: make(map[model.TransitionKey]struct{}),
		divisions:   make(map[model.DivisionKey]struct{}),
		incoming:    make(map[model.DetectionKey]int),
		outgoing:    make(map[model.DetectionKey]int),
	}
}

// Model returns the Model this Primals is bound to.
func (p *Primals) Model() *model.Model { return p.m }

// Detection reports whether detection (t, d) is active.
func (p *Primals) Detection(t, d int) bool {
	_, ok := p.detections[model.DetectionKey{Timestep: t, Index: d}]

	return ok
}

// SetDetection activates or deactivates detection (t, d).
// Detections carry no incidence of their own, so no counter moves.
func (p *Primals) SetDetection(t, d int, on bool) error {
	if !p.m.HasDetection(t, d) {
		return fmt.Errorf("SetDetection(%d,%d): %w", t, d, ErrUnknownDetection)
	}
	k := model.DetectionKey{Timestep: t, Index: d}
	if on {
		p.detections[k] = struct{}{}
	} else {
		delete(p.detections, k)
	}

	return nil
}

// Transition reports whether transition k is active.
func (p *Primals) Transition(k model.TransitionKey) bool {
	_, ok := p.transitions[k]

	return ok
}

// SetTransition activates or deactivates transition k. When membership
// changes, the outgoing counter of the left and the incoming counter of the
// right detection move by one.
func (p *Primals) SetTransition(k model.TransitionKey, on bool) error {
	if _, ok := p.m.Transition(k); !ok {
		return fmt.Errorf("SetTransition%v: %w", k, ErrUnknownTransition)
	}
	delta, changed := toggle(p.transitions, k, on)
	if changed {
		p.outgoing[k.Left()] += delta
		p.incoming[k.Right()] += delta
	}

	return nil
}

// Division reports whether division k is active.
func (p *Primals) Division(k model.DivisionKey) bool {
	_, ok := p.divisions[k]

	return ok
}

// SetDivision activates or deactivates division k, moving one outgoing and
// two incoming counters when membership changes.
func (p *Primals) SetDivision(k model.DivisionKey, on bool) error {
	if _, ok := p.m.Division(k); !ok {
		return fmt.Errorf("SetDivision%v: %w", k, ErrUnknownDivision)
	}
	delta, changed := toggle(p.divisions, k, on)
	if changed {
		p.outgoing[k.Left()] += delta
		p.incoming[k.Right1()] += delta
		p.incoming[k.Right2()] += delta
	}

	return nil
}

// SetEdge activates or deactivates whatever edge ref points at.
func (p *Primals) SetEdge(ref model.EdgeRef, on bool) error {
	if ref.Kind == model.KindDivision {
		return p.SetDivision(ref.Division, on)
	}

	return p.SetTransition(ref.Transition, on)
}

// toggle updates set membership and reports the counter delta.
func toggle[K comparable](set map[K]struct{}, k K, on bool) (delta int, changed bool) {
	_, before := set[k]
	if before == on {
		return 0, false
	}
	if on {
		set[k] = struct{}{}
		return +1, true
	}
	delete(set, k)

	return -1, true
}

// Incoming returns the number of active edges entering detection (t, d).
func (p *Primals) Incoming(t, d int) int {
	return p.incoming[model.DetectionKey{Timestep: t, Index: d}]
}

// Outgoing returns the number of active edges leaving detection (t, d).
func (p *Primals) Outgoing(t, d int) int {
	return p.outgoing[model.DetectionKey{Timestep: t, Index: d}]
}

// Appearance reports whether detection (t, d) is active with no active
// incoming edge.
func (p *Primals) Appearance(t, d int) bool {
	return p.Detection(t, d) && p.Incoming(t, d) == 0
}

// Disappearance reports whether detection (t, d) is active with no active
// outgoing edge.
func (p *Primals) Disappearance(t, d int) bool {
	return p.Detection(t, d) && p.Outgoing(t, d) == 0
}

// ActiveDetections returns the active detection keys ordered by (timestep, index).
func (p *Primals) ActiveDetections() []model.DetectionKey {
	out := make([]model.DetectionKey, 0, len(p.detections))
	for k := range p.detections {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b model.DetectionKey) int {
		return cmp.Or(cmp.Compare(a.Timestep, b.Timestep), cmp.Compare(a.Index, b.Index))
	})

	return out
}

// ActiveTransitions returns the active transition keys in lexicographic order.
func (p *Primals) ActiveTransitions() []model.TransitionKey {
	out := make([]model.TransitionKey, 0, len(p.transitions))
	for k := range p.transitions {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b model.TransitionKey) int {
		return cmp.Or(cmp.Compare(a.Timestep, b.Timestep), cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To))
	})

	return out
}

// ActiveDivisions returns the active division keys in lexicographic order.
func (p *Primals) ActiveDivisions() []model.DivisionKey {
	out := make([]model.DivisionKey, 0, len(p.divisions))
	for k := range p.divisions {
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b model.DivisionKey) int {
		return cmp.Or(cmp.Compare(a.Timestep, b.Timestep), cmp.Compare(a.From, b.From),
			cmp.Compare(a.To1, b.To1), cmp.Compare(a.To2, b.To2))
	})

	return out
}
