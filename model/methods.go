// SPDX-License-Identifier: MIT

package model

import "fmt"

// AddDetection appends a detection at timestep t and returns its dense index.
//
// Implementation:
//   - Stage 1: Validate 0 ≤ t ≤ MaxTimestep.
//   - Stage 2: Grow the timestep table so that t is addressable.
//   - Stage 3: Append the node with empty slot arenas.
//
// Errors:
//   - ErrNegativeTimestep if t < 0.
//   - ErrTimestepTooLarge if t > MaxTimestep.
//
// Complexity: amortized O(1), plus O(t) the first time timestep t is reached.
func (m *Model) AddDetection(t int, c Costs) (int, error) {
	if t < 0 {
		return 0, fmt.Errorf("AddDetection(%d): %w", t, ErrNegativeTimestep)
	}
	if t > MaxTimestep {
		return 0, fmt.Errorf("AddDetection(%d): %w", t, ErrTimestepTooLarge)
	}
	for len(m.detections) <= t {
		m.detections = append(m.detections, nil)
	}
	index := len(m.detections[t])
	m.detections[t] = append(m.detections[t], detectionNode{costs: c})

	return index, nil
}

// SetDetectionCost updates the selected costs of detection (t, d) and leaves
// the others unchanged. Without options it is a validated no-op.
//
// Errors:
//   - ErrDetectionNotFound if (t, d) does not exist.
func (m *Model) SetDetectionCost(t, d int, opts ...CostOption) error {
	n := m.node(t, d)
	if n == nil {
		return fmt.Errorf("SetDetectionCost(%d,%d): %w", t, d, ErrDetectionNotFound)
	}
	for _, opt := range opts {
		opt(&n.costs)
	}

	return nil
}

// AddConflict registers a group of mutually exclusive detections at
// timestep t and returns the conflict index.
//
// Implementation:
//   - Stage 1: Validate timestep, non-empty member list, member existence, no repeats.
//   - Stage 2: Reject the set if it contains or is contained in any existing set at t.
//   - Stage 3: Store a private copy of the ordered member list.
//
// Errors:
//   - ErrNegativeTimestep, ErrEmptyConflict, ErrDetectionNotFound,
//     ErrDuplicateMember, ErrConflictOverlap.
//
// Complexity: O(k·C) where k is the set size and C the number of conflicts at t.
func (m *Model) AddConflict(t int, detections []int) (int, error) {
	if t < 0 {
		return 0, fmt.Errorf("AddConflict(%d): %w", t, ErrNegativeTimestep)
	}
	if len(detections) == 0 {
		return 0, fmt.Errorf("AddConflict(%d): %w", t, ErrEmptyConflict)
	}
	set := make(map[int]struct{}, len(detections))
	for _, d := range detections {
		if !m.HasDetection(t, d) {
			return 0, fmt.Errorf("AddConflict(%d): member %d: %w", t, d, ErrDetectionNotFound)
		}
		if _, dup := set[d]; dup {
			return 0, fmt.Errorf("AddConflict(%d): member %d: %w", t, d, ErrDuplicateMember)
		}
		set[d] = struct{}{}
	}

	for c := 0; c < m.Conflicts(t); c++ {
		existing := m.conflicts[t][c]
		// Members are unique on both sides, so containment reduces to counting.
		shared := 0
		for _, d := range existing {
			if _, ok := set[d]; ok {
				shared++
			}
		}
		if shared == len(set) || shared == len(existing) {
			return 0, fmt.Errorf("AddConflict(%d): overlaps conflict %d: %w", t, c, ErrConflictOverlap)
		}
	}

	for len(m.conflicts) <= t {
		m.conflicts = append(m.conflicts, nil)
	}
	members := make([]int, len(detections))
	copy(members, detections)
	index := len(m.conflicts[t])
	m.conflicts[t] = append(m.conflicts[t], members)

	return index, nil
}

// AddTransition links detection (t, from) to detection (t+1, to) and returns
// the stored payload with its freshly assigned slots.
//
// Implementation:
//   - Stage 1: Validate both endpoints and key uniqueness (no mutation yet).
//   - Stage 2: Append to the source's outgoing and the target's incoming arena;
//     the previous arena lengths become the slots.
//   - Stage 3: Record the payload and insertion order.
//
// Errors:
//   - ErrDetectionNotFound if an endpoint is missing.
//   - ErrDuplicateEdge if the key already exists.
//
// Complexity: amortized O(1).
func (m *Model) AddTransition(t, from, to int, cost float64) (Transition, error) {
	k := TransitionKey{Timestep: t, From: from, To: to}
	left, right := m.node(t, from), m.node(t+1, to)
	if left == nil {
		return Transition{}, fmt.Errorf("AddTransition%v: source: %w", k, ErrDetectionNotFound)
	}
	if right == nil {
		return Transition{}, fmt.Errorf("AddTransition%v: target: %w", k, ErrDetectionNotFound)
	}
	if _, dup := m.transitions[k]; dup {
		return Transition{}, fmt.Errorf("AddTransition%v: %w", k, ErrDuplicateEdge)
	}

	ref := EdgeRef{Kind: KindTransition, Transition: k}
	tr := Transition{SlotLeft: len(left.outgoing), SlotRight: len(right.incoming), Cost: cost}
	left.outgoing = append(left.outgoing, ref)
	right.incoming = append(right.incoming, ref)

	m.transitions[k] = tr
	m.transitionOrder = append(m.transitionOrder, k)
	m.edgeOrder = append(m.edgeOrder, ref)

	return tr, nil
}

// AddDivision splits detection (t, from) into detections (t+1, to1) and
// (t+1, to2). Slots come from the same arenas transitions use.
//
// Errors:
//   - ErrDetectionNotFound if an endpoint is missing.
//   - ErrDegenerateDivision if to1 == to2.
//   - ErrDuplicateEdge if the key already exists.
//
// Complexity: amortized O(1).
func (m *Model) AddDivision(t, from, to1, to2 int, cost float64) (Division, error) {
	k := DivisionKey{Timestep: t, From: from, To1: to1, To2: to2}
	left, right1, right2 := m.node(t, from), m.node(t+1, to1), m.node(t+1, to2)
	if left == nil {
		return Division{}, fmt.Errorf("AddDivision%v: source: %w", k, ErrDetectionNotFound)
	}
	if right1 == nil || right2 == nil {
		return Division{}, fmt.Errorf("AddDivision%v: target: %w", k, ErrDetectionNotFound)
	}
	if to1 == to2 {
		return Division{}, fmt.Errorf("AddDivision%v: %w", k, ErrDegenerateDivision)
	}
	if _, dup := m.divisions[k]; dup {
		return Division{}, fmt.Errorf("AddDivision%v: %w", k, ErrDuplicateEdge)
	}

	ref := EdgeRef{Kind: KindDivision, Division: k}
	dv := Division{
		SlotLeft:   len(left.outgoing),
		SlotRight1: len(right1.incoming),
		SlotRight2: len(right2.incoming),
		Cost:       cost,
	}
	left.outgoing = append(left.outgoing, ref)
	right1.incoming = append(right1.incoming, ref)
	right2.incoming = append(right2.incoming, ref)

	m.divisions[k] = dv
	m.divisionOrder = append(m.divisionOrder, k)
	m.edgeOrder = append(m.edgeOrder, ref)

	return dv, nil
}
