// SPDX-License-Identifier: MIT

package model

// detectionNode is one detection together with its two slot arenas.
type detectionNode struct {
	costs    Costs
	incoming []EdgeRef // slot -> edge entering this detection
	outgoing []EdgeRef // slot -> edge leaving this detection
}

// Model is the flow network description. The zero value is not usable; call New.
//
// Storage:
//   - detections[t][d] holds detection (t, d); the outer slice grows to one past
//     the highest timestep that received a detection.
//   - conflicts[t][c] holds the ordered member indices of conflict (t, c).
//   - transitions/divisions map keys to payloads; *Order slices keep insertion
//     order per kind, edgeOrder across both kinds.
type Model struct {
	detections [][]detectionNode
	conflicts  [][][]int

	transitions     map[TransitionKey]Transition
	transitionOrder []TransitionKey

	divisions     map[DivisionKey]Division
	divisionOrder []DivisionKey

	edgeOrder []EdgeRef
}

// New creates an empty Model.
// Complexity: O(1).
func New() *Model {
	return &Model{
		transitions: make(map[TransitionKey]Transition),
		divisions:   make(map[DivisionKey]Division),
	}
}

// node returns the detection node at (t, d) or nil.
func (m *Model) node(t, d int) *detectionNode {
	if t < 0 || t >= len(m.detections) {
		return nil
	}
	if d < 0 || d >= len(m.detections[t]) {
		return nil
	}

	return &m.detections[t][d]
}

// HasDetection reports whether detection (t, d) exists.
func (m *Model) HasDetection(t, d int) bool {
	return m.node(t, d) != nil
}

// Timesteps returns one past the highest timestep holding a detection,
// or 0 for an empty Model.
func (m *Model) Timesteps() int {
	return len(m.detections)
}

// Detections returns the number of detections at timestep t.
func (m *Model) Detections(t int) int {
	if t < 0 || t >= len(m.detections) {
		return 0
	}

	return len(m.detections[t])
}

// Conflicts returns the number of conflict sets at timestep t.
func (m *Model) Conflicts(t int) int {
	if t < 0 || t >= len(m.conflicts) {
		return 0
	}

	return len(m.conflicts[t])
}

// IncomingEdges returns the number of incoming slots of detection (t, d).
func (m *Model) IncomingEdges(t, d int) int {
	if n := m.node(t, d); n != nil {
		return len(n.incoming)
	}

	return 0
}

// OutgoingEdges returns the number of outgoing slots of detection (t, d).
func (m *Model) OutgoingEdges(t, d int) int {
	if n := m.node(t, d); n != nil {
		return len(n.outgoing)
	}

	return 0
}

// Detection returns the costs of detection (t, d).
func (m *Model) Detection(t, d int) (Costs, bool) {
	if n := m.node(t, d); n != nil {
		return n.costs, true
	}

	return Costs{}, false
}

// Conflict returns a copy of the members of conflict (t, c).
func (m *Model) Conflict(t, c int) ([]int, bool) {
	if c < 0 || c >= m.Conflicts(t) {
		return nil, false
	}
	members := m.conflicts[t][c]
	out := make([]int, len(members))
	copy(out, members)

	return out, true
}

// Transition returns the payload stored under k.
func (m *Model) Transition(k TransitionKey) (Transition, bool) {
	tr, ok := m.transitions[k]

	return tr, ok
}

// Division returns the payload stored under k.
func (m *Model) Division(k DivisionKey) (Division, bool) {
	dv, ok := m.divisions[k]

	return dv, ok
}

// TransitionKeys returns all transition keys in insertion order.
func (m *Model) TransitionKeys() []TransitionKey {
	out := make([]TransitionKey, len(m.transitionOrder))
	copy(out, m.transitionOrder)

	return out
}

// DivisionKeys returns all division keys in insertion order.
func (m *Model) DivisionKeys() []DivisionKey {
	out := make([]DivisionKey, len(m.divisionOrder))
	copy(out, m.divisionOrder)

	return out
}

// IncomingSlot returns the edge occupying incoming slot s of detection (t, d).
func (m *Model) IncomingSlot(t, d, s int) (EdgeRef, bool) {
	n := m.node(t, d)
	if n == nil || s < 0 || s >= len(n.incoming) {
		return EdgeRef{}, false
	}

	return n.incoming[s], true
}

// OutgoingSlot returns the edge occupying outgoing slot s of detection (t, d).
func (m *Model) OutgoingSlot(t, d, s int) (EdgeRef, bool) {
	n := m.node(t, d)
	if n == nil || s < 0 || s >= len(n.outgoing) {
		return EdgeRef{}, false
	}

	return n.outgoing[s], true
}

// ConflictSlots assigns every (conflict, member) pair at timestep t a
// position among the conflicts its detection takes part in.
//
// Returns:
//   - slots[c][i]: slot of the i-th member of conflict c within that member's
//     own conflict list, counted in conflict order.
//   - counts[d]: number of conflicts detection d belongs to.
//
// Complexity: O(Σ|conflict|) time and memory.
func (m *Model) ConflictSlots(t int) (slots [][]int, counts []int) {
	counts = make([]int, m.Detections(t))
	slots = make([][]int, m.Conflicts(t))
	for c := range slots {
		members := m.conflicts[t][c]
		slots[c] = make([]int, len(members))
		for i, d := range members {
			slots[c][i] = counts[d]
			counts[d]++
		}
	}

	return slots, counts
}
