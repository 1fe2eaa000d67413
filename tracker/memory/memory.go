// SPDX-License-Identifier: MIT

// Package memory is an in-process tracker.Native backend. It stores the
// factor graph exactly as the native engine would (costs per slot, an extra
// trailing slot for appearance/disappearance, a trailing "off" entry per
// conflict) and evaluates the decomposition lower bound
//
//	Σ_detections min(0, detection + min incoming + min outgoing) + Σ_conflicts min(costs)
//
// It does not pass messages: Run, ForwardStep and BackwardStep only count
// calls, and the primal assignment is whatever Assign/AssignConflict set.
// Use it to test adapters and the reparametrization bookkeeping without the
// native library.
package memory

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/ct/model"
	"github.com/katalvlaran/ct/tracker"
)

// Sentinel errors of the in-process backend.
var (
	// ErrFinalized indicates a construction call after Finalize.
	ErrFinalized = errors.New("memory: graph already finalized")

	// ErrOutOfOrder indicates a factor added out of dense index order.
	ErrOutOfOrder = errors.New("memory: factor index out of order")

	// ErrNotFound indicates a reference to a factor that does not exist.
	ErrNotFound = errors.New("memory: factor not found")

	// ErrSlot indicates a slot outside a factor's range.
	ErrSlot = errors.New("memory: slot out of range")

	// ErrNotPrepared indicates Finalize found a cost never set.
	ErrNotPrepared = errors.New("memory: factor costs not prepared")
)

// Detection is one detection factor.
type Detection struct {
	detection float64
	incoming  []float64 // last entry is appearance
	outgoing  []float64 // last entry is disappearance
	conflicts int
	inPrimal  int
	outPrimal int
}

var _ tracker.DetectionFactor = (*Detection)(nil)

func (f *Detection) SetDetectionCost(c float64)     { f.detection = c }
func (f *Detection) SetAppearanceCost(c float64)    { f.incoming[len(f.incoming)-1] = c }
func (f *Detection) SetDisappearanceCost(c float64) { f.outgoing[len(f.outgoing)-1] = c }

// SetIncomingCost ignores slots outside [0, incoming edges].
func (f *Detection) SetIncomingCost(slot int, c float64) {
	if slot >= 0 && slot < len(f.incoming)-1 {
		f.incoming[slot] = c
	}
}

// SetOutgoingCost ignores slots outside [0, outgoing edges].
func (f *Detection) SetOutgoingCost(slot int, c float64) {
	if slot >= 0 && slot < len(f.outgoing)-1 {
		f.outgoing[slot] = c
	}
}

func (f *Detection) DetectionCost() float64     { return f.detection }
func (f *Detection) AppearanceCost() float64    { return f.incoming[len(f.incoming)-1] }
func (f *Detection) DisappearanceCost() float64 { return f.outgoing[len(f.outgoing)-1] }

// IncomingCost returns NaN for slots outside the edge range.
func (f *Detection) IncomingCost(slot int) float64 {
	if slot < 0 || slot >= len(f.incoming)-1 {
		return math.NaN()
	}

	return f.incoming[slot]
}

// OutgoingCost returns NaN for slots outside the edge range.
func (f *Detection) OutgoingCost(slot int) float64 {
	if slot < 0 || slot >= len(f.outgoing)-1 {
		return math.NaN()
	}

	return f.outgoing[slot]
}

func (f *Detection) IncomingPrimal() int { return f.inPrimal }
func (f *Detection) OutgoingPrimal() int { return f.outPrimal }

// lowerBound is min(0, detection + min incoming + min outgoing).
func (f *Detection) lowerBound() float64 {
	return math.Min(0, f.detection+minOf(f.incoming)+minOf(f.outgoing))
}

func (f *Detection) evaluate() float64 {
	if f.inPrimal == tracker.Unassigned || f.outPrimal == tracker.Unassigned {
		return 0
	}

	return f.incoming[f.inPrimal] + f.detection + f.outgoing[f.outPrimal]
}

func (f *Detection) prepared() bool {
	if math.IsNaN(f.detection) {
		return false
	}
	for _, v := range f.incoming {
		if math.IsNaN(v) {
			return false
		}
	}
	for _, v := range f.outgoing {
		if math.IsNaN(v) {
			return false
		}
	}

	return true
}

// Conflict is one conflict factor; costs has one extra trailing "off" entry.
type Conflict struct {
	costs  []float64
	links  []bool
	primal int
}

var _ tracker.ConflictFactor = (*Conflict)(nil)

// SetCost ignores slots outside [0, members].
func (f *Conflict) SetCost(slot int, c float64) {
	if slot >= 0 && slot < len(f.costs)-1 {
		f.costs[slot] = c
	}
}

// Cost returns the cost of member slot, NaN outside the member range.
func (f *Conflict) Cost(slot int) float64 {
	if slot < 0 || slot >= len(f.costs)-1 {
		return math.NaN()
	}

	return f.costs[slot]
}

func (f *Conflict) Primal() int { return f.primal }

func minOf(xs []float64) float64 {
	m := math.Inf(1)
	for _, x := range xs {
		m = math.Min(m, x)
	}

	return m
}

type link struct {
	timestep, from, fromSlot, to, toSlot int
}

type split struct {
	timestep, from, fromSlot, to1, toSlot1, to2, toSlot2 int
}

// Graph is the in-process native tracker.
type Graph struct {
	detections  [][]*Detection
	conflicts   [][]*Conflict
	transitions []link
	divisions   []split
	finalized   bool

	// Iterations counts Run iterations requested so far.
	Iterations int
	// Steps counts ForwardStep plus BackwardStep calls.
	Steps int
	// Destroyed counts Destroy calls.
	Destroyed int
}

var _ tracker.Native = (*Graph)(nil)

// New returns an empty graph.
func New() *Graph { return &Graph{} }

// AddDetection appends detection factor (timestep, detection). Costs start
// as NaN and must all be set before Finalize. Timesteps follow the Model's
// range [0, model.MaxTimestep].
func (g *Graph) AddDetection(timestep, detection, incoming, outgoing, conflicts int) (tracker.DetectionFactor, error) {
	if g.finalized {
		return nil, ErrFinalized
	}
	if timestep < 0 || timestep > model.MaxTimestep || incoming < 0 || outgoing < 0 || conflicts < 0 {
		return nil, fmt.Errorf("AddDetection(%d,%d): %w", timestep, detection, ErrSlot)
	}
	for len(g.detections) <= timestep {
		g.detections = append(g.detections, nil)
	}
	if detection != len(g.detections[timestep]) {
		return nil, fmt.Errorf("AddDetection(%d,%d): %w", timestep, detection, ErrOutOfOrder)
	}
	f := &Detection{
		detection: math.NaN(),
		incoming:  nanSlice(incoming + 1),
		outgoing:  nanSlice(outgoing + 1),
		conflicts: conflicts,
		inPrimal:  tracker.Unassigned,
		outPrimal: tracker.Unassigned,
	}
	g.detections[timestep] = append(g.detections[timestep], f)

	return f, nil
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

// AddConflict appends conflict factor (timestep, conflict) with zero costs.
func (g *Graph) AddConflict(timestep, conflict, members int) (tracker.ConflictFactor, error) {
	if g.finalized {
		return nil, ErrFinalized
	}
	if timestep < 0 || timestep > model.MaxTimestep || members < 0 {
		return nil, fmt.Errorf("AddConflict(%d,%d): %w", timestep, conflict, ErrSlot)
	}
	for len(g.conflicts) <= timestep {
		g.conflicts = append(g.conflicts, nil)
	}
	if conflict != len(g.conflicts[timestep]) {
		return nil, fmt.Errorf("AddConflict(%d,%d): %w", timestep, conflict, ErrOutOfOrder)
	}
	f := &Conflict{
		costs:  make([]float64, members+1),
		links:  make([]bool, members),
		primal: tracker.Unassigned,
	}
	g.conflicts[timestep] = append(g.conflicts[timestep], f)

	return f, nil
}

// AddConflictLink ties member conflictSlot of conflict (timestep, conflict)
// to the detectionSlot-th conflict membership of detection (timestep, detection).
func (g *Graph) AddConflictLink(timestep, conflict, conflictSlot, detection, detectionSlot int) error {
	if g.finalized {
		return ErrFinalized
	}
	c, err := g.conflict(timestep, conflict)
	if err != nil {
		return err
	}
	d, err := g.detection(timestep, detection)
	if err != nil {
		return err
	}
	if conflictSlot < 0 || conflictSlot >= len(c.links) || detectionSlot < 0 || detectionSlot >= d.conflicts {
		return fmt.Errorf("AddConflictLink(%d,%d,%d): %w", timestep, conflict, conflictSlot, ErrSlot)
	}
	c.links[conflictSlot] = true

	return nil
}

// AddTransition links outgoing slot fromSlot of (timestep, from) with
// incoming slot toSlot of (timestep+1, to).
func (g *Graph) AddTransition(timestep, from, fromSlot, to, toSlot int) error {
	if g.finalized {
		return ErrFinalized
	}
	if err := g.checkOutgoing(timestep, from, fromSlot); err != nil {
		return err
	}
	if err := g.checkIncoming(timestep+1, to, toSlot); err != nil {
		return err
	}
	g.transitions = append(g.transitions, link{timestep, from, fromSlot, to, toSlot})

	return nil
}

// AddDivision links one outgoing slot with two incoming slots at timestep+1.
func (g *Graph) AddDivision(timestep, from, fromSlot, to1, toSlot1, to2, toSlot2 int) error {
	if g.finalized {
		return ErrFinalized
	}
	if err := g.checkOutgoing(timestep, from, fromSlot); err != nil {
		return err
	}
	if err := g.checkIncoming(timestep+1, to1, toSlot1); err != nil {
		return err
	}
	if err := g.checkIncoming(timestep+1, to2, toSlot2); err != nil {
		return err
	}
	g.divisions = append(g.divisions, split{timestep, from, fromSlot, to1, toSlot1, to2, toSlot2})

	return nil
}

func (g *Graph) checkOutgoing(t, d, slot int) error {
	f, err := g.detection(t, d)
	if err != nil {
		return err
	}
	if slot < 0 || slot >= len(f.outgoing)-1 {
		return fmt.Errorf("outgoing slot %d of (%d,%d): %w", slot, t, d, ErrSlot)
	}

	return nil
}

func (g *Graph) checkIncoming(t, d, slot int) error {
	f, err := g.detection(t, d)
	if err != nil {
		return err
	}
	if slot < 0 || slot >= len(f.incoming)-1 {
		return fmt.Errorf("incoming slot %d of (%d,%d): %w", slot, t, d, ErrSlot)
	}

	return nil
}

// Finalize freezes the graph after checking every cost was set and every
// conflict member linked.
func (g *Graph) Finalize() error {
	if g.finalized {
		return ErrFinalized
	}
	for t := range g.detections {
		for d, f := range g.detections[t] {
			if !f.prepared() {
				return fmt.Errorf("Finalize: detection (%d,%d): %w", t, d, ErrNotPrepared)
			}
		}
	}
	for t := range g.conflicts {
		for c, f := range g.conflicts[t] {
			for _, ok := range f.links {
				if !ok {
					return fmt.Errorf("Finalize: conflict (%d,%d) has an unlinked member: %w", t, c, ErrNotPrepared)
				}
			}
		}
	}
	g.finalized = true

	return nil
}

func (g *Graph) detection(t, d int) (*Detection, error) {
	if t < 0 || t >= len(g.detections) || d < 0 || d >= len(g.detections[t]) {
		return nil, fmt.Errorf("detection (%d,%d): %w", t, d, ErrNotFound)
	}

	return g.detections[t][d], nil
}

func (g *Graph) conflict(t, c int) (*Conflict, error) {
	if t < 0 || t >= len(g.conflicts) || c < 0 || c >= len(g.conflicts[t]) {
		return nil, fmt.Errorf("conflict (%d,%d): %w", t, c, ErrNotFound)
	}

	return g.conflicts[t][c], nil
}

// Detection returns detection factor (t, d).
func (g *Graph) Detection(t, d int) (tracker.DetectionFactor, error) {
	f, err := g.detection(t, d)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// Conflict returns conflict factor (t, c).
func (g *Graph) Conflict(t, c int) (tracker.ConflictFactor, error) {
	f, err := g.conflict(t, c)
	if err != nil {
		return nil, err
	}

	return f, nil
}

// Run records the iteration budget; no messages are passed.
func (g *Graph) Run(maxIterations int) { g.Iterations += maxIterations }

// ForwardStep records the call.
func (g *Graph) ForwardStep(int) { g.Steps++ }

// BackwardStep records the call.
func (g *Graph) BackwardStep(int) { g.Steps++ }

// LowerBound sums the local minima of all factors.
func (g *Graph) LowerBound() float64 {
	var lb float64
	for t := range g.detections {
		for _, f := range g.detections[t] {
			lb += f.lowerBound()
		}
	}
	for t := range g.conflicts {
		for _, f := range g.conflicts[t] {
			lb += minOf(f.costs)
		}
	}

	return lb
}

// EvaluatePrimal sums the local costs selected by the current assignment.
func (g *Graph) EvaluatePrimal() float64 {
	var ub float64
	for t := range g.detections {
		for _, f := range g.detections[t] {
			ub += f.evaluate()
		}
	}
	for t := range g.conflicts {
		for _, f := range g.conflicts[t] {
			if f.primal != tracker.Unassigned {
				ub += f.costs[f.primal]
			}
		}
	}

	return ub
}

// Destroy counts the release.
func (g *Graph) Destroy() { g.Destroyed++ }

// Assign sets the primal of detection (t, d): in and out are slots where the
// edge count selects appearance/disappearance; pass tracker.Unassigned for both
// to switch the detection off. Mixed assignments are accepted so that
// callers can reproduce a faulty engine.
func (g *Graph) Assign(t, d, in, out int) error {
	f, err := g.detection(t, d)
	if err != nil {
		return err
	}
	if in < tracker.Unassigned || in >= len(f.incoming) || out < tracker.Unassigned || out >= len(f.outgoing) {
		return fmt.Errorf("Assign(%d,%d): %w", t, d, ErrSlot)
	}
	f.inPrimal, f.outPrimal = in, out

	return nil
}

// AssignConflict sets the primal of conflict (t, c); members selects "off".
func (g *Graph) AssignConflict(t, c, slot int) error {
	f, err := g.conflict(t, c)
	if err != nil {
		return err
	}
	if slot < tracker.Unassigned || slot >= len(f.costs) {
		return fmt.Errorf("AssignConflict(%d,%d): %w", t, c, ErrSlot)
	}
	f.primal = slot

	return nil
}
