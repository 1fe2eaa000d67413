// SPDX-License-Identifier: MIT

package solver

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/katalvlaran/ct/lp"
	"github.com/katalvlaran/ct/model"
	"github.com/katalvlaran/ct/primals"
	"github.com/katalvlaran/ct/tracker"
)

// DecomposedVars are the variables of one detection factor. The last entry of
// Incoming is the appearance variable, the last entry of Outgoing the
// disappearance variable.
type DecomposedVars struct {
	Incoming  []lp.VarID
	Outgoing  []lp.VarID
	Detection lp.VarID
	Slack     lp.VarID
}

// Decomposed is the factor-mirroring formulation seeded from a tracker.
type Decomposed struct {
	base
	tr         *tracker.Tracker
	timesteps  []int
	restricted bool
	detections map[model.DetectionKey]DecomposedVars
	conflicts  map[model.ConflictKey][]lp.VarID // last entry is "off"
}

// NewDecomposed assembles the factor-mirroring formulation of m with
// objective coefficients read from tr's factors. With WithTimesteps only the
// listed timesteps are built, each once and in ascending order; edges leaving
// that set are skipped.
//
// Implementation:
//   - Stage 1: Per built timestep, detection variables (incoming slots,
//     appearance, outgoing slots, disappearance, detection, slack) with
//     Σ incoming == detection, Σ outgoing == detection, detection + slack == 1;
//     then conflict variables (members, off) with Σ == 1.
//   - Stage 2: Link conflict member i to its detection variable.
//   - Stage 3: Per edge with both endpoints built, equate the left outgoing
//     slot with each right incoming slot.
//
// Errors:
//   - ErrModelMismatch if tr is nil or was built from another Model.
//   - tracker.ErrClosed if tr is closed.
//
// Complexity: O(V + E + Σ|conflict|).
func NewDecomposed(m *model.Model, tr *tracker.Tracker, opts ...Option) (*Decomposed, error) {
	if tr == nil || tr.Model() != m {
		return nil, fmt.Errorf("NewDecomposed: %w", ErrModelMismatch)
	}
	d := &Decomposed{
		base:       newBase(m, opts),
		tr:         tr,
		detections: make(map[model.DetectionKey]DecomposedVars),
		conflicts:  make(map[model.ConflictKey][]lp.VarID),
	}
	if d.opts.Timesteps != nil {
		d.restricted = true
		d.timesteps = slices.Clone(d.opts.Timesteps)
		slices.Sort(d.timesteps)
		d.timesteps = slices.Compact(d.timesteps)
	} else {
		for t := 0; t < m.Timesteps(); t++ {
			d.timesteps = append(d.timesteps, t)
		}
	}
	if err := d.build(); err != nil {
		return nil, fmt.Errorf("NewDecomposed: %w", err)
	}

	return d, nil
}

func (d *Decomposed) built(t int) bool {
	return slices.Contains(d.timesteps, t)
}

func (d *Decomposed) build() error {
	m := d.m
	for _, t := range d.timesteps {
		for i := 0; i < m.Detections(t); i++ {
			v, err := d.addDetection(t, i)
			if err != nil {
				return err
			}
			d.detections[model.DetectionKey{Timestep: t, Index: i}] = v
		}
		for c := 0; c < m.Conflicts(t); c++ {
			v, err := d.addConflict(t, c)
			if err != nil {
				return err
			}
			d.conflicts[model.ConflictKey{Timestep: t, Index: c}] = v
		}
	}

	for _, t := range d.timesteps {
		for c := 0; c < m.Conflicts(t); c++ {
			members, _ := m.Conflict(t, c)
			vars := d.conflicts[model.ConflictKey{Timestep: t, Index: c}]
			for i, det := range members {
				name := fmt.Sprintf("conflict_%d_%d_%d", t, c, i)
				if err := d.equal(name, vars[i], d.detections[model.DetectionKey{Timestep: t, Index: det}].Detection); err != nil {
					return err
				}
			}
		}
	}

	for _, k := range m.TransitionKeys() {
		if !d.built(k.Timestep) || !d.built(k.Timestep+1) {
			continue
		}
		tr, _ := m.Transition(k)
		left := d.detections[k.Left()].Outgoing[tr.SlotLeft]
		right := d.detections[k.Right()].Incoming[tr.SlotRight]
		if err := d.equal(fmt.Sprintf("transition_%d_%d_%d", k.Timestep, k.From, k.To), left, right); err != nil {
			return err
		}
	}
	for _, k := range m.DivisionKeys() {
		if !d.built(k.Timestep) || !d.built(k.Timestep+1) {
			continue
		}
		div, _ := m.Division(k)
		left := d.detections[k.Left()].Outgoing[div.SlotLeft]
		right1 := d.detections[k.Right1()].Incoming[div.SlotRight1]
		right2 := d.detections[k.Right2()].Incoming[div.SlotRight2]
		name := fmt.Sprintf("division_%d_%d_%d_%d", k.Timestep, k.From, k.To1, k.To2)
		if err := d.equal(name+"_1", left, right1); err != nil {
			return err
		}
		if err := d.equal(name+"_2", left, right2); err != nil {
			return err
		}
	}
	d.opts.Logger.Debug("decomposed formulation built",
		"timesteps", len(d.timesteps),
		"restricted", d.restricted,
		"vars", d.problem.NumVars(),
		"constraints", d.problem.NumConstraints())

	return nil
}

func (d *Decomposed) addDetection(t, i int) (DecomposedVars, error) {
	f, err := d.tr.Detection(t, i)
	if err != nil {
		return DecomposedVars{}, err
	}
	inf := unbounded()
	var v DecomposedVars

	for s := 0; s < d.m.IncomingEdges(t, i); s++ {
		v.Incoming = append(v.Incoming, d.variable(fmt.Sprintf("incoming_%d_%d_%d", t, i, s), f.IncomingCost(s), inf))
	}
	v.Incoming = append(v.Incoming, d.variable(fmt.Sprintf("appearance_%d_%d", t, i), f.AppearanceCost(), inf))

	for s := 0; s < d.m.OutgoingEdges(t, i); s++ {
		v.Outgoing = append(v.Outgoing, d.variable(fmt.Sprintf("outgoing_%d_%d_%d", t, i, s), f.OutgoingCost(s), inf))
	}
	v.Outgoing = append(v.Outgoing, d.variable(fmt.Sprintf("disappearance_%d_%d", t, i), f.DisappearanceCost(), inf))

	v.Detection = d.variable(fmt.Sprintf("detection_%d_%d", t, i), f.DetectionCost(), inf)
	v.Slack = d.variable(fmt.Sprintf("slack_%d_%d", t, i), 0, inf)

	in := append(lp.Sum(v.Incoming...), lp.Term{Var: v.Detection, Coeff: -1})
	if err := d.constrain(fmt.Sprintf("incoming_%d_%d", t, i), in, lp.Eq, 0); err != nil {
		return v, err
	}
	out := append(lp.Sum(v.Outgoing...), lp.Term{Var: v.Detection, Coeff: -1})
	if err := d.constrain(fmt.Sprintf("outgoing_%d_%d", t, i), out, lp.Eq, 0); err != nil {
		return v, err
	}
	if err := d.constrain(fmt.Sprintf("slack_%d_%d", t, i), lp.Sum(v.Detection, v.Slack), lp.Eq, 1); err != nil {
		return v, err
	}

	return v, nil
}

func (d *Decomposed) addConflict(t, c int) ([]lp.VarID, error) {
	f, err := d.tr.Conflict(t, c)
	if err != nil {
		return nil, err
	}
	members, _ := d.m.Conflict(t, c)
	inf := unbounded()
	vars := make([]lp.VarID, 0, len(members)+1)
	for i := range members {
		vars = append(vars, d.variable(fmt.Sprintf("conflict_%d_%d_%d", t, c, i), f.Cost(i), inf))
	}
	vars = append(vars, d.variable(fmt.Sprintf("conflict_%d_%d_off", t, c), 0, inf))
	if err := d.constrain(fmt.Sprintf("conflict_%d_%d", t, c), lp.Sum(vars...), lp.Eq, 1); err != nil {
		return nil, err
	}

	return vars, nil
}

// DetectionVars returns the variables of detection (t, d) if it was built.
func (d *Decomposed) DetectionVars(t, i int) (DecomposedVars, bool) {
	v, ok := d.detections[model.DetectionKey{Timestep: t, Index: i}]
	return v, ok
}

// ConflictVars returns the variables of conflict (t, c) if it was built; the
// last entry is the "off" variable.
func (d *Decomposed) ConflictVars(t, c int) ([]lp.VarID, bool) {
	v, ok := d.conflicts[model.ConflictKey{Timestep: t, Index: c}]
	return v, ok
}

// Restricted reports whether only a subset of the timesteps was built.
func (d *Decomposed) Restricted() bool { return d.restricted }

// Run hands the problem to the engine and keeps its solution.
func (d *Decomposed) Run(ctx context.Context, engine lp.Solver) error {
	if err := d.run(ctx, engine); err != nil {
		return fmt.Errorf("Decomposed.Run: %w", err)
	}

	return nil
}

// UpdateUpperBound uses the seeding tracker's primal value as a cutoff.
func (d *Decomposed) UpdateUpperBound() error {
	return d.base.UpdateUpperBound(d.tr)
}

// Primals thresholds the solution. A detection is active iff its variable
// exceeds Options.Threshold; an edge is active iff any of its endpoint slot
// variables does. Edges with an endpoint outside the built range stay off.
//
// Errors:
//   - ErrNotSolved before a successful Run.
//   - ErrInconsistentPrimals if the thresholded assignment fails CheckConsistency.
func (d *Decomposed) Primals() (*primals.Primals, error) {
	if d.solution == nil {
		return nil, fmt.Errorf("Decomposed.Primals: %w", ErrNotSolved)
	}
	p := primals.New(d.m)
	for k, v := range d.detections {
		if d.active(v.Detection) {
			if err := p.SetDetection(k.Timestep, k.Index, true); err != nil {
				return nil, fmt.Errorf("Decomposed.Primals: %w", err)
			}
		}
	}
	for _, k := range d.m.TransitionKeys() {
		if !d.built(k.Timestep) || !d.built(k.Timestep+1) {
			continue
		}
		tr, _ := d.m.Transition(k)
		if d.active(d.detections[k.Left()].Outgoing[tr.SlotLeft]) ||
			d.active(d.detections[k.Right()].Incoming[tr.SlotRight]) {
			if err := p.SetTransition(k, true); err != nil {
				return nil, fmt.Errorf("Decomposed.Primals: %w", err)
			}
		}
	}
	for _, k := range d.m.DivisionKeys() {
		if !d.built(k.Timestep) || !d.built(k.Timestep+1) {
			continue
		}
		div, _ := d.m.Division(k)
		if d.active(d.detections[k.Left()].Outgoing[div.SlotLeft]) ||
			d.active(d.detections[k.Right1()].Incoming[div.SlotRight1]) ||
			d.active(d.detections[k.Right2()].Incoming[div.SlotRight2]) {
			if err := p.SetDivision(k, true); err != nil {
				return nil, fmt.Errorf("Decomposed.Primals: %w", err)
			}
		}
	}
	if !p.CheckConsistency() {
		return nil, fmt.Errorf("Decomposed.Primals: %w", ErrInconsistentPrimals)
	}

	return p, nil
}

// Reparametrize writes the reduced costs of the solved relaxation into the
// tracker's factors and checks that both lower bounds agree.
//
// Errors:
//   - ErrNotRelaxed in binary mode.
//   - ErrRestricted if built with WithTimesteps.
//   - ErrNotSolved before a successful Run or without reduced costs.
//   - *BoundMismatchError (matches ErrBoundMismatch) if
//     |ObjBound − tracker lower bound| >= Options.Tolerance.
//
// Complexity: O(V + E + Σ|conflict|) factor writes.
func (d *Decomposed) Reparametrize() error {
	switch {
	case d.opts.ILP:
		return fmt.Errorf("Decomposed.Reparametrize: %w", ErrNotRelaxed)
	case d.restricted:
		return fmt.Errorf("Decomposed.Reparametrize: %w", ErrRestricted)
	case d.solution == nil || d.solution.ReducedCosts == nil:
		return fmt.Errorf("Decomposed.Reparametrize: %w", ErrNotSolved)
	}
	rc := d.solution.ReducedCost

	for t := 0; t < d.m.Timesteps(); t++ {
		for i := 0; i < d.m.Detections(t); i++ {
			f, err := d.tr.Detection(t, i)
			if err != nil {
				return fmt.Errorf("Decomposed.Reparametrize: %w", err)
			}
			v := d.detections[model.DetectionKey{Timestep: t, Index: i}]
			f.SetDetectionCost(rc(v.Detection) - rc(v.Slack))

			n := len(v.Incoming) - 1
			for s := 0; s < n; s++ {
				f.SetIncomingCost(s, rc(v.Incoming[s]))
			}
			f.SetAppearanceCost(rc(v.Incoming[n]))

			n = len(v.Outgoing) - 1
			for s := 0; s < n; s++ {
				f.SetOutgoingCost(s, rc(v.Outgoing[s]))
			}
			f.SetDisappearanceCost(rc(v.Outgoing[n]))
		}
		for c := 0; c < d.m.Conflicts(t); c++ {
			f, err := d.tr.Conflict(t, c)
			if err != nil {
				return fmt.Errorf("Decomposed.Reparametrize: %w", err)
			}
			vars := d.conflicts[model.ConflictKey{Timestep: t, Index: c}]
			off := rc(vars[len(vars)-1])
			for s := 0; s < len(vars)-1; s++ {
				f.SetCost(s, rc(vars[s])-off)
			}
		}
	}

	native, err := d.tr.LowerBound()
	if err != nil {
		return fmt.Errorf("Decomposed.Reparametrize: %w", err)
	}
	bound := d.solution.ObjBound
	d.opts.Logger.Debug("reparametrized", "lp_bound", bound, "native_bound", native)
	if !(math.Abs(bound-native) < d.opts.Tolerance) {
		return &BoundMismatchError{LP: bound, Native: native, Tolerance: d.opts.Tolerance}
	}

	return nil
}
