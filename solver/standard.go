// SPDX-License-Identifier: MIT

package solver

import (
	"context"
	"fmt"

	"github.com/katalvlaran/ct/lp"
	"github.com/katalvlaran/ct/model"
	"github.com/katalvlaran/ct/primals"
)

// StandardVars are the decision variables of one detection.
type StandardVars struct {
	Detection     lp.VarID
	Appearance    lp.VarID
	Disappearance lp.VarID
}

// Standard is the direct LP/ILP formulation of a Model.
type Standard struct {
	base
	detections  map[model.DetectionKey]StandardVars
	transitions map[model.TransitionKey]lp.VarID
	divisions   map[model.DivisionKey]lp.VarID
}

// NewStandard assembles the direct formulation of m.
//
// Implementation:
//   - Stage 1: Per detection, add detection, appearance and disappearance
//     variables in [0, 1] with the Model's costs.
//   - Stage 2: Per transition and division, one variable in [0, 1] with its cost.
//   - Stage 3: Per detection, appearance + Σ incoming == detection and
//     disappearance + Σ outgoing == detection.
//   - Stage 4: Per conflict, Σ members <= 1.
//
// Complexity: O(V + E + Σ|conflict|).
func NewStandard(m *model.Model, opts ...Option) (*Standard, error) {
	s := &Standard{
		base:        newBase(m, opts),
		detections:  make(map[model.DetectionKey]StandardVars),
		transitions: make(map[model.TransitionKey]lp.VarID),
		divisions:   make(map[model.DivisionKey]lp.VarID),
	}
	if err := s.build(); err != nil {
		return nil, fmt.Errorf("NewStandard: %w", err)
	}

	return s, nil
}

func (s *Standard) build() error {
	m := s.m
	for t := 0; t < m.Timesteps(); t++ {
		for d := 0; d < m.Detections(t); d++ {
			c, _ := m.Detection(t, d)
			s.detections[model.DetectionKey{Timestep: t, Index: d}] = StandardVars{
				Detection:     s.variable(fmt.Sprintf("detection_%d_%d", t, d), c.Detection, 1),
				Appearance:    s.variable(fmt.Sprintf("appearance_%d_%d", t, d), c.Appearance, 1),
				Disappearance: s.variable(fmt.Sprintf("disappearance_%d_%d", t, d), c.Disappearance, 1),
			}
		}
	}
	for _, k := range m.TransitionKeys() {
		tr, _ := m.Transition(k)
		s.transitions[k] = s.variable(fmt.Sprintf("transition_%d_%d_%d", k.Timestep, k.From, k.To), tr.Cost, 1)
	}
	for _, k := range m.DivisionKeys() {
		div, _ := m.Division(k)
		s.divisions[k] = s.variable(fmt.Sprintf("division_%d_%d_%d_%d", k.Timestep, k.From, k.To1, k.To2), div.Cost, 1)
	}

	for t := 0; t < m.Timesteps(); t++ {
		for d := 0; d < m.Detections(t); d++ {
			v := s.detections[model.DetectionKey{Timestep: t, Index: d}]

			in := []lp.Term{{Var: v.Appearance, Coeff: 1}, {Var: v.Detection, Coeff: -1}}
			for i := 0; i < m.IncomingEdges(t, d); i++ {
				ref, _ := m.IncomingSlot(t, d, i)
				in = append(in, lp.Term{Var: s.edge(ref), Coeff: 1})
			}
			if err := s.constrain(fmt.Sprintf("incoming_%d_%d", t, d), in, lp.Eq, 0); err != nil {
				return err
			}

			out := []lp.Term{{Var: v.Disappearance, Coeff: 1}, {Var: v.Detection, Coeff: -1}}
			for i := 0; i < m.OutgoingEdges(t, d); i++ {
				ref, _ := m.OutgoingSlot(t, d, i)
				out = append(out, lp.Term{Var: s.edge(ref), Coeff: 1})
			}
			if err := s.constrain(fmt.Sprintf("outgoing_%d_%d", t, d), out, lp.Eq, 0); err != nil {
				return err
			}
		}

		for c := 0; c < m.Conflicts(t); c++ {
			members, _ := m.Conflict(t, c)
			vars := make([]lp.VarID, len(members))
			for i, d := range members {
				vars[i] = s.detections[model.DetectionKey{Timestep: t, Index: d}].Detection
			}
			if err := s.constrain(fmt.Sprintf("conflict_%d_%d", t, c), lp.Sum(vars...), lp.Le, 1); err != nil {
				return err
			}
		}
	}
	s.opts.Logger.Debug("standard formulation built",
		"vars", s.problem.NumVars(), "constraints", s.problem.NumConstraints())

	return nil
}

func (s *Standard) edge(ref model.EdgeRef) lp.VarID {
	if ref.Kind == model.KindDivision {
		return s.divisions[ref.Division]
	}

	return s.transitions[ref.Transition]
}

// DetectionVars returns the variables of detection (t, d).
func (s *Standard) DetectionVars(t, d int) (StandardVars, bool) {
	v, ok := s.detections[model.DetectionKey{Timestep: t, Index: d}]
	return v, ok
}

// TransitionVar returns the variable of transition k.
func (s *Standard) TransitionVar(k model.TransitionKey) (lp.VarID, bool) {
	v, ok := s.transitions[k]
	return v, ok
}

// DivisionVar returns the variable of division k.
func (s *Standard) DivisionVar(k model.DivisionKey) (lp.VarID, bool) {
	v, ok := s.divisions[k]
	return v, ok
}

// Run hands the problem to the engine and keeps its solution.
func (s *Standard) Run(ctx context.Context, engine lp.Solver) error {
	if err := s.run(ctx, engine); err != nil {
		return fmt.Errorf("Standard.Run: %w", err)
	}

	return nil
}

// Primals thresholds the solution: a detection, transition or division is
// active iff its variable exceeds Options.Threshold. Appearance and
// disappearance follow from the incidence counters.
//
// Errors:
//   - ErrNotSolved before a successful Run.
//   - ErrInconsistentPrimals if the thresholded assignment fails CheckConsistency.
func (s *Standard) Primals() (*primals.Primals, error) {
	if s.solution == nil {
		return nil, fmt.Errorf("Standard.Primals: %w", ErrNotSolved)
	}
	p := primals.New(s.m)
	for k, v := range s.detections {
		if s.active(v.Detection) {
			if err := p.SetDetection(k.Timestep, k.Index, true); err != nil {
				return nil, fmt.Errorf("Standard.Primals: %w", err)
			}
		}
	}
	for k, v := range s.transitions {
		if s.active(v) {
			if err := p.SetTransition(k, true); err != nil {
				return nil, fmt.Errorf("Standard.Primals: %w", err)
			}
		}
	}
	for k, v := range s.divisions {
		if s.active(v) {
			if err := p.SetDivision(k, true); err != nil {
				return nil, fmt.Errorf("Standard.Primals: %w", err)
			}
		}
	}
	if !p.CheckConsistency() {
		return nil, fmt.Errorf("Standard.Primals: %w", ErrInconsistentPrimals)
	}

	return p, nil
}
