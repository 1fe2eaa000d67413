// SPDX-License-Identifier: MIT

package lp

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for problem assembly and solution post-processing.
var (
	// ErrNoSolver indicates a nil Solver.
	ErrNoSolver = errors.New("lp: no solver")

	// ErrShape indicates a vector whose length does not match the problem.
	ErrShape = errors.New("lp: dimension mismatch")

	// ErrUnknownVar indicates a term referencing a missing variable.
	ErrUnknownVar = errors.New("lp: unknown variable")
)

// VarID indexes a variable in its Problem.
type VarID int

// ConstrID indexes a constraint in its Problem.
type ConstrID int

// Sense is the relation of a Constraint.
type Sense int

const (
	// Eq is Σ a·x == rhs.
	Eq Sense = iota
	// Le is Σ a·x <= rhs.
	Le
	// Ge is Σ a·x >= rhs.
	Ge
)

func (s Sense) String() string {
	switch s {
	case Eq:
		return "=="
	case Le:
		return "<="
	case Ge:
		return ">="
	default:
		return fmt.Sprintf("Sense(%d)", int(s))
	}
}

// Var is one decision variable.
// Upper may be math.Inf(1) for an unbounded variable.
type Var struct {
	Name   string
	Obj    float64
	Lower  float64
	Upper  float64
	Binary bool
}

// Term is one coefficient of a constraint row.
type Term struct {
	Var   VarID
	Coeff float64
}

// Constraint is one sparse linear row. Name is informational.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Problem is a minimization over Vars subject to Constraints.
type Problem struct {
	vars   []Var
	constr []Constraint
	cutoff float64
}

// NewProblem creates an empty minimization problem without cutoff.
func NewProblem() *Problem {
	return &Problem{cutoff: math.Inf(1)}
}

// AddVar appends v and returns its id.
// Complexity: amortized O(1).
func (p *Problem) AddVar(v Var) VarID {
	p.vars = append(p.vars, v)

	return VarID(len(p.vars) - 1)
}

// AddConstraint appends c and returns its id.
//
// Errors:
//   - ErrUnknownVar if any term references a variable not yet added.
func (p *Problem) AddConstraint(c Constraint) (ConstrID, error) {
	for _, t := range c.Terms {
		if int(t.Var) < 0 || int(t.Var) >= len(p.vars) {
			return 0, fmt.Errorf("AddConstraint: var %d: %w", t.Var, ErrUnknownVar)
		}
	}
	p.constr = append(p.constr, c)

	return ConstrID(len(p.constr) - 1), nil
}

// Sum builds the terms Σ 1·v over vars.
func Sum(vars ...VarID) []Term {
	out := make([]Term, len(vars))
	for i, v := range vars {
		out[i] = Term{Var: v, Coeff: 1}
	}

	return out
}

// NumVars returns the number of variables.
func (p *Problem) NumVars() int { return len(p.vars) }

// NumConstraints returns the number of constraints.
func (p *Problem) NumConstraints() int { return len(p.constr) }

// Var returns variable id.
func (p *Problem) Var(id VarID) Var { return p.vars[id] }

// Constraint returns constraint id.
func (p *Problem) Constraint(id ConstrID) Constraint { return p.constr[id] }

// SetCutoff declares that solutions worse than v are of no interest.
// Engines may use it to prune; it never changes the optimum below v.
func (p *Problem) SetCutoff(v float64) { p.cutoff = v }

// Cutoff returns the declared cutoff, +Inf when unset.
func (p *Problem) Cutoff() float64 { return p.cutoff }

// Solution is what an engine reports back.
//
// Values is indexed by VarID. ReducedCosts (by VarID) and Duals (by ConstrID)
// are only meaningful for continuous problems. ObjBound is the best proven
// lower bound on the optimum; for a solved LP it equals the dual objective.
type Solution struct {
	Values       []float64
	ReducedCosts []float64
	Duals        []float64
	Objective    float64
	ObjBound     float64
}

// Value returns the primal value of id.
func (s *Solution) Value(id VarID) float64 { return s.Values[id] }

// ReducedCost returns the reduced cost of id.
func (s *Solution) ReducedCost(id VarID) float64 { return s.ReducedCosts[id] }

// Solver is the external LP/ILP engine. Solve runs to completion; the
// context is handed to the engine and the core never cancels it mid-solve.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (*Solution, error)
}

// Solve validates the inputs and delegates to s.
//
// Errors:
//   - ErrNoSolver if s is nil.
//   - ErrShape if the engine reports vectors of the wrong length.
//   - any engine error, wrapped.
func Solve(ctx context.Context, s Solver, p *Problem) (*Solution, error) {
	if s == nil {
		return nil, ErrNoSolver
	}
	sol, err := s.Solve(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("lp: solve: %w", err)
	}
	if len(sol.Values) != p.NumVars() {
		return nil, fmt.Errorf("lp: solve: %d values for %d vars: %w", len(sol.Values), p.NumVars(), ErrShape)
	}
	if sol.ReducedCosts != nil && len(sol.ReducedCosts) != p.NumVars() {
		return nil, fmt.Errorf("lp: solve: %d reduced costs for %d vars: %w", len(sol.ReducedCosts), p.NumVars(), ErrShape)
	}

	return sol, nil
}
