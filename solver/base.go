// SPDX-License-Identifier: MIT

package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/ct/lp"
	"github.com/katalvlaran/ct/model"
	"github.com/katalvlaran/ct/tracker"
)

// base is the bookkeeping shared by both formulations.
type base struct {
	m        *model.Model
	opts     Options
	problem  *lp.Problem
	solution *lp.Solution
}

func newBase(m *model.Model, opts []Option) base {
	return base{m: m, opts: gatherOptions(opts), problem: lp.NewProblem()}
}

// variable adds a variable with objective obj, lower bound 0 and the given
// upper bound. Binary follows the configured mode.
func (b *base) variable(name string, obj, upper float64) lp.VarID {
	return b.problem.AddVar(lp.Var{Name: name, Obj: obj, Lower: 0, Upper: upper, Binary: b.opts.ILP})
}

func (b *base) constrain(name string, terms []lp.Term, sense lp.Sense, rhs float64) error {
	if _, err := b.problem.AddConstraint(lp.Constraint{Name: name, Terms: terms, Sense: sense, RHS: rhs}); err != nil {
		return fmt.Errorf("solver: constraint %s: %w", name, err)
	}

	return nil
}

// equal adds the row a − b == 0.
func (b *base) equal(name string, x, y lp.VarID) error {
	return b.constrain(name, []lp.Term{{Var: x, Coeff: 1}, {Var: y, Coeff: -1}}, lp.Eq, 0)
}

// Problem exposes the assembled program.
func (b *base) Problem() *lp.Problem { return b.problem }

// Solution returns the last solve's result, or nil.
func (b *base) Solution() *lp.Solution { return b.solution }

// SetUpperBound declares v as a cutoff: solutions worse than v are of no interest.
func (b *base) SetUpperBound(v float64) { b.problem.SetCutoff(v) }

// UpdateUpperBound uses the tracker's current primal value as a cutoff.
func (b *base) UpdateUpperBound(tr *tracker.Tracker) error {
	ub, err := tr.EvaluatePrimal()
	if err != nil {
		return fmt.Errorf("solver: update upper bound: %w", err)
	}
	b.SetUpperBound(ub)

	return nil
}

func (b *base) run(ctx context.Context, s lp.Solver) error {
	sol, err := lp.Solve(ctx, s, b.problem)
	if err != nil {
		return err
	}
	b.solution = sol
	b.opts.Logger.Debug("lp solved",
		"vars", b.problem.NumVars(),
		"constraints", b.problem.NumConstraints(),
		"objective", sol.Objective,
		"bound", sol.ObjBound,
		"ilp", b.opts.ILP)

	return nil
}

func (b *base) active(v lp.VarID) bool {
	return b.solution.Value(v) > b.opts.Threshold
}

func unbounded() float64 { return math.Inf(1) }
