// SPDX-License-Identifier: MIT

package lp

import (
	"fmt"
	"math"
)

// ReducedCosts returns rc = c − Aᵀy for the dual vector y.
//
// Implementation:
//   - Stage 1: Validate len(y) == NumConstraints.
//   - Stage 2: Start from the objective coefficients.
//   - Stage 3: For every row i and term (j, a_ij) subtract y_i·a_ij from rc_j.
//
// Complexity: O(V + nnz(A)).
func ReducedCosts(p *Problem, y []float64) ([]float64, error) {
	if len(y) != p.NumConstraints() {
		return nil, fmt.Errorf("ReducedCosts: %d duals for %d rows: %w", len(y), p.NumConstraints(), ErrShape)
	}
	rc := make([]float64, p.NumVars())
	for j, v := range p.vars {
		rc[j] = v.Obj
	}
	for i, c := range p.constr {
		if y[i] == 0 {
			continue
		}
		for _, t := range c.Terms {
			rc[t.Var] -= y[i] * t.Coeff
		}
	}

	return rc, nil
}

// DualBound returns the Lagrangian lower bound for dual vector y:
//
//	bᵀy + Σ_j min_{l_j ≤ x_j ≤ u_j} rc_j·x_j
//
// The bound is −Inf when some rc_j < 0 and u_j is unbounded. It does not
// check dual feasibility of y with respect to inequality signs.
//
// Complexity: O(V + nnz(A)).
func DualBound(p *Problem, y []float64) (float64, error) {
	rc, err := ReducedCosts(p, y)
	if err != nil {
		return 0, err
	}
	var bound float64
	for i, c := range p.constr {
		bound += c.RHS * y[i]
	}
	for j, v := range p.vars {
		switch {
		case rc[j] > 0:
			bound += rc[j] * v.Lower
		case rc[j] < 0:
			if math.IsInf(v.Upper, 1) {
				return math.Inf(-1), nil
			}
			bound += rc[j] * v.Upper
		}
	}

	return bound, nil
}

// Objective returns cᵀx.
func Objective(p *Problem, x []float64) (float64, error) {
	if len(x) != p.NumVars() {
		return 0, fmt.Errorf("Objective: %d values for %d vars: %w", len(x), p.NumVars(), ErrShape)
	}
	var sum float64
	for j, v := range p.vars {
		sum += v.Obj * x[j]
	}

	return sum, nil
}

// Violation returns the largest amount by which x breaks a bound or a row.
// Zero means x is feasible.
func Violation(p *Problem, x []float64) (float64, error) {
	if len(x) != p.NumVars() {
		return 0, fmt.Errorf("Violation: %d values for %d vars: %w", len(x), p.NumVars(), ErrShape)
	}
	var worst float64
	for j, v := range p.vars {
		worst = math.Max(worst, v.Lower-x[j])
		worst = math.Max(worst, x[j]-v.Upper)
	}
	for _, c := range p.constr {
		var lhs float64
		for _, t := range c.Terms {
			lhs += t.Coeff * x[t.Var]
		}
		switch c.Sense {
		case Eq:
			worst = math.Max(worst, math.Abs(lhs-c.RHS))
		case Le:
			worst = math.Max(worst, lhs-c.RHS)
		case Ge:
			worst = math.Max(worst, c.RHS-lhs)
		}
	}

	return worst, nil
}

// CompleteFromDuals fills sol.ReducedCosts and sol.ObjBound from sol.Duals
// and sets sol.Objective from sol.Values. Engines that report only duals use
// it to produce a full Solution.
func CompleteFromDuals(p *Problem, sol *Solution) error {
	rc, err := ReducedCosts(p, sol.Duals)
	if err != nil {
		return err
	}
	bound, err := DualBound(p, sol.Duals)
	if err != nil {
		return err
	}
	obj, err := Objective(p, sol.Values)
	if err != nil {
		return err
	}
	sol.ReducedCosts, sol.ObjBound, sol.Objective = rc, bound, obj

	return nil
}
