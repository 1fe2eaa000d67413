// SPDX-License-Identifier: MIT

// Package lp describes linear (and binary) programs in a solver-agnostic
// form and defines the boundary to an external LP/ILP engine.
//
// A Problem is a list of variables (objective coefficient, bounds, binary
// flag) and a list of sparse linear constraints. The engine behind Solver
// receives the Problem and returns a Solution carrying primal values and,
// for continuous problems, dual values and reduced costs.
//
// Reduced costs follow the usual convention for a minimization:
//
//	rc_j = c_j − Σ_i y_i · a_ij
//
// ReducedCosts and DualBound compute them from a dual vector, which lets an
// engine that reports only duals (or a test double) produce a complete
// Solution.
//
// # Errors
//
//	ErrNoSolver    - Solve was asked of a nil Solver.
//	ErrShape       - a vector does not match the problem dimensions.
//	ErrUnknownVar  - a constraint term references a variable that does not exist.
package lp
