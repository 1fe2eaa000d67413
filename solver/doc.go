// SPDX-License-Identifier: MIT

// Package solver translates a *model.Model into linear programs for an
// external lp.Solver and reads the answers back.
//
// Two formulations are offered:
//
//   - Standard: one variable per detection, transition and division, plus an
//     appearance and a disappearance variable per detection. Flow
//     conservation ties the incoming and the outgoing side to the detection
//     variable; conflict sets become at-most-one rows.
//
//   - Decomposed: mirrors the native tracker's factors. Each detection owns
//     variables for each incoming slot (plus appearance), each outgoing slot
//     (plus disappearance), itself, and a slack with detection + slack == 1.
//     Each conflict owns one variable per member plus an "off" variable summing
//     to one. Coupling rows equate the two endpoint slots of every edge.
//     Objective coefficients are read from the tracker's factors, so a
//     previously reparametrized tracker can seed it.
//
// The slack exists so that the upper bound of the detection variable is a
// real row with a dual, not an implicit bound the engine hides; every
// decomposed variable is therefore unbounded above.
//
// # Reparametrization
//
// After the decomposed LP was solved in continuous mode over the full
// timestep range, Reparametrize writes the reduced costs back into the
// tracker's factors:
//
//	detection      ← rc(detection) − rc(slack)
//	incoming[i]    ← rc(incoming_i),  appearance    ← rc(appearance)
//	outgoing[i]    ← rc(outgoing_i),  disappearance ← rc(disappearance)
//	conflict[i]    ← rc(conflict_i) − rc(conflict_off)
//
// and then requires |ObjBound − tracker lower bound| < Options.Tolerance.
// Disagreement is returned as *BoundMismatchError; it is a correctness
// failure, not a warning.
//
// # Errors
//
//	ErrNotSolved           - primals or reduced costs requested before a solve.
//	ErrNotRelaxed          - Reparametrize on a binary (ILP) problem.
//	ErrRestricted          - Reparametrize on a restricted timestep range.
//	ErrModelMismatch       - tracker built from a different Model.
//	ErrBoundMismatch       - bounds disagree beyond tolerance.
//	ErrInconsistentPrimals - thresholded LP solution fails CheckConsistency.
//	ErrBadThreshold        - configured threshold outside (0, 1).
//	ErrBadTolerance        - configured tolerance not positive.
package solver
