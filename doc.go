// SPDX-License-Identifier: MIT

// Package ct is the model and bookkeeping core of a conflict-aware cell
// tracker: detections over timesteps, transitions and divisions between
// consecutive timesteps, and conflict sets of mutually exclusive detections.
//
// Everything is organized in flat subpackages:
//
//	model/          Model with positional slot arenas, Dump / ParseDump
//	primals/        activation overlay, incidence counters, consistency, Evaluate
//	txt/            exchange-format Reader, Convert, Format, compressed Open
//	lp/             solver-agnostic LP description, Solver interface, dual helpers
//	solver/         Standard and Decomposed LP adapters, Reparametrize
//	tracker/        native tracker boundary: Construct, ExtractPrimals, lifetime
//	tracker/memory/ in-process native backend
//	bfs/            hypergraph breadth-first search
//	lineage/        connected tracks of a solution
//
// The numeric engines are external: an lp.Solver for LP/ILP and a
// tracker.Native for the message-passing lower bound. A typical round:
//
//	m, ids, _ := txt.Load("model.txt.xz")
//	tr, _ := tracker.Construct(m, native)
//	_ = tr.Run(0)
//	d, _ := solver.NewDecomposed(m, tr, solver.WithRelaxation())
//	_ = d.Run(ctx, engine)
//	_ = d.Reparametrize()        // tracker now carries the LP's reduced costs
//	p, _ := tracker.ExtractPrimals(tr)
//	_ = txt.Format(os.Stdout, p, ids)
package ct
