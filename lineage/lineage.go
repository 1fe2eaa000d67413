// SPDX-License-Identifier: MIT

// Package lineage splits a consistent solution into its connected tracks.
//
// A lineage is a connected component of the active detections under the
// active transitions and divisions. Lineages are returned in order of their
// earliest detection; within a lineage, detections appear in breadth-first
// order from that detection and edges in order of their source's position.
package lineage

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/katalvlaran/ct/bfs"
	"github.com/katalvlaran/ct/model"
	"github.com/katalvlaran/ct/primals"
)

// Lineage is one connected track of a solution.
type Lineage struct {
	Detections  []model.DetectionKey
	Transitions []model.TransitionKey
	Divisions   []model.DivisionKey
}

// Start returns the first timestep of l.
func (l Lineage) Start() int { return l.Detections[0].Timestep }

// End returns the last timestep of l.
func (l Lineage) End() int {
	end := l.Start()
	for _, k := range l.Detections {
		end = max(end, k.Timestep)
	}

	return end
}

// Extract returns the lineages of p.
//
// Implementation:
//   - Stage 1: Number the active detections in key order.
//   - Stage 2: Every active transition and division becomes a hyperedge over
//     its endpoints; bfs.Walk yields components in order of their smallest
//     node, which is the earliest detection.
//   - Stage 3: Distribute detections in visit order, then edges sorted by the
//     visit position of their source.
//
// Errors:
//   - primals.ErrInconsistent, wrapped, if p fails CheckConsistency.
//
// Complexity: O(V log V + E log E).
func Extract(p *primals.Primals) ([]Lineage, error) {
	if !p.CheckConsistency() {
		return nil, fmt.Errorf("lineage: extract: %w", primals.ErrInconsistent)
	}
	dets := p.ActiveDetections()
	index := make(map[model.DetectionKey]int, len(dets))
	for i, k := range dets {
		index[k] = i
	}

	transitions := p.ActiveTransitions()
	divisions := p.ActiveDivisions()
	edges := make([][]int, 0, len(transitions)+len(divisions))
	for _, k := range transitions {
		edges = append(edges, []int{index[k.Left()], index[k.Right()]})
	}
	for _, k := range divisions {
		edges = append(edges, []int{index[k.Left()], index[k.Right1()], index[k.Right2()]})
	}

	res, err := bfs.Walk(len(dets), edges)
	if err != nil {
		return nil, fmt.Errorf("lineage: extract: %w", err)
	}
	pos := res.Positions()

	out := make([]Lineage, res.Components)
	for _, n := range res.Order {
		c := res.Component[n]
		out[c].Detections = append(out[c].Detections, dets[n])
	}

	slices.SortStableFunc(transitions, func(a, b model.TransitionKey) int {
		return cmp.Compare(pos[index[a.Left()]], pos[index[b.Left()]])
	})
	for _, k := range transitions {
		c := res.Component[index[k.Left()]]
		out[c].Transitions = append(out[c].Transitions, k)
	}
	slices.SortStableFunc(divisions, func(a, b model.DivisionKey) int {
		return cmp.Compare(pos[index[a.Left()]], pos[index[b.Left()]])
	})
	for _, k := range divisions {
		c := res.Component[index[k.Left()]]
		out[c].Divisions = append(out[c].Divisions, k)
	}

	return out, nil
}
