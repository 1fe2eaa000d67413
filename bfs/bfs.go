// SPDX-License-Identifier: MIT

package bfs

import (
	"context"
	"fmt"
	"slices"
)

// queueItem pairs a node with its BFS depth.
type queueItem struct {
	node  int
	depth int
}

// walker encapsulates mutable BFS state.
type walker struct {
	opts     Options
	ctx      context.Context
	edges    [][]int
	incident [][]int // node → indices into edges
	queue    []queueItem
	visited  []bool
	res      *Result
}

// Walk runs breadth-first search over all components of the hypergraph with
// n nodes and the given edges.
//
// Implementation:
//   - Stage 1: Validate edges and index node → incident edges.
//   - Stage 2: For each unvisited node in ascending order, start a new
//     component and drain the queue, enqueuing unvisited neighbors in
//     ascending order.
//
// Returns ErrNegativeSize, ErrNodeOutOfRange, any OnVisit error or the
// context error.
func Walk(n int, edges [][]int, opts ...Option) (*Result, error) {
	if n < 0 {
		return nil, ErrNegativeSize
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	incident := make([][]int, n)
	for e, edge := range edges {
		for _, v := range edge {
			if v < 0 || v >= n {
				return nil, fmt.Errorf("bfs: edge %d: node %d: %w", e, v, ErrNodeOutOfRange)
			}
			incident[v] = append(incident[v], e)
		}
	}

	w := &walker{
		opts:     o,
		ctx:      o.Ctx,
		edges:    edges,
		incident: incident,
		queue:    make([]queueItem, 0, n),
		visited:  make([]bool, n),
		res: &Result{
			Order:     make([]int, 0, n),
			Depth:     make([]int, n),
			Parent:    make([]int, n),
			Component: make([]int, n),
		},
	}
	for root := 0; root < n; root++ {
		if w.visited[root] {
			continue
		}
		w.enqueue(root, 0, -1)
		if err := w.loop(); err != nil {
			return w.res, err
		}
		w.res.Components++
	}

	return w.res, nil
}

// enqueue marks node visited at depth d in the current component.
func (w *walker) enqueue(node, d, parent int) {
	w.visited[node] = true
	w.res.Depth[node] = d
	w.res.Parent[node] = parent
	w.res.Component[node] = w.res.Components
	w.queue = append(w.queue, queueItem{node: node, depth: d})
}

// loop processes the queue until empty, error, or cancellation.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		item := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, item.node)
		if err := w.opts.OnVisit(item.node, item.depth); err != nil {
			return fmt.Errorf("bfs: OnVisit error at %d: %w", item.node, err)
		}
		for _, nbr := range w.neighbors(item.node) {
			w.enqueue(nbr, item.depth+1, item.node)
		}
	}

	return nil
}

// neighbors returns the unvisited neighbors of node in ascending order.
func (w *walker) neighbors(node int) []int {
	var out []int
	for _, e := range w.incident[node] {
		for _, v := range w.edges[e] {
			if v != node && !w.visited[v] {
				out = append(out, v)
			}
		}
	}
	slices.Sort(out)

	return slices.Compact(out)
}

// Permutation returns the inverse of order: pos[order[i]] == i.
// Returns ErrNotPermutation unless order is a permutation of 0..len(order)-1.
func Permutation(order []int) ([]int, error) {
	pos := make([]int, len(order))
	for i := range pos {
		pos[i] = -1
	}
	for i, v := range order {
		if v < 0 || v >= len(order) || pos[v] != -1 {
			return nil, fmt.Errorf("bfs: permutation: entry %d = %d: %w", i, v, ErrNotPermutation)
		}
		pos[v] = i
	}

	return pos, nil
}
