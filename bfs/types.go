// SPDX-License-Identifier: MIT

package bfs

import (
	"context"
	"errors"
)

// Sentinel errors for hypergraph BFS.
var (
	// ErrNegativeSize is returned for a negative node count.
	ErrNegativeSize = errors.New("bfs: negative node count")

	// ErrNodeOutOfRange is returned when an edge names an unknown node.
	ErrNodeOutOfRange = errors.New("bfs: node out of range")

	// ErrNotPermutation is returned when an order is not a permutation.
	ErrNotPermutation = errors.New("bfs: not a permutation")
)

// Option configures BFS behavior via functional arguments.
type Option func(*Options)

// Options holds parameters and callbacks to customize the walk.
type Options struct {
	// Ctx allows cancellation and deadlines.
	Ctx context.Context

	// OnVisit is called when visiting a node. If it returns an error,
	// the walk aborts and propagates that error.
	OnVisit func(node, depth int) error
}

// DefaultOptions returns Options with context.Background() and a no-op hook.
func DefaultOptions() Options {
	return Options{
		Ctx:     context.Background(),
		OnVisit: func(int, int) error { return nil },
	}
}

// WithContext sets a custom context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithOnVisit registers a callback to run on visit; returning an error
// from this callback stops the walk.
func WithOnVisit(fn func(node, depth int) error) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnVisit = fn
		}
	}
}

// Result holds the outcome of a walk. All slices are indexed by node except Order.
type Result struct {
	Order      []int
	Depth      []int
	Parent     []int
	Component  []int
	Components int
}

// PathTo reconstructs the tree path from the component root to node.
// Returns nil for a node outside the result.
func (r *Result) PathTo(node int) []int {
	if node < 0 || node >= len(r.Parent) {
		return nil
	}
	path := []int{}
	for cur := node; cur != -1; cur = r.Parent[cur] {
		path = append(path, cur)
	}
	// reverse to get root → node
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}

// Positions returns, per node, its index in Order.
func (r *Result) Positions() []int {
	pos, _ := Permutation(r.Order) // Order is a permutation by construction

	return pos
}
