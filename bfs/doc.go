// SPDX-License-Identifier: MIT

// Package bfs provides breadth-first search over a hypergraph with dense
// integer node ids, covering every connected component.
//
// What
//
//   - Nodes are 0..n-1; an edge is any list of nodes, all pairwise adjacent.
//   - Walk visits every node exactly once. Components are explored in order
//     of their smallest node, starting from that node.
//   - Neighbors are enqueued in ascending id order, so the visit sequence is
//     fully reproducible.
//   - Returns a Result containing:
//   - Order: visit sequence over all components
//   - Depth: distance (edges) from the component root
//   - Parent: BFS tree predecessor, -1 for roots
//   - Component: component index of every node
//   - Hooks: OnVisit (may abort with an error), cancellation via WithContext.
//
// Permutation inverts a visit order into per-node positions.
//
// Complexity (V = nodes, E = edges, S = Σ|edge|)
//
//   - Time:   O(V log V + S·k) where k is the largest edge size.
//   - Memory: O(V + S).
//
// Errors
//
//   - ErrNegativeSize    if n < 0.
//   - ErrNodeOutOfRange  if an edge names a node outside [0, n).
//   - ErrNotPermutation  if Permutation gets anything but a permutation of 0..n-1.
//   - Any OnVisit error, wrapped; ctx.Err() on cancellation.
package bfs
