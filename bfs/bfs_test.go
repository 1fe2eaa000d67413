// SPDX-License-Identifier: MIT

package bfs_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ct/bfs"
)

func TestWalk_Errors(t *testing.T) {
	_, err := bfs.Walk(-1, nil)
	require.ErrorIs(t, err, bfs.ErrNegativeSize)

	_, err = bfs.Walk(2, [][]int{{0, 2}})
	require.ErrorIs(t, err, bfs.ErrNodeOutOfRange)
}

func TestWalk_Components(t *testing.T) {
	// 0–3, {1,4,5} hyperedge, 2 isolated, 5–6.
	res, err := bfs.Walk(7, [][]int{{3, 0}, {1, 4, 5}, {5, 6}})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 3, 1, 4, 5, 6, 2}, res.Order)
	assert.Equal(t, 3, res.Components)
	assert.Equal(t, []int{0, 1, 2, 0, 1, 1, 1}, res.Component)
	assert.Equal(t, []int{0, 0, 0, 1, 1, 1, 2}, res.Depth)
	assert.Equal(t, []int{-1, -1, -1, 0, 1, 1, 5}, res.Parent)
	assert.Equal(t, []int{1, 5, 6}, res.PathTo(6))
	assert.Nil(t, res.PathTo(7))
	assert.Equal(t, []int{0, 2, 6, 1, 3, 4, 5}, res.Positions())
}

func TestWalk_Empty(t *testing.T) {
	res, err := bfs.Walk(0, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Order)
	assert.Zero(t, res.Components)
}

func TestWalk_Hooks(t *testing.T) {
	var seen []int
	stop := errors.New("stop")
	res, err := bfs.Walk(3, [][]int{{0, 1}, {1, 2}}, bfs.WithOnVisit(func(node, depth int) error {
		seen = append(seen, node)
		if depth == 1 {
			return stop
		}
		return nil
	}))
	require.ErrorIs(t, err, stop)
	assert.Equal(t, []int{0, 1}, seen)
	assert.Equal(t, []int{0, 1}, res.Order)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = bfs.Walk(3, nil, bfs.WithContext(ctx))
	require.ErrorIs(t, err, context.Canceled)
}

func TestPermutation(t *testing.T) {
	pos, err := bfs.Permutation([]int{2, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, pos)

	for _, bad := range [][]int{{0, 0}, {1, 2}, {-1}} {
		_, err := bfs.Permutation(bad)
		assert.ErrorIs(t, err, bfs.ErrNotPermutation, "%v", bad)
	}
}
