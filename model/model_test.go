// SPDX-License-Identifier: MIT

package model_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ct/model"
)

// addDetections adds n zero-cost detections at timestep t.
func addDetections(t *testing.T, m *model.Model, timestep, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		idx, err := m.AddDetection(timestep, model.Costs{})
		require.NoError(t, err)
		require.Equal(t, i, idx, "indices must be dense and zero-based")
	}
}

func TestAddDetection_NegativeTimestep(t *testing.T) {
	m := model.New()
	_, err := m.AddDetection(-1, model.Costs{})
	require.ErrorIs(t, err, model.ErrNegativeTimestep)
	assert.Equal(t, 0, m.Timesteps())
}

func TestAddDetection_TimestepTooLarge(t *testing.T) {
	m := model.New()
	_, err := m.AddDetection(model.MaxTimestep+1, model.Costs{})
	require.ErrorIs(t, err, model.ErrTimestepTooLarge)
	_, err = m.AddDetection(4_000_000_000, model.Costs{})
	require.ErrorIs(t, err, model.ErrTimestepTooLarge)
	assert.Equal(t, 0, m.Timesteps())
}

func TestTimesteps_OnePastHighest(t *testing.T) {
	m := model.New()
	assert.Equal(t, 0, m.Timesteps())

	addDetections(t, m, 3, 1)
	assert.Equal(t, 4, m.Timesteps())
	assert.Equal(t, 0, m.Detections(1), "skipped timesteps are empty")
	assert.Equal(t, 1, m.Detections(3))
	assert.Equal(t, 0, m.Detections(-2))
}

func TestSetDetectionCost_Partial(t *testing.T) {
	m := model.New()
	_, err := m.AddDetection(0, model.Costs{Detection: 1, Appearance: 2, Disappearance: 3})
	require.NoError(t, err)

	require.NoError(t, m.SetDetectionCost(0, 0, model.WithAppearanceCost(7)))
	c, ok := m.Detection(0, 0)
	require.True(t, ok)
	assert.Equal(t, model.Costs{Detection: 1, Appearance: 7, Disappearance: 3}, c)

	require.NoError(t, m.SetDetectionCost(0, 0, model.WithDetectionCost(-4), model.WithDisappearanceCost(0.5)))
	c, _ = m.Detection(0, 0)
	assert.Equal(t, model.Costs{Detection: -4, Appearance: 7, Disappearance: 0.5}, c)

	require.ErrorIs(t, m.SetDetectionCost(0, 1, model.WithDetectionCost(1)), model.ErrDetectionNotFound)
}

func TestSlots_MonotonicPerSide(t *testing.T) {
	m := model.New()
	addDetections(t, m, 0, 2)
	addDetections(t, m, 1, 3)

	tr1, err := m.AddTransition(0, 0, 0, 1)
	require.NoError(t, err)
	tr2, err := m.AddTransition(0, 0, 1, 1)
	require.NoError(t, err)
	dv, err := m.AddDivision(0, 0, 1, 2, 1)
	require.NoError(t, err)
	tr3, err := m.AddTransition(0, 1, 1, 1)
	require.NoError(t, err)

	// Outgoing slots of (0,0): shared between transitions and divisions.
	assert.Equal(t, 0, tr1.SlotLeft)
	assert.Equal(t, 1, tr2.SlotLeft)
	assert.Equal(t, 2, dv.SlotLeft)
	assert.Equal(t, 0, tr3.SlotLeft)

	// Incoming slots of (1,1): tr2, dv, tr3 in insertion order.
	assert.Equal(t, 0, tr2.SlotRight)
	assert.Equal(t, 1, dv.SlotRight1)
	assert.Equal(t, 2, tr3.SlotRight)
	assert.Equal(t, 0, dv.SlotRight2)

	assert.Equal(t, 3, m.OutgoingEdges(0, 0))
	assert.Equal(t, 1, m.OutgoingEdges(0, 1))
	assert.Equal(t, 1, m.IncomingEdges(1, 0))
	assert.Equal(t, 3, m.IncomingEdges(1, 1))
	assert.Equal(t, 1, m.IncomingEdges(1, 2))

	ref, ok := m.IncomingSlot(1, 1, 1)
	require.True(t, ok)
	assert.Equal(t, model.KindDivision, ref.Kind)
	assert.Equal(t, model.DivisionKey{Timestep: 0, From: 0, To1: 1, To2: 2}, ref.Division)

	ref, ok = m.OutgoingSlot(0, 1, 0)
	require.True(t, ok)
	assert.Equal(t, model.KindTransition, ref.Kind)
	assert.Equal(t, model.TransitionKey{Timestep: 0, From: 1, To: 1}, ref.Transition)

	_, ok = m.OutgoingSlot(0, 1, 1)
	assert.False(t, ok)
}

func TestSlots_UniqueAcrossManyEdges(t *testing.T) {
	m := model.New()
	addDetections(t, m, 0, 4)
	addDetections(t, m, 1, 4)
	for from := 0; from < 4; from++ {
		for to := 0; to < 4; to++ {
			_, err := m.AddTransition(0, from, to, float64(from*to))
			require.NoError(t, err)
		}
	}

	seenOut := map[[2]int]bool{}
	seenIn := map[[2]int]bool{}
	lastOut := map[int]int{}
	for _, k := range m.TransitionKeys() {
		tr, ok := m.Transition(k)
		require.True(t, ok)
		require.False(t, seenOut[[2]int{k.From, tr.SlotLeft}])
		require.False(t, seenIn[[2]int{k.To, tr.SlotRight}])
		seenOut[[2]int{k.From, tr.SlotLeft}] = true
		seenIn[[2]int{k.To, tr.SlotRight}] = true
		if prev, ok := lastOut[k.From]; ok {
			require.Greater(t, tr.SlotLeft, prev)
		}
		lastOut[k.From] = tr.SlotLeft
	}
}

func TestAddTransition_Rejections(t *testing.T) {
	m := model.New()
	addDetections(t, m, 0, 1)
	addDetections(t, m, 1, 1)

	_, err := m.AddTransition(0, 1, 0, 1)
	require.ErrorIs(t, err, model.ErrDetectionNotFound)
	_, err = m.AddTransition(0, 0, 5, 1)
	require.ErrorIs(t, err, model.ErrDetectionNotFound)

	_, err = m.AddTransition(0, 0, 0, 1)
	require.NoError(t, err)
	_, err = m.AddTransition(0, 0, 0, 9)
	require.ErrorIs(t, err, model.ErrDuplicateEdge)

	// The rejected duplicate must not have consumed slots.
	assert.Equal(t, 1, m.OutgoingEdges(0, 0))
	assert.Equal(t, 1, m.IncomingEdges(1, 0))
	tr, _ := m.Transition(model.TransitionKey{Timestep: 0, From: 0, To: 0})
	assert.Equal(t, 1.0, tr.Cost)
}

func TestAddDivision_Rejections(t *testing.T) {
	m := model.New()
	addDetections(t, m, 0, 1)
	addDetections(t, m, 1, 2)

	_, err := m.AddDivision(0, 0, 0, 2, 1)
	require.ErrorIs(t, err, model.ErrDetectionNotFound)
	_, err = m.AddDivision(0, 0, 1, 1, 1)
	require.ErrorIs(t, err, model.ErrDegenerateDivision)

	_, err = m.AddDivision(0, 0, 0, 1, 1)
	require.NoError(t, err)
	_, err = m.AddDivision(0, 0, 0, 1, 1)
	require.ErrorIs(t, err, model.ErrDuplicateEdge)

	assert.Equal(t, 1, m.OutgoingEdges(0, 0))
	assert.Equal(t, 1, m.IncomingEdges(1, 0))
	assert.Equal(t, 1, m.IncomingEdges(1, 1))
}

func TestAddConflict_Containment(t *testing.T) {
	cases := []struct {
		name     string
		existing [][]int
		add      []int
		wantErr  error
	}{
		{"first set", nil, []int{0, 1}, nil},
		{"equal set", [][]int{{0, 1}}, []int{1, 0}, model.ErrConflictOverlap},
		{"strict subset", [][]int{{0, 1, 2}}, []int{0, 2}, model.ErrConflictOverlap},
		{"strict superset", [][]int{{1, 2}}, []int{0, 1, 2}, model.ErrConflictOverlap},
		{"partial overlap", [][]int{{0, 1}}, []int{1, 2}, nil},
		{"disjoint", [][]int{{0, 1}}, []int{2, 3}, nil},
		{"singleton inside", [][]int{{0, 1}}, []int{1}, model.ErrConflictOverlap},
		{"missing member", nil, []int{0, 9}, model.ErrDetectionNotFound},
		{"repeated member", nil, []int{0, 0}, model.ErrDuplicateMember},
		{"empty", nil, []int{}, model.ErrEmptyConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := model.New()
			addDetections(t, m, 0, 4)
			for _, s := range tc.existing {
				_, err := m.AddConflict(0, s)
				require.NoError(t, err)
			}
			before := m.Conflicts(0)
			idx, err := m.AddConflict(0, tc.add)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Equal(t, before, m.Conflicts(0))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, before, idx)
		})
	}
}

func TestAddConflict_OtherTimestepIndependent(t *testing.T) {
	m := model.New()
	addDetections(t, m, 0, 2)
	addDetections(t, m, 1, 2)

	_, err := m.AddConflict(0, []int{0, 1})
	require.NoError(t, err)
	_, err = m.AddConflict(1, []int{0, 1})
	require.NoError(t, err)

	members, ok := m.Conflict(1, 0)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, members)

	members[0] = 42
	again, _ := m.Conflict(1, 0)
	assert.Equal(t, 0, again[0], "Conflict must return a copy")
}

func TestConflictSlots(t *testing.T) {
	m := model.New()
	addDetections(t, m, 0, 3)
	_, err := m.AddConflict(0, []int{0, 1})
	require.NoError(t, err)
	_, err = m.AddConflict(0, []int{1, 2})
	require.NoError(t, err)
	_, err = m.AddConflict(0, []int{2, 0})
	require.NoError(t, err)

	slots, counts := m.ConflictSlots(0)
	assert.Equal(t, []int{2, 2, 2}, counts)
	assert.Equal(t, [][]int{{0, 0}, {1, 0}, {1, 1}}, slots)
}

func TestDump_RoundTrip(t *testing.T) {
	m := model.New()
	_, _ = m.AddDetection(0, model.Costs{Detection: -1.25, Appearance: 5, Disappearance: 5})
	_, _ = m.AddDetection(0, model.Costs{Detection: 0.1})
	_, _ = m.AddDetection(1, model.Costs{Appearance: 1e-7})
	_, _ = m.AddDetection(1, model.Costs{})
	_, err := m.AddConflict(0, []int{1, 0})
	require.NoError(t, err)
	_, err = m.AddTransition(0, 0, 1, 2.5)
	require.NoError(t, err)
	_, err = m.AddTransition(0, 1, 0, -3)
	require.NoError(t, err)
	_, err = m.AddDivision(0, 0, 0, 1, 1.0/3.0)
	require.NoError(t, err)

	text := m.Dump()
	require.True(t, strings.HasPrefix(text, "m := model.New()\n"))
	assert.Contains(t, text, "m.AddConflict(0, []int{1, 0})")
	assert.Contains(t, text, "m.AddTransition(0, 0, 1, 2.5)")

	back, err := model.ParseDump(strings.NewReader(text))
	require.NoError(t, err)
	assert.Equal(t, text, back.Dump(), "dump must be a fixed point")

	for _, k := range m.DivisionKeys() {
		want, _ := m.Division(k)
		got, ok := back.Division(k)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestDump_InterleavedSlots(t *testing.T) {
	m := model.New()
	addDetections(t, m, 0, 1)
	addDetections(t, m, 1, 4)
	_, err := m.AddTransition(0, 0, 0, 1)
	require.NoError(t, err)
	_, err = m.AddDivision(0, 0, 1, 2, 2)
	require.NoError(t, err)
	_, err = m.AddTransition(0, 0, 3, 3)
	require.NoError(t, err)

	back, err := model.ParseDump(strings.NewReader(m.Dump()))
	require.NoError(t, err)
	for _, k := range m.TransitionKeys() {
		want, _ := m.Transition(k)
		got, ok := back.Transition(k)
		require.True(t, ok)
		assert.Equal(t, want, got, "%v", k)
	}
	div, ok := back.Division(model.DivisionKey{Timestep: 0, From: 0, To1: 1, To2: 2})
	require.True(t, ok)
	assert.Equal(t, 1, div.SlotLeft)
}

func TestParseDump_Rejects(t *testing.T) {
	_, err := model.ParseDump(strings.NewReader("m := model.New()\nm.Frobnicate(1)"))
	require.ErrorIs(t, err, model.ErrBadDump)

	_, err = model.ParseDump(strings.NewReader("m.AddTransition(0, 0, 0, 1)"))
	require.ErrorIs(t, err, model.ErrDetectionNotFound)

	_, err = model.ParseDump(strings.NewReader("m.AddDetection(99999999999999999999, model.Costs{Detection: 0, Appearance: 0, Disappearance: 0})"))
	require.ErrorIs(t, err, model.ErrBadDump)

	_, err = model.ParseDump(strings.NewReader("m.AddDetection(2000000, model.Costs{Detection: 0, Appearance: 0, Disappearance: 0})"))
	require.ErrorIs(t, err, model.ErrTimestepTooLarge)
}
