// SPDX-License-Identifier: MIT

package tracker_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ct/model"
	"github.com/katalvlaran/ct/tracker"
	"github.com/katalvlaran/ct/tracker/memory"
)

// lineage builds
//
//	t=0: (0,0) (0,1)
//	t=1: (1,0) (1,1) (1,2) (1,3)      conflict {(1,0),(1,3)}
//	(0,0)→(1,0) cost 2, (0,1)⇒(1,1)+(1,2) cost 3, (0,0)→(1,3) cost 4
//
// with detection cost −1 and appearance/disappearance cost 1 everywhere.
func lineage(t *testing.T) *model.Model {
	t.Helper()
	m := model.New()
	c := model.Costs{Detection: -1, Appearance: 1, Disappearance: 1}
	for _, ts := range []int{0, 0, 1, 1, 1, 1} {
		_, err := m.AddDetection(ts, c)
		require.NoError(t, err)
	}
	_, err := m.AddTransition(0, 0, 0, 2)
	require.NoError(t, err)
	_, err = m.AddDivision(0, 1, 1, 2, 3)
	require.NoError(t, err)
	_, err = m.AddTransition(0, 0, 3, 4)
	require.NoError(t, err)
	_, err = m.AddConflict(1, []int{0, 3})
	require.NoError(t, err)

	return m
}

func TestConstruct_SplitsCosts(t *testing.T) {
	m := lineage(t)
	g := memory.New()
	tr, err := tracker.Construct(m, g)
	require.NoError(t, err)
	defer tr.Close()

	f, err := tr.Detection(0, 0)
	require.NoError(t, err)
	assert.Equal(t, -1.0, f.DetectionCost())
	assert.Equal(t, 1.0, f.AppearanceCost())
	assert.Equal(t, 1.0, f.DisappearanceCost())
	assert.Equal(t, 1.0, f.OutgoingCost(0), "half of transition cost 2")
	assert.Equal(t, 2.0, f.OutgoingCost(1), "half of transition cost 4")

	f, err = tr.Detection(0, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, f.OutgoingCost(0), 1e-12, "third of division cost 3")
	for _, d := range []int{1, 2} {
		f, err = tr.Detection(1, d)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, f.IncomingCost(0), 1e-12)
	}
	f, err = tr.Detection(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 2.0, f.IncomingCost(0))

	c, err := tr.Conflict(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, c.Cost(0))
	assert.Equal(t, 0.0, c.Cost(1))

	lb, err := tr.LowerBound()
	require.NoError(t, err)
	assert.Equal(t, 0.0, lb, "no detection is locally profitable")
	assert.Same(t, m, tr.Model())
}

func TestClose_Idempotent(t *testing.T) {
	g := memory.New()
	tr, err := tracker.Construct(lineage(t), g)
	require.NoError(t, err)

	tr.Close()
	tr.Close()
	assert.True(t, tr.Closed())
	assert.Equal(t, 1, g.Destroyed, "native handle released exactly once")

	_, err = tr.LowerBound()
	require.ErrorIs(t, err, tracker.ErrClosed)
	require.ErrorIs(t, tr.Run(0), tracker.ErrClosed)
	_, err = tracker.ExtractPrimals(tr)
	require.ErrorIs(t, err, tracker.ErrClosed)
}

// failingNative rejects the first transition.
type failingNative struct {
	*memory.Graph
}

var errRejected = errors.New("native rejected edge")

func (failingNative) AddTransition(int, int, int, int, int) error { return errRejected }

func TestConstruct_FailureReleasesHandle(t *testing.T) {
	g := memory.New()
	_, err := tracker.Construct(lineage(t), failingNative{g})
	require.ErrorIs(t, err, errRejected)
	assert.Equal(t, 1, g.Destroyed)

	_, err = tracker.Construct(lineage(t), nil)
	require.ErrorIs(t, err, tracker.ErrNilNative)
}

func TestRunAndSteps(t *testing.T) {
	g := memory.New()
	tr, err := tracker.Construct(lineage(t), g)
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Run(0))
	assert.Equal(t, tracker.DefaultMaxIterations, g.Iterations)
	require.NoError(t, tr.ForwardStep(0))
	require.NoError(t, tr.BackwardStep(1))
	assert.Equal(t, 2, g.Steps)
}

// assignLineage switches on both lineages except (1,3).
func assignLineage(t *testing.T, g *memory.Graph) {
	t.Helper()
	require.NoError(t, g.Assign(0, 0, 0, 0)) // appearance, transition to (1,0)
	require.NoError(t, g.Assign(1, 0, 0, 0)) // transition, disappearance
	require.NoError(t, g.Assign(0, 1, 0, 0)) // appearance, division
	require.NoError(t, g.Assign(1, 1, 0, 0))
	require.NoError(t, g.Assign(1, 2, 0, 0))
}

func TestExtractPrimals(t *testing.T) {
	m := lineage(t)
	g := memory.New()
	tr, err := tracker.Construct(m, g)
	require.NoError(t, err)
	defer tr.Close()

	assignLineage(t, g)
	p, err := tracker.ExtractPrimals(tr)
	require.NoError(t, err)

	assert.Len(t, p.ActiveDetections(), 5)
	assert.False(t, p.Detection(1, 3))
	assert.Equal(t, []model.TransitionKey{{Timestep: 0, From: 0, To: 0}}, p.ActiveTransitions())
	assert.Equal(t, []model.DivisionKey{{Timestep: 0, From: 1, To1: 1, To2: 2}}, p.ActiveDivisions())

	v, err := p.Evaluate()
	require.NoError(t, err)
	ub, err := tr.EvaluatePrimal()
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 1e-12)
	assert.InDelta(t, v, ub, 1e-12, "split costs must add back up")
}

func TestExtractPrimals_AssignmentMismatch(t *testing.T) {
	g := memory.New()
	tr, err := tracker.Construct(lineage(t), g)
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, g.Assign(1, 3, tracker.Unassigned, 0))
	_, err = tracker.ExtractPrimals(tr)
	require.ErrorIs(t, err, tracker.ErrAssignmentMismatch)
}

func TestExtractPrimals_Inconsistent(t *testing.T) {
	g := memory.New()
	tr, err := tracker.Construct(lineage(t), g)
	require.NoError(t, err)
	defer tr.Close()

	assignLineage(t, g)
	// (1,3) joins the conflict with (1,0) and claims the second edge of (0,0).
	require.NoError(t, g.Assign(1, 3, 0, 0))
	_, err = tracker.ExtractPrimals(tr)
	require.ErrorIs(t, err, tracker.ErrInconsistentPrimals)
}
