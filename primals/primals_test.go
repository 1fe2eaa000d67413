// SPDX-License-Identifier: MIT

package primals_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/ct/model"
	"github.com/katalvlaran/ct/primals"
)

// PrimalsSuite runs against the two-timestep scenario:
//
//	t=0: (0,0) (0,1)      conflict {(0,0),(0,1)}
//	t=1: (1,0)
//	transition (0,0)→(1,0) cost 2, division-free
//
// Detection costs are zero; appearance and disappearance cost 5 each.
type PrimalsSuite struct {
	suite.Suite
	m  *model.Model
	tk model.TransitionKey
}

func (s *PrimalsSuite) SetupTest() {
	m := model.New()
	for _, ts := range []int{0, 0, 1} {
		_, err := m.AddDetection(ts, model.Costs{Detection: 0, Appearance: 5, Disappearance: 5})
		s.Require().NoError(err)
	}
	_, err := m.AddTransition(0, 0, 0, 2)
	s.Require().NoError(err)
	_, err = m.AddConflict(0, []int{0, 1})
	s.Require().NoError(err)

	s.m = m
	s.tk = model.TransitionKey{Timestep: 0, From: 0, To: 0}
}

// TestConnectedChain checks that a connected chain pays only its edge.
func (s *PrimalsSuite) TestConnectedChain() {
	p := primals.New(s.m)
	s.Require().NoError(p.SetDetection(0, 0, true))
	s.Require().NoError(p.SetDetection(1, 0, true))
	s.Require().NoError(p.SetTransition(s.tk, true))

	s.True(p.CheckConsistency())
	s.False(p.Appearance(1, 0))
	s.False(p.Disappearance(0, 0))
	s.True(p.Appearance(0, 0))
	s.True(p.Disappearance(1, 0))

	// The chain's outer ends still appear/disappear; make them free so only
	// the edge remains.
	s.Require().NoError(s.m.SetDetectionCost(0, 0, model.WithAppearanceCost(0)))
	s.Require().NoError(s.m.SetDetectionCost(1, 0, model.WithDisappearanceCost(0)))
	v, err := p.Evaluate()
	s.Require().NoError(err)
	s.InDelta(2.0, v, 1e-12)
}

// TestIsolatedDetections checks that unconnected detections pay their
// inner appearance and disappearance.
func (s *PrimalsSuite) TestIsolatedDetections() {
	s.Require().NoError(s.m.SetDetectionCost(0, 0, model.WithAppearanceCost(0)))
	s.Require().NoError(s.m.SetDetectionCost(1, 0, model.WithDisappearanceCost(0)))

	p := primals.New(s.m)
	s.Require().NoError(p.SetDetection(0, 0, true))
	s.Require().NoError(p.SetDetection(1, 0, true))

	s.True(p.CheckConsistency())
	v, err := p.Evaluate()
	s.Require().NoError(err)
	s.InDelta(10.0, v, 1e-12)
}

// TestFullCostsCharged keeps every appearance/disappearance cost at 5.
func (s *PrimalsSuite) TestFullCostsCharged() {
	p := primals.New(s.m)
	s.Require().NoError(p.SetDetection(0, 0, true))
	s.Require().NoError(p.SetDetection(1, 0, true))
	v, err := p.Evaluate()
	s.Require().NoError(err)
	s.InDelta(20.0, v, 1e-12)

	s.Require().NoError(p.SetTransition(s.tk, true))
	v, err = p.Evaluate()
	s.Require().NoError(err)
	s.InDelta(12.0, v, 1e-12)
}

// TestConflictViolation activates both members of the conflict.
func (s *PrimalsSuite) TestConflictViolation() {
	p := primals.New(s.m)
	s.Require().NoError(p.SetDetection(0, 0, true))
	s.Require().NoError(p.SetDetection(0, 1, true))

	s.False(p.CheckConsistency())
	_, err := p.Evaluate()
	s.ErrorIs(err, primals.ErrInconsistent)
}

// TestEdgeWithoutDetection activates an edge whose endpoints are inactive.
func (s *PrimalsSuite) TestEdgeWithoutDetection() {
	p := primals.New(s.m)
	s.Require().NoError(p.SetTransition(s.tk, true))
	s.False(p.CheckConsistency())

	s.Require().NoError(p.SetDetection(0, 0, true))
	s.False(p.CheckConsistency(), "right endpoint still inactive")

	s.Require().NoError(p.SetDetection(1, 0, true))
	s.True(p.CheckConsistency())
}

// TestCountersMoveOnlyOnChange sets the same membership twice.
func (s *PrimalsSuite) TestCountersMoveOnlyOnChange() {
	p := primals.New(s.m)
	s.Require().NoError(p.SetTransition(s.tk, true))
	s.Require().NoError(p.SetTransition(s.tk, true))
	s.Equal(1, p.Outgoing(0, 0))
	s.Equal(1, p.Incoming(1, 0))

	s.Require().NoError(p.SetTransition(s.tk, false))
	s.Require().NoError(p.SetTransition(s.tk, false))
	s.Equal(0, p.Outgoing(0, 0))
	s.Equal(0, p.Incoming(1, 0))
}

// TestDerivedAfterEdits flips edges back and forth and re-reads the predicates.
func (s *PrimalsSuite) TestDerivedAfterEdits() {
	p := primals.New(s.m)
	s.Require().NoError(p.SetDetection(0, 0, true))
	s.Require().NoError(p.SetDetection(1, 0, true))

	s.True(p.Appearance(1, 0))
	s.Require().NoError(p.SetTransition(s.tk, true))
	s.False(p.Appearance(1, 0))
	s.Require().NoError(p.SetTransition(s.tk, false))
	s.True(p.Appearance(1, 0))

	s.Require().NoError(p.SetDetection(1, 0, false))
	s.False(p.Appearance(1, 0), "inactive detections never appear")
	s.False(p.Disappearance(1, 0))
}

// TestUnknownKeys exercises the key validation of every setter.
func (s *PrimalsSuite) TestUnknownKeys() {
	p := primals.New(s.m)
	s.ErrorIs(p.SetDetection(3, 0, true), primals.ErrUnknownDetection)
	s.ErrorIs(p.SetTransition(model.TransitionKey{Timestep: 0, From: 1, To: 0}, true), primals.ErrUnknownTransition)
	s.ErrorIs(p.SetDivision(model.DivisionKey{Timestep: 0, From: 0, To1: 0, To2: 1}, true), primals.ErrUnknownDivision)
	s.Empty(p.ActiveDetections())
}

func TestPrimalsSuite(t *testing.T) {
	suite.Run(t, new(PrimalsSuite))
}

func TestDivisionCounters(t *testing.T) {
	m := model.New()
	_, _ = m.AddDetection(0, model.Costs{Detection: 1})
	_, _ = m.AddDetection(1, model.Costs{Detection: 1})
	_, _ = m.AddDetection(1, model.Costs{Detection: 1})
	_, err := m.AddDivision(0, 0, 0, 1, 4)
	require.NoError(t, err)
	dk := model.DivisionKey{Timestep: 0, From: 0, To1: 0, To2: 1}

	p := primals.New(m)
	for _, d := range []model.DetectionKey{{Timestep: 0, Index: 0}, {Timestep: 1, Index: 0}, {Timestep: 1, Index: 1}} {
		require.NoError(t, p.SetDetection(d.Timestep, d.Index, true))
	}
	require.NoError(t, p.SetEdge(model.EdgeRef{Kind: model.KindDivision, Division: dk}, true))

	require.Equal(t, 1, p.Outgoing(0, 0))
	require.Equal(t, 1, p.Incoming(1, 0))
	require.Equal(t, 1, p.Incoming(1, 1))
	require.True(t, p.CheckConsistency())

	v, err := p.Evaluate()
	require.NoError(t, err)
	require.InDelta(t, 7.0, v, 1e-12) // 3 detections + division
	require.Equal(t, []model.DivisionKey{dk}, p.ActiveDivisions())
}
