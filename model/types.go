// SPDX-License-Identifier: MIT

package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for model construction.
var (
	// ErrNegativeTimestep indicates a timestep below zero.
	ErrNegativeTimestep = errors.New("model: timestep must be non-negative")

	// ErrDetectionNotFound indicates an operation referenced a non-existent detection.
	ErrDetectionNotFound = errors.New("model: detection not found")

	// ErrDuplicateEdge indicates a transition or division key that already exists.
	ErrDuplicateEdge = errors.New("model: duplicate edge")

	// ErrDegenerateDivision indicates a division whose two targets coincide.
	ErrDegenerateDivision = errors.New("model: division targets must differ")

	// ErrEmptyConflict indicates a conflict set without members.
	ErrEmptyConflict = errors.New("model: conflict set is empty")

	// ErrDuplicateMember indicates a detection listed twice in one conflict set.
	ErrDuplicateMember = errors.New("model: duplicate conflict member")

	// ErrConflictOverlap indicates a conflict set that is a subset or superset
	// of another conflict set at the same timestep.
	ErrConflictOverlap = errors.New("model: conflict set contained in or containing existing set")

	// ErrTimestepTooLarge indicates a timestep above MaxTimestep.
	ErrTimestepTooLarge = errors.New("model: timestep exceeds MaxTimestep")

	// ErrBadDump indicates a line ParseDump cannot replay.
	ErrBadDump = errors.New("model: malformed dump line")
)

// MaxTimestep is the highest timestep a Model accepts. Timestep tables are
// dense, so every timestep up to the highest one used costs a table entry.
const MaxTimestep = 1<<20 - 1

// DetectionKey addresses a detection by timestep and dense per-timestep index.
type DetectionKey struct {
	Timestep int
	Index    int
}

func (k DetectionKey) String() string {
	return fmt.Sprintf("(%d,%d)", k.Timestep, k.Index)
}

// ConflictKey addresses a conflict set by timestep and per-timestep index.
type ConflictKey struct {
	Timestep int
	Index    int
}

// TransitionKey addresses a transition from detection From at Timestep to
// detection To at Timestep+1.
type TransitionKey struct {
	Timestep int
	From     int
	To       int
}

// Left returns the source detection.
func (k TransitionKey) Left() DetectionKey { return DetectionKey{k.Timestep, k.From} }

// Right returns the target detection.
func (k TransitionKey) Right() DetectionKey { return DetectionKey{k.Timestep + 1, k.To} }

// DivisionKey addresses a division from detection From at Timestep into
// detections To1 and To2 at Timestep+1.
type DivisionKey struct {
	Timestep int
	From     int
	To1      int
	To2      int
}

// Left returns the source detection.
func (k DivisionKey) Left() DetectionKey { return DetectionKey{k.Timestep, k.From} }

// Right1 returns the first target detection.
func (k DivisionKey) Right1() DetectionKey { return DetectionKey{k.Timestep + 1, k.To1} }

// Right2 returns the second target detection.
func (k DivisionKey) Right2() DetectionKey { return DetectionKey{k.Timestep + 1, k.To2} }

// Costs holds the three per-detection costs.
type Costs struct {
	Detection     float64
	Appearance    float64
	Disappearance float64
}

// Transition is the stored payload of a transition: its two slots and cost.
type Transition struct {
	SlotLeft  int // position in the source's outgoing arena
	SlotRight int // position in the target's incoming arena
	Cost      float64
}

// Division is the stored payload of a division: its three slots and cost.
type Division struct {
	SlotLeft   int
	SlotRight1 int
	SlotRight2 int
	Cost       float64
}

// EdgeKind tells which table an EdgeRef points into.
type EdgeKind int

const (
	// KindTransition marks a one-to-one continuation.
	KindTransition EdgeKind = iota
	// KindDivision marks a one-to-two split.
	KindDivision
)

func (k EdgeKind) String() string {
	switch k {
	case KindTransition:
		return "transition"
	case KindDivision:
		return "division"
	default:
		return fmt.Sprintf("EdgeKind(%d)", int(k))
	}
}

// EdgeRef is the content of one slot: the edge occupying it.
// Only the key matching Kind is meaningful.
type EdgeRef struct {
	Kind       EdgeKind
	Transition TransitionKey
	Division   DivisionKey
}

// CostOption selects one cost field for SetDetectionCost.
type CostOption func(*Costs)

// WithDetectionCost overrides the detection cost.
func WithDetectionCost(v float64) CostOption {
	return func(c *Costs) { c.Detection = v }
}

// WithAppearanceCost overrides the appearance cost.
func WithAppearanceCost(v float64) CostOption {
	return func(c *Costs) { c.Appearance = v }
}

// WithDisappearanceCost overrides the disappearance cost.
func WithDisappearanceCost(v float64) CostOption {
	return func(c *Costs) { c.Disappearance = v }
}
