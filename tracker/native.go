// SPDX-License-Identifier: MIT

package tracker

// Unassigned is the primal slot a native detection factor reports when it
// is switched off.
const Unassigned = -1

// Native is the native tracker's C-level API: graph construction, factor
// cost access, solve steps and read-back. Implementations wrap the foreign
// handle; tracker/memory provides an in-process one.
//
// Construction order is fixed: AddDetection and AddConflict per timestep,
// AddConflictLink, AddTransition/AddDivision, then Finalize.
type Native interface {
	AddDetection(timestep, detection, incoming, outgoing, conflicts int) (DetectionFactor, error)
	AddConflict(timestep, conflict, members int) (ConflictFactor, error)
	AddConflictLink(timestep, conflict, conflictSlot, detection, detectionSlot int) error
	AddTransition(timestep, from, fromSlot, to, toSlot int) error
	AddDivision(timestep, from, fromSlot, to1, toSlot1, to2, toSlot2 int) error
	Finalize() error

	Detection(timestep, detection int) (DetectionFactor, error)
	Conflict(timestep, conflict int) (ConflictFactor, error)

	Run(maxIterations int)
	ForwardStep(timestep int)
	BackwardStep(timestep int)
	LowerBound() float64
	EvaluatePrimal() float64

	// Destroy releases the foreign handle. Tracker guarantees a single call.
	Destroy()
}

// DetectionFactor is one native detection factor.
type DetectionFactor interface {
	SetDetectionCost(c float64)
	SetAppearanceCost(c float64)
	SetDisappearanceCost(c float64)
	SetIncomingCost(slot int, c float64)
	SetOutgoingCost(slot int, c float64)

	DetectionCost() float64
	AppearanceCost() float64
	DisappearanceCost() float64
	IncomingCost(slot int) float64
	OutgoingCost(slot int) float64

	// IncomingPrimal returns the chosen incoming slot, the number of incoming
	// slots for "appearance", or Unassigned. OutgoingPrimal is symmetric.
	IncomingPrimal() int
	OutgoingPrimal() int
}

// ConflictFactor is one native conflict factor.
type ConflictFactor interface {
	SetCost(slot int, c float64)
	Cost(slot int) float64

	// Primal returns the chosen member slot, the member count for "none", or Unassigned.
	Primal() int
}
