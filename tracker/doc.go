// SPDX-License-Identifier: MIT

// Package tracker bridges a *model.Model to the native message-passing
// tracker, an external engine reached through a foreign-call boundary and
// described here by the Native interface.
//
// The native representation is factor based. Every detection is a factor
// holding its own detection, appearance and disappearance costs plus one
// cost per incoming and per outgoing slot. Edge costs are pre-split between
// endpoints so that each side carries a local cost of its own:
//
//	transition cost c: ½c on the outgoing slot, ½c on the incoming slot
//	division   cost c: ⅓c on the outgoing slot and on each incoming slot
//
// Conflicts are factors with one cost per member, linked to the members'
// conflict slots.
//
// # Lifetime
//
// A Tracker owns one Native handle. Close releases it exactly once; further
// Close calls are no-ops. Every other method returns ErrClosed afterwards.
//
// # Errors
//
//	ErrClosed               - the Tracker was already closed.
//	ErrNilNative            - Construct was given a nil Native.
//	ErrAssignmentMismatch   - a detection is unassigned on one side only.
//	ErrInconsistentPrimals  - the extracted primal failed CheckConsistency.
//
// An inconsistent extraction means the engine returned a self-contradictory
// solution; it is reported, never repaired.
package tracker
