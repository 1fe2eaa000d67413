// SPDX-License-Identifier: MIT

// Package model is the authoritative, solver-agnostic description of a
// tracking flow network: detections per timestep, transitions and divisions
// between consecutive timesteps, and conflict sets of mutually exclusive
// detections.
//
// # Slots
//
// Every detection owns two append-only arenas, one for incoming and one for
// outgoing edge endpoints. Adding a transition appends one entry to the
// outgoing arena of its source and one to the incoming arena of its target;
// a division appends one outgoing and two incoming entries. The position of
// an entry is its slot. Slots are never reassigned, so two independently
// built solver representations can address "outgoing slot 2 of detection
// (t, d)" identically. Transitions and divisions share the same arenas.
//
// # Validation
//
// All structural checks run before any table is touched. A rejected call
// leaves the Model exactly as it was. Conflict sets are checked for
// containment against every other set at the same timestep unconditionally.
//
// # Errors
//
//	ErrNegativeTimestep   - timestep < 0.
//	ErrDetectionNotFound  - a referenced detection does not exist.
//	ErrDuplicateEdge      - transition/division key already present.
//	ErrDegenerateDivision - both division targets are the same detection.
//	ErrEmptyConflict      - conflict set without members.
//	ErrDuplicateMember    - a detection listed twice in one conflict set.
//	ErrConflictOverlap    - new set is a subset or superset of an existing one.
//	ErrBadDump            - ParseDump met a line it cannot replay.
//
// A Model is not safe for concurrent mutation.
package model
