// SPDX-License-Identifier: MIT

package txt

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey indicates a model key mapped twice.
	ErrDuplicateKey = errors.New("txt: duplicate model key")

	// ErrDuplicateID indicates an external id mapped twice.
	ErrDuplicateID = errors.New("txt: duplicate external id")
)

// KeyKind tells which model entity a ModelKey addresses.
type KeyKind int

const (
	// KeyDetection addresses a detection (Timestep, From).
	KeyDetection KeyKind = iota
	// KeyAppearance addresses the appearance of detection (Timestep, From).
	KeyAppearance
	// KeyDisappearance addresses the disappearance of detection (Timestep, From).
	KeyDisappearance
	// KeyMove addresses transition (Timestep, From, To1).
	KeyMove
	// KeyDivision addresses division (Timestep, From, To1, To2).
	KeyDivision
)

var kindNames = [...]string{"H", "APP", "DISAPP", "MOVE", "DIV"}

func (k KeyKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("KeyKind(%d)", int(k))
	}

	return kindNames[k]
}

// ModelKey identifies a model entity. Unused fields are zero.
type ModelKey struct {
	Kind     KeyKind
	Timestep int
	From     int
	To1      int
	To2      int
}

func (k ModelKey) String() string {
	switch k.Kind {
	case KeyMove:
		return fmt.Sprintf("%s(%d,%d,%d)", k.Kind, k.Timestep, k.From, k.To1)
	case KeyDivision:
		return fmt.Sprintf("%s(%d,%d,%d,%d)", k.Kind, k.Timestep, k.From, k.To1, k.To2)
	default:
		return fmt.Sprintf("%s(%d,%d)", k.Kind, k.Timestep, k.From)
	}
}

func detectionKey(t, d int) ModelKey     { return ModelKey{Kind: KeyDetection, Timestep: t, From: d} }
func appearanceKey(t, d int) ModelKey    { return ModelKey{Kind: KeyAppearance, Timestep: t, From: d} }
func disappearanceKey(t, d int) ModelKey { return ModelKey{Kind: KeyDisappearance, Timestep: t, From: d} }

// Tag separates the two external id namespaces: detections ("H") and every
// other variable ("A").
type Tag byte

const (
	// TagDetection marks ids of H records.
	TagDetection Tag = 'H'
	// TagVariable marks ids of APP, DISAPP, MOVE and DIV records.
	TagVariable Tag = 'A'
)

// ExternalID is an id as written in the exchange format.
type ExternalID struct {
	Tag Tag
	ID  int
}

func (e ExternalID) String() string { return fmt.Sprintf("%c%d", e.Tag, e.ID) }

// BiMap pairs external ids with model keys in both directions.
type BiMap struct {
	toExternal map[ModelKey]ExternalID
	toModel    map[ExternalID]ModelKey
}

// NewBiMap returns an empty BiMap.
func NewBiMap() *BiMap {
	return &BiMap{
		toExternal: make(map[ModelKey]ExternalID),
		toModel:    make(map[ExternalID]ModelKey),
	}
}

// Insert pairs k with id. Both sides must be new; a rejected pair leaves the
// map unchanged.
//
// Errors:
//   - ErrDuplicateKey, ErrDuplicateID.
func (b *BiMap) Insert(k ModelKey, id ExternalID) error {
	if old, ok := b.toExternal[k]; ok {
		return fmt.Errorf("Insert(%s, %s): already %s: %w", k, id, old, ErrDuplicateKey)
	}
	if old, ok := b.toModel[id]; ok {
		return fmt.Errorf("Insert(%s, %s): already %s: %w", k, id, old, ErrDuplicateID)
	}
	b.toExternal[k] = id
	b.toModel[id] = k

	return nil
}

// External returns the external id of k.
func (b *BiMap) External(k ModelKey) (ExternalID, bool) {
	id, ok := b.toExternal[k]
	return id, ok
}

// Model returns the model key of id.
func (b *BiMap) Model(id ExternalID) (ModelKey, bool) {
	k, ok := b.toModel[id]
	return k, ok
}

// Len returns the number of pairs.
func (b *BiMap) Len() int { return len(b.toExternal) }
