// SPDX-License-Identifier: MIT

package txt

import (
	"errors"
	"fmt"
	"io"

	"github.com/katalvlaran/ct/model"
)

var (
	// ErrUnknownID indicates a reference to a detection id not defined before.
	ErrUnknownID = errors.New("txt: unknown detection id")

	// ErrTimestepMismatch indicates an edge not spanning consecutive
	// timesteps, or a conflict set spanning more than one timestep.
	ErrTimestepMismatch = errors.New("txt: timestep mismatch")
)

// Convert folds the records of r into a Model and the id map.
//
// Implementation:
//   - H adds a detection with the given detection cost and zero
//     appearance/disappearance cost.
//   - APP/DISAPP set the corresponding cost of an earlier detection.
//   - MOVE/DIV add a transition/division from timestep t to t+1.
//   - CONFSET adds a conflict at the common timestep of its members.
//
// Every H, APP, DISAPP, MOVE and DIV record gets a BiMap pair; conflict sets
// carry no id.
//
// Errors:
//   - any Reader error (e.g. *ParseError).
//   - ErrUnknownID, ErrTimestepMismatch.
//   - ErrDuplicateKey/ErrDuplicateID from the BiMap.
//   - model errors (e.g. model.ErrDuplicateEdge), wrapped.
//
// Errors name the offending line number.
func Convert(r *Reader) (*model.Model, *BiMap, error) {
	c := converter{m: model.New(), bm: NewBiMap()}
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return c.m, c.bm, nil
		}
		if err != nil {
			return nil, nil, err
		}
		if err := c.apply(rec); err != nil {
			return nil, nil, fmt.Errorf("txt: convert: line %d: %w", r.Line(), err)
		}
	}
}

type converter struct {
	m  *model.Model
	bm *BiMap
}

// detection resolves the external detection id.
func (c *converter) detection(id int) (t, d int, err error) {
	k, ok := c.bm.Model(ExternalID{Tag: TagDetection, ID: id})
	if !ok {
		return 0, 0, fmt.Errorf("H %d: %w", id, ErrUnknownID)
	}

	return k.Timestep, k.From, nil
}

// successor resolves id and requires it at timestep t+1.
func (c *converter) successor(t, id int) (int, error) {
	tt, d, err := c.detection(id)
	if err != nil {
		return 0, err
	}
	if tt != t+1 {
		return 0, fmt.Errorf("H %d at timestep %d, want %d: %w", id, tt, t+1, ErrTimestepMismatch)
	}

	return d, nil
}

func (c *converter) apply(rec Record) error {
	switch rec := rec.(type) {
	case Detection:
		d, err := c.m.AddDetection(rec.Timestep, model.Costs{Detection: rec.Cost})
		if err != nil {
			return err
		}
		return c.bm.Insert(detectionKey(rec.Timestep, d), ExternalID{Tag: TagDetection, ID: rec.ID})

	case Appearance:
		t, d, err := c.detection(rec.Detection)
		if err != nil {
			return err
		}
		if err := c.m.SetDetectionCost(t, d, model.WithAppearanceCost(rec.Cost)); err != nil {
			return err
		}
		return c.bm.Insert(appearanceKey(t, d), ExternalID{Tag: TagVariable, ID: rec.ID})

	case Disappearance:
		t, d, err := c.detection(rec.Detection)
		if err != nil {
			return err
		}
		if err := c.m.SetDetectionCost(t, d, model.WithDisappearanceCost(rec.Cost)); err != nil {
			return err
		}
		return c.bm.Insert(disappearanceKey(t, d), ExternalID{Tag: TagVariable, ID: rec.ID})

	case Move:
		t, from, err := c.detection(rec.From)
		if err != nil {
			return err
		}
		to, err := c.successor(t, rec.To)
		if err != nil {
			return err
		}
		if _, err := c.m.AddTransition(t, from, to, rec.Cost); err != nil {
			return err
		}
		k := ModelKey{Kind: KeyMove, Timestep: t, From: from, To1: to}
		return c.bm.Insert(k, ExternalID{Tag: TagVariable, ID: rec.ID})

	case Division:
		t, from, err := c.detection(rec.From)
		if err != nil {
			return err
		}
		to1, err := c.successor(t, rec.To1)
		if err != nil {
			return err
		}
		to2, err := c.successor(t, rec.To2)
		if err != nil {
			return err
		}
		if _, err := c.m.AddDivision(t, from, to1, to2, rec.Cost); err != nil {
			return err
		}
		k := ModelKey{Kind: KeyDivision, Timestep: t, From: from, To1: to1, To2: to2}
		return c.bm.Insert(k, ExternalID{Tag: TagVariable, ID: rec.ID})

	case ConflictSet:
		members := make([]int, len(rec.Detections))
		var timestep int
		for i, id := range rec.Detections {
			t, d, err := c.detection(id)
			if err != nil {
				return err
			}
			if i == 0 {
				timestep = t
			} else if t != timestep {
				return fmt.Errorf("CONFSET member H %d at timestep %d, want %d: %w", id, t, timestep, ErrTimestepMismatch)
			}
			members[i] = d
		}
		_, err := c.m.AddConflict(timestep, members)
		return err
	}

	return fmt.Errorf("record %T: %w", rec, ErrUnknownLine)
}
