// SPDX-License-Identifier: MIT

package tracker

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/katalvlaran/ct/model"
)

// Sentinel errors for the native bridge.
var (
	// ErrClosed indicates use of a Tracker after Close.
	ErrClosed = errors.New("tracker: closed")

	// ErrNilNative indicates a nil Native handle.
	ErrNilNative = errors.New("tracker: native handle is nil")

	// ErrAssignmentMismatch indicates a detection whose incoming and outgoing
	// primals disagree on being unassigned.
	ErrAssignmentMismatch = errors.New("tracker: incoming/outgoing assignment mismatch")

	// ErrInconsistentPrimals indicates the native solution violates the Model.
	ErrInconsistentPrimals = errors.New("tracker: native primal is inconsistent")
)

// DefaultMaxIterations is the iteration budget Run uses when given zero.
const DefaultMaxIterations = 1000

// Option configures Construct.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger routes construction and run diagnostics to l.
// Panics on nil, a programmer error.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("tracker: WithLogger(nil)")
	}

	return func(c *config) { c.logger = l }
}

func gatherOptions(opts []Option) config {
	c := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// Tracker owns one native handle built from one Model.
type Tracker struct {
	m      *model.Model
	native Native
	logger *slog.Logger
	closed bool
}

// Model returns the Model the tracker was constructed from.
func (t *Tracker) Model() *model.Model { return t.m }

// Close releases the native handle. Only the first call reaches Destroy.
func (t *Tracker) Close() {
	if t.closed {
		return
	}
	t.closed = true
	t.native.Destroy()
	t.logger.Debug("native tracker released")
}

// Closed reports whether Close has been called.
func (t *Tracker) Closed() bool { return t.closed }

func (t *Tracker) check(op string) error {
	if t.closed {
		return fmt.Errorf("%s: %w", op, ErrClosed)
	}

	return nil
}

// Detection returns the native factor of detection (ts, d).
func (t *Tracker) Detection(ts, d int) (DetectionFactor, error) {
	if err := t.check("Detection"); err != nil {
		return nil, err
	}

	return t.native.Detection(ts, d)
}

// Conflict returns the native factor of conflict (ts, c).
func (t *Tracker) Conflict(ts, c int) (ConflictFactor, error) {
	if err := t.check("Conflict"); err != nil {
		return nil, err
	}

	return t.native.Conflict(ts, c)
}

// Run runs up to maxIterations native iterations; zero means DefaultMaxIterations.
// It runs to completion.
func (t *Tracker) Run(maxIterations int) error {
	if err := t.check("Run"); err != nil {
		return err
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	t.native.Run(maxIterations)
	t.logger.Debug("native run finished",
		slog.Int("max_iterations", maxIterations),
		slog.Float64("lower_bound", t.native.LowerBound()))

	return nil
}

// ForwardStep performs one forward message pass at timestep ts.
func (t *Tracker) ForwardStep(ts int) error {
	if err := t.check("ForwardStep"); err != nil {
		return err
	}
	t.native.ForwardStep(ts)

	return nil
}

// BackwardStep performs one backward message pass at timestep ts.
func (t *Tracker) BackwardStep(ts int) error {
	if err := t.check("BackwardStep"); err != nil {
		return err
	}
	t.native.BackwardStep(ts)

	return nil
}

// LowerBound returns the native dual bound.
func (t *Tracker) LowerBound() (float64, error) {
	if err := t.check("LowerBound"); err != nil {
		return 0, err
	}

	return t.native.LowerBound(), nil
}

// EvaluatePrimal returns the cost of the native primal assignment; it serves
// as an upper bound (cutoff) for the LP adapters.
func (t *Tracker) EvaluatePrimal() (float64, error) {
	if err := t.check("EvaluatePrimal"); err != nil {
		return 0, err
	}

	return t.native.EvaluatePrimal(), nil
}
