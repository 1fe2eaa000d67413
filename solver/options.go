// SPDX-License-Identifier: MIT

package solver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for the LP adapters.
var (
	// ErrNotSolved indicates a read-back before a successful Run.
	ErrNotSolved = errors.New("solver: problem not solved")

	// ErrNotRelaxed indicates reduced costs requested from a binary problem.
	ErrNotRelaxed = errors.New("solver: reparametrization requires the continuous relaxation")

	// ErrRestricted indicates reparametrization of a restricted timestep range.
	ErrRestricted = errors.New("solver: reparametrization requires the full timestep range")

	// ErrModelMismatch indicates a tracker built from another Model.
	ErrModelMismatch = errors.New("solver: tracker was built from a different model")

	// ErrBoundMismatch indicates LP and native bounds disagree beyond tolerance.
	ErrBoundMismatch = errors.New("solver: lower bounds disagree")

	// ErrInconsistentPrimals indicates the thresholded LP solution violates the Model.
	ErrInconsistentPrimals = errors.New("solver: LP primal is inconsistent")

	// ErrBadThreshold indicates a threshold outside (0, 1).
	ErrBadThreshold = errors.New("solver: threshold must lie in (0, 1)")

	// ErrBadTolerance indicates a non-positive tolerance.
	ErrBadTolerance = errors.New("solver: tolerance must be positive")
)

// BoundMismatchError reports both bounds of a failed agreement check.
type BoundMismatchError struct {
	LP        float64
	Native    float64
	Tolerance float64
}

func (e *BoundMismatchError) Error() string {
	return fmt.Sprintf("solver: lower bounds disagree: lp=%g native=%g (tolerance %g)", e.LP, e.Native, e.Tolerance)
}

// Is matches ErrBoundMismatch.
func (e *BoundMismatchError) Is(target error) bool { return target == ErrBoundMismatch }

// Defaults.
const (
	// DefaultThreshold is the value above which a fractional variable counts as active.
	DefaultThreshold = 0.9

	// DefaultTolerance is the absolute tolerance of the bound agreement check.
	DefaultTolerance = 1e-4
)

// Options configures the LP adapters.
//
// ILP       – binary variables when true, continuous relaxation otherwise.
// Threshold – activation threshold for reading primals, in (0, 1).
// Tolerance – absolute tolerance of the reparametrization agreement check.
// Timesteps – restrict the Decomposed formulation to these timesteps; nil
//
//	means the full range. Standard ignores it.
//
// Logger    – diagnostics sink; never nil after DefaultOptions.
type Options struct {
	ILP       bool
	Threshold float64
	Tolerance float64
	Timesteps []int
	Logger    *slog.Logger
}

// Option is a functional override of Options.
type Option func(*Options)

// DefaultOptions returns binary mode, threshold 0.9, tolerance 1e-4, the full
// timestep range and a discarding logger.
func DefaultOptions() Options {
	return Options{
		ILP:       true,
		Threshold: DefaultThreshold,
		Tolerance: DefaultTolerance,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithRelaxation switches to continuous variables.
func WithRelaxation() Option {
	return func(o *Options) { o.ILP = false }
}

// WithThreshold sets the activation threshold. Panics outside (0, 1).
func WithThreshold(v float64) Option {
	if !(v > 0 && v < 1) {
		panic(ErrBadThreshold.Error())
	}

	return func(o *Options) { o.Threshold = v }
}

// WithTolerance sets the agreement tolerance. Panics unless positive.
func WithTolerance(v float64) Option {
	if !(v > 0) {
		panic(ErrBadTolerance.Error())
	}

	return func(o *Options) { o.Tolerance = v }
}

// WithTimesteps restricts the Decomposed formulation to the given timesteps.
func WithTimesteps(ts ...int) Option {
	cp := make([]int, len(ts))
	copy(cp, ts)

	return func(o *Options) { o.Timesteps = cp }
}

// WithLogger sets the diagnostics sink. Panics on nil.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic("solver: WithLogger(nil)")
	}

	return func(o *Options) { o.Logger = l }
}

// WithOptions replaces the whole configuration, e.g. with LoadOptions output.
// A nil Logger in o keeps the current one.
func WithOptions(o Options) Option {
	return func(dst *Options) {
		logger := dst.Logger
		*dst = o
		if dst.Logger == nil {
			dst.Logger = logger
		}
	}
}

func gatherOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// fileOptions is the YAML shape read by LoadOptions.
type fileOptions struct {
	ILP       *bool    `yaml:"ilp"`
	Threshold *float64 `yaml:"threshold"`
	Tolerance *float64 `yaml:"tolerance"`
	Timesteps []int    `yaml:"timesteps"`
}

// LoadOptions reads a YAML document with the optional keys ilp, threshold,
// tolerance and timesteps on top of DefaultOptions. An empty document yields
// the defaults.
//
// Errors:
//   - ErrBadThreshold, ErrBadTolerance for out-of-range values.
//   - YAML decoding errors, wrapped.
func LoadOptions(r io.Reader) (Options, error) {
	o := DefaultOptions()
	var f fileOptions
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return o, fmt.Errorf("solver: load options: %w", err)
	}
	if f.ILP != nil {
		o.ILP = *f.ILP
	}
	if f.Threshold != nil {
		if !(*f.Threshold > 0 && *f.Threshold < 1) {
			return o, fmt.Errorf("solver: load options: %g: %w", *f.Threshold, ErrBadThreshold)
		}
		o.Threshold = *f.Threshold
	}
	if f.Tolerance != nil {
		if !(*f.Tolerance > 0) {
			return o, fmt.Errorf("solver: load options: %g: %w", *f.Tolerance, ErrBadTolerance)
		}
		o.Tolerance = *f.Tolerance
	}
	o.Timesteps = f.Timesteps

	return o, nil
}
