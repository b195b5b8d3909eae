// SPDX-License-Identifier: MIT

// Package balance: functional configuration for the scaling engine.
// This file defines:
//   - documented defaults (constants, single source of truth),
//   - Option / Options (functional options with internal state),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal).
//
// Design goals:
//   - Deterministic behavior: no global state. Verbosity and the logger are
//     explicit options, never process-wide toggles.
//   - Safe by construction: panic only on invalid parameters (programmer error).
//     User-supplied configuration goes through Config, which returns errors instead.
package balance

import (
	"log/slog"
	"math"
)

// ---------- Defaults (single source of truth) ----------

// Convergence policy.
const (
	// DefaultTolerance bounds the per-iteration change of the scaling vector.
	// The final residual must stay within DefaultResidualFactor·tolerance.
	DefaultTolerance = 5.0e-4

	// DefaultResidualFactor multiplies the tolerance for the final row-sum residual check.
	DefaultResidualFactor = 5.0

	// DefaultMaxIterations caps the iterations of a single solve.
	DefaultMaxIterations = 300

	// DefaultStagnationDelta is the minimal relative improvement of the
	// iteration error; smaller improvements count as "stuck".
	DefaultStagnationDelta = 1.0e-2

	// DefaultStagnationTrials is both the warm-up length and the number of
	// consecutive stuck iterations that abort a solve.
	DefaultStagnationTrials = 5
)

// Retry policy.
const (
	// DefaultMaxAttempts is the number of escalations tried within one parameter setting.
	DefaultMaxAttempts = 3

	// DefaultEscalationFactor multiplies both exclusion percentages on every escalation.
	DefaultEscalationFactor = 1.5
)

// DefaultSchedule is the ordered list of initial exclusion settings; the
// next entry is launched only when the previous one exhausted its escalations.
var DefaultSchedule = []Params{
	{LowRowSumExcluded: 0, ZValsIgnored: 0},
	{LowRowSumExcluded: 0.01, ZValsIgnored: 0.0025},
}

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicToleranceInvalid   = "balance: WithTolerance: tol must be finite and > 0"
	panicMaxIterInvalid     = "balance: WithMaxIterations: n must be >= 1"
	panicDeltaInvalid       = "balance: WithStagnationDelta: del must be in [0,1)"
	panicTrialsInvalid      = "balance: WithStagnationTrials: n must be >= 1"
	panicAttemptsInvalid    = "balance: WithMaxAttempts: n must be >= 0"
	panicEscalationInvalid  = "balance: WithEscalationFactor: f must be finite and >= 1"
	panicScheduleInvalid    = "balance: WithSchedule: need at least one entry with percentages in [0,1)"
	panicResidualFactorZero = "balance: WithResidualFactor: f must be finite and > 0"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept ...Option.
type Options struct {
	tol            float64
	residualFactor float64
	maxIter        int
	del            float64
	numTrials      int

	maxAttempts int
	escalation  float64
	schedule    []Params

	verbose bool
	logger  *slog.Logger

	onAttempt func(key string, a Attempt)
	onResult  func(key string, r Result)
}

// defaultOptions returns the zero-configuration engine settings.
func defaultOptions() Options {
	sched := make([]Params, len(DefaultSchedule))
	copy(sched, DefaultSchedule)

	return Options{
		tol:            DefaultTolerance,
		residualFactor: DefaultResidualFactor,
		maxIter:        DefaultMaxIterations,
		del:            DefaultStagnationDelta,
		numTrials:      DefaultStagnationTrials,
		maxAttempts:    DefaultMaxAttempts,
		escalation:     DefaultEscalationFactor,
		schedule:       sched,
		onAttempt:      func(string, Attempt) {},
		onResult:       func(string, Result) {},
	}
}

// gatherOptions applies opts over the defaults in order (last write wins).
func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithTolerance sets the convergence tolerance on the per-iteration change.
// Panics if tol is not finite and strictly positive.
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol <= 0 {
		panic(panicToleranceInvalid)
	}
	return func(o *Options) { o.tol = tol }
}

// WithResidualFactor sets the multiplier applied to the tolerance for the
// final row-sum residual check.
func WithResidualFactor(f float64) Option {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		panic(panicResidualFactorZero)
	}
	return func(o *Options) { o.residualFactor = f }
}

// WithMaxIterations caps the iterations of one solve. Panics if n < 1.
func WithMaxIterations(n int) Option {
	if n < 1 {
		panic(panicMaxIterInvalid)
	}
	return func(o *Options) { o.maxIter = n }
}

// WithStagnationDelta sets the minimal relative improvement below which an
// iteration counts as stuck. Panics unless 0 <= del < 1.
func WithStagnationDelta(del float64) Option {
	if math.IsNaN(del) || del < 0 || del >= 1 {
		panic(panicDeltaInvalid)
	}
	return func(o *Options) { o.del = del }
}

// WithStagnationTrials sets the warm-up length and the stuck-iteration
// budget of one solve. Panics if n < 1.
func WithStagnationTrials(n int) Option {
	if n < 1 {
		panic(panicTrialsInvalid)
	}
	return func(o *Options) { o.numTrials = n }
}

// WithMaxAttempts sets the number of escalations per schedule entry.
// Zero disables escalation. Panics if n < 0.
func WithMaxAttempts(n int) Option {
	if n < 0 {
		panic(panicAttemptsInvalid)
	}
	return func(o *Options) { o.maxAttempts = n }
}

// WithEscalationFactor sets the multiplier applied to both exclusion
// percentages on every escalation. Panics unless f is finite and >= 1.
func WithEscalationFactor(f float64) Option {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 {
		panic(panicEscalationInvalid)
	}
	return func(o *Options) { o.escalation = f }
}

// WithSchedule replaces the ordered list of initial exclusion settings.
// Panics on an empty schedule or on percentages outside [0,1).
func WithSchedule(p ...Params) Option {
	if len(p) == 0 {
		panic(panicScheduleInvalid)
	}
	for _, x := range p {
		if !x.valid() {
			panic(panicScheduleInvalid)
		}
	}
	sched := make([]Params, len(p))
	copy(sched, p)
	return func(o *Options) { o.schedule = sched }
}

// WithVerbose toggles diagnostic logging of escalations and failures.
// Diagnostics never influence control flow.
func WithVerbose(v bool) Option {
	return func(o *Options) { o.verbose = v }
}

// WithLogger sets the structured logger used for diagnostics.
// A nil logger falls back to slog.Default() when verbose is on.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithOnAttempt registers a hook called after every single solve.
func WithOnAttempt(fn func(key string, a Attempt)) Option {
	return func(o *Options) {
		if fn != nil {
			o.onAttempt = fn
		}
	}
}

// WithOnResult registers a hook called once per Scale with the final Result.
func WithOnResult(fn func(key string, r Result)) Option {
	return func(o *Options) {
		if fn != nil {
			o.onResult = fn
		}
	}
}

// log returns the logger to use, or nil when diagnostics are off.
func (o *Options) log() *slog.Logger {
	if !o.verbose {
		return nil
	}
	if o.logger == nil {
		return slog.Default()
	}
	return o.logger
}
