// SPDX-License-Identifier: MIT
// Package: balance
//
// retry.go - top-level entry point with parameter relaxation.
//
// Policy:
//   - Each schedule entry (default: (0,0) then (0.01,0.0025)) is launched in order.
//   - Within an entry, a failed solve escalates both exclusion percentages by
//     the escalation factor and retries, up to maxAttempts escalations.
//   - The first converged solve wins; if every entry exhausts, the Result
//     fails with ReasonExhausted.
//   - Escalations are logged (key, new parameters) only when verbose is on.

package balance

import (
	"fmt"

	"github.com/katalvlaran/zeroscale/contact"
)

const opScale = "Scale"

// Scale balances m towards target and returns the per-bin scaling vector.
//
// Inputs:
//   - m: validated contact matrix with k bins.
//   - target: desired marginal per bin (len k); ≤0 leaves a bin out of the fit (output 0),
//     NaN marks it bad (output NaN). Not mutated.
//   - key: opaque label used only in diagnostics and hooks.
//
// Returns:
//   - Result: converged vector (NaN at bad bins, 0 at bins with target <= 0)
//     or a failure with attempts.
//   - error: ErrNilMatrix or ErrDimensionMismatch for malformed input only.
//
// Complexity: up to len(schedule)·(maxAttempts+1) solves.
func Scale(m *contact.Symmetric, target []float64, key string, opts ...Option) (Result, error) {
	if m == nil {
		return Result{}, fmt.Errorf("%s: %w", opScale, ErrNilMatrix)
	}
	if len(target) != m.Size() {
		return Result{}, fmt.Errorf("%s: target len=%d, matrix size=%d: %w",
			opScale, len(target), m.Size(), ErrDimensionMismatch)
	}

	o := gatherOptions(opts...)
	res := Result{Key: key, Status: StatusFailed, Reason: ReasonExhausted}

	for _, p := range o.schedule {
		if vec, ok := launch(m, target, key, p, &o, &res); ok {
			res.Status = StatusConverged
			res.Reason = ReasonNone
			res.Vector = vec
			break
		}
	}

	if lg := o.log(); lg != nil && !res.Converged() {
		lg.Warn("scaling result still empty; vector did not converge",
			"key", key, "attempts", len(res.Attempts))
	}
	o.onResult(key, res)

	return res, nil
}

// launch runs one schedule entry with escalation. Every solve is appended to res.Attempts.
func launch(m *contact.Symmetric, target []float64, key string, p Params, o *Options, res *Result) ([]float64, bool) {
	vec, att := solve(m, target, p, o)
	record(key, att, o, res)

	for count := 0; vec == nil && count < o.maxAttempts; count++ {
		p = p.escalate(o.escalation)
		if lg := o.log(); lg != nil {
			lg.Info("did not converge, escalating exclusion",
				"key", key,
				"reason", att.Reason.String(),
				"percentLowRowSumExcluded", p.LowRowSumExcluded,
				"percentZValsToIgnore", p.ZValsIgnored)
		}
		vec, att = solve(m, target, p, o)
		record(key, att, o, res)
	}

	return vec, vec != nil
}

func record(key string, att Attempt, o *Options, res *Result) {
	res.Attempts = append(res.Attempts, att)
	if lg := o.log(); lg != nil {
		lg.Debug("scaling attempt",
			"key", key,
			"iterations", att.Iterations,
			"ber", att.Ber,
			"residual", att.Residual,
			"badBins", att.BadBins,
			"reason", att.Reason.String())
	}
	o.onAttempt(key, att)
}
