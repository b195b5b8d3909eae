// SPDX-License-Identifier: MIT

package balance

import (
	"fmt"
	"math"
)

// Params is one exclusion setting of a solve.
//
//   - LowRowSumExcluded: fraction of the lowest non-zero row sums excluded
//     (one tenth of it is also cut from the top).
//   - ZValsIgnored: fraction of target values clipped on each side.
type Params struct {
	LowRowSumExcluded float64 `yaml:"low_row_sum_excluded" toml:"low_row_sum_excluded"`
	ZValsIgnored      float64 `yaml:"z_vals_ignored" toml:"z_vals_ignored"`
}

func (p Params) valid() bool {
	ok := func(x float64) bool { return !math.IsNaN(x) && x >= 0 && x < 1 }
	return ok(p.LowRowSumExcluded) && ok(p.ZValsIgnored)
}

// escalate multiplies both percentages by f.
func (p Params) escalate(f float64) Params {
	return Params{LowRowSumExcluded: f * p.LowRowSumExcluded, ZValsIgnored: f * p.ZValsIgnored}
}

// Status is the overall outcome of a Scale call.
type Status int

const (
	// StatusFailed means no attempt produced a vector.
	StatusFailed Status = iota
	// StatusConverged means Result.Vector holds a converged scaling vector.
	StatusConverged
)

func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Reason tells why a solve (or the whole Scale) did not produce a vector.
type Reason int

const (
	// ReasonNone is the reason of a converged solve.
	ReasonNone Reason = iota
	// ReasonStagnated: the iteration error stopped improving before reaching tolerance.
	ReasonStagnated
	// ReasonMaxIterations: the iteration cap was hit before reaching tolerance.
	ReasonMaxIterations
	// ReasonResidual: the iteration settled but the row-sum residual exceeds its bound.
	ReasonResidual
	// ReasonNoUsableBins: every bin was excluded, nothing left to fit.
	ReasonNoUsableBins
	// ReasonExhausted: every schedule entry and escalation failed.
	ReasonExhausted
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonStagnated:
		return "stagnated"
	case ReasonMaxIterations:
		return "max-iterations"
	case ReasonResidual:
		return "residual"
	case ReasonNoUsableBins:
		return "no-usable-bins"
	case ReasonExhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Attempt records one solve.
type Attempt struct {
	Params     Params
	Iterations int
	Ber        float64 // last per-iteration change of the scaling vector
	Residual   float64 // max |balanced row sum − target| over fitted bins
	Reason     Reason  // ReasonNone on success

	// BadBins counts NaN entries of the attempt's vector: bins marked bad by
	// preprocessing plus fitted bins whose entry ended non-finite. When no
	// iteration ran (ReasonNoUsableBins) it is the bad-bin count, the only
	// bins that would be NaN. Zero-target bins are never counted.
	BadBins int
}

// Converged reports whether the attempt produced a vector.
func (a Attempt) Converged() bool { return a.Reason == ReasonNone }

// Result is the explicit success/failure outcome of Scale.
//
//   - On success Vector has one entry per bin and Reason is ReasonNone. Bad
//     bins (no self-contact, outlier row sum, clipped or NaN target) are NaN.
//     Bins with target <= 0 are left out of the fit and come out as 0;
//     NormalizeVectorByScaleFactor turns those into NaN.
//   - On failure Vector is nil and Reason is ReasonExhausted.
//
// Attempts lists every solve in execution order, so "no attempt made"
// (empty) is distinguishable from "attempts failed".
type Result struct {
	Key      string
	Status   Status
	Reason   Reason
	Vector   []float64
	Attempts []Attempt
}

// Converged reports whether the result carries a vector.
func (r Result) Converged() bool { return r.Status == StatusConverged }

// Err returns nil on success and a wrapped ErrNotConverged otherwise.
func (r Result) Err() error {
	if r.Converged() {
		return nil
	}
	return fmt.Errorf("%q after %d attempts (%s): %w", r.Key, len(r.Attempts), r.Reason, ErrNotConverged)
}
