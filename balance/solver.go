// SPDX-License-Identifier: MIT
// Package: balance
//
// solver.go - alternating row/column scaling of a symmetric matrix.
//
// Algorithm outline (one solve, fixed Params):
//  1. preprocessTarget → working target, row sums, bad mask.
//  2. dr = dc = 1 − bad; excl = bins that are bad or have target 0.
//  3. Repeat while the tracker allows:
//     row[excl] = 1; s = target/row; dr *= s
//     col = (A·dr)·dc; col[excl] = 1; s = target/col; dc *= s
//     row = (A·dc)·dr
//     current = sqrt(dr·dc); ber = max_{p∉excl} |current − previous|
//  4. residual = max_{p∉excl} |(A·current)[p]·current[p] − target[p]|.
//  5. Bad bins become NaN.
//
// By symmetry the fixed point has dr == dc; the geometric mean is the solution.
//
// Numeric policy:
//   - NaN differences do not raise ber (IEEE comparisons with NaN are false);
//     a fitted bin whose entry ends non-finite cannot be balanced and is
//     reported as NaN instead of ±Inf.
//
// Complexity: O(iter·(nnz + k)) time, O(k) working memory per solve.

package balance

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/zeroscale/contact"
)

// solve runs one balancing pass with fixed exclusion parameters.
// It returns the candidate vector (nil on failure) and the attempt record.
// All working buffers are local and dropped on return.
func solve(m *contact.Symmetric, targetInitial []float64, p Params, o *Options) ([]float64, Attempt) {
	k := m.Size()
	pre := preprocessTarget(m, targetInitial, p)
	target, row, bad := pre.target, pre.row, pre.bad

	dr := make([]float64, k)
	dc := make([]float64, k)
	excl := make([]bool, k)
	nFit := 0
	for i := 0; i < k; i++ {
		dr[i] = 1.0 - bad[i]
		dc[i] = 1.0 - bad[i]
		excl[i] = bad[i] == 1 || target[i] == 0
		if !excl[i] {
			nFit++
		}
	}

	att := Attempt{Params: p}
	if nFit == 0 {
		// Nothing to iterate: only the bad bins would be NaN.
		att.BadBins = pre.nBad
		att.Reason = ReasonNoUsableBins
		att.Ber, att.Residual = math.NaN(), math.NaN()
		return nil, att
	}

	col := make([]float64, k)
	s := make([]float64, k)
	current := make([]float64, k)
	calculated := make([]float64, k)
	for i := range current {
		current[i] = math.Sqrt(dr[i] * dc[i])
	}

	tr := newTracker(o)
	for tr.running() {
		forceExcluded(row, excl)
		floats.DivTo(s, target, row)
		floats.Mul(dr, s)

		m.MulUnchecked(dr, col)
		floats.Mul(col, dc)
		forceExcluded(col, excl)
		floats.DivTo(s, target, col)
		floats.Mul(dc, s)

		m.MulUnchecked(dc, row)
		floats.Mul(row, dr)

		for i := range calculated {
			calculated[i] = math.Sqrt(dr[i] * dc[i])
		}
		tr.observe(maxFittedDiff(calculated, current, excl))
		copy(current, calculated)
	}

	// Final residual of the candidate vector.
	m.MulUnchecked(calculated, col)
	residual := 0.0
	var d float64
	for i := range calculated {
		if excl[i] {
			continue
		}
		d = math.Abs(col[i]*calculated[i] - target[i])
		if d > residual {
			residual = d
		}
	}

	nan := 0
	for i := range calculated {
		if bad[i] == 1 || math.IsInf(calculated[i], 0) || math.IsNaN(calculated[i]) {
			calculated[i] = math.NaN()
			nan++
		}
	}

	att.Iterations = tr.iter
	att.Ber = tr.ber
	att.Residual = residual
	att.BadBins = nan
	att.Reason = tr.verdict(residual)
	if att.Reason != ReasonNone {
		return nil, att
	}

	return calculated, att
}

// forceExcluded sets v[p] = 1 for excluded bins so they do not distort the fit.
func forceExcluded(v []float64, excl []bool) {
	for i, e := range excl {
		if e {
			v[i] = 1.0
		}
	}
}

// maxFittedDiff returns max |a[p] − b[p]| over non-excluded bins.
// NaN differences compare false and are skipped.
func maxFittedDiff(a, b []float64, excl []bool) float64 {
	ber := 0.0
	var d float64
	for i := range a {
		if excl[i] {
			continue
		}
		d = math.Abs(a[i] - b[i])
		if d > ber {
			ber = d
		}
	}
	return ber
}
