// SPDX-License-Identifier: MIT
// Package: balance
//
// target.go - target clipping and bad-bin detection, run once per solve.
//
// Stages:
//  1. Clip: strictly-positive finite targets are sorted and values outside the
//     [z, 1−z] percentile window become NaN (removed, not clamped).
//  2. Row sums: one multiply of the all-ones vector, masked at zero targets.
//  3. Structural check: a bin without positive self-contact is bad.
//  4. Row-sum window [l, 1−0.1·l] over the non-zero row sums: bins outside it
//     with a positive target, and bins with a NaN target, are bad.
//
// Bad bins get target 1.0 so that target/row stays finite; they never enter
// the error metrics.

package balance

import (
	"math"
	"sort"

	"github.com/katalvlaran/zeroscale/contact"
)

// prepared holds the per-solve working state produced by preprocessTarget.
type prepared struct {
	target []float64 // working copy; clipped, negatives zeroed, bad bins forced to 1
	row    []float64 // unweighted row sums, zero-target bins masked out
	bad    []float64 // 1 for bad bins, 0 otherwise
	nBad   int
}

// preprocessTarget builds the working target and bad mask for one solve.
// initial is never mutated.
func preprocessTarget(m *contact.Symmetric, initial []float64, p Params) prepared {
	k := m.Size()
	target := make([]float64, k)
	copy(target, initial)
	for i, t := range target {
		if t < 0 {
			target[i] = 0
		}
	}
	clipTargets(target, p.ZValsIgnored)

	one := make([]float64, k)
	for i := range one {
		one[i] = 1
		if target[i] == 0 {
			one[i] = 0
		}
	}

	bad := make([]float64, k)
	for i, ok := range m.SelfContact() {
		if !ok {
			bad[i] = 1
		}
	}

	row := make([]float64, k)
	m.MulUnchecked(one, row)

	low, high := rowSumWindow(row, p.LowRowSumExcluded)
	for i := range target {
		if ((row[i] < low || row[i] > high) && target[i] > 0) || math.IsNaN(target[i]) {
			bad[i] = 1
			target[i] = 1.0
		}
	}

	nBad := 0
	for _, b := range bad {
		if b == 1 {
			nBad++
		}
	}

	return prepared{target: target, row: row, bad: bad, nBad: nBad}
}

// clipTargets sets positive targets outside the [frac, 1−frac] percentile
// window of the strictly-positive finite targets to NaN. +Inf is always
// outside the window.
func clipTargets(target []float64, frac float64) {
	zz := make([]float64, 0, len(target))
	for _, t := range target {
		if t > 0 && !math.IsInf(t, 1) {
			zz = append(zz, t)
		}
	}
	if len(zz) == 0 {
		for i, t := range target {
			if math.IsInf(t, 1) {
				target[i] = math.NaN()
			}
		}
		return
	}
	sort.Float64s(zz)

	l := len(zz)
	lind := clampIndex(int(float64(l)*frac+0.5), l)
	hind := clampIndex(int(float64(l)*(1.0-frac)+0.5), l)
	low, high := zz[lind], zz[hind]

	for i, t := range target {
		if t > 0 && (t < low || t > high) {
			target[i] = math.NaN()
		}
	}
}

// rowSumWindow returns the [low, high] acceptance window over row sums.
// Exact-zero rows are skipped: both ranks are offset by their count n.
func rowSumWindow(row []float64, frac float64) (low, high float64) {
	k := len(row)
	r0 := make([]float64, k)
	copy(r0, row)
	sort.Float64s(r0)

	n := 0
	for _, r := range r0 {
		if r == 0 {
			n++
		}
	}
	lind := clampIndex(n-1+int(float64(k-n)*frac+0.5), k)
	hind := clampIndex(n-1+int(float64(k-n)*(1.0-0.1*frac)+0.5), k)

	return r0[lind], r0[hind]
}

// clampIndex clamps i into [0, n-1].
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
