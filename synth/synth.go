// SPDX-License-Identifier: MIT
// Package: zeroscale/synth
//
// synth.go - deterministic synthetic contact lists for tests, benchmarks and
// the demo command.
//
// Canonical models:
//   - Random: Erdős–Rényi-like upper triangle over k bins. Every bin gets a
//     positive self-contact and a link to its successor, so the matrix is
//     connected with full diagonal; each remaining pair {i,j}, i<j, is
//     included independently with probability p.
//   - Decay: banded distance-decay pattern w(i,j) ≈ c/(1+|i−j|)^α with
//     multiplicative noise and per-bin coverage bias, resembling Hi-C data.
//
// Determinism:
//   - Stable trial order: for each i asc, j asc (j>i).
//   - Fixed seed ⇒ identical output.

package synth

import (
	"fmt"
	"math"

	"github.com/katalvlaran/zeroscale/contact"
)

const (
	methodRandom = "Random"
	methodDecay  = "Decay"
	methodOnes   = "Ones"

	minBins = 1
	probMin = 0.0
	probMax = 1.0

	// weight range for Random: uniform in [weightMin, weightMin+weightSpan).
	weightMin  = 1.0
	weightSpan = 9.0

	decayAlpha = 1.0
	decayScale = 100.0
)

// Random samples a connected random symmetric contact list over k bins.
// Records are emitted in upper-triangle order (BinX <= BinY).
//
// Errors:
//   - ErrTooFewBins if k < 1.
//   - ErrInvalidProbability if p is outside [0,1].
//
// Complexity: O(k²) Bernoulli trials.
func Random(k int, p float64, seed int64) ([]contact.Record, error) {
	if k < minBins {
		return nil, fmt.Errorf("%s: k=%d < min=%d: %w", methodRandom, k, minBins, ErrTooFewBins)
	}
	if p < probMin || p > probMax || math.IsNaN(p) {
		return nil, fmt.Errorf("%s: p=%.6f not in [%.1f,%.1f]: %w",
			methodRandom, p, probMin, probMax, ErrInvalidProbability)
	}

	rng := rngFromSeed(seed)
	out := make([]contact.Record, 0, 2*k)
	var i, j int
	for i = 0; i < k; i++ {
		out = append(out, contact.Record{BinX: i, BinY: i, Weight: weightMin + weightSpan*rng.Float64()})
		for j = i + 1; j < k; j++ {
			// The successor link is always present to keep the matrix connected.
			if j == i+1 || rng.Float64() < p {
				out = append(out, contact.Record{BinX: i, BinY: j, Weight: weightMin + weightSpan*rng.Float64()})
			}
		}
	}

	return out, nil
}

// Decay builds a banded distance-decay contact list over k bins with the
// given band width (pairs with |i−j| > band are omitted). Each bin carries a
// random coverage bias in [0.5,1.5); weights are c·b_i·b_j/(1+|i−j|)^α
// with ±10% noise.
func Decay(k, band int, seed int64) ([]contact.Record, error) {
	if k < minBins {
		return nil, fmt.Errorf("%s: k=%d < min=%d: %w", methodDecay, k, minBins, ErrTooFewBins)
	}
	if band < 0 {
		return nil, fmt.Errorf("%s: band=%d: %w", methodDecay, band, ErrInvalidBand)
	}

	rng := rngFromSeed(seed)
	bias := make([]float64, k)
	for i := range bias {
		bias[i] = 0.5 + rng.Float64()
	}

	out := make([]contact.Record, 0, k*(band+1))
	var (
		i, j  int
		w, nz float64
	)
	for i = 0; i < k; i++ {
		for j = i; j < k && j-i <= band; j++ {
			nz = 0.9 + 0.2*rng.Float64()
			w = decayScale * bias[i] * bias[j] * nz / math.Pow(1+float64(j-i), decayAlpha)
			out = append(out, contact.Record{BinX: i, BinY: j, Weight: w})
		}
	}

	return out, nil
}

// Ones returns the uniform target vector of length k.
func Ones(k int) ([]float64, error) {
	if k < minBins {
		return nil, fmt.Errorf("%s: k=%d < min=%d: %w", methodOnes, k, minBins, ErrTooFewBins)
	}
	v := make([]float64, k)
	for i := range v {
		v[i] = 1
	}

	return v, nil
}
