// SPDX-License-Identifier: MIT
// Package: balance
//
// rescale.go - conversion of a raw scaling vector into normalization factors.
//
// Convention:
//   - Output factors divide contacts: balanced(x,y) = w / (v[x]·v[y]).
//   - Mass ratio counts off-diagonal records twice and diagonal records once,
//     matching the symmetric upper-triangle storage.

package balance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/zeroscale/contact"
)

const (
	opNormalize     = "NormalizeVectorByScaleFactor"
	opScaleToVector = "ScaleToVector"
)

// NormalizeVectorByScaleFactor inverts a converged scaling vector and
// rescales it so the balanced matrix keeps the raw total contact mass.
//
// Implementation:
//   - Stage 1: v[p] = 1/vector[p] for positive finite entries; others become NaN.
//   - Stage 2: ratio = Σ w/(v[x]·v[y]) / Σ w over records with both ends
//     non-NaN (off-diagonal twice, diagonal once).
//   - Stage 3: v *= sqrt(ratio).
//
// After this, Σ w/(v[x]·v[y]) over the same records equals Σ w.
// If no record has two non-NaN ends, the inverted vector is returned unscaled.
// vector is not mutated.
func NormalizeVectorByScaleFactor(vector []float64, m *contact.Symmetric) ([]float64, error) {
	if m == nil {
		return nil, fmt.Errorf("%s: %w", opNormalize, ErrNilMatrix)
	}
	if len(vector) != m.Size() {
		return nil, fmt.Errorf("%s: len=%d, matrix size=%d: %w",
			opNormalize, len(vector), m.Size(), ErrDimensionMismatch)
	}

	v := make([]float64, len(vector))
	for i, x := range vector {
		if x <= 0 || math.IsNaN(x) || math.IsInf(x, 1) {
			v[i] = math.NaN()
			continue
		}
		v[i] = 1 / x
	}

	var normalizedSum, sum, nv float64
	for _, r := range m.Records() {
		if math.IsNaN(v[r.BinX]) || math.IsNaN(v[r.BinY]) {
			continue
		}
		nv = r.Weight / (v[r.BinX] * v[r.BinY])
		normalizedSum += nv
		sum += r.Weight
		if r.BinX != r.BinY {
			normalizedSum += nv
			sum += r.Weight
		}
	}
	if sum == 0 {
		return v, nil
	}

	// NaN entries stay NaN under scaling.
	floats.Scale(math.Sqrt(normalizedSum/sum), v)

	return v, nil
}

// ScaleToVector runs Scale and, on success, NormalizeVectorByScaleFactor.
// The Result's Vector is replaced by the normalization factors.
func ScaleToVector(m *contact.Symmetric, target []float64, key string, opts ...Option) (Result, error) {
	res, err := Scale(m, target, key, opts...)
	if err != nil {
		return res, err
	}
	if !res.Converged() {
		return res, nil
	}
	norm, err := NormalizeVectorByScaleFactor(res.Vector, m)
	if err != nil {
		return res, fmt.Errorf("%s: %w", opScaleToVector, err)
	}
	res.Vector = norm

	return res, nil
}
