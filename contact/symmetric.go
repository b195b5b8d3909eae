// SPDX-License-Identifier: MIT

// Package contact - sparse symmetric contact matrix (read-only view).
//
// Purpose:
//   - Wrap a flat list of upper-triangle contact records as an immutable k×k
//     symmetric non-negative matrix.
//   - Provide the single traversal the balancer needs: matrix–vector multiply.
//   - Keep every helper O(nnz) over the record list; no dense storage is ever built.
//
// Determinism:
//   - Records are traversed in slice order, so floating-point sums are
//     reproducible for a fixed input order.
//
// Complexity quicksheet:
//   - NewSymmetric: O(nnz) validation, no copy; Multiply: O(nnz + k);
//     SelfContact/RowSums/BalancedRowSums: O(nnz + k); Scaled: O(nnz).

package contact

import (
	"fmt"
	"math"
)

// ---------- error context tags ----------

const (
	opNewSymmetric    = "NewSymmetric"
	opMultiply        = "Multiply"
	opBalancedRowSums = "BalancedRowSums"
	opScaled          = "Scaled"
)

// symmetricErrorf wraps an error with a uniform Symmetric context.
func symmetricErrorf(method string, err error) error {
	return fmt.Errorf("Symmetric.%s: %w", method, err)
}

// Symmetric is a read-only view over the upper triangle of a symmetric
// contact matrix with k bins.
//   - k is the dimension (number of bins).
//   - records is NOT copied; callers must not mutate it while the view is in use.
type Symmetric struct {
	k       int
	records []Record
}

// NewSymmetric validates records against k and returns a view over them.
//
// Errors:
//   - ErrInvalidSize if k <= 0.
//   - ErrBinOutOfRange / ErrInvalidWeight from ValidateRecords.
func NewSymmetric(records []Record, k int) (*Symmetric, error) {
	if err := ValidateSize(k); err != nil {
		return nil, symmetricErrorf(opNewSymmetric, err)
	}
	if err := ValidateRecords(records, k); err != nil {
		return nil, symmetricErrorf(opNewSymmetric, err)
	}

	return &Symmetric{k: k, records: records}, nil
}

// Size returns the number of bins k (0 for a nil matrix).
func (m *Symmetric) Size() int {
	if m == nil {
		return 0
	}
	return m.k
}

// Len returns the number of stored records (0 for a nil matrix).
func (m *Symmetric) Len() int {
	if m == nil {
		return 0
	}
	return len(m.records)
}

// Records returns the underlying record slice (shared, do not mutate).
func (m *Symmetric) Records() []Record {
	if m == nil {
		return nil
	}
	return m.records
}

// Multiply computes dst = A·v where A is the symmetric matrix.
//
// Implementation:
//   - Stage 1: validate lengths.
//   - Stage 2: zero dst.
//   - Stage 3: one pass over records; off-diagonal records add in both
//     directions, diagonal records once.
//
// dst must not alias v.
func (m *Symmetric) Multiply(v, dst []float64) error {
	if m == nil {
		return symmetricErrorf(opMultiply, ErrNilMatrix)
	}
	if err := ValidateVecLen(v, m.k); err != nil {
		return symmetricErrorf(opMultiply, err)
	}
	if err := ValidateVecLen(dst, m.k); err != nil {
		return symmetricErrorf(opMultiply, err)
	}
	m.mulInto(v, dst)

	return nil
}

// mulInto is the unchecked kernel behind Multiply. Lengths must equal k.
func (m *Symmetric) mulInto(v, dst []float64) {
	for p := range dst {
		dst[p] = 0
	}
	var x, y int
	var w float64
	for _, r := range m.records {
		x, y, w = r.BinX, r.BinY, r.Weight
		if x == y {
			dst[x] += w * v[x]
			continue
		}
		dst[x] += w * v[y]
		dst[y] += w * v[x]
	}
}

// MulUnchecked computes dst = A·v without validation. It exists for hot
// loops that have already checked the receiver and buffer lengths once.
func (m *Symmetric) MulUnchecked(v, dst []float64) { m.mulInto(v, dst) }

// SelfContact reports, per bin, whether a diagonal record with a strictly
// positive weight exists. A bin without one has no self-contact.
// A nil matrix has no bins and yields nil.
func (m *Symmetric) SelfContact() []bool {
	if m == nil {
		return nil
	}
	has := make([]bool, m.k)
	for _, r := range m.records {
		if r.BinX == r.BinY && r.Weight > 0 {
			has[r.BinX] = true
		}
	}

	return has
}

// RowSums returns the unweighted marginal of every bin (A·1).
// A nil matrix has no bins and yields nil.
func (m *Symmetric) RowSums() []float64 {
	if m == nil {
		return nil
	}
	ones := make([]float64, m.k)
	for p := range ones {
		ones[p] = 1
	}
	out := make([]float64, m.k)
	m.mulInto(ones, out)

	return out
}

// BalancedRowSums returns Σ_q A[p,q]·s[p]·s[q] for every bin p.
// Bins whose scale is NaN get NaN; contributions from NaN partners are skipped.
func (m *Symmetric) BalancedRowSums(scale []float64) ([]float64, error) {
	if m == nil {
		return nil, symmetricErrorf(opBalancedRowSums, ErrNilMatrix)
	}
	if err := ValidateVecLen(scale, m.k); err != nil {
		return nil, symmetricErrorf(opBalancedRowSums, err)
	}
	clean := make([]float64, m.k)
	for p, s := range scale {
		if !math.IsNaN(s) {
			clean[p] = s
		}
	}
	out := make([]float64, m.k)
	m.mulInto(clean, out)
	for p, s := range scale {
		if math.IsNaN(s) {
			out[p] = math.NaN()
			continue
		}
		out[p] *= s
	}

	return out, nil
}

// Scaled returns a new record list with weights w·s[x]·s[y].
// Records touching a NaN-scaled bin are dropped.
func (m *Symmetric) Scaled(scale []float64) ([]Record, error) {
	if m == nil {
		return nil, symmetricErrorf(opScaled, ErrNilMatrix)
	}
	if err := ValidateVecLen(scale, m.k); err != nil {
		return nil, symmetricErrorf(opScaled, err)
	}
	out := make([]Record, 0, len(m.records))
	for _, r := range m.records {
		if math.IsNaN(scale[r.BinX]) || math.IsNaN(scale[r.BinY]) {
			continue
		}
		out = append(out, Record{BinX: r.BinX, BinY: r.BinY, Weight: r.Weight * scale[r.BinX] * scale[r.BinY]})
	}

	return out, nil
}
