// SPDX-License-Identifier: MIT
// Package: contact
//
// Purpose:
//   - Single source of truth for input checks on contact lists and vectors.
//   - Return sentinel errors wrapped with a validator tag and the offending index.
//
// Determinism & Performance:
//   - All checks are pure, allocate nothing and run in O(n) over their input.

package contact

import (
	"fmt"
	"math"
)

// validatorErrorf wraps a sentinel with a validator tag.
func validatorErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ValidateSize ensures k > 0.
func ValidateSize(k int) error {
	if k <= 0 {
		return validatorErrorf("ValidateSize", fmt.Errorf("k=%d: %w", k, ErrInvalidSize))
	}

	return nil
}

// ValidateRecords checks that every record references bins in [0,k) and
// carries a finite, non-negative weight.
//
// Returns the first violation found, tagged with the record position.
// Complexity: O(len(records)).
func ValidateRecords(records []Record, k int) error {
	var (
		i int
		r Record
	)
	for i, r = range records {
		if r.BinX < 0 || r.BinX >= k || r.BinY < 0 || r.BinY >= k {
			return validatorErrorf("ValidateRecords",
				fmt.Errorf("record %d %s with k=%d: %w", i, r, k, ErrBinOutOfRange))
		}
		if r.Weight < 0 || math.IsNaN(r.Weight) || math.IsInf(r.Weight, 0) {
			return validatorErrorf("ValidateRecords",
				fmt.Errorf("record %d %s: %w", i, r, ErrInvalidWeight))
		}
	}

	return nil
}

// ValidateVecLen ensures len(v) == k.
func ValidateVecLen(v []float64, k int) error {
	if len(v) != k {
		return validatorErrorf("ValidateVecLen",
			fmt.Errorf("len=%d want %d: %w", len(v), k, ErrDimensionMismatch))
	}

	return nil
}
