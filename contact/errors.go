// SPDX-License-Identifier: MIT
// Package contact: sentinel error set.
// All constructors and kernels in this package return these sentinels,
// wrapped with an operation tag at the detection site. Callers match them
// via errors.Is. Nothing in this package panics on user input.

package contact

import "errors"

var (
	// ErrInvalidSize is returned when the bin count k is not positive.
	ErrInvalidSize = errors.New("contact: bin count must be > 0")

	// ErrBinOutOfRange indicates a record whose BinX or BinY lies outside [0,k).
	ErrBinOutOfRange = errors.New("contact: bin index out of range")

	// ErrInvalidWeight indicates a negative, NaN or ±Inf contact weight.
	ErrInvalidWeight = errors.New("contact: invalid contact weight")

	// ErrDimensionMismatch indicates a vector whose length differs from k.
	ErrDimensionMismatch = errors.New("contact: dimension mismatch")

	// ErrNilMatrix indicates a nil *Symmetric receiver or argument.
	ErrNilMatrix = errors.New("contact: nil matrix")
)
