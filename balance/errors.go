// SPDX-License-Identifier: MIT
// Package balance: sentinel error set.
// Only malformed input or configuration produces an error value.
// Non-convergence is an expected numerical outcome and is reported through
// Result, never as an error from Scale; Result.Err maps it to
// ErrNotConverged for callers that prefer error-style handling.

package balance

import (
	"errors"

	"github.com/katalvlaran/zeroscale/contact"
)

var (
	// ErrNilMatrix indicates that a nil *contact.Symmetric was passed.
	// It is contact.ErrNilMatrix, so either name matches with errors.Is.
	ErrNilMatrix = contact.ErrNilMatrix

	// ErrDimensionMismatch indicates a target or scaling vector whose length
	// differs from the matrix size.
	ErrDimensionMismatch = errors.New("balance: dimension mismatch")

	// ErrNotConverged marks a Result whose attempts all failed.
	ErrNotConverged = errors.New("balance: scaling did not converge")

	// ErrInvalidConfig indicates a Config value outside its valid domain.
	ErrInvalidConfig = errors.New("balance: invalid configuration")

	// ErrUnknownConfigFormat indicates a config file extension that is neither YAML nor TOML.
	ErrUnknownConfigFormat = errors.New("balance: unknown config format")
)
