// SPDX-License-Identifier: MIT

package synth

import "errors"

// Sentinel errors for synthetic generators.
var (
	// ErrTooFewBins is returned when k < 1.
	ErrTooFewBins = errors.New("synth: too few bins")

	// ErrInvalidProbability is returned when an inclusion probability is outside [0,1].
	ErrInvalidProbability = errors.New("synth: probability must be in [0,1]")

	// ErrInvalidBand is returned when a band width is negative.
	ErrInvalidBand = errors.New("synth: band must be >= 0")
)
