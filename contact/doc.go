// Package contact models a genome-wide contact-frequency matrix as a flat
// list of upper-triangle records and exposes it as a sparse, read-only,
// symmetric matrix.
//
// The only primitive the balancing engine needs is matrix–vector multiply:
//
//	m, err := contact.NewSymmetric(records, k)
//	if err != nil {
//	  // ErrInvalidSize, ErrBinOutOfRange or ErrInvalidWeight
//	}
//	rowSums := m.RowSums() // A·1
//
// Off-diagonal records count in both directions; diagonal records once.
// Nothing is densified: every operation is O(number of records).
package contact
