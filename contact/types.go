// SPDX-License-Identifier: MIT

package contact

import "fmt"

// Record is one observed contact count between two genomic bins.
//
// The matrix is symmetric: a record with BinX != BinY contributes to both
// (BinX,BinY) and (BinY,BinX). Records are conventionally stored for the
// upper triangle only (BinX <= BinY), but either orientation is accepted.
type Record struct {
	BinX   int
	BinY   int
	Weight float64
}

// Diagonal reports whether the record is a self-contact.
func (r Record) Diagonal() bool { return r.BinX == r.BinY }

// String renders the record as "(x,y,w)".
func (r Record) String() string {
	return fmt.Sprintf("(%d,%d,%g)", r.BinX, r.BinY, r.Weight)
}
