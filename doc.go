// SPDX-License-Identifier: MIT

// Package zeroscale balances sparse symmetric contact matrices (Hi-C style)
// so that every usable bin reaches a target marginal.
//
// The module is organized into small packages:
//
//	contact/  validated sparse symmetric matrix (upper-triangle records) and its product
//	balance/  target preprocessing, the iterative solver, stagnation tracking,
//	          retry with escalating bin exclusion, and mass-preserving rescale
//	synth/    deterministic synthetic contact lists for tests, demos and benchmarks
//	batch/    bounded concurrent balancing of many independent contexts
//	metrics/  Prometheus collectors fed by the balance hooks
//	cmd/      demo CLI (cmd/zeroscale)
//
// Quick start:
//
//	m, err := contact.NewSymmetric(records, k)
//	if err != nil { ... }
//	res, err := balance.Scale(m, target, "chr1")
//	if err != nil { ... }          // malformed input only
//	if !res.Converged() { ... }    // res.Reason, res.Attempts explain why
//	vec := res.Vector              // NaN at excluded bins
//
// Non-convergence is a result, not an error; Result.Err maps it to
// balance.ErrNotConverged for callers that prefer error flow.
package zeroscale
