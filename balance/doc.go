// Package balance computes per-bin scaling factors that balance a sparse
// symmetric contact matrix so its marginal sums match a target profile.
//
// 🚀 What is matrix balancing?
//
//	Observed contact counts carry per-bin coverage bias. Balancing finds a
//	vector s such that Σ_q A[p,q]·s[p]·s[q] ≈ target[p] for every usable
//	bin p, removing that bias. The solver is an alternating row/column
//	scaling (Sinkhorn/RAS style) specialised to symmetric matrices, where
//	the geometric mean of the row and column scales is the solution.
//
// ✨ Key features:
//   - outlier exclusion: bins without self-contact, and bins whose row sum
//     or target falls outside a percentile window, are excluded (NaN)
//   - staged convergence: per-iteration change, stagnation detection, final
//     row-sum residual
//   - retry with relaxation: exclusion percentages escalate on failure
//   - explicit Result: converged vector or a failure carrying every attempt
//   - mass-preserving rescaling into normalization factors
//
// ⚙️ Usage:
//
//	m, _ := contact.NewSymmetric(records, k)
//	res, err := balance.Scale(m, target, "chr1@25kb",
//	  balance.WithVerbose(true),
//	  balance.WithLogger(logger),
//	)
//	if err != nil {
//	  // malformed input: ErrNilMatrix / ErrDimensionMismatch
//	}
//	if !res.Converged() {
//	  // treat this context as unnormalized
//	}
//	norm, _ := balance.NormalizeVectorByScaleFactor(res.Vector, m)
//
// Concurrency:
//
//	Scale is synchronous and keeps all state on its own stack; independent
//	calls may run in parallel without synchronization (see package batch).
package balance
