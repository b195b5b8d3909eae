// SPDX-License-Identifier: MIT

package balance

// tracker decides continuation and termination of one solve.
//
// The loop condition is (ber > tol || err > residualFactor·tol) && iter < maxIter.
// err is only measured once after the loop, so while iterating it keeps its
// initial sentinel and a solve ends by stagnation or by the iteration cap.
// The converged vector is therefore refined well past tol.
//
// Stagnation: from iteration numTrials+2 on, an iteration whose ber is not
// below (1−del)·previous ber counts as stuck; any real improvement resets the
// counter; numTrials consecutive stuck iterations stop the loop.
type tracker struct {
	tol            float64
	residualFactor float64
	del            float64
	maxIter        int
	numTrials      int

	iter      int
	stuck     int
	ber       float64
	err       float64
	stagnated bool
}

func newTracker(o *Options) *tracker {
	return &tracker{
		tol:            o.tol,
		residualFactor: o.residualFactor,
		del:            o.del,
		maxIter:        o.maxIter,
		numTrials:      o.numTrials,
		ber:            10.0 * (1.0 + o.tol),
		err:            10.0 * (1.0 + o.tol),
	}
}

// running reports whether another iteration should run.
func (t *tracker) running() bool {
	return !t.stagnated && (t.ber > t.tol || t.err > t.residualFactor*t.tol) && t.iter < t.maxIter
}

// observe records the ber of the iteration that just finished.
func (t *tracker) observe(ber float64) {
	t.iter++
	prev := t.ber
	t.ber = ber
	if t.iter < t.numTrials+2 {
		return
	}
	if ber > (1.0-t.del)*prev {
		t.stuck++
	} else {
		t.stuck = 0
	}
	if t.stuck >= t.numTrials {
		t.stagnated = true
	}
}

// verdict records the final residual and classifies the solve.
func (t *tracker) verdict(residual float64) Reason {
	t.err = residual
	switch {
	case t.ber > t.tol && t.stagnated:
		return ReasonStagnated
	case t.ber > t.tol:
		return ReasonMaxIterations
	case t.err > t.residualFactor*t.tol:
		return ReasonResidual
	default:
		return ReasonNone
	}
}
