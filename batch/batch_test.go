// SPDX-License-Identifier: MIT

package batch_test

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/multierr"

	"github.com/katalvlaran/zeroscale/balance"
	"github.com/katalvlaran/zeroscale/batch"
	"github.com/katalvlaran/zeroscale/contact"
	"github.com/katalvlaran/zeroscale/synth"
)

// RunSuite exercises the batch runner under various scenarios.
type RunSuite struct {
	suite.Suite
}

func TestRunSuite(t *testing.T) {
	suite.Run(t, new(RunSuite))
}

// jobs builds n independent random contexts "chr1".."chrN".
func (s *RunSuite) jobs(n, k int) []batch.Job {
	out := make([]batch.Job, n)
	for i := range out {
		recs, err := synth.Random(k, 0.1, synth.DeriveSeed(99, uint64(i)))
		require.NoError(s.T(), err)
		m, err := contact.NewSymmetric(recs, k)
		require.NoError(s.T(), err)
		target, err := synth.Ones(k)
		require.NoError(s.T(), err)
		out[i] = batch.Job{Key: fmt.Sprintf("chr%d", i+1), Matrix: m, Target: target}
	}
	return out
}

// TestOrderAndConvergence verifies results come back in job order and converge.
func (s *RunSuite) TestOrderAndConvergence() {
	jobs := s.jobs(6, 30)
	res, err := batch.Run(context.Background(), jobs, batch.WithWorkers(3))
	require.NoError(s.T(), err)
	require.Len(s.T(), res, len(jobs))
	for i, r := range res {
		require.Equal(s.T(), jobs[i].Key, r.Key)
		require.True(s.T(), r.Converged(), "job %s", r.Key)
	}
}

// TestMatchesSequential verifies parallel runs equal sequential balance.Scale calls.
func (s *RunSuite) TestMatchesSequential() {
	jobs := s.jobs(4, 25)
	par, err := batch.Run(context.Background(), jobs, batch.WithWorkers(4))
	require.NoError(s.T(), err)

	for i, j := range jobs {
		seq, err := balance.Scale(j.Matrix, j.Target, j.Key)
		require.NoError(s.T(), err)
		require.Equal(s.T(), seq.Vector, par[i].Vector, "job %s", j.Key)
	}
}

// TestInvalidJobsAggregated verifies malformed jobs do not stop the others.
func (s *RunSuite) TestInvalidJobsAggregated() {
	jobs := s.jobs(3, 20)
	jobs[0].Matrix = nil
	jobs[2].Target = jobs[2].Target[:5]

	res, err := batch.Run(context.Background(), jobs, batch.WithWorkers(2))
	require.Error(s.T(), err)
	require.ErrorIs(s.T(), err, batch.ErrInvalidJob)
	require.ErrorIs(s.T(), err, balance.ErrDimensionMismatch)
	require.Len(s.T(), multierr.Errors(err), 2)

	require.True(s.T(), res[1].Converged())
	require.False(s.T(), res[0].Converged())
	require.Equal(s.T(), "chr1", res[0].Key)
}

// TestCanceledContext verifies no job runs after cancellation.
func (s *RunSuite) TestCanceledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	res, err := batch.Run(ctx, s.jobs(5, 10),
		batch.WithBalanceOptions(balance.WithOnResult(func(string, balance.Result) { calls.Add(1) })))
	require.ErrorIs(s.T(), err, context.Canceled)
	require.Len(s.T(), multierr.Errors(err), 1, "cancellation is reported once")
	require.Zero(s.T(), calls.Load())
	for _, r := range res {
		require.Nil(s.T(), r.Vector)
		require.NotEmpty(s.T(), r.Key)
	}
}

// TestNormalize verifies WithNormalize yields mass-preserving factors.
func (s *RunSuite) TestNormalize() {
	jobs := s.jobs(2, 20)
	res, err := batch.Run(context.Background(), jobs, batch.WithNormalize(true))
	require.NoError(s.T(), err)

	for i, r := range res {
		require.True(s.T(), r.Converged())
		var raw, balanced float64
		for _, rec := range jobs[i].Matrix.Records() {
			mult := 2.0
			if rec.BinX == rec.BinY {
				mult = 1.0
			}
			raw += mult * rec.Weight
			balanced += mult * rec.Weight / (r.Vector[rec.BinX] * r.Vector[rec.BinY])
		}
		require.InEpsilon(s.T(), raw, balanced, 1e-12)
		require.False(s.T(), math.IsNaN(balanced))
	}
}
