// SPDX-License-Identifier: MIT

// Package batch balances many independent contact matrices (for example one
// per chromosome or resolution) on a bounded pool of workers.
//
// Each job runs a self-contained balance.Scale; the engine shares no mutable
// state, so workers need no synchronization beyond collecting results.
// Cancellation is checked between jobs only: a solve in progress always
// finishes, since its cost is bounded by the iteration and attempt caps.
//
// Errors:
//   - malformed jobs (nil matrix, wrong target length) are aggregated with
//     multierr and do not stop the other jobs;
//   - context cancellation is reported once, and skipped jobs keep a zero Result
//     with only their Key set;
//   - non-convergence is never an error: inspect Result.Converged.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/zeroscale/balance"
	"github.com/katalvlaran/zeroscale/contact"
)

// ErrInvalidJob indicates a job that cannot be balanced as submitted.
var ErrInvalidJob = errors.New("batch: invalid job")

// Job is one balancing context.
type Job struct {
	Key    string
	Matrix *contact.Symmetric
	Target []float64
}

// Option configures Run.
type Option func(*options)

type options struct {
	workers   int
	normalize bool
	balance   []balance.Option
}

// WithWorkers bounds the number of concurrent solves. n <= 0 means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithNormalize makes every job return normalization factors
// (balance.ScaleToVector) instead of raw scaling vectors.
func WithNormalize(v bool) Option {
	return func(o *options) { o.normalize = v }
}

// WithBalanceOptions forwards engine options to every job.
func WithBalanceOptions(opts ...balance.Option) Option {
	return func(o *options) { o.balance = append(o.balance, opts...) }
}

// Run balances jobs concurrently and returns one Result per job, in job order.
func Run(ctx context.Context, jobs []Job, opts ...Option) ([]balance.Result, error) {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.workers <= 0 {
		o.workers = runtime.GOMAXPROCS(0)
	}

	results := make([]balance.Result, len(jobs))
	var (
		g        errgroup.Group
		mu       sync.Mutex
		errs     error
		canceled sync.Once
	)
	g.SetLimit(o.workers)

	for i := range jobs {
		results[i].Key = jobs[i].Key
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				canceled.Do(func() {
					mu.Lock()
					errs = multierr.Append(errs, err)
					mu.Unlock()
				})
				return nil
			}

			res, err := runOne(jobs[i], &o)
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("job %d %q: %w", i, jobs[i].Key, err))
				mu.Unlock()
				return nil
			}
			results[i] = res
			return nil
		})
	}
	// Workers never return errors; failures are collected in errs.
	_ = g.Wait()

	return results, errs
}

func runOne(j Job, o *options) (balance.Result, error) {
	if j.Matrix == nil {
		return balance.Result{}, fmt.Errorf("nil matrix: %w", ErrInvalidJob)
	}
	var (
		res balance.Result
		err error
	)
	if o.normalize {
		res, err = balance.ScaleToVector(j.Matrix, j.Target, j.Key, o.balance...)
	} else {
		res, err = balance.Scale(j.Matrix, j.Target, j.Key, o.balance...)
	}
	if err != nil {
		return balance.Result{}, errors.Join(ErrInvalidJob, err)
	}

	return res, nil
}
