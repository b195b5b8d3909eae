// SPDX-License-Identifier: MIT

// Package metrics exposes balancing outcomes as Prometheus metrics.
//
// A Collector plugs into the engine through its attempt/result hooks:
//
//	c := metrics.NewCollector("zeroscale")
//	_ = c.Register(prometheus.DefaultRegisterer)
//	res, err := balance.Scale(m, target, key, c.Options()...)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/zeroscale/balance"
)

const (
	// --- Subsystems ---
	ScalingSubsystem = "scaling"

	// --- Metric names ---
	AttemptsTotalName   = "attempts_total"
	ResultsTotalName    = "results_total"
	IterationsName      = "iterations"
	ExcludedBinsName    = "excluded_bins"
	AttemptsPerCallName = "attempts_per_call"
)

var (
	// --- Label sets ---
	ReasonLabels = []string{"reason"}
	StatusLabels = []string{"status"}

	// IterationBuckets cover one solve, capped at the default iteration limit.
	IterationBuckets = []float64{1, 5, 10, 20, 40, 80, 150, 300}

	// BinBuckets cover excluded-bin counts from a handful to whole chromosomes.
	BinBuckets = prometheus.ExponentialBuckets(1, 4, 8)
)

// Collector holds the balancing metrics.
type Collector struct {
	attempts        *prometheus.CounterVec
	results         *prometheus.CounterVec
	iterations      prometheus.Histogram
	excludedBins    prometheus.Histogram
	attemptsPerCall prometheus.Histogram
}

// NewCollector builds unregistered metrics under the given namespace.
func NewCollector(namespace string) *Collector {
	return &Collector{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: ScalingSubsystem,
				Name:      AttemptsTotalName,
				Help:      "Counter of single solves broken out by outcome reason.",
			},
			ReasonLabels,
		),
		results: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: ScalingSubsystem,
				Name:      ResultsTotalName,
				Help:      "Counter of scaling calls broken out by final status.",
			},
			StatusLabels,
		),
		iterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: ScalingSubsystem,
				Name:      IterationsName,
				Help:      "Distribution of iterations per solve.",
				Buckets:   IterationBuckets,
			},
		),
		excludedBins: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: ScalingSubsystem,
				Name:      ExcludedBinsName,
				Help:      "Distribution of NaN bins in converged vectors.",
				Buckets:   BinBuckets,
			},
		),
		attemptsPerCall: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: ScalingSubsystem,
				Name:      AttemptsPerCallName,
				Help:      "Distribution of solves needed per scaling call.",
				Buckets:   prometheus.LinearBuckets(1, 1, 8),
			},
		),
	}
}

// Register registers every metric with reg.
func (c *Collector) Register(reg prometheus.Registerer) error {
	for _, m := range []prometheus.Collector{c.attempts, c.results, c.iterations, c.excludedBins, c.attemptsPerCall} {
		if err := reg.Register(m); err != nil {
			return err
		}
	}
	return nil
}

// RecordAttempt records one solve.
func (c *Collector) RecordAttempt(_ string, a balance.Attempt) {
	c.attempts.WithLabelValues(a.Reason.String()).Inc()
	c.iterations.Observe(float64(a.Iterations))
}

// RecordResult records the final outcome of one scaling call.
func (c *Collector) RecordResult(_ string, r balance.Result) {
	c.results.WithLabelValues(r.Status.String()).Inc()
	c.attemptsPerCall.Observe(float64(len(r.Attempts)))
	if r.Converged() && len(r.Attempts) > 0 {
		c.excludedBins.Observe(float64(r.Attempts[len(r.Attempts)-1].BadBins))
	}
}

// Options returns the engine hooks feeding this collector.
func (c *Collector) Options() []balance.Option {
	return []balance.Option{
		balance.WithOnAttempt(c.RecordAttempt),
		balance.WithOnResult(c.RecordResult),
	}
}
