// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package metrics

import (
	"errors"
	"strings"

	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/request"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values other than the error kinds.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// A Collector holds the fetchx metrics. It is safe for concurrent use.
type Collector struct {
	attemptsTotal        *prometheus.CounterVec
	attemptTimeoutsTotal *prometheus.CounterVec
	retriesTotal         *prometheus.CounterVec
	executionsTotal      *prometheus.CounterVec
	executionDuration    *prometheus.HistogramVec
}

// NewCollector creates a Collector whose metrics are registered with
// registerer. It panics if any of the metrics is already registered.
func NewCollector(registerer prometheus.Registerer) *Collector {
	return &Collector{
		attemptsTotal: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchx_attempts_total",
				Help: "Total number of HTTP request attempts, by outcome",
			},
			[]string{"method", "outcome"},
		),
		attemptTimeoutsTotal: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchx_attempt_timeouts_total",
				Help: "Total number of attempts that ran out of loading time",
			},
			[]string{"method"},
		),
		retriesTotal: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchx_retries_total",
				Help: "Total number of retries scheduled",
			},
			[]string{"method"},
		),
		executionsTotal: promauto.With(registerer).NewCounterVec(
			prometheus.CounterOpts{
				Name: "fetchx_executions_total",
				Help: "Total number of completed fetches, by outcome",
			},
			[]string{"method", "outcome"},
		),
		executionDuration: promauto.With(registerer).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fetchx_execution_duration_seconds",
				Help:    "Duration of fetches in seconds, including retries",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
}

// Install adds the collector's handlers to g.
func (c *Collector) Install(g *fetchx.HandlerGroup) {
	g.PushBack(fetchx.AfterAttempt, fetchx.HandlerFunc(c.afterAttempt))
	g.PushBack(fetchx.AfterAttemptTimeout, fetchx.HandlerFunc(c.afterAttemptTimeout))
	g.PushBack(fetchx.BeforeRetryWait, fetchx.HandlerFunc(c.beforeRetryWait))
	g.PushBack(fetchx.AfterExecutionEnd, fetchx.HandlerFunc(c.afterExecutionEnd))
}

func (c *Collector) afterAttempt(_ fetchx.Event, e *request.Execution) {
	c.attemptsTotal.WithLabelValues(e.Plan.Method, outcome(e.Err)).Inc()
}

func (c *Collector) afterAttemptTimeout(_ fetchx.Event, e *request.Execution) {
	c.attemptTimeoutsTotal.WithLabelValues(e.Plan.Method).Inc()
}

func (c *Collector) beforeRetryWait(_ fetchx.Event, e *request.Execution) {
	c.retriesTotal.WithLabelValues(e.Plan.Method).Inc()
}

func (c *Collector) afterExecutionEnd(_ fetchx.Event, e *request.Execution) {
	c.executionsTotal.WithLabelValues(e.Plan.Method, outcome(e.Err)).Inc()
	c.executionDuration.WithLabelValues(e.Plan.Method).Observe(e.Duration().Seconds())
}

// outcome maps err to a label value: "ok", the snake-cased error kind,
// or "error" for anything else.
func outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var fe *fetchx.Error
	if errors.As(err, &fe) && fe.Kind != 0 {
		return strings.ReplaceAll(fe.Kind.String(), " ", "_")
	}
	return OutcomeError
}
