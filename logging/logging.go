// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package logging

import (
	"github.com/gogama/fetchx"
	"github.com/gogama/fetchx/request"
	"github.com/rs/zerolog"
)

type logger struct {
	log zerolog.Logger
}

// Install adds handlers to g which log each event to log.
func Install(g *fetchx.HandlerGroup, log zerolog.Logger) {
	l := &logger{log: log}
	g.PushBack(fetchx.BeforeExecutionStart, fetchx.HandlerFunc(l.beforeExecutionStart))
	g.PushBack(fetchx.BeforeAttempt, fetchx.HandlerFunc(l.beforeAttempt))
	g.PushBack(fetchx.AfterAttemptTimeout, fetchx.HandlerFunc(l.afterAttemptTimeout))
	g.PushBack(fetchx.AfterAttempt, fetchx.HandlerFunc(l.afterAttempt))
	g.PushBack(fetchx.BeforeRetryWait, fetchx.HandlerFunc(l.beforeRetryWait))
	g.PushBack(fetchx.AfterExecutionEnd, fetchx.HandlerFunc(l.afterExecutionEnd))
}

func (l *logger) with(evt fetchx.Event, e *request.Execution, ze *zerolog.Event) *zerolog.Event {
	return ze.
		Stringer("event", evt).
		Str("method", e.Plan.Method).
		Str("url", e.Plan.URL.String()).
		Int("attempt", e.Attempt)
}

func (l *logger) beforeExecutionStart(evt fetchx.Event, e *request.Execution) {
	l.with(evt, e, l.log.Debug()).
		Int("retries_left", e.RetriesLeft).
		Msg("Fetch starting")
}

func (l *logger) beforeAttempt(evt fetchx.Event, e *request.Execution) {
	l.with(evt, e, l.log.Debug()).Msg("Attempt starting")
}

func (l *logger) afterAttemptTimeout(evt fetchx.Event, e *request.Execution) {
	l.with(evt, e, l.log.Warn()).
		Int("attempt_timeouts", e.AttemptTimeouts).
		Err(e.Err).
		Msg("Attempt timed out")
}

func (l *logger) afterAttempt(evt fetchx.Event, e *request.Execution) {
	ze := l.with(evt, e, l.log.Debug())
	if e.Response != nil {
		ze = ze.Int("status", e.StatusCode())
	}
	if e.Err != nil {
		ze = ze.Err(e.Err)
	}
	ze.Msg("Attempt finished")
}

func (l *logger) beforeRetryWait(evt fetchx.Event, e *request.Execution) {
	l.with(evt, e, l.log.Info()).
		Int("retries_left", e.RetriesLeft).
		Err(e.Err).
		Msg("Waiting to retry")
}

func (l *logger) afterExecutionEnd(evt fetchx.Event, e *request.Execution) {
	ze := l.log.Debug()
	if e.Err != nil {
		ze = l.log.Warn().Err(e.Err)
	}
	ze = l.with(evt, e, ze).
		Int("attempts", e.Attempt+1).
		Dur("duration", e.Duration())
	if e.Response != nil {
		ze = ze.Int("status", e.StatusCode())
	}
	ze.Msg("Fetch finished")
}
