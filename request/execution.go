// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// An Execution is the state of one top-level fetch of a Plan.
//
// An Execution is created once per call to fetchx.Client.Fetch and is
// threaded unchanged through every retry of that call, so that the
// retry budget and the call-owned cancellation controller persist
// across attempts. Two calls never share an Execution.
//
// Timeout and retry policies and event handlers may read the exported
// fields, and may use SetValue and Value to keep their own data on the
// Execution, but should otherwise leave the state alone.
type Execution struct {
	// Plan specifies the HTTP request plan being executed. It is never
	// nil.
	Plan *Plan

	// Start is the start time of the fetch. It is assigned when the
	// first attempt begins and remains constant thereafter.
	Start time.Time

	// End is the end time of the fetch. It contains the zero value
	// until the fetch reaches a terminal state.
	End time.Time

	// Attempt is the zero-based number of the current attempt. It is
	// zero on the initial attempt, one on the first retry, and so on.
	Attempt int

	// AttemptTimeouts counts the attempts that ended in an overtime
	// failure.
	AttemptTimeouts int

	// RetriesLeft is the remaining retry budget. It starts at the
	// configured number of retries and is decremented in place by
	// TakeRetry; it is not an echo of the configuration.
	RetriesLeft int

	// Request is the HTTP request of the current or most recent
	// attempt.
	Request *http.Request

	// Response is the HTTP response received in the most recent
	// attempt, or nil if the attempt failed or is underway.
	Response *http.Response

	// Err is the failure of the most recent attempt, or nil.
	//
	// Once the execution has ended, Err holds the failure that was
	// reported to the error handler, if any.
	Err error

	ctx          context.Context
	abort        context.CancelCauseFunc
	abortAttempt context.CancelCauseFunc
	data         context.Context
}

// NewExecution creates the state for one fetch of p with the given
// retry budget. The execution owns a fresh cancellation controller
// which lives until Close is called.
func NewExecution(p *Plan, retries int) *Execution {
	ctx, abort := context.WithCancelCause(context.Background())
	return &Execution{
		Plan:        p,
		RetriesLeft: retries,
		ctx:         ctx,
		abort:       abort,
	}
}

// TakeRetry consumes one unit of the retry budget. The check is made
// against the value before decrementing, so a budget of zero allows no
// retries and TakeRetry reports false.
func (e *Execution) TakeRetry() bool {
	ok := e.RetriesLeft > 0
	e.RetriesLeft--
	return ok
}

// BeginAttempt returns the cancellation context for a new attempt. It
// is a child of the execution's own controller, so aborting the
// execution aborts every attempt, while AbortAttempt only cancels the
// current one.
func (e *Execution) BeginAttempt() context.Context {
	parent := e.ctx
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancelCause(parent)
	e.abortAttempt = cancel
	return ctx
}

// AbortAttempt cancels the current attempt's context with the given
// cause. It is safe to call when no attempt is underway.
func (e *Execution) AbortAttempt(cause error) {
	if e.abortAttempt != nil {
		e.abortAttempt(cause)
		e.abortAttempt = nil
	}
}

// Close aborts the execution's cancellation controller, and with it
// any attempt still in flight.
func (e *Execution) Close() {
	e.AbortAttempt(context.Canceled)
	if e.abort != nil {
		e.abort(context.Canceled)
	}
}

// StatusCode returns the status code of the HTTP response from the
// most recent attempt. If there is no HTTP response, 0 is returned.
func (e *Execution) StatusCode() int {
	if e.Response == nil {
		return 0
	}
	return e.Response.StatusCode
}

// Header returns the HTTP response headers from the most recent
// attempt, or nil if there is no HTTP response.
func (e *Execution) Header() http.Header {
	if e.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}
	return e.Response.Header
}

// Duration returns the duration of the execution.
//
// Before the execution starts the duration is zero; once it has ended
// it is End minus Start; in between it is the time elapsed since Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}
	return e.End.Sub(e.Start)
}

// Started indicates whether the execution has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the execution has reached a terminal state.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether Err currently holds an error reporting a
// timeout, that is, an error (or wrapped cause) with a Timeout method
// that returns true.
func (e *Execution) Timeout() bool {
	if e.Err == nil {
		return false
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Err, &t) && t.Timeout()
}

// SetValue allows event handlers to store arbitrary data in the
// execution. The key follows the rules of context.WithValue: it must
// be comparable, and should not be a built-in type.
func (e *Execution) SetValue(key, value interface{}) {
	ctx := e.data
	if ctx == nil {
		ctx = context.Background()
	}
	e.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this execution for key,
// or nil if there is no value associated with key.
func (e *Execution) Value(key interface{}) interface{} {
	ctx := e.data
	if ctx == nil {
		return nil
	}
	return ctx.Value(key)
}
