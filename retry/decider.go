// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/fetchx/request"
)

// A Decider decides if a failed attempt should be retried.
//
// The fetch loop only consults the Decider after a retryable failure
// (transport error, overtime, or bad response), so a Decider does not
// need to inspect the error kind.
type Decider interface {
	Decide(e *request.Execution) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders.
type DeciderFunc func(e *request.Execution) bool

// DefaultTimes is the retry budget used by fetchx.Fetch and
// fetchx.FetchAutoRetry when none is configured.
const DefaultTimes = 5

// Budget is the decider used by the fetch loop. It consumes one unit
// of the execution's retry budget (request.Execution.TakeRetry) and
// allows the retry only if the budget was positive beforehand.
//
// Budget mutates the execution, so call it once per failed attempt.
var Budget DeciderFunc = func(e *request.Execution) bool {
	return e.TakeRetry()
}

// Decide returns true if a retry should be done.
func (f DeciderFunc) Decide(e *request.Execution) bool {
	return f(e)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true. g is not evaluated if f returns
// false, so a budget-consuming decider should come last.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(e *request.Execution) bool {
		return f(e) && g(e)
	}
}

// Before constructs a retry decider allowing retries until d has
// elapsed since the start of the fetch.
func Before(d time.Duration) DeciderFunc {
	return func(e *request.Execution) bool {
		return e.Duration() < d
	}
}
