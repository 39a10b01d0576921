// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// OvertimeError is returned by Race when the deadline elapses before
// the request settles.
type OvertimeError struct {
	// Deadline is the deadline which elapsed.
	Deadline time.Duration
}

func (err *OvertimeError) Error() string {
	return fmt.Sprintf("fetch overtime (deadline %s)", err.Deadline)
}

// Timeout always returns true. It lets the error be recognised by
// anything checking for a Timeout method, such as
// request.Execution.Timeout.
func (err *OvertimeError) Timeout() bool {
	return true
}

// A DoFunc performs one request attempt under ctx.
type DoFunc func(ctx context.Context) (*http.Response, error)

type outcome struct {
	resp *http.Response
	err  error
}

// Race runs do concurrently with a timer of length d.
//
// If do settles first, successfully or not, the timer is stopped and
// its outcome is returned unchanged. If the timer fires first, Race
// returns an *OvertimeError immediately and never the response: a late
// response is discarded and its body closed in the background. Race
// does not itself cancel do; the caller owns ctx and decides whether
// the stale attempt should be aborted.
//
// A deadline of zero or less is already expired, so Race reports
// overtime without waiting for do.
func Race(ctx context.Context, d time.Duration, do DoFunc) (*http.Response, error) {
	ch := make(chan outcome, 1)
	go func() {
		resp, err := do(ctx)
		ch <- outcome{resp, err}
	}()

	if d <= 0 {
		go discard(ch)
		return nil, &OvertimeError{Deadline: d}
	}

	timer := time.NewTimer(d)
	select {
	case o := <-ch:
		timer.Stop()
		return o.resp, o.err
	case <-timer.C:
		go discard(ch)
		return nil, &OvertimeError{Deadline: d}
	}
}

func discard(ch <-chan outcome) {
	o := <-ch
	if o.resp != nil && o.resp.Body != nil {
		_ = o.resp.Body.Close()
	}
}
