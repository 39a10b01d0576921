// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"context"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gogama/fetchx/request"
)

// A Waiter specifies how long to wait before retrying a failed attempt.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines. A Waiter is only consulted after the Decider has allowed
// the retry.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// DefaultDelay is the fixed wait between retries used by fetchx.Fetch
// and fetchx.FetchAutoRetry when none is configured.
const DefaultDelay = 5 * time.Second

// DefaultWaiter waits DefaultDelay before every retry.
var DefaultWaiter = NewFixedWaiter(DefaultDelay)

// NewFixedWaiter constructs a Waiter that always returns d.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing exponential backoff
// with optional "Full Jitter", as described in
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter.
//
// The ceiling for attempt n is min(base * 2**n, max). Base must be
// positive and max must be at least base.
//
// Pass nil for jitter to always wait the ceiling. Otherwise jitter is
// a seed (time.Time, int or int64) or a random source (rand.Source or
// *rand.Rand) used to pick a wait between 0 and the ceiling.
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("fetchx/retry: base must be positive")
	}
	if max < base {
		panic("fetchx/retry: max must be at least base")
	}
	return &jitterExpWaiter{
		base: base,
		max:  max,
		rand: jitterToRand(jitter),
	}
}

type jitterExpWaiter struct {
	base time.Duration
	max  time.Duration
	rand *rand.Rand
	lock sync.Mutex
}

func (w *jitterExpWaiter) Wait(e *request.Execution) time.Duration {
	ceil := w.ceiling(e.Attempt)
	if w.rand == nil {
		return ceil
	}
	w.lock.Lock()
	defer w.lock.Unlock()
	return time.Duration(w.rand.Int63n(int64(ceil)))
}

// ceiling returns min(base * 2**attempt, max) without overflowing.
func (w *jitterExpWaiter) ceiling(attempt int) time.Duration {
	if attempt < 0 || attempt >= 63 {
		return w.max
	}
	if w.max>>attempt < w.base {
		return w.max
	}
	return w.base << attempt
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("fetchx/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("fetchx/retry: invalid jitter type")
	}
	return rand.New(s)
}

// NewRetryAfterWaiter constructs a Waiter which honours the
// Retry-After header of a 429 (Too Many Requests) or 503 (Service
// Unavailable) response, in either the delay-seconds or the HTTP-date
// form, capped at max. Otherwise, or if the header is absent or
// unusable, it defers to next.
func NewRetryAfterWaiter(next Waiter, max time.Duration) Waiter {
	if next == nil {
		panic("fetchx/retry: nil waiter")
	}
	return &retryAfterWaiter{next: next, max: max, now: time.Now}
}

type retryAfterWaiter struct {
	next Waiter
	max  time.Duration
	now  func() time.Time
}

func (w *retryAfterWaiter) Wait(e *request.Execution) time.Duration {
	switch e.StatusCode() {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		if d, ok := w.parse(e.Response.Header.Get("Retry-After")); ok {
			return d
		}
	}
	return w.next.Wait(e)
}

func (w *retryAfterWaiter) parse(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	var d time.Duration
	if secs, err := strconv.ParseInt(value, 10, 64); err == nil {
		if secs < 0 {
			return 0, false
		}
		d = time.Duration(secs) * time.Second
		if d/time.Second != time.Duration(secs) {
			d = w.max
		}
	} else if t, err := http.ParseTime(value); err == nil {
		d = t.Sub(w.now())
		if d < 0 {
			d = 0
		}
	} else {
		return 0, false
	}
	if d > w.max {
		d = w.max
	}
	return d, true
}

// Sleep waits for d of wall-clock time, or until ctx is done, whichever
// comes first. It returns nil after a full wait and the context's
// cause otherwise. A non-positive d returns immediately unless ctx is
// already done.
func Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return context.Cause(ctx)
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}
