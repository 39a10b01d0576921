// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/fetchx/request"
)

// A Policy decides the deadline of each attempt in a fetch, including
// retries. Every attempt gets a fresh deadline; the policy is asked
// again before each one.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the deadline for the next attempt of the
	// execution e. A value of zero or less is an immediately expired
	// deadline.
	Timeout(e *request.Execution) time.Duration
}

// DefaultLoadingTime is the attempt deadline used by fetchx.Fetch when
// none is configured.
const DefaultLoadingTime = 10 * time.Second

// DefaultPolicy is the default timeout policy. It sets a fixed
// deadline of DefaultLoadingTime on each attempt.
var DefaultPolicy Policy = Fixed(DefaultLoadingTime)

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that gives every attempt the same
// deadline d.
func Fixed(d time.Duration) Policy {
	return policy([]time.Duration{d})
}

// Adaptive constructs a timeout policy that lengthens the deadline
// after attempts that ran out of time.
//
// Parameter usual is the deadline of the initial attempt and of any
// retry whose preceding attempt did not time out. Parameter after holds
// the deadlines to use after the first, second, ... overtime attempt;
// its last element is reused once the list is exhausted.
//
//	p := Adaptive(200*time.Millisecond, time.Second, 10*time.Second)
func Adaptive(usual time.Duration, after ...time.Duration) Policy {
	p := make([]time.Duration, 1, 1+len(after))
	p[0] = usual
	return policy(append(p, after...))
}

type policy []time.Duration

func (p policy) Timeout(e *request.Execution) time.Duration {
	if !e.Timeout() {
		return p[0]
	}
	i := e.AttemptTimeouts
	if i > len(p)-1 {
		i = len(p) - 1
	}
	return p[i]
}
