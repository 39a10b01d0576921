// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/fetchx/request"
)

// A Policy controls whether and when a failed attempt is retried: after
// every failed attempt the Decider is asked whether to retry and, if
// so, the Waiter says how long to wait first.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy retries up to the execution's budget with a fixed
// wait of DefaultDelay.
var DefaultPolicy Policy = policy{Budget, DefaultWaiter}

type policy struct {
	decider Decider
	waiter  Waiter
}

// NewPolicy composes a Decider and a Waiter into a retry Policy.
func NewPolicy(d Decider, w Waiter) Policy {
	if d == nil {
		panic("fetchx/retry: nil decider")
	}
	if w == nil {
		panic("fetchx/retry: nil waiter")
	}
	return policy{decider: d, waiter: w}
}

func (p policy) Decide(e *request.Execution) bool {
	return p.decider.Decide(e)
}

func (p policy) Wait(e *request.Execution) time.Duration {
	return p.waiter.Wait(e)
}
