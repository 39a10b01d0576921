// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry decides whether a failed attempt is retried, and how
// long to wait first.
//
// A Policy is a Decider plus a Waiter. The fetch loop uses Budget as
// its decider, which spends the execution's retry budget, and a fixed
// Waiter by default:
//
//	policy := retry.NewPolicy(retry.Budget, retry.NewFixedWaiter(time.Second))
//
// Exponential backoff is available through NewExpWaiter, and Budget can
// be combined with a time limit:
//
//	decider := retry.Before(30 * time.Second).And(retry.Budget)
//	policy := retry.NewPolicy(decider, retry.NewExpWaiter(100*time.Millisecond, 5*time.Second, time.Now()))
//
// Servers which send Retry-After with a 429 or 503 response can be
// obeyed by wrapping another Waiter:
//
//	waiter := retry.NewRetryAfterWaiter(retry.NewFixedWaiter(time.Second), time.Minute)
//
// Sleep performs the wait itself, interruptibly.
package retry
