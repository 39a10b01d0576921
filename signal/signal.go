// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package signal

import (
	"context"
	"sync"
)

func noop(error) {}

// Combine merges any number of cancellation signals into one.
//
// The returned context is done if and only if at least one of ctxs is,
// or becomes, done; context.Cause on the returned context reports the
// cause of the first input to be cancelled, unwrapped.
//
// With no inputs, Combine returns a context that is never cancelled.
// If an input is already done when Combine is called, that exact input
// is returned (the leftmost one, if several are done) and no listeners
// are registered. Otherwise a new context is derived from ctxs[0], so
// it keeps the values of the first input, and listeners on the other
// inputs propagate the first cancellation to it. Once the combined
// context is done, every listener is detached.
//
// The returned CancelCauseFunc detaches the listeners and cancels the
// combined context with the given cause (context.Canceled if nil), if
// it was derived and is not already done. It never cancels an input.
// Call it once the combined context is no longer needed.
//
// None of ctxs may be nil.
func Combine(ctxs ...context.Context) (context.Context, context.CancelCauseFunc) {
	if len(ctxs) == 0 {
		return context.Background(), noop
	}

	for _, ctx := range ctxs {
		if ctx.Err() != nil {
			return ctx, noop
		}
	}

	combined, cancel := context.WithCancelCause(ctxs[0])

	var mu sync.Mutex
	stops := make([]func() bool, 0, len(ctxs)-1)
	detach := func() {
		mu.Lock()
		defer mu.Unlock()
		for _, stop := range stops {
			stop()
		}
		stops = nil
	}

	mu.Lock()
	for _, ctx := range ctxs[1:] {
		ctx := ctx
		stops = append(stops, context.AfterFunc(ctx, func() {
			cancel(context.Cause(ctx))
		}))
	}
	mu.Unlock()

	// ctxs[0] is the parent, so its cancellation needs no listener.
	// Whichever input fires first, the others stop listening.
	stopDetach := context.AfterFunc(combined, detach)

	return combined, func(cause error) {
		stopDetach()
		detach()
		cancel(cause)
	}
}
