// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package signal combines cancellation signals.
//
// A fetch may be cancelled from two directions: by the caller, through
// the context passed in, and by the fetch itself, which aborts an
// attempt that has run out of time. Combine merges such signals into a
// single context that is done as soon as any of them is:
//
//	ctx, release := signal.Combine(callerCtx, attemptCtx)
//	defer release(nil)
//	req = req.WithContext(ctx)
package signal
