// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types Plan (describes an HTTP request)
and Execution (describes the state of one fetch of a Plan).

A Plan looks like a stripped-down http.Request with the body replaced by
a pre-buffered []byte, so that the same request can be sent again when
an attempt is retried:

	p, err := request.NewPlan("POST", "https://example.com/upload", body)
	...
	r := p.ToRequest(ctx)

The body is buffered by ReadBody, which also accepts url.Values and
json.RawMessage and sets the Content-Type they imply.

An Execution is created once per top-level fetch and survives retries.
It carries the mutable retry budget, the attempt counters and a
cancellation controller owned by the fetch. Each attempt gets a child
context from BeginAttempt; a failed or overtime attempt is cancelled
with AbortAttempt before the next one starts:

	e := request.NewExecution(p, 5)
	defer e.Close()
	ctx := e.BeginAttempt()
	...
	e.AbortAttempt(err)
	if e.TakeRetry() {
		...
	}
*/
package request
