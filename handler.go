// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"github.com/gogama/fetchx/request"
)

// A HandlerGroup is a group of event handler chains which can be
// installed in a Client.
//
// A HandlerGroup must be fully built before the Client using it starts
// fetching. Running the handlers is safe for concurrent use, but
// PushBack is not.
type HandlerGroup struct {
	handlers [][]Handler
}

// PushBack appends h to the chain of handlers for evt. Handlers in a
// chain run in the order they were pushed.
func (g *HandlerGroup) PushBack(evt Event, h Handler) {
	if h == nil {
		panic("fetchx: nil handler")
	}
	if !evt.valid() {
		panic("fetchx: unknown event " + evt.String())
	}

	if g.handlers == nil {
		g.handlers = make([][]Handler, numEvents)
	}

	g.handlers[evt] = append(g.handlers[evt], h)
}

func (g *HandlerGroup) run(evt Event, e *request.Execution) {
	if int(evt) >= len(g.handlers) {
		return
	}
	for _, h := range g.handlers[evt] {
		h.Handle(evt, e)
	}
}

// A Handler handles the occurrence of an event during an execution.
type Handler interface {
	Handle(Event, *request.Execution)
}

// The HandlerFunc type is an adapter to allow the use of ordinary
// functions as event handlers. If f is a function with appropriate
// signature, then HandlerFunc(f) is a Handler that calls f.
type HandlerFunc func(Event, *request.Execution)

// Handle calls f(evt, e).
func (f HandlerFunc) Handle(evt Event, e *request.Execution) {
	f(evt, e)
}
