// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import "fmt"

// An Event names a point in the life of a Fetch call at which installed
// handlers run. Handlers see the request.Execution as it stands at that
// point; packages logging and metrics are built this way.
//
// Only Fetch fires events. The single-purpose helpers (FetchText,
// FetchInTime, and so on) fire none.
type Event int

const (
	// BeforeExecutionStart fires once, before the first attempt. Only
	// the plan and the retry budget of the execution are set.
	BeforeExecutionStart Event = iota

	// BeforeAttempt fires before every attempt, once the execution's
	// Request has been built. Its context combines the caller's context
	// with the attempt's own cancellation.
	//
	// Handlers may change the request before it is sent. The URL and
	// Header of the request are shared with the plan, so clone them
	// before modifying them.
	BeforeAttempt

	// AfterAttemptTimeout fires when an attempt loses the race against
	// its deadline. Err holds an *Error of KindOvertime and
	// AttemptTimeouts has already been incremented.
	AfterAttemptTimeout

	// AfterAttempt fires after every attempt, before any retry
	// decision. At least one of Response and Err is set. Both are set
	// for a bad response; its body is already closed.
	AfterAttempt

	// BeforeRetryWait fires once the retry policy has agreed to retry,
	// before the wait. The retry budget has already been charged and
	// Err holds the failure being retried.
	BeforeRetryWait

	// AfterExecutionEnd fires once, after the final attempt and before
	// the OnError handler. End is set, and Err holds the failure of the
	// whole execution, if any, including a conversion failure.
	AfterExecutionEnd

	numEvents = int(iota)
)

var eventNames = [numEvents]string{
	BeforeExecutionStart: "BeforeExecutionStart",
	BeforeAttempt:        "BeforeAttempt",
	AfterAttemptTimeout:  "AfterAttemptTimeout",
	AfterAttempt:         "AfterAttempt",
	BeforeRetryWait:      "BeforeRetryWait",
	AfterExecutionEnd:    "AfterExecutionEnd",
}

// Events returns every event in the order in which they can occur
// during an execution.
func Events() []Event {
	events := make([]Event, numEvents)
	for i := range events {
		events[i] = Event(i)
	}
	return events
}

func (evt Event) valid() bool {
	return evt >= 0 && int(evt) < numEvents
}

// Name returns the name of the event, or the empty string if evt is
// not a known event.
func (evt Event) Name() string {
	if !evt.valid() {
		return ""
	}
	return eventNames[evt]
}

// String returns the name of the event.
func (evt Event) String() string {
	if !evt.valid() {
		return fmt.Sprintf("Event(%d)", int(evt))
	}
	return eventNames[evt]
}
