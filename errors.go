// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"errors"
	"fmt"
	"strings"
)

// A Kind classifies the failure reported by an *Error.
type Kind int

const (
	// KindTransport means the Doer failed to produce a response.
	KindTransport Kind = iota + 1
	// KindOvertime means the attempt did not settle before its
	// deadline.
	KindOvertime
	// KindBadResponse means a response arrived with a status outside
	// 200-299 while bad response checking was enabled.
	KindBadResponse
	// KindDecode means the response body could not be read or
	// converted to the requested type.
	KindDecode
	// KindCanceled means the caller's context was done.
	KindCanceled
)

var kindNames = []string{
	"",
	"transport",
	"overtime",
	"bad response",
	"decode",
	"canceled",
}

func (k Kind) String() string {
	if k < KindTransport || k > KindCanceled {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Retryable reports whether a failure of this kind is subject to the
// retry policy. Decode and canceled failures are final.
func (k Kind) Retryable() bool {
	return k == KindTransport || k == KindOvertime || k == KindBadResponse
}

// Sentinel errors for use with errors.Is. An *Error matches the
// sentinel of its Kind.
var (
	ErrTransport   = &Error{Kind: KindTransport}
	ErrOvertime    = &Error{Kind: KindOvertime}
	ErrBadResponse = &Error{Kind: KindBadResponse}
	ErrDecode      = &Error{Kind: KindDecode}
	ErrCanceled    = &Error{Kind: KindCanceled}
)

// Error is the error type returned by Fetch and the helpers. It
// records the operation and URL in the manner of *url.Error, the kind
// of failure, and the underlying cause.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Op is the HTTP method, capitalized in the manner of *url.Error,
	// for example "Get".
	Op string
	// URL is the requested URL.
	URL string
	// Status is the HTTP status code for KindBadResponse, and zero
	// otherwise.
	Status int
	// Err is the underlying cause. It is nil for KindBadResponse.
	Err error
}

func (err *Error) Error() string {
	var b strings.Builder
	if err.Op != "" {
		b.WriteString(err.Op)
		b.WriteString(" ")
	}
	if err.URL != "" {
		fmt.Fprintf(&b, "%q: ", err.URL)
	}
	switch {
	case err.Kind == KindBadResponse:
		fmt.Fprintf(&b, "[HTTP %d] The response isn't ok.", err.Status)
	case err.Err != nil:
		b.WriteString(err.Err.Error())
	default:
		b.WriteString("fetchx: ")
		b.WriteString(err.Kind.String())
	}
	return b.String()
}

func (err *Error) Unwrap() error {
	return err.Err
}

// Is reports whether target is the sentinel for err's Kind.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.URL == "" && t.Err == nil && t.Kind == err.Kind
}

// Timeout reports whether the failure was an overtime, or whether the
// cause reports a timeout.
func (err *Error) Timeout() bool {
	if err.Kind == KindOvertime {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err.Err, &t) && t.Timeout()
}

// An ErrorHandler turns the final failure of Fetch into its result.
// Returning a nil error turns the value into a successful result.
type ErrorHandler func(err error) (interface{}, error)

// Rethrow is the default ErrorHandler. It propagates the failure.
func Rethrow(err error) (interface{}, error) {
	return nil, err
}

// Substitute returns an ErrorHandler which swallows the failure and
// yields v instead.
func Substitute(v interface{}) ErrorHandler {
	return func(error) (interface{}, error) {
		return v, nil
	}
}

func newError(kind Kind, method, url string, cause error) *Error {
	return &Error{
		Kind: kind,
		Op:   urlErrorOp(method),
		URL:  url,
		Err:  cause,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
