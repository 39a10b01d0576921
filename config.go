// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"net/http"
	"time"

	"github.com/gogama/fetchx/retry"
	"github.com/gogama/fetchx/timeout"
)

// Config holds the options of one Fetch call.
//
// A Config is never used directly: each call starts from a copy of
// the client's defaults and applies its Options to the copy, so
// neither the defaults nor any value passed into an Option is
// modified by a call.
type Config struct {
	// LoadingTime is the deadline of each attempt. It is ignored if
	// TimeoutPolicy is set.
	LoadingTime time.Duration
	// RetryTimes is the number of retries after the first attempt. A
	// value of zero or less means no retries.
	RetryTimes int
	// RetryDelay is the wait between a failed attempt and its retry.
	// It is ignored if RetryPolicy is set.
	RetryDelay time.Duration
	// TypeTo is the shape of a successful result.
	TypeTo Type
	// TypeFrom is the content encoding to undo before converting the
	// body to TypeTo.
	TypeFrom Encoding
	// BadResponseError treats a status outside 200-299 as a failure.
	BadResponseError bool
	// OnError turns the final failure into the call's result. If nil,
	// Rethrow is used.
	OnError ErrorHandler
	// Method is the HTTP method. An empty string means GET.
	Method string
	// Header holds extra request headers.
	Header http.Header
	// Body is the request body, buffered once so every attempt sends
	// the same bytes. See request.ReadBody for the accepted types and
	// the Content-Type each implies.
	Body interface{}
	// TimeoutPolicy overrides LoadingTime with a policy which chooses
	// the deadline of each attempt.
	TimeoutPolicy timeout.Policy
	// RetryPolicy overrides RetryDelay with a policy which decides
	// whether and when to retry. Its Decider sees the execution, whose
	// RetriesLeft starts at RetryTimes.
	RetryPolicy retry.Policy
}

// DefaultConfig returns the configuration used when a Client has no
// Defaults: a 10 second loading time, 5 retries 5 seconds apart, and
// an unconverted response.
func DefaultConfig() Config {
	return Config{
		LoadingTime: timeout.DefaultLoadingTime,
		RetryTimes:  retry.DefaultTimes,
		RetryDelay:  retry.DefaultDelay,
		OnError:     Rethrow,
		Method:      "GET",
	}
}

// An Option sets one field of the Config of a Fetch call.
type Option func(*Config)

// WithLoadingTime sets the deadline of each attempt. It clears any
// timeout policy set earlier.
func WithLoadingTime(d time.Duration) Option {
	return func(c *Config) {
		c.LoadingTime = d
		c.TimeoutPolicy = nil
	}
}

// WithRetryTimes sets the number of retries after the first attempt.
func WithRetryTimes(n int) Option {
	return func(c *Config) {
		c.RetryTimes = n
	}
}

// WithRetryDelay sets the wait between a failed attempt and its retry.
// It clears any retry policy set earlier.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		c.RetryDelay = d
		c.RetryPolicy = nil
	}
}

// WithTypeTo sets the shape of a successful result.
func WithTypeTo(t Type) Option {
	return func(c *Config) {
		c.TypeTo = t
	}
}

// WithTypeFrom sets the content encoding to undo on the body.
func WithTypeFrom(enc Encoding) Option {
	return func(c *Config) {
		c.TypeFrom = enc
	}
}

// WithBadResponseError sets whether a status outside 200-299 is a
// failure.
func WithBadResponseError(enabled bool) Option {
	return func(c *Config) {
		c.BadResponseError = enabled
	}
}

// WithOnError sets the handler for the final failure.
func WithOnError(h ErrorHandler) Option {
	return func(c *Config) {
		c.OnError = h
	}
}

// WithMethod sets the HTTP method.
func WithMethod(method string) Option {
	return func(c *Config) {
		c.Method = method
	}
}

// WithHeader adds the values in h to the request headers. h itself is
// not retained.
func WithHeader(h http.Header) Option {
	return func(c *Config) {
		if c.Header == nil {
			c.Header = make(http.Header, len(h))
		}
		for name, values := range h {
			for _, value := range values {
				c.Header.Add(name, value)
			}
		}
	}
}

// WithBody sets the request body. See Config.Body for the accepted
// types.
func WithBody(body interface{}) Option {
	return func(c *Config) {
		c.Body = body
	}
}

// WithTimeoutPolicy sets a policy which chooses the deadline of each
// attempt, replacing LoadingTime.
func WithTimeoutPolicy(p timeout.Policy) Option {
	return func(c *Config) {
		c.TimeoutPolicy = p
	}
}

// WithRetryPolicy sets a policy which decides whether and when to
// retry, replacing RetryDelay.
func WithRetryPolicy(p retry.Policy) Option {
	return func(c *Config) {
		c.RetryPolicy = p
	}
}

// merge applies opts to a copy of base.
func merge(base *Config, opts []Option) Config {
	var c Config
	if base == nil {
		c = DefaultConfig()
	} else {
		c = *base
	}
	c.Header = c.Header.Clone()
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if c.OnError == nil {
		c.OnError = Rethrow
	}
	switch {
	case c.TimeoutPolicy != nil:
	case c.LoadingTime == timeout.DefaultLoadingTime:
		c.TimeoutPolicy = timeout.DefaultPolicy
	default:
		c.TimeoutPolicy = timeout.Fixed(c.LoadingTime)
	}
	switch {
	case c.RetryPolicy != nil:
	case c.RetryDelay == retry.DefaultDelay:
		c.RetryPolicy = retry.DefaultPolicy
	default:
		c.RetryPolicy = retry.NewPolicy(retry.Budget, retry.NewFixedWaiter(c.RetryDelay))
	}
	if c.RetryTimes < 0 {
		c.RetryTimes = 0
	}
	return c
}
