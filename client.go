// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/retry"
	"github.com/gogama/fetchx/signal"
	"github.com/gogama/fetchx/timeout"
	"github.com/rs/zerolog"
)

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package, and in
	// particular must give up when the request's context is done.
	Do(r *http.Request) (*http.Response, error)
}

var emptyHandlers = HandlerGroup{}

// A Client fetches URLs with optional timeout, retry, response
// validation and response conversion. Its zero value is a valid
// configuration.
//
// The zero value client uses http.DefaultClient (from net/http) as the
// HTTPDoer, HTMLParser as the document parser, DefaultConfig() as the
// defaults, and an empty handler group (no event handlers/plug-ins).
//
// Client's HTTPDoer typically has an internal state (cached TCP
// connections) so Client instances should be reused instead of created
// as needed. Client is safe for concurrent use by multiple goroutines:
// every call works on its own copy of the configuration and its own
// execution state.
//
// Fetch is the full pipeline. The FetchText, FetchJSON, FetchBlob,
// FetchDocument, FetchOnlyResponseOk and FetchGZip helpers send a
// single request with no timeout, no retry and no events; FetchInTime
// adds only a timeout, and FetchAutoRetry adds only retries.
type Client struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, http.DefaultClient from the standard net/http
	// package is used.
	HTTPDoer HTTPDoer
	// Parser parses TypeDocument results.
	//
	// If Parser is nil, HTMLParser is used.
	Parser DocumentParser
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during Fetch.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
	// Defaults is the configuration each call's Options are applied
	// to. It is copied, never modified.
	//
	// Defaults replaces DefaultConfig() as a whole. A partial value
	// such as &Config{RetryTimes: 1} leaves LoadingTime and RetryDelay
	// at zero, so every attempt expires immediately. Start from
	// DefaultConfig() and modify the copy instead.
	//
	// If Defaults is nil, DefaultConfig() is used.
	Defaults *Config
}

// DefaultClient is the zero value Client used by the package-level
// functions.
var DefaultClient = &Client{}

// Fetch requests url and returns the result in the shape named by the
// TypeTo option: the *http.Response itself for TypeNone (the default),
// a string, a decoded JSON value, a Blob, or a *goquery.Document.
//
// Each attempt runs against the deadline chosen by the timeout policy
// (LoadingTime by default). An attempt fails if the HTTPDoer returns an
// error, if the deadline passes first, or, when BadResponseError is
// set, if the status is outside 200-299. A failed attempt is aborted
// and, while the retry budget of RetryTimes lasts, retried after the
// RetryDelay. The deadline starts over on every attempt.
//
// When the retries are exhausted, the final failure, an *Error, is
// passed to the OnError handler, whose result becomes the result of
// Fetch. With the default handler, Rethrow, Fetch returns the error.
//
// Cancelling ctx stops Fetch at once: the attempt in flight or the
// retry wait is abandoned, no further retry is made, and an *Error of
// KindCanceled goes to the OnError handler.
//
// Conversion happens once, after the successful attempt. A conversion
// failure is returned as an *Error of KindDecode without being retried
// and without going through OnError.
//
// If url or the method is invalid, Fetch returns the construction
// error without making any attempt.
//
// With TypeNone, the caller must close the response body, which
// releases the resources of the call.
func (c *Client) Fetch(ctx context.Context, url string, opts ...Option) (interface{}, error) {
	cfg := merge(c.Defaults, opts)
	p, err := newPlan(url, &cfg)
	if err != nil {
		return nil, err
	}

	e := request.NewExecution(p, cfg.RetryTimes)
	handlers := c.handlers()
	log := zerolog.Ctx(ctx)

	handlers.run(BeforeExecutionStart, e)
	e.Start = time.Now()

	for {
		release := c.attempt(ctx, e, &cfg, handlers)
		if e.Err == nil {
			return c.succeed(e, &cfg, handlers, release)
		}
		release(e.Err)
		if !c.retry(ctx, e, &cfg, handlers, log) {
			break
		}
	}

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, e)
	e.Close()
	log.Error().
		Err(e.Err).
		Str("url", url).
		Int("attempts", e.Attempt+1).
		Msg("fetchx: fetch failed")
	return cfg.OnError(e.Err)
}

// attempt makes one attempt of e. On return, either e.Err is nil and
// e.Response holds the successful response, or e.Err holds the failure
// and the attempt has been aborted. The returned function releases the
// attempt's combined context with the given cause.
func (c *Client) attempt(ctx context.Context, e *request.Execution, cfg *Config, handlers *HandlerGroup) context.CancelCauseFunc {
	// The deadline is chosen before the previous failure is cleared so
	// that the timeout policy can see it.
	d := cfg.TimeoutPolicy.Timeout(e)
	e.Response = nil
	e.Err = nil

	attemptCtx := e.BeginAttempt()
	actx, release := signal.Combine(ctx, attemptCtx)
	e.Request = e.Plan.ToRequest(actx)
	handlers.run(BeforeAttempt, e)

	zerolog.Ctx(ctx).Debug().
		Str("url", e.Plan.URL.String()).
		Int("attempt", e.Attempt).
		Dur("deadline", d).
		Msg("fetchx: attempt")

	// An already cancelled caller still reaches the doer, which sees
	// the done context on the request.
	req, doer := e.Request, c.doer()
	resp, err := timeout.Race(actx, d, func(context.Context) (*http.Response, error) {
		return send(doer, req)
	})
	c.classify(ctx, e, cfg, handlers, resp, err)

	handlers.run(AfterAttempt, e)
	if e.Err != nil {
		e.AbortAttempt(e.Err)
	}
	return release
}

func (c *Client) classify(ctx context.Context, e *request.Execution, cfg *Config, handlers *HandlerGroup, resp *http.Response, err error) {
	var overtime *timeout.OvertimeError
	switch {
	case err == nil:
		e.Response = resp
		if verr := validate(resp, cfg.BadResponseError); verr != nil {
			verr.Op = urlErrorOp(e.Plan.Method)
			verr.URL = e.Plan.URL.String()
			e.Err = verr
		}
	case ctx.Err() != nil:
		e.Err = c.wrapErr(KindCanceled, e, context.Cause(ctx))
	case errors.As(err, &overtime):
		e.Err = c.wrapErr(KindOvertime, e, err)
		e.AttemptTimeouts++
		handlers.run(AfterAttemptTimeout, e)
	default:
		e.Err = c.wrapErr(KindTransport, e, err)
	}
}

// retry decides whether the failure in e is retried, and if so waits
// before the next attempt. It returns false if the execution is over.
func (c *Client) retry(ctx context.Context, e *request.Execution, cfg *Config, handlers *HandlerGroup, log *zerolog.Logger) bool {
	var fe *Error
	if !errors.As(e.Err, &fe) || !fe.Kind.Retryable() {
		return false
	}
	if !cfg.RetryPolicy.Decide(e) {
		return false
	}

	wait := cfg.RetryPolicy.Wait(e)
	handlers.run(BeforeRetryWait, e)
	log.Warn().
		Err(e.Err).
		Str("url", e.Plan.URL.String()).
		Int("attempt", e.Attempt).
		Int("retries_left", e.RetriesLeft).
		Dur("wait", wait).
		Msg("fetchx: retrying")

	if err := retry.Sleep(ctx, wait); err != nil {
		e.Err = c.wrapErr(KindCanceled, e, err)
		return false
	}
	e.Attempt++
	return true
}

// succeed converts the successful response in e and ends the
// execution.
func (c *Client) succeed(e *request.Execution, cfg *Config, handlers *HandlerGroup, release context.CancelCauseFunc) (interface{}, error) {
	resp := e.Response
	v, err := coerce(resp, cfg.TypeFrom, cfg.TypeTo, c.parser())
	if err != nil {
		e.Err = c.wrapErr(KindDecode, e, err)
	}

	e.End = time.Now()
	handlers.run(AfterExecutionEnd, e)

	if err == nil && cfg.TypeTo == TypeNone && resp.Body != nil {
		resp.Body = &releaseBody{ReadCloser: resp.Body, release: func() {
			release(nil)
			e.Close()
		}}
	} else {
		release(e.Err)
		e.Close()
	}

	if err != nil {
		return nil, e.Err
	}
	return v, nil
}

// releaseBody releases the resources of a call when the caller closes
// the response body.
type releaseBody struct {
	io.ReadCloser
	release func()
	once    sync.Once
}

func (b *releaseBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(b.release)
	return err
}

// errNilResponse stands in for the error of an HTTPDoer which returned
// neither a response nor an error.
var errNilResponse = errors.New("fetchx: HTTPDoer returned a nil response and a nil error")

func send(doer HTTPDoer, req *http.Request) (*http.Response, error) {
	resp, err := doer.Do(req)
	if resp == nil && err == nil {
		return nil, errNilResponse
	}
	return resp, err
}

func (c *Client) wrapErr(kind Kind, e *request.Execution, cause error) error {
	return newError(kind, e.Plan.Method, e.Plan.URL.String(), cause)
}

func (c *Client) doer() HTTPDoer {
	if c.HTTPDoer == nil {
		return http.DefaultClient
	}

	return c.HTTPDoer
}

func (c *Client) parser() DocumentParser {
	if c.Parser == nil {
		return HTMLParser
	}

	return c.Parser
}

func (c *Client) handlers() *HandlerGroup {
	if c.Handlers == nil {
		return &emptyHandlers
	}

	return c.Handlers
}

func newPlan(url string, cfg *Config) (*request.Plan, error) {
	p, err := request.NewPlan(cfg.Method, url, cfg.Body)
	if err != nil {
		return nil, err
	}
	p.AddHeader(cfg.Header)
	// Asking for gzip explicitly stops http.Transport from decoding
	// the body itself.
	if cfg.TypeFrom == EncodingGZip && p.Header.Get("Accept-Encoding") == "" {
		p.Header.Set("Accept-Encoding", "gzip")
	}
	return p, nil
}

// Fetch calls DefaultClient.Fetch.
func Fetch(ctx context.Context, url string, opts ...Option) (interface{}, error) {
	return DefaultClient.Fetch(ctx, url, opts...)
}
