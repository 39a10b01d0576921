// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/retry"
	"github.com/gogama/fetchx/signal"
	"github.com/gogama/fetchx/timeout"
)

// DefaultInTime is the conventional deadline for FetchInTime.
const DefaultInTime = 5 * time.Second

// FetchText requests url and returns the body as a string, whatever
// the status. The request is sent once, with no timeout and no retry.
//
// Of the Options, only Method, Header, Body and TypeFrom apply.
func (c *Client) FetchText(ctx context.Context, url string, opts ...Option) (string, error) {
	v, err := c.fetchOnce(ctx, url, false, TypeText, opts)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// FetchJSON requests url and returns the body decoded as JSON, whatever
// the status. Objects decode to map[string]interface{}, arrays to
// []interface{} and numbers to float64. The request is sent once, with
// no timeout and no retry.
func (c *Client) FetchJSON(ctx context.Context, url string, opts ...Option) (interface{}, error) {
	return c.fetchOnce(ctx, url, false, TypeJSON, opts)
}

// FetchBlob requests url and returns the body and content type as a
// Blob, whatever the status. The request is sent once, with no timeout
// and no retry.
func (c *Client) FetchBlob(ctx context.Context, url string, opts ...Option) (Blob, error) {
	v, err := c.fetchOnce(ctx, url, false, TypeBlob, opts)
	if err != nil {
		return Blob{}, err
	}
	return v.(Blob), nil
}

// FetchDocument requests url and parses the body as text/html with the
// client's document parser, whatever the status. The request is sent
// once, with no timeout and no retry.
func (c *Client) FetchDocument(ctx context.Context, url string, opts ...Option) (*goquery.Document, error) {
	v, err := c.fetchOnce(ctx, url, false, TypeDocument, opts)
	if err != nil {
		return nil, err
	}
	return v.(*goquery.Document), nil
}

// FetchOnlyResponseOk requests url and returns the response if its
// status is in 200-299. Any other status is an *Error of
// KindBadResponse, and the body is drained and closed. The request is
// sent once, with no timeout and no retry.
func (c *Client) FetchOnlyResponseOk(ctx context.Context, url string, opts ...Option) (*http.Response, error) {
	v, err := c.fetchOnce(ctx, url, true, TypeNone, opts)
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}

// FetchGZip requests url and returns the response with its body
// transparently gunzipped, whatever the status. The request is sent
// once, with no timeout and no retry.
func (c *Client) FetchGZip(ctx context.Context, url string, opts ...Option) (*http.Response, error) {
	opts = append(opts[:len(opts):len(opts)], WithTypeFrom(EncodingGZip))
	v, err := c.fetchOnce(ctx, url, false, TypeNone, opts)
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}

func (c *Client) fetchOnce(ctx context.Context, url string, onlyOk bool, to Type, opts []Option) (interface{}, error) {
	cfg := merge(c.Defaults, opts)
	p, err := newPlan(url, &cfg)
	if err != nil {
		return nil, err
	}
	resp, err := send(c.doer(), p.ToRequest(ctx))
	if err != nil {
		return nil, sendErr(ctx, p, err)
	}
	if verr := validate(resp, onlyOk); verr != nil {
		verr.Op = urlErrorOp(p.Method)
		verr.URL = p.URL.String()
		return nil, verr
	}
	v, err := coerce(resp, cfg.TypeFrom, to, c.parser())
	if err != nil {
		return nil, newError(KindDecode, p.Method, p.URL.String(), err)
	}
	return v, nil
}

// FetchInTime requests url and returns the response, unless deadline d
// passes first. In that case the request is aborted and the result is
// an *Error of KindOvertime. A d of zero or less has already passed.
// The status is not checked and the request is not retried.
//
// The caller must close the response body.
func (c *Client) FetchInTime(ctx context.Context, url string, d time.Duration, opts ...Option) (*http.Response, error) {
	cfg := merge(c.Defaults, opts)
	p, err := newPlan(url, &cfg)
	if err != nil {
		return nil, err
	}

	e := request.NewExecution(p, 0)
	actx, release := signal.Combine(ctx, e.BeginAttempt())
	req, doer := p.ToRequest(actx), c.doer()
	resp, err := timeout.Race(actx, d, func(context.Context) (*http.Response, error) {
		return send(doer, req)
	})
	if err != nil {
		release(err)
		e.Close()
		var overtime *timeout.OvertimeError
		if errors.As(err, &overtime) && ctx.Err() == nil {
			return nil, newError(KindOvertime, p.Method, p.URL.String(), err)
		}
		return nil, sendErr(ctx, p, err)
	}
	if resp.Body != nil {
		resp.Body = &releaseBody{ReadCloser: resp.Body, release: func() {
			release(nil)
			e.Close()
		}}
	} else {
		release(nil)
		e.Close()
	}
	return resp, nil
}

// FetchAutoRetry requests url and returns the response, retrying up to
// times times, delay apart, if the HTTPDoer fails. Any response is a
// success: the status is not checked. There is no deadline. After the
// last retry fails, the result is an *Error of KindTransport wrapping
// the last failure.
//
// Cancelling ctx stops the retries and yields an *Error of
// KindCanceled.
func (c *Client) FetchAutoRetry(ctx context.Context, url string, times int, delay time.Duration, opts ...Option) (*http.Response, error) {
	cfg := merge(c.Defaults, opts)
	p, err := newPlan(url, &cfg)
	if err != nil {
		return nil, err
	}

	e := request.NewExecution(p, times)
	defer e.Close()
	doer := c.doer()
	for {
		resp, err := send(doer, p.ToRequest(ctx))
		if err == nil {
			return resp, nil
		}
		e.Err = sendErr(ctx, p, err)
		if ctx.Err() != nil || !e.TakeRetry() {
			return nil, e.Err
		}
		if err = retry.Sleep(ctx, delay); err != nil {
			return nil, newError(KindCanceled, p.Method, p.URL.String(), err)
		}
		e.Attempt++
	}
}

func sendErr(ctx context.Context, p *request.Plan, err error) error {
	kind := KindTransport
	if ctx.Err() != nil {
		kind = KindCanceled
		err = context.Cause(ctx)
	}
	return newError(kind, p.Method, p.URL.String(), err)
}

// FetchText calls DefaultClient.FetchText.
func FetchText(ctx context.Context, url string, opts ...Option) (string, error) {
	return DefaultClient.FetchText(ctx, url, opts...)
}

// FetchJSON calls DefaultClient.FetchJSON.
func FetchJSON(ctx context.Context, url string, opts ...Option) (interface{}, error) {
	return DefaultClient.FetchJSON(ctx, url, opts...)
}

// FetchBlob calls DefaultClient.FetchBlob.
func FetchBlob(ctx context.Context, url string, opts ...Option) (Blob, error) {
	return DefaultClient.FetchBlob(ctx, url, opts...)
}

// FetchDocument calls DefaultClient.FetchDocument.
func FetchDocument(ctx context.Context, url string, opts ...Option) (*goquery.Document, error) {
	return DefaultClient.FetchDocument(ctx, url, opts...)
}

// FetchOnlyResponseOk calls DefaultClient.FetchOnlyResponseOk.
func FetchOnlyResponseOk(ctx context.Context, url string, opts ...Option) (*http.Response, error) {
	return DefaultClient.FetchOnlyResponseOk(ctx, url, opts...)
}

// FetchGZip calls DefaultClient.FetchGZip.
func FetchGZip(ctx context.Context, url string, opts ...Option) (*http.Response, error) {
	return DefaultClient.FetchGZip(ctx, url, opts...)
}

// FetchInTime calls DefaultClient.FetchInTime.
func FetchInTime(ctx context.Context, url string, d time.Duration, opts ...Option) (*http.Response, error) {
	return DefaultClient.FetchInTime(ctx, url, d, opts...)
}

// FetchAutoRetry calls DefaultClient.FetchAutoRetry.
func FetchAutoRetry(ctx context.Context, url string, times int, delay time.Duration, opts ...Option) (*http.Response, error) {
	return DefaultClient.FetchAutoRetry(ctx, url, times, delay, opts...)
}
