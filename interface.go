// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gogama/fetchx/timeout"
)

// Fetcher is the interface that wraps the basic Fetch method.
//
// Fetch requests a URL with the timeout, retry, validation and
// conversion options given, and returns the result. Client implements
// the Fetcher interface, and any other Fetcher implementation must
// behave substantially the same as Client.Fetch.
//
// Any Fetcher can be converted into an Executor via the Inflate
// function.
type Fetcher interface {
	Fetch(ctx context.Context, url string, opts ...Option) (interface{}, error)
}

// TextFetcher is the interface that wraps the basic FetchText method.
type TextFetcher interface {
	FetchText(ctx context.Context, url string, opts ...Option) (string, error)
}

// JSONFetcher is the interface that wraps the basic FetchJSON method.
type JSONFetcher interface {
	FetchJSON(ctx context.Context, url string, opts ...Option) (interface{}, error)
}

// BlobFetcher is the interface that wraps the basic FetchBlob method.
type BlobFetcher interface {
	FetchBlob(ctx context.Context, url string, opts ...Option) (Blob, error)
}

// DocumentFetcher is the interface that wraps the basic FetchDocument
// method.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string, opts ...Option) (*goquery.Document, error)
}

// OkFetcher is the interface that wraps the basic FetchOnlyResponseOk
// method.
type OkFetcher interface {
	FetchOnlyResponseOk(ctx context.Context, url string, opts ...Option) (*http.Response, error)
}

// InTimeFetcher is the interface that wraps the basic FetchInTime
// method.
type InTimeFetcher interface {
	FetchInTime(ctx context.Context, url string, d time.Duration, opts ...Option) (*http.Response, error)
}

// AutoRetryFetcher is the interface that wraps the basic
// FetchAutoRetry method.
type AutoRetryFetcher interface {
	FetchAutoRetry(ctx context.Context, url string, times int, delay time.Duration, opts ...Option) (*http.Response, error)
}

// Executor is the interface that groups Fetch with every helper.
//
// Any Fetcher can be converted into an Executor via the Inflate
// function.
type Executor interface {
	Fetcher
	TextFetcher
	JSONFetcher
	BlobFetcher
	DocumentFetcher
	OkFetcher
	InTimeFetcher
	AutoRetryFetcher
}

// Inflate converts any non-nil Fetcher into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Fetcher needs to call a function that requires an
// Executor.
//
// The helpers of an inflated Fetcher are emulated by calls to Fetch
// with the options that give each helper its behavior. Unlike the
// helpers of Client, they fire the events of the Fetcher's handlers.
func Inflate(f Fetcher) Executor {
	if f == nil {
		panic("fetchx: nil fetcher")
	}

	if e, ok := f.(Executor); ok {
		return e
	}

	return inflated{f}
}

type inflated struct {
	fetcher Fetcher
}

// once appends the options turning Fetch into a single plain request.
func once(opts []Option, extra ...Option) []Option {
	all := make([]Option, 0, len(opts)+4+len(extra))
	all = append(all, opts...)
	all = append(all,
		WithRetryTimes(0),
		WithTimeoutPolicy(timeout.Infinite),
		WithBadResponseError(false),
		WithOnError(Rethrow),
	)
	return append(all, extra...)
}

func (i inflated) Fetch(ctx context.Context, url string, opts ...Option) (interface{}, error) {
	return i.fetcher.Fetch(ctx, url, opts...)
}

func (i inflated) FetchText(ctx context.Context, url string, opts ...Option) (string, error) {
	v, err := i.fetcher.Fetch(ctx, url, once(opts, WithTypeTo(TypeText))...)
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (i inflated) FetchJSON(ctx context.Context, url string, opts ...Option) (interface{}, error) {
	return i.fetcher.Fetch(ctx, url, once(opts, WithTypeTo(TypeJSON))...)
}

func (i inflated) FetchBlob(ctx context.Context, url string, opts ...Option) (Blob, error) {
	v, err := i.fetcher.Fetch(ctx, url, once(opts, WithTypeTo(TypeBlob))...)
	if err != nil {
		return Blob{}, err
	}
	return v.(Blob), nil
}

func (i inflated) FetchDocument(ctx context.Context, url string, opts ...Option) (*goquery.Document, error) {
	v, err := i.fetcher.Fetch(ctx, url, once(opts, WithTypeTo(TypeDocument))...)
	if err != nil {
		return nil, err
	}
	return v.(*goquery.Document), nil
}

func (i inflated) FetchOnlyResponseOk(ctx context.Context, url string, opts ...Option) (*http.Response, error) {
	v, err := i.fetcher.Fetch(ctx, url, once(opts, WithTypeTo(TypeNone), WithBadResponseError(true))...)
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}

func (i inflated) FetchInTime(ctx context.Context, url string, d time.Duration, opts ...Option) (*http.Response, error) {
	v, err := i.fetcher.Fetch(ctx, url, once(opts, WithTypeTo(TypeNone), WithTimeoutPolicy(timeout.Fixed(d)))...)
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}

func (i inflated) FetchAutoRetry(ctx context.Context, url string, times int, delay time.Duration, opts ...Option) (*http.Response, error) {
	v, err := i.fetcher.Fetch(ctx, url, once(opts, WithTypeTo(TypeNone), WithRetryTimes(times), WithRetryDelay(delay))...)
	if err != nil {
		return nil, err
	}
	return v.(*http.Response), nil
}
