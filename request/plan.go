// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"golang.org/x/net/http/httpguts"
)

var (
	template, _ = http.NewRequest("GET", "", nil)
)

// A Plan describes one logical HTTP request: everything needed to send
// the same request again on every attempt of a fetch.
//
// The field structure mirrors the client-side subset of http.Request,
// except that the body is pre-buffered into a []byte so that it can be
// replayed on retry.
type Plan struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// URL specifies the URL to access.
	URL *urlpkg.URL

	// Header contains the request header fields to be sent. A Plan
	// built by NewPlan owns its Header; callers' headers are copied in
	// with AddHeader.
	Header http.Header

	// Body is the pre-buffered request body to be sent. A nil or
	// empty body indicates no request body should be sent.
	Body []byte

	// Host optionally overrides the Host header to send. If empty, the
	// value of URL.Host will be sent.
	Host string
}

// NewPlan returns a new Plan given a method, URL, and optional body.
//
// Parameter body is buffered by ReadBody. If a non-empty body implies
// a content type, the plan's Content-Type header is set to it.
func NewPlan(method, url string, body interface{}) (*Plan, error) {
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("fetchx/request: invalid method %q", method)
	}
	u, err := urlpkg.Parse(url)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)
	b, contentType, err := ReadBody(body)
	if err != nil {
		return nil, err
	}
	h := make(http.Header)
	if contentType != "" && len(b) > 0 {
		h.Set("Content-Type", contentType)
	}
	return &Plan{
		Method: method,
		URL:    u,
		Header: h,
		Body:   b,
		Host:   u.Host,
	}, nil
}

// AddHeader copies every value of h into the plan header. The plan
// keeps no reference to h. A Content-Type in h replaces the one implied
// by the body.
func (p *Plan) AddHeader(h http.Header) {
	if p.Header == nil {
		p.Header = make(http.Header, len(h))
	}
	for k, vs := range h {
		if http.CanonicalHeaderKey(k) == "Content-Type" {
			p.Header.Del(k)
		}
		for _, v := range vs {
			p.Header.Add(k, v)
		}
	}
}

// ToRequest creates an HTTP request for one attempt of the plan. The
// context of the new request is set to ctx, which may not be nil.
//
// Each request gets its own header clone and its own body reader, so
// an attempt that is abandoned mid-flight cannot disturb the next one.
func (p *Plan) ToRequest(ctx context.Context) *http.Request {
	r := template.WithContext(ctx)
	r.Method = p.Method
	r.URL = p.URL
	r.Header = p.Header.Clone()
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	if len(p.Body) > 0 {
		r.Body = io.NopCloser(bytes.NewReader(p.Body))
		r.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(p.Body)), nil
		}
		r.ContentLength = int64(len(p.Body))
	}
	r.Host = p.Host
	return r
}

func validMethod(method string) bool {
	// The empty string is interpreted as "GET" before we get here, so
	// only the token grammar of RFC 7230 section 3.2.6 matters.
	return strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
