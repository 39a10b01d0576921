// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// A Type names the shape a successful response is converted to.
type Type int

const (
	// TypeNone leaves the *http.Response as it is. The caller must
	// close its body.
	TypeNone Type = iota
	// TypeText converts the body to a string.
	TypeText
	// TypeJSON decodes the body as JSON into an interface{} value.
	TypeJSON
	// TypeBlob buffers the body into a Blob.
	TypeBlob
	// TypeDocument parses the body as an HTML document.
	TypeDocument
)

var typeNames = []string{"none", "text", "json", "blob", "document"}

func (t Type) String() string {
	if t < TypeNone || t > TypeDocument {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// ParseType returns the Type named s. The empty string is TypeNone.
func ParseType(s string) (Type, error) {
	if s == "" {
		return TypeNone, nil
	}
	for i, name := range typeNames {
		if strings.EqualFold(s, name) {
			return Type(i), nil
		}
	}
	return TypeNone, fmt.Errorf("fetchx: unknown type %q", s)
}

// An Encoding names a content encoding to undo on the response body
// before converting it to its Type.
type Encoding int

const (
	// EncodingNone reads the body as it is.
	EncodingNone Encoding = iota
	// EncodingGZip gunzips the body.
	EncodingGZip
)

var encodingNames = []string{"none", "gzip"}

func (enc Encoding) String() string {
	if enc < EncodingNone || enc > EncodingGZip {
		return fmt.Sprintf("Encoding(%d)", int(enc))
	}
	return encodingNames[enc]
}

// ParseEncoding returns the Encoding named s. The empty string is
// EncodingNone.
func ParseEncoding(s string) (Encoding, error) {
	if s == "" {
		return EncodingNone, nil
	}
	for i, name := range encodingNames {
		if strings.EqualFold(s, name) {
			return Encoding(i), nil
		}
	}
	return EncodingNone, fmt.Errorf("fetchx: unknown encoding %q", s)
}

// A Blob is a fully buffered response body together with its content
// type.
type Blob struct {
	// Type is the value of the response's Content-Type header.
	Type string
	// Data is the response body.
	Data []byte
}

func validate(resp *http.Response, enabled bool) *Error {
	if !enabled || resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	drain(resp)
	return &Error{Kind: KindBadResponse, Status: resp.StatusCode}
}

func drain(resp *http.Response) {
	if resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

// coerce converts resp to the shape named by to. Every type other than
// TypeNone consumes and closes the body.
func coerce(resp *http.Response, from Encoding, to Type, parser DocumentParser) (interface{}, error) {
	if err := decodeBody(resp, from); err != nil {
		drain(resp)
		return nil, err
	}
	if to == TypeNone {
		return resp, nil
	}

	b, err := readBody(resp)
	if err != nil {
		return nil, err
	}

	switch to {
	case TypeText:
		return string(b), nil
	case TypeJSON:
		var v interface{}
		if err = json.Unmarshal(b, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeBlob:
		return Blob{Type: resp.Header.Get("Content-Type"), Data: b}, nil
	case TypeDocument:
		return parser.Parse(string(b), "text/html")
	default:
		return nil, fmt.Errorf("fetchx: unknown type %d", int(to))
	}
}

func readBody(resp *http.Response) ([]byte, error) {
	if resp.Body == nil {
		return []byte{}, nil
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return io.ReadAll(resp.Body)
}

// decodeBody replaces resp.Body with a decoding reader for enc, and
// adjusts the headers the same way http.Transport does when it
// transparently decompresses a response.
func decodeBody(resp *http.Response, enc Encoding) error {
	if enc != EncodingGZip || resp.Body == nil {
		return nil
	}
	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return err
	}
	resp.Body = &gzipBody{Reader: zr, raw: resp.Body}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return nil
}

type gzipBody struct {
	*gzip.Reader
	raw io.ReadCloser
}

func (b *gzipBody) Close() error {
	_ = b.Reader.Close()
	return b.raw.Close()
}
