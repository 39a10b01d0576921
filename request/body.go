// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
)

const badBodyTypeMsg = "fetchx/request: invalid type (for body use nil, " +
	"string, []byte, json.RawMessage, url.Values, io.Reader or io.ReadCloser)"

// Content types implied by the body type, matching what a browser
// fetch would send.
const (
	ContentTypeText = "text/plain;charset=UTF-8"
	ContentTypeForm = "application/x-www-form-urlencoded;charset=UTF-8"
	ContentTypeJSON = "application/json"
)

// ReadBody buffers a generic body parameter for use as a request plan
// body, and reports the content type the body type implies, if any.
//
//	nil              no body, no content type
//	string           text/plain
//	[]byte           the bytes as is, no content type
//	json.RawMessage  application/json
//	url.Values       the encoded form, application/x-www-form-urlencoded
//	io.Reader        read to the end, no content type
//
// An io.Reader which is also an io.Closer is closed after reading. A
// read or close error is returned with a nil byte slice.
func ReadBody(body interface{}) (b []byte, contentType string, err error) {
	switch x := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return []byte(x), ContentTypeText, nil
	case []byte:
		return x, "", nil
	case json.RawMessage:
		return x, ContentTypeJSON, nil
	case url.Values:
		return []byte(x.Encode()), ContentTypeForm, nil
	case io.ReadCloser:
		b, err = io.ReadAll(x)
		if err != nil {
			return nil, "", err
		}
		if err = x.Close(); err != nil {
			return nil, "", err
		}
		return b, "", nil
	case io.Reader:
		return ReadBody(io.NopCloser(x))
	default:
		return nil, "", errors.New(badBodyTypeMsg)
	}
}
