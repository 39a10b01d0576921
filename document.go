// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"fmt"
	"mime"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// A DocumentParser parses response text into a document. It is used
// for TypeDocument results and by FetchDocument.
type DocumentParser interface {
	Parse(text, mimeType string) (*goquery.Document, error)
}

// The DocumentParserFunc type is an adapter to allow the use of
// ordinary functions as document parsers.
type DocumentParserFunc func(text, mimeType string) (*goquery.Document, error)

// Parse calls f(text, mimeType).
func (f DocumentParserFunc) Parse(text, mimeType string) (*goquery.Document, error) {
	return f(text, mimeType)
}

// HTMLParser is the default DocumentParser. It accepts text/html and
// the XHTML media type, and parses with golang.org/x/net/html.
var HTMLParser DocumentParser = DocumentParserFunc(parseHTML)

func parseHTML(text, mimeType string) (*goquery.Document, error) {
	mediaType, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return nil, err
	}
	if mediaType != "text/html" && mediaType != "application/xhtml+xml" {
		return nil, fmt.Errorf("fetchx: unsupported document type %q", mediaType)
	}
	root, err := html.Parse(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromNode(root), nil
}
