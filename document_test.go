// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLParser(t *testing.T) {
	t.Run("html", func(t *testing.T) {
		doc, err := HTMLParser.Parse(`<html><head><title>T</title><meta name="description" content="D"></head></html>`, "text/html")

		require.NoError(t, err)
		assert.Equal(t, "T", doc.Find("title").Text())
		content, ok := doc.Find(`meta[name="description"]`).Attr("content")
		assert.True(t, ok)
		assert.Equal(t, "D", content)
	})
	t.Run("parameters", func(t *testing.T) {
		doc, err := HTMLParser.Parse("<b>x</b>", "text/html; charset=utf-8")

		require.NoError(t, err)
		assert.Equal(t, "x", doc.Find("b").Text())
	})
	t.Run("xhtml", func(t *testing.T) {
		_, err := HTMLParser.Parse("<p/>", "application/xhtml+xml")

		assert.NoError(t, err)
	})
	t.Run("fragment", func(t *testing.T) {
		doc, err := HTMLParser.Parse("plain words", "text/html")

		require.NoError(t, err)
		assert.Equal(t, 1, doc.Find("body").Length())
		assert.Equal(t, "plain words", doc.Text())
	})
	t.Run("unsupported", func(t *testing.T) {
		doc, err := HTMLParser.Parse("{}", "application/json")

		assert.Nil(t, doc)
		assert.EqualError(t, err, `fetchx: unsupported document type "application/json"`)
	})
	t.Run("bad media type", func(t *testing.T) {
		_, err := HTMLParser.Parse("", "")

		assert.Error(t, err)
	})
}
