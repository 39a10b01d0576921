// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/gogama/fetchx/timeout"
	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	testCases := []struct {
		kind      Kind
		name      string
		retryable bool
	}{
		{KindTransport, "transport", true},
		{KindOvertime, "overtime", true},
		{KindBadResponse, "bad response", true},
		{KindDecode, "decode", false},
		{KindCanceled, "canceled", false},
		{Kind(0), "Kind(0)", false},
		{Kind(99), "Kind(99)", false},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.name, testCase.kind.String())
			assert.Equal(t, testCase.retryable, testCase.kind.Retryable())
		})
	}
}

func TestError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		assert.Equal(t, `Get "http://x": boom`, newError(KindTransport, "GET", "http://x", errors.New("boom")).Error())
		assert.Equal(t, `Post "http://x": [HTTP 404] The response isn't ok.`,
			(&Error{Kind: KindBadResponse, Op: "Post", URL: "http://x", Status: 404}).Error())
		assert.Equal(t, "fetchx: decode", (&Error{Kind: KindDecode}).Error())
	})
	t.Run("Is", func(t *testing.T) {
		err := newError(KindOvertime, "GET", "u", &timeout.OvertimeError{Deadline: time.Second})
		wrapped := fmt.Errorf("outer: %w", err)
		assert.ErrorIs(t, wrapped, ErrOvertime)
		assert.NotErrorIs(t, wrapped, ErrTransport)
		assert.NotErrorIs(t, wrapped, newError(KindOvertime, "GET", "u", nil))
		var overtime *timeout.OvertimeError
		assert.ErrorAs(t, wrapped, &overtime)
	})
	t.Run("Timeout", func(t *testing.T) {
		assert.True(t, (&Error{Kind: KindOvertime}).Timeout())
		assert.True(t, (&Error{Kind: KindTransport, Err: context.DeadlineExceeded}).Timeout())
		assert.True(t, (&Error{Kind: KindTransport, Err: syscall.ETIMEDOUT}).Timeout())
		assert.False(t, (&Error{Kind: KindTransport, Err: errors.New("no")}).Timeout())
		assert.False(t, (&Error{Kind: KindBadResponse, Status: 500}).Timeout())
	})
}

func TestErrorHandlers(t *testing.T) {
	errIn := errors.New("in")

	v, err := Rethrow(errIn)
	assert.Nil(t, v)
	assert.Same(t, errIn, err)

	v, err = Substitute("fallback")(errIn)
	assert.Equal(t, "fallback", v)
	assert.NoError(t, err)
}
