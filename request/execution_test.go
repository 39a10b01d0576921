// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecution_TakeRetry(t *testing.T) {
	t.Run("zero budget", func(t *testing.T) {
		e := NewExecution(&Plan{}, 0)
		defer e.Close()
		assert.False(t, e.TakeRetry())
		assert.Equal(t, -1, e.RetriesLeft)
	})
	t.Run("budget of two", func(t *testing.T) {
		e := NewExecution(&Plan{}, 2)
		defer e.Close()
		assert.True(t, e.TakeRetry())
		assert.Equal(t, 1, e.RetriesLeft)
		assert.True(t, e.TakeRetry())
		assert.Equal(t, 0, e.RetriesLeft)
		assert.False(t, e.TakeRetry())
	})
	t.Run("negative budget", func(t *testing.T) {
		e := NewExecution(&Plan{}, -3)
		defer e.Close()
		assert.False(t, e.TakeRetry())
	})
}

func TestExecution_Attempts(t *testing.T) {
	t.Run("abort attempt", func(t *testing.T) {
		e := NewExecution(&Plan{}, 1)
		defer e.Close()
		ctx1 := e.BeginAttempt()
		cause := errors.New("stale")
		e.AbortAttempt(cause)
		require.Error(t, ctx1.Err())
		assert.Same(t, cause, context.Cause(ctx1))

		ctx2 := e.BeginAttempt()
		assert.NoError(t, ctx2.Err(), "next attempt must start live")
		e.AbortAttempt(nil)
		assert.ErrorIs(t, ctx2.Err(), context.Canceled)
	})
	t.Run("abort without attempt", func(t *testing.T) {
		e := NewExecution(&Plan{}, 1)
		defer e.Close()
		assert.NotPanics(t, func() { e.AbortAttempt(errors.New("nothing")) })
	})
	t.Run("close aborts attempt", func(t *testing.T) {
		e := NewExecution(&Plan{}, 1)
		ctx := e.BeginAttempt()
		e.Close()
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})
	t.Run("zero value", func(t *testing.T) {
		e := &Execution{}
		ctx := e.BeginAttempt()
		assert.NoError(t, ctx.Err())
		e.Close()
		assert.Error(t, ctx.Err())
	})
}

func TestExecution_StatusCode(t *testing.T) {
	e := &Execution{}
	assert.Equal(t, 0, e.StatusCode())
	assert.Nil(t, e.Header())
	e.Response = &http.Response{StatusCode: 404, Header: http.Header{"Foo": {"bar"}}}
	assert.Equal(t, 404, e.StatusCode())
	assert.Equal(t, "bar", e.Header().Get("Foo"))
}

func TestExecution_TimeMethods(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		e := &Execution{}
		assert.False(t, e.Started())
		assert.False(t, e.Ended())
		assert.Equal(t, time.Duration(0), e.Duration())
	})
	t.Run("started but not ended", func(t *testing.T) {
		e := &Execution{Start: time.Now()}
		time.Sleep(2 * time.Millisecond)
		assert.True(t, e.Started())
		assert.False(t, e.Ended())
		assert.GreaterOrEqual(t, e.Duration(), 2*time.Millisecond)
	})
	t.Run("ended", func(t *testing.T) {
		start := time.Now()
		e := &Execution{Start: start, End: start.Add(time.Second)}
		assert.True(t, e.Ended())
		assert.Equal(t, time.Second, e.Duration())
	})
}

type timeoutErr struct{}

func (timeoutErr) Error() string { return "slow" }
func (timeoutErr) Timeout() bool { return true }

func TestExecution_Timeout(t *testing.T) {
	assert.False(t, (&Execution{}).Timeout())
	assert.False(t, (&Execution{Err: errors.New("foo")}).Timeout())
	assert.True(t, (&Execution{Err: timeoutErr{}}).Timeout())
	assert.True(t, (&Execution{Err: fmt.Errorf("wrapped: %w", timeoutErr{})}).Timeout())
	assert.True(t, (&Execution{Err: syscall.ETIMEDOUT}).Timeout())
}

type funKey struct{}

type funkyKey struct{}

func TestExecution_Value(t *testing.T) {
	e := &Execution{}
	assert.Nil(t, e.Value(funKey{}))
	e.SetValue(funKey{}, "ham")
	e.SetValue(funkyKey{}, "eggs")
	assert.Equal(t, "ham", e.Value(funKey{}))
	assert.Equal(t, "eggs", e.Value(funkyKey{}))
	e.SetValue(funKey{}, "spam")
	assert.Equal(t, "spam", e.Value(funKey{}))
}
