// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package fetchx

import (
	"net/http"
	"testing"
	"time"

	"github.com/gogama/fetchx/request"
	"github.com/gogama/fetchx/retry"
	"github.com/gogama/fetchx/timeout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, 10*time.Second, c.LoadingTime)
	assert.Equal(t, 5, c.RetryTimes)
	assert.Equal(t, 5*time.Second, c.RetryDelay)
	assert.Equal(t, TypeNone, c.TypeTo)
	assert.Equal(t, EncodingNone, c.TypeFrom)
	assert.False(t, c.BadResponseError)
	assert.Equal(t, "GET", c.Method)
	assert.NotNil(t, c.OnError)
}

func TestMerge(t *testing.T) {
	e := &request.Execution{}
	t.Run("nil base", func(t *testing.T) {
		c := merge(nil, nil)

		assert.Equal(t, 5, c.RetryTimes)
		require.NotNil(t, c.TimeoutPolicy)
		require.NotNil(t, c.RetryPolicy)
		assert.Equal(t, 10*time.Second, c.TimeoutPolicy.Timeout(e))
		assert.Equal(t, timeout.DefaultPolicy, c.TimeoutPolicy)
		assert.Equal(t, retry.DefaultWaiter.Wait(e), c.RetryPolicy.Wait(e))
		assert.Equal(t, retry.DefaultPolicy.Decide(e), c.RetryPolicy.Decide(e))
	})
	t.Run("partial base", func(t *testing.T) {
		c := merge(&Config{RetryTimes: 1}, nil)

		assert.Equal(t, time.Duration(0), c.LoadingTime)
		assert.Equal(t, time.Duration(0), c.TimeoutPolicy.Timeout(e))
		assert.Equal(t, time.Duration(0), c.RetryPolicy.Wait(e))

		base := DefaultConfig()
		base.RetryTimes = 1
		c = merge(&base, nil)

		assert.Equal(t, 1, c.RetryTimes)
		assert.Equal(t, timeout.DefaultLoadingTime, c.TimeoutPolicy.Timeout(e))
		assert.Equal(t, retry.DefaultDelay, c.RetryPolicy.Wait(e))
	})
	t.Run("options", func(t *testing.T) {
		onError := Substitute(0)
		c := merge(nil, []Option{
			WithLoadingTime(time.Second),
			WithRetryTimes(2),
			WithRetryDelay(time.Millisecond),
			WithTypeTo(TypeJSON),
			WithTypeFrom(EncodingGZip),
			WithBadResponseError(true),
			WithOnError(onError),
			WithMethod("PUT"),
			WithHeader(http.Header{"A": {"1"}}),
			WithHeader(http.Header{"A": {"2"}}),
			WithBody("b"),
			nil,
		})

		assert.Equal(t, time.Second, c.LoadingTime)
		assert.Equal(t, time.Second, c.TimeoutPolicy.Timeout(e))
		assert.Equal(t, 2, c.RetryTimes)
		assert.Equal(t, time.Millisecond, c.RetryPolicy.Wait(e))
		assert.Equal(t, TypeJSON, c.TypeTo)
		assert.Equal(t, EncodingGZip, c.TypeFrom)
		assert.True(t, c.BadResponseError)
		assert.NotNil(t, c.OnError)
		assert.Equal(t, "PUT", c.Method)
		assert.Equal(t, []string{"1", "2"}, c.Header.Values("A"))
		assert.Equal(t, "b", c.Body)
	})
	t.Run("policies", func(t *testing.T) {
		tp := timeout.Fixed(time.Minute)
		rp := retry.NewPolicy(retry.Budget, retry.NewFixedWaiter(time.Hour))

		c := merge(nil, []Option{WithTimeoutPolicy(tp), WithRetryPolicy(rp)})
		assert.Equal(t, time.Minute, c.TimeoutPolicy.Timeout(e))
		assert.Equal(t, time.Hour, c.RetryPolicy.Wait(e))

		c = merge(nil, []Option{WithTimeoutPolicy(tp), WithLoadingTime(time.Second), WithRetryPolicy(rp), WithRetryDelay(0)})
		assert.Equal(t, time.Second, c.TimeoutPolicy.Timeout(e))
		assert.Equal(t, time.Duration(0), c.RetryPolicy.Wait(e))
	})
	t.Run("base copied", func(t *testing.T) {
		base := &Config{RetryTimes: -3, Header: http.Header{"B": {"base"}}}

		c := merge(base, []Option{WithHeader(http.Header{"B": {"call"}}), WithRetryTimes(1)})

		assert.Equal(t, 1, c.RetryTimes)
		assert.Equal(t, -3, base.RetryTimes)
		assert.Equal(t, []string{"base", "call"}, c.Header.Values("B"))
		assert.Equal(t, http.Header{"B": {"base"}}, base.Header)
		assert.Equal(t, 0, merge(base, nil).RetryTimes)
	})
}
