// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"testing"
	"time"

	"github.com/gogama/fetchx/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestDefaultPolicy(t *testing.T) {
	e := &request.Execution{RetriesLeft: 1}
	assert.True(t, DefaultPolicy.Decide(e))
	assert.False(t, DefaultPolicy.Decide(e))
	assert.Equal(t, -1, e.RetriesLeft)
	assert.Equal(t, DefaultDelay, DefaultPolicy.Wait(&request.Execution{Attempt: 4}))
}

func TestNewPolicy(t *testing.T) {
	m := &mockPolicy{}
	m.Test(t)

	assert.PanicsWithValue(t, "fetchx/retry: nil decider", func() { NewPolicy(nil, m) })
	assert.PanicsWithValue(t, "fetchx/retry: nil waiter", func() { NewPolicy(m, nil) })

	e := &request.Execution{Attempt: 3}
	m.On("Decide", e).Return(false).Once()
	m.On("Wait", e).Return(time.Minute).Once()
	p := NewPolicy(m, m)
	assert.False(t, p.Decide(e))
	assert.Equal(t, time.Minute, p.Wait(e))
	m.AssertExpectations(t)
}

type mockPolicy struct {
	mock.Mock
}

func (m *mockPolicy) Decide(e *request.Execution) bool {
	return m.Called(e).Bool(0)
}

func (m *mockPolicy) Wait(e *request.Execution) time.Duration {
	return m.Called(e).Get(0).(time.Duration)
}
