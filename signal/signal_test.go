// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package signal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombine(t *testing.T) {
	t.Run("no inputs", testCombineNoInputs)
	t.Run("none cancelled", testCombineNoneCancelled)
	t.Run("already cancelled", testCombineAlreadyCancelled)
	t.Run("cancel later", testCombineCancelLater)
	t.Run("single fire", testCombineSingleFire)
	t.Run("release", testCombineRelease)
	t.Run("release cause", testCombineReleaseCause)
	t.Run("release after input", testCombineReleaseAfterInput)
	t.Run("keeps first input values", testCombineValues)
}

func testCombineNoInputs(t *testing.T) {
	ctx, release := Combine()
	defer release(nil)
	require.NotNil(t, ctx)
	assert.NoError(t, ctx.Err())
	assert.Nil(t, ctx.Done())
}

func testCombineNoneCancelled(t *testing.T) {
	for n := 1; n <= 4; n++ {
		inputs, cancels := newInputs(n)
		ctx, release := Combine(inputs...)
		assert.NoError(t, ctx.Err(), "n=%d", n)
		release(nil)
		for _, cancel := range cancels {
			cancel(nil)
		}
		for _, in := range inputs {
			assert.Error(t, in.Err())
		}
	}
}

func testCombineAlreadyCancelled(t *testing.T) {
	reason := errors.New("gone already")
	inputs, cancels := newInputs(3)
	cancels[1](reason)
	other := errors.New("also gone")
	cancels[2](other)

	ctx, release := Combine(inputs...)
	defer release(nil)

	assert.Same(t, inputs[1], ctx, "leftmost done input is passed through")
	assert.Error(t, ctx.Err())
	assert.Same(t, reason, context.Cause(ctx))
	assert.NoError(t, inputs[0].Err())
}

func testCombineCancelLater(t *testing.T) {
	for i := 0; i < 3; i++ {
		inputs, cancels := newInputs(3)
		ctx, release := Combine(inputs...)
		reason := errors.New("stop")
		cancels[i](reason)
		select {
		case <-ctx.Done():
		case <-time.After(time.Second):
			require.FailNow(t, "combined context not cancelled", "input %d", i)
		}
		assert.Same(t, reason, context.Cause(ctx), "input %d", i)
		release(nil)
	}
}

func testCombineSingleFire(t *testing.T) {
	inputs, cancels := newInputs(2)
	ctx, release := Combine(inputs...)
	defer release(nil)
	first := errors.New("first")
	cancels[1](first)
	<-ctx.Done()
	cancels[0](errors.New("second"))
	assert.Same(t, first, context.Cause(ctx))
}

func testCombineRelease(t *testing.T) {
	inputs, cancels := newInputs(2)
	ctx, release := Combine(inputs...)
	release(nil)
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.NoError(t, inputs[0].Err(), "release must not cancel inputs")
	assert.NoError(t, inputs[1].Err(), "release must not cancel inputs")
	cancels[1](errors.New("late"))
	assert.Equal(t, context.Canceled, context.Cause(ctx))
	assert.NotPanics(t, func() { release(nil) })
}

func testCombineReleaseCause(t *testing.T) {
	inputs, _ := newInputs(2)
	cause := errors.New("attempt failed")
	ctx, release := Combine(inputs...)

	release(cause)

	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Same(t, cause, context.Cause(ctx))
	assert.NoError(t, inputs[0].Err())
	assert.NoError(t, inputs[1].Err())
}

func testCombineReleaseAfterInput(t *testing.T) {
	inputs, cancels := newInputs(2)
	first := errors.New("first")
	ctx, release := Combine(inputs...)
	cancels[1](first)
	<-ctx.Done()

	release(errors.New("later"))

	assert.Same(t, first, context.Cause(ctx))
}

type ctxKey struct{}

func testCombineValues(t *testing.T) {
	first := context.WithValue(context.Background(), ctxKey{}, "value")
	second, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx, release := Combine(first, second)
	defer release(nil)
	assert.Equal(t, "value", ctx.Value(ctxKey{}))
}

func newInputs(n int) ([]context.Context, []context.CancelCauseFunc) {
	inputs := make([]context.Context, n)
	cancels := make([]context.CancelCauseFunc, n)
	for i := range inputs {
		inputs[i], cancels[i] = context.WithCancelCause(context.Background())
	}
	return inputs, cancels
}
