/*
 * MIT License
 *
 * Copyright (c) 2022-2025 The Orbit Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

package future

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitSuccess(t *testing.T) {
	f := New(func() (any, error) {
		return "pong", nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result, err := f.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pong", result)
}

func TestAwaitFailure(t *testing.T) {
	boom := errors.New("boom")
	f := New(func() (any, error) {
		return nil, boom
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result, err := f.Await(ctx)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, boom)
}

func TestAwaitContextCanceled(t *testing.T) {
	f := New(func() (any, error) {
		time.Sleep(100 * time.Millisecond)
		return "too late", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := f.Await(ctx)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAwaitIsIdempotent(t *testing.T) {
	f := New(func() (any, error) {
		return 42, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	first, err := f.Await(ctx)
	require.NoError(t, err)
	second, err := f.Await(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNewCompletable(t *testing.T) {
	f, complete := NewCompletable()
	go complete("done", nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result, err := f.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "done", result)
}

func TestNewCompletableCompletesOnce(t *testing.T) {
	f, complete := NewCompletable()
	complete("first", nil)
	complete("second", nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	result, err := f.Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", result)
}
