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

package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyron-actor/orbit/errors"
	"github.com/veyron-actor/orbit/log"
)

func TestScheduleOnceRunsExactlyOnce(t *testing.T) {
	s := New(log.DiscardLogger)
	ctx := context.Background()
	s.Start(ctx)
	defer s.Stop(ctx)

	var count atomic.Int32
	_, err := s.ScheduleOnce(func(context.Context) error {
		count.Add(1)
		return nil
	}, 10*time.Millisecond)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return count.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load())
}

func TestScheduleBeforeStartFails(t *testing.T) {
	s := New(log.DiscardLogger)
	_, err := s.ScheduleOnce(func(context.Context) error { return nil }, time.Millisecond)
	assert.ErrorIs(t, err, errors.ErrSchedulerNotStarted)
}

func TestScheduleRepeatingRunsMultipleTimes(t *testing.T) {
	s := New(log.DiscardLogger)
	ctx := context.Background()
	s.Start(ctx)
	defer s.Stop(ctx)

	var count atomic.Int32
	_, err := s.ScheduleRepeating(func(context.Context) error {
		count.Add(1)
		return nil
	}, 10*time.Millisecond)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return count.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestCancelPreventsExecution(t *testing.T) {
	s := New(log.DiscardLogger)
	ctx := context.Background()
	s.Start(ctx)
	defer s.Stop(ctx)

	var count atomic.Int32
	key, err := s.ScheduleOnce(func(context.Context) error {
		count.Add(1)
		return nil
	}, 100*time.Millisecond)
	require.NoError(t, err)

	require.NoError(t, s.Cancel(key))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(0), count.Load())
}

func TestScheduleCronRejectsInvalidExpression(t *testing.T) {
	s := New(log.DiscardLogger)
	ctx := context.Background()
	s.Start(ctx)
	defer s.Stop(ctx)

	_, err := s.ScheduleCron(func(context.Context) error { return nil }, "not a cron expression")
	assert.Error(t, err)
}
