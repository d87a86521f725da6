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

package supervisor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orbiterrors "github.com/veyron-actor/orbit/errors"
)

type customError struct{}

func (customError) Error() string { return "custom failure" }

func TestDefaultSupervisorRules(t *testing.T) {
	s := NewSupervisor()

	assert.Equal(t, OneForOneStrategy, s.Strategy())

	d, ok := s.Directive(&orbiterrors.PanicError{})
	require.True(t, ok)
	assert.Equal(t, StopDirective, d)
}

func TestWithDirectiveAddsRule(t *testing.T) {
	s := NewSupervisor(WithDirective(customError{}, RestartDirective))

	d, ok := s.Directive(customError{})
	require.True(t, ok)
	assert.Equal(t, RestartDirective, d)
}

func TestAnyErrorDirectiveOverridesEverything(t *testing.T) {
	s := NewSupervisor(
		WithDirective(customError{}, RestartDirective),
		WithAnyErrorDirective(StopDirective),
	)

	assert.Len(t, s.Rules(), 1)

	d, ok := s.AnyErrorDirective()
	require.True(t, ok)
	assert.Equal(t, StopDirective, d)

	_, ok = s.Directive(customError{})
	assert.False(t, ok)
}

func TestAlwaysRestartAlwaysStopAlwaysEscalate(t *testing.T) {
	restart := NewSupervisor(AlwaysRestart())
	d, _ := restart.AnyErrorDirective()
	assert.Equal(t, RestartDirective, d)

	stop := NewSupervisor(AlwaysStop())
	d, _ = stop.AnyErrorDirective()
	assert.Equal(t, StopDirective, d)

	escalate := NewSupervisor(AlwaysEscalate())
	d, _ = escalate.AnyErrorDirective()
	assert.Equal(t, EscalateDirective, d)
}

func TestWithRetryConfiguresBudget(t *testing.T) {
	s := NewSupervisor(WithRetry(5, time.Minute))
	assert.Equal(t, uint32(5), s.MaxRetries())
	assert.Equal(t, time.Minute, s.Timeout())
}

func TestWithBackoffIsStored(t *testing.T) {
	s := NewSupervisor(WithBackoff(ExponentialBackoff(time.Minute)))
	require.NotNil(t, s.Backoff())
	assert.Greater(t, s.Backoff()(1), time.Duration(0))
}

func TestSetDirectiveByTypeDoesNotClearExisting(t *testing.T) {
	s := NewSupervisor(WithDirective(customError{}, RestartDirective))
	s.SetDirectiveByType("some.OtherError", StopDirective)

	d, ok := s.Directive(customError{})
	require.True(t, ok)
	assert.Equal(t, RestartDirective, d)

	d, ok = s.AnyErrorDirective()
	assert.False(t, ok)
	_ = d
}

func TestAllForOneStrategy(t *testing.T) {
	s := NewSupervisor(WithStrategy(AllForOneStrategy))
	assert.Equal(t, AllForOneStrategy, s.Strategy())
}

func TestExponentialBackoffGrowsThenCaps(t *testing.T) {
	backoff := ExponentialBackoff(10 * time.Second)

	first := backoff(1)
	third := backoff(3)
	tenth := backoff(10)

	assert.GreaterOrEqual(t, first, 2*time.Second)
	assert.Less(t, first, time.Duration(2*1.25*float64(time.Second)))

	assert.GreaterOrEqual(t, third, 8*time.Second)

	// 2^10 far exceeds the 10s cap.
	assert.LessOrEqual(t, tenth, time.Duration(float64(10*time.Second)*1.25))
}

func TestExponentialBackoffNeverNegativeFailures(t *testing.T) {
	backoff := ExponentialBackoff(time.Minute)
	// failures below 1 are treated as the first failure: 2s plus under 25% jitter
	for _, failures := range []int{0, -3} {
		assert.GreaterOrEqual(t, backoff(failures), 2*time.Second)
		assert.Less(t, backoff(failures), time.Duration(2*1.25*float64(time.Second)))
	}
}

func TestRestartStatisticsFailAccumulates(t *testing.T) {
	rs := NewRestartStatistics(time.Hour)
	now := time.Now()

	assert.Equal(t, 1, rs.Fail(now))
	assert.Equal(t, 2, rs.Fail(now.Add(time.Second)))
	assert.Equal(t, 3, rs.FailureCount(now.Add(2*time.Second)))
}

func TestRestartStatisticsIdleReset(t *testing.T) {
	rs := NewRestartStatistics(time.Minute)
	now := time.Now()

	rs.Fail(now)
	rs.Fail(now.Add(time.Second))

	// past the idle-reset window since the last failure: counter restarts
	count := rs.Fail(now.Add(2 * time.Hour))
	assert.Equal(t, 1, count)
}

func TestRestartStatisticsWithinWindow(t *testing.T) {
	rs := NewRestartStatistics(time.Hour)
	now := time.Now()

	rs.Fail(now)
	rs.Fail(now.Add(time.Second))
	rs.Fail(now.Add(2 * time.Second))

	assert.True(t, rs.WithinWindow(now.Add(3*time.Second), time.Minute, 3))
	assert.False(t, rs.WithinWindow(now.Add(3*time.Second), time.Minute, 2))
}

func TestRestartStatisticsReset(t *testing.T) {
	rs := NewRestartStatistics(time.Hour)
	now := time.Now()
	rs.Fail(now)
	rs.Reset()
	assert.Equal(t, 0, rs.FailureCount(now))
}

func TestDirectiveAndStrategyStringers(t *testing.T) {
	assert.Equal(t, "OneForOne", OneForOneStrategy.String())
	assert.Equal(t, "AllForOne", AllForOneStrategy.String())
	assert.Equal(t, "Stop", StopDirective.String())
	assert.Equal(t, "Resume", ResumeDirective.String())
	assert.Equal(t, "Restart", RestartDirective.String())
	assert.Equal(t, "Escalate", EscalateDirective.String())
}

func TestErrorsJoinCompatibility(t *testing.T) {
	// sanity check that orbiterrors' wrapper types behave under errors.Is,
	// since Supervisor.Directive relies on reflect.TypeOf, not errors.Is.
	wrapped := orbiterrors.NewPanicError(errors.New("x"))
	assert.True(t, errors.Is(wrapped, wrapped))
}
