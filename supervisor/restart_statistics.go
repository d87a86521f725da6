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
	"sync"
	"time"
)

// RestartStatistics is a sliding-window counter of an actor's recent
// failures, used by Supervisor to decide whether a restart budget is
// exhausted and by BackoffFunc to pick the n-th restart's delay.
type RestartStatistics struct {
	mu        sync.Mutex
	failures  []time.Time
	idleReset time.Duration
}

// NewRestartStatistics creates a RestartStatistics whose failure count resets
// to zero once idleReset has elapsed since the most recent failure.
func NewRestartStatistics(idleReset time.Duration) *RestartStatistics {
	return &RestartStatistics{idleReset: idleReset}
}

// Fail records a failure at now and returns the number of failures currently
// within the window (including this one).
func (r *RestartStatistics) Fail(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pruneLocked(now)
	r.failures = append(r.failures, now)
	return len(r.failures)
}

// FailureCount returns the number of failures currently within the window,
// as of now, without recording a new one.
func (r *RestartStatistics) FailureCount(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(now)
	return len(r.failures)
}

// WithinWindow reports whether the number of failures within window counted
// back from now is less than or equal to max.
func (r *RestartStatistics) WithinWindow(now time.Time, window time.Duration, max uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-window)
	count := 0
	for _, t := range r.failures {
		if t.After(cutoff) {
			count++
		}
	}
	return uint32(count) <= max
}

// Reset clears all recorded failures.
func (r *RestartStatistics) Reset() {
	r.mu.Lock()
	r.failures = nil
	r.mu.Unlock()
}

// pruneLocked clears every recorded failure once more than idleReset has
// passed since the most recent one, so a long-idle actor starts fresh the
// next time it fails. Callers must
// hold r.mu.
func (r *RestartStatistics) pruneLocked(now time.Time) {
	if r.idleReset <= 0 || len(r.failures) == 0 {
		return
	}
	last := r.failures[len(r.failures)-1]
	if now.Sub(last) > r.idleReset {
		r.failures = r.failures[:0]
	}
}
