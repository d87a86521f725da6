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
	"math"
	"math/rand"
	"time"
)

// BackoffFunc computes how long to wait before the failures-th restart.
// failures is 1 for the first failure in the current window.
type BackoffFunc func(failures int) time.Duration

// ExponentialBackoff returns a BackoffFunc computing
// delay = min(2^failures, cap) seconds, inflated by up to 25% jitter so that
// siblings failing at the same instant do not restart in lockstep.
func ExponentialBackoff(cap time.Duration) BackoffFunc {
	return func(failures int) time.Duration {
		if failures < 1 {
			failures = 1
		}
		base := time.Duration(math.Pow(2, float64(failures))) * time.Second
		if base > cap {
			base = cap
		}
		jitter := time.Duration(rand.Float64() * 0.25 * float64(base))
		return base + jitter
	}
}
