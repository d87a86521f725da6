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

package actor

// Terminated is delivered to a watcher's own Receive after the watched actor
// has stopped.
type Terminated struct {
	Actor *PID
}

// ReceiveTimeout is delivered to an actor's own Receive after its
// configured idle window (WithReceiveTimeout) elapses with no user message
// arriving in between.
type ReceiveTimeout struct{}

// NotInfluenceReceiveTimeout is implemented by a message type that should
// not reset an actor's receive-timeout timer when delivered - a heartbeat
// or poll message an actor expects regularly and that shouldn't by itself
// keep the actor out of its idle state.
type NotInfluenceReceiveTimeout interface {
	NotInfluenceReceiveTimeout()
}
