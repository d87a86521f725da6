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

// Mailbox is the contract a PID drives without regard to the concrete queue
// strategy backing it.
type Mailbox interface {
	// PostUser enqueues a user message. Returns ErrMailboxFull on a bounded
	// mailbox once its user queue is at capacity; an unbounded mailbox never
	// returns an error.
	PostUser(msg *ReceiveContext) error
	// PostSystem enqueues a control message. Never rejected, never bounded.
	PostSystem(msg SystemMessage)
	// RegisterHandlers wires the callbacks invoked for each dequeued system
	// and user message. Must be called before Start.
	RegisterHandlers(systemHandler func(SystemMessage), userHandler func(*ReceiveContext))
	// Start begins draining. Enqueues before Start are buffered, not lost.
	Start()
	// Suspend stops user message delivery; system messages keep flowing.
	Suspend()
	// Resume re-enables user message delivery.
	Resume()
	// IsEmpty reports whether both queues are empty. Best-effort under
	// concurrent producers.
	IsEmpty() bool
	// Len returns a best-effort count of the messages in the user queue.
	Len() int64
	// Dispose stops draining and releases resources. The mailbox must not be
	// used afterward.
	Dispose()
}
