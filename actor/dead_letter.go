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

import (
	"time"

	"go.uber.org/atomic"

	"github.com/veyron-actor/orbit/eventstream"
	"github.com/veyron-actor/orbit/internal/syncmap"
)

// DeadLetter is published on the ActorSystem's event stream whenever a
// message cannot be delivered: its target has stopped, or Unhandled was
// called from within Receive.
type DeadLetter struct {
	Sender   *PID
	Receiver *PID
	Message  any
	Reason   error
	SentAt   time.Time
}

// deadLetterSink collects undeliverable messages, publishes each one on the
// event stream, and keeps a running count for diagnostics.
type deadLetterSink struct {
	stream   *eventstream.EventStream
	total    atomic.Int64
	byTarget *syncmap.SyncMap[string, *atomic.Int64]
}

func newDeadLetterSink(stream *eventstream.EventStream) *deadLetterSink {
	return &deadLetterSink{
		stream:   stream,
		byTarget: syncmap.New[string, *atomic.Int64](),
	}
}

func (d *deadLetterSink) post(receiver, sender *PID, message any, reason error) {
	d.total.Inc()

	letter := DeadLetter{
		Sender:   sender,
		Receiver: receiver,
		Message:  message,
		Reason:   reason,
		SentAt:   time.Now(),
	}

	key := receiver.Address().String()
	counter, _ := d.byTarget.GetOrSet(key, atomic.NewInt64(0))
	counter.Inc()

	if d.stream != nil {
		eventstream.Publish(d.stream, letter)
	}
}

// Count returns the total number of dead letters recorded since the system
// started.
func (d *deadLetterSink) Count() int64 {
	return d.total.Load()
}

// CountFor returns the number of dead letters recorded for a specific
// receiver address.
func (d *deadLetterSink) CountFor(addr string) int64 {
	if counter, ok := d.byTarget.Get(addr); ok {
		return counter.Load()
	}
	return 0
}
