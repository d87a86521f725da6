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
	"sync/atomic"
)

// mpscQueue is a lock-free Multi-Producer, Single-Consumer linked-list queue,
// generic over its payload. It is the same swap-and-link technique applied
// twice by DualMailbox: once for system messages, once for user messages.
type mpscQueue[T any] struct {
	head atomic.Pointer[mpscNode[T]] // consumer only
	tail atomic.Pointer[mpscNode[T]] // producers only
}

type mpscNode[T any] struct {
	next atomic.Pointer[mpscNode[T]]
	data T
}

func newMPSCQueue[T any]() *mpscQueue[T] {
	dummy := &mpscNode[T]{}
	q := &mpscQueue[T]{}
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

func (q *mpscQueue[T]) push(value T) {
	n := &mpscNode[T]{data: value}
	prev := q.tail.Swap(n)
	prev.next.Store(n)
}

func (q *mpscQueue[T]) pop() (value T, ok bool) {
	head := q.head.Load()
	next := head.next.Load()
	if next == nil {
		return value, false
	}
	q.head.Store(next)
	value = next.data
	return value, true
}

func (q *mpscQueue[T]) empty() bool {
	return q.head.Load().next.Load() == nil
}

func (q *mpscQueue[T]) len() int64 {
	var n int64
	cur := q.head.Load().next.Load()
	for cur != nil {
		n++
		cur = cur.next.Load()
	}
	return n
}

// DualMailbox is the default unbounded mailbox: two independent mpscQueue
// instances, one for system control messages, one for user messages, sharing
// a single running token so only one goroutine ever drains either queue at a
// time.
//
// System messages always drain ahead of user messages. While suspended, user
// messages accumulate but are not delivered; system messages keep flowing so
// a supervisor can still Resume or Stop a suspended actor.
type DualMailbox struct {
	system *mpscQueue[SystemMessage]
	user   *mpscQueue[*ReceiveContext]

	running   atomic.Bool
	suspended atomic.Bool
	started   atomic.Bool
	disposed  atomic.Bool

	systemHandler func(SystemMessage)
	userHandler   func(*ReceiveContext)
}

var _ Mailbox = (*DualMailbox)(nil)

// NewDualMailbox creates an unbounded dual-queue mailbox.
func NewDualMailbox() *DualMailbox {
	return &DualMailbox{
		system: newMPSCQueue[SystemMessage](),
		user:   newMPSCQueue[*ReceiveContext](),
	}
}

func (m *DualMailbox) RegisterHandlers(systemHandler func(SystemMessage), userHandler func(*ReceiveContext)) {
	m.systemHandler = systemHandler
	m.userHandler = userHandler
}

func (m *DualMailbox) Start() {
	m.started.Store(true)
	m.schedule()
}

func (m *DualMailbox) PostSystem(msg SystemMessage) {
	if m.disposed.Load() {
		return
	}
	m.system.push(msg)
	m.schedule()
}

func (m *DualMailbox) PostUser(msg *ReceiveContext) error {
	if m.disposed.Load() {
		return nil
	}
	m.user.push(msg)
	m.schedule()
	return nil
}

func (m *DualMailbox) Suspend() { m.suspended.Store(true) }
func (m *DualMailbox) Resume() {
	m.suspended.Store(false)
	m.schedule()
}

func (m *DualMailbox) IsEmpty() bool {
	return m.system.empty() && m.user.empty()
}

func (m *DualMailbox) Len() int64 {
	return m.user.len()
}

func (m *DualMailbox) Dispose() {
	m.disposed.Store(true)
}

// schedule acquires the running token and drains both queues until they are
// empty (or user delivery is suspended), releasing the token afterward. If a
// producer enqueues just after the drain loop decided to stop, either its own
// schedule call wins the released token or the draining goroutine re-checks
// the queues after releasing and takes the token back, so no message is
// stranded.
func (m *DualMailbox) schedule() {
	if !m.started.Load() || m.disposed.Load() {
		return
	}
	if !m.running.CompareAndSwap(false, true) {
		return
	}
	go m.drain()
}

func (m *DualMailbox) drain() {
	for {
		if m.disposed.Load() {
			m.running.Store(false)
			return
		}
		drainedAny := false

		for {
			msg, ok := m.system.pop()
			if !ok {
				break
			}
			drainedAny = true
			if m.systemHandler != nil {
				m.systemHandler(msg)
			}
		}

		if !m.suspended.Load() {
			msg, ok := m.user.pop()
			if ok {
				drainedAny = true
				if m.userHandler != nil {
					m.userHandler(msg)
				}
			}
		}

		if !drainedAny {
			m.running.Store(false)
			// A producer that enqueued after the pops above saw the token
			// still held; take it back if anything deliverable is queued.
			idle := m.system.empty() && (m.suspended.Load() || m.user.empty())
			if idle || !m.running.CompareAndSwap(false, true) {
				return
			}
		}
	}
}
