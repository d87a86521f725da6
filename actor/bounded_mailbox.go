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

	"github.com/veyron-actor/orbit/errors"
)

// BoundedMailbox caps its user queue at a fixed capacity; PostUser returns
// ErrMailboxFull once that capacity is reached rather than blocking the
// producer. The system queue is always the unbounded DualMailbox system
// queue - control signals must never be rejected for backpressure.
type BoundedMailbox struct {
	system *mpscQueue[SystemMessage]
	user   chan *ReceiveContext

	running   atomic.Bool
	suspended atomic.Bool
	started   atomic.Bool
	disposed  atomic.Bool

	systemHandler func(SystemMessage)
	userHandler   func(*ReceiveContext)
}

var _ Mailbox = (*BoundedMailbox)(nil)

// NewBoundedMailbox creates a bounded mailbox whose user queue holds at most
// capacity messages. capacity must be a positive integer.
func NewBoundedMailbox(capacity int) *BoundedMailbox {
	if capacity < 1 {
		capacity = 1
	}
	return &BoundedMailbox{
		system: newMPSCQueue[SystemMessage](),
		user:   make(chan *ReceiveContext, capacity),
	}
}

func (m *BoundedMailbox) RegisterHandlers(systemHandler func(SystemMessage), userHandler func(*ReceiveContext)) {
	m.systemHandler = systemHandler
	m.userHandler = userHandler
}

func (m *BoundedMailbox) Start() {
	m.started.Store(true)
	m.schedule()
}

func (m *BoundedMailbox) PostSystem(msg SystemMessage) {
	if m.disposed.Load() {
		return
	}
	m.system.push(msg)
	m.schedule()
}

func (m *BoundedMailbox) PostUser(msg *ReceiveContext) error {
	if m.disposed.Load() {
		return nil
	}
	select {
	case m.user <- msg:
		m.schedule()
		return nil
	default:
		return errors.ErrMailboxFull
	}
}

func (m *BoundedMailbox) Suspend() { m.suspended.Store(true) }
func (m *BoundedMailbox) Resume() {
	m.suspended.Store(false)
	m.schedule()
}

func (m *BoundedMailbox) IsEmpty() bool {
	return m.system.empty() && len(m.user) == 0
}

func (m *BoundedMailbox) Len() int64 {
	return int64(len(m.user))
}

func (m *BoundedMailbox) Dispose() {
	m.disposed.Store(true)
}

func (m *BoundedMailbox) schedule() {
	if !m.started.Load() || m.disposed.Load() {
		return
	}
	if !m.running.CompareAndSwap(false, true) {
		return
	}
	go m.drain()
}

func (m *BoundedMailbox) drain() {
	defer m.running.Store(false)
	for {
		if m.disposed.Load() {
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
			select {
			case msg := <-m.user:
				drainedAny = true
				if m.userHandler != nil {
					m.userHandler(msg)
				}
			default:
			}
		}

		if !drainedAny {
			return
		}
	}
}
