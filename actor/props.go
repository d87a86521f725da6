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

	"github.com/veyron-actor/orbit/supervisor"
)

// Props configures how a PID is spawned: mailbox strategy, supervision
// policy, idle timeout, and stash capacity.
type Props struct {
	mailboxFactory func() Mailbox
	supervisor     *supervisor.Supervisor
	receiveTimeout time.Duration
	stashCapacity  int
}

// SpawnOption configures a Props.
type SpawnOption func(*Props)

// WithMailbox overrides the default unbounded DualMailbox with a factory
// producing a caller-chosen concrete Mailbox for each spawn.
func WithMailbox(factory func() Mailbox) SpawnOption {
	return func(p *Props) { p.mailboxFactory = factory }
}

// WithBoundedMailbox is shorthand for WithMailbox(func() Mailbox {
// return NewBoundedMailbox(capacity) }).
func WithBoundedMailbox(capacity int) SpawnOption {
	return WithMailbox(func() Mailbox { return NewBoundedMailbox(capacity) })
}

// WithSupervisor attaches a supervision policy governing how this actor's
// parent reacts to its failures.
func WithSupervisor(s *supervisor.Supervisor) SpawnOption {
	return func(p *Props) { p.supervisor = s }
}

// WithReceiveTimeout arms a receiveTimeout system message after d has
// elapsed with no user message delivered. Disabled (zero) by default.
func WithReceiveTimeout(d time.Duration) SpawnOption {
	return func(p *Props) { p.receiveTimeout = d }
}

// WithStashBuffer enables Stash/Unstash/UnstashAll with the given initial
// ring buffer capacity. Disabled (zero capacity) by default, in which case
// Stash records ErrStashBufferNotSet.
func WithStashBuffer(capacity int) SpawnOption {
	return func(p *Props) { p.stashCapacity = capacity }
}

func newProps(opts ...SpawnOption) *Props {
	p := &Props{
		mailboxFactory: func() Mailbox { return NewDualMailbox() },
		supervisor:     supervisor.NewSupervisor(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
