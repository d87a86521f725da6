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

import "time"

// SystemMessage is the marker interface for control-plane messages that
// travel on a mailbox's system queue. System messages are never subject to
// backpressure and are always drained ahead of user messages.
type SystemMessage interface {
	systemMessage()
}

type baseSystemMessage struct{}

func (baseSystemMessage) systemMessage() {}

// stop asks the actor's run loop to terminate without draining the user
// queue first.
type stop struct {
	baseSystemMessage
	reason error
}

// poisonPill asks the actor to terminate only after its current user queue
// has fully drained.
type poisonPill struct {
	baseSystemMessage
}

// suspendMailbox stops user message delivery while leaving system messages
// flowing, used while a supervisor decides a failed child's fate.
type suspendMailbox struct {
	baseSystemMessage
}

// resumeMailbox re-enables user message delivery after a suspend.
type resumeMailbox struct {
	baseSystemMessage
}

// failure notifies a parent that a child failed (panicked in Receive, failed
// PreStart on restart, or escalated), so the parent can apply the child's
// supervision directive.
type failure struct {
	baseSystemMessage
	child *PID
	err   error
}

// watchMessage registers watcher as an observer of the receiving PID's
// termination.
type watchMessage struct {
	baseSystemMessage
	watcher *PID
}

// unwatchMessage removes a previously registered watcher.
type unwatchMessage struct {
	baseSystemMessage
	watcher *PID
}

// receiveTimeoutFired is the internal control signal that arms delivery of
// the exported ReceiveTimeout message to the actor's own Receive.
type receiveTimeoutFired struct {
	baseSystemMessage
}

// restart instructs the run loop to invoke PostStop, recreate the actor
// instance, and call PreStart again, after waiting the given delay.
type restart struct {
	baseSystemMessage
	delay time.Duration
}

// reenterMessage carries a ReenterAfter continuation back to the actor that
// scheduled it. generation is the actor's incarnation at capture time; the
// run loop drops the continuation rather than invoking it if the actor has
// since restarted or stopped.
type reenterMessage struct {
	baseSystemMessage
	generation   uint64
	sender       *PID
	envelope     any
	result       any
	err          error
	continuation func(ctx *ReceiveContext, result any, err error)
}
