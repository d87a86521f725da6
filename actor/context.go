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
	"context"
	"sync"
	"time"
)

// ReceiveContext carries per-message state and operations available to an
// actor while handling one message. An instance is only valid for the
// duration of the Receive call that received it; Stash copies the message
// and sender into the actor's stash buffer rather than keeping the context.
type ReceiveContext struct {
	ctx     context.Context
	self    *PID
	sender  *PID
	message any

	response       chan any
	responseClosed bool

	err error
}

var receiveContextPool = sync.Pool{New: func() any { return new(ReceiveContext) }}

func getReceiveContext() *ReceiveContext {
	return receiveContextPool.Get().(*ReceiveContext)
}

func (rctx *ReceiveContext) reset() {
	*rctx = ReceiveContext{}
}

func (rctx *ReceiveContext) release() {
	rctx.reset()
	receiveContextPool.Put(rctx)
}

func (rctx *ReceiveContext) build(ctx context.Context, self, sender *PID, message any, response chan any) {
	rctx.ctx = ctx
	rctx.self = self
	rctx.sender = sender
	rctx.message = message
	rctx.response = response
}

// Self returns the PID of the actor currently processing this message.
func (rctx *ReceiveContext) Self() *PID { return rctx.self }

// Sender returns the PID that sent this message, or NoSender if it arrived
// without a sender (a Tell from outside the actor system, or a system
// message).
func (rctx *ReceiveContext) Sender() *PID { return rctx.sender }

// Message returns the message payload being processed. Treat it as
// immutable.
func (rctx *ReceiveContext) Message() any { return rctx.message }

// Context returns the context bound to this message's delivery. Do not
// retain it past the current Receive call.
func (rctx *ReceiveContext) Context() context.Context { return rctx.ctx }

// Err records a non-fatal error observed while handling this message.
// Recording an error does not stop processing or trigger supervision by
// itself - panicking does that. Err exists for diagnostics and for
// Ask/Request error propagation paths that don't go through a panic.
func (rctx *ReceiveContext) Err(err error) { rctx.err = err }

// Unhandled marks this message as one the actor's current behavior could not
// process, routing it to the system's dead-letter sink.
func (rctx *ReceiveContext) Unhandled() {
	rctx.self.toDeadLetter(rctx.sender, rctx.message, rctx.err)
}

// Respond replies to the sender of the current message. If the message was
// sent via Ask, this completes that future; otherwise it is a no-op.
func (rctx *ReceiveContext) Respond(response any) {
	if rctx.response == nil || rctx.responseClosed {
		return
	}
	rctx.responseClosed = true
	select {
	case rctx.response <- response:
	default:
	}
}

// Become replaces the actor's current behavior. The message being processed
// finishes under the old behavior; the new one applies to subsequent
// messages. Does not maintain a stack - see BecomeStacked for that.
func (rctx *ReceiveContext) Become(behavior Behavior) {
	rctx.self.setBehavior(behavior)
}

// BecomeStacked pushes a new behavior on top of the current one, which can
// later be restored with UnbecomeStacked.
func (rctx *ReceiveContext) BecomeStacked(behavior Behavior) {
	rctx.self.pushBehavior(behavior)
}

// UnbecomeStacked pops the most recently stacked behavior, reverting to
// whatever was active before it. No-op if nothing is stacked.
func (rctx *ReceiveContext) UnbecomeStacked() {
	rctx.self.popBehavior()
}

// Unbecome resets the actor to its original (Receive method) behavior,
// discarding any Become/BecomeStacked state.
func (rctx *ReceiveContext) Unbecome() {
	rctx.self.resetBehavior()
}

// Stash defers the message currently being processed for later redelivery,
// preserving arrival order relative to other stashed messages. Requires the
// actor to have been spawned with WithStashBuffer; otherwise records
// ErrStashBufferNotSet.
func (rctx *ReceiveContext) Stash() {
	if err := rctx.self.stash(rctx.message, rctx.sender); err != nil {
		rctx.Err(err)
	}
}

// Unstash redelivers the single oldest stashed message by enqueueing it at
// the back of Self's user queue, behind anything already queued.
func (rctx *ReceiveContext) Unstash() {
	if err := rctx.self.unstash(); err != nil {
		rctx.Err(err)
	}
}

// UnstashAll redelivers every stashed message, oldest first, by enqueueing
// them at the back of Self's user queue, behind anything already queued.
func (rctx *ReceiveContext) UnstashAll() {
	if err := rctx.self.unstashAll(); err != nil {
		rctx.Err(err)
	}
}

// Tell sends message to to asynchronously. Does not block and expects no
// reply.
func (rctx *ReceiveContext) Tell(to *PID, message any) {
	if err := to.Tell(rctx.ctx, rctx.self, message); err != nil {
		rctx.Err(err)
	}
}

// BatchTell sends messages to to in order, each delivered individually and
// processed one at a time by to's mailbox.
func (rctx *ReceiveContext) BatchTell(to *PID, messages ...any) {
	if err := to.BatchTell(rctx.ctx, rctx.self, messages...); err != nil {
		rctx.Err(err)
	}
}

// Ask sends message to to and blocks for a reply up to timeout. On error or
// timeout, Err is recorded and the returned response is nil.
func (rctx *ReceiveContext) Ask(to *PID, message any, timeout time.Duration) any {
	response, err := to.Ask(rctx.ctx, rctx.self, message, timeout)
	if err != nil {
		rctx.Err(err)
	}
	return response
}

// Forward re-sends the message currently being processed to to, preserving
// the original sender so to's reply (if any) reaches the original caller,
// not this actor.
func (rctx *ReceiveContext) Forward(to *PID) {
	if err := to.Tell(rctx.ctx, rctx.sender, rctx.message); err != nil {
		rctx.Err(err)
	}
}

// Spawn creates a named child of Self and returns its PID. On failure, Err
// is recorded and the returned PID is nil.
func (rctx *ReceiveContext) Spawn(name string, actor Actor, opts ...SpawnOption) *PID {
	child, err := rctx.self.Spawn(rctx.ctx, name, actor, opts...)
	if err != nil {
		rctx.Err(err)
		return nil
	}
	return child
}

// Watch registers Self to be notified with a Terminated message when target
// stops.
func (rctx *ReceiveContext) Watch(target *PID) {
	rctx.self.Watch(target)
}

// Unwatch cancels a previous Watch.
func (rctx *ReceiveContext) Unwatch(target *PID) {
	rctx.self.Unwatch(target)
}

// Stop terminates target immediately, without draining its remaining user
// messages.
func (rctx *ReceiveContext) Stop(target *PID) {
	if err := target.Stop(rctx.ctx); err != nil {
		rctx.Err(err)
	}
}

// Shutdown gracefully stops Self after its current user queue drains.
func (rctx *ReceiveContext) Shutdown() {
	if err := rctx.self.Poison(rctx.ctx); err != nil {
		rctx.Err(err)
	}
}

// ReenterAfter runs task on its own goroutine without blocking Self's
// mailbox. When task completes, continuation runs back on Self's mailbox
// goroutine with the sender and message of the envelope being processed
// right now restored for its duration, so it can Respond or inspect Sender
// as if still handling the original message.
//
// If Self restarts or stops before task completes, the continuation is
// dropped rather than invoked against a stale actor instance.
func (rctx *ReceiveContext) ReenterAfter(task func() (any, error), continuation func(ctx *ReceiveContext, result any, err error)) {
	rctx.self.reenterAfter(rctx.ctx, rctx.sender, rctx.message, task, continuation)
}
