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

// Package actor implements the runtime: mailboxes, PIDs, supervision wiring,
// routers, the process registry, dead letters, and the ActorSystem that ties
// them together.
package actor

import "context"

// Actor is the interface every user-defined actor implements. Instances must
// be treated as owned exclusively by the actor's own goroutine once spawned;
// all state mutation happens inside Receive.
type Actor interface {
	// PreStart runs once before the first message is delivered. A non-nil
	// error fails the spawn (or, on restart, is handled like any other
	// PreStart failure by the supervisor watching this actor).
	PreStart(ctx context.Context) error
	// Receive handles one message at a time, in mailbox order.
	Receive(ctx *ReceiveContext)
	// PostStop runs once after the actor has processed its last message,
	// whether it is stopping permanently or being restarted.
	PostStop(ctx context.Context) error
}

// Behavior is a message handler an actor can swap to at runtime via
// Become/Unbecome, modeling simple per-actor state machines.
type Behavior func(ctx *ReceiveContext)
