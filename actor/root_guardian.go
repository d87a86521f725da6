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

import "context"

const rootGuardianName = "$guardian"

// rootGuardian is the ancestor of every top-level actor spawned on an
// ActorSystem. It holds no state of its own; its only job is to exist so
// every other actor has a parent, which is what lets failures that escalate
// all the way to the top still find somewhere to land instead of crashing
// the run loop that reported them.
type rootGuardian struct{}

var _ Actor = (*rootGuardian)(nil)

func newRootGuardian() *rootGuardian { return &rootGuardian{} }

func (*rootGuardian) PreStart(context.Context) error { return nil }

func (*rootGuardian) Receive(ctx *ReceiveContext) {
	ctx.Unhandled()
}

func (*rootGuardian) PostStop(context.Context) error { return nil }
