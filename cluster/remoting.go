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

package cluster

import "context"

// Envelope is the wire-free shape of a message crossing a Remoting
// implementation: enough to reconstruct a local Tell/Ask on the far side
// without this package committing to any particular codec.
type Envelope struct {
	TargetAddress string
	SenderAddress string
	TypeName      string
	Payload       []byte
	Headers       map[string]string
}

// Remoting is the collaborator a cluster Engine sends an activation envelope
// through when the ring names a member other than self as owner. Engine uses
// the round trip as a probe only; requests are not forwarded through it. No
// implementation
// ships with this package - wiring a concrete transport (gRPC, NATS, ...) is
// left to the caller, consistent with remote wire framing being out of
// scope for the core runtime.
type Remoting interface {
	// Send delivers env to memberID and waits for its reply envelope.
	Send(ctx context.Context, memberID string, env Envelope) (Envelope, error)
}
