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

import (
	"context"
	"time"

	"github.com/flowchartsman/retry"

	"github.com/veyron-actor/orbit/actor"
	"github.com/veyron-actor/orbit/errors"
	"github.com/veyron-actor/orbit/scheduler"
)

// activateRequest asks the PartitionIdentityActor that owns kind for the
// PID backing name, activating it on first use.
type activateRequest struct {
	name string
}

// activateReply is what an activateRequest's Ask resolves to: either a live
// PID or the error that kept one from existing.
type activateReply struct {
	pid *actor.PID
	err error
}

// forgetRequest drops name from the owning PartitionIdentityActor's
// directory without stopping its activation.
type forgetRequest struct {
	name string
}

// stopRequest drops name from the directory and stops its activation.
type stopRequest struct {
	name string
}

// topologyChanged tells the PartitionIdentityActor to re-check every
// identity currently in its directory against ring, dropping ownership of
// whichever ones no longer hash to self and scheduling their graceful stop.
type topologyChanged struct {
	ring *partitionRing
	self string
}

// PartitionIdentityActor is spawned once per kind on whichever member the
// partition ring names as owner for that kind's identities. It is the
// authority for "does this identity already have a live PID, and if not,
// who creates one" - its own mailbox is the serialization point, so two
// concurrent activateRequests for the same name are handled one after the
// other, never in parallel.
type PartitionIdentityActor struct {
	kind       string
	activators *activatorRegistry
	scheduler  *scheduler.Scheduler
	quiescence time.Duration

	retryAttempts int
	retryMinWait  time.Duration
	retryMaxWait  time.Duration

	directory map[string]*actor.PID
}

var _ actor.Actor = (*PartitionIdentityActor)(nil)

// newPartitionIdentityActor creates the owning actor for kind. quiescence is
// how long a moved-away identity is left running after a topology change,
// so messages already in flight to it have a chance to complete.
func newPartitionIdentityActor(kind string, activators *activatorRegistry, sched *scheduler.Scheduler, quiescence time.Duration) *PartitionIdentityActor {
	return &PartitionIdentityActor{
		kind:          kind,
		activators:    activators,
		scheduler:     sched,
		quiescence:    quiescence,
		retryAttempts: 3,
		retryMinWait:  10 * time.Millisecond,
		retryMaxWait:  200 * time.Millisecond,
		directory:     make(map[string]*actor.PID),
	}
}

func (p *PartitionIdentityActor) PreStart(context.Context) error { return nil }

func (p *PartitionIdentityActor) PostStop(context.Context) error { return nil }

func (p *PartitionIdentityActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *activateRequest:
		p.handleActivate(ctx, msg)
	case *forgetRequest:
		delete(p.directory, msg.name)
	case *stopRequest:
		p.handleStop(ctx, msg)
	case *topologyChanged:
		p.handleTopologyChanged(msg)
	default:
		ctx.Unhandled()
	}
}

func (p *PartitionIdentityActor) handleActivate(ctx *actor.ReceiveContext, msg *activateRequest) {
	if pid, ok := p.directory[msg.name]; ok && pid.IsRunning() {
		ctx.Respond(&activateReply{pid: pid})
		return
	}

	reg, err := p.activators.lookup(p.kind)
	if err != nil {
		ctx.Respond(&activateReply{err: err})
		return
	}

	var instance actor.Actor
	retrier := retry.NewRetrier(p.retryAttempts, p.retryMinWait, p.retryMaxWait)
	activateErr := retrier.RunContext(ctx.Context(), func(_ context.Context) error {
		created, activateErr := reg.activator(msg.name)
		if activateErr != nil {
			return activateErr
		}
		instance = created
		return nil
	})
	if activateErr != nil {
		ctx.Respond(&activateReply{err: errors.NewErrGrainActivationFailure(activateErr)})
		return
	}

	child := ctx.Spawn(msg.name, instance)
	if child == nil {
		ctx.Respond(&activateReply{err: errors.NewSpawnError(errors.ErrGrainActivationFailure)})
		return
	}
	p.directory[msg.name] = child
	ctx.Respond(&activateReply{pid: child})
}

func (p *PartitionIdentityActor) handleStop(ctx *actor.ReceiveContext, msg *stopRequest) {
	pid, ok := p.directory[msg.name]
	if !ok {
		return
	}
	delete(p.directory, msg.name)
	ctx.Stop(pid)
}

// handleTopologyChanged drops directory entries for identities msg.ring no
// longer routes to msg.self, then schedules their graceful stop after the
// configured quiescence delay. The entry is gone immediately, so a fresh
// activateRequest that arrives in the meantime re-resolves through the new
// owner rather than finding a stale local PID.
func (p *PartitionIdentityActor) handleTopologyChanged(msg *topologyChanged) {
	for name, pid := range p.directory {
		owner, ok := msg.ring.owner(ClusterIdentity{Kind: p.kind, Name: name}.String())
		if ok && owner == msg.self {
			continue
		}
		delete(p.directory, name)
		moved := pid
		if p.scheduler == nil {
			_ = moved.Poison(context.Background())
			continue
		}
		_, _ = p.scheduler.ScheduleOnce(func(ctx context.Context) error {
			return moved.Poison(ctx)
		}, p.quiescence)
	}
}
