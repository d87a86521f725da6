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
	"fmt"
	"math/rand/v2"
	"sync/atomic"

	"github.com/veyron-actor/orbit/errors"
	"github.com/veyron-actor/orbit/hash"
)

// RoutingStrategy selects how a Router fans a message out across its
// routees.
type RoutingStrategy int

const (
	// BroadcastRouting sends every message to every routee.
	BroadcastRouting RoutingStrategy = iota
	// RoundRobinRouting sends each message to the next routee in sequence.
	RoundRobinRouting
	// RandomRouting sends each message to a uniformly random routee.
	RandomRouting
	// ConsistentHashRouting sends each message to the routee owning the
	// message's hash-coded key, via the router's hash.Hasher.
	ConsistentHashRouting
)

// RouteKeyed is implemented by messages that carry their own routing key for
// ConsistentHashRouting. Messages that don't implement it are hashed on
// their fmt.Sprintf("%v", ...) representation instead.
type RouteKeyed interface {
	RouteKey() string
}

// RouterState is an immutable snapshot of a Router's routees. AddRoutee and
// RemoveRoutee publish a replacement snapshot rather than mutating one in
// place, so an in-flight fan-out never observes a half-updated routee set.
type RouterState struct {
	routees []*PID
}

func newRouterState(routees []*PID) *RouterState {
	cp := make([]*PID, len(routees))
	copy(cp, routees)
	return &RouterState{routees: cp}
}

// Routees returns the snapshot's routee list. Callers must not mutate it.
func (s *RouterState) Routees() []*PID { return s.routees }

func (s *RouterState) withAdded(routee *PID) *RouterState {
	return newRouterState(append(s.routees, routee))
}

func (s *RouterState) withRemoved(routee *PID) *RouterState {
	out := make([]*PID, 0, len(s.routees))
	for _, r := range s.routees {
		if r != routee {
			out = append(out, r)
		}
	}
	return newRouterState(out)
}

// addRoutee and removeRoutee are router-internal control messages, posted as
// ordinary user messages so routee changes serialize through the router
// actor's own mailbox like everything else it handles.
type addRoutee struct{ routee *PID }
type removeRoutee struct{ routee *PID }
type routeMessage struct{ message any }

// Router is an Actor that fans messages out to a pool of routees according
// to its RoutingStrategy. Spawn it like any other actor, then Tell it
// routeMessage-wrapped payloads via Route, or reconfigure its pool via
// AddRoutee/RemoveRoutee.
type Router struct {
	strategy RoutingStrategy
	hasher   hash.Hasher
	state    atomic.Pointer[RouterState]
	next     atomic.Uint32
}

var _ Actor = (*Router)(nil)

// NewRouter creates a Router actor with the given strategy and initial
// routees. For ConsistentHashRouting, hasher must be non-nil.
func NewRouter(strategy RoutingStrategy, hasher hash.Hasher, routees ...*PID) *Router {
	r := &Router{strategy: strategy, hasher: hasher}
	r.state.Store(newRouterState(routees))
	return r
}

func (r *Router) PreStart(context.Context) error { return nil }

func (r *Router) PostStop(context.Context) error { return nil }

func (r *Router) Receive(ctx *ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *addRoutee:
		r.addRoutee(msg.routee)
	case *removeRoutee:
		r.removeRoutee(msg.routee)
	case *routeMessage:
		r.route(ctx, msg.message)
	default:
		r.route(ctx, msg)
	}
}

func (r *Router) addRoutee(routee *PID) {
	for {
		cur := r.state.Load()
		next := cur.withAdded(routee)
		if r.state.CompareAndSwap(cur, next) {
			return
		}
	}
}

func (r *Router) removeRoutee(routee *PID) {
	for {
		cur := r.state.Load()
		next := cur.withRemoved(routee)
		if r.state.CompareAndSwap(cur, next) {
			return
		}
	}
}

func (r *Router) route(ctx *ReceiveContext, message any) {
	routees := r.state.Load().Routees()
	if len(routees) == 0 {
		ctx.Unhandled()
		return
	}

	switch r.strategy {
	case RoundRobinRouting:
		n := r.next.Add(1)
		ctx.Tell(routees[(n-1)%uint32(len(routees))], message)
	case RandomRouting:
		ctx.Tell(routees[rand.IntN(len(routees))], message)
	case ConsistentHashRouting:
		routee := r.routeByHash(routees, message)
		ctx.Tell(routee, message)
	default:
		for _, routee := range routees {
			ctx.Tell(routee, message)
		}
	}
}

func (r *Router) routeByHash(routees []*PID, message any) *PID {
	key := routeKeyOf(message)
	code := r.hasher.HashCode([]byte(key))
	return routees[code%uint64(len(routees))]
}

func routeKeyOf(message any) string {
	if keyed, ok := message.(RouteKeyed); ok {
		return keyed.RouteKey()
	}
	return fmt.Sprintf("%v", message)
}

// Route sends message to pid's routing algorithm for dispatch to its current
// routee pool.
func Route(ctx context.Context, pid *PID, message any) error {
	if pid == nil {
		return errors.ErrActorNotFound
	}
	return pid.Tell(ctx, NoSender, &routeMessage{message: message})
}

// AddRoutee enqueues a routee addition on pid's router.
func AddRoutee(ctx context.Context, router, routee *PID) error {
	return router.Tell(ctx, NoSender, &addRoutee{routee: routee})
}

// RemoveRoutee enqueues a routee removal on pid's router.
func RemoveRoutee(ctx context.Context, router, routee *PID) error {
	return router.Tell(ctx, NoSender, &removeRoutee{routee: routee})
}
