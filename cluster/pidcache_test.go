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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyron-actor/orbit/actor"
)

func newTestPID(t *testing.T, sys *actor.ActorSystem, name string) *actor.PID {
	t.Helper()
	pid, err := sys.Spawn(context.Background(), name, &noopActor{})
	require.NoError(t, err)
	return pid
}

type noopActor struct{}

func (*noopActor) PreStart(context.Context) error { return nil }
func (*noopActor) Receive(ctx *actor.ReceiveContext) {
	if _, ok := ctx.Message().(string); ok {
		ctx.Respond(ctx.Message())
	}
}
func (*noopActor) PostStop(context.Context) error { return nil }

func TestPIDCacheGetMissReturnsFalse(t *testing.T) {
	cache := newPIDCache(2)
	_, ok := cache.get(ClusterIdentity{Kind: "cart", Name: "alice"})
	assert.False(t, ok)
}

func TestPIDCachePutThenGetRoundTrips(t *testing.T) {
	sys, err := actor.NewActorSystem("pidcache-system")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys.Shutdown(context.Background(), 0) })

	cache := newPIDCache(2)
	id := ClusterIdentity{Kind: "cart", Name: "alice"}
	pid := newTestPID(t, sys, "alice")

	cache.put(id, pid)
	got, ok := cache.get(id)
	require.True(t, ok)
	assert.Same(t, pid, got)
}

func TestPIDCacheEvictsLeastRecentlyUsed(t *testing.T) {
	sys, err := actor.NewActorSystem("pidcache-lru-system")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys.Shutdown(context.Background(), 0) })

	cache := newPIDCache(2)
	a := ClusterIdentity{Kind: "cart", Name: "a"}
	b := ClusterIdentity{Kind: "cart", Name: "b"}
	c := ClusterIdentity{Kind: "cart", Name: "c"}

	cache.put(a, newTestPID(t, sys, "a"))
	cache.put(b, newTestPID(t, sys, "b"))
	// touching a keeps it more recently used than b
	_, _ = cache.get(a)
	cache.put(c, newTestPID(t, sys, "c"))

	_, aStillThere := cache.get(a)
	_, bStillThere := cache.get(b)
	_, cStillThere := cache.get(c)
	assert.True(t, aStillThere)
	assert.False(t, bStillThere)
	assert.True(t, cStillThere)
}

func TestPIDCacheForgetRemovesEntry(t *testing.T) {
	sys, err := actor.NewActorSystem("pidcache-forget-system")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys.Shutdown(context.Background(), 0) })

	cache := newPIDCache(4)
	id := ClusterIdentity{Kind: "cart", Name: "alice"}
	cache.put(id, newTestPID(t, sys, "alice"))
	cache.forget(id)

	_, ok := cache.get(id)
	assert.False(t, ok)
}

func TestPIDCacheClearEmptiesEverything(t *testing.T) {
	sys, err := actor.NewActorSystem("pidcache-clear-system")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys.Shutdown(context.Background(), 0) })

	cache := newPIDCache(4)
	cache.put(ClusterIdentity{Kind: "cart", Name: "a"}, newTestPID(t, sys, "a"))
	cache.put(ClusterIdentity{Kind: "cart", Name: "b"}, newTestPID(t, sys, "b"))
	cache.clear()

	assert.Equal(t, 0, cache.len())
}
