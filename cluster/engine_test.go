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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyron-actor/orbit/actor"
	"github.com/veyron-actor/orbit/eventstream"
)

type echoActor struct{}

func (*echoActor) PreStart(context.Context) error { return nil }
func (*echoActor) Receive(ctx *actor.ReceiveContext) {
	switch ctx.Message().(type) {
	case string:
		ctx.Respond(ctx.Message())
	}
}
func (*echoActor) PostStop(context.Context) error { return nil }

func newTestEngine(t *testing.T, self string, opts ...EngineOption) *Engine {
	t.Helper()
	sys, err := actor.NewActorSystem("engine-" + self)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sys.Shutdown(context.Background(), 0) })
	return NewEngine(sys, self, nil, opts...)
}

func TestEngineRequestActivatesAndReplies(t *testing.T) {
	e := newTestEngine(t, "node-1")
	e.RegisterKind("cart", func(name string) (actor.Actor, error) {
		return &echoActor{}, nil
	})

	id, err := NewClusterIdentity("cart", "alice")
	require.NoError(t, err)

	reply, err := e.Request(context.Background(), id, "ping", time.Second)
	require.NoError(t, err)
	assert.Equal(t, "ping", reply)
}

func TestEngineRequestReusesActivationAcrossCalls(t *testing.T) {
	var activations atomic.Int32
	e := newTestEngine(t, "node-1")
	e.RegisterKind("cart", func(name string) (actor.Actor, error) {
		activations.Add(1)
		return &echoActor{}, nil
	})

	id, err := NewClusterIdentity("cart", "alice")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := e.Request(context.Background(), id, "ping", time.Second)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), activations.Load())
}

func TestEngineResolveCollapsesConcurrentActivations(t *testing.T) {
	var activations atomic.Int32
	e := newTestEngine(t, "node-1")
	e.RegisterKind("cart", func(name string) (actor.Actor, error) {
		activations.Add(1)
		time.Sleep(10 * time.Millisecond)
		return &echoActor{}, nil
	})

	id, err := NewClusterIdentity("cart", "alice")
	require.NoError(t, err)

	const concurrency = 20
	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			_, err := e.Request(context.Background(), id, "ping", time.Second)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), activations.Load())
}

func TestEngineRequestUnregisteredKindFails(t *testing.T) {
	e := newTestEngine(t, "node-1")
	id, err := NewClusterIdentity("cart", "alice")
	require.NoError(t, err)

	_, err = e.Request(context.Background(), id, "ping", time.Second)
	assert.Error(t, err)
}

func TestEngineApplyTopologyPublishesTopologyApplied(t *testing.T) {
	e := newTestEngine(t, "node-1")

	received := make(chan TopologyApplied, 1)
	unsubscribe := eventstream.Subscribe(e.system.EventStream(), func(evt TopologyApplied) {
		received <- evt
	})
	defer unsubscribe()

	err := e.ApplyTopology(Topology{Version: 2, Members: []Member{{ID: "node-1"}, {ID: "node-2"}}})
	require.NoError(t, err)

	select {
	case evt := <-received:
		assert.Equal(t, uint64(2), evt.Version)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for TopologyApplied")
	}
	assert.Equal(t, uint64(2), e.TopologyVersion())
}

func TestEngineApplyTopologyClearsPIDCache(t *testing.T) {
	e := newTestEngine(t, "node-1")
	e.RegisterKind("cart", func(name string) (actor.Actor, error) {
		return &echoActor{}, nil
	})

	id, err := NewClusterIdentity("cart", "alice")
	require.NoError(t, err)
	_, err = e.Request(context.Background(), id, "ping", time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, e.cache.len())

	err = e.ApplyTopology(Topology{Version: 2, Members: []Member{{ID: "node-1"}}})
	require.NoError(t, err)
	assert.Equal(t, 0, e.cache.len())
}

func TestEngineRequestToBlockedOwnerFails(t *testing.T) {
	e := newTestEngine(t, "node-1")
	e.RegisterKind("cart", func(name string) (actor.Actor, error) {
		return &echoActor{}, nil
	})

	id, err := NewClusterIdentity("cart", "alice")
	require.NoError(t, err)
	e.blocked.block(e.self)

	_, err = e.Request(context.Background(), id, "ping", 50*time.Millisecond)
	assert.Error(t, err)
}

func TestEngineApplyTopologyRejectsEmptyMembers(t *testing.T) {
	e := newTestEngine(t, "node-1")
	err := e.ApplyTopology(Topology{Version: 1, Members: nil})
	assert.Error(t, err)
}

func TestEngineApplyTopologyTracksDepartedMembers(t *testing.T) {
	e := newTestEngine(t, "node-1")

	err := e.ApplyTopology(Topology{Version: 2, Members: []Member{{ID: "node-1"}, {ID: "node-2"}}})
	require.NoError(t, err)
	assert.False(t, e.departed.Contains("node-2"))

	err = e.ApplyTopology(Topology{Version: 3, Members: []Member{{ID: "node-1"}}})
	require.NoError(t, err)
	assert.True(t, e.departed.Contains("node-2"))

	err = e.ApplyTopology(Topology{Version: 4, Members: []Member{{ID: "node-1"}, {ID: "node-2"}}})
	require.NoError(t, err)
	assert.False(t, e.departed.Contains("node-2"))
}

func TestEngineCloseStopsLocalPartitionActors(t *testing.T) {
	e := newTestEngine(t, "node-1")
	e.RegisterKind("cart", func(name string) (actor.Actor, error) {
		return &echoActor{}, nil
	})

	id, err := NewClusterIdentity("cart", "alice")
	require.NoError(t, err)
	_, err = e.Request(context.Background(), id, "ping", time.Second)
	require.NoError(t, err)

	err = e.Close(context.Background())
	assert.NoError(t, err)
}
