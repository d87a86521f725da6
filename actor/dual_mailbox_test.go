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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDualMailboxDeliversUserMessagesInOrder(t *testing.T) {
	m := NewDualMailbox()
	var got []int
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(5)

	m.RegisterHandlers(nil, func(rc *ReceiveContext) {
		mu.Lock()
		got = append(got, rc.message.(int))
		mu.Unlock()
		wg.Done()
	})
	m.Start()

	for i := 0; i < 5; i++ {
		require.NoError(t, m.PostUser(&ReceiveContext{message: i}))
	}

	waitOrFail(t, &wg)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestDualMailboxSystemMessagesDrainAheadOfUser(t *testing.T) {
	m := NewDualMailbox()
	var order []string
	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(2)

	m.RegisterHandlers(func(SystemMessage) {
		mu.Lock()
		order = append(order, "system")
		mu.Unlock()
		wg.Done()
	}, func(*ReceiveContext) {
		mu.Lock()
		order = append(order, "user")
		mu.Unlock()
		wg.Done()
	})

	require.NoError(t, m.PostUser(&ReceiveContext{}))
	m.PostSystem(&stop{})
	m.Start()

	waitOrFail(t, &wg)
	assert.Equal(t, "system", order[0])
}

func TestDualMailboxSuspendBlocksUserDelivery(t *testing.T) {
	m := NewDualMailbox()
	var delivered atomic.Int32
	m.RegisterHandlers(nil, func(*ReceiveContext) { delivered.Add(1) })
	m.Start()
	m.Suspend()

	require.NoError(t, m.PostUser(&ReceiveContext{}))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), delivered.Load())

	m.Resume()
	require.Eventually(t, func() bool { return delivered.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestDualMailboxIsEmptyAndLen(t *testing.T) {
	m := NewDualMailbox()
	assert.True(t, m.IsEmpty())

	block := make(chan struct{})
	m.RegisterHandlers(nil, func(*ReceiveContext) { <-block })
	m.Start()

	require.NoError(t, m.PostUser(&ReceiveContext{}))
	require.NoError(t, m.PostUser(&ReceiveContext{}))
	require.Eventually(t, func() bool { return !m.IsEmpty() }, time.Second, 5*time.Millisecond)
	close(block)
}

func TestBoundedMailboxRejectsPastCapacity(t *testing.T) {
	m := NewBoundedMailbox(1)
	block := make(chan struct{})
	m.RegisterHandlers(nil, func(*ReceiveContext) { <-block })
	m.Start()

	require.NoError(t, m.PostUser(&ReceiveContext{}))
	// give the drain goroutine a chance to pull the first message off the channel
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, m.PostUser(&ReceiveContext{}))
	err := m.PostUser(&ReceiveContext{})
	assert.Error(t, err)
	close(block)
}

func TestBoundedMailboxSystemQueueNeverRejects(t *testing.T) {
	m := NewBoundedMailbox(1)
	var count atomic.Int32
	m.RegisterHandlers(func(SystemMessage) { count.Add(1) }, nil)
	m.Start()

	for i := 0; i < 10; i++ {
		m.PostSystem(&stop{})
	}
	require.Eventually(t, func() bool { return count.Load() == 10 }, time.Second, 5*time.Millisecond)
}

func waitOrFail(t *testing.T, wg *sync.WaitGroup) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for mailbox delivery")
	}
}
