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
	"container/list"
	"sync"

	"github.com/veyron-actor/orbit/actor"
)

// pidCache is the process-local ClusterIdentity -> PID directory. Lookups
// and inserts promote an entry to the front of an LRU list; once the cache
// is at capacity, inserting a new entry evicts the least-recently-used one.
// A single mutex guards both the index and the list together, since LRU
// promotion on every Get has to move the entry and touch the index
// atomically - a lock-free syncmap alone cannot keep "most recently used"
// ordering consistent with its own contents.
type pidCache struct {
	mu       sync.Mutex
	capacity int
	index    map[ClusterIdentity]*list.Element
	order    *list.List // front = most recently used
}

type pidCacheEntry struct {
	identity ClusterIdentity
	pid      *actor.PID
}

func newPIDCache(capacity int) *pidCache {
	if capacity <= 0 {
		capacity = 1
	}
	return &pidCache{
		capacity: capacity,
		index:    make(map[ClusterIdentity]*list.Element),
		order:    list.New(),
	}
}

// get returns the cached PID for identity, promoting it to most-recently-used.
func (c *pidCache) get(identity ClusterIdentity) (*actor.PID, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[identity]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*pidCacheEntry).pid, true
}

// put stores pid for identity, evicting the least-recently-used entry if the
// cache is at capacity and identity is not already present.
func (c *pidCache) put(identity ClusterIdentity, pid *actor.PID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[identity]; ok {
		el.Value.(*pidCacheEntry).pid = pid
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.index, oldest.Value.(*pidCacheEntry).identity)
		}
	}

	el := c.order.PushFront(&pidCacheEntry{identity: identity, pid: pid})
	c.index[identity] = el
}

// forget removes identity from the cache, if present.
func (c *pidCache) forget(identity ClusterIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[identity]; ok {
		c.order.Remove(el)
		delete(c.index, identity)
	}
}

// clear empties the cache, used when a TopologyApplied event invalidates
// every cached placement wholesale.
func (c *pidCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = make(map[ClusterIdentity]*list.Element)
	c.order.Init()
}

// len returns the number of entries currently cached.
func (c *pidCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
