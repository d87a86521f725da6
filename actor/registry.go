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
	"fmt"
	"sync/atomic"

	"github.com/veyron-actor/orbit/internal/syncmap"
)

// registry is the process table: every locally running PID, keyed by its
// fully-qualified address, plus an atomic counter so anonymously-spawned
// actors get unique local names without coordinating with any other
// ActorSystem in the same binary.
type registry struct {
	prefix  string
	counter atomic.Uint64
	byName  *syncmap.SyncMap[string, *PID]
}

func newRegistry(systemName string) *registry {
	return &registry{
		prefix: systemName,
		byName: syncmap.New[string, *PID](),
	}
}

// nextID returns a process-local unique id, used to name actors spawned
// without a caller-given name.
func (r *registry) nextID() string {
	return fmt.Sprintf("%s-%d", r.prefix, r.counter.Add(1))
}

func (r *registry) add(pid *PID) {
	r.byName.Set(pid.Address().String(), pid)
}

func (r *registry) remove(pid *PID) {
	r.byName.Delete(pid.Address().String())
}

// Lookup finds a locally registered actor by its fully-qualified address
// string. Returns false if no such actor is running.
func (r *registry) Lookup(addr string) (*PID, bool) {
	return r.byName.Get(addr)
}

// Len returns the number of actors currently registered.
func (r *registry) Len() int {
	return r.byName.Len()
}
