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

// Package eventstream implements the actor system's publish/subscribe bus.
// Dead letters and applied cluster topology changes flow through here.
// Subscribers register for a
// Go type rather than a string topic; a publish dispatches synchronously to
// every handler whose type matches, so a handler's panic is recovered and
// logged without ever reaching the publisher.
package eventstream

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/veyron-actor/orbit/log"
)

type subscription struct {
	id     uint64
	active atomic.Bool
	call   func(any)
}

// EventStream is the default, process-local pub/sub bus.
type EventStream struct {
	logger log.Logger

	mu   sync.RWMutex
	subs map[reflect.Type]map[uint64]*subscription

	nextID atomic.Uint64
}

// New creates an EventStream. A nil logger falls back to log.DiscardLogger.
func New(logger log.Logger) *EventStream {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &EventStream{
		logger: logger,
		subs:   make(map[reflect.Type]map[uint64]*subscription),
	}
}

// Subscribe registers handler to run for every value of type T published on
// s. Dispatch is synchronous and happens on the publisher's goroutine; a
// panic inside handler is recovered and logged, it does not propagate to
// Publish. Subscribe returns a function that unregisters the handler.
func Subscribe[T any](s *EventStream, handler func(T)) (unsubscribe func()) {
	typ := reflect.TypeOf((*T)(nil)).Elem()

	sub := &subscription{id: s.nextID.Add(1)}
	sub.active.Store(true)
	sub.call = func(value any) {
		typed, ok := value.(T)
		if !ok {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorf("eventstream: subscriber for %s panicked: %v", typ, r)
			}
		}()
		handler(typed)
	}

	s.mu.Lock()
	bucket, ok := s.subs[typ]
	if !ok {
		bucket = make(map[uint64]*subscription)
		s.subs[typ] = bucket
	}
	bucket[sub.id] = sub
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sub.active.Store(false)
			s.mu.Lock()
			if bucket, ok := s.subs[typ]; ok {
				delete(bucket, sub.id)
				if len(bucket) == 0 {
					delete(s.subs, typ)
				}
			}
			s.mu.Unlock()
		})
	}
}

// Publish dispatches value to every subscriber registered for type T.
func Publish[T any](s *EventStream, value T) {
	s.dispatch(reflect.TypeOf((*T)(nil)).Elem(), value)
}

// PublishAny dispatches value using its dynamic type, for callers relaying
// an already-boxed event (a dead letter envelope, for instance) that do not
// know T statically.
func (s *EventStream) PublishAny(value any) {
	s.dispatch(reflect.TypeOf(value), value)
}

func (s *EventStream) dispatch(typ reflect.Type, value any) {
	s.mu.RLock()
	bucket := s.subs[typ]
	snapshot := make([]*subscription, 0, len(bucket))
	for _, sub := range bucket {
		snapshot = append(snapshot, sub)
	}
	s.mu.RUnlock()

	for _, sub := range snapshot {
		if sub.active.Load() {
			sub.call(value)
		}
	}
}

// SubscriberCount returns the number of active subscribers registered for
// type T.
func SubscriberCount[T any](s *EventStream) int {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs[typ])
}

// Close unregisters every subscriber. Subsequent publishes are no-ops until
// new subscribers register.
func (s *EventStream) Close() {
	s.mu.Lock()
	for _, bucket := range s.subs {
		for _, sub := range bucket {
			sub.active.Store(false)
		}
	}
	s.subs = make(map[reflect.Type]map[uint64]*subscription)
	s.mu.Unlock()
}
