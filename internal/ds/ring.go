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

// Package ds holds small generic data structures; its RingBuffer backs the
// actor stash buffer.
package ds

// RingBuffer is a growable FIFO queue backed by a circular slice. Unlike the
// mailbox's lock-free linked-list queues, it is single-owner and unsynchronized
// - it backs the per-actor stash, touched only by the actor's own goroutine.
type RingBuffer[T any] struct {
	buf   []T
	head  int
	count int
}

// NewRingBuffer creates a RingBuffer with the given initial capacity.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[T]{buf: make([]T, capacity)}
}

// Len returns the number of elements currently stored.
func (r *RingBuffer[T]) Len() int {
	return r.count
}

// PushBack appends value to the end of the queue, growing the backing slice
// if it is full.
func (r *RingBuffer[T]) PushBack(value T) {
	if r.count == len(r.buf) {
		r.grow()
	}
	idx := (r.head + r.count) % len(r.buf)
	r.buf[idx] = value
	r.count++
}

// PopFront removes and returns the oldest element. ok is false if the queue
// is empty.
func (r *RingBuffer[T]) PopFront() (value T, ok bool) {
	if r.count == 0 {
		return value, false
	}
	value = r.buf[r.head]
	var zero T
	r.buf[r.head] = zero
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return value, true
}

// Drain removes and returns every element currently stored, oldest first.
func (r *RingBuffer[T]) Drain() []T {
	out := make([]T, 0, r.count)
	for {
		v, ok := r.PopFront()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

func (r *RingBuffer[T]) grow() {
	next := make([]T, len(r.buf)*2)
	for i := 0; i < r.count; i++ {
		next[i] = r.buf[(r.head+i)%len(r.buf)]
	}
	r.buf = next
	r.head = 0
}
