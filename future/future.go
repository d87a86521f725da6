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

// Package future backs the Ask pattern: a single-assignment container that
// a sender blocks on and a receiving actor completes exactly once.
package future

import (
	"context"
	"sync"
)

// Future represents a reply that may not be available yet.
type Future interface {
	// Await blocks until the Future is completed or ctx is canceled.
	Await(ctx context.Context) (any, error)

	// complete fulfills the Future. Used internally by completable.
	complete(any, error)
}

// New runs task in a new goroutine and returns a Future for its result.
func New(task func() (any, error)) Future {
	comp := newCompletable()
	go func() {
		result, err := task()
		if err != nil {
			comp.Failure(err)
		} else {
			comp.Success(result)
		}
	}()
	return comp.Future()
}

type future struct {
	acceptOnce   sync.Once
	completeOnce sync.Once
	done         chan any
	value        any
	err          error
}

var _ Future = (*future)(nil)

func newFuture() Future {
	return &future{done: make(chan any, 1)}
}

func (f *future) wait(ctx context.Context) {
	f.acceptOnce.Do(func() {
		select {
		case result := <-f.done:
			f.setResult(result)
		case <-ctx.Done():
			f.err = ctx.Err()
		}
	})
}

func (f *future) setResult(result any) {
	if err, ok := result.(error); ok {
		f.err = err
		return
	}
	f.value = result
}

// Await blocks until the Future is completed or ctx is canceled.
func (f *future) Await(ctx context.Context) (any, error) {
	f.wait(ctx)
	return f.value, f.err
}

func (f *future) complete(value any, err error) {
	f.completeOnce.Do(func() {
		if err != nil {
			f.done <- err
			return
		}
		f.done <- value
	})
}

// completable is a writable, single-assignment handle onto a Future.
type completable interface {
	// Success completes the underlying Future with a value.
	Success(any)
	// Failure fails the underlying Future with an error.
	Failure(error)
	// Future returns the underlying Future.
	Future() Future
}

type completer struct {
	once   sync.Once
	future Future
}

var _ completable = (*completer)(nil)

func newCompletable() completable {
	return &completer{future: newFuture()}
}

func (c *completer) Success(value any) {
	c.once.Do(func() {
		c.future.complete(value, nil)
	})
}

func (c *completer) Failure(err error) {
	c.once.Do(func() {
		c.future.complete(nil, err)
	})
}

func (c *completer) Future() Future {
	return c.future
}

// NewCompletable exposes a completable Future to callers that need to
// complete it from outside the task-goroutine model of New, such as a
// mailbox delivering a reply to a pending Ask.
func NewCompletable() (Future, func(any, error)) {
	comp := newCompletable()
	return comp.Future(), func(value any, err error) {
		if err != nil {
			comp.Failure(err)
			return
		}
		comp.Success(value)
	}
}
