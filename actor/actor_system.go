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
	"regexp"
	"sync/atomic"
	"time"

	"github.com/veyron-actor/orbit/errors"
	"github.com/veyron-actor/orbit/eventstream"
	"github.com/veyron-actor/orbit/hash"
	"github.com/veyron-actor/orbit/log"
	"github.com/veyron-actor/orbit/scheduler"
)

var nameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-_]*$`)

// ActorSystem owns the root guardian, the process registry, the dead-letter
// sink, the event stream, and the job scheduler shared by every actor
// running in it. Most applications need exactly one.
type ActorSystem struct {
	name string
	host string
	port int

	logger log.Logger
	hasher hash.Hasher

	registry    *registry
	deadLetters *deadLetterSink
	eventStream *eventstream.EventStream
	scheduler   *scheduler.Scheduler

	root *PID

	started atomic.Bool
}

// Option configures an ActorSystem at construction time.
type Option func(*ActorSystem)

// WithLogger overrides the default log.DiscardLogger.
func WithLogger(logger log.Logger) Option {
	return func(s *ActorSystem) { s.logger = logger }
}

// WithHost sets the host this system's actors publish in their canonical
// address. Defaults to "localhost".
func WithHost(host string) Option {
	return func(s *ActorSystem) { s.host = host }
}

// WithPort sets the port this system's actors publish in their canonical
// address.
func WithPort(port int) Option {
	return func(s *ActorSystem) { s.port = port }
}

// WithHasher overrides the default xxhash-backed hash.Hasher returned by
// Hasher. Routers do not read it; NewRouter takes its own hasher.
func WithHasher(hasher hash.Hasher) Option {
	return func(s *ActorSystem) { s.hasher = hasher }
}

// NewActorSystem validates name and constructs an ActorSystem, spawning its
// root guardian and starting its job scheduler.
func NewActorSystem(name string, opts ...Option) (*ActorSystem, error) {
	if name == "" {
		return nil, fmt.Errorf("actor system name is required")
	}
	if !nameRe.MatchString(name) {
		return nil, fmt.Errorf("invalid actor system name %q", name)
	}

	system := &ActorSystem{
		name:   name,
		host:   "localhost",
		port:   0,
		logger: log.DiscardLogger,
		hasher: hash.DefaultHasher(),
	}
	for _, opt := range opts {
		opt(system)
	}

	system.registry = newRegistry(name)
	system.eventStream = eventstream.New(system.logger)
	system.deadLetters = newDeadLetterSink(system.eventStream)
	system.scheduler = scheduler.New(system.logger)
	system.scheduler.Start(context.Background())

	root := newPID(rootGuardianName, nil, system, func() Actor { return newRootGuardian() }, newProps())
	if err := root.start(context.Background()); err != nil {
		return nil, err
	}
	system.root = root
	system.registry.add(root)
	system.started.Store(true)

	return system, nil
}

// Name returns the actor system's name.
func (s *ActorSystem) Name() string { return s.name }

// Logger returns the logger every actor and ambient subsystem in s logs
// through.
func (s *ActorSystem) Logger() log.Logger { return s.logger }

// EventStream returns the system's shared, typed event stream.
func (s *ActorSystem) EventStream() *eventstream.EventStream { return s.eventStream }

// Scheduler returns the system's shared job scheduler.
func (s *ActorSystem) Scheduler() *scheduler.Scheduler { return s.scheduler }

// Hasher returns the hash.Hasher this system's cluster identity layer hashes
// consistently against.
func (s *ActorSystem) Hasher() hash.Hasher { return s.hasher }

// DeadLetterCount returns the number of messages that have been routed to
// the dead-letter sink since the system started.
func (s *ActorSystem) DeadLetterCount() int64 { return s.deadLetters.Count() }

// Spawn creates a top-level actor, supervised directly by the root guardian.
func (s *ActorSystem) Spawn(ctx context.Context, name string, actor Actor, opts ...SpawnOption) (*PID, error) {
	if !s.started.Load() {
		return nil, errors.ErrSystemShuttingDown
	}
	return s.root.Spawn(ctx, name, actor, opts...)
}

// SpawnAnonymous creates a top-level actor under a system-generated unique
// name, supervised directly by the root guardian.
func (s *ActorSystem) SpawnAnonymous(ctx context.Context, actor Actor, opts ...SpawnOption) (*PID, error) {
	if !s.started.Load() {
		return nil, errors.ErrSystemShuttingDown
	}
	return s.root.SpawnAnonymous(ctx, actor, opts...)
}

// Lookup finds a locally running actor by its canonical address string.
func (s *ActorSystem) Lookup(addr string) (*PID, bool) {
	return s.registry.Lookup(addr)
}

// NumActors returns the number of actors currently registered, including
// the root guardian.
func (s *ActorSystem) NumActors() int { return s.registry.Len() }

// Shutdown stops every top-level actor and the job scheduler, waiting up to
// timeout for in-flight work to finish.
func (s *ActorSystem) Shutdown(ctx context.Context, timeout time.Duration) error {
	if !s.started.CompareAndSwap(true, false) {
		return nil
	}
	if err := s.root.Poison(ctx); err != nil {
		return err
	}

	deadline := time.Now().Add(timeout)
	for s.registry.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	stopCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	s.scheduler.Stop(stopCtx)
	s.eventStream.Close()
	return nil
}
