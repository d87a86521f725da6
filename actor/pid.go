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
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/veyron-actor/orbit/address"
	"github.com/veyron-actor/orbit/errors"
	"github.com/veyron-actor/orbit/internal/ds"
	"github.com/veyron-actor/orbit/internal/syncmap"
	"github.com/veyron-actor/orbit/log"
	"github.com/veyron-actor/orbit/supervisor"
)

// PID is the runtime handle to a running actor: its mailbox, its place in
// the supervision tree, and the bookkeeping needed to restart, stop, or
// watch it. User code never constructs a PID directly - it comes back from
// ActorSystem.Spawn or ReceiveContext.Spawn.
type PID struct {
	name   string
	parent *PID
	system *ActorSystem
	logger log.Logger

	actorFactory func() Actor
	actor        Actor
	props        *Props

	mailbox Mailbox

	behaviorMu    sync.Mutex
	behavior      Behavior
	behaviorStack []Behavior

	children *syncmap.SyncMap[string, *PID]
	watchers *syncmap.SyncMap[string, *PID]

	stashBuf  *ds.RingBuffer[stashedMessage]
	stashMu   sync.Mutex
	stashCap  int

	restartStats *supervisor.RestartStatistics

	receiveTimeoutTimer *time.Timer
	receiveTimeout      time.Duration

	// generation counts incarnations of this PID. doRestart bumps it;
	// reenterAfter captures it at schedule time so a continuation delivered
	// after a restart can be told apart from one still addressed to the
	// actor instance that scheduled it.
	generation atomic.Uint64

	// terminated closes once doStop has fully run, after children have
	// reported their own termination and PostStop/notifyWatchers have run.
	// A parent stopping or restarting blocks on a child's terminated
	// channel rather than on the child's stopped flag, which only means a
	// stop was requested, not that it finished.
	terminated chan struct{}

	started   atomic.Bool
	suspended atomic.Bool
	stopped   atomic.Bool
}

type stashedMessage struct {
	message any
	sender  *PID
}

// NoSender is the zero-value PID used when a message has no addressable
// sender (a Tell issued from outside the actor system).
var NoSender *PID

func newPID(name string, parent *PID, system *ActorSystem, factory func() Actor, props *Props) *PID {
	pid := &PID{
		name:         name,
		parent:       parent,
		system:       system,
		logger:       system.logger,
		actorFactory: factory,
		props:        props,
		children:     syncmap.New[string, *PID](),
		watchers:     syncmap.New[string, *PID](),
		restartStats: supervisor.NewRestartStatistics(time.Hour),
		stashCap:     props.stashCapacity,
		receiveTimeout: props.receiveTimeout,
		terminated:   make(chan struct{}),
	}
	if pid.stashCap > 0 {
		pid.stashBuf = ds.NewRingBuffer[stashedMessage](pid.stashCap)
	}
	pid.mailbox = props.mailboxFactory()
	pid.mailbox.RegisterHandlers(pid.handleSystemMessage, pid.handleUserMessage)
	return pid
}

// Name returns the actor's local name.
func (pid *PID) Name() string { return pid.name }

// Parent returns the actor's parent, or nil for the root guardian.
func (pid *PID) Parent() *PID { return pid.parent }

// Address returns the actor's canonical, location-transparent address.
func (pid *PID) Address() *address.Address {
	if pid.parent == nil || pid.parent.parent == nil {
		return address.New(pid.name, pid.system.name, pid.system.host, pid.system.port)
	}
	return address.NewWithParent(pid.name, pid.system.name, pid.system.host, pid.system.port, pid.parent.Address())
}

// Children returns a snapshot of the actor's direct children.
func (pid *PID) Children() []*PID {
	out := make([]*PID, 0, pid.children.Len())
	pid.children.Range(func(_ string, child *PID) bool {
		out = append(out, child)
		return true
	})
	return out
}

// IsRunning reports whether the actor has started and not yet stopped.
func (pid *PID) IsRunning() bool {
	return pid.started.Load() && !pid.stopped.Load()
}

func (pid *PID) start(ctx context.Context) error {
	pid.actor = pid.actorFactory()
	pid.behavior = pid.actor.Receive
	if err := pid.actor.PreStart(ctx); err != nil {
		return err
	}
	pid.mailbox.Start()
	pid.started.Store(true)
	pid.armReceiveTimeout()
	return nil
}

// Tell sends message to pid asynchronously. sender may be NoSender.
func (pid *PID) Tell(ctx context.Context, sender *PID, message any) error {
	if pid.stopped.Load() {
		return errors.ErrDead
	}
	rc := getReceiveContext()
	rc.build(ctx, pid, sender, message, nil)
	return pid.mailbox.PostUser(rc)
}

// BatchTell sends messages to pid in order.
func (pid *PID) BatchTell(ctx context.Context, sender *PID, messages ...any) error {
	for _, message := range messages {
		if err := pid.Tell(ctx, sender, message); err != nil {
			return err
		}
	}
	return nil
}

// Ask sends message to pid and blocks for a reply up to timeout.
func (pid *PID) Ask(ctx context.Context, sender *PID, message any, timeout time.Duration) (any, error) {
	if pid.stopped.Load() {
		return nil, errors.ErrDead
	}
	response := make(chan any, 1)
	rc := getReceiveContext()
	rc.build(ctx, pid, sender, message, response)
	if err := pid.mailbox.PostUser(rc); err != nil {
		return nil, err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case reply := <-response:
		return reply, nil
	case <-timer.C:
		return nil, errors.ErrRequestTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SpawnAnonymous creates a child actor supervised by pid under a
// system-generated unique name, for callers that have no natural name to
// give it.
func (pid *PID) SpawnAnonymous(ctx context.Context, actor Actor, opts ...SpawnOption) (*PID, error) {
	return pid.Spawn(ctx, pid.system.registry.nextID(), actor, opts...)
}

// Spawn creates a named child actor supervised by pid.
func (pid *PID) Spawn(ctx context.Context, name string, actor Actor, opts ...SpawnOption) (*PID, error) {
	if _, exists := pid.children.Get(name); exists {
		return nil, errors.NewErrNameExists(name)
	}
	props := newProps(opts...)
	child := newPID(name, pid, pid.system, func() Actor { return actor }, props)
	if err := child.start(ctx); err != nil {
		return nil, errors.NewSpawnError(err)
	}
	pid.children.Set(name, child)
	pid.system.registry.add(child)
	return child, nil
}

// Watch registers watcher to be notified when pid stops. If pid has already
// stopped, watcher is told immediately - Watch never leaves a caller waiting
// on a Terminated that already happened.
func (pid *PID) Watch(watcher *PID) {
	if !pid.IsRunning() {
		_ = watcher.Tell(context.Background(), pid, Terminated{Actor: pid})
		return
	}
	pid.watchers.Set(watcher.name+watcherSuffix(watcher), watcher)
	pid.mailbox.PostSystem(&watchMessage{watcher: watcher})
}

// Unwatch cancels a previous Watch.
func (pid *PID) Unwatch(watcher *PID) {
	pid.watchers.Delete(watcher.name + watcherSuffix(watcher))
	pid.mailbox.PostSystem(&unwatchMessage{watcher: watcher})
}

func watcherSuffix(p *PID) string {
	return fmt.Sprintf("@%p", p)
}

// Stop terminates pid immediately: pending user messages are discarded.
func (pid *PID) Stop(ctx context.Context) error {
	if !pid.stopped.CompareAndSwap(false, true) {
		return nil
	}
	pid.mailbox.PostSystem(&stop{})
	return nil
}

// Poison gracefully stops pid: its user queue drains first.
func (pid *PID) Poison(ctx context.Context) error {
	if pid.stopped.Load() {
		return nil
	}
	pid.mailbox.PostSystem(&poisonPill{})
	return nil
}

func (pid *PID) setBehavior(b Behavior) {
	pid.behaviorMu.Lock()
	pid.behavior = b
	pid.behaviorStack = nil
	pid.behaviorMu.Unlock()
}

func (pid *PID) pushBehavior(b Behavior) {
	pid.behaviorMu.Lock()
	pid.behaviorStack = append(pid.behaviorStack, pid.behavior)
	pid.behavior = b
	pid.behaviorMu.Unlock()
}

func (pid *PID) popBehavior() {
	pid.behaviorMu.Lock()
	if n := len(pid.behaviorStack); n > 0 {
		pid.behavior = pid.behaviorStack[n-1]
		pid.behaviorStack = pid.behaviorStack[:n-1]
	}
	pid.behaviorMu.Unlock()
}

func (pid *PID) resetBehavior() {
	pid.behaviorMu.Lock()
	pid.behavior = pid.actor.Receive
	pid.behaviorStack = nil
	pid.behaviorMu.Unlock()
}

func (pid *PID) currentBehavior() Behavior {
	pid.behaviorMu.Lock()
	defer pid.behaviorMu.Unlock()
	return pid.behavior
}

func (pid *PID) stash(message any, sender *PID) error {
	if pid.stashBuf == nil {
		return errors.ErrStashBufferNotSet
	}
	pid.stashMu.Lock()
	pid.stashBuf.PushBack(stashedMessage{message: message, sender: sender})
	pid.stashMu.Unlock()
	return nil
}

func (pid *PID) unstash() error {
	if pid.stashBuf == nil {
		return errors.ErrStashBufferNotSet
	}
	pid.stashMu.Lock()
	msg, ok := pid.stashBuf.PopFront()
	pid.stashMu.Unlock()
	if !ok {
		return nil
	}
	return pid.Tell(context.Background(), msg.sender, msg.message)
}

func (pid *PID) unstashAll() error {
	if pid.stashBuf == nil {
		return errors.ErrStashBufferNotSet
	}
	pid.stashMu.Lock()
	pending := pid.stashBuf.Drain()
	pid.stashMu.Unlock()
	for _, msg := range pending {
		if err := pid.Tell(context.Background(), msg.sender, msg.message); err != nil {
			return err
		}
	}
	return nil
}

func (pid *PID) toDeadLetter(sender *PID, message any, reason error) {
	pid.system.deadLetters.post(pid, sender, message, reason)
}

func (pid *PID) armReceiveTimeout() {
	if pid.receiveTimeout <= 0 {
		return
	}
	pid.receiveTimeoutTimer = time.AfterFunc(pid.receiveTimeout, func() {
		if pid.stopped.Load() {
			return
		}
		pid.mailbox.PostSystem(&receiveTimeoutFired{})
	})
}

func (pid *PID) resetReceiveTimeout() {
	if pid.receiveTimeoutTimer != nil {
		pid.receiveTimeoutTimer.Reset(pid.receiveTimeout)
	}
}

// handleUserMessage is the mailbox's user-queue callback: it runs on
// whichever goroutine the mailbox picked to drain, but never concurrently
// with itself for the same PID, which is what makes Receive single-threaded.
func (pid *PID) handleUserMessage(rc *ReceiveContext) {
	if _, ok := rc.message.(*poisonPill); ok {
		rc.release()
		pid.doStop()
		return
	}
	if pid.receiveTimeout > 0 {
		if _, ok := rc.message.(NotInfluenceReceiveTimeout); !ok {
			pid.resetReceiveTimeout()
		}
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			err := panicToError(recovered)
			pid.logger.Errorf("actor %s panicked: %v\n%s", pid.name, err, debug.Stack())
			if rc.response != nil && !rc.responseClosed {
				rc.responseClosed = true
				select {
				case rc.response <- nil:
				default:
				}
			}
			rc.release()
			pid.fail(err)
			return
		}
		rc.release()
	}()

	rc.self = pid
	pid.currentBehavior()(rc)
}

func panicToError(recovered any) error {
	if err, ok := recovered.(error); ok {
		return errors.NewPanicError(err)
	}
	return errors.NewPanicError(fmt.Errorf("%v", recovered))
}

func (pid *PID) handleSystemMessage(msg SystemMessage) {
	switch m := msg.(type) {
	case *stop:
		pid.doStop()
	case *poisonPill:
		if pid.mailbox.IsEmpty() {
			pid.doStop()
			return
		}
		// Queue the pill behind the pending user messages so they are
		// processed before the actor stops.
		rc := getReceiveContext()
		rc.build(context.Background(), pid, NoSender, &poisonPill{}, nil)
		if err := pid.mailbox.PostUser(rc); err != nil {
			rc.release()
			pid.doStop()
		}
	case *suspendMailbox:
		pid.suspended.Store(true)
		pid.mailbox.Suspend()
	case *resumeMailbox:
		pid.suspended.Store(false)
		pid.mailbox.Resume()
	case *watchMessage:
		pid.watchers.Set(m.watcher.name+watcherSuffix(m.watcher), m.watcher)
	case *unwatchMessage:
		pid.watchers.Delete(m.watcher.name + watcherSuffix(m.watcher))
	case *receiveTimeoutFired:
		pid.handleUserMessage(&ReceiveContext{self: pid, message: ReceiveTimeout{}})
	case *restart:
		pid.doRestart(m.delay)
	case *failure:
		pid.handleChildFailure(m.child, m.err)
	case *reenterMessage:
		pid.doReenter(m)
	}
}

func (pid *PID) doStop() {
	select {
	case <-pid.terminated:
		return
	default:
	}
	pid.stopped.Store(true)
	if pid.receiveTimeoutTimer != nil {
		pid.receiveTimeoutTimer.Stop()
	}
	pid.stopChildrenAndAwait()
	if pid.actor != nil {
		_ = pid.actor.PostStop(context.Background())
	}
	pid.mailbox.Dispose()
	pid.notifyWatchers()
	if pid.parent != nil {
		pid.parent.children.Delete(pid.name)
	}
	pid.system.registry.remove(pid)
	close(pid.terminated)
}

// stopChildrenAndAwait stops every direct child and blocks until each has
// fully terminated. Safe to call from a PID's own mailbox goroutine: each
// child drains on its own mailbox, so waiting here never depends on this
// PID's goroutine making further progress.
func (pid *PID) stopChildrenAndAwait() {
	children := pid.Children()
	for _, child := range children {
		_ = child.Stop(context.Background())
	}
	for _, child := range children {
		<-child.terminated
	}
}

func (pid *PID) notifyWatchers() {
	pid.watchers.Range(func(_ string, watcher *PID) bool {
		_ = watcher.Tell(context.Background(), pid, Terminated{Actor: pid})
		return true
	})
}

// fail reports a panic from this actor's own Receive call to its parent,
// which owns the supervision directive for this child.
func (pid *PID) fail(err error) {
	if pid.parent == nil {
		pid.logger.Errorf("root guardian actor %s failed with no supervisor: %v", pid.name, err)
		pid.doStop()
		return
	}
	pid.mailbox.Suspend()
	pid.parent.mailbox.PostSystem(&failure{child: pid, err: err})
}

// handleChildFailure is invoked on the parent after one of its children
// panicked. The directive governing the reaction comes from the failing
// child's own Props - whoever spawned it chose its supervision policy via
// WithSupervisor - not from the parent's.
func (pid *PID) handleChildFailure(child *PID, err error) {
	directive := child.props.supervisor.Directive
	d, ok := directive(err)
	if !ok {
		d = supervisor.StopDirective
	}

	failures := child.restartStats.Fail(time.Now())

	// A restart beyond the WithRetry budget escalates instead.
	if d == supervisor.RestartDirective {
		budget, window := child.props.supervisor.MaxRetries(), child.props.supervisor.Timeout()
		if budget > 0 && window > 0 && !child.restartStats.WithinWindow(time.Now(), window, budget) {
			d = supervisor.EscalateDirective
		}
	}

	targets := []*PID{child}
	if child.props.supervisor.Strategy() == supervisor.AllForOneStrategy {
		targets = pid.Children()
	}

	switch d {
	case supervisor.StopDirective:
		for _, t := range targets {
			_ = t.Stop(context.Background())
		}
	case supervisor.ResumeDirective:
		for _, t := range targets {
			t.mailbox.Resume()
		}
	case supervisor.RestartDirective:
		for _, t := range targets {
			pid.restartChild(t, failures)
		}
	case supervisor.EscalateDirective:
		child.mailbox.Resume()
		pid.fail(err)
	}
}

func (pid *PID) restartChild(child *PID, failures int) {
	delay := time.Duration(0)
	if backoff := child.props.supervisor.Backoff(); backoff != nil {
		delay = backoff(failures)
	}
	if pid.system.scheduler == nil || delay <= 0 {
		child.mailbox.PostSystem(&restart{delay: delay})
		return
	}
	_, _ = pid.system.scheduler.ScheduleOnce(func(context.Context) error {
		child.mailbox.PostSystem(&restart{delay: 0})
		return nil
	}, delay)
}

func (pid *PID) doRestart(delay time.Duration) {
	if delay > 0 {
		time.Sleep(delay)
	}
	ctx := context.Background()
	pid.stopChildrenAndAwait()
	if pid.actor != nil {
		_ = pid.actor.PostStop(ctx)
	}
	pid.actor = pid.actorFactory()
	pid.resetBehavior()
	pid.generation.Add(1)
	pid.suspended.Store(false)
	pid.mailbox.Resume()
	if err := pid.actor.PreStart(ctx); err != nil {
		pid.fail(err)
	}
}

// reenterAfter runs task in its own goroutine and, on completion, posts a
// reenterMessage back to pid carrying the generation captured at schedule
// time and the envelope (sender, message) that was active when the caller
// scheduled it. doReenter restores that envelope before invoking
// continuation, and drops the continuation instead if pid has restarted or
// stopped in the meantime.
func (pid *PID) reenterAfter(ctx context.Context, sender *PID, envelope any, task func() (any, error), continuation func(ctx *ReceiveContext, result any, err error)) {
	gen := pid.generation.Load()
	go func() {
		result, err := task()
		if pid.stopped.Load() {
			return
		}
		pid.mailbox.PostSystem(&reenterMessage{
			generation:   gen,
			sender:       sender,
			envelope:     envelope,
			result:       result,
			err:          err,
			continuation: continuation,
		})
	}()
}

func (pid *PID) doReenter(m *reenterMessage) {
	if pid.stopped.Load() || pid.generation.Load() != m.generation {
		pid.logger.Warnf("actor %s dropping reentrant continuation: restarted or stopped since capture", pid.name)
		return
	}
	rc := getReceiveContext()
	rc.build(context.Background(), pid, m.sender, m.envelope, nil)
	defer rc.release()
	m.continuation(rc, m.result, m.err)
}
