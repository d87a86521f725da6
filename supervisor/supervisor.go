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

// Package supervisor defines how a parent actor reacts when a child fails:
// which of its children are affected (Strategy) and what happens to them
// (Directive), optionally delayed by a BackoffFunc on restart.
package supervisor

import (
	"reflect"
	"runtime"
	"sync"
	"time"

	"github.com/veyron-actor/orbit/errors"
)

// Strategy controls which children are affected when one of them fails.
type Strategy int

const (
	// OneForOneStrategy applies the chosen directive only to the failing child.
	OneForOneStrategy Strategy = iota

	// AllForOneStrategy applies the chosen directive to every sibling under the
	// same supervisor when any one of them fails. Use this when children share
	// state or otherwise depend on each other's presence.
	AllForOneStrategy
)

// String returns the strategy's name.
func (s Strategy) String() string {
	switch s {
	case OneForOneStrategy:
		return "OneForOne"
	case AllForOneStrategy:
		return "AllForOne"
	default:
		return ""
	}
}

// Directive is the action a supervisor takes in response to a child failure.
type Directive int

const (
	// StopDirective permanently stops the failing actor.
	StopDirective Directive = iota
	// ResumeDirective leaves the actor running and discards the failed message.
	ResumeDirective
	// RestartDirective stops and re-creates the actor, resetting its state.
	RestartDirective
	// EscalateDirective re-raises the failure to the supervisor's own parent.
	EscalateDirective
)

// String returns the directive's name.
func (d Directive) String() string {
	switch d {
	case StopDirective:
		return "Stop"
	case ResumeDirective:
		return "Resume"
	case RestartDirective:
		return "Restart"
	case EscalateDirective:
		return "Escalate"
	default:
		return ""
	}
}

// DirectiveRule is a snapshot of one error-type-to-directive mapping,
// returned by Rules for diagnostics and tests.
type DirectiveRule struct {
	ErrorType string
	Directive Directive
}

// SupervisorOption configures a Supervisor at construction time.
type SupervisorOption func(*Supervisor)

// WithStrategy sets the affected-children scope.
func WithStrategy(strategy Strategy) SupervisorOption {
	return func(s *Supervisor) {
		s.Lock()
		s.strategy = strategy
		s.Unlock()
	}
}

// WithDirective maps err's concrete type to directive.
func WithDirective(err error, directive Directive) SupervisorOption {
	return func(s *Supervisor) {
		s.Lock()
		s.directives[errorType(err)] = directive
		s.Unlock()
	}
}

// WithAnyErrorDirective installs directive as a catch-all, overriding every
// type-specific rule.
func WithAnyErrorDirective(directive Directive) SupervisorOption {
	return func(s *Supervisor) {
		s.Lock()
		s.directives[errorType(new(errors.AnyError))] = directive
		s.Unlock()
	}
}

// WithRetry bounds RestartDirective to maxRetries attempts within timeout.
// Exceeding the budget escalates instead of restarting again.
func WithRetry(maxRetries uint32, timeout time.Duration) SupervisorOption {
	return func(s *Supervisor) {
		s.Lock()
		s.maxRetries = maxRetries
		s.timeout = timeout
		s.Unlock()
	}
}

// WithBackoff delays each RestartDirective by fn(failureCount) instead of
// restarting immediately. See ExponentialBackoff.
func WithBackoff(fn BackoffFunc) SupervisorOption {
	return func(s *Supervisor) {
		s.Lock()
		s.backoff = fn
		s.Unlock()
	}
}

// AlwaysRestart is shorthand for WithAnyErrorDirective(RestartDirective).
func AlwaysRestart() SupervisorOption {
	return WithAnyErrorDirective(RestartDirective)
}

// AlwaysStop is shorthand for WithAnyErrorDirective(StopDirective).
func AlwaysStop() SupervisorOption {
	return WithAnyErrorDirective(StopDirective)
}

// AlwaysEscalate is shorthand for WithAnyErrorDirective(EscalateDirective).
func AlwaysEscalate() SupervisorOption {
	return WithAnyErrorDirective(EscalateDirective)
}

// Supervisor decides how a parent reacts to a child's failure: which
// children are affected (Strategy) and what happens to them (Directive),
// optionally paced by a restart backoff. Methods are safe for concurrent use.
type Supervisor struct {
	sync.Mutex

	strategy Strategy

	maxRetries uint32
	timeout    time.Duration
	backoff    BackoffFunc

	directives map[string]Directive
}

// NewSupervisor builds a Supervisor with OneForOneStrategy and the default
// rules (PanicError -> Stop, runtime.PanicNilError -> Restart), then applies
// opts. If an any-error directive is configured, it becomes the sole rule.
func NewSupervisor(opts ...SupervisorOption) *Supervisor {
	s := &Supervisor{
		strategy:   OneForOneStrategy,
		directives: make(map[string]Directive),
		timeout:    -1,
	}

	s.directives[errorType(&errors.PanicError{})] = StopDirective
	s.directives[errorType(&runtime.PanicNilError{})] = RestartDirective

	for _, opt := range opts {
		opt(s)
	}

	if directive, ok := s.directives[errorType(new(errors.AnyError))]; ok {
		s.directives = map[string]Directive{errorType(new(errors.AnyError)): directive}
	}

	return s
}

// Strategy returns the configured scope.
func (s *Supervisor) Strategy() Strategy {
	s.Lock()
	defer s.Unlock()
	return s.strategy
}

// Directive returns the rule configured for err's concrete type. It does not
// consult the any-error catch-all; callers check AnyErrorDirective for that.
func (s *Supervisor) Directive(err error) (Directive, bool) {
	s.Lock()
	defer s.Unlock()
	d, ok := s.directives[errorType(err)]
	return d, ok
}

// AnyErrorDirective returns the catch-all directive, if one is configured.
func (s *Supervisor) AnyErrorDirective() (Directive, bool) {
	s.Lock()
	defer s.Unlock()
	d, ok := s.directives[errorType(new(errors.AnyError))]
	return d, ok
}

// MaxRetries returns the restart budget used with RestartDirective.
func (s *Supervisor) MaxRetries() uint32 {
	s.Lock()
	defer s.Unlock()
	return s.maxRetries
}

// Timeout returns the sliding window over which MaxRetries is counted.
func (s *Supervisor) Timeout() time.Duration {
	s.Lock()
	defer s.Unlock()
	return s.timeout
}

// Backoff returns the configured restart backoff, or nil if restarts are
// immediate.
func (s *Supervisor) Backoff() BackoffFunc {
	s.Lock()
	defer s.Unlock()
	return s.backoff
}

// Rules returns a snapshot of the configured directive rules. Order is not
// guaranteed.
func (s *Supervisor) Rules() []DirectiveRule {
	s.Lock()
	defer s.Unlock()
	if len(s.directives) == 0 {
		return nil
	}
	rules := make([]DirectiveRule, 0, len(s.directives))
	for et, d := range s.directives {
		rules = append(rules, DirectiveRule{ErrorType: et, Directive: d})
	}
	return rules
}

// SetDirectiveByType maps an error type name, as returned by reflect.Type.String(),
// to directive. It does not clear existing rules; prefer WithDirective and
// WithAnyErrorDirective when an error value is available.
func (s *Supervisor) SetDirectiveByType(errType string, directive Directive) {
	if errType == "" {
		return
	}
	s.Lock()
	if s.directives == nil {
		s.directives = make(map[string]Directive)
	}
	s.directives[errType] = directive
	s.Unlock()
}

func errorType(err error) string {
	if err == nil {
		return "nil"
	}
	rtype := reflect.TypeOf(err)
	if rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}
	return rtype.String()
}
