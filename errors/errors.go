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

// Package errors centralizes the sentinel errors and wrapper error types used
// across the runtime and cluster identity layer.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDead indicates that the actor is no longer alive or has been terminated.
	ErrDead = errors.New("actor is not alive")

	// ErrUnhandled is returned when an actor receives a message it cannot handle.
	ErrUnhandled = errors.New("unhandled message")

	// ErrNameExists is returned when spawning a child under a name already in use.
	ErrNameExists = errors.New("actor name already exists")

	// ErrActorNotFound indicates that the specified actor could not be found.
	ErrActorNotFound = errors.New("actor not found")

	// ErrRequestTimeout indicates that an Ask or cluster request timed out.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrDeadLetter is returned to an ask future when the target diverts to dead-letter.
	ErrDeadLetter = errors.New("message routed to dead letter")

	// ErrMailboxFull is returned by a bounded mailbox when its user queue is at capacity.
	ErrMailboxFull = errors.New("mailbox is full")

	// ErrSystemShuttingDown is returned by ActorSystem.Spawn and SpawnAnonymous once Shutdown has begun.
	ErrSystemShuttingDown = errors.New("actor system is shutting down")

	// ErrStashBufferNotSet is returned when Stash is used without a configured buffer.
	ErrStashBufferNotSet = errors.New("actor is not configured with a stash buffer")

	// ErrClusterDisabled indicates cluster features were used on a system without a cluster engine.
	ErrClusterDisabled = errors.New("cluster is not enabled")

	// ErrIdentityUnavailable is returned when a cluster request exhausts its retry budget.
	ErrIdentityUnavailable = errors.New("cluster identity unavailable")

	// ErrInvalidGrainIdentity is returned when a ClusterIdentity is malformed.
	ErrInvalidGrainIdentity = errors.New("invalid cluster identity")

	// ErrGrainNotRegistered is returned when a kind has no registered Activator.
	ErrGrainNotRegistered = errors.New("kind is not registered")

	// ErrGrainActivationFailure is returned when an Activator fails to produce an actor.
	ErrGrainActivationFailure = errors.New("grain activation failed")

	// ErrMemberBlocked is returned when sending to a blocked member.
	ErrMemberBlocked = errors.New("member is blocked")

	// ErrMemberNotFound indicates that the specified member is not present in the current topology.
	ErrMemberNotFound = errors.New("member not found")

	// ErrSchedulerNotStarted is returned when using the job scheduler before Start.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrInvalidTimeout is returned when a timeout value is less than or equal to zero.
	ErrInvalidTimeout = errors.New("invalid timeout")
)

// NewErrActorNotFound formats ErrActorNotFound with the given actor path.
func NewErrActorNotFound(path string) error {
	return fmt.Errorf("(actor=%s) %w", path, ErrActorNotFound)
}

// NewErrNameExists formats ErrNameExists with the given child name.
func NewErrNameExists(name string) error {
	return fmt.Errorf("name=(%s) %w", name, ErrNameExists)
}

// NewErrGrainActivationFailure wraps a base error with ErrGrainActivationFailure.
func NewErrGrainActivationFailure(err error) error {
	return errors.Join(ErrGrainActivationFailure, err)
}

// NewErrInvalidGrainIdentity wraps a base error with ErrInvalidGrainIdentity.
func NewErrInvalidGrainIdentity(err error) error {
	return errors.Join(ErrInvalidGrainIdentity, err)
}

// GrainError is a user-raised error from grain code, propagated verbatim to
// the caller with its code preserved.
type GrainError struct {
	Code    string
	Message string
}

// NewGrainError creates a GrainError with the given code and message.
func NewGrainError(code, message string) *GrainError {
	return &GrainError{Code: code, Message: message}
}

// Error implements the standard error interface.
func (e *GrainError) Error() string {
	return fmt.Sprintf("grain error [%s]: %s", e.Code, e.Message)
}

// PanicError wraps a recovered panic value as an error.
type PanicError struct {
	err error
}

var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError.
func NewPanicError(err error) *PanicError {
	return &PanicError{err: err}
}

// Error implements the standard error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

// Unwrap exposes the wrapped panic value for errors.Is/As.
func (e *PanicError) Unwrap() error {
	return e.err
}

// SpawnError wraps a failure that occurred while creating or re-creating an actor.
type SpawnError struct {
	err error
}

var _ error = (*SpawnError)(nil)

// NewSpawnError creates an instance of SpawnError.
func NewSpawnError(err error) *SpawnError {
	return &SpawnError{err: fmt.Errorf("spawn error: %w", err)}
}

// Error implements the standard error interface.
func (e *SpawnError) Error() string {
	return e.err.Error()
}

// InternalError marks an error as originating from the runtime itself rather
// than from user actor code.
type InternalError struct {
	err error
}

var _ error = (*InternalError)(nil)

// NewInternalError creates an instance of InternalError.
func NewInternalError(err error) *InternalError {
	return &InternalError{err: fmt.Errorf("internal error: %w", err)}
}

// Error implements the standard error interface.
func (e *InternalError) Error() string {
	return e.err.Error()
}

// AnyError is a sentinel type used to register a catch-all supervision
// directive that matches every error type.
type AnyError struct{}

var _ error = (*AnyError)(nil)

// Error implements the standard error interface.
func (*AnyError) Error() string {
	return "*"
}
