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

// Package address provides the canonical representation of a PID's location:
// which actor system, which host/port, and which hierarchical name.
//
// The canonical textual form is:
//
//	orbit://<system>@<host>:<port>/<name>
//
// or, when a parent is present:
//
//	orbit://<system>@<host>:<port>/<parent>/<name>
package address

import (
	"errors"
	"net"
	"regexp"
	"strconv"
	"strings"
)

const scheme = "orbit"

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*$`)

var (
	// ErrInvalidParent is returned when the parent address itself fails validation.
	ErrInvalidParent = errors.New("parent address is invalid")
	// ErrInvalidActorSystem is returned when a child's system differs from its parent's.
	ErrInvalidActorSystem = errors.New("child and parent belong to different actor systems")
	// ErrInvalidHostAddress is returned when a child's host:port differs from its parent's.
	ErrInvalidHostAddress = errors.New("child and parent are not on the same node")
	// ErrInvalidName is returned when a name is empty, too long, or malformed.
	ErrInvalidName = errors.New("actor name is invalid")
)

var zeroAddress = &Address{}

// Address identifies an actor's logical and physical location.
type Address struct {
	system string
	host   string
	port   int
	name   string
	parent *Address
}

// New creates an Address with no parent.
func New(name, system, host string, port int) *Address {
	return &Address{name: name, system: system, host: host, port: port}
}

// NewWithParent creates an Address and, if parent is non-nil, attaches it.
func NewWithParent(name, system, host string, port int, parent *Address) *Address {
	addr := New(name, system, host, port)
	if parent != nil {
		addr.parent = parent
	}
	return addr
}

// NoSender returns the sentinel address used when a message has no originator.
func NoSender() *Address {
	return zeroAddress
}

// Name returns the actor name component.
func (a *Address) Name() string {
	if a == nil {
		return ""
	}
	return a.name
}

// System returns the actor system name component.
func (a *Address) System() string {
	if a == nil {
		return ""
	}
	return a.system
}

// Host returns the host component.
func (a *Address) Host() string {
	if a == nil {
		return ""
	}
	return a.host
}

// Port returns the port component.
func (a *Address) Port() int {
	if a == nil {
		return 0
	}
	return a.port
}

// Parent returns the parent address, or nil if there is none.
func (a *Address) Parent() *Address {
	if a == nil {
		return nil
	}
	return a.parent
}

// HostPort returns "host:port", suitable for dialing.
func (a *Address) HostPort() string {
	return net.JoinHostPort(a.Host(), strconv.Itoa(a.Port()))
}

// String renders the canonical textual form of the address.
func (a *Address) String() string {
	if a == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(a.System())
	b.WriteByte('@')
	b.WriteString(a.Host())
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(a.Port()))
	b.WriteByte('/')
	if parent := a.Parent(); parent != nil && !parent.Equals(NoSender()) {
		b.WriteString(parent.Name())
		b.WriteByte('/')
	}
	b.WriteString(a.Name())
	return b.String()
}

// Equals reports whether a and other denote the same actor location.
func (a *Address) Equals(other *Address) bool {
	if a == nil || other == nil {
		return false
	}
	return a.Name() == other.Name() &&
		a.System() == other.System() &&
		a.Host() == other.Host() &&
		a.Port() == other.Port()
}

// Validate checks that the address is well-formed. The zero address
// (NoSender) is always valid.
func (a *Address) Validate() error {
	if a == nil || a.Equals(NoSender()) {
		return nil
	}

	if _, err := net.ResolveTCPAddr("tcp", net.JoinHostPort(a.Host(), strconv.Itoa(a.Port()))); err != nil {
		return err
	}
	if a.System() == "" {
		return errors.New("actor system name is required")
	}
	if a.Name() == "" || len(a.Name()) > 255 || !namePattern.MatchString(a.Name()) {
		return ErrInvalidName
	}
	if !namePattern.MatchString(a.System()) {
		return errors.New("actor system name is malformed")
	}

	if parent := a.Parent(); parent != nil && !parent.Equals(NoSender()) {
		if err := parent.Validate(); err != nil {
			return errors.Join(ErrInvalidParent, err)
		}
		if !strings.EqualFold(parent.System(), a.System()) {
			return ErrInvalidActorSystem
		}
		if parent.Host() != a.Host() || parent.Port() != a.Port() {
			return ErrInvalidHostAddress
		}
		if parent.Name() == a.Name() {
			return ErrInvalidName
		}
	}

	return nil
}

// Parse parses a canonical "orbit://system@host:port/[parent/]name" string.
func Parse(addr string) (*Address, error) {
	if addr == "" {
		return nil, errors.New("address is required")
	}

	schemePart, rest, ok := strings.Cut(addr, "://")
	if !ok || strings.Contains(rest, "://") {
		return nil, errors.New("address format is invalid")
	}
	if schemePart != scheme {
		return nil, errors.New("address protocol is not supported")
	}

	system, rest, ok := strings.Cut(rest, "@")
	if !ok || strings.Contains(rest, "@") {
		return nil, errors.New("address format is invalid")
	}

	hostPort, path, ok := strings.Cut(rest, "/")
	if !ok || strings.HasPrefix(path, "/") {
		return nil, errors.New("address format is invalid")
	}

	host, portStr, ok := strings.Cut(hostPort, ":")
	if !ok || strings.Contains(portStr, ":") {
		return nil, errors.New("address format is invalid")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	name := path
	parentName := ""
	if parentPart, childPart, ok := strings.Cut(path, "/"); ok {
		if strings.Contains(childPart, "/") {
			return nil, errors.New("address format is invalid")
		}
		parentName, name = parentPart, childPart
	}

	if parentName == "" {
		return New(name, system, host, port), nil
	}
	return NewWithParent(name, system, host, port, New(parentName, system, host, port)), nil
}
