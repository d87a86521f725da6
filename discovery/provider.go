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

// Package discovery defines the pluggable membership-source contract the
// cluster identity layer relies on to learn about peer nodes. Concrete
// cluster providers (Consul, Kubernetes, etcd, ...) are out of scope here;
// static is the one reference implementation carried by this repository.
package discovery

// Provider discovers the other actor system nodes that make up a cluster.
type Provider interface {
	// ID returns the provider's name, used in logs and diagnostics.
	ID() string
	// Initialize prepares any internal state or clients the provider needs.
	Initialize() error
	// Register announces this node to the membership source.
	Register() error
	// Deregister removes this node from the membership source.
	Deregister() error
	// SetConfig applies provider-specific configuration.
	SetConfig(config Config) error
	// DiscoverPeers returns the addresses of currently known peer nodes.
	DiscoverPeers() ([]string, error)
}
