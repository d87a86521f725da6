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

// Package static implements discovery.Provider from a fixed peer list known
// ahead of time. It is not elastic: peers cannot be added or removed at
// runtime. Good fit for docker-compose or fixed-size test clusters.
package static

import (
	"errors"
	"sync"

	"go.uber.org/atomic"

	"github.com/veyron-actor/orbit/discovery"
)

// Provider is the static discovery.Provider implementation.
type Provider struct {
	mu sync.RWMutex

	initialized atomic.Bool
	registered  atomic.Bool

	peers []string
}

var _ discovery.Provider = (*Provider)(nil)

// New creates a Provider seeded with the given peer addresses.
func New(peers []string) *Provider {
	cp := make([]string, len(peers))
	copy(cp, peers)
	return &Provider{peers: cp}
}

// ID returns "static".
func (p *Provider) ID() string {
	return "static"
}

// Initialize validates that at least one peer was configured.
func (p *Provider) Initialize() error {
	p.mu.RLock()
	n := len(p.peers)
	p.mu.RUnlock()

	if n == 0 {
		return errors.New("static: no peers configured")
	}
	p.initialized.Store(true)
	return nil
}

// Register marks this node as joined. Static discovery has no external
// registry to write to; this only flips local state so Deregister has
// something meaningful to undo.
func (p *Provider) Register() error {
	if !p.initialized.Load() {
		return errors.New("static: provider not initialized")
	}
	p.registered.Store(true)
	return nil
}

// Deregister marks this node as left.
func (p *Provider) Deregister() error {
	if !p.registered.Load() {
		return errors.New("static: provider not registered")
	}
	p.registered.Store(false)
	return nil
}

// SetConfig replaces the peer list from config's "peers" key, if present.
// An absent key leaves the peer list set at construction unchanged.
func (p *Provider) SetConfig(config discovery.Config) error {
	peers, err := config.GetStringSlice("peers")
	if err != nil {
		return nil
	}
	p.mu.Lock()
	p.peers = peers
	p.mu.Unlock()
	return nil
}

// DiscoverPeers returns the configured peer list.
func (p *Provider) DiscoverPeers() ([]string, error) {
	if !p.initialized.Load() {
		return nil, errors.New("static: provider not initialized")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]string, len(p.peers))
	copy(out, p.peers)
	return out, nil
}
