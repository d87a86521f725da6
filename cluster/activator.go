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

package cluster

import (
	"github.com/veyron-actor/orbit/actor"
	"github.com/veyron-actor/orbit/errors"
	"github.com/veyron-actor/orbit/internal/syncmap"
)

// Activator creates a fresh actor instance for name the first time identity
// (kind, name) is used. An activation calls it up to three times while it
// keeps returning an error - the PartitionIdentityActor that owns the
// identity is what keeps it from being called concurrently for the same name.
type Activator func(name string) (actor.Actor, error)

// PlacementPolicy chooses which member activates an identity once its owner
// has been determined by the partition ring.
type PlacementPolicy int

const (
	// OwnerLocalPlacement activates on the member the ring names as owner.
	// This is the only policy this runtime implements end-to-end, since
	// placing elsewhere requires the out-of-scope remote transport to hand
	// the activation off.
	OwnerLocalPlacement PlacementPolicy = iota
)

// kindRegistration pairs a kind's Activator with its placement policy.
type kindRegistration struct {
	activator Activator
	placement PlacementPolicy
}

// activatorRegistry maps a cluster kind to how its identities get activated.
type activatorRegistry struct {
	byKind *syncmap.SyncMap[string, kindRegistration]
}

func newActivatorRegistry() *activatorRegistry {
	return &activatorRegistry{byKind: syncmap.New[string, kindRegistration]()}
}

// register installs activator for kind. Registering the same kind twice
// replaces the previous registration.
func (r *activatorRegistry) register(kind string, activator Activator, placement PlacementPolicy) {
	r.byKind.Set(kind, kindRegistration{activator: activator, placement: placement})
}

// lookup returns the registration for kind, or ErrGrainNotRegistered.
func (r *activatorRegistry) lookup(kind string) (kindRegistration, error) {
	reg, ok := r.byKind.Get(kind)
	if !ok {
		return kindRegistration{}, errors.ErrGrainNotRegistered
	}
	return reg, nil
}
