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

// Package cluster implements the virtual-actor identity layer on top of
// package actor: a (kind, name) pair resolves, on first use, to a live PID
// placed deterministically on one member of the cluster, without the caller
// ever naming a node.
package cluster

import (
	"fmt"

	"github.com/veyron-actor/orbit/errors"
)

// ClusterIdentity names a virtual actor: a kind (the registered type of
// behavior, e.g. "cart") and a name unique within that kind (e.g. a customer
// id). The pair, not either half alone, is what the partition ring hashes.
type ClusterIdentity struct {
	Kind string
	Name string
}

// NewClusterIdentity validates and constructs a ClusterIdentity.
func NewClusterIdentity(kind, name string) (ClusterIdentity, error) {
	id := ClusterIdentity{Kind: kind, Name: name}
	if err := id.Validate(); err != nil {
		return ClusterIdentity{}, err
	}
	return id, nil
}

// Validate reports whether id is well-formed: neither half may be empty.
func (id ClusterIdentity) Validate() error {
	if id.Kind == "" || id.Name == "" {
		return errors.NewErrInvalidGrainIdentity(fmt.Errorf("kind and name are both required, got %q/%q", id.Kind, id.Name))
	}
	return nil
}

// String renders id as "kind/name", also used as its ring hash key and its
// pid-cache key's string form.
func (id ClusterIdentity) String() string {
	return id.Kind + "/" + id.Name
}
