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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyron-actor/orbit/hash"
)

func TestPartitionRingOwnerIsDeterministic(t *testing.T) {
	ring := newPartitionRing(hash.DefaultHasher(), []Member{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	first, ok := ring.owner("cart/alice")
	require.True(t, ok)

	for i := 0; i < 20; i++ {
		again, ok := ring.owner("cart/alice")
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestPartitionRingSpreadsIdentitiesAcrossMembers(t *testing.T) {
	ring := newPartitionRing(hash.DefaultHasher(), []Member{{ID: "a"}, {ID: "b"}, {ID: "c"}})

	seen := make(map[string]int)
	for i := 0; i < 300; i++ {
		owner, ok := ring.owner(fmt.Sprintf("cart/customer-%d", i))
		require.True(t, ok)
		seen[owner]++
	}

	assert.Len(t, seen, 3)
	for _, count := range seen {
		assert.Greater(t, count, 0)
	}
}

func TestPartitionRingEmptyHasNoOwner(t *testing.T) {
	ring := newPartitionRing(hash.DefaultHasher(), nil)
	_, ok := ring.owner("cart/alice")
	assert.False(t, ok)
}

func TestPartitionRingMostIdentitiesSurviveAMembershipChange(t *testing.T) {
	before := newPartitionRing(hash.DefaultHasher(), []Member{{ID: "a"}, {ID: "b"}, {ID: "c"}})
	after := newPartitionRing(hash.DefaultHasher(), []Member{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}})

	moved := 0
	const total = 500
	for i := 0; i < total; i++ {
		key := fmt.Sprintf("cart/customer-%d", i)
		beforeOwner, _ := before.owner(key)
		afterOwner, _ := after.owner(key)
		if beforeOwner != afterOwner {
			moved++
		}
	}

	// Consistent hashing should remap roughly 1/n of keys when a member
	// joins an n+1-member ring, not the near-total reshuffle a plain modulo
	// scheme would cause.
	assert.Less(t, moved, total/2)
}
