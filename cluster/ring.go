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
	"sort"

	"github.com/veyron-actor/orbit/hash"
)

// virtualNodesPerMember spreads each member across many ring positions so a
// membership change reassigns a roughly even, roughly minimal share of
// identities, rather than the large contiguous arcs a single point per
// member would produce.
const virtualNodesPerMember = 64

// partitionRing is an immutable consistent-hash ring: a sorted list of
// (hash code, member id) points. Owner is a pure function of the ring and an
// identity's hash code - rebuilding the ring never mutates one in place, so
// an in-flight Owner lookup always sees one coherent topology.
type partitionRing struct {
	hasher hash.Hasher
	points []ringPoint
}

type ringPoint struct {
	code     uint64
	memberID string
}

func newPartitionRing(hasher hash.Hasher, members []Member) *partitionRing {
	points := make([]ringPoint, 0, len(members)*virtualNodesPerMember)
	for _, m := range members {
		for v := 0; v < virtualNodesPerMember; v++ {
			key := fmt.Sprintf("%s#%d", m.ID, v)
			points = append(points, ringPoint{code: hasher.HashCode([]byte(key)), memberID: m.ID})
		}
	}
	sort.Slice(points, func(i, j int) bool { return points[i].code < points[j].code })
	return &partitionRing{hasher: hasher, points: points}
}

// owner returns the member id owning key, and whether the ring has any
// members at all.
func (r *partitionRing) owner(key string) (string, bool) {
	if len(r.points) == 0 {
		return "", false
	}
	code := r.hasher.HashCode([]byte(key))
	i := sort.Search(len(r.points), func(i int) bool { return r.points[i].code >= code })
	if i == len(r.points) {
		i = 0
	}
	return r.points[i].memberID, true
}

// members returns the distinct member ids present on the ring.
func (r *partitionRing) members() []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range r.points {
		if _, ok := seen[p.memberID]; !ok {
			seen[p.memberID] = struct{}{}
			out = append(out, p.memberID)
		}
	}
	return out
}
