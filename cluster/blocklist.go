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
	"time"

	"github.com/veyron-actor/orbit/internal/syncmap"
)

// defaultBlockedMemberDuration is the TTL a blocked member serves unless
// overridden by the BlockedMemberDuration runtime option.
const defaultBlockedMemberDuration = time.Hour

// blockList tracks unresponsive members so the send path can short-circuit
// to a local failure instead of repeatedly timing out against them. Entries
// expire by timestamp on read - there is no background sweep, matching the
// rest of the runtime's preference for lazy over timer-driven cleanup.
type blockList struct {
	ttl     time.Duration
	expires *syncmap.SyncMap[string, time.Time]
}

func newBlockList(ttl time.Duration) *blockList {
	if ttl <= 0 {
		ttl = defaultBlockedMemberDuration
	}
	return &blockList{
		ttl:     ttl,
		expires: syncmap.New[string, time.Time](),
	}
}

// block marks memberID as unresponsive for the configured TTL.
func (b *blockList) block(memberID string) {
	b.expires.Set(memberID, time.Now().Add(b.ttl))
}

// unblock removes memberID from the block list immediately, used once a
// topology change drops a blocked member from the cluster entirely.
func (b *blockList) unblock(memberID string) {
	b.expires.Delete(memberID)
}

// isBlocked reports whether memberID is currently blocked, lazily evicting
// the entry if its TTL has elapsed.
func (b *blockList) isBlocked(memberID string) bool {
	expiresAt, ok := b.expires.Get(memberID)
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		b.expires.Delete(memberID)
		return false
	}
	return true
}
