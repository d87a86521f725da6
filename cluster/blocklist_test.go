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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBlockListBlockedMemberReportsBlocked(t *testing.T) {
	bl := newBlockList(time.Hour)
	bl.block("member-1")
	assert.True(t, bl.isBlocked("member-1"))
}

func TestBlockListUnknownMemberIsNotBlocked(t *testing.T) {
	bl := newBlockList(time.Hour)
	assert.False(t, bl.isBlocked("member-1"))
}

func TestBlockListEntryExpiresOnRead(t *testing.T) {
	bl := newBlockList(time.Millisecond)
	bl.block("member-1")

	time.Sleep(5 * time.Millisecond)
	assert.False(t, bl.isBlocked("member-1"))
}

func TestBlockListUnblockRemovesEntryImmediately(t *testing.T) {
	bl := newBlockList(time.Hour)
	bl.block("member-1")
	bl.unblock("member-1")
	assert.False(t, bl.isBlocked("member-1"))
}

func TestBlockListDefaultsToOneHour(t *testing.T) {
	bl := newBlockList(0)
	assert.Equal(t, time.Hour, bl.ttl)
}
