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

package eventstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veyron-actor/orbit/log"
)

type memberJoined struct{ name string }
type memberLeft struct{ name string }

func TestSubscribeDeliversOnlyMatchingType(t *testing.T) {
	s := New(log.DiscardLogger)

	var joined, left []string
	defer Subscribe(s, func(ev memberJoined) { joined = append(joined, ev.name) })()
	defer Subscribe(s, func(ev memberLeft) { left = append(left, ev.name) })()

	Publish(s, memberJoined{name: "node-1"})
	Publish(s, memberLeft{name: "node-2"})

	assert.Equal(t, []string{"node-1"}, joined)
	assert.Equal(t, []string{"node-2"}, left)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := New(log.DiscardLogger)

	count := 0
	unsubscribe := Subscribe(s, func(ev memberJoined) { count++ })

	Publish(s, memberJoined{name: "node-1"})
	require.Equal(t, 1, count)

	unsubscribe()
	Publish(s, memberJoined{name: "node-2"})
	assert.Equal(t, 1, count)
}

func TestUnsubscribeIsIdempotent(t *testing.T) {
	s := New(log.DiscardLogger)
	unsubscribe := Subscribe(s, func(ev memberJoined) {})
	unsubscribe()
	assert.NotPanics(t, unsubscribe)
}

func TestMultipleSubscribersOfSameTypeAllFire(t *testing.T) {
	s := New(log.DiscardLogger)

	var a, b int
	defer Subscribe(s, func(ev memberJoined) { a++ })()
	defer Subscribe(s, func(ev memberJoined) { b++ })()

	Publish(s, memberJoined{name: "node-1"})

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, b)
}

func TestPublishWithNoSubscribersIsNoOp(t *testing.T) {
	s := New(log.DiscardLogger)
	assert.NotPanics(t, func() { Publish(s, memberJoined{name: "node-1"}) })
}

func TestPanickingSubscriberDoesNotBreakPublish(t *testing.T) {
	s := New(log.DiscardLogger)

	var recovered bool
	defer Subscribe(s, func(ev memberJoined) { panic("boom") })()
	defer Subscribe(s, func(ev memberJoined) { recovered = true })()

	assert.NotPanics(t, func() { Publish(s, memberJoined{name: "node-1"}) })
	assert.True(t, recovered)
}

func TestSubscriberCount(t *testing.T) {
	s := New(log.DiscardLogger)
	assert.Equal(t, 0, SubscriberCount[memberJoined](s))

	unsubscribe := Subscribe(s, func(ev memberJoined) {})
	assert.Equal(t, 1, SubscriberCount[memberJoined](s))

	unsubscribe()
	assert.Equal(t, 0, SubscriberCount[memberJoined](s))
}

func TestCloseUnregistersEverySubscriber(t *testing.T) {
	s := New(log.DiscardLogger)

	count := 0
	Subscribe(s, func(ev memberJoined) { count++ })
	s.Close()

	Publish(s, memberJoined{name: "node-1"})
	assert.Equal(t, 0, count)
}

func TestPublishAnyUsesDynamicType(t *testing.T) {
	s := New(log.DiscardLogger)

	var got memberJoined
	defer Subscribe(s, func(ev memberJoined) { got = ev })()

	var boxed any = memberJoined{name: "node-1"}
	s.PublishAny(boxed)

	assert.Equal(t, "node-1", got.name)
}
