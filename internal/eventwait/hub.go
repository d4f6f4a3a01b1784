// SPDX-License-Identifier: GPL-2.0-or-later

package eventwait

import (
	"context"
	"sync"
)

// Hub tracks the catalog's monotonically increasing server revision (the
// `musr` field of spec §4.9's update response) and wakes waiters blocked
// in Wait when it advances. internal/api's `/update` handler calls Wait;
// no package in this module calls Bump outside its tests.
type Hub struct {
	mu       sync.Mutex
	revision uint32
	waiters  map[chan struct{}]struct{}
}

// NewHub returns a Hub starting at revision 1, matching the catalog's
// initial db_timestamp/server-revision convention.
func NewHub() *Hub {
	return &Hub{revision: 1, waiters: make(map[chan struct{}]struct{})}
}

// Revision reports the current server revision without blocking.
func (h *Hub) Revision() uint32 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.revision
}

// Bump advances the revision and wakes every waiter currently blocked in
// Wait, including any websocket push loop registered via Subscribe.
func (h *Hub) Bump() uint32 {
	h.mu.Lock()
	h.revision++
	rev := h.revision
	for ch := range h.waiters {
		close(ch)
	}
	h.waiters = make(map[chan struct{}]struct{})
	h.mu.Unlock()
	return rev
}

// Wait blocks until the revision exceeds since, ctx is done, or it
// already does (in which case Wait returns immediately). It returns the
// observed revision; the caller cannot distinguish a real bump from a
// context cancellation except by comparing the return value to since.
func (h *Hub) Wait(ctx context.Context, since uint32) uint32 {
	h.mu.Lock()
	if h.revision > since {
		rev := h.revision
		h.mu.Unlock()
		return rev
	}
	ch := make(chan struct{})
	h.waiters[ch] = struct{}{}
	h.mu.Unlock()

	select {
	case <-ch:
	case <-ctx.Done():
		h.mu.Lock()
		delete(h.waiters, ch)
		h.mu.Unlock()
	}

	return h.Revision()
}

// Subscribe registers a single-shot wake channel: Bump closes it exactly
// once, on the next revision change. A long-lived consumer (the websocket
// push path) calls Subscribe again immediately after each wake to keep
// listening. The returned cancel func must be called if the caller stops
// listening before a wake occurs, to avoid leaking the waiter entry.
func (h *Hub) Subscribe() (ch <-chan struct{}, cancel func()) {
	c := make(chan struct{})
	h.mu.Lock()
	h.waiters[c] = struct{}{}
	h.mu.Unlock()
	return c, func() {
		h.mu.Lock()
		delete(h.waiters, c)
		h.mu.Unlock()
	}
}
