// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package state

import (
	"sync"

	"github.com/xai-blockchain/xai-sub003/common"
)

// NonceTracker answers "what nonce comes next for this sender", blending
// the ledger's confirmed view with the mempool's pending view. It is
// grounded on the original aixn/nonce_tracker.py facade, generalized to
// hold its own pending index rather than delegating to mempool directly
// so ledger and mempool don't need a circular import.
type NonceTracker struct {
	mu      sync.RWMutex
	ledger  *Ledger
	pending map[common.Address]uint64 // highest pending nonce seen, sender -> max
}

func NewNonceTracker(ledger *Ledger) *NonceTracker {
	return &NonceTracker{ledger: ledger, pending: make(map[common.Address]uint64)}
}

// NextNonce returns max(confirmed+1, max_pending+1).
func (t *NonceTracker) NextNonce(sender common.Address) uint64 {
	confirmed, hasConfirmed := t.ledger.ConfirmedNonce(sender)
	var next uint64
	if hasConfirmed {
		next = confirmed + 1
	}
	t.mu.RLock()
	maxPending, hasPending := t.pending[sender]
	t.mu.RUnlock()
	if hasPending && maxPending+1 > next {
		next = maxPending + 1
	}
	return next
}

// ObservePending records that a tx with this (sender, nonce) has entered
// the mempool, so subsequent NextNonce calls account for it.
func (t *NonceTracker) ObservePending(sender common.Address, nonce uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if cur, ok := t.pending[sender]; !ok || nonce > cur {
		t.pending[sender] = nonce
	}
}

// ForgetPending clears the pending-nonce record for a sender, called when
// its mempool entries are all mined or evicted. The caller recomputes the
// new max from whatever remains in the mempool, if anything.
func (t *NonceTracker) ForgetPending(sender common.Address, newMax uint64, hasAny bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !hasAny {
		delete(t.pending, sender)
		return
	}
	t.pending[sender] = newMax
}
