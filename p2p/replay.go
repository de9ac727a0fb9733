// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package p2p authenticates peer envelopes, rejects replays, enforces
// diversity caps, and gossips messages to the rest of the swarm.
package p2p

import (
	"hash"
	"sync"
	"time"

	"github.com/steakknife/bloomfilter"

	"github.com/xai-blockchain/xai-sub003/common"
)

// hashableKey adapts a 32-byte replay key to hash.Hash64 so it can be fed
// into a bloomfilter.Filter, which hashes arbitrary hash.Hash64 sources.
type hashableKey struct {
	key common.Hash
	pos int
}

func (h *hashableKey) Write(p []byte) (int, error) { return len(p), nil }
func (h *hashableKey) Sum(b []byte) []byte         { return append(b, h.key[:]...) }
func (h *hashableKey) Reset()                      {}
func (h *hashableKey) Size() int                   { return common.HashLength }
func (h *hashableKey) BlockSize() int              { return common.HashLength }
func (h *hashableKey) Sum64() uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(h.key[i])
	}
	return v
}

var _ hash.Hash64 = (*hashableKey)(nil)

// ReplayCache rejects (sender, nonce) pairs seen within the configured
// window. A bloom filter gives a fast, memory-bounded "definitely not
// seen" fast path; a time-ordered exact map backs it within the window to
// avoid false-positive rejections, evicted lazily on lookup.
type ReplayCache struct {
	mu     sync.Mutex
	filter *bloomfilter.Filter
	exact  map[common.Hash]time.Time
	window time.Duration
}

func NewReplayCache(maxEntries uint64, window time.Duration) (*ReplayCache, error) {
	filter, err := bloomfilter.NewOptimal(maxEntries, 0.0001)
	if err != nil {
		return nil, err
	}
	return &ReplayCache{
		filter: filter,
		exact:  make(map[common.Hash]time.Time),
		window: window,
	}, nil
}

// Seen reports whether key has already been observed within the window,
// recording it as seen if not.
func (c *ReplayCache) Seen(key common.Hash) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evictLocked()

	probe := &hashableKey{key: key}
	if c.filter.Contains(probe) {
		if _, ok := c.exact[key]; ok {
			return true
		}
		// Bloom false positive: not actually in the exact window map.
	}
	c.filter.Add(probe)
	c.exact[key] = time.Now()
	return false
}

func (c *ReplayCache) evictLocked() {
	cutoff := time.Now().Add(-c.window)
	for k, t := range c.exact {
		if t.Before(cutoff) {
			delete(c.exact, k)
		}
	}
}
