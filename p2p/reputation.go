// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package p2p

import "sync"

const (
	initialReputation = 100
	banThreshold       = 0
	maxBannedPrefixes  = 4096
)

// ReputationTracker scores peers by IP; severity-weighted penalties push a
// peer toward a ban. It implements consensus.ReputationSink.
type ReputationTracker struct {
	mu     sync.Mutex
	scores map[string]int
	banned map[string]bool
}

func NewReputationTracker() *ReputationTracker {
	return &ReputationTracker{
		scores: make(map[string]int),
		banned: make(map[string]bool),
	}
}

// Penalize lowers peerID's score by severity and bans it if the score
// drops to or below banThreshold.
func (r *ReputationTracker) Penalize(peerID string, severity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scores[peerID]; !ok {
		r.scores[peerID] = initialReputation
	}
	r.scores[peerID] -= severity * 10
	if r.scores[peerID] <= banThreshold {
		r.banned[peerID] = true
		logger.Warnw("peer banned", "peer", peerID)
	}
}

func (r *ReputationTracker) IsBanned(peerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.banned[peerID]
}

func (r *ReputationTracker) Score(peerID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.scores[peerID]; ok {
		return s
	}
	return initialReputation
}
