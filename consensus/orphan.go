// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package consensus

import (
	"sync"
	"time"

	"github.com/xai-blockchain/xai-sub003/chain/types"
	"github.com/xai-blockchain/xai-sub003/common"
	"github.com/xai-blockchain/xai-sub003/params"
)

type orphanEntry struct {
	block    *types.Block
	received time.Time
}

// orphanPool holds blocks whose parent is unknown, keyed by the parent
// hash they're waiting on so arrival of that parent re-evaluates them
// in one lookup instead of a full scan.
type orphanPool struct {
	mu           sync.Mutex
	byParentHash map[common.Hash][]*orphanEntry
	seen         map[common.Hash]bool
}

func newOrphanPool() *orphanPool {
	return &orphanPool{
		byParentHash: make(map[common.Hash][]*orphanEntry),
		seen:         make(map[common.Hash]bool),
	}
}

func (p *orphanPool) add(b *types.Block) {
	p.mu.Lock()
	defer p.mu.Unlock()
	hash, err := b.Hash()
	if err != nil || p.seen[hash] {
		return
	}
	p.seen[hash] = true
	p.byParentHash[b.Header.PreviousHash] = append(p.byParentHash[b.Header.PreviousHash], &orphanEntry{
		block:    b,
		received: time.Now(),
	})
}

// takeChildrenOf pops and returns every orphan waiting on parentHash.
func (p *orphanPool) takeChildrenOf(parentHash common.Hash) []*types.Block {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries := p.byParentHash[parentHash]
	delete(p.byParentHash, parentHash)
	out := make([]*types.Block, 0, len(entries))
	for _, e := range entries {
		if hash, err := e.block.Hash(); err == nil {
			delete(p.seen, hash)
		}
		out = append(out, e.block)
	}
	return out
}

// expire drops orphans older than params.OrphanTTL.
func (p *orphanPool) expire() {
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := time.Now().Add(-params.OrphanTTL)
	for parent, entries := range p.byParentHash {
		kept := entries[:0]
		for _, e := range entries {
			if e.received.After(cutoff) {
				kept = append(kept, e)
			} else if hash, err := e.block.Hash(); err == nil {
				delete(p.seen, hash)
			}
		}
		if len(kept) == 0 {
			delete(p.byParentHash, parent)
		} else {
			p.byParentHash[parent] = kept
		}
	}
}
