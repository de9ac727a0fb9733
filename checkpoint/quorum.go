// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package checkpoint

import "github.com/xai-blockchain/xai-sub003/p2p"

// QuorumConfig is the acceptance threshold for peer-advertised checkpoints:
// a block hash must be reported by at least Quorum peer reports drawn from
// at least MinDiversity distinct peer IDs before it is trusted.
type QuorumConfig struct {
	Quorum       int
	MinDiversity int
}

type candidateGroup struct {
	meta    Metadata
	peerIDs []string
}

// SelectByQuorum groups advertisements by reported block hash, discards
// groups that fail the quorum/diversity thresholds, and returns the
// highest-height survivor. Mirrors the P2P checkpoint-request quorum logic:
// count alone isn't enough, a single peer flooding reports can't manufacture
// quorum without also manufacturing distinct peer IDs.
func SelectByQuorum(ads []CandidateAdvertisement, cfg QuorumConfig) *Metadata {
	groups := make(map[string]*candidateGroup)
	for _, ad := range ads {
		if !ad.Meta.IsComplete() {
			continue
		}
		key := ad.Meta.BlockHash.Hex()
		g, ok := groups[key]
		if !ok {
			g = &candidateGroup{meta: ad.Meta}
			groups[key] = g
		}
		g.peerIDs = append(g.peerIDs, ad.PeerID)
	}

	var best *candidateGroup
	for _, g := range groups {
		if len(g.peerIDs) < cfg.Quorum {
			continue
		}
		if p2p.DistinctPeerIDs(g.peerIDs) < cfg.MinDiversity {
			continue
		}
		if best == nil || g.meta.Height > best.meta.Height {
			best = g
		}
	}
	if best == nil {
		return nil
	}
	m := best.meta
	return &m
}
