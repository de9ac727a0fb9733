// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package p2p

import (
	"fmt"
	"net"
	"sync"

	"gopkg.in/fatih/set.v0"

	"github.com/xai-blockchain/xai-sub003/xlog"
)

var logger = xlog.NewModuleLogger(xlog.ModuleP2P)

// Peer identifies a connected node by its pubkey-derived ID and IP.
type Peer struct {
	ID   string
	IP   net.IP
	ASN  string
}

func (p *Peer) prefix24() string {
	if ip4 := p.IP.To4(); ip4 != nil {
		return fmt.Sprintf("%d.%d.%d.0/24", ip4[0], ip4[1], ip4[2])
	}
	return p.IP.String()
}

// DiversityLimiter bounds how many peer slots a single IP, ASN, or /24
// prefix can occupy, preventing a single operator from dominating gossip.
type DiversityLimiter struct {
	mu        sync.Mutex
	maxPerKey int
	byIP      *set.Set
	byASN     map[string]int
	byPrefix  map[string]int
}

func NewDiversityLimiter(maxPerKey int) *DiversityLimiter {
	return &DiversityLimiter{
		maxPerKey: maxPerKey,
		byIP:      set.New(),
		byASN:     make(map[string]int),
		byPrefix:  make(map[string]int),
	}
}

// Admit reports whether p may take a connection slot, and reserves it if so.
func (d *DiversityLimiter) Admit(p *Peer) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	ipKey := p.IP.String()
	if d.byIP.Has(ipKey) {
		return false
	}
	if d.byASN[p.ASN] >= d.maxPerKey {
		return false
	}
	if d.byPrefix[p.prefix24()] >= d.maxPerKey {
		return false
	}

	d.byIP.Add(ipKey)
	d.byASN[p.ASN]++
	d.byPrefix[p.prefix24()]++
	return true
}

func (d *DiversityLimiter) Release(p *Peer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byIP.Remove(p.IP.String())
	if d.byASN[p.ASN] > 0 {
		d.byASN[p.ASN]--
	}
	if d.byPrefix[p.prefix24()] > 0 {
		d.byPrefix[p.prefix24()]--
	}
}

// DistinctPeerIDs returns how many distinct peer IDs are present in ids,
// used by checkpoint quorum's MIN_PEER_DIVERSITY check.
func DistinctPeerIDs(ids []string) int {
	s := set.New()
	for _, id := range ids {
		s.Add(id)
	}
	return s.Size()
}
