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
	"sync"

	"github.com/xai-blockchain/xai-sub003/params"
	"github.com/xai-blockchain/xai-sub003/wire"
)

// MessageHandler processes one verified, non-replayed envelope payload of
// a given type. The node registers one handler per wire.MessageType.
type MessageHandler func(fromPeer string, payload []byte) error

// Network is the in-process peer-messaging hub: inbound envelopes are
// decoded and authenticated here, then dispatched to the component
// registered for that message type.
type Network struct {
	mu       sync.RWMutex
	peers    map[string]*Peer
	handlers map[wire.MessageType]MessageHandler

	replay     *ReplayCache
	diversity  *DiversityLimiter
	reputation *ReputationTracker
}

func NewNetwork(cfg *params.Config, reputation *ReputationTracker) (*Network, error) {
	replay, err := NewReplayCache(1_000_000, params.RateLimitEntryTTL)
	if err != nil {
		return nil, err
	}
	return &Network{
		peers:      make(map[string]*Peer),
		handlers:   make(map[wire.MessageType]MessageHandler),
		replay:     replay,
		diversity:  NewDiversityLimiter(params.MinPeerDiversity + 1),
		reputation: reputation,
	}, nil
}

func (n *Network) RegisterHandler(t wire.MessageType, h MessageHandler) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.handlers[t] = h
}

func (n *Network) AddPeer(p *Peer) bool {
	if n.reputation.IsBanned(p.ID) {
		return false
	}
	if !n.diversity.Admit(p) {
		return false
	}
	n.mu.Lock()
	n.peers[p.ID] = p
	n.mu.Unlock()
	return true
}

func (n *Network) RemovePeer(p *Peer) {
	n.mu.Lock()
	delete(n.peers, p.ID)
	n.mu.Unlock()
	n.diversity.Release(p)
}

// HandleEnvelope verifies and dispatches an inbound envelope, rejecting
// replays and invalid signatures before the payload ever reaches a handler.
func (n *Network) HandleEnvelope(fromPeer string, env *wire.Envelope) error {
	if n.reputation.IsBanned(fromPeer) {
		return fmt.Errorf("peer banned")
	}
	if err := env.Verify(); err != nil {
		n.reputation.Penalize(fromPeer, 3)
		return err
	}
	if n.replay.Seen(env.ReplayKey()) {
		n.reputation.Penalize(fromPeer, 1)
		return fmt.Errorf("replayed envelope")
	}

	n.mu.RLock()
	h, ok := n.handlers[env.Type]
	n.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no handler registered for %s", env.Type)
	}
	return h(fromPeer, env.Payload)
}

// Broadcast fans a signed envelope out to every connected peer. Transport
// (actual socket writes) is left to the node's connection layer; this
// hub only tracks who should receive what.
func (n *Network) Broadcast(env *wire.Envelope, send func(*Peer, *wire.Envelope) error) {
	n.mu.RLock()
	peers := make([]*Peer, 0, len(n.peers))
	for _, p := range n.peers {
		peers = append(peers, p)
	}
	n.mu.RUnlock()

	for _, p := range peers {
		if err := send(p, env); err != nil {
			logger.Warnw("broadcast send failed", "peer", p.ID, "err", err)
		}
	}
}
