// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package spv verifies cross-chain transaction inclusion via merkle
// proofs against an ingested header store, the way a light client checks
// a counterparty chain without running a full node for it.
package spv

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/xai-blockchain/xai-sub003/common"
)

// BitcoinHeader is the 80-byte Bitcoin-family block header layout:
// version(4) prev(32) merkle(32) time(4) bits(4) nonce(4), little-endian.
type BitcoinHeader struct {
	Version    uint32
	PrevHash   common.Hash
	MerkleRoot common.Hash
	Time       uint32
	Bits       uint32
	Nonce      uint32
	Height     uint64
}

func ParseBitcoinHeader(raw []byte, height uint64) (*BitcoinHeader, error) {
	if len(raw) != 80 {
		return nil, fmt.Errorf("spv: header must be 80 bytes, got %d", len(raw))
	}
	h := &BitcoinHeader{
		Version: binary.LittleEndian.Uint32(raw[0:4]),
		Time:    binary.LittleEndian.Uint32(raw[68:72]),
		Bits:    binary.LittleEndian.Uint32(raw[72:76]),
		Nonce:   binary.LittleEndian.Uint32(raw[76:80]),
		Height:  height,
	}
	copy(h.PrevHash[:], reverse(raw[4:36]))
	copy(h.MerkleRoot[:], reverse(raw[36:68]))
	return h, nil
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

// HeaderStore holds ingested headers per coin, keyed by height, and
// enforces monotone height increase unless a deeper reorg with greater
// cumulative work is presented.
type HeaderStore struct {
	mu      sync.RWMutex
	headers map[string]map[uint64]*BitcoinHeader
	tip     map[string]uint64
	work    map[string]float64
}

func NewHeaderStore() *HeaderStore {
	return &HeaderStore{
		headers: make(map[string]map[uint64]*BitcoinHeader),
		tip:     make(map[string]uint64),
		work:    make(map[string]float64),
	}
}

// IngestHeaders accepts a batch of headers for coin, returning the heights
// accepted and rejected. A header is rejected if it would shrink the tip
// without presenting strictly greater cumulative work.
func (s *HeaderStore) IngestHeaders(coin string, headers []*BitcoinHeader, cumulativeWork float64) (accepted []uint64, rejected []uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.headers[coin] == nil {
		s.headers[coin] = make(map[uint64]*BitcoinHeader)
	}
	currentTip, hasTip := s.tip[coin]
	currentWork := s.work[coin]

	if hasTip {
		var maxNewHeight uint64
		for _, h := range headers {
			if h.Height > maxNewHeight {
				maxNewHeight = h.Height
			}
		}
		if maxNewHeight < currentTip && cumulativeWork <= currentWork {
			for _, h := range headers {
				rejected = append(rejected, h.Height)
			}
			return accepted, rejected
		}
	}

	for _, h := range headers {
		s.headers[coin][h.Height] = h
		accepted = append(accepted, h.Height)
		if h.Height > s.tip[coin] {
			s.tip[coin] = h.Height
		}
	}
	if cumulativeWork > s.work[coin] {
		s.work[coin] = cumulativeWork
	}
	return accepted, rejected
}

// Confirmations computes tip.height - tx.block_height + 1 for coin, or
// 0/false if the tip or the block height is unknown.
func (s *HeaderStore) Confirmations(coin string, blockHeight uint64) (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tip, ok := s.tip[coin]
	if !ok || blockHeight > tip {
		return 0, false
	}
	return tip - blockHeight + 1, true
}

func (s *HeaderStore) HeaderAt(coin string, height uint64) (*BitcoinHeader, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.headers[coin][height]
	return h, ok
}
