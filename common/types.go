// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package common

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashLength is the size in bytes of a SHA-256 digest.
const HashLength = 32

// Hash is a 32-byte SHA-256 digest used for block IDs, tx IDs and merkle
// roots throughout the chain.
type Hash [HashLength]byte

// getShardIndex implements common.CacheKey so Hash keys can back a
// sharded LRU cache (used by the SPV result cache).
func (h Hash) getShardIndex(shardMask int) int {
	return int(h[HashLength-1]) & shardMask
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

func (h Hash) IsZero() bool {
	return h == Hash{}
}

func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}

// MarshalJSON renders a Hash as lowercase hex, matching the canonical
// encoding's "bytes hex-encoded lowercase without 0x" rule.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.Hex())
}

func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	parsed, err := HexToHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

func HexToHash(s string) (Hash, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hash hex: %w", err)
	}
	if len(b) != HashLength {
		return Hash{}, fmt.Errorf("invalid hash length: got %d want %d", len(b), HashLength)
	}
	return BytesToHash(b), nil
}

// Address is a bech32-encoded string identifying a UTXO P2WSH output, an
// account-model participant, or a sponsor-tracked identity. It is kept as
// a string rather than a fixed-size array because the three address
// families (native bech32, Ethereum hex, Monero base58) have different
// natural encodings; validation happens at the boundary that accepts one.
type Address string

func (a Address) String() string { return string(a) }

func (a Address) IsZero() bool { return a == "" }
