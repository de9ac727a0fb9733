// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package crypto

import "github.com/xai-blockchain/xai-sub003/common"

// MerkleRoot reduces a list of leaf hashes to a single root using the
// Bitcoin convention: concatenate pairs and Sha256d, duplicating the last
// leaf when the level has an odd count. Leaves are consumed in the byte
// order they are given; cross-chain SPV proofs supply them already
// little-endian so the result matches the source chain's header field.
func MerkleRoot(leaves []common.Hash) common.Hash {
	if len(leaves) == 0 {
		return common.Hash{}
	}
	level := make([]common.Hash, len(leaves))
	copy(level, leaves)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([]common.Hash, len(level)/2)
		for i := 0; i < len(next); i++ {
			var buf [64]byte
			copy(buf[:32], level[2*i][:])
			copy(buf[32:], level[2*i+1][:])
			next[i] = Sha256d(buf[:])
		}
		level = next
	}
	return level[0]
}

// MerkleProof holds the sibling hashes and left/right flags needed to
// recompute a root from a single leaf, as shipped by cross-chain SPV
// providers alongside a transaction inclusion claim.
type MerkleProof struct {
	Leaf     common.Hash
	Siblings []common.Hash
	// IsRight[i] is true if Siblings[i] is the right-hand sibling at
	// that level (leaf/accumulated hash goes on the left).
	IsRight []bool
}

// Verify recomputes the root along the proof path and compares it to want.
func (p MerkleProof) Verify(want common.Hash) bool {
	if len(p.Siblings) != len(p.IsRight) {
		return false
	}
	acc := p.Leaf
	for i, sib := range p.Siblings {
		var buf [64]byte
		if p.IsRight[i] {
			copy(buf[:32], acc[:])
			copy(buf[32:], sib[:])
		} else {
			copy(buf[:32], sib[:])
			copy(buf[32:], acc[:])
		}
		acc = Sha256d(buf[:])
	}
	return acc == want
}
