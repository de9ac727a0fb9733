// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package types

import (
	"github.com/xai-blockchain/xai-sub003/common"
	"github.com/xai-blockchain/xai-sub003/crypto"
	"github.com/xai-blockchain/xai-sub003/wire"
)

// Header is the hashed, propagated summary of a block.
type Header struct {
	Index        uint64      `json:"index"`
	PreviousHash common.Hash `json:"previous_hash"`
	MerkleRoot   common.Hash `json:"merkle_root"`
	Timestamp    int64       `json:"timestamp"`
	Difficulty   float64     `json:"difficulty"`
	Nonce        uint64      `json:"nonce"`
}

func (h *Header) canonicalMap() map[string]interface{} {
	return map[string]interface{}{
		"index":         h.Index,
		"previous_hash": h.PreviousHash.Hex(),
		"merkle_root":   h.MerkleRoot.Hex(),
		"timestamp":     h.Timestamp,
		"difficulty":    h.Difficulty,
		"nonce":         h.Nonce,
	}
}

// Hash returns SHA256(SHA256(header_canonical)), the block identity.
func (h *Header) Hash() (common.Hash, error) {
	raw, err := wire.Canonical(h.canonicalMap())
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Sha256d(raw), nil
}

// Block is a header plus its ordered transaction body, coinbase first.
type Block struct {
	Header       Header         `json:"header"`
	Transactions []*Transaction `json:"transactions"`
}

// Hash delegates to the header; the body is committed via MerkleRoot.
func (b *Block) Hash() (common.Hash, error) {
	return b.Header.Hash()
}

// ComputeMerkleRoot hashes every transaction's TXID into a merkle root.
func (b *Block) ComputeMerkleRoot() (common.Hash, error) {
	leaves := make([]common.Hash, len(b.Transactions))
	for i, tx := range b.Transactions {
		id, err := tx.TxID()
		if err != nil {
			return common.Hash{}, err
		}
		leaves[i] = id
	}
	return crypto.MerkleRoot(leaves), nil
}

// TotalFees sums the fees of every non-coinbase transaction in the block.
func (b *Block) TotalFees() int64 {
	var total int64
	for _, tx := range b.Transactions {
		if tx.Type != TxCoinbase {
			total += tx.Fee
		}
	}
	return total
}

// Size approximates the wire size in bytes via canonical encoding; callers
// enforcing MaxBlockBytes use this as the authoritative measure.
func (b *Block) Size() (int, error) {
	raw, err := wire.Canonical(b)
	if err != nil {
		return 0, err
	}
	return len(raw), nil
}
