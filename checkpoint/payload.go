// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package checkpoint implements checkpoint metadata selection, quorum
// acceptance, signature verification, and chunked transport for partial
// bootstrap sync, grounded on the node's checkpoint sync coordinator.
package checkpoint

import (
	"fmt"

	"github.com/xai-blockchain/xai-sub003/common"
	"github.com/xai-blockchain/xai-sub003/crypto"
	"github.com/xai-blockchain/xai-sub003/wire"
)

// Metadata is the lightweight advertisement of a checkpoint's existence,
// exchanged before the (potentially large) Payload is fetched.
type Metadata struct {
	Height    uint64      `json:"height"`
	BlockHash common.Hash `json:"block_hash"`
	Timestamp int64       `json:"timestamp,omitempty"`
	Source    string      `json:"source"`
}

// IsComplete mirrors _is_metadata_complete: height present and block_hash set.
func (m Metadata) IsComplete() bool {
	return !m.BlockHash.IsZero()
}

// Payload is the full checkpoint: a state snapshot plus its commitments.
type Payload struct {
	Height    uint64                 `json:"height"`
	BlockHash common.Hash            `json:"block_hash"`
	StateHash common.Hash            `json:"state_hash"`
	Work      float64                `json:"work"`
	Data      map[string]interface{} `json:"data"`
	Signature []byte                 `json:"signature,omitempty"`
	Pubkey    []byte                 `json:"pubkey,omitempty"`
}

// VerifyIntegrity checks SHA256(canonical(data)) == state_hash.
func (p *Payload) VerifyIntegrity() error {
	raw, err := wire.Canonical(p.Data)
	if err != nil {
		return fmt.Errorf("canonicalize payload data: %w", err)
	}
	got := crypto.Sha256(raw)
	if got != p.StateHash {
		return fmt.Errorf("checkpoint: state_hash mismatch")
	}
	return nil
}

// signingDigest is SHA256(canonical({height, block_hash, state_hash})).
func (p *Payload) signingDigest() (common.Hash, error) {
	raw, err := wire.Canonical(map[string]interface{}{
		"height":     p.Height,
		"block_hash": p.BlockHash.Hex(),
		"state_hash": p.StateHash.Hex(),
	})
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Sha256(raw), nil
}

// VerifySignature checks the payload's ECDSA-secp256k1 signature, required
// whenever trustedPubkeys is non-empty (unsigned only accepted in dev mode).
func (p *Payload) VerifySignature(trustedPubkeys [][]byte) error {
	if len(trustedPubkeys) == 0 {
		return nil
	}
	if len(p.Signature) == 0 || len(p.Pubkey) == 0 {
		return fmt.Errorf("checkpoint: signature required, none provided")
	}
	trusted := false
	for _, tp := range trustedPubkeys {
		if string(tp) == string(p.Pubkey) {
			trusted = true
			break
		}
	}
	if !trusted {
		return fmt.Errorf("checkpoint: pubkey not in trusted set")
	}
	pub, err := crypto.PublicKeyFromBytes(p.Pubkey)
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	digest, err := p.signingDigest()
	if err != nil {
		return err
	}
	if !pub.Verify(digest, p.Signature) {
		return fmt.Errorf("checkpoint: signature does not verify")
	}
	return nil
}

// Sign signs the payload under key, filling Signature/Pubkey.
func (p *Payload) Sign(key *crypto.PrivateKey) error {
	p.Pubkey = key.PublicKey().Bytes()
	digest, err := p.signingDigest()
	if err != nil {
		return err
	}
	p.Signature = key.Sign(digest)
	return nil
}
