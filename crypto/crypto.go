// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package crypto wraps the hashing and signing primitives the chain needs:
// SHA-256 / SHA-256d for IDs and merkle roots, and secp256k1 ECDSA for
// transaction and peer-envelope signatures.
package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/xai-blockchain/xai-sub003/common"
)

// Sha256 returns the single SHA-256 digest of data.
func Sha256(data []byte) common.Hash {
	return sha256.Sum256(data)
}

// Sha256d returns the double SHA-256 digest, the hash family UTXO-style
// transaction and block IDs use.
func Sha256d(data []byte) common.Hash {
	first := sha256.Sum256(data)
	return sha256.Sum256(first[:])
}

// PrivateKey wraps a secp256k1 signing key.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey wraps a secp256k1 verification key.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// GeneratePrivateKey creates a new random signing key.
func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, errors.New("private key must be 32 bytes")
	}
	key := secp256k1.PrivKeyFromBytes(b)
	return &PrivateKey{key: key}, nil
}

func (p *PrivateKey) Bytes() []byte {
	return p.key.Serialize()
}

func (p *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: p.key.PubKey()}
}

// Sign produces a deterministic (RFC6979) ECDSA signature over a digest
// that has already been hashed by the caller (Sha256d of the canonical
// encoding of whatever is being signed).
func (p *PrivateKey) Sign(digest common.Hash) []byte {
	sig := ecdsa.Sign(p.key, digest[:])
	return sig.Serialize()
}

func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	key, err := secp256k1.ParsePubKey(b)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}
	return &PublicKey{key: key}, nil
}

func (p *PublicKey) Bytes() []byte {
	return p.key.SerializeCompressed()
}

// Verify checks a DER-encoded signature against a digest.
func (p *PublicKey) Verify(digest common.Hash, sig []byte) bool {
	parsed, err := ecdsa.ParseDERSignature(sig)
	if err != nil {
		return false
	}
	return parsed.Verify(digest[:], p.key)
}
