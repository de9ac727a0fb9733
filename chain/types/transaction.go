// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package types holds the wire/ledger data model: transactions, blocks,
// and headers, plus their canonical hashing and signature preimages.
package types

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/xai-blockchain/xai-sub003/common"
	"github.com/xai-blockchain/xai-sub003/crypto"
	"github.com/xai-blockchain/xai-sub003/wire"
)

// TxType enumerates every transaction kind the ledger recognizes.
type TxType string

const (
	TxNormal      TxType = "normal"
	TxCoinbase    TxType = "coinbase"
	TxTreasure    TxType = "treasure"
	TxTimeCapsule TxType = "time_capsule"
	TxFaucet      TxType = "faucet"
	TxHTLCFund    TxType = "htlc_fund"
	TxHTLCClaim   TxType = "htlc_claim"
	TxHTLCRefund  TxType = "htlc_refund"
)

// Transaction is the unit of value transfer. Amount and Fee are fixed-point
// integers scaled by params.AmountScale (8 decimals), never floats, so
// arithmetic never accumulates rounding error.
type Transaction struct {
	Sender    common.Address `json:"sender"`
	Recipient common.Address `json:"recipient"`
	Amount    int64          `json:"amount"`
	Fee       int64          `json:"fee"`
	Nonce     uint64         `json:"nonce"`
	PublicKey []byte         `json:"public_key"`
	Signature []byte         `json:"signature"`
	Timestamp int64          `json:"timestamp"`
	Type      TxType         `json:"tx_type"`

	GasSponsor          common.Address `json:"gas_sponsor,omitempty"`
	GasSponsorSignature []byte         `json:"gas_sponsor_signature,omitempty"`
}

// preimageMap builds the canonical field map used for both TXID and
// signature computation. Signature is always excluded; TXID additionally
// excludes nothing else, matching the spec's "canonical_encoding_without_signature".
func (t *Transaction) preimageMap() map[string]interface{} {
	m := map[string]interface{}{
		"sender":     string(t.Sender),
		"recipient":  string(t.Recipient),
		"amount":     t.Amount,
		"fee":        t.Fee,
		"nonce":      t.Nonce,
		"public_key": hex.EncodeToString(t.PublicKey),
		"timestamp":  t.Timestamp,
		"tx_type":    string(t.Type),
	}
	if t.GasSponsor != "" {
		m["gas_sponsor"] = string(t.GasSponsor)
	}
	return m
}

// SigningDigest returns the hash signed by the sender's private key.
func (t *Transaction) SigningDigest() (common.Hash, error) {
	raw, err := wire.Canonical(t.preimageMap())
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Sha256(raw), nil
}

// TxID returns SHA256(canonical_encoding_without_signature), identical to
// the signing digest since the preimage already excludes the signature.
func (t *Transaction) TxID() (common.Hash, error) {
	return t.SigningDigest()
}

// Sign signs the transaction with key and fills PublicKey/Signature.
func (t *Transaction) Sign(key *crypto.PrivateKey) error {
	t.PublicKey = key.PublicKey().Bytes()
	digest, err := t.SigningDigest()
	if err != nil {
		return err
	}
	t.Signature = key.Sign(digest)
	return nil
}

var (
	ErrSelfTransfer    = errors.New("tx: sender equals recipient")
	ErrInvalidSig      = errors.New("tx: signature does not verify")
	ErrAddressMismatch = errors.New("tx: hash(public_key) does not match sender")
)

// VerifySignature checks the cryptographic signature over the canonical
// preimage. It does not check sender/recipient distinctness or address
// derivation; callers run Validate for the full invariant set.
func (t *Transaction) VerifySignature() error {
	if len(t.PublicKey) == 0 {
		return fmt.Errorf("tx: missing public key")
	}
	pub, err := crypto.PublicKeyFromBytes(t.PublicKey)
	if err != nil {
		return fmt.Errorf("tx: %w", err)
	}
	digest, err := t.SigningDigest()
	if err != nil {
		return err
	}
	if !pub.Verify(digest, t.Signature) {
		return ErrInvalidSig
	}
	return nil
}

// DeriveAddress computes the account address for a public key under the
// configured prefix: prefix || bech32(SHA-256(pubkey)).
func DeriveAddress(prefix string, pubkey []byte) common.Address {
	h := crypto.Sha256(pubkey)
	addr, err := crypto.P2WSHAddress(prefix, h)
	if err != nil {
		return ""
	}
	return common.Address(addr)
}

// Validate checks the structural and cryptographic invariants that hold
// regardless of ledger state (balance/nonce checks happen in mempool
// admission, which has access to that state).
func (t *Transaction) Validate(addressPrefix string) error {
	if t.Amount < 0 || t.Fee < 0 {
		return fmt.Errorf("tx: amount and fee must be non-negative")
	}
	if t.Type != TxCoinbase && t.Sender == t.Recipient {
		return ErrSelfTransfer
	}
	if t.Type == TxCoinbase {
		return nil
	}
	if err := t.VerifySignature(); err != nil {
		return err
	}
	if DeriveAddress(addressPrefix, t.PublicKey) != t.Sender {
		return ErrAddressMismatch
	}
	return nil
}
