// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package wire

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/xai-blockchain/xai-sub003/common"
	"github.com/xai-blockchain/xai-sub003/crypto"
)

// MessageType enumerates every peer wire message.
type MessageType string

const (
	MsgTx                 MessageType = "tx"
	MsgBlock              MessageType = "block"
	MsgHeader             MessageType = "header"
	MsgGetHeaders         MessageType = "get_headers"
	MsgGetBlocks          MessageType = "get_blocks"
	MsgCheckpointMetadata MessageType = "checkpoint_metadata"
	MsgCheckpointPayload  MessageType = "checkpoint_payload"
	MsgPing               MessageType = "ping"
	MsgPong               MessageType = "pong"
	MsgPeerExchange       MessageType = "peer_exchange"
)

// Envelope is the signed wrapper every peer message travels in. Payload
// is left as raw canonical JSON bytes so the envelope layer never needs
// to know the shape of every message type it carries.
type Envelope struct {
	Type         MessageType `json:"type"`
	Payload      []byte      `json:"payload"`
	Signature    []byte      `json:"signature"`
	SenderPubkey []byte      `json:"sender_pubkey"`
	Nonce        uint64      `json:"nonce"`
	Timestamp    int64       `json:"timestamp"`
}

// preimage returns the canonical bytes that Signature is computed over:
// everything except the signature itself.
func (e *Envelope) preimage() ([]byte, error) {
	m := map[string]interface{}{
		"type":          string(e.Type),
		"payload":       hex.EncodeToString(e.Payload),
		"sender_pubkey": hex.EncodeToString(e.SenderPubkey),
		"nonce":         e.Nonce,
		"timestamp":     e.Timestamp,
	}
	return Canonical(m)
}

// Sign fills Signature and SenderPubkey from key, stamping Timestamp if unset.
func (e *Envelope) Sign(key *crypto.PrivateKey) error {
	if e.Timestamp == 0 {
		e.Timestamp = time.Now().Unix()
	}
	e.SenderPubkey = key.PublicKey().Bytes()
	pre, err := e.preimage()
	if err != nil {
		return err
	}
	digest := crypto.Sha256d(pre)
	e.Signature = key.Sign(digest)
	return nil
}

var (
	ErrBadSignature = errors.New("envelope: signature does not verify")
	ErrMissingKey   = errors.New("envelope: missing sender pubkey")
)

// Verify checks the envelope's signature against its embedded sender key.
// Replay-cache and diversity-cap enforcement live one layer up in p2p,
// since they need peer-connection state this package doesn't have.
func (e *Envelope) Verify() error {
	if len(e.SenderPubkey) == 0 {
		return ErrMissingKey
	}
	pub, err := crypto.PublicKeyFromBytes(e.SenderPubkey)
	if err != nil {
		return fmt.Errorf("envelope: %w", err)
	}
	pre, err := e.preimage()
	if err != nil {
		return err
	}
	digest := crypto.Sha256d(pre)
	if !pub.Verify(digest, e.Signature) {
		return ErrBadSignature
	}
	return nil
}

// ReplayKey identifies an envelope for the (sender, nonce) replay cache.
func (e *Envelope) ReplayKey() common.Hash {
	return crypto.Sha256(append(e.SenderPubkey, uint64ToBytes(e.Nonce)...))
}

func uint64ToBytes(n uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(n >> (8 * (7 - i)))
	}
	return b
}
