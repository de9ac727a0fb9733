// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package swap

import (
	"encoding/hex"
	"fmt"

	"github.com/xai-blockchain/xai-sub003/crypto"
)

// UTXOArtifacts holds the redeem script and derived P2WSH address for a
// Bitcoin-family HTLC. The redeem script is kept as its ASCII opcode
// template (the source hashes the UTF-8 bytes of this string, not a
// compiled script); bit-exact interop with real Bitcoin wallets would
// require serializing actual opcodes instead, which this implementation
// deliberately does not attempt (see design notes on the HTLC script).
type UTXOArtifacts struct {
	RedeemScript   string `json:"redeem_script"`
	P2WSHAddress   string `json:"p2wsh_address"`
	WitnessProgram string `json:"witness_program"`
}

// buildUTXORedeemScript reproduces the deterministic template from spec §4.3.
func buildUTXORedeemScript(secretHashHex, recipientPubkey, senderPubkey string, timelock int64) string {
	return fmt.Sprintf(
		"OP_IF OP_SHA256 %s OP_EQUALVERIFY %s OP_CHECKSIG OP_ELSE %d OP_CHECKLOCKTIMEVERIFY OP_DROP %s OP_CHECKSIG OP_ENDIF",
		secretHashHex, recipientPubkey, timelock, senderPubkey,
	)
}

// BuildUTXOContract constructs the redeem script and P2WSH address for a
// UTXO-family HTLC.
func BuildUTXOContract(hrp string, secretHash [32]byte, recipientPubkey, senderPubkey string, timelock int64) (*UTXOArtifacts, error) {
	script := buildUTXORedeemScript(hex.EncodeToString(secretHash[:]), recipientPubkey, senderPubkey, timelock)
	scriptHash := crypto.Sha256([]byte(script))
	addr, err := crypto.P2WSHAddress(hrp, scriptHash)
	if err != nil {
		return nil, fmt.Errorf("derive p2wsh address: %w", err)
	}
	return &UTXOArtifacts{
		RedeemScript:   script,
		P2WSHAddress:   addr,
		WitnessProgram: scriptHash.Hex(),
	}, nil
}

// ClaimWitness builds the witness stack for the claim path: [sig, secret, 0x01, redeem_script].
func ClaimWitness(sigHex, secretHex, redeemScript string) []string {
	return []string{sigHex, secretHex, "01", hex.EncodeToString([]byte(redeemScript))}
}

// RefundWitness builds the witness stack for the refund path: [sig, 0x00, redeem_script].
func RefundWitness(sigHex, redeemScript string) []string {
	return []string{sigHex, "00", hex.EncodeToString([]byte(redeemScript))}
}
