// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package crypto

import (
	"fmt"

	"github.com/decred/dcrd/bech32"
	"github.com/xai-blockchain/xai-sub003/common"
)

// P2WSHAddress derives a witness-version-0 bech32 address from a
// redeem-script witness-program hash, mirroring the UTXO HTLC contract
// address the swap engine publishes to counterparties.
func P2WSHAddress(hrp string, scriptHash common.Hash) (string, error) {
	converted, err := bech32.ConvertBits(scriptHash[:], 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert bits: %w", err)
	}
	data := append([]byte{0}, converted...)
	addr, err := bech32.Encode(hrp, data)
	if err != nil {
		return "", fmt.Errorf("bech32 encode: %w", err)
	}
	return addr, nil
}

// DecodeP2WSHAddress recovers the witness-program hash from a bech32
// address produced by P2WSHAddress.
func DecodeP2WSHAddress(addr string) (hrp string, scriptHash [32]byte, err error) {
	hrp, data, err := bech32.Decode(addr)
	if err != nil {
		return "", scriptHash, fmt.Errorf("bech32 decode: %w", err)
	}
	if len(data) < 1 {
		return "", scriptHash, fmt.Errorf("empty bech32 payload")
	}
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return "", scriptHash, fmt.Errorf("convert bits: %w", err)
	}
	if len(program) != 32 {
		return "", scriptHash, fmt.Errorf("witness program must be 32 bytes, got %d", len(program))
	}
	copy(scriptHash[:], program)
	return hrp, scriptHash, nil
}
