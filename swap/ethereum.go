// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package swap

// EthereumArtifacts describes the deployed-contract parameters for an
// account-family HTLC: a claim(secret) / refund() pair enforced on-chain
// by the counterparty's EVM, not by this node.
type EthereumArtifacts struct {
	SecretHashHex string `json:"secret_hash"`
	Recipient     string `json:"recipient"`
	TimelockUnix  int64  `json:"timelock"`
	Amount        string `json:"amount"`
	ContractAddr  string `json:"contract_addr,omitempty"`
}

// BuildEthereumContract records the parameters this node expects the
// counterparty's deployed HTLC contract to have been constructed with.
// Actual deployment/ABI calls are the responsibility of an Ethereum
// client integration outside this core (SPV/provider layer observes the
// result), so this only returns the descriptor used for verification.
func BuildEthereumContract(secretHashHex, recipient string, timelock int64, amount string) *EthereumArtifacts {
	return &EthereumArtifacts{
		SecretHashHex: secretHashHex,
		Recipient:     recipient,
		TimelockUnix:  timelock,
		Amount:        amount,
	}
}
