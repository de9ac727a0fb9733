// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package swap implements the multi-protocol HTLC atomic-swap state
// machine: contract creation per coin family, the allowed transition
// graph, and the recovery services that sweep expired or stuck swaps.
package swap

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/xai-blockchain/xai-sub003/common"
	"github.com/xai-blockchain/xai-sub003/crypto"
)

// Protocol identifies which HTLC mechanism a swap's counterparty chain uses.
type Protocol string

const (
	UtxoHTLC     Protocol = "UtxoHTLC"
	EthereumHTLC Protocol = "EthereumHTLC"
	MoneroHTLC   Protocol = "MoneroHTLC"
)

// CoinType is the counterparty asset. Only a representative subset is
// enumerated; new coins register a Protocol mapping in protocolForCoin.
type CoinType string

const (
	CoinBTC  CoinType = "BTC"
	CoinLTC  CoinType = "LTC"
	CoinDOGE CoinType = "DOGE"
	CoinBCH  CoinType = "BCH"
	CoinZEC  CoinType = "ZEC"
	CoinDASH CoinType = "DASH"
	CoinETH  CoinType = "ETH"
	CoinXMR  CoinType = "XMR"
)

func protocolForCoin(coin CoinType) Protocol {
	switch coin {
	case CoinETH:
		return EthereumHTLC
	case CoinXMR:
		return MoneroHTLC
	default:
		return UtxoHTLC
	}
}

// State is a node in the HTLC lifecycle graph.
type State string

const (
	StateInitiated         State = "Initiated"
	StateFunded            State = "Funded"
	StateCounterpartyFunded State = "CounterpartyFunded"
	StateClaimed           State = "Claimed"
	StateRefunded          State = "Refunded"
	StateExpired           State = "Expired"
	StateFailed            State = "Failed"
)

// allowedTransitions is the graph from spec §4.3; Failed's recovery edges
// to Claimed/Refunded are included alongside its forward edges.
var allowedTransitions = map[State]map[State]bool{
	StateInitiated:          {StateFunded: true, StateFailed: true, StateExpired: true},
	StateFunded:             {StateCounterpartyFunded: true, StateRefunded: true, StateExpired: true, StateFailed: true},
	StateCounterpartyFunded: {StateClaimed: true, StateRefunded: true, StateExpired: true},
	StateFailed:             {StateClaimed: true, StateRefunded: true},
}

func isTerminal(s State) bool {
	return s == StateClaimed || s == StateRefunded || s == StateExpired
}

// HistoryEntry is one append-only record of a contract's lifecycle.
type HistoryEntry struct {
	State     State                  `json:"state"`
	Event     string                  `json:"event"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Contract is a single HTLC swap's full persisted record.
type Contract struct {
	SwapID       string   `json:"swap_id"`
	Coin         CoinType `json:"coin"`
	Protocol     Protocol `json:"protocol"`
	SecretHash   common.Hash `json:"secret_hash"`
	Secret       []byte   `json:"secret,omitempty"`
	TimelockUnix int64    `json:"timelock_unix"`
	Counterparty string   `json:"counterparty"`
	AmountLocal  int64    `json:"amount_local"`
	AmountRemote float64  `json:"amount_remote"`
	FundingTxID  string   `json:"funding_txid,omitempty"`
	State        State    `json:"state"`
	History      []HistoryEntry `json:"history"`

	AutoRecoveryAttempts int `json:"auto_recovery_attempts"`

	// Protocol-specific artifacts, populated at creation.
	UTXO     *UTXOArtifacts     `json:"utxo,omitempty"`
	Ethereum *EthereumArtifacts `json:"ethereum,omitempty"`
	Monero   *MoneroArtifacts   `json:"monero,omitempty"`
}

func (c *Contract) appendHistory(event string, data map[string]interface{}) {
	c.History = append(c.History, HistoryEntry{
		State:     c.State,
		Event:     event,
		Timestamp: time.Now().Unix(),
		Data:      data,
	})
}

// transition moves the contract to next if the edge is allowed, appending
// a history entry. Terminal states (other than Failed's recovery edges)
// reject further mutation.
func (c *Contract) transition(next State, event string, data map[string]interface{}) error {
	if isTerminal(c.State) {
		return fmt.Errorf("swap %s: state %s is terminal", c.SwapID, c.State)
	}
	edges := allowedTransitions[c.State]
	if !edges[next] {
		return fmt.Errorf("swap %s: transition %s -> %s not allowed", c.SwapID, c.State, next)
	}
	c.State = next
	c.appendHistory(event, data)
	return nil
}

// VerifySecret checks SHA256(secret) == secret_hash.
func VerifySecret(secret []byte, secretHash common.Hash) bool {
	return crypto.Sha256(secret) == secretHash
}

func secretHex(secret []byte) string {
	return hex.EncodeToString(secret)
}
