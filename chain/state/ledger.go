// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package state holds the account ledger: balances and confirmed nonces,
// updated atomically on block acceptance, plus the state-hash commitment
// checkpoints sign over.
package state

import (
	"fmt"
	"sort"
	"sync"

	"github.com/xai-blockchain/xai-sub003/common"
	"github.com/xai-blockchain/xai-sub003/crypto"
	"github.com/xai-blockchain/xai-sub003/wire"
)

// Account is the per-address ledger entry.
type Account struct {
	Balance            int64  `json:"balance"`
	LastConfirmedNonce uint64 `json:"last_confirmed_nonce"`
}

// Ledger is the single consensus-thread-owned mapping of address to
// account. All mutation methods assume the caller already holds the
// consensus lock; Ledger itself only guards concurrent reads with an RW
// mutex so mempool/API read paths never race a concurrent Apply.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[common.Address]*Account
	Height   uint64
	Tip      common.Hash
}

func NewLedger() *Ledger {
	return &Ledger{accounts: make(map[common.Address]*Account)}
}

// Balance returns the confirmed balance for addr, zero if unseen.
func (l *Ledger) Balance(addr common.Address) int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if acc, ok := l.accounts[addr]; ok {
		return acc.Balance
	}
	return 0
}

// ConfirmedNonce returns the last confirmed nonce for addr, or 0 if unseen
// (meaning the next expected nonce is 0, not 1 — no tx has confirmed yet).
func (l *Ledger) ConfirmedNonce(addr common.Address) (uint64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	acc, ok := l.accounts[addr]
	if !ok {
		return 0, false
	}
	return acc.LastConfirmedNonce, true
}

// Credit adds amount to addr's balance, creating the account if needed.
func (l *Ledger) Credit(addr common.Address, amount int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc := l.getOrCreate(addr)
	acc.Balance += amount
}

// Debit subtracts amount from addr's balance and advances its confirmed
// nonce to nonce. Callers must have already validated sufficient balance.
func (l *Ledger) Debit(addr common.Address, amount int64, nonce uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc := l.getOrCreate(addr)
	if acc.Balance < amount {
		return fmt.Errorf("ledger: insufficient balance for %s", addr)
	}
	acc.Balance -= amount
	acc.LastConfirmedNonce = nonce
	return nil
}

func (l *Ledger) getOrCreate(addr common.Address) *Account {
	acc, ok := l.accounts[addr]
	if !ok {
		acc = &Account{}
		l.accounts[addr] = acc
	}
	return acc
}

// Snapshot returns a deep copy safe to hold across goroutines, used by
// mempool admission and the checkpoint writer.
func (l *Ledger) Snapshot() map[common.Address]Account {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[common.Address]Account, len(l.accounts))
	for addr, acc := range l.accounts {
		out[addr] = *acc
	}
	return out
}

// LoadSnapshot replaces the ledger contents wholesale — used when applying
// a checkpoint payload or reorging to a new tip's precomputed state.
func (l *Ledger) LoadSnapshot(accounts map[common.Address]Account, height uint64, tip common.Hash) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts = make(map[common.Address]*Account, len(accounts))
	for addr, acc := range accounts {
		a := acc
		l.accounts[addr] = &a
	}
	l.Height = height
	l.Tip = tip
}

// StateHash is SHA256 over the canonical serialization of the sorted
// account mapping plus height and tip, the commitment checkpoints sign.
func (l *Ledger) StateHash() (common.Hash, error) {
	snapshot := l.Snapshot()
	l.mu.RLock()
	height, tip := l.Height, l.Tip
	l.mu.RUnlock()

	addrs := make([]string, 0, len(snapshot))
	for addr := range snapshot {
		addrs = append(addrs, string(addr))
	}
	sort.Strings(addrs)

	accountsMap := make(map[string]interface{}, len(addrs))
	for _, addr := range addrs {
		acc := snapshot[common.Address(addr)]
		accountsMap[addr] = map[string]interface{}{
			"balance":              acc.Balance,
			"last_confirmed_nonce": acc.LastConfirmedNonce,
		}
	}

	preimage := map[string]interface{}{
		"accounts": accountsMap,
		"height":   height,
		"tip":      tip.Hex(),
	}
	raw, err := wire.Canonical(preimage)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Sha256(raw), nil
}
