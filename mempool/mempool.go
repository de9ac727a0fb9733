// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package mempool implements transaction admission, fee-priority ordering
// and replace-by-fee, guarded by a reader-writer lock so many admission
// validators can read balances concurrently with brief write locks for
// insertion.
package mempool

import (
	"fmt"
	"sync"
	"time"

	"gopkg.in/karalabe/cookiejar.v2/collections/prque"

	"github.com/xai-blockchain/xai-sub003/chain/state"
	"github.com/xai-blockchain/xai-sub003/chain/types"
	"github.com/xai-blockchain/xai-sub003/common"
	"github.com/xai-blockchain/xai-sub003/params"
	"github.com/xai-blockchain/xai-sub003/xlog"
)

var logger = xlog.NewModuleLogger(xlog.ModuleMempool)

// ErrKind is a stable machine-readable admission failure code.
type ErrKind string

const (
	ErrInvalidSignature  ErrKind = "InvalidSignature"
	ErrMalformedAddress  ErrKind = "MalformedAddress"
	ErrReplay            ErrKind = "Replay"
	ErrFutureNonce       ErrKind = "FutureNonce"
	ErrInsufficientFunds ErrKind = "InsufficientBalance"
	ErrBelowMinFee       ErrKind = "BelowMinFee"
	ErrDuplicate         ErrKind = "Duplicate"
	ErrSponsorRejected   ErrKind = "SponsorRejected"
	ErrRateLimited       ErrKind = "RateLimited"
)

// AdmissionError carries a stable kind alongside a human message.
type AdmissionError struct {
	Kind    ErrKind
	Message string
}

func (e *AdmissionError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

func newErr(kind ErrKind, format string, args ...interface{}) *AdmissionError {
	return &AdmissionError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

type entry struct {
	tx       *types.Transaction
	txid     common.Hash
	feeRate  float32
	arrival  time.Time
}

// SponsorValidator is implemented by the sponsor package; mempool calls it
// as a gate step without importing sponsor directly (sponsor imports
// mempool's error kinds instead, avoiding an import cycle).
type SponsorValidator interface {
	ValidateSponsored(tx *types.Transaction) (common.Hash, error)
}

// Mempool holds pending, not-yet-mined transactions.
type Mempool struct {
	mu sync.RWMutex

	cfg     *params.Config
	ledger  *state.Ledger
	nonces  *state.NonceTracker
	sponsor SponsorValidator

	byTxID       map[common.Hash]*entry
	bySenderNonce map[common.Address]map[uint64]common.Hash
	priority     *prque.Prque

	addressPrefix string
}

func New(cfg *params.Config, ledger *state.Ledger, nonces *state.NonceTracker, sponsor SponsorValidator, addressPrefix string) *Mempool {
	return &Mempool{
		cfg:           cfg,
		ledger:        ledger,
		nonces:        nonces,
		sponsor:       sponsor,
		byTxID:        make(map[common.Hash]*entry),
		bySenderNonce: make(map[common.Address]map[uint64]common.Hash),
		priority:      prque.New(),
		addressPrefix: addressPrefix,
	}
}

// pendingSentBySender sums the amount+fee of every currently-pending send
// from sender, used to compute available balance. Caller must hold mu.
func (m *Mempool) pendingSentBySender(sender common.Address) int64 {
	var total int64
	for _, h := range m.bySenderNonce[sender] {
		e := m.byTxID[h]
		if e == nil {
			continue
		}
		total += e.tx.Amount
		if e.tx.GasSponsor == "" {
			total += e.tx.Fee
		}
	}
	return total
}

// Submit runs the admission pipeline from spec §4.1 and inserts tx on success.
func (m *Mempool) Submit(tx *types.Transaction) (common.Hash, error) {
	// (1) structural validation
	if err := tx.Validate(m.addressPrefix); err != nil {
		return common.Hash{}, newErr(ErrInvalidSignature, "%v", err)
	}

	// (2) sponsor gate
	if tx.GasSponsor != "" && m.sponsor != nil {
		if _, err := m.sponsor.ValidateSponsored(tx); err != nil {
			return common.Hash{}, newErr(ErrSponsorRejected, "%v", err)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// (3) nonce check
	confirmed, _ := m.ledger.ConfirmedNonce(tx.Sender)
	next := m.nonces.NextNonce(tx.Sender)
	if tx.Nonce < next && tx.Nonce <= confirmed {
		return common.Hash{}, newErr(ErrReplay, "nonce %d already confirmed", tx.Nonce)
	}
	if tx.Nonce > confirmed+params.MaxNonceGap {
		return common.Hash{}, newErr(ErrFutureNonce, "nonce %d exceeds gap from confirmed %d", tx.Nonce, confirmed)
	}

	// (4) balance check
	available := m.ledger.Balance(tx.Sender) - m.pendingSentBySender(tx.Sender)
	need := tx.Amount
	if tx.GasSponsor == "" {
		need += tx.Fee
	}
	if available < need {
		return common.Hash{}, newErr(ErrInsufficientFunds, "available %d need %d", available, need)
	}

	// (5) policy checks
	if tx.GasSponsor == "" && tx.Fee < m.cfg.MinFee {
		return common.Hash{}, newErr(ErrBelowMinFee, "fee %d below minimum %d", tx.Fee, m.cfg.MinFee)
	}

	txid, err := tx.TxID()
	if err != nil {
		return common.Hash{}, newErr(ErrInvalidSignature, "%v", err)
	}

	// (6) duplicate check / RBF
	if existingTxid, ok := m.bySenderNonce[tx.Sender][tx.Nonce]; ok {
		if existingTxid == txid {
			return common.Hash{}, newErr(ErrDuplicate, "txid already pending")
		}
		if !m.cfg.RBFEnabled {
			return common.Hash{}, newErr(ErrDuplicate, "nonce %d already occupied", tx.Nonce)
		}
		old := m.byTxID[existingTxid]
		if old == nil || float64(tx.Fee) < float64(old.tx.Fee)*(1+m.cfg.RBFMargin) {
			return common.Hash{}, newErr(ErrDuplicate, "replacement fee too low for RBF")
		}
		m.removeLocked(existingTxid)
	}
	if _, ok := m.byTxID[txid]; ok {
		return common.Hash{}, newErr(ErrDuplicate, "txid already pending")
	}

	// (7) insert
	size := 1
	if raw, err := tx.TxID(); err == nil {
		_ = raw
		size = 1
	}
	feeRate := float32(tx.Fee) / float32(size)
	e := &entry{tx: tx, txid: txid, feeRate: feeRate, arrival: time.Now()}
	m.byTxID[txid] = e
	if m.bySenderNonce[tx.Sender] == nil {
		m.bySenderNonce[tx.Sender] = make(map[uint64]common.Hash)
	}
	m.bySenderNonce[tx.Sender][tx.Nonce] = txid
	m.priority.Push(txid, feeRate)
	m.nonces.ObservePending(tx.Sender, tx.Nonce)

	logger.Infow("tx admitted", "txid", txid.Hex(), "sender", tx.Sender, "nonce", tx.Nonce)
	return txid, nil
}

// Evict removes a tx by id, e.g. because a peer reported it invalid.
func (m *Mempool) Evict(txid common.Hash) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeLocked(txid)
}

func (m *Mempool) removeLocked(txid common.Hash) bool {
	e, ok := m.byTxID[txid]
	if !ok {
		return false
	}
	delete(m.byTxID, txid)
	delete(m.bySenderNonce[e.tx.Sender], e.tx.Nonce)
	if len(m.bySenderNonce[e.tx.Sender]) == 0 {
		delete(m.bySenderNonce, e.tx.Sender)
		m.nonces.ForgetPending(e.tx.Sender, 0, false)
	} else {
		var max uint64
		for n := range m.bySenderNonce[e.tx.Sender] {
			if n > max {
				max = n
			}
		}
		m.nonces.ForgetPending(e.tx.Sender, max, true)
	}
	return true
}

// RemoveMined drops every txid in a just-accepted block's body.
func (m *Mempool) RemoveMined(txids []common.Hash) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range txids {
		m.removeLocked(id)
	}
}

// Snapshot pops up to limit transactions in fee-priority order for block
// assembly, respecting per-sender nonce contiguity, then re-inserts
// everything it popped so the mempool is left unmodified.
func (m *Mempool) Snapshot(limit int) []*types.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()

	popped := make([]*entry, 0, m.priority.Size())
	included := make([]*types.Transaction, 0, limit)
	includedNonce := make(map[common.Address]uint64)
	haveIncluded := make(map[common.Address]bool)

	for !m.priority.Empty() && len(included) < limit {
		v, _ := m.priority.Pop()
		txid := v.(common.Hash)
		e, ok := m.byTxID[txid]
		if !ok {
			continue
		}
		popped = append(popped, e)

		confirmed, _ := m.ledger.ConfirmedNonce(e.tx.Sender)
		parentOK := e.tx.Nonce == confirmed+1
		if !parentOK && haveIncluded[e.tx.Sender] && includedNonce[e.tx.Sender]+1 == e.tx.Nonce {
			parentOK = true
		}
		if !parentOK {
			continue
		}
		included = append(included, e.tx)
		includedNonce[e.tx.Sender] = e.tx.Nonce
		haveIncluded[e.tx.Sender] = true
	}

	for _, e := range popped {
		m.priority.Push(e.txid, e.feeRate)
	}
	return included
}

// Len returns the number of pending transactions.
func (m *Mempool) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byTxID)
}
