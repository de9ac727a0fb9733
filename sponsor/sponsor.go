// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package sponsor

import (
	"fmt"
	"sync"

	"github.com/xai-blockchain/xai-sub003/chain/types"
	"github.com/xai-blockchain/xai-sub003/common"
	"github.com/xai-blockchain/xai-sub003/crypto"
	"github.com/xai-blockchain/xai-sub003/wire"
	"github.com/xai-blockchain/xai-sub003/xlog"
)

var logger = xlog.NewModuleLogger(xlog.ModuleSponsor)

type RejectReason string

const (
	ReasonInvalidSignature  RejectReason = "InvalidSignature"
	ReasonInsufficientBudget RejectReason = "InsufficientBudget"
	ReasonRateLimited       RejectReason = "RateLimited"
	ReasonBlacklisted       RejectReason = "Blacklisted"
	ReasonNotWhitelisted    RejectReason = "NotWhitelisted"
	ReasonFeeTooHigh        RejectReason = "FeeTooHigh"
	ReasonNotFound          RejectReason = "NotFound"
	ReasonDisabled          RejectReason = "Disabled"
)

// RejectedError carries SponsorRejected(reason) per spec's error-kind list.
type RejectedError struct{ Reason RejectReason }

func (e *RejectedError) Error() string { return fmt.Sprintf("SponsorRejected(%s)", e.Reason) }

// SponsoredTxStatus tracks a sponsorship's lifecycle from authorization
// through confirmation or refund.
type SponsoredTxStatus string

const (
	StatusPending   SponsoredTxStatus = "Pending"
	StatusConfirmed SponsoredTxStatus = "Confirmed"
	StatusFailed    SponsoredTxStatus = "Failed"
)

type sponsoredTx struct {
	PreliminaryTxID common.Hash
	Fee             int64
	Status          SponsoredTxStatus
}

// Record is a sponsor's registered budget, rate configuration, and lists.
type Record struct {
	Address         common.Address
	PublicKey       []byte
	TotalBudget     int64
	RemainingBudget int64
	Enabled         bool
	MaxGasPerTx     int64
	MaxCostPerTx    int64
	Whitelist       map[common.Address]bool
	Blacklist       map[common.Address]bool

	global  *SlidingWindowLimiter
	perUser map[common.Address]*SlidingWindowLimiter
	windowCfg WindowConfig

	sponsoredTxs map[common.Hash]*sponsoredTx
}

// Sponsor uniquely owns every sponsor record; validators elsewhere read
// via a snapshot rather than mutating directly.
type Sponsor struct {
	mu       sync.Mutex
	records  map[common.Address]*Record
}

func NewSponsor() *Sponsor {
	return &Sponsor{records: make(map[common.Address]*Record)}
}

// RegisterSponsor creates a new sponsor record with the given budget and
// sliding-window configuration.
func (s *Sponsor) RegisterSponsor(addr common.Address, pubkey []byte, budget int64, windowCfg WindowConfig, whitelist, blacklist []common.Address) *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &Record{
		Address:         addr,
		PublicKey:       pubkey,
		TotalBudget:     budget,
		RemainingBudget: budget,
		Enabled:         true,
		Whitelist:       toSet(whitelist),
		Blacklist:       toSet(blacklist),
		global:          NewSlidingWindowLimiter(windowCfg),
		perUser:         make(map[common.Address]*SlidingWindowLimiter),
		windowCfg:       windowCfg,
		sponsoredTxs:    make(map[common.Hash]*sponsoredTx),
	}
	s.records[addr] = rec
	return rec
}

func toSet(addrs []common.Address) map[common.Address]bool {
	m := make(map[common.Address]bool, len(addrs))
	for _, a := range addrs {
		m[a] = true
	}
	return m
}

// authorizationPreimage builds the canonical digest the sponsor signs.
func authorizationPreimage(tx *types.Transaction) (common.Hash, error) {
	m := map[string]interface{}{
		"sponsor":   string(tx.GasSponsor),
		"sender":    string(tx.Sender),
		"recipient": string(tx.Recipient),
		"amount":    tx.Amount,
		"fee":       tx.Fee,
		"timestamp": tx.Timestamp,
	}
	raw, err := wire.Canonical(m)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Sha256(raw), nil
}

// Authorize signs tx on behalf of sponsorKey, filling GasSponsorSignature.
func Authorize(tx *types.Transaction, sponsorAddr common.Address, sponsorKey *crypto.PrivateKey) error {
	tx.GasSponsor = sponsorAddr
	digest, err := authorizationPreimage(tx)
	if err != nil {
		return err
	}
	tx.GasSponsorSignature = sponsorKey.Sign(digest)
	return nil
}

// ValidateSponsored runs the short-circuit validation order from §4.6 and,
// on success, reserves the fee against budget and returns a preliminary id.
func (s *Sponsor) ValidateSponsored(tx *types.Transaction) (common.Hash, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[tx.GasSponsor]
	if !ok {
		return common.Hash{}, &RejectedError{Reason: ReasonNotFound}
	}
	if !rec.Enabled {
		return common.Hash{}, &RejectedError{Reason: ReasonDisabled}
	}
	if rec.Blacklist[tx.Sender] {
		return common.Hash{}, &RejectedError{Reason: ReasonBlacklisted}
	}
	if len(rec.Whitelist) > 0 && !rec.Whitelist[tx.Sender] {
		return common.Hash{}, &RejectedError{Reason: ReasonNotWhitelisted}
	}
	if rec.MaxGasPerTx > 0 && tx.Fee > rec.MaxGasPerTx {
		return common.Hash{}, &RejectedError{Reason: ReasonFeeTooHigh}
	}
	if rec.MaxCostPerTx > 0 && tx.Fee > rec.MaxCostPerTx {
		return common.Hash{}, &RejectedError{Reason: ReasonFeeTooHigh}
	}
	if tx.Fee > rec.RemainingBudget {
		return common.Hash{}, &RejectedError{Reason: ReasonInsufficientBudget}
	}
	if !rec.global.Allow("global", tx.Fee) {
		return common.Hash{}, &RejectedError{Reason: ReasonRateLimited}
	}
	userLimiter, ok := rec.perUser[tx.Sender]
	if !ok {
		userLimiter = NewSlidingWindowLimiter(rec.windowCfg)
		rec.perUser[tx.Sender] = userLimiter
	}
	if !userLimiter.Allow(string(tx.Sender), tx.Fee) {
		return common.Hash{}, &RejectedError{Reason: ReasonRateLimited}
	}

	pub, err := crypto.PublicKeyFromBytes(rec.PublicKey)
	if err != nil {
		return common.Hash{}, &RejectedError{Reason: ReasonInvalidSignature}
	}
	digest, err := authorizationPreimage(tx)
	if err != nil {
		return common.Hash{}, &RejectedError{Reason: ReasonInvalidSignature}
	}
	if !pub.Verify(digest, tx.GasSponsorSignature) {
		return common.Hash{}, &RejectedError{Reason: ReasonInvalidSignature}
	}

	rec.RemainingBudget -= tx.Fee
	rec.global.Admit("global", tx.Fee)
	userLimiter.Admit(string(tx.Sender), tx.Fee)

	preliminaryID := preliminaryTxID(tx.Sender, tx.Fee, tx.Timestamp, tx.GasSponsor)
	rec.sponsoredTxs[preliminaryID] = &sponsoredTx{PreliminaryTxID: preliminaryID, Fee: tx.Fee, Status: StatusPending}

	logger.Infow("sponsored tx approved", "sponsor", tx.GasSponsor, "sender", tx.Sender, "fee", tx.Fee)
	return preliminaryID, nil
}

func preliminaryTxID(sender common.Address, fee int64, timestamp int64, sponsor common.Address) common.Hash {
	data := fmt.Sprintf("%s|%d|%d|%s", sender, fee, timestamp, sponsor)
	return crypto.Sha256([]byte(data))
}

// Confirm marks a preliminary sponsorship as Confirmed once its onchain
// txid is known. Idempotent: calling twice with the same id is a no-op.
func (s *Sponsor) Confirm(sponsorAddr common.Address, preliminaryID common.Hash, blockchainTxID common.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[sponsorAddr]
	if !ok {
		return fmt.Errorf("sponsor %s not found", sponsorAddr)
	}
	tx, ok := rec.sponsoredTxs[preliminaryID]
	if !ok {
		return fmt.Errorf("preliminary id %s not found", preliminaryID.Hex())
	}
	if tx.Status != StatusPending {
		return nil
	}
	tx.Status = StatusConfirmed
	_ = blockchainTxID
	return nil
}

// Fail releases the reserved fee back to remaining budget, only if the
// record is still Pending. Idempotent on repeated calls.
func (s *Sponsor) Fail(sponsorAddr common.Address, preliminaryID common.Hash) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[sponsorAddr]
	if !ok {
		return fmt.Errorf("sponsor %s not found", sponsorAddr)
	}
	tx, ok := rec.sponsoredTxs[preliminaryID]
	if !ok {
		return fmt.Errorf("preliminary id %s not found", preliminaryID.Hex())
	}
	if tx.Status != StatusPending {
		return nil
	}
	tx.Status = StatusFailed
	rec.RemainingBudget += tx.Fee
	return nil
}
