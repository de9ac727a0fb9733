// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package swap

import (
	"context"
	"time"
)

const (
	refundSweepInterval = 1 * time.Minute
	claimRetryInterval  = 2 * time.Minute
	maxClaimAttempts    = 5
)

// ConfirmationChecker reports whether a swap's funding tx has reached the
// confirmation depth required before a refund can be safely broadcast.
// Backed by the spv package at the node wiring layer.
type ConfirmationChecker interface {
	HasMinConfirmations(coin string, txid string, minConfirmations int) (bool, error)
}

// RecoveryService runs the two periodic sweeps from spec §4.3: refund
// recovery for expired swaps with sufficiently confirmed funding, and
// claim retry for swaps stuck in Failed while their timelock still allows it.
type RecoveryService struct {
	engine  *Engine
	confirm ConfirmationChecker

	minConfirmations int
	secretSource     func(swapID string) ([]byte, bool)
}

func NewRecoveryService(engine *Engine, confirm ConfirmationChecker, minConfirmations int, secretSource func(swapID string) ([]byte, bool)) *RecoveryService {
	return &RecoveryService{
		engine:           engine,
		confirm:          confirm,
		minConfirmations: minConfirmations,
		secretSource:     secretSource,
	}
}

// Run blocks, driving both sweeps on their own tickers until ctx is cancelled.
func (r *RecoveryService) Run(ctx context.Context) {
	refundTicker := time.NewTicker(refundSweepInterval)
	claimTicker := time.NewTicker(claimRetryInterval)
	defer refundTicker.Stop()
	defer claimTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-refundTicker.C:
			r.sweepRefunds()
		case <-claimTicker.C:
			r.sweepClaimRetries()
		}
	}
}

func (r *RecoveryService) sweepRefunds() {
	now := time.Now()
	for _, c := range r.engine.ListExpirable(now) {
		if c.FundingTxID != "" && r.confirm != nil {
			ok, err := r.confirm.HasMinConfirmations(string(c.Coin), c.FundingTxID, r.minConfirmations)
			if err != nil || !ok {
				continue
			}
		}
		_ = r.engine.Refund(c.SwapID)
	}
}

func (r *RecoveryService) sweepClaimRetries() {
	now := time.Now()
	for _, c := range r.engine.ListFailed(now) {
		count, err := r.engine.IncrementRecoveryAttempt(c.SwapID)
		if err != nil || count > maxClaimAttempts {
			continue
		}
		secret, ok := r.secretSource(c.SwapID)
		if !ok {
			continue
		}
		_ = r.engine.Claim(c.SwapID, secret)
	}
}
