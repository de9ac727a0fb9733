// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package spv

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/VictoriaMetrics/fastcache"

	"github.com/xai-blockchain/xai-sub003/common"
	"github.com/xai-blockchain/xai-sub003/crypto"
	"github.com/xai-blockchain/xai-sub003/xlog"
)

var logger = xlog.NewModuleLogger(xlog.ModuleSPV)

// Result is the outcome of a cross-chain verification call.
type Result struct {
	Valid   bool
	Message string
}

// Verifier checks cross-chain transaction inclusion and amount against a
// Provider, with confirmations cross-checked against the ingested
// HeaderStore, and caches results for CacheTTL.
type Verifier struct {
	providers map[string]Provider
	headers   *HeaderStore
	cache     *fastcache.Cache
	cacheTTL  time.Duration
	cacheMu   sync.Mutex
	cacheAt   map[string]time.Time
}

func NewVerifier(providers map[string]Provider, headers *HeaderStore, cacheTTL time.Duration) *Verifier {
	return &Verifier{
		providers: providers,
		headers:   headers,
		cache:     fastcache.New(32 * 1024 * 1024),
		cacheTTL:  cacheTTL,
		cacheAt:   make(map[string]time.Time),
	}
}

func cacheKey(coin, txid string, minConf int) string {
	return fmt.Sprintf("%s:%s:%d", coin, txid, minConf)
}

// VerifyTxOnChain implements §4.4's verify_tx_on_chain.
func (v *Verifier) VerifyTxOnChain(ctx context.Context, coin, txid string, expectedAmount int64, recipient string, minConfirmations int, tolerance int64) (Result, error) {
	key := cacheKey(coin, txid, minConfirmations)
	v.cacheMu.Lock()
	if cached, ok := v.cache.HasGet(nil, []byte(key)); ok {
		if at, ok2 := v.cacheAt[key]; ok2 && time.Since(at) < v.cacheTTL {
			v.cacheMu.Unlock()
			return Result{Valid: string(cached) == "1", Message: "cached"}, nil
		}
	}
	v.cacheMu.Unlock()

	provider, ok := v.providers[coin]
	if !ok {
		return Result{}, fmt.Errorf("spv: no provider configured for %s", coin)
	}
	info, err := provider.FetchTx(ctx, txid)
	if err != nil {
		return Result{}, fmt.Errorf("spv: provider unavailable: %w", err)
	}

	normalizedRecipient := recipient
	if coin == "ETH" {
		normalizedRecipient = strings.ToLower(recipient)
	}
	var amountReceived int64
	for _, o := range info.Outputs {
		addr := o.Address
		if coin == "ETH" {
			addr = strings.ToLower(addr)
		}
		if addr == normalizedRecipient {
			amountReceived += o.Amount
		}
	}

	confirmations := info.Confirmations
	if headerConf, ok := v.headers.Confirmations(coin, info.BlockHeight); ok && headerConf > confirmations {
		confirmations = headerConf
	}

	valid := confirmations >= uint64(minConfirmations) && amountReceived+tolerance >= expectedAmount
	msg := "ok"
	if !valid {
		msg = fmt.Sprintf("confirmations=%d amount_received=%d expected=%d", confirmations, amountReceived, expectedAmount)
	}

	v.cacheMu.Lock()
	val := "0"
	if valid {
		val = "1"
	}
	v.cache.Set([]byte(key), []byte(val))
	v.cacheAt[key] = time.Now()
	v.cacheMu.Unlock()

	return Result{Valid: valid, Message: msg}, nil
}

// HasMinConfirmations adapts VerifyTxOnChain for swap.ConfirmationChecker.
func (v *Verifier) HasMinConfirmations(coin, txid string, minConfirmations int) (bool, error) {
	res, err := v.VerifyTxOnChain(context.Background(), coin, txid, 0, "", minConfirmations, 0)
	if err != nil {
		return false, err
	}
	return res.Valid, nil
}

// VerifySPV reconstructs the merkle root from txid and a supplied proof
// and checks it against the stored header for the tx's block.
func (v *Verifier) VerifySPV(coin, txid string, proof crypto.MerkleProof, blockHeight uint64) (Result, error) {
	header, ok := v.headers.HeaderAt(coin, blockHeight)
	if !ok {
		return Result{}, fmt.Errorf("spv: no header at height %d for %s", blockHeight, coin)
	}
	if !proof.Verify(header.MerkleRoot) {
		return Result{Valid: false, Message: "merkle root mismatch"}, nil
	}
	return Result{Valid: true, Message: "ok"}, nil
}

// IngestHeaders parses and stores a batch of raw 80-byte headers for coin.
func (v *Verifier) IngestHeaders(coin string, raw [][]byte, startHeight uint64, cumulativeWork float64) (accepted, rejected []uint64, err error) {
	headers := make([]*BitcoinHeader, 0, len(raw))
	for i, r := range raw {
		h, perr := ParseBitcoinHeader(r, startHeight+uint64(i))
		if perr != nil {
			return nil, nil, perr
		}
		headers = append(headers, h)
	}
	a, rj := v.headers.IngestHeaders(coin, headers, cumulativeWork)
	return a, rj, nil
}

// TxIDReversed returns the byte-reversed (little-endian) form of a txid
// hash, as used when feeding it as the merkle leaf per Bitcoin convention.
func TxIDReversed(id common.Hash) common.Hash {
	var out common.Hash
	for i := 0; i < common.HashLength; i++ {
		out[i] = id[common.HashLength-1-i]
	}
	return out
}
