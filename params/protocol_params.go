// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package params

import "time"

// Protocol-wide constants. Tunable ones are mirrored as fields on Config
// so a node can override them; the constants here are the defaults a
// fresh Config is populated with.
const (
	// AmountScale is the fixed-point scale for balances and fees: 8 decimals.
	AmountScale = 100_000_000

	MaxSupply = 21_000_000 * AmountScale

	BaseBlockReward = 50 * AmountScale

	GenesisDifficulty = 1

	MaxNonceGap = 64

	// RBFMargin: a replacing tx's fee must be >= old fee * (1 + RBFMargin).
	RBFMargin = 0.10

	RetargetInterval      = 2016
	RetargetMaxFactor     = 4.0
	RetargetTargetSeconds = 10 * 60 * 2016

	FinalityDepth = 100

	CheckpointQuorum             = 3
	MinPeerDiversity             = 2
	CheckpointRequestRateSeconds = 30
	DefaultChunkSize             = 1_000_000
	ChunkFlushInterval           = 10

	MaxBlockTxCount = 20_000
	MaxBlockBytes   = 4_000_000

	MaxNonceReplayWindow = 4096
)

// Duration-valued defaults live outside the const block because time.Duration
// constants can't always be expressed as untyped constants cleanly alongside
// integer ones above.
var (
	OrphanTTL              = 20 * time.Minute
	ClockSkewBound         = 2 * time.Hour
	SPVCacheTTL            = 5 * time.Minute
	ProviderDefaultTimeout = 10 * time.Second
	RateLimitEntryTTL      = 7 * 24 * time.Hour
)

// BlockReward returns the coinbase subsidy for a block at the given height.
// The core has no halving schedule; isolating the computation here lets a
// future product decision add one without touching callers.
func BlockReward(height uint64) int64 {
	return BaseBlockReward
}
