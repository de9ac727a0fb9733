// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package params

import "time"

// NetworkType selects the address prefix and faucet availability.
type NetworkType int

const (
	Mainnet NetworkType = iota
	Testnet
)

func (n NetworkType) AddressPrefix() string {
	if n == Testnet {
		return "txai"
	}
	return "xai"
}

// Config is the single typed configuration object for a node. Every knob
// the system needs lives here instead of being threaded through keyword
// bags or module-level globals; components receive the parts of it (or
// the whole struct) they need at construction time.
type Config struct {
	Network NetworkType

	// Networking
	Host  string
	Port  int
	Peers []string

	// Mining
	MinerAddress string
	PoWEnabled   bool

	// Consensus
	RetargetInterval      uint64
	RetargetMaxFactor     float64
	RetargetTargetSeconds uint64
	FinalityDepth         uint64
	OrphanTTL             time.Duration
	ClockSkewBound        time.Duration
	MaxBlockTxCount       int
	MaxBlockBytes         int

	// Mempool
	MaxNonceGap  uint64
	RBFEnabled   bool
	RBFMargin    float64
	MinFee       int64
	MempoolTTL   time.Duration

	// Checkpoint sync
	CheckpointQuorum             int
	MinPeerDiversity             int
	CheckpointRequestRateSeconds int
	TrustedCheckpointPubkeys     []string
	ChunkSize                    int
	ChunkFlushInterval           int

	// SPV / cross-chain providers
	ProviderTimeout  time.Duration
	SPVCacheTTL      time.Duration
	EtherscanAPIKey  string

	// Gas sponsorship defaults
	SponsorDefaultBudget int64

	// AI safety
	AuthorizedCallers      []string
	AISafetyRateLimitPath  string
	ProviderRateLimitsJSON string
	RateLimitEntryTTL      time.Duration

	// Faucet (testnet only)
	FaucetDailyAmount int64

	// Data directory layout root; components derive their own subpaths.
	BaseDir string
}

// DefaultConfig returns a Config populated with the protocol defaults from
// this package's constants. Callers apply environment/TOML overrides on
// top of this before constructing the node.
func DefaultConfig() *Config {
	return &Config{
		Network:                      Mainnet,
		Host:                         "0.0.0.0",
		Port:                        30303,
		PoWEnabled:                   true,
		RetargetInterval:             RetargetInterval,
		RetargetMaxFactor:            RetargetMaxFactor,
		RetargetTargetSeconds:        RetargetTargetSeconds,
		FinalityDepth:                FinalityDepth,
		OrphanTTL:                    OrphanTTL,
		ClockSkewBound:               ClockSkewBound,
		MaxBlockTxCount:              MaxBlockTxCount,
		MaxBlockBytes:                MaxBlockBytes,
		MaxNonceGap:                  MaxNonceGap,
		RBFEnabled:                   true,
		RBFMargin:                    RBFMargin,
		MinFee:                       1000, // 0.00001 XAI
		MempoolTTL:                   3 * time.Hour,
		CheckpointQuorum:             CheckpointQuorum,
		MinPeerDiversity:             MinPeerDiversity,
		CheckpointRequestRateSeconds: CheckpointRequestRateSeconds,
		ChunkSize:                    DefaultChunkSize,
		ChunkFlushInterval:           ChunkFlushInterval,
		ProviderTimeout:              ProviderDefaultTimeout,
		SPVCacheTTL:                  SPVCacheTTL,
		RateLimitEntryTTL:            RateLimitEntryTTL,
		FaucetDailyAmount:            10 * AmountScale,
		BaseDir:                      "data",
	}
}
