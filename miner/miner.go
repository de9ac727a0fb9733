// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package miner assembles candidate blocks and races a worker pool over
// the PoW search space, in the style of the teacher's CpuAgent: each
// worker watches a cancellation channel closed the instant any worker
// (or a new tip) makes the current search stale.
package miner

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/xai-blockchain/xai-sub003/chain/state"
	"github.com/xai-blockchain/xai-sub003/chain/types"
	"github.com/xai-blockchain/xai-sub003/common"
	"github.com/xai-blockchain/xai-sub003/consensus"
	"github.com/xai-blockchain/xai-sub003/mempool"
	"github.com/xai-blockchain/xai-sub003/params"
	"github.com/xai-blockchain/xai-sub003/xlog"
)

var logger = xlog.NewModuleLogger(xlog.ModuleMiner)

// BlockBroadcaster publishes a newly mined block to the network.
type BlockBroadcaster interface {
	BroadcastBlock(b *types.Block)
}

// Miner assembles a candidate block from the mempool and searches for a
// valid nonce using cfg-many worker goroutines.
type Miner struct {
	cfg      *params.Config
	engine   *consensus.Engine
	mempool  *mempool.Mempool
	ledger   *state.Ledger
	broadcast BlockBroadcaster

	minerAddress common.Address
	numWorkers   int

	mining int32
	stopCh chan struct{}
}

func New(cfg *params.Config, engine *consensus.Engine, mp *mempool.Mempool, ledger *state.Ledger, broadcast BlockBroadcaster, numWorkers int) *Miner {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Miner{
		cfg:          cfg,
		engine:       engine,
		mempool:      mp,
		ledger:       ledger,
		broadcast:    broadcast,
		minerAddress: common.Address(cfg.MinerAddress),
		numWorkers:   numWorkers,
	}
}

// assembleCandidate builds a block body from the mempool plus a coinbase,
// and a header template awaiting a winning nonce.
func (m *Miner) assembleCandidate() (*types.Block, error) {
	tip := m.engine.Tip()
	var index uint64
	var prevHash common.Hash
	if tip != nil {
		index = tip.Header.Index + 1
		prevHash, _ = tip.Hash()
	}

	txs := m.mempool.Snapshot(m.cfg.MaxBlockTxCount - 1)
	var fees int64
	for _, tx := range txs {
		fees += tx.Fee
	}

	coinbase := &types.Transaction{
		Recipient: m.minerAddress,
		Amount:    params.BlockReward(index) + fees,
		Type:      types.TxCoinbase,
		Timestamp: time.Now().Unix(),
	}
	body := append([]*types.Transaction{coinbase}, txs...)

	b := &types.Block{
		Header: types.Header{
			Index:        index,
			PreviousHash: prevHash,
			Timestamp:    time.Now().Unix(),
			Difficulty:   m.engine.DifficultyFor(index),
		},
		Transactions: body,
	}
	root, err := b.ComputeMerkleRoot()
	if err != nil {
		return nil, err
	}
	b.Header.MerkleRoot = root
	return b, nil
}

// MineOne assembles one candidate and races numWorkers goroutines over
// disjoint nonce ranges until one finds a hash meeting the target, or stop
// is closed (new tip observed, or caller cancellation).
func (m *Miner) MineOne(stop <-chan struct{}) (*types.Block, error) {
	candidate, err := m.assembleCandidate()
	if err != nil {
		return nil, err
	}

	found := make(chan uint64, m.numWorkers)
	internalStop := make(chan struct{})
	var once sync.Once
	closeStop := func() { once.Do(func() { close(internalStop) }) }

	var wg sync.WaitGroup
	for w := 0; w < m.numWorkers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			header := candidate.Header
			nonce := uint64(workerID)
			for {
				select {
				case <-stop:
					closeStop()
					return
				case <-internalStop:
					return
				default:
				}
				header.Nonce = nonce
				hash, err := header.Hash()
				if err == nil && consensus.MeetsTarget(hash, header.Difficulty) {
					select {
					case found <- nonce:
					default:
					}
					closeStop()
					return
				}
				nonce += uint64(m.numWorkers)
			}
		}(w)
	}

	wg.Wait()
	select {
	case nonce := <-found:
		candidate.Header.Nonce = nonce
		logger.Infow("block sealed", "index", candidate.Header.Index, "nonce", nonce)
		if m.broadcast != nil {
			m.broadcast.BroadcastBlock(candidate)
		}
		return candidate, nil
	default:
		return nil, nil
	}
}

// Start runs MineOne in a loop until Stop is called, broadcasting each
// sealed block and letting on_receive_block drive the engine's own state.
func (m *Miner) Start() {
	if !atomic.CompareAndSwapInt32(&m.mining, 0, 1) {
		return
	}
	m.stopCh = make(chan struct{})
	go func() {
		for {
			select {
			case <-m.stopCh:
				return
			default:
			}
			if _, err := m.MineOne(m.stopCh); err != nil {
				logger.Warnw("mining round failed", "err", err)
			}
		}
	}()
}

func (m *Miner) Stop() {
	if !atomic.CompareAndSwapInt32(&m.mining, 1, 0) {
		return
	}
	close(m.stopCh)
}
