// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package swap

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/pborman/uuid"

	"github.com/xai-blockchain/xai-sub003/crypto"
	"github.com/xai-blockchain/xai-sub003/xlog"
)

var logger = xlog.NewModuleLogger(xlog.ModuleSwap)

// ErrKind mirrors the stable-code pattern used across admission pipelines.
type ErrKind string

const (
	ErrBadSecret          ErrKind = "BadSecret"
	ErrTimelockExpired    ErrKind = "TimelockExpired"
	ErrTimelockActive     ErrKind = "TimelockActive"
	ErrAlreadyClaimed     ErrKind = "AlreadyClaimed"
	ErrTransitionInvalid  ErrKind = "SwapTransitionInvalid"
)

type SwapError struct {
	Kind    ErrKind
	Message string
}

func (e *SwapError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

// Persister writes a contract atomically to durable storage; swap/engine
// depends only on this narrow interface so it doesn't import storage.
type Persister interface {
	SaveSwap(c *Contract) error
}

// Store holds every swap contract in memory, each guarded by its own
// mutex (per-swap reentrant lock per spec §4.3), with a Persister backing
// every transition to disk before the call returns.
type Engine struct {
	mu       sync.RWMutex
	contracts map[string]*swapLock

	persist       Persister
	addressPrefix string
}

type swapLock struct {
	mu       sync.Mutex
	contract *Contract
}

func NewEngine(persist Persister, addressPrefix string) *Engine {
	return &Engine{
		contracts:     make(map[string]*swapLock),
		persist:       persist,
		addressPrefix: addressPrefix,
	}
}

// CreateSwap generates or accepts a secret, builds protocol artifacts, and
// persists the contract at state Initiated.
func (e *Engine) CreateSwap(coin CoinType, amountLocal int64, amountRemote float64, counterparty string, timelockHours int, secret []byte, recipientPubkey, senderPubkey string) (*Contract, error) {
	if secret == nil {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate secret: %w", err)
		}
	}
	secretHash := crypto.Sha256(secret)
	timelock := time.Now().Add(time.Duration(timelockHours) * time.Hour).Unix()
	proto := protocolForCoin(coin)

	c := &Contract{
		SwapID:       uuid.New(),
		Coin:         coin,
		Protocol:     proto,
		SecretHash:   secretHash,
		Secret:       secret,
		TimelockUnix: timelock,
		Counterparty: counterparty,
		AmountLocal:  amountLocal,
		AmountRemote: amountRemote,
		State:        StateInitiated,
	}
	c.appendHistory("created", nil)

	switch proto {
	case UtxoHTLC:
		artifacts, err := BuildUTXOContract(e.addressPrefix, secretHash, recipientPubkey, senderPubkey, timelock)
		if err != nil {
			return nil, err
		}
		c.UTXO = artifacts
	case EthereumHTLC:
		c.Ethereum = BuildEthereumContract(hex.EncodeToString(secretHash[:]), counterparty, timelock, fmt.Sprintf("%d", amountLocal))
	case MoneroHTLC:
		c.Monero = buildMoneroArtifacts()
		e.store(c)
		return c, ErrUnsupportedProtocol
	}

	e.store(c)
	if err := e.persist.SaveSwap(c); err != nil {
		return nil, fmt.Errorf("persist swap: %w", err)
	}
	logger.Infow("swap created", "swap_id", c.SwapID, "coin", coin)
	return c, nil
}

func (e *Engine) store(c *Contract) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.contracts[c.SwapID] = &swapLock{contract: c}
}

func (e *Engine) get(swapID string) (*swapLock, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	l, ok := e.contracts[swapID]
	return l, ok
}

// Get returns a read-only snapshot of a contract's current state.
func (e *Engine) Get(swapID string) (*Contract, bool) {
	l, ok := e.get(swapID)
	if !ok {
		return nil, false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := *l.contract
	return &cp, true
}

// VerifyClaim checks a revealed secret against the contract's hash and
// timelock, without mutating state.
func (e *Engine) VerifyClaim(swapID string, secret []byte) error {
	l, ok := e.get(swapID)
	if !ok {
		return fmt.Errorf("swap %s not found", swapID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.contract
	if time.Now().Unix() >= c.TimelockUnix {
		return &SwapError{Kind: ErrTimelockExpired, Message: "timelock has elapsed"}
	}
	if !VerifySecret(secret, c.SecretHash) {
		return &SwapError{Kind: ErrBadSecret, Message: "secret does not match secret_hash"}
	}
	return nil
}

// Claim transitions CounterpartyFunded -> Claimed (or Failed -> Claimed as
// recovery), idempotently: a second call on an already-Claimed swap with
// the same secret returns success without mutating history again.
func (e *Engine) Claim(swapID string, secret []byte) error {
	l, ok := e.get(swapID)
	if !ok {
		return fmt.Errorf("swap %s not found", swapID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.contract

	if c.State == StateClaimed {
		return nil
	}
	if time.Now().Unix() >= c.TimelockUnix {
		return &SwapError{Kind: ErrTimelockExpired, Message: "timelock has elapsed"}
	}
	if !VerifySecret(secret, c.SecretHash) {
		return &SwapError{Kind: ErrBadSecret, Message: "secret does not match secret_hash"}
	}
	if err := c.transition(StateClaimed, "claimed", map[string]interface{}{"secret": secretHex(secret)}); err != nil {
		return &SwapError{Kind: ErrTransitionInvalid, Message: err.Error()}
	}
	c.Secret = secret
	return e.persist.SaveSwap(c)
}

// Refund transitions Funded/CounterpartyFunded -> Refunded once the
// timelock has elapsed.
func (e *Engine) Refund(swapID string) error {
	l, ok := e.get(swapID)
	if !ok {
		return fmt.Errorf("swap %s not found", swapID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.contract

	if c.State == StateRefunded {
		return nil
	}
	if c.State == StateClaimed {
		return &SwapError{Kind: ErrAlreadyClaimed, Message: "swap already claimed"}
	}
	if time.Now().Unix() < c.TimelockUnix {
		return &SwapError{Kind: ErrTimelockActive, Message: "timelock has not elapsed"}
	}
	if err := c.transition(StateRefunded, "refunded", nil); err != nil {
		return &SwapError{Kind: ErrTransitionInvalid, Message: err.Error()}
	}
	return e.persist.SaveSwap(c)
}

// ExternalEvent is an SPV-observed fact about the counterparty chain.
type ExternalEvent struct {
	SwapID string
	Kind   string // "funded" | "counterparty_funded" | "claimed_remote"
	TxID   string
}

// HandleExternalEvent advances state based on SPV-observed funding or
// claim activity from the counterparty chain.
func (e *Engine) HandleExternalEvent(ev ExternalEvent) error {
	l, ok := e.get(ev.SwapID)
	if !ok {
		return fmt.Errorf("swap %s not found", ev.SwapID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.contract

	var next State
	switch ev.Kind {
	case "funded":
		next = StateFunded
	case "counterparty_funded":
		next = StateCounterpartyFunded
	default:
		return fmt.Errorf("unknown external event kind %q", ev.Kind)
	}
	if err := c.transition(next, ev.Kind, map[string]interface{}{"txid": ev.TxID}); err != nil {
		return &SwapError{Kind: ErrTransitionInvalid, Message: err.Error()}
	}
	c.FundingTxID = ev.TxID
	return e.persist.SaveSwap(c)
}

// MarkFailed records a Failed transition for error-path bookkeeping; the
// recovery service is the only other actor allowed to move Failed forward.
func (e *Engine) MarkFailed(swapID, reason string) error {
	l, ok := e.get(swapID)
	if !ok {
		return fmt.Errorf("swap %s not found", swapID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	c := l.contract
	if err := c.transition(StateFailed, "failed", map[string]interface{}{"reason": reason}); err != nil {
		return &SwapError{Kind: ErrTransitionInvalid, Message: err.Error()}
	}
	return e.persist.SaveSwap(c)
}

// ListExpirable returns every non-terminal, non-recovering contract whose
// timelock has passed, for the refund-recovery sweep.
func (e *Engine) ListExpirable(now time.Time) []*Contract {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*Contract
	for _, l := range e.contracts {
		l.mu.Lock()
		c := l.contract
		if !isTerminal(c.State) && c.State != StateInitiated && now.Unix() >= c.TimelockUnix {
			cp := *c
			out = append(out, &cp)
		}
		l.mu.Unlock()
	}
	return out
}

// ListFailed returns every Failed contract still eligible for claim retry
// (timelock not yet elapsed).
func (e *Engine) ListFailed(now time.Time) []*Contract {
	e.mu.RLock()
	defer e.mu.RUnlock()
	var out []*Contract
	for _, l := range e.contracts {
		l.mu.Lock()
		c := l.contract
		if c.State == StateFailed && now.Unix() < c.TimelockUnix {
			cp := *c
			out = append(out, &cp)
		}
		l.mu.Unlock()
	}
	return out
}

// IncrementRecoveryAttempt bumps auto_recovery_attempts under the swap's
// own lock, returning the new count.
func (e *Engine) IncrementRecoveryAttempt(swapID string) (int, error) {
	l, ok := e.get(swapID)
	if !ok {
		return 0, fmt.Errorf("swap %s not found", swapID)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.contract.AutoRecoveryAttempts++
	return l.contract.AutoRecoveryAttempts, e.persist.SaveSwap(l.contract)
}
