// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package apiauth implements API key lifecycle management: issuance,
// scoped authorization, deprecation notices, a rate-limit gate, and
// hot-reload of the on-disk key store so revocation takes effect without
// a restart.
package apiauth

import (
	"time"

	"github.com/pborman/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/xai-blockchain/xai-sub003/xlog"
)

var logger = xlog.NewModuleLogger(xlog.ModuleAPIAuth)

// Scope names one capability an API key grants.
type Scope string

const (
	ScopeReadChain    Scope = "read:chain"
	ScopeSubmitTx     Scope = "submit:tx"
	ScopeSwapCreate   Scope = "swap:create"
	ScopeSponsorAdmin Scope = "sponsor:admin"
	ScopeAdmin        Scope = "admin"
)

// APIKey is one issued credential: an id, a bcrypt hash of its secret,
// the scopes it grants, and its lifecycle timestamps.
type APIKey struct {
	ID           string    `json:"id"`
	SecretHash   []byte    `json:"secret_hash"`
	Scopes       []Scope   `json:"scopes"`
	Label        string    `json:"label"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	Revoked      bool      `json:"revoked"`
	DeprecatedAt time.Time `json:"deprecated_at,omitempty"`
	SuccessorID  string    `json:"successor_id,omitempty"`
}

// HasScope reports whether key grants scope, with admin implying every
// other scope.
func (k *APIKey) HasScope(scope Scope) bool {
	for _, s := range k.Scopes {
		if s == ScopeAdmin || s == scope {
			return true
		}
	}
	return false
}

// Expired reports whether key has passed its expiry, if any is set.
func (k *APIKey) Expired(now time.Time) bool {
	return !k.ExpiresAt.IsZero() && now.After(k.ExpiresAt)
}

// Deprecated reports whether callers should be warned that key will be
// retired, via the Deprecation/Sunset-style response headers.
func (k *APIKey) Deprecated() bool { return !k.DeprecatedAt.IsZero() }

// IssuedKey is returned once, at creation time, and is the only point at
// which the plaintext secret is ever available — it is never persisted.
type IssuedKey struct {
	ID     string
	Secret string
}

// Issue generates a new key id and secret, hashes the secret, and returns
// both the plaintext (for the caller to record) and the persisted record.
func Issue(label string, scopes []Scope, ttl time.Duration) (*IssuedKey, *APIKey, error) {
	id := uuid.New()
	secret := uuid.New()

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	key := &APIKey{
		ID:         id,
		SecretHash: hash,
		Scopes:     scopes,
		Label:      label,
		CreatedAt:  now,
	}
	if ttl > 0 {
		key.ExpiresAt = now.Add(ttl)
	}

	return &IssuedKey{ID: id, Secret: secret}, key, nil
}

// VerifySecret checks a presented secret against key's stored hash.
func (k *APIKey) VerifySecret(secret string) bool {
	return bcrypt.CompareHashAndPassword(k.SecretHash, []byte(secret)) == nil
}
