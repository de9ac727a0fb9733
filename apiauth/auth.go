// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package apiauth

import (
	"fmt"
	"strings"
	"time"

	"github.com/xai-blockchain/xai-sub003/sponsor"
)

// ErrInvalidKey is returned for an unknown key id, a bad secret, a
// revoked key, or an expired key.
var ErrInvalidKey = fmt.Errorf("apiauth: invalid or inactive API key")

// ErrMissingScope is returned when a key authenticates but lacks the
// scope a request requires.
var ErrMissingScope = fmt.Errorf("apiauth: key lacks required scope")

// ErrRateLimited is returned when a key exceeds its call rate.
var ErrRateLimited = fmt.Errorf("apiauth: rate limit exceeded")

// defaultWindowConfig caps each key to a conservative default call rate;
// an operator with elevated needs gets a dedicated key with its own
// entry, not a bespoke per-key limit.
var defaultWindowConfig = sponsor.WindowConfig{
	PerSecond: sponsor.Window{Span: time.Second, CapCount: 5},
	PerMinute: sponsor.Window{Span: time.Minute, CapCount: 120},
	PerHour:   sponsor.Window{Span: time.Hour, CapCount: 3000},
}

// Authenticator validates API keys and enforces their scope and rate
// limit, wrapping a Store the way PublicBlockChainAPI wraps a Backend.
type Authenticator struct {
	store   *Store
	limiter *sponsor.SlidingWindowLimiter
}

// NewAuthenticator wraps store with a shared sliding-window rate gate
// keyed per API key id.
func NewAuthenticator(store *Store) *Authenticator {
	return &Authenticator{
		store:   store,
		limiter: sponsor.NewSlidingWindowLimiter(defaultWindowConfig),
	}
}

// DeprecationNotice carries the response headers a caller should emit
// when the authenticated key has been marked deprecated.
type DeprecationNotice struct {
	Deprecated  bool
	SuccessorID string
	Since       time.Time
}

// AuthResult is the outcome of a successful Authenticate call.
type AuthResult struct {
	Key        *APIKey
	Deprecation DeprecationNotice
}

// Authenticate verifies keyID/secret against the store and checks the
// key hasn't been revoked or expired.
func (a *Authenticator) Authenticate(keyID, secret string) (*AuthResult, error) {
	key, ok := a.store.Get(keyID)
	if !ok {
		return nil, ErrInvalidKey
	}
	if key.Revoked || key.Expired(time.Now()) {
		return nil, ErrInvalidKey
	}
	if !key.VerifySecret(secret) {
		return nil, ErrInvalidKey
	}

	result := &AuthResult{Key: key}
	if key.Deprecated() {
		result.Deprecation = DeprecationNotice{
			Deprecated:  true,
			SuccessorID: key.SuccessorID,
			Since:       key.DeprecatedAt,
		}
	}
	return result, nil
}

// Authorize checks that key grants scope, after Authenticate succeeded.
func (a *Authenticator) Authorize(key *APIKey, scope Scope) error {
	if !key.HasScope(scope) {
		return ErrMissingScope
	}
	return nil
}

// Gate runs the full authentication chain a request handler needs:
// credential check, rate gate, and scope check, in that order so an
// invalid credential never consumes rate budget.
func (a *Authenticator) Gate(keyID, secret string, scope Scope) (*AuthResult, error) {
	result, err := a.Authenticate(keyID, secret)
	if err != nil {
		return nil, err
	}
	if !a.limiter.Allow(keyID, 1) {
		return nil, ErrRateLimited
	}
	a.limiter.Admit(keyID, 1)

	if err := a.Authorize(result.Key, scope); err != nil {
		return nil, err
	}
	return result, nil
}

// DeprecationHeaders renders notice as the RFC 8594-style header set a
// handler should attach to its response.
func DeprecationHeaders(notice DeprecationNotice) map[string]string {
	if !notice.Deprecated {
		return nil
	}
	headers := map[string]string{
		"Deprecation": notice.Since.UTC().Format(http1123),
	}
	if notice.SuccessorID != "" {
		headers["Link"] = fmt.Sprintf(`<%s>; rel="successor-version"`, notice.SuccessorID)
	}
	return headers
}

const http1123 = "Mon, 02 Jan 2006 15:04:05 GMT"

// ParseScope normalizes a request-supplied scope string.
func ParseScope(raw string) Scope { return Scope(strings.ToLower(strings.TrimSpace(raw))) }
