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
	"time"

	"github.com/go-redis/redis/v7"
)

// RedisSlidingWindowLimiter is a drop-in alternative to
// SlidingWindowLimiter for multi-process sponsor deployments, where the
// sliding-window queue must be shared across node instances rather than
// held in a single process's memory. It stores events as a sorted set
// per scope, scored by Unix-nanosecond timestamp.
type RedisSlidingWindowLimiter struct {
	client *redis.Client
	cfg    WindowConfig
}

func NewRedisSlidingWindowLimiter(client *redis.Client, cfg WindowConfig) *RedisSlidingWindowLimiter {
	return &RedisSlidingWindowLimiter{client: client, cfg: cfg}
}

func zsetKey(scope string) string { return fmt.Sprintf("sponsor:window:%s", scope) }

func (l *RedisSlidingWindowLimiter) countAndGas(scope string, since time.Time) (int, int64, error) {
	key := zsetKey(scope)
	members, err := l.client.ZRangeByScore(key, &redis.ZRangeBy{
		Min: fmt.Sprintf("%d", since.UnixNano()),
		Max: "+inf",
	}).Result()
	if err != nil {
		return 0, 0, err
	}
	var gas int64
	for _, m := range members {
		var gasValue int64
		fmt.Sscanf(m, "%d:", &gasValue)
		gas += gasValue
	}
	return len(members), gas, nil
}

// Allow checks every configured window against the shared Redis state.
func (l *RedisSlidingWindowLimiter) Allow(scope string, requestedGas int64) (bool, error) {
	now := time.Now()
	for _, w := range l.cfg.windows() {
		if w.Span == 0 {
			continue
		}
		count, gas, err := l.countAndGas(scope, now.Add(-w.Span))
		if err != nil {
			return false, err
		}
		if w.CapCount > 0 && count >= w.CapCount {
			return false, nil
		}
		if w.CapGas > 0 && gas+requestedGas > w.CapGas {
			return false, nil
		}
	}
	return true, nil
}

// Admit records the event and trims entries older than 24h.
func (l *RedisSlidingWindowLimiter) Admit(scope string, gas int64) error {
	key := zsetKey(scope)
	now := time.Now()
	member := fmt.Sprintf("%d:%d", gas, now.UnixNano())
	if err := l.client.ZAdd(key, &redis.Z{Score: float64(now.UnixNano()), Member: member}).Err(); err != nil {
		return err
	}
	cutoff := now.Add(-24 * time.Hour).UnixNano()
	return l.client.ZRemRangeByScore(key, "-inf", fmt.Sprintf("%d", cutoff)).Err()
}
