// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package sponsor implements gas sponsorship: sponsors underwrite fees for
// registered senders subject to a sliding-window rate limiter enforced
// jointly on transaction count and gas across four windows.
package sponsor

import (
	"sync"
	"time"
)

// Window identifies one of the four sliding-window spans the limiter checks.
type Window struct {
	Span     time.Duration
	CapCount int
	CapGas   int64
}

// WindowConfig is the per-second/minute/hour/day cap configuration.
type WindowConfig struct {
	PerSecond Window
	PerMinute Window
	PerHour   Window
	PerDay    Window
}

func (c WindowConfig) windows() []Window {
	return []Window{c.PerSecond, c.PerMinute, c.PerHour, c.PerDay}
}

type event struct {
	at  time.Time
	gas int64
}

// SlidingWindowLimiter maintains a time-ordered queue of (timestamp, gas)
// events per scope key and checks every configured window jointly.
type SlidingWindowLimiter struct {
	mu     sync.Mutex
	cfg    WindowConfig
	events map[string][]event
}

func NewSlidingWindowLimiter(cfg WindowConfig) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{cfg: cfg, events: make(map[string][]event)}
}

func (l *SlidingWindowLimiter) pruneLocked(scope string, now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	events := l.events[scope]
	i := 0
	for ; i < len(events); i++ {
		if events[i].at.After(cutoff) {
			break
		}
	}
	l.events[scope] = events[i:]
}

func countAndGasSince(events []event, since time.Time) (int, int64) {
	var count int
	var gas int64
	for _, e := range events {
		if e.at.After(since) {
			count++
			gas += e.gas
		}
	}
	return count, gas
}

// Allow checks whether requestedGas can be admitted for scope under every
// window, without recording it. Admit records it after a successful Allow.
func (l *SlidingWindowLimiter) Allow(scope string, requestedGas int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	l.pruneLocked(scope, now)
	events := l.events[scope]
	for _, w := range l.cfg.windows() {
		if w.Span == 0 {
			continue
		}
		count, gas := countAndGasSince(events, now.Add(-w.Span))
		if w.CapCount > 0 && count >= w.CapCount {
			return false
		}
		if w.CapGas > 0 && gas+requestedGas > w.CapGas {
			return false
		}
	}
	return true
}

// Admit records the event after Allow returned true for it.
func (l *SlidingWindowLimiter) Admit(scope string, gas int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events[scope] = append(l.events[scope], event{at: time.Now(), gas: gas})
}

// RetryAfter scans the earliest full window and returns the delay until
// the oldest entry in it ages out.
func (l *SlidingWindowLimiter) RetryAfter(scope string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	events := l.events[scope]
	var worst time.Duration
	for _, w := range l.cfg.windows() {
		if w.Span == 0 || w.CapCount == 0 {
			continue
		}
		count, _ := countAndGasSince(events, now.Add(-w.Span))
		if count < w.CapCount {
			continue
		}
		// oldest entry within this window
		for _, e := range events {
			if e.at.After(now.Add(-w.Span)) {
				remaining := w.Span - now.Sub(e.at)
				if remaining > worst {
					worst = remaining
				}
				break
			}
		}
	}
	return worst
}
