// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package checkpoint

import (
	"sync"
	"time"
)

// Stage names the phase a sync attempt is currently in.
type Stage string

const (
	StageIdle        Stage = "idle"
	StageDownloading Stage = "downloading"
	StageVerifying   Stage = "verifying"
	StageApplying    Stage = "applying"
	StageCompleted   Stage = "completed"
)

// Progress is a snapshot of sync state, safe to serve over an API endpoint
// or hand to a UI progress callback.
type Progress struct {
	Stage                  Stage      `json:"stage"`
	BytesDownloaded        int64      `json:"bytes_downloaded"`
	TotalBytes             int64      `json:"total_bytes"`
	DownloadPercentage     float64    `json:"download_percentage"`
	VerificationPercentage float64    `json:"verification_percentage"`
	ApplicationPercentage  float64    `json:"application_percentage"`
	StartedAt              *time.Time `json:"started_at,omitempty"`
	EstimatedCompletion    *time.Time `json:"estimated_completion,omitempty"`
}

// ProgressCallback is invoked after every progress update; a failing
// callback never aborts the sync, it is logged and ignored.
type ProgressCallback func(Progress)

type progressTracker struct {
	mu       sync.Mutex
	current  Progress
	callback ProgressCallback
}

func newProgressTracker() *progressTracker {
	return &progressTracker{current: Progress{Stage: StageIdle}}
}

func (t *progressTracker) setCallback(cb ProgressCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callback = cb
}

func (t *progressTracker) snapshot() Progress {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

func (t *progressTracker) update(apply func(*Progress)) {
	t.mu.Lock()
	apply(&t.current)
	snapshot := t.current
	cb := t.callback
	t.mu.Unlock()

	if cb != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Warnw("progress callback panicked", "recover", r)
				}
			}()
			cb(snapshot)
		}()
	}
}

func (t *progressTracker) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = Progress{Stage: StageIdle}
}
