// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package checkpoint

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xai-blockchain/xai-sub003/common"
	"github.com/xai-blockchain/xai-sub003/crypto"
)

// Chunk is one fixed-size slice of a serialized Payload, addressed by
// index within its snapshot.
type Chunk struct {
	SnapshotID string
	Index      int
	Data       []byte
	Checksum   common.Hash
}

// VerifyChecksum reports whether Checksum matches SHA256(Data).
func (c *Chunk) VerifyChecksum() bool {
	return crypto.Sha256(c.Data) == c.Checksum
}

// SnapshotMetadata describes a chunked snapshot's shape before any chunk
// is fetched, enough to size the download and detect a stale resume.
type SnapshotMetadata struct {
	SnapshotID  string
	Height      uint64
	TotalChunks int
	TotalSize   int64
	StateHash   common.Hash
}

// SyncProgress tracks which chunks of a snapshot have been downloaded, so
// an interrupted download can resume instead of restarting. Persisted by
// a ChunkStore between flushes.
type SyncProgress struct {
	SnapshotID  string       `json:"snapshot_id"`
	TotalChunks int          `json:"total_chunks"`
	Downloaded  map[int]bool `json:"downloaded_chunks"`
	Failed      map[int]bool `json:"failed_chunks"`
	StartedAt   time.Time    `json:"started_at"`
}

func NewSyncProgress(snapshotID string, totalChunks int) *SyncProgress {
	return &SyncProgress{
		SnapshotID:  snapshotID,
		TotalChunks: totalChunks,
		Downloaded:  make(map[int]bool),
		Failed:      make(map[int]bool),
		StartedAt:   time.Now(),
	}
}

func (p *SyncProgress) MarkDownloaded(index int) {
	p.Downloaded[index] = true
	delete(p.Failed, index)
}

func (p *SyncProgress) MarkFailed(index int) { p.Failed[index] = true }

func (p *SyncProgress) IsComplete() bool { return len(p.Downloaded) == p.TotalChunks }

func (p *SyncProgress) ProgressPercent() float64 {
	if p.TotalChunks == 0 {
		return 100
	}
	return float64(len(p.Downloaded)) / float64(p.TotalChunks) * 100
}

// ChunkStore is the persistence boundary for chunked sync: fetching
// individual chunks and durably recording resumable progress. Production
// nodes back this with the same atomic-write snapshot directory the
// account ledger snapshot uses; tests can use an in-memory stub.
type ChunkStore interface {
	SnapshotMetadata(snapshotID string) (*SnapshotMetadata, error)
	GetChunk(snapshotID string, index int) (*Chunk, error)
	LoadProgress(snapshotID string) (*SyncProgress, error)
	SaveProgress(p *SyncProgress) error
	DeleteProgress(snapshotID string) error
}

// Downloader drives a resumable chunked download to completion, flushing
// progress to the store every flushInterval chunks so a crash loses at
// most that many chunks of re-download work.
type Downloader struct {
	store         ChunkStore
	flushInterval int
}

func NewDownloader(store ChunkStore, flushInterval int) *Downloader {
	if flushInterval <= 0 {
		flushInterval = 10
	}
	return &Downloader{store: store, flushInterval: flushInterval}
}

// Run downloads every chunk of snapshotID not already present in a saved
// SyncProgress, then reconstructs and integrity-checks the Payload.
// progressCB, if non-nil, is invoked after every chunk.
func (d *Downloader) Run(snapshotID string, progressCB func(*SyncProgress)) (*Payload, error) {
	meta, err := d.store.SnapshotMetadata(snapshotID)
	if err != nil {
		return nil, fmt.Errorf("checkpoint: snapshot metadata: %w", err)
	}
	if meta == nil {
		return nil, fmt.Errorf("checkpoint: snapshot %s not found", snapshotID)
	}

	progress, err := d.store.LoadProgress(snapshotID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = NewSyncProgress(snapshotID, meta.TotalChunks)
	}

	chunks := make([]*Chunk, meta.TotalChunks)
	for i := 0; i < meta.TotalChunks; i++ {
		if progress.Downloaded[i] {
			c, err := d.store.GetChunk(snapshotID, i)
			if err != nil || c == nil {
				progress.MarkFailed(i)
				continue
			}
			chunks[i] = c
			continue
		}

		c, err := d.store.GetChunk(snapshotID, i)
		if err != nil || c == nil {
			progress.MarkFailed(i)
			_ = d.store.SaveProgress(progress)
			return nil, fmt.Errorf("checkpoint: failed to fetch chunk %d of %s", i, snapshotID)
		}
		if !c.VerifyChecksum() {
			progress.MarkFailed(i)
			_ = d.store.SaveProgress(progress)
			return nil, fmt.Errorf("checkpoint: checksum mismatch on chunk %d of %s", i, snapshotID)
		}
		progress.MarkDownloaded(i)
		chunks[i] = c

		if progressCB != nil {
			progressCB(progress)
		}
		if i%d.flushInterval == 0 {
			if err := d.store.SaveProgress(progress); err != nil {
				return nil, err
			}
		}
	}

	if err := d.store.SaveProgress(progress); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	for _, c := range chunks {
		buf.Write(c.Data)
	}
	var payload Payload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		return nil, fmt.Errorf("checkpoint: reassembled payload is not valid JSON: %w", err)
	}
	if payload.StateHash != meta.StateHash {
		return nil, fmt.Errorf("checkpoint: reassembled state_hash does not match snapshot metadata")
	}
	if err := payload.VerifyIntegrity(); err != nil {
		return nil, err
	}

	_ = d.store.DeleteProgress(snapshotID)
	return &payload, nil
}
