// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package checkpoint

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/xai-blockchain/xai-sub003/params"
	"github.com/xai-blockchain/xai-sub003/xlog"
)

var logger = xlog.NewModuleLogger(xlog.ModuleCheckpoint)

var (
	metricsOnce sync.Once

	acceptedTotal prometheus.Counter
	heightGauge   prometheus.Gauge
	workGauge     prometheus.Gauge
)

func registerMetrics() {
	metricsOnce.Do(func() {
		acceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xai_checkpoint_accepted_total",
			Help: "Number of checkpoints accepted and applied.",
		})
		heightGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xai_checkpoint_height",
			Help: "Height of the most recently accepted checkpoint.",
		})
		workGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "xai_checkpoint_work",
			Help: "Advertised cumulative work of the most recently accepted checkpoint.",
		})
		prometheus.MustRegister(acceptedTotal, heightGauge, workGauge)
	})
}

// Fetcher retrieves a full Payload given a metadata hint (a URL, a local
// file path, or a snapshot id the implementation knows how to resolve).
type Fetcher interface {
	Fetch(meta *Metadata) (*Payload, error)
}

// Applier mutates node state — the account ledger, consensus tip, and
// checkpoint bookkeeping — from a validated Payload.
type Applier interface {
	ApplyCheckpoint(payload *Payload) error
	LatestCheckpointWork() (float64, bool)
}

// ProvenanceEntry is one accepted-checkpoint audit record.
type ProvenanceEntry struct {
	Height    uint64
	BlockHash string
	StateHash string
	Source    string
	Work      float64
	Timestamp int64
}

// Manager coordinates checkpoint discovery, quorum selection, signature
// and work verification, chunked or whole-payload fetch, and application,
// mirroring the node's checkpoint sync coordinator.
type Manager struct {
	mu sync.Mutex

	local  LocalSource
	peers  PeerSource
	fetch  Fetcher
	apply  Applier
	chunks ChunkStore

	quorumCfg        QuorumConfig
	trustedPubkeys   [][]byte
	rateLimit        time.Duration
	lastRequest      time.Time
	provenance       []ProvenanceEntry
	progress         *progressTracker
}

// NewManager wires a Manager. chunks may be nil if chunked sync isn't
// enabled for this node.
func NewManager(cfg *params.Config, local LocalSource, peers PeerSource, fetch Fetcher, apply Applier, chunks ChunkStore, trustedPubkeys [][]byte) *Manager {
	registerMetrics()
	return &Manager{
		local:  local,
		peers:  peers,
		fetch:  fetch,
		apply:  apply,
		chunks: chunks,
		quorumCfg: QuorumConfig{
			Quorum:       cfg.CheckpointQuorum,
			MinDiversity: cfg.MinPeerDiversity,
		},
		trustedPubkeys: trustedPubkeys,
		rateLimit:      time.Duration(cfg.CheckpointRequestRateSeconds) * time.Second,
		progress:       newProgressTracker(),
	}
}

// SetProgressCallback installs a callback invoked on every progress update.
func (m *Manager) SetProgressCallback(cb ProgressCallback) { m.progress.setCallback(cb) }

// Progress returns the current sync progress snapshot.
func (m *Manager) Progress() Progress { return m.progress.snapshot() }

// Provenance returns the accepted-checkpoint audit log.
func (m *Manager) Provenance() []ProvenanceEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]ProvenanceEntry, len(m.provenance))
	copy(out, m.provenance)
	return out
}

// FetchChunkedPayload downloads snapshotID through the resumable chunked
// path instead of a single whole-payload fetch, for nodes on slow or
// unreliable links. Requires a ChunkStore to have been configured.
func (m *Manager) FetchChunkedPayload(snapshotID string, chunkFlushInterval int, progressCB func(*SyncProgress)) (*Payload, error) {
	if m.chunks == nil {
		return nil, fmt.Errorf("checkpoint: chunked sync not enabled")
	}
	m.progress.update(func(p *Progress) {
		now := time.Now()
		*p = Progress{Stage: StageDownloading, StartedAt: &now}
	})

	downloader := NewDownloader(m.chunks, chunkFlushInterval)
	payload, err := downloader.Run(snapshotID, progressCB)
	if err != nil {
		m.progress.reset()
		return nil, err
	}

	m.progress.update(func(p *Progress) {
		p.Stage = StageVerifying
		p.DownloadPercentage = 100
	})
	if err := m.Validate(payload); err != nil {
		m.progress.reset()
		return nil, err
	}
	m.progress.update(func(p *Progress) {
		p.Stage = StageCompleted
		p.VerificationPercentage = 100
	})
	m.logProvenance(payload, "chunked")
	return payload, nil
}

// GetBestCheckpointMetadata picks the newer of the local and peer-reported
// checkpoint metadata, preferring neither by default — by height alone.
func (m *Manager) GetBestCheckpointMetadata() (*Metadata, error) {
	var localMeta, peerMeta *Metadata

	if m.local != nil {
		lm, err := m.local.LatestMetadata()
		if err != nil {
			logger.Warnw("local checkpoint metadata lookup failed", "error", err)
		} else {
			localMeta = lm
		}
	}
	if m.peers != nil {
		ads, err := m.peers.AdvertisedMetadata()
		if err != nil {
			logger.Warnw("peer checkpoint metadata lookup failed", "error", err)
		} else {
			best := SelectByQuorum(ads, m.quorumCfg)
			peerMeta = best
		}
	}
	return chooseNewer(peerMeta, localMeta), nil
}

// Validate runs the integrity, signature, and work-monotonicity checks a
// payload must pass before it's trusted enough to apply.
func (m *Manager) Validate(payload *Payload) error {
	if err := payload.VerifyIntegrity(); err != nil {
		return err
	}
	if err := payload.VerifySignature(m.trustedPubkeys); err != nil {
		return err
	}
	if m.apply != nil {
		if last, ok := m.apply.LatestCheckpointWork(); ok && payload.Work < last {
			return fmt.Errorf("checkpoint: advertised work %f is behind last accepted %f", payload.Work, last)
		}
	}
	return nil
}

// Apply hands payload to the Applier after re-validating it.
func (m *Manager) Apply(payload *Payload) error {
	if err := m.Validate(payload); err != nil {
		return err
	}
	if m.apply == nil {
		return fmt.Errorf("checkpoint: no applier configured")
	}
	if err := m.apply.ApplyCheckpoint(payload); err != nil {
		return err
	}
	m.logProvenance(payload, "apply")
	return nil
}

func (m *Manager) logProvenance(payload *Payload, source string) {
	entry := ProvenanceEntry{
		Height:    payload.Height,
		BlockHash: payload.BlockHash.Hex(),
		StateHash: payload.StateHash.Hex(),
		Source:    source,
		Work:      payload.Work,
		Timestamp: time.Now().Unix(),
	}
	m.mu.Lock()
	m.provenance = append(m.provenance, entry)
	m.mu.Unlock()

	logger.Infow("checkpoint accepted", "height", entry.Height, "block_hash", entry.BlockHash, "source", source)
	acceptedTotal.Inc()
	heightGauge.Set(float64(entry.Height))
	if entry.Work > 0 {
		workGauge.Set(entry.Work)
	}
}

// RequestFromPeers broadcasts a checkpoint request (rate-limited) and, if
// enough distinct peers converge on the same block hash, fetches and
// validates that payload.
func (m *Manager) RequestFromPeers() (*Payload, error) {
	if m.peers == nil {
		return nil, nil
	}

	m.mu.Lock()
	if time.Since(m.lastRequest) < m.rateLimit {
		m.mu.Unlock()
		return nil, nil
	}
	m.lastRequest = time.Now()
	m.mu.Unlock()

	if err := m.peers.RequestCheckpoint(); err != nil {
		logger.Warnw("checkpoint broadcast request failed", "error", err)
		return nil, nil
	}

	ads, err := m.peers.AdvertisedMetadata()
	if err != nil {
		return nil, nil
	}
	meta := SelectByQuorum(ads, m.quorumCfg)
	if meta == nil {
		return nil, nil
	}
	payload, err := m.fetch.Fetch(meta)
	if err != nil || payload == nil {
		return nil, err
	}
	if err := m.Validate(payload); err != nil {
		return nil, err
	}
	m.logProvenance(payload, "p2p")
	return payload, nil
}

// FetchValidateApply runs the end-to-end bootstrap: pick the best
// metadata, fetch its payload, validate it, and apply it — falling back
// to a direct peer request if metadata-driven fetch comes up empty.
func (m *Manager) FetchValidateApply() (bool, error) {
	m.progress.update(func(p *Progress) {
		now := time.Now()
		*p = Progress{Stage: StageDownloading, StartedAt: &now}
	})

	meta, _ := m.GetBestCheckpointMetadata()
	var payload *Payload
	var err error
	if meta != nil && m.fetch != nil {
		payload, err = m.fetch.Fetch(meta)
		if err != nil {
			logger.Warnw("checkpoint fetch failed", "error", err)
			payload = nil
		}
	}

	if payload == nil {
		payload, err = m.RequestFromPeers()
		if err != nil {
			m.progress.reset()
			return false, err
		}
	}
	if payload == nil {
		m.progress.reset()
		return false, nil
	}

	m.progress.update(func(p *Progress) {
		p.Stage = StageVerifying
		p.DownloadPercentage = 100
	})

	if err := m.Validate(payload); err != nil {
		m.progress.reset()
		return false, err
	}
	m.progress.update(func(p *Progress) { p.VerificationPercentage = 100 })

	m.progress.update(func(p *Progress) {
		p.Stage = StageApplying
		p.ApplicationPercentage = 0
	})

	if m.apply == nil {
		m.progress.reset()
		return false, fmt.Errorf("checkpoint: no applier configured")
	}
	if err := m.apply.ApplyCheckpoint(payload); err != nil {
		m.progress.reset()
		return false, err
	}
	m.logProvenance(payload, sourceOrUnknown(meta))

	m.progress.update(func(p *Progress) {
		now := time.Now()
		p.Stage = StageCompleted
		p.ApplicationPercentage = 100
		p.EstimatedCompletion = &now
	})
	return true, nil
}

func sourceOrUnknown(meta *Metadata) string {
	if meta == nil {
		return "unknown"
	}
	return meta.Source
}

// BootstrapIfEmpty runs FetchValidateApply only when the local chain has
// no state yet (localHeight == 0), or unconditionally when force is set —
// used by a fresh node to skip full chain replay when a trusted checkpoint
// is available.
func (m *Manager) BootstrapIfEmpty(localHeight uint64, force bool) (bool, error) {
	if localHeight != 0 && !force {
		return false, nil
	}
	return m.FetchValidateApply()
}
