// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package checkpoint

// LocalSource supplies the node's own latest checkpoint, if any.
type LocalSource interface {
	LatestMetadata() (*Metadata, error)
}

// CandidateAdvertisement pairs a peer-reported metadata advertisement with
// the peer ID that sent it, the unit quorum selection counts over.
type CandidateAdvertisement struct {
	Meta   Metadata
	PeerID string
}

// PeerSource asks the network for checkpoint advertisements and can trigger
// a fresh broadcast request for peers that haven't reported one recently.
type PeerSource interface {
	AdvertisedMetadata() ([]CandidateAdvertisement, error)
	RequestCheckpoint() error
}

// chooseNewer picks the highest-height complete metadata among candidates,
// skipping nil or incomplete entries. Ties keep the first candidate seen.
func chooseNewer(candidates ...*Metadata) *Metadata {
	var best *Metadata
	for _, c := range candidates {
		if c == nil || !c.IsComplete() {
			continue
		}
		if best == nil || c.Height > best.Height {
			best = c
		}
	}
	return best
}
