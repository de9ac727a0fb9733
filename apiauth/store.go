// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package apiauth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rjeczalik/notify"
)

// Store holds the live set of API keys, persisted to a JSON file and
// hot-reloaded whenever that file changes on disk, so a key revoked (or
// rotated) by an operator takes effect without a node restart.
type Store struct {
	mu   sync.RWMutex
	path string
	keys map[string]*APIKey

	watchEvents chan notify.EventInfo
	stopCh      chan struct{}
}

type storeFile struct {
	Keys []*APIKey `json:"keys"`
}

// NewStore loads path (if present) and returns a Store. An empty path
// disables persistence entirely and the store starts empty.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, keys: make(map[string]*APIKey)}
	if path == "" {
		return s, nil
	}
	if err := s.reload(); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return s, nil
}

func (s *Store) reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return err
	}
	var file storeFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return err
	}
	keys := make(map[string]*APIKey, len(file.Keys))
	for _, k := range file.Keys {
		keys[k.ID] = k
	}
	s.mu.Lock()
	s.keys = keys
	s.mu.Unlock()
	logger.Infow("reloaded API key store", "path", s.path, "count", len(keys))
	return nil
}

// persist writes the current key set to disk via write-tmp-then-rename.
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	s.mu.RLock()
	file := storeFile{Keys: make([]*APIKey, 0, len(s.keys))}
	for _, k := range s.keys {
		file.Keys = append(file.Keys, k)
	}
	s.mu.RUnlock()

	raw, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Put inserts or replaces a key and persists the store.
func (s *Store) Put(key *APIKey) error {
	s.mu.Lock()
	s.keys[key.ID] = key
	s.mu.Unlock()
	return s.persist()
}

// Get looks up a key by id.
func (s *Store) Get(id string) (*APIKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k, ok := s.keys[id]
	return k, ok
}

// Revoke marks a key revoked in place and persists the change.
func (s *Store) Revoke(id string) error {
	s.mu.Lock()
	k, ok := s.keys[id]
	if ok {
		k.Revoked = true
	}
	s.mu.Unlock()
	if !ok {
		return os.ErrNotExist
	}
	return s.persist()
}

// Deprecate marks id deprecated in favor of successorID, without revoking
// it — requests still succeed but responses carry deprecation headers.
func (s *Store) Deprecate(id, successorID string, at time.Time) error {
	s.mu.Lock()
	k, ok := s.keys[id]
	if ok {
		k.DeprecatedAt = at
		k.SuccessorID = successorID
	}
	s.mu.Unlock()
	if !ok {
		return os.ErrNotExist
	}
	return s.persist()
}

// Watch starts watching the store's backing file for external edits
// (e.g. an operator hand-editing data/api_keys.json) and reloads on
// every change. Call Close to stop.
func (s *Store) Watch() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	s.watchEvents = make(chan notify.EventInfo, 8)
	if err := notify.Watch(filepath.Dir(s.path), s.watchEvents, notify.Write, notify.Create, notify.Rename); err != nil {
		return err
	}
	s.stopCh = make(chan struct{})

	go func() {
		for {
			select {
			case ev := <-s.watchEvents:
				if filepath.Clean(ev.Path()) != filepath.Clean(s.path) {
					continue
				}
				if err := s.reload(); err != nil && !os.IsNotExist(err) {
					logger.Warnw("failed to hot-reload API key store", "error", err)
				}
			case <-s.stopCh:
				return
			}
		}
	}()
	return nil
}

// Close stops the watch goroutine, if one was started.
func (s *Store) Close() {
	if s.stopCh != nil {
		close(s.stopCh)
		notify.Stop(s.watchEvents)
	}
}
