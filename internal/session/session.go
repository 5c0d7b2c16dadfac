// Copyright 2026 The Tablepub Authors
// SPDX-License-Identifier: MIT

// Package session holds the explicit per-user editing state: the uploaded
// dataset, the live draft configuration, and the confirmed snapshot that is
// the only thing ever handed to the publisher.
package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/davetashner/tablepub/internal/dataset"
	"github.com/davetashner/tablepub/internal/render"
)

// ErrNothingToConfirm is returned when Confirm runs before any upload.
var ErrNothingToConfirm = errors.New("session: no dataset uploaded")

// ErrNotConfirmed is returned when a publish is requested without a
// confirmed snapshot.
var ErrNotConfirmed = errors.New("session: confirm a snapshot before publishing")

// State is one user's editing session. Draft fields mutate freely; the
// confirmed snapshot is immutable once taken.
type State struct {
	Uploaded  *dataset.Dataset
	Draft     render.Config
	Confirmed *Snapshot

	// LastURL and LastEmbed cache the most recent publish result for
	// redisplay. Nothing is persisted server-side.
	LastURL   string
	LastEmbed string
}

// Snapshot is a frozen (dataset, config) pair plus the HTML rendered from
// it. The publisher only ever receives snapshots, never live drafts.
type Snapshot struct {
	Dataset     *dataset.Dataset
	Config      render.Config
	HTML        string
	Hash        string
	ConfirmedAt time.Time
}

// Manifest is the config.json sidecar recording who published what, when.
type Manifest struct {
	PublishID   string        `json:"publish_id"`
	Publisher   string        `json:"publisher"`
	PublishedAt string        `json:"published_at"`
	Brand       string        `json:"brand"`
	Config      render.Config `json:"config"`
}

// New returns a fresh session with default display options.
func New() *State {
	return &State{Draft: render.DefaultConfig()}
}

// SetDataset replaces the uploaded data wholesale and discards any
// confirmed snapshot and cached publish result, since they describe data
// that no longer exists.
func (s *State) SetDataset(ds *dataset.Dataset) {
	s.Uploaded = ds
	s.Confirmed = nil
	s.LastURL = ""
	s.LastEmbed = ""
}

// Confirm freezes the current draft and dataset into a snapshot, rendering
// the HTML exactly once. Later draft edits do not touch the snapshot.
func (s *State) Confirm(now time.Time) (*Snapshot, error) {
	if s.Uploaded.Empty() {
		return nil, ErrNothingToConfirm
	}

	frozen := s.Draft.Clone()
	html, err := render.Render(s.Uploaded, frozen)
	if err != nil {
		return nil, err
	}

	s.Confirmed = &Snapshot{
		Dataset:     s.Uploaded.Clone(),
		Config:      frozen,
		HTML:        html,
		Hash:        ConfigHash(frozen),
		ConfirmedAt: now.UTC(),
	}
	return s.Confirmed, nil
}

// Dirty reports whether the draft has drifted from the confirmed snapshot.
// A session without a snapshot is always dirty.
func (s *State) Dirty() bool {
	if s.Confirmed == nil {
		return true
	}
	return ConfigHash(s.Draft) != s.Confirmed.Hash
}

// ConfigHash returns a stable fingerprint of a configuration. JSON
// marshaling is deterministic for structs and sorts map keys, so identical
// configs always hash identically.
func ConfigHash(cfg render.Config) string {
	data, err := json.Marshal(cfg)
	if err != nil {
		// Config contains only marshalable fields; this cannot happen.
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Manifest builds the pretty-printed config.json sidecar for this snapshot.
func (sn *Snapshot) Manifest(publisher, publishID string, at time.Time) (string, error) {
	m := Manifest{
		PublishID:   publishID,
		Publisher:   publisher,
		PublishedAt: at.UTC().Format(time.RFC3339),
		Brand:       sn.Config.Brand,
		Config:      sn.Config,
	}
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling publish manifest: %w", err)
	}
	return string(data) + "\n", nil
}
