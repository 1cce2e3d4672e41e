package core

import (
	"context"
	"errors"
)

// Recommendation is a free-text track suggestion from the AI persona. It
// names a track; it does not identify one. The matcher resolves it against
// catalog search results.
type Recommendation struct {
	Artist    string `json:"artist"`
	Title     string `json:"title"`
	Rationale string `json:"rationale,omitempty"`
}

// Exclusion names a track the recommender must avoid suggesting.
type Exclusion struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// Recommender produces track suggestions for an AI persona. Calls may be
// slow (seconds) and may fail transiently; callers wrap them in retry.
type Recommender interface {
	Recommend(ctx context.Context, personaStyle string, history []SessionSong, exclusions []Exclusion) (Recommendation, error)
}

// CatalogSearch finds tracks in the music catalog. Results are ranked
// best-first by the catalog's own relevance; the list may be empty.
type CatalogSearch interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]Track, error)
}

// Store is durable key-value persistence for session snapshots and the
// recency cache. Best effort, last write wins; no transactions.
type Store interface {
	Load(key string) ([]byte, error)
	Save(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// ErrNotFound is returned by Store.Load for missing keys.
var ErrNotFound = errors.New("key not found")
