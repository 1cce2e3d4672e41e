// Package storage provides an embedded key-value store backed by BadgerDB.
// It persists session snapshots and persona recency lists across runs.
package storage

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/tessro/duet/internal/core"
	"github.com/tessro/duet/internal/logger"
)

// Store is a BadgerDB-backed implementation of core.Store.
type Store struct {
	db *badger.DB
}

var _ core.Store = (*Store)(nil)

// Open opens a persistent store at the given directory, creating it if
// needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("storage path is required")
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	opts := badger.DefaultOptions(path).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1).
		WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a store with no disk persistence. Used in tests.
func OpenInMemory() (*Store, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(badgerLogger{})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory storage: %w", err)
	}
	return &Store{db: db}, nil
}

// Load returns the value stored under key, or core.ErrNotFound.
func (s *Store) Load(key string) ([]byte, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load %q: %w", key, err)
	}
	return value, nil
}

// Save stores value under key, replacing any previous value.
func (s *Store) Save(key string, value []byte) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// badgerLogger routes BadgerDB's internal logging into the application
// logger at reduced verbosity.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logger.Error(fmt.Sprintf("badger: "+format, args...))
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logger.Warn(fmt.Sprintf("badger: "+format, args...))
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf("badger: "+format, args...))
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logger.Debug(fmt.Sprintf("badger: "+format, args...))
}
