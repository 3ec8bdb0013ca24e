// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package kv

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Badger is a Store backed by an embedded BadgerDB.
// Safe for concurrent use from multiple goroutines.
type Badger struct {
	db     *badger.DB
	mu     sync.RWMutex
	closed bool
}

// OpenBadger opens (or creates) the BadgerDB in dir.
// The store only keeps a few bytes: the memory settings are small.
func OpenBadger(dir string) (*Badger, error) {
	opts := badger.DefaultOptions(dir).
		WithSyncWrites(true).
		WithLogger(badgerLogger{}).
		WithMemTableSize(16 << 20).     // 16MB instead of 64MB
		WithValueLogFileSize(16 << 20). // 16MB instead of 1GB
		WithNumMemtables(2)

	return openBadger(opts)
}

// OpenBadgerInMemory creates a BadgerDB that is lost when closed.
// Useful for tests and for the development mode.
func OpenBadgerInMemory() (*Badger, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil)

	return openBadger(opts)
}

func openBadger(opts badger.Options) (*Badger, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("kv: open BadgerDB %q: %w", opts.Dir, err)
	}
	log.Info("BadgerDB opened dir=", opts.Dir, "in-memory=", opts.InMemory)
	return &Badger{db: db}, nil
}

func (b *Badger) isClosed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

// Get returns a copy of the value, or ErrNotFound.
func (b *Badger) Get(_ context.Context, key string) ([]byte, error) {
	if b.isClosed() {
		return nil, ErrClosed
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	return value, err
}

// Insert sets the value only if the key is absent.
// A transaction conflict means another writer inserted
// the key meanwhile, so it is also reported as ErrExists.
func (b *Badger) Insert(_ context.Context, key string, value []byte) error {
	if b.isClosed() {
		return ErrClosed
	}

	err := b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		if err == nil {
			return ErrExists
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set([]byte(key), value)
	})

	if errors.Is(err, badger.ErrConflict) {
		return ErrExists
	}
	return err
}

// Close flushes and closes the database. Close is idempotent.
func (b *Badger) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	return b.db.Close()
}

// badgerLogger forwards the BadgerDB messages to the "kv" zone.
// Badger is verbose at Info level: its Info messages are logged at Debug level.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, v ...any)   { log.Error(fmt.Sprintf("badger: "+format, v...)) }
func (badgerLogger) Warningf(format string, v ...any) { log.Warning(fmt.Sprintf("badger: "+format, v...)) }
func (badgerLogger) Infof(format string, v ...any)    { log.Debug(fmt.Sprintf("badger: "+format, v...)) }
func (badgerLogger) Debugf(format string, v ...any)   { log.Debug(fmt.Sprintf("badger: "+format, v...)) }
