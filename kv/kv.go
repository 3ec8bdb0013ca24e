// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

// Package kv is the small key-value persistence used at startup
// to keep the public salt across restarts.
//
// Two backends are provided: an embedded BadgerDB (default)
// and Redis (when several replicas share the same salt).
package kv

import (
	"context"
	"errors"

	"github.com/teal-finance/emo"
)

var log = emo.NewZone("kv")

var (
	// ErrNotFound is returned by Get when the key is absent.
	ErrNotFound = errors.New("kv: key not found")

	// ErrExists is returned by Insert when the key is already present.
	ErrExists = errors.New("kv: key already exists")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("kv: store closed")
)

// Store is a minimal byte-oriented key-value store.
//
// Insert has insert-if-absent semantics: it never overwrites
// a value and returns ErrExists when the key is already set,
// including when a concurrent writer won the race.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Insert(ctx context.Context, key string, value []byte) error
	Close() error
}
