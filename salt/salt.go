// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

// Package salt obtains the durable public salt of the key derivation.
//
// Re-using the salt between restarts keeps the admin logged in.
// The salt is not a secret: it only defeats precomputed tables.
package salt

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/teal-finance/emo"

	"github.com/teal-finance/fxauth/kv"
)

var log = emo.NewZone("salt")

// Size is the salt length: 16 random bytes in unpadded Base64.
const Size = 22

// Key is the key-value entry holding the salt in production.
const Key = "salt"

// Salt is a 22-byte public salt.
type Salt [Size]byte

// Dev is the constant salt of the non-production mode
// so that sessions survive restarts during development.
var Dev = Salt{
	'n', 'b', 'l', 'V', 'M', 'l', 'x', 'Y', 't', 'v', 't',
	'0', 'r', 'x', 'o', '3', 'B', 'M', 'L', '3', 'z', 'w',
}

var (
	ErrLength  = errors.New("salt: want 22 bytes")
	ErrCorrupt = errors.New("salt: corrupt persisted salt")
)

// String returns the salt characters.
func (s Salt) String() string {
	return string(s[:])
}

// Bytes returns a copy of the salt.
func (s Salt) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, s[:])
	return b
}

// Parse converts a 22-byte string (e.g. from configuration) into a Salt.
func Parse(s string) (Salt, error) {
	return fromBytes([]byte(s))
}

func fromBytes(b []byte) (Salt, error) {
	var s Salt
	if len(b) != Size {
		return s, fmt.Errorf("%w, got %d", ErrLength, len(b))
	}
	copy(s[:], b)
	return s, nil
}

// Generate draws a new salt from crypto/rand.
func Generate() (Salt, error) {
	return generate(rand.Reader)
}

func generate(r io.Reader) (Salt, error) {
	var raw [16]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return Salt{}, fmt.Errorf("salt: read random: %w", err)
	}

	var s Salt
	base64.RawStdEncoding.Encode(s[:], raw[:])
	return s, nil
}

// Obtain returns the salt to use during the whole process lifetime.
//
// Outside production, Obtain returns Dev and never touches the store.
// In production, Obtain reads the salt from the store,
// or generates and persists one on first run.
// When another process persisted its salt first,
// Obtain adopts that one so all replicas share a single salt.
//
// Any error is a startup error: the caller should abort.
func Obtain(ctx context.Context, production bool, store kv.Store) (Salt, error) {
	if !production {
		log.Info("Development mode: use the constant salt")
		return Dev, nil
	}

	if store == nil {
		return Salt{}, errors.New("salt: production mode requires a key-value store")
	}

	s, err := load(ctx, store)
	if err == nil {
		log.Info("Salt loaded from the key-value store")
		return s, nil
	}
	if !errors.Is(err, kv.ErrNotFound) {
		return Salt{}, err
	}

	s, err = Generate()
	if err != nil {
		return Salt{}, err
	}

	err = store.Insert(ctx, Key, s.Bytes())
	switch {
	case err == nil:
		log.Info("First run: new salt persisted")
		return s, nil

	case errors.Is(err, kv.ErrExists):
		log.Warning("Another process persisted the salt first: use its salt")
		return load(ctx, store)

	default:
		return Salt{}, fmt.Errorf("salt: persist: %w", err)
	}
}

func load(ctx context.Context, store kv.Store) (Salt, error) {
	b, err := store.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return Salt{}, err
		}
		return Salt{}, fmt.Errorf("salt: read: %w", err)
	}

	s, err := fromBytes(b)
	if err != nil {
		return Salt{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return s, nil
}
