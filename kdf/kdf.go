// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

// Package kdf derives the symmetric session key from the admin password.
//
// The salt is public: it only defeats rainbow tables, the password remains
// the only secret. The key is recomputed from (salt, password) and is never
// persisted, so rotating the password invalidates every session cookie.
package kdf

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// KeySize is the size of an AES-256 key.
const KeySize = 32

// MinSaltSize is the minimum salt length accepted by Argon2.
const MinSaltSize = 8

var (
	ErrSaltTooShort  = errors.New("kdf: salt too short")
	ErrInvalidParams = errors.New("kdf: invalid Argon2 parameters")
)

// Key is a 32-byte AES-256 key.
type Key [KeySize]byte

// Params are the Argon2id work factors.
type Params struct {
	MemoryKiB   uint32
	Time        uint32
	Parallelism uint8
}

// Default is the Argon2id configuration recommended by the reference
// implementation: 19 MiB, two passes, one lane.
var Default = Params{
	MemoryKiB:   19 * 1024,
	Time:        2,
	Parallelism: 1,
}

func (p Params) validate() error {
	if p.Time < 1 || p.Parallelism < 1 || p.MemoryKiB < 8*uint32(p.Parallelism) {
		return fmt.Errorf("%w m=%d t=%d p=%d", ErrInvalidParams, p.MemoryKiB, p.Time, p.Parallelism)
	}
	return nil
}

// Derive computes the key using the Default parameters.
func Derive(salt []byte, password string) (Key, error) {
	return Default.Derive(salt, password)
}

// Derive computes the Argon2id key of the (salt, password) pair.
// The salt is passed as-is to Argon2 (no extra hashing).
// The same (salt, password) always produces the same key.
func (p Params) Derive(salt []byte, password string) (Key, error) {
	var key Key

	if len(salt) < MinSaltSize {
		return key, fmt.Errorf("%w: %d bytes, want at least %d", ErrSaltTooShort, len(salt), MinSaltSize)
	}
	if err := p.validate(); err != nil {
		return key, err
	}

	k := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKiB, p.Parallelism, KeySize)
	copy(key[:], k)
	return key, nil
}

// MustDerive is Derive but panics on error.
// MustDerive is reserved to startup where a bad salt is a fatal misconfiguration.
func MustDerive(salt []byte, password string) Key {
	key, err := Derive(salt, password)
	if err != nil {
		panic(err)
	}
	return key
}
