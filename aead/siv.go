// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

// Package aead provides Encrypt() and Decrypt() for
// AEAD (Authenticated Encryption with Associated Data).
// see https://wikiless.org/wiki/Authenticated_encryption
//
// The underlying algorithm is AES-256 GCM-SIV (RFC 8452).
// GCM-SIV is nonce-misuse resistant: even if a random nonce were repeated
// under the same key, only the equality of two identical plaintexts would leak.
// Every Encrypt() still draws a fresh 96-bit nonce from crypto/rand.
//
// The session plaintext is tiny (a date) and logins are rare,
// so the slower SIV construction costs nothing noticeable.
package aead

import (
	"errors"
	"fmt"

	"github.com/teal-finance/emo"
	"github.com/tink-crypto/tink-go/v2/aead/subtle"

	"github.com/teal-finance/fxauth/kdf"
)

var log = emo.NewZone("aead")

// NonceSize is the size of the GCM-SIV nonce (96 bits).
const NonceSize = 12

// TagSize is the size of the authentication tag appended to the ciphertext.
const TagSize = 16

// Nonce is the value used once per encryption.
type Nonce [NonceSize]byte

var ErrShortOutput = errors.New("aead: ciphertext shorter than nonce+tag")

type Cipher struct {
	siv *subtle.AESGCMSIV
}

// New creates an AES-256-GCM-SIV cipher from a derived key.
func New(key kdf.Key) (*Cipher, error) {
	siv, err := subtle.NewAESGCMSIV(key[:])
	if err != nil {
		return nil, fmt.Errorf("aead: AES-GCM-SIV: %w", err)
	}
	return &Cipher{siv: siv}, nil
}

// Encrypt encrypts plaintext with a fresh random nonce.
// The returned ciphertext includes the 16-byte authentication tag.
func (c *Cipher) Encrypt(plaintext []byte) (Nonce, []byte, error) {
	var nonce Nonce

	// output = nonce | ciphertext | tag
	out, err := c.siv.Encrypt(plaintext, nil)
	if err != nil {
		return nonce, nil, err
	}
	if len(out) < NonceSize+TagSize {
		return nonce, nil, fmt.Errorf("%w: %d bytes", ErrShortOutput, len(out))
	}

	copy(nonce[:], out[:NonceSize])
	return nonce, out[NonceSize:], nil
}

// Decrypt authenticates and decrypts the ciphertext.
// Decrypt returns false on tag mismatch, wrong key or malformed input:
// this is the expected path for a cookie encrypted under another
// salt/password generation.
func (c *Cipher) Decrypt(nonce Nonce, ciphertext []byte) ([]byte, bool) {
	if len(ciphertext) < TagSize {
		log.Debug(fmt.Sprintf("Decrypt: ciphertext too short: %d < %d", len(ciphertext), TagSize))
		return nil, false
	}

	in := make([]byte, 0, NonceSize+len(ciphertext))
	in = append(in, nonce[:]...)
	in = append(in, ciphertext...)

	plaintext, err := c.siv.Decrypt(in, nil)
	if err != nil {
		log.Debug("Decrypt:", err)
		return nil, false
	}
	return plaintext, true
}
