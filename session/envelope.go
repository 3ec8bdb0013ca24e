// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package session

import (
	"fmt"
	"net/url"

	"github.com/teal-finance/fxauth/aead"
)

// maxCookieSize is the browser limit of a whole cookie.
// A longer value cannot come from Encode.
const maxCookieSize = 4096

// Envelope is the encrypted session payload.
type Envelope struct {
	Nonce      aead.Nonce
	Ciphertext []byte
}

// Encode serializes the envelope as JSON:
// {"nonce":[...12 numbers...],"ciphertext":[...]}
func Encode(env Envelope) string {
	b, err := env.MarshalJSON()
	if err != nil {
		// jwriter only fails when a custom marshaler fails
		panic(fmt.Sprint("Encode envelope: ", err))
	}
	return string(b)
}

// Decode parses the JSON produced by Encode.
// Decode returns false on any malformed, truncated or non-JSON input,
// on a nonce that is not 12 numbers and on a number outside [0..255].
func Decode(s string) (Envelope, bool) {
	var env Envelope
	if len(s) > maxCookieSize {
		log.Debug(fmt.Sprintf("Decode: %d bytes > max=%d", len(s), maxCookieSize))
		return env, false
	}
	if err := env.UnmarshalJSON([]byte(s)); err != nil {
		log.Debug("Decode:", err)
		return Envelope{}, false
	}
	return env, true
}

// EncodeCookie returns the envelope as a valid cookie value.
func EncodeCookie(env Envelope) string {
	return url.QueryEscape(Encode(env))
}

// DecodeCookie reverts EncodeCookie.
func DecodeCookie(value string) (Envelope, bool) {
	s, err := url.QueryUnescape(value)
	if err != nil {
		log.Debug("DecodeCookie:", err)
		return Envelope{}, false
	}
	return Decode(s)
}
