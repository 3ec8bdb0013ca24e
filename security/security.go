// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

// Package security gathers the small helpers that must stay auditable
// in one place: constant-time comparison and log sanitization.
package security

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/minio/highwayhash"
	"github.com/teal-finance/emo"
)

var log = emo.NewZone("security")

// The code points in the surrogate range are not valid for UTF-8.
const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

// hashKey32bytes is not a secret: Obfuscate only hides
// the raw value from logs and keeps equal inputs correlated.
const hashKey32bytes = "fxauth-obfuscation-key-32-bytes!"

// ConstantTimeEqual reports whether a and b hold the same bytes.
// The time spent does not depend on the content of a and b,
// only on their lengths.
// Every credential or token comparison must go through this function.
func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Sanitize replaces control codes by the tofu symbol
// and invalid UTF-8 codes by the replacement character.
// Sanitize is used to prevent log injection.
func Sanitize(str string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case surrogateMin <= r && r <= surrogateMax, r > utf8.MaxRune:
			return '�'
		case unicode.IsPrint(r):
			return r
		default: // r < 32, r == 127
			return '􏿮'
		}
	}, str)
}

// Printable returns the position of the first non-printable rune,
// or -1 when the whole string is printable.
func Printable(s string) int {
	for i, r := range s {
		if !PrintableRune(r) {
			return i
		}
	}
	return -1
}

// PrintableRune reports whether r is printable and not a line break.
func PrintableRune(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsPrint(r) && r != utf8.RuneError
}

// Obfuscate hashes s with HighwayHash so that an untrusted value
// (e.g. a submitted username) can be logged without being disclosed.
func Obfuscate(s string) string {
	h, err := highwayhash.New64([]byte(hashKey32bytes))
	if err != nil {
		// only possible with a key that is not 32 bytes long
		panic(fmt.Sprint("Obfuscate: ", err))
	}
	_, _ = h.Write([]byte(s))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}
