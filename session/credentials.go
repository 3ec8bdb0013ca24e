// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package session

import (
	"github.com/teal-finance/fxauth/security"
)

// Credentials is a username/password pair.
// A nil field means "not provided" (or "not configured" for the admin).
type Credentials struct {
	Username *string
	Password *string
}

// Creds returns credentials with both fields set.
func Creds(username, password string) Credentials {
	return Credentials{Username: &username, Password: &password}
}

// HasPassword reports whether the password is set, even empty.
func (c Credentials) HasPassword() bool {
	return c.Password != nil
}

// Verify reports whether received matches actual.
// Both fields are compared in constant time and both comparisons
// are always evaluated. An unset actual password never matches.
func Verify(actual, received Credentials) bool {
	if actual.Password == nil {
		log.Warning("Admin password not set: login rejected")
		return false
	}

	userOK := equal(actual.Username, received.Username)
	passOK := equal(actual.Password, received.Password)
	return userOK && passOK
}

func equal(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	return security.ConstantTimeEqual(*a, *b)
}
