// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

/*
Package session provides a stateless admin session cookie.

🎯 Purpose

A single administrator logs in with a username and a password.
The server keeps no session table: the cookie carries everything.

🔐 Encryption

The key is derived with Argon2id from the durable public salt
and the admin password (see the kdf and salt packages).
Rotating the password or the salt invalidates every cookie.

The plaintext is the UTC calendar date of the login ("YYYY-MM-DD"),
encrypted with AES-256-GCM-SIV (see the aead package).
GCM-SIV keeps the confidentiality even if a random nonce repeats.

🍪 Session cookie

The cookie value is the JSON envelope

	{"nonce":[b0,...,b11],"ciphertext":[...]}

escaped with url.QueryEscape because a cookie value cannot
contain double quotes. The cookie is

	auth=<value>; Path=/; Max-Age=1209600; HttpOnly; Secure; SameSite=Lax

A session is valid while today <= login date + 14 days.
Every other outcome (no cookie, garbage value, wrong key,
expired date, no configured password) means "not logged in".
*/
package session
