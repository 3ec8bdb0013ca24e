// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package kdf_test

import (
	"errors"
	"testing"

	"github.com/teal-finance/fxauth/kdf"
)

var salt = []byte("nblVMlxYtvt0rxo3BML3zw")

func TestDeriveDeterministic(t *testing.T) {
	t.Parallel()

	k1, err := kdf.Derive(salt, "hunter2")
	if err != nil {
		t.Fatal("Derive: ", err)
	}
	k2, err := kdf.Derive(salt, "hunter2")
	if err != nil {
		t.Fatal("Derive: ", err)
	}
	if k1 != k2 {
		t.Error("same (salt, password) must produce the same key")
	}
	if k1 == (kdf.Key{}) {
		t.Error("derived key is all zeros")
	}
}

func TestDeriveDiffers(t *testing.T) {
	t.Parallel()

	base := kdf.MustDerive(salt, "hunter2")

	cases := []struct {
		name     string
		salt     []byte
		password string
	}{
		{"other-password", salt, "hunter3"},
		{"empty-password", salt, ""},
		{"other-salt", []byte("AAAAAAAAAAAAAAAAAAAAAA"), "hunter2"},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			k, err := kdf.Derive(c.salt, c.password)
			if err != nil {
				t.Fatal("Derive: ", err)
			}
			if k == base {
				t.Errorf("Derive(%q, %q) collides with the base key", c.salt, c.password)
			}
		})
	}
}

func TestDeriveErrors(t *testing.T) {
	t.Parallel()

	if _, err := kdf.Derive([]byte("short"), "hunter2"); !errors.Is(err, kdf.ErrSaltTooShort) {
		t.Errorf("Derive(short salt) error = %v, want ErrSaltTooShort", err)
	}

	p := kdf.Params{MemoryKiB: 0, Time: 0, Parallelism: 0}
	if _, err := p.Derive(salt, "hunter2"); !errors.Is(err, kdf.ErrInvalidParams) {
		t.Errorf("Derive(zero params) error = %v, want ErrInvalidParams", err)
	}
}

func TestMustDerivePanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("MustDerive did not panic on a short salt")
		}
	}()

	kdf.MustDerive(nil, "hunter2")
}
