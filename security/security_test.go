// Copyright 2026 Teal.Finance/Fxauth contributors
// This file is part of Teal.Finance/Fxauth,
// a single-admin session server under the MIT License.
// SPDX-License-Identifier: MIT

package security_test

import (
	"strings"
	"testing"

	"github.com/teal-finance/fxauth/security"
)

func TestConstantTimeEqual(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		a, b string
		want bool
	}{
		{"same", "hunter2", "hunter2", true},
		{"empty", "", "", true},
		{"prefix", "hunter2", "hunter", false},
		{"longer", "hunter", "hunter2", false},
		{"last-byte", "hunter2", "hunter3", false},
		{"first-byte", "hunter2", "Hunter2", false},
		{"one-empty", "", "x", false},
	}

	for _, c := range cases {
		c := c // parallel test

		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := security.ConstantTimeEqual(c.a, c.b); got != c.want {
				t.Errorf("ConstantTimeEqual(%q, %q) = %v, want %v", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestPrintableRune(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		r    rune
		want bool
	}{
		{"valid", 't', true},
		{"space", ' ', true},
		{"tab", '\t', false},
		{"LF", '\n', false},
		{"DEL", 127, false},
		{"non-ascii", 'é', false},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := security.PrintableRune(c.r); got != c.want {
				t.Errorf("PrintableRune(%v) = %v, want %v", c.r, got, c.want)
			}
		})
	}
}

func TestPrintable(t *testing.T) {
	t.Parallel()

	if i := security.Printable("/admin/posts?id=3"); i != -1 {
		t.Errorf("Printable() = %d, want -1", i)
	}
	if i := security.Printable("/login\r\nSet-Cookie"); i != 6 {
		t.Errorf("Printable() = %d, want 6", i)
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	got := security.Sanitize("admin\r\nWRN fake log line")
	if strings.ContainsAny(got, "\r\n") {
		t.Errorf("Sanitize() kept a line break: %q", got)
	}
	if !strings.HasPrefix(got, "admin") {
		t.Errorf("Sanitize() = %q, want prefix 'admin'", got)
	}
}

func TestObfuscate(t *testing.T) {
	t.Parallel()

	a := security.Obfuscate("admin")
	b := security.Obfuscate("admin")
	c := security.Obfuscate("root")

	if a != b {
		t.Errorf("Obfuscate is not deterministic: %q != %q", a, b)
	}
	if a == c {
		t.Errorf("Obfuscate(admin) == Obfuscate(root) = %q", a)
	}
	if strings.Contains(a, "admin") {
		t.Errorf("Obfuscate() leaks the input: %q", a)
	}
}
