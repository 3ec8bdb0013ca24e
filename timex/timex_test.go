// Copyright 2026 Teal.Finance contributors
// Use of this source code is governed by a BSD-style
// license that can be found at:
// https://pkg.go.dev/std?tab=licenses
// SPDX-License-Identifier: BSD-3-Clause

package timex_test

import (
	"errors"
	"testing"
	"time"

	"github.com/teal-finance/fxauth/timex"
)

func TestDateOf(t *testing.T) {
	t.Parallel()

	paris := time.FixedZone("CEST", 2*3600)

	cases := []struct {
		name string
		t    time.Time
		want string
	}{
		{"midnight", time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), "2026-10-14"},
		{"late", time.Date(2026, 10, 14, 23, 59, 59, 999, time.UTC), "2026-10-14"},
		{"zone-ahead", time.Date(2026, 10, 15, 1, 0, 0, 0, paris), "2026-10-14"},
		{"leap", time.Date(2028, 2, 29, 12, 0, 0, 0, time.UTC), "2028-02-29"},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := timex.DateOf(c.t).String(); got != c.want {
				t.Errorf("DateOf(%v) = %v, want %v", c.t, got, c.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		wantErr bool
	}{
		{"2026-10-14", false},
		{"2028-02-29", false},
		{"2026-02-29", true},
		{"2026-13-01", true},
		{"2026-1-4", true},
		{"2026-10-14T10:00:00Z", true},
		{"", true},
		{"garbage!!!", true},
	}

	for _, c := range cases {
		d, err := timex.ParseDate(c.in)
		if (err != nil) != c.wantErr {
			t.Errorf("ParseDate(%q) error = %v, wantErr %v", c.in, err, c.wantErr)
			continue
		}
		if err == nil && d.String() != c.in {
			t.Errorf("ParseDate(%q).String() = %q", c.in, d.String())
		}
	}
}

func TestAddDays(t *testing.T) {
	t.Parallel()

	d, err := timex.ParseDate("2026-12-25")
	if err != nil {
		t.Fatal(err)
	}

	if got := d.AddDays(14).String(); got != "2027-01-08" {
		t.Errorf("AddDays(14) = %v, want 2027-01-08", got)
	}
	if got := d.AddDays(-25).String(); got != "2026-11-30" {
		t.Errorf("AddDays(-25) = %v, want 2026-11-30", got)
	}
	if !d.AddDays(1).After(d) || !d.Before(d.AddDays(1)) || !d.AddDays(0).Equal(d) {
		t.Error("After/Before/Equal inconsistent with AddDays")
	}
}

func TestParseDays(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    int
		wantErr error
	}{
		{"14", 14, nil},
		{"14d", 14, nil},
		{"2w", 14, nil},
		{"1w7d", 14, nil},
		{"336h", 14, nil},
		{"1209600s", 14, nil},
		{" 2w ", 14, nil},
		{"0", 0, nil},
		{"1h", 0, timex.ErrNotWholeDay},
		{"2y", 0, timex.ErrUnknownUnit},
		{"w", 0, timex.ErrNoDigits},
		{"", 0, timex.ErrNoDigits},
		{"99999999999999999999w", 0, timex.ErrOverflow},
	}

	for _, c := range cases {
		c := c

		t.Run(c.in, func(t *testing.T) {
			t.Parallel()

			got, err := timex.ParseDays(c.in)
			if c.wantErr != nil {
				if !errors.Is(err, c.wantErr) {
					t.Errorf("ParseDays(%q) error = %v, want %v", c.in, err, c.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDays(%q) error = %v", c.in, err)
			}
			if got != c.want {
				t.Errorf("ParseDays(%q) = %d, want %d", c.in, got, c.want)
			}
		})
	}
}
