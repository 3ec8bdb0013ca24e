// Copyright 2009 The Go Authors. All rights reserved.
// Copyright 2026 Teal.Finance contributors
// Use of this source code is governed by a BSD-style
// license that can be found at:
// https://pkg.go.dev/std?tab=licenses
// SPDX-License-Identifier: BSD-3-Clause

// Package timex extends the standard package time
// with calendar dates (no time-of-day, no time zone).
package timex

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// DateOnly is the layout of a calendar date, as in "2026-10-14".
const DateOnly = "2006-01-02"

const (
	DaySec  = 24 * 3600  // DaySec = number of seconds in one day.
	WeekSec = 7 * DaySec // WeekSec = number of seconds in one week.
)

const (
	Day  = 24 * time.Hour // Day = 24 hours (ignoring daylight savings effects)
	Week = 7 * Day        // Week = 7 days
)

var (
	ErrNoDigits    = errors.New("timex: expecting [0-9]+")
	ErrUnknownUnit = errors.New("timex: unknown unit (valid: s, m, h, d, w)")
	ErrNotWholeDay = errors.New("timex: not a whole number of days")
	ErrOverflow    = errors.New("timex: value overflow")
)

// Date is a calendar day in the proleptic Gregorian calendar.
// The zero Date is 0001-01-01.
type Date struct {
	t time.Time // always midnight UTC
}

// DateOf returns the calendar date of t in UTC.
func DateOf(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current UTC calendar date.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses the "YYYY-MM-DD" layout.
func ParseDate(s string) (Date, error) {
	if len(s) != len(DateOnly) {
		return Date{}, fmt.Errorf("timex: want date %q but got %d bytes", DateOnly, len(s))
	}
	t, err := time.Parse(DateOnly, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

// String formats the date using the "YYYY-MM-DD" layout.
func (d Date) String() string {
	return d.t.Format(DateOnly)
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{d.t.AddDate(0, 0, n)}
}

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool {
	return d.t.After(other.t)
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d.t.Before(other.t)
}

// Equal reports whether d and other are the same day.
func (d Date) Equal(other Date) bool {
	return d.t.Equal(other.t)
}

// Time returns d at midnight UTC.
func (d Date) Time() time.Time {
	return d.t
}

var unitSec = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 3600,
	"d": DaySec,
	"w": WeekSec,
}

// ParseDays parses a positive duration made of whole days
// such as "14d", "2w", "1w7d", "336h" or "1209600s".
// A bare number is a number of days.
func ParseDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrNoDigits
	}

	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("timex: negative days %d", n)
		}
		return n, nil
	}

	var seconds int64

	for i := 0; i < len(s); {
		value, n := integralPart(s[i:])
		if n == 0 {
			return 0, fmt.Errorf("%w in %q at position=%d", ErrNoDigits, s, i)
		}
		i += n

		j := i
		for j < len(s) && (s[j] < '0' || s[j] > '9') {
			j++
		}
		unit, ok := unitSec[s[i:j]]
		if !ok {
			return 0, fmt.Errorf("%w %q in %q", ErrUnknownUnit, s[i:j], s)
		}
		i = j

		if value > (math.MaxInt32*DaySec-seconds)/unit {
			return 0, fmt.Errorf("%w in %q", ErrOverflow, s)
		}
		seconds += value * unit
	}

	if seconds%DaySec != 0 {
		return 0, fmt.Errorf("%w: %q = %ds", ErrNotWholeDay, s, seconds)
	}
	return int(seconds / DaySec), nil
}

// integralPart consumes the leading [0-9]* from s.
func integralPart(s string) (v int64, i int) {
	for i = 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		if v <= math.MaxInt32 { // beyond, the caller reports the overflow
			v = v*10 + int64(c-'0')
		}
	}
	return v, i
}
