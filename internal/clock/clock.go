// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package clock provides the wall-clock time source used across the
// companion. The log's native timestamp format, "YYYY.MM.DD HH:MM:SS", is
// the canonical ordering key throughout the store; this package is the
// only place that formats or parses it.
package clock

import "time"

// Layout is the log file's native timestamp format (local wall time).
const Layout = "2006.01.02 15:04:05"

// Clock is the time source used by every component that needs "now" or
// needs to compare against a log timestamp. Production code uses Real;
// tests use a Fake so reconstructor/state-machine/dedup tests can control
// time precisely.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time
	// Format renders t in the log's native timestamp layout.
	Format(t time.Time) string
	// FormatNow returns Format(Now()).
	FormatNow() string
	// Parse parses a string in the log's native timestamp layout.
	Parse(s string) (time.Time, error)
}

// Real is the production Clock backed by time.Now.
type Real struct{}

// NewReal returns the production clock.
func NewReal() Real { return Real{} }

func (Real) Now() time.Time { return time.Now() }

func (Real) Format(t time.Time) string { return t.Format(Layout) }

func (r Real) FormatNow() string { return r.Format(r.Now()) }

func (Real) Parse(s string) (time.Time, error) { return time.ParseInLocation(Layout, s, time.Local) }

// Fake is a controllable Clock for tests.
type Fake struct {
	t time.Time
}

// NewFake returns a Fake clock set to t.
func NewFake(t time.Time) *Fake { return &Fake{t: t} }

// Set moves the fake clock to t.
func (f *Fake) Set(t time.Time) { f.t = t }

// Advance moves the fake clock forward by d.
func (f *Fake) Advance(d time.Duration) { f.t = f.t.Add(d) }

func (f *Fake) Now() time.Time { return f.t }

func (f *Fake) Format(t time.Time) string { return t.Format(Layout) }

func (f *Fake) FormatNow() string { return f.Format(f.t) }

func (f *Fake) Parse(s string) (time.Time, error) { return time.ParseInLocation(Layout, s, time.Local) }

// Before reports whether timestamp a (native layout) sorts before b.
// The native layout is fixed-width and most-significant-first, so a plain
// string comparison gives chronological order.
func Before(a, b string) bool { return a < b }
