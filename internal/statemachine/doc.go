// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package statemachine dispatches grammar.Events against the persistent
// store and in-memory location state in the fixed rule order spec.md §4.4
// defines, stopping at the first matching rule. It is the sole writer of
// store rows reachable from tailed log lines; the session reconstructor
// (internal/tracker) drives the same entry points in replay mode to
// rebuild state without re-emitting events.
package statemachine
