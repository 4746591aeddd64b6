// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package notify implements the notification dispatcher (C10): a priority
// chain from a player-join line to an audio cue, gated by a single-flight
// flag so overlapping playbacks are dropped rather than queued. The actual
// sound backend and OS toast surface are out of scope (spec.md Non-goals)
// and are reached only through the narrow SoundPlayer/Toaster interfaces.
package notify
