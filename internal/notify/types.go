// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package notify

import "context"

// SoundPlayer is the narrow abstraction over whatever OS audio backend
// plays a notification cue. Out of scope per spec.md §1 Non-goals; the
// dispatcher only calls into it.
type SoundPlayer interface {
	// Play plays the sound file at path at the given linear volume
	// (0.0–1.0). It returns an error if the path cannot be opened or
	// decoded, triggering the OS-alias fallback.
	Play(ctx context.Context, path string, volume float64) error
}

// Toaster raises an OS-native toast/notification. Out of scope per
// spec.md §1 Non-goals; the dispatcher only calls into it.
type Toaster interface {
	Toast(ctx context.Context, title, message string) error
}

// WatchFacade is the read side of the external notes/watchlist JSON
// store (spec.md §2: "get_watch(user_id)→bool, get_sound_override(user_id)
// →path?"). The store itself is out of scope; this is its narrow
// interface.
type WatchFacade interface {
	// GetWatch reports whether userID is on the local watchlist.
	GetWatch(userID string) bool
	// GetSoundOverride returns a per-user sound path override, if set.
	GetSoundOverride(userID string) (string, bool)
}
