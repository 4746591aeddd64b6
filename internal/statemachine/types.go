// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package statemachine

import "github.com/tomtom215/vrc-companion/internal/store"

// Location is the live in-memory instance/room the tracked session
// currently occupies. The zero value means "no active location."
type Location struct {
	WorldID    string
	InstanceID string
	Region     string
	RoomName   string
}

// Empty reports whether the location holds no instance.
func (l Location) Empty() bool {
	return l.WorldID == ""
}

// HistoryEntry is one entry in the bounded instance-join history
// (spec.md §4.4 rule 2, cap 200).
type HistoryEntry struct {
	Timestamp  string
	WorldID    string
	InstanceID string
	Region     string
	RoomName   string
	Left       bool
}

const historyCap = 200

// EnrichmentJob is dispatched to the enrichment queue (C9) when a
// remote-API marker line is recognized (spec.md §4.4 rule 6).
type EnrichmentJob struct {
	CallID  string
	URL     string
	Kind    string // "security", "print", "inventory"
	FileID  string
	Version string
	PrintID string
	InvOwner string
	InvID    string
}

// Emitter publishes named events with a JSON-serializable payload to the
// event sink (C2). Implemented by internal/eventsink.Hub.
type Emitter interface {
	Emit(event string, payload interface{})
}

// EnrichmentDispatcher hands work to the enrichment queue (C9): per-item
// lookups, watchlist debounce candidates, and fire-and-forget moderation
// publishing (spec.md §4.4 rule 4, §4.6).
type EnrichmentDispatcher interface {
	// Enqueue pushes one avatar/print/inventory job onto the per-item FIFO.
	Enqueue(job EnrichmentJob)
	// PushWatchlistCandidate adds userID to the pending watchlist batch and
	// (re)starts its debounce timer.
	PushWatchlistCandidate(userID string)
	// PublishModeration best-effort POSTs a ban/warn event to the remote
	// worldlogs endpoint alongside any stored group tokens. No retry.
	PublishModeration(row store.ModerationRow)
}

// Notifier triggers the notification dispatcher (C10) on a player join.
type Notifier interface {
	NotifyJoin(userID, username string)
}

// UsernameCache is the "external notes facade" spec.md §4.4 rule 7
// refers to: it remembers the latest known username per user_id.
type UsernameCache interface {
	// SetUsername overwrites a prior non-empty username only with a
	// different non-empty one; a placeholder is written only when no
	// entry exists yet.
	SetUsername(userID, username string)
}
