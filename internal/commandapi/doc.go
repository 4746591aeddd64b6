// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package commandapi is the thin HTTP command surface the desktop UI
// drives (spec.md §6's command list), routed with chi the way the
// teacher's internal/api package routes its endpoints. Notes/
// watchlist/settings CRUD are out of scope (spec.md §1 Non-goals) —
// this package exposes only the commands backed by internal/store and
// internal/logread.
package commandapi
