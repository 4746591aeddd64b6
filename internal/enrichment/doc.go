// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package enrichment batches newly observed user IDs for a watchlist
// check, resolves avatar/print/inventory identifiers against a remote
// service, and fire-and-forgets moderation events to the same service.
// It implements C9.
package enrichment
