// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package store is the embedded relational persistence layer: join_log,
// app_state, group_access, avatar_logs, avatar_details, media_items, and
// ban_logs, backed by an embedded DuckDB file. Migrations are additive and
// idempotent — ALTER TABLE ... ADD COLUMN IF NOT EXISTS — so an older
// database file upgrades in place without a separate migration runner.
package store
