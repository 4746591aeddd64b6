// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package store

import "context"

// createTableStatements define the full current schema (spec.md §6). Each
// is a CREATE TABLE IF NOT EXISTS so a fresh database and an upgraded one
// converge on the same shape.
var createTableStatements = []string{
	`CREATE TABLE IF NOT EXISTS join_log (
		id BIGINT PRIMARY KEY DEFAULT nextval('join_log_id_seq'),
		user_id TEXT NOT NULL,
		username TEXT,
		join_timestamp TEXT NOT NULL,
		leave_timestamp TEXT,
		is_system INTEGER NOT NULL DEFAULT 0,
		event_kind TEXT,
		message TEXT,
		world_id TEXT,
		instance_id TEXT,
		region TEXT,
		group_watchlisted INTEGER NOT NULL DEFAULT 0,
		UNIQUE(user_id, join_timestamp)
	);`,
	`CREATE TABLE IF NOT EXISTS app_state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS group_access (
		group_id TEXT PRIMARY KEY,
		group_name TEXT NOT NULL,
		access_token TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS avatar_logs (
		id BIGINT PRIMARY KEY DEFAULT nextval('avatar_logs_id_seq'),
		timestamp TEXT NOT NULL,
		username TEXT NOT NULL,
		avatar_name TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS avatar_details (
		avatar_name TEXT,
		owner_id TEXT,
		file_id TEXT,
		version TEXT,
		file_json TEXT,
		security_json TEXT,
		updated_at TEXT,
		PRIMARY KEY (avatar_name, owner_id)
	);`,
	`CREATE TABLE IF NOT EXISTS media_items (
		id TEXT PRIMARY KEY,
		item_type TEXT NOT NULL,
		owner_id TEXT,
		image_url TEXT,
		fetched_at TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS ban_logs (
		id BIGINT PRIMARY KEY DEFAULT nextval('ban_logs_id_seq'),
		admin TEXT NOT NULL,
		target TEXT NOT NULL,
		reason TEXT NOT NULL,
		timestamp TEXT NOT NULL,
		action_type TEXT DEFAULT 'ban',
		location TEXT DEFAULT 'N/A'
	);`,
}

// sequenceStatements create the auto-increment sequences the PK defaults
// above reference; DuckDB has no native serial/autoincrement keyword.
var sequenceStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS join_log_id_seq START 1;`,
	`CREATE SEQUENCE IF NOT EXISTS avatar_logs_id_seq START 1;`,
	`CREATE SEQUENCE IF NOT EXISTS ban_logs_id_seq START 1;`,
}

// indexStatements add the ban_logs indices spec.md §6 calls for.
var indexStatements = []string{
	`CREATE INDEX IF NOT EXISTS idx_ban_logs_timestamp ON ban_logs(timestamp DESC);`,
	`CREATE INDEX IF NOT EXISTS idx_ban_logs_admin ON ban_logs(admin);`,
	`CREATE INDEX IF NOT EXISTS idx_ban_logs_target ON ban_logs(target);`,
}

// additiveColumns lists columns added after the original schema shipped.
// Each entry is applied as ALTER TABLE ... ADD COLUMN IF NOT EXISTS, so
// this package never needs a separate versioned migration runner: missing
// columns are added on startup and unknown (pre-existing) columns are
// preserved, matching spec.md §6's additive/idempotent requirement.
var additiveColumns = []string{
	`ALTER TABLE join_log ADD COLUMN IF NOT EXISTS group_watchlisted INTEGER NOT NULL DEFAULT 0;`,
}

// migrate applies the schema in dependency order: sequences before the
// tables that default from them, tables before their indices, then any
// additive columns layered on afterward.
func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range sequenceStatements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, stmt := range createTableStatements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, stmt := range indexStatements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, stmt := range additiveColumns {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
