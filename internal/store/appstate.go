// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package store

import (
	"context"
	"database/sql"
	"errors"
)

// AppStateGet returns the value for key, or "" if unset.
func (s *Store) AppStateGet(ctx context.Context, key string) (string, error) {
	var value string
	err := s.conn.QueryRowContext(ctx, `SELECT value FROM app_state WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// AppStateSet upserts key to value.
func (s *Store) AppStateSet(ctx context.Context, key, value string) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO app_state (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	return err
}

// Well-known app_state keys.
const (
	AppStateLastLogFilename    = "last_log_filename"
	AppStateLastInstanceJoinTS = "last_instance_join_ts"
)
