// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package store

import "context"

// ModerationDuplicateExists reports whether a ModerationRow with the same
// (target, reason) already lies in [windowStart, ts] (spec.md §4.4 rule 4,
// property 5). This is an exact-match store predicate, deliberately not
// the teacher's cache.SlidingWindowCounter — see DESIGN.md.
func (s *Store) ModerationDuplicateExists(ctx context.Context, target, reason, windowStart, ts string) (bool, error) {
	var count int
	err := s.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM ban_logs
		WHERE target = ? AND reason = ? AND timestamp BETWEEN ? AND ?`,
		target, reason, windowStart, ts).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertModerationRow inserts a ban_logs row.
func (s *Store) InsertModerationRow(ctx context.Context, row ModerationRow) error {
	actionType := row.ActionType
	if actionType == "" {
		actionType = "ban"
	}
	location := row.Location
	if location == "" {
		location = "N/A"
	}
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO ban_logs (admin, target, reason, timestamp, action_type, location)
		VALUES (?, ?, ?, ?, ?, ?)`,
		row.Admin, row.Target, row.Reason, row.Timestamp, actionType, location)
	return err
}

// ModerationLogsPage returns ban_logs rows, newest first.
func (s *Store) ModerationLogsPage(ctx context.Context, offset, limit int) ([]ModerationRow, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, admin, target, reason, timestamp, action_type, location
		FROM ban_logs
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ModerationRow
	for rows.Next() {
		var r ModerationRow
		if err := rows.Scan(&r.ID, &r.Admin, &r.Target, &r.Reason, &r.Timestamp, &r.ActionType, &r.Location); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
