// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// ErrDuplicateJoin is returned (and absorbed as a no-op by the caller,
// spec.md §7 kind 4) when a (user_id, join_timestamp) pair is re-ingested.
var ErrDuplicateJoin = errors.New("store: duplicate join row")

// InsertJoinRow inserts a player-join occupancy row. A duplicate
// (user_id, join_timestamp) is reported as ErrDuplicateJoin so callers can
// treat re-tailed lines as a no-op per spec.md §4.4 rule 7.
func (s *Store) InsertJoinRow(ctx context.Context, row JoinRow) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO join_log (user_id, username, join_timestamp, is_system, event_kind, message, world_id, instance_id, region, group_watchlisted)
		VALUES (?, ?, ?, 0, ?, ?, ?, ?, ?, ?)`,
		row.UserID, row.Username, row.JoinTimestamp, row.EventKind, row.Message, row.WorldID, row.InstanceID, row.Region, boolToInt(row.GroupWatchlisted))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateJoin
		}
		return err
	}
	return nil
}

// InsertSystemRow inserts a non-player system/instance marker row (e.g.
// event_kind="instance_changed").
func (s *Store) InsertSystemRow(ctx context.Context, ts, eventKind, message, worldID, instanceID, region string) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO join_log (user_id, username, join_timestamp, is_system, event_kind, message, world_id, instance_id, region)
		VALUES ('', '', ?, 1, ?, ?, ?, ?, ?)`,
		ts, eventKind, message, worldID, instanceID, region)
	return err
}

// CloseLatestOpenJoin closes (sets leave_timestamp) the most recent open
// JoinRow for userID. Returns false, nil if no open row exists (ignored
// per spec.md §4.4 rules 8/9).
func (s *Store) CloseLatestOpenJoin(ctx context.Context, userID, leaveTimestamp string) (bool, error) {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE join_log SET leave_timestamp = ?
		WHERE id = (
			SELECT id FROM join_log
			WHERE user_id = ? AND leave_timestamp IS NULL AND is_system = 0
			ORDER BY join_timestamp DESC
			LIMIT 1
		)`, leaveTimestamp, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CloseAllOpenJoins closes every open (non-system) JoinRow at ts. Used by
// the session-end and instance-join rules (spec.md §4.4 rules 1 and 2).
func (s *Store) CloseAllOpenJoins(ctx context.Context, ts string) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE join_log SET leave_timestamp = ?
		WHERE leave_timestamp IS NULL AND is_system = 0`, ts)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ActiveJoinLogs returns every currently-open (non-system) JoinRow.
func (s *Store) ActiveJoinLogs(ctx context.Context) ([]JoinRow, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, user_id, username, join_timestamp, COALESCE(leave_timestamp, ''), event_kind, message, world_id, instance_id, region, group_watchlisted
		FROM join_log
		WHERE leave_timestamp IS NULL AND is_system = 0
		ORDER BY join_timestamp ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJoinRows(rows)
}

// JoinLogsPage returns a page of join_log rows ordered newest-first.
func (s *Store) JoinLogsPage(ctx context.Context, offset, limit int) ([]JoinRow, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, user_id, username, join_timestamp, COALESCE(leave_timestamp, ''), event_kind, message, world_id, instance_id, region, group_watchlisted
		FROM join_log
		ORDER BY join_timestamp DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJoinRows(rows)
}

// LatestUsernameForUser returns the most recently recorded username for a
// user_id, or "" if none is on file.
func (s *Store) LatestUsernameForUser(ctx context.Context, userID string) (string, error) {
	var username sql.NullString
	err := s.conn.QueryRowContext(ctx, `
		SELECT username FROM join_log
		WHERE user_id = ? AND username IS NOT NULL AND username != ''
		ORDER BY join_timestamp DESC
		LIMIT 1`, userID).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return username.String, nil
}

// DedupeOpenJoins is the periodic maintenance routine from spec.md §4.4:
// for every user with more than one open row, keeps the newest and closes
// the rest at closeAt.
func (s *Store) DedupeOpenJoins(ctx context.Context, closeAt string) (int64, error) {
	res, err := s.conn.ExecContext(ctx, `
		UPDATE join_log SET leave_timestamp = ?
		WHERE is_system = 0 AND leave_timestamp IS NULL AND id NOT IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (PARTITION BY user_id ORDER BY join_timestamp DESC) AS rn
				FROM join_log
				WHERE is_system = 0 AND leave_timestamp IS NULL
			) ranked WHERE rn = 1
		)`, closeAt)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetGroupWatchlisted marks every join_log row of the given user_ids,
// open or closed, as group-watchlisted.
func (s *Store) SetGroupWatchlisted(ctx context.Context, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	placeholders := make([]string, len(userIDs))
	args := make([]interface{}, len(userIDs))
	for i, id := range userIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := `UPDATE join_log SET group_watchlisted = 1 WHERE user_id IN (` + strings.Join(placeholders, ",") + `)`
	_, err := s.conn.ExecContext(ctx, query, args...)
	return err
}

// PurgeJoinLogTable deletes every row from join_log.
func (s *Store) PurgeJoinLogTable(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM join_log`)
	return err
}

func scanJoinRows(rows *sql.Rows) ([]JoinRow, error) {
	var out []JoinRow
	for rows.Next() {
		var r JoinRow
		var eventKind, message, worldID, instanceID, region sql.NullString
		var watchlisted int
		if err := rows.Scan(&r.ID, &r.UserID, &r.Username, &r.JoinTimestamp, &r.LeaveTimestamp,
			&eventKind, &message, &worldID, &instanceID, &region, &watchlisted); err != nil {
			return nil, err
		}
		r.EventKind = eventKind.String
		r.Message = message.String
		r.WorldID = worldID.String
		r.InstanceID = instanceID.String
		r.Region = region.String
		r.GroupWatchlisted = watchlisted != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "unique")
}
