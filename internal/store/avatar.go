// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package store

import "context"

// InsertAvatarLog appends an avatar-switch record (spec.md §4.4 rule 5).
func (s *Store) InsertAvatarLog(ctx context.Context, row AvatarLogRow) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO avatar_logs (timestamp, username, avatar_name) VALUES (?, ?, ?)`,
		row.Timestamp, row.Username, row.AvatarName)
	return err
}

// AvatarLogsPage returns avatar_logs rows, newest first.
func (s *Store) AvatarLogsPage(ctx context.Context, offset, limit int) ([]AvatarLogRow, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, timestamp, username, avatar_name
		FROM avatar_logs
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AvatarLogRow
	for rows.Next() {
		var r AvatarLogRow
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Username, &r.AvatarName); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertAvatarDetails inserts or replaces an avatar_details row keyed on
// (avatar_name, owner_id), per spec.md §4.6's security-check response
// handling.
func (s *Store) UpsertAvatarDetails(ctx context.Context, d AvatarDetails) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO avatar_details (avatar_name, owner_id, file_id, version, file_json, security_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (avatar_name, owner_id) DO UPDATE SET
			file_id = EXCLUDED.file_id,
			version = EXCLUDED.version,
			file_json = EXCLUDED.file_json,
			security_json = EXCLUDED.security_json,
			updated_at = EXCLUDED.updated_at`,
		d.AvatarName, d.OwnerID, d.FileID, d.Version, d.FileJSON, d.SecurityJSON, d.UpdatedAt)
	return err
}

// AvatarDetailsByOwner returns every avatar_details row for ownerID.
func (s *Store) AvatarDetailsByOwner(ctx context.Context, ownerID string) ([]AvatarDetails, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT avatar_name, owner_id, file_id, version, file_json, security_json, updated_at
		FROM avatar_details WHERE owner_id = ?`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AvatarDetails
	for rows.Next() {
		var d AvatarDetails
		if err := rows.Scan(&d.AvatarName, &d.OwnerID, &d.FileID, &d.Version, &d.FileJSON, &d.SecurityJSON, &d.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
