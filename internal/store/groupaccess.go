// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package store

import "context"

// AddGroupAccessToken upserts a stored group access token.
func (s *Store) AddGroupAccessToken(ctx context.Context, g GroupAccess) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO group_access (group_id, group_name, access_token)
		VALUES (?, ?, ?)
		ON CONFLICT (group_id) DO UPDATE SET
			group_name = EXCLUDED.group_name,
			access_token = EXCLUDED.access_token`,
		g.GroupID, g.GroupName, g.AccessToken)
	return err
}

// ListGroupAccessTokens returns every stored group_access row.
func (s *Store) ListGroupAccessTokens(ctx context.Context) ([]GroupAccess, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT group_id, group_name, access_token FROM group_access`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GroupAccess
	for rows.Next() {
		var g GroupAccess
		if err := rows.Scan(&g.GroupID, &g.GroupName, &g.AccessToken); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// RemoveGroupAccessToken deletes a group_access row by group_id.
func (s *Store) RemoveGroupAccessToken(ctx context.Context, groupID string) error {
	_, err := s.conn.ExecContext(ctx, `DELETE FROM group_access WHERE group_id = ?`, groupID)
	return err
}
