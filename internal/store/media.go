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

// UpsertMediaItem inserts or replaces a media_items row, per spec.md
// §4.6's invChk response handling.
func (s *Store) UpsertMediaItem(ctx context.Context, item MediaItem) error {
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO media_items (id, item_type, owner_id, image_url, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			item_type = EXCLUDED.item_type,
			owner_id = EXCLUDED.owner_id,
			image_url = EXCLUDED.image_url,
			fetched_at = EXCLUDED.fetched_at`,
		item.ID, item.ItemType, item.OwnerID, item.ImageURL, item.FetchedAt)
	return err
}

// MediaItemByID returns a single media_items row, or ok=false if absent.
func (s *Store) MediaItemByID(ctx context.Context, id string) (MediaItem, bool, error) {
	var m MediaItem
	err := s.conn.QueryRowContext(ctx, `
		SELECT id, item_type, owner_id, image_url, fetched_at FROM media_items WHERE id = ?`, id).
		Scan(&m.ID, &m.ItemType, &m.OwnerID, &m.ImageURL, &m.FetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return MediaItem{}, false, nil
	}
	if err != nil {
		return MediaItem{}, false, err
	}
	return m, true, nil
}
