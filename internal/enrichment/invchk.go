// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package enrichment

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vrc-companion/internal/statemachine"
	"github.com/tomtom215/vrc-companion/internal/store"
)

// processInvChk resolves a print or inventory marker against /invChk,
// derives its canonical type/id (spec.md §9 open question 4), and
// upserts a media_items row.
func (w *Worker) processInvChk(ctx context.Context, job statemachine.EnrichmentJob) error {
	id := job.PrintID
	if id == "" {
		id = job.InvID
	}
	if id == "" {
		return nil
	}

	body, err := w.client.postJSON(ctx, w.cfg.InvChkPath, map[string]string{"id": id})
	if err != nil {
		return fmt.Errorf("invChk request: %w", err)
	}

	var envelope struct {
		Payload invChkResponse `json:"payload"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("invChk response: %w", err)
	}
	resp := envelope.Payload

	owner := job.InvOwner
	if owner == "" {
		for _, key := range []string{"ownerId", "owner_id", "holderId", "holder_id"} {
			if v, ok := stringField(resp, key); ok && v != "" {
				owner = v
				break
			}
		}
	}

	itemType := canonicalItemType(resp, id)
	itemID := canonicalItemID(itemType, owner, id)

	imageURL, _ := stringField(resp, "imageUrl")
	if imageURL == "" {
		imageURL, _ = stringField(resp, "image_url")
	}

	item := store.MediaItem{
		ID:        itemID,
		ItemType:  itemType,
		OwnerID:   owner,
		ImageURL:  imageURL,
		FetchedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := w.store.UpsertMediaItem(ctx, item); err != nil {
		return fmt.Errorf("persist media item: %w", err)
	}

	if w.emit != nil {
		w.emit.Emit("media_item_updated", item)
	}
	return nil
}
