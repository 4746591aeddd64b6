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

type securityCheckJob struct {
	FileID  string `json:"fileId"`
	Version string `json:"version"`
}

type securityCheckRequest struct {
	Jobs []securityCheckJob `json:"jobs"`
}

type securityCheckResponse struct {
	Success bool                  `json:"success"`
	Results []securityCheckResult `json:"results"`
	Error   string                `json:"error"`
}

// processSecurityCheck POSTs the avatar security-check request and
// persists an AvatarDetails row per result item (spec.md §4.6: "for
// each result item with file_id, persist AvatarDetails").
func (w *Worker) processSecurityCheck(ctx context.Context, job statemachine.EnrichmentJob) error {
	body, err := w.client.postJSON(ctx, w.cfg.SecurityCheckPath, securityCheckRequest{
		Jobs: []securityCheckJob{{FileID: job.FileID, Version: job.Version}},
	})
	if err != nil {
		return fmt.Errorf("security check request: %w", err)
	}

	var resp securityCheckResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("security check response: %w", err)
	}
	if !resp.Success {
		return fmt.Errorf("security check request: %s", resp.Error)
	}

	for _, r := range resp.Results {
		if r.FileID == "" {
			continue
		}
		fileJSON, _ := json.Marshal(r.File)
		securityJSON, _ := json.Marshal(r.Security)
		details := store.AvatarDetails{
			AvatarName:   normalizeAvatarName(r.AvatarName),
			OwnerID:      r.OwnerID,
			FileID:       r.FileID,
			Version:      r.Version,
			FileJSON:     string(fileJSON),
			SecurityJSON: string(securityJSON),
			UpdatedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if err := w.store.UpsertAvatarDetails(ctx, details); err != nil {
			return fmt.Errorf("persist avatar details: %w", err)
		}
		if w.emit != nil {
			w.emit.Emit("api_checks_result", details)
		}
	}
	return nil
}
