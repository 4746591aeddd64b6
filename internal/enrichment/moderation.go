// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package enrichment

import (
	"github.com/tomtom215/vrc-companion/internal/logging"
	"github.com/tomtom215/vrc-companion/internal/store"
)

// PublishModeration implements statemachine.EnrichmentDispatcher. It
// best-effort forwards a ban/warn row to the remote worldlogs endpoint
// alongside every stored group access token, fire-and-forget with no
// retry (spec.md §4.4 rule 4: "posted once, best effort; a failure is
// logged and otherwise ignored").
func (w *Worker) PublishModeration(row store.ModerationRow) {
	go w.publishModerationAsync(row)
}

func (w *Worker) publishModerationAsync(row store.ModerationRow) {
	ctx := w.rootCtx()

	tokens, err := w.store.ListGroupAccessTokens(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("enrichment: list group access tokens failed for worldlogs publish")
		return
	}

	tokenStrs := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrs = append(tokenStrs, t.AccessToken)
	}

	req := worldLogsRequest{
		Admin:      row.Admin,
		Target:     row.Target,
		Reason:     row.Reason,
		ActionType: row.ActionType,
		Location:   row.Location,
		Tokens:     tokenStrs,
	}

	if _, err := w.client.postJSON(ctx, w.cfg.WorldLogsPath, req); err != nil {
		logging.Error().Err(err).Str("target", row.Target).Msg("enrichment: worldlogs publish failed")
	}
}
