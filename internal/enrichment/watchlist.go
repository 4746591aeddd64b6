// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package enrichment

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/vrc-companion/internal/logging"
	"github.com/tomtom215/vrc-companion/internal/metrics"
)

// PushWatchlistCandidate implements statemachine.EnrichmentDispatcher.
// Every player-join line adds its user_id to the pending batch and
// (re)arms a debounce timer; the batch only fires once joins go quiet
// for WatchlistDebounce (spec.md §4.6: "debounced to one request per
// quiet period, not one per join").
func (w *Worker) PushWatchlistCandidate(userID string) {
	if userID == "" {
		return
	}

	w.wlMu.Lock()
	defer w.wlMu.Unlock()

	if _, dup := w.wlPending[userID]; dup {
		metrics.RecordDedupDrop("watchlist")
	}
	w.wlPending[userID] = struct{}{}
	if w.wlTimer != nil {
		w.wlTimer.Stop()
	}
	w.wlTimer = time.AfterFunc(w.cfg.WatchlistDebounce, w.fireWatchlistBatch)
}

// fireWatchlistBatch snapshots and clears the pending set, then checks
// it against every stored group access token. Runs on its own
// goroutine (time.AfterFunc), so it uses the worker's root context
// rather than any single join's request context.
func (w *Worker) fireWatchlistBatch() {
	w.wlMu.Lock()
	if len(w.wlPending) == 0 {
		w.wlMu.Unlock()
		return
	}
	userIDs := make([]string, 0, len(w.wlPending))
	for id := range w.wlPending {
		userIDs = append(userIDs, id)
	}
	w.wlPending = make(map[string]struct{})
	w.wlMu.Unlock()

	ctx := w.rootCtx()

	tokens, err := w.store.ListGroupAccessTokens(ctx)
	if err != nil {
		logging.Error().Err(err).Msg("enrichment: list group access tokens failed")
		return
	}
	if len(tokens) == 0 {
		return
	}

	tokenStrs := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrs = append(tokenStrs, t.AccessToken)
	}

	body, err := w.client.postJSON(ctx, w.cfg.CheckUserPath, checkUserRequest{UserIDs: userIDs, Tokens: tokenStrs})
	if err != nil {
		logging.Error().Err(err).Int("user_count", len(userIDs)).Msg("enrichment: check-user request failed")
		if w.emit != nil {
			w.emit.Emit("group_watch_error", map[string]any{"error": err.Error()})
		}
		return
	}

	var resp checkUserResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logging.Error().Err(err).Msg("enrichment: check-user response decode failed")
		if w.emit != nil {
			w.emit.Emit("group_watch_error", map[string]any{"error": err.Error()})
		}
		return
	}

	if w.emit != nil {
		w.emit.Emit("group_watch_results", resp)
	}
}
