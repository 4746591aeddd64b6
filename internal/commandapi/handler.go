// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package commandapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tomtom215/vrc-companion/internal/clock"
	"github.com/tomtom215/vrc-companion/internal/logread"
	"github.com/tomtom215/vrc-companion/internal/middleware"
	"github.com/tomtom215/vrc-companion/internal/notify"
	"github.com/tomtom215/vrc-companion/internal/statemachine"
	"github.com/tomtom215/vrc-companion/internal/store"
)

// chiMiddleware adapts the package's http.HandlerFunc-wrapping middleware
// (kept in that shape since internal/middleware also wraps plain net/http
// handlers elsewhere) to chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// Handler holds the dependencies every command needs, ported from the
// teacher's Handler-struct-plus-chi-router convention.
type Handler struct {
	store          *store.Store
	reader         *logread.Reader
	notify         *notify.Dispatcher
	machine        *statemachine.Machine
	clock          clock.Clock
	allowedOrigins []string
}

// New constructs a command-surface Handler. allowedOrigins is the same
// desktop-UI loopback origin set the event sink's WebSocket upgrader
// checks (config.APIConfig.AllowedOrigins); a nil/empty slice disables
// CORS response headers entirely rather than allowing every origin.
func New(s *store.Store, reader *logread.Reader, dispatcher *notify.Dispatcher, m *statemachine.Machine, c clock.Clock, allowedOrigins []string) *Handler {
	return &Handler{store: s, reader: reader, notify: dispatcher, machine: m, clock: c, allowedOrigins: allowedOrigins}
}

// Router builds the chi router exposing every command under /commands.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	if len(h.allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.allowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: false,
		}))
	}
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chiMiddleware(middleware.Compression))

	r.Route("/commands", func(r chi.Router) {
		r.Post("/start_log_watcher", h.startLogWatcher)
		r.Get("/read_log_info", h.readLogInfo)
		r.Post("/read_log_chunk", h.readLogChunk)
		r.Post("/search_log_file", h.searchLogFile)

		r.Get("/join_logs", h.joinLogsPage)
		r.Get("/active_join_logs", h.activeJoinLogs)
		r.Get("/latest_username", h.latestUsername)
		r.Post("/dedupe_open_joins", h.dedupeOpenJoins)
		r.Post("/set_group_watchlisted", h.setGroupWatchlisted)
		r.Post("/purge_join_log_table", h.purgeJoinLogTable)

		r.Post("/group_access_token", h.addGroupAccessToken)
		r.Get("/group_access_token", h.listGroupAccessTokens)
		r.Delete("/group_access_token", h.removeGroupAccessToken)

		r.Get("/avatar_logs", h.avatarLogsPage)
		r.Get("/avatar_details", h.avatarDetails)
		r.Get("/media_item", h.mediaItem)
		r.Get("/moderation_logs", h.moderationLogsPage)

		r.Post("/notify_group_match", h.notifyGroupMatch)
	})

	return r
}
