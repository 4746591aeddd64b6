// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package commandapi

import (
	"errors"
	"net/http"

	"github.com/tomtom215/vrc-companion/internal/logread"
)

// startLogWatcher reports whether a current log file exists; the
// tailer itself is a supervised service already running independently
// of this command (spec.md §9: the UI call is idempotent status, not a
// lifecycle trigger).
func (h *Handler) startLogWatcher(w http.ResponseWriter, r *http.Request) {
	info, err := h.reader.ReadInfo(r.Context())
	if errors.Is(err, logread.ErrNoCurrentLogFile) {
		respondJSON(w, http.StatusOK, map[string]any{"watching": false})
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"watching": true, "path": info.Path})
}

func (h *Handler) readLogInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.reader.ReadInfo(r.Context())
	if err != nil {
		respondError(w, http.StatusNotFound, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}

type readChunkRequest struct {
	Offset   int64 `json:"offset" validate:"min=0"`
	MaxBytes int64 `json:"max_bytes" validate:"required,min=1,max=10485760"`
}

func (h *Handler) readLogChunk(w http.ResponseWriter, r *http.Request) {
	var req readChunkRequest
	if err := decodeValidated(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	chunk, err := h.reader.ReadChunk(r.Context(), req.Offset, req.MaxBytes)
	if err != nil {
		respondError(w, http.StatusNotFound, err)
		return
	}
	respondJSON(w, http.StatusOK, chunk)
}

type searchRequest struct {
	Query string `json:"query" validate:"required"`
	Token string `json:"token"`
}

func (h *Handler) searchLogFile(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := decodeValidated(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	matches, err := h.reader.Search(r.Context(), req.Query, req.Token)
	if errors.Is(err, logread.ErrSearchCancelled) {
		respondJSON(w, http.StatusOK, map[string]any{"cancelled": true})
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"matches": matches})
}
