// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package commandapi

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/vrc-companion/internal/store"
)

func pageParams(r *http.Request) (offset, limit int) {
	offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 {
		limit = 100
	}
	return offset, limit
}

func (h *Handler) joinLogsPage(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	rows, err := h.store.JoinLogsPage(r.Context(), offset, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (h *Handler) activeJoinLogs(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.ActiveJoinLogs(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (h *Handler) latestUsername(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	username, err := h.store.LatestUsernameForUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"username": username})
}

func (h *Handler) dedupeOpenJoins(w http.ResponseWriter, r *http.Request) {
	h.machine.RunDedupe(r.Context(), h.clock.FormatNow())
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type setWatchlistedRequest struct {
	UserIDs []string `json:"user_ids" validate:"required,min=1,dive,required"`
}

func (h *Handler) setGroupWatchlisted(w http.ResponseWriter, r *http.Request) {
	var req setWatchlistedRequest
	if err := decodeValidated(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.store.SetGroupWatchlisted(r.Context(), req.UserIDs); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) purgeJoinLogTable(w http.ResponseWriter, r *http.Request) {
	if err := h.store.PurgeJoinLogTable(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type groupAccessRequest struct {
	GroupID     string `json:"group_id" validate:"required"`
	GroupName   string `json:"group_name"`
	AccessToken string `json:"access_token" validate:"required"`
}

func (h *Handler) addGroupAccessToken(w http.ResponseWriter, r *http.Request) {
	var req groupAccessRequest
	if err := decodeValidated(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	g := store.GroupAccess{GroupID: req.GroupID, GroupName: req.GroupName, AccessToken: req.AccessToken}
	if err := h.store.AddGroupAccessToken(r.Context(), g); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) listGroupAccessTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.store.ListGroupAccessTokens(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

func (h *Handler) removeGroupAccessToken(w http.ResponseWriter, r *http.Request) {
	groupID := r.URL.Query().Get("group_id")
	if err := h.store.RemoveGroupAccessToken(r.Context(), groupID); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) avatarLogsPage(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	rows, err := h.store.AvatarLogsPage(r.Context(), offset, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (h *Handler) avatarDetails(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	rows, err := h.store.AvatarDetailsByOwner(r.Context(), ownerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (h *Handler) mediaItem(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	item, ok, err := h.store.MediaItemByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]bool{"found": false})
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (h *Handler) moderationLogsPage(w http.ResponseWriter, r *http.Request) {
	offset, limit := pageParams(r)
	rows, err := h.store.ModerationLogsPage(r.Context(), offset, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

type notifyGroupMatchRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Username string `json:"username" validate:"required"`
}

func (h *Handler) notifyGroupMatch(w http.ResponseWriter, r *http.Request) {
	var req notifyGroupMatchRequest
	if err := decodeValidated(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if h.notify != nil {
		h.notify.NotifyGroupMatch(req.UserID, req.Username)
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
