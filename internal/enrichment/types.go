// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package enrichment

// checkUserRequest is the body POSTed to <api>/check-user.
type checkUserRequest struct {
	UserIDs []string `json:"userIds"`
	Tokens  []string `json:"tokens"`
}

// checkUserResponse is the parsed /check-user reply (spec.md §4.6).
type checkUserResponse struct {
	Matches    []map[string]any `json:"matches"`
	Aggregates []map[string]any `json:"aggregates"`
}

// worldLogsRequest is the fire-and-forget body POSTed to
// <api>/api/worldlogs (spec.md §4.4 rule 4).
type worldLogsRequest struct {
	Admin      string   `json:"admin"`
	Target     string   `json:"target"`
	Reason     string   `json:"reason"`
	ActionType string   `json:"action_type"`
	Location   string   `json:"location"`
	Tokens     []string `json:"tokens"`
}

// securityCheckResult is one element of a /api/security-check response
// array (spec.md §4.6: "for each result item with file_id, persist
// AvatarDetails").
type securityCheckResult struct {
	FileID       string         `json:"file_id"`
	Version      string         `json:"version"`
	AvatarName   string         `json:"avatar_name"`
	OwnerID      string         `json:"owner_id"`
	File         map[string]any `json:"file"`
	Security     map[string]any `json:"security"`
}

// invChkResponse is the raw /invChk reply. Its field set is
// inconsistent across item types, which is why the canonical-type
// heuristic in canonical.go exists rather than a fixed struct tag set.
type invChkResponse map[string]any
