// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package store

// JoinRow is a row of join_log representing either a player occupancy
// span or a system/instance marker (is_system=true).
type JoinRow struct {
	ID               int64
	UserID           string
	Username         string
	JoinTimestamp    string
	LeaveTimestamp   string
	IsSystem         bool
	EventKind        string
	Message          string
	WorldID          string
	InstanceID       string
	Region           string
	GroupWatchlisted bool
}

// ModerationRow is a row of ban_logs.
type ModerationRow struct {
	ID         int64
	Admin      string
	Target     string
	Reason     string
	Timestamp  string
	ActionType string
	Location   string
}

// AvatarLogRow is a row of avatar_logs.
type AvatarLogRow struct {
	ID         int64
	Timestamp  string
	Username   string
	AvatarName string
}

// AvatarDetails is a row of avatar_details.
type AvatarDetails struct {
	AvatarName   string
	OwnerID      string
	FileID       string
	Version      string
	FileJSON     string
	SecurityJSON string
	UpdatedAt    string
}

// MediaItem is a row of media_items.
type MediaItem struct {
	ID        string
	ItemType  string
	OwnerID   string
	ImageURL  string
	FetchedAt string
}

// GroupAccess is a row of group_access.
type GroupAccess struct {
	GroupID     string
	GroupName   string
	AccessToken string
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
