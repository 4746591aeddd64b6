// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package grammar

// Kind identifies which rule in the spec's grammar matched a line.
type Kind int

// Kind values are ordered exactly as the state machine tries them
// (spec.md §4.4): session-end, instance-join, room-name, leave-room,
// moderation, avatar-switch, remote-API marker, player-join, player-left,
// destroying-fallback.
const (
	KindUnknown Kind = iota
	KindSessionEnd
	KindInstanceJoin
	KindRoomName
	KindLeaveRoom
	KindModeration
	KindAvatarSwitch
	KindAPIMarker
	KindPlayerJoin
	KindPlayerLeft
	KindDestroying
)

// APIMarkerType classifies a remote-API marker's URL (spec.md §4.3, §4.6).
type APIMarkerType int

const (
	APIMarkerNone APIMarkerType = iota
	APIMarkerSecurity
	APIMarkerPrint
	APIMarkerInventory
)

// Event is the tagged-variant result of parsing one log line. Only the
// fields relevant to Kind are populated; this models the spec's §9
// guidance ("mixed-responsibility row" -> tagged variant at the API
// boundary) at the parser layer instead of the storage layer, since the
// store itself still uses one shared join_log table per spec.md §6.
type Event struct {
	Kind      Kind
	Timestamp string // native "YYYY.MM.DD HH:MM:SS" layout, from the line when present

	// Player join/left/destroying
	Username string
	UserID   string // "usr_<uuid>", empty for the Destroying fallback

	// Instance join
	WorldID    string
	InstanceID string
	Region     string

	// Room name
	RoomName string

	// Moderation
	Admin    string
	Target   string
	Reason   string
	Action   string // "ban" or "warn"

	// Avatar switch
	AvatarOwner string
	AvatarName  string

	// Remote-API marker
	CallID        string
	URL           string
	APIMarkerType APIMarkerType
	FileID        string // security-check sub-match
	Version       string // security-check sub-match
	PrintID       string // prints sub-match
	InvOwner      string // inventory sub-match: user/<usr>/...
	InvID         string // inventory sub-match: .../inventory/<inv>
}
