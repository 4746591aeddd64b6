// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package grammar

import "regexp"

// Patterns are compiled once at package init, following the teacher's
// package-level-var compiled-pattern convention (internal/detection).
var (
	timestampPattern = regexp.MustCompile(`(\d{4}\.\d{2}\.\d{2}\s+\d{2}:\d{2}:\d{2})`)

	playerJoinedPattern = regexp.MustCompile(`OnPlayerJoined (.+?) \((usr_[0-9a-fA-F-]+)\)`)
	playerLeftPattern   = regexp.MustCompile(`OnPlayerLeft (.+?) \((usr_[0-9a-fA-F-]+)\)`)
	destroyingPattern   = regexp.MustCompile(`Destroying (.+)$`)

	instanceJoinPattern = regexp.MustCompile(`\[Behaviour\] Joining (wrld_[0-9a-fA-F-]+):([^~\s]+)(?:~region\((\w+)\))?`)
	roomNamePattern     = regexp.MustCompile(`\[Behaviour\] Joining or Creating Room: (.+)$`)

	moderationPattern = regexp.MustCompile(`Admin "([^"]+)" (banned|warned) player "([^"]+)" for the following reason: "([^"]*)"`)

	avatarSwitchPattern = regexp.MustCompile(`\[Behaviour\] Switching (\S+) to avatar (.+)$`)

	apiMarkerPattern    = regexp.MustCompile(`\[API\] \[(\S+)\] Sending Get request to (\S+)`)
	apiSecurityPattern  = regexp.MustCompile(`/analysis/([^/]+)/([^/]+)/security`)
	apiPrintPattern     = regexp.MustCompile(`/prints/(\S+)`)
	apiInventoryPattern = regexp.MustCompile(`user/([^/]+)/inventory/([^/\s]+)`)
)

// sessionEndMarkers are matched as plain substrings, not a single regex,
// per spec.md §4.3 ("Session-end markers" is a set of distinct phrases).
var sessionEndMarkers = []string{
	"Successfully left room",
	"VRCNP: Stopping server",
	"Successfully joined room",
	"VRCApplication: HandleApplicationQuit",
}

// leaveRoomMarker is the subset of session-end markers that additionally
// clears the in-memory location (spec.md §4.4 rule 3).
const leaveRoomMarker = "Successfully left room"

// ExtractTimestamp returns the native-layout timestamp found anywhere in
// the line, or "" if none is present. Per spec.md §4.3, a timestamp
// extracted from the line overrides the clock timestamp wherever present.
func ExtractTimestamp(line string) string {
	m := timestampPattern.FindString(line)
	return m
}

// IsSessionEnd reports whether line contains any session-end marker.
func IsSessionEnd(line string) bool {
	for _, marker := range sessionEndMarkers {
		if containsMarker(line, marker) {
			return true
		}
	}
	return false
}

// IsLeaveRoom reports whether line is specifically the "left room" marker
// (spec.md §4.4 rule 3, distinct from the general session-end handling in
// rule 1).
func IsLeaveRoom(line string) bool {
	return containsMarker(line, leaveRoomMarker)
}

func containsMarker(line, marker string) bool {
	return indexOf(line, marker) >= 0
}

func indexOf(s, substr string) int {
	n, m := len(s), len(substr)
	if m == 0 {
		return 0
	}
	for i := 0; i+m <= n; i++ {
		if s[i:i+m] == substr {
			return i
		}
	}
	return -1
}

// Parse recognizes one VRChat log line and returns the matched Event. The
// second return value is false when the line matches no known pattern
// (spec.md §7 kind 3: grammar miss, silently ignored by the caller).
//
// Rule order matters only insofar as a line is expected to match exactly
// one of these shapes; the state machine (internal/statemachine) is
// responsible for the ordered-rule-dispatch semantics of spec.md §4.4,
// since session-end/leave-room detection there takes priority over the
// line's own Kind when both could apply.
func Parse(line string) (Event, bool) {
	ts := ExtractTimestamp(line)

	if IsSessionEnd(line) {
		kind := KindSessionEnd
		if IsLeaveRoom(line) {
			kind = KindLeaveRoom
		}
		return Event{Kind: kind, Timestamp: ts}, true
	}

	if m := instanceJoinPattern.FindStringSubmatch(line); m != nil {
		return Event{
			Kind:       KindInstanceJoin,
			Timestamp:  ts,
			WorldID:    m[1],
			InstanceID: m[2],
			Region:     m[3],
		}, true
	}

	if m := roomNamePattern.FindStringSubmatch(line); m != nil {
		return Event{Kind: KindRoomName, Timestamp: ts, RoomName: m[1]}, true
	}

	if m := moderationPattern.FindStringSubmatch(line); m != nil {
		action := "ban"
		if m[2] == "warned" {
			action = "warn"
		}
		return Event{
			Kind:      KindModeration,
			Timestamp: ts,
			Admin:     m[1],
			Action:    action,
			Target:    m[3],
			Reason:    m[4],
		}, true
	}

	if m := avatarSwitchPattern.FindStringSubmatch(line); m != nil {
		return Event{
			Kind:        KindAvatarSwitch,
			Timestamp:   ts,
			AvatarOwner: m[1],
			AvatarName:  m[2],
		}, true
	}

	if m := apiMarkerPattern.FindStringSubmatch(line); m != nil {
		ev := Event{Kind: KindAPIMarker, Timestamp: ts, CallID: m[1], URL: m[2]}
		switch {
		case apiSecurityPattern.MatchString(ev.URL):
			sm := apiSecurityPattern.FindStringSubmatch(ev.URL)
			ev.APIMarkerType = APIMarkerSecurity
			ev.FileID, ev.Version = sm[1], sm[2]
		case apiInventoryPattern.MatchString(ev.URL):
			sm := apiInventoryPattern.FindStringSubmatch(ev.URL)
			ev.APIMarkerType = APIMarkerInventory
			ev.InvOwner, ev.InvID = sm[1], sm[2]
		case apiPrintPattern.MatchString(ev.URL):
			sm := apiPrintPattern.FindStringSubmatch(ev.URL)
			ev.APIMarkerType = APIMarkerPrint
			ev.PrintID = sm[1]
		default:
			ev.APIMarkerType = APIMarkerNone
		}
		return ev, true
	}

	if m := playerJoinedPattern.FindStringSubmatch(line); m != nil {
		return Event{Kind: KindPlayerJoin, Timestamp: ts, Username: m[1], UserID: m[2]}, true
	}

	if m := playerLeftPattern.FindStringSubmatch(line); m != nil {
		return Event{Kind: KindPlayerLeft, Timestamp: ts, Username: m[1], UserID: m[2]}, true
	}

	if m := destroyingPattern.FindStringSubmatch(line); m != nil {
		return Event{Kind: KindDestroying, Timestamp: ts, Username: m[1]}, true
	}

	return Event{}, false
}
