// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package statemachine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/vrc-companion/internal/clock"
	"github.com/tomtom215/vrc-companion/internal/grammar"
	"github.com/tomtom215/vrc-companion/internal/logging"
	"github.com/tomtom215/vrc-companion/internal/metrics"
	"github.com/tomtom215/vrc-companion/internal/store"
)

// moderationGuardWindow is the "carryover from the previous instance"
// guard (spec.md §4.4 rule 4).
const moderationGuardWindow = 30 * time.Second

// moderationDedupWindow is the exact-match dedup window (spec.md §4.4
// rule 4, property 5).
const moderationDedupWindow = 3 * time.Second

// Machine owns the live location/history/call-id state and dispatches
// grammar.Events against the store in the fixed rule order spec.md §4.4
// defines.
type Machine struct {
	store      *store.Store
	clock      clock.Clock
	emit       Emitter
	enrichment EnrichmentDispatcher
	notifier   Notifier
	usernames  UsernameCache

	mu         sync.Mutex
	location   Location
	history    []HistoryEntry
	lastCallID string
}

// New constructs a Machine. Any of emit/enrichment/notifier/usernames may
// be nil for tests that only exercise store effects.
func New(s *store.Store, c clock.Clock, emit Emitter, enrichment EnrichmentDispatcher, notifier Notifier, usernames UsernameCache) *Machine {
	return &Machine{store: s, clock: c, emit: emit, enrichment: enrichment, notifier: notifier, usernames: usernames}
}

// Location returns a copy of the current in-memory location.
func (m *Machine) Location() Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.location
}

// History returns a copy of the bounded instance-join history.
func (m *Machine) History() []HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]HistoryEntry, len(m.history))
	copy(out, m.history)
	return out
}

// LastCallID returns the last observed remote-API call-id, for
// persistence into internal/tailstate across restarts.
func (m *Machine) LastCallID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastCallID
}

// SetLastCallID restores the call-id dedup state on startup.
func (m *Machine) SetLastCallID(callID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCallID = callID
}

// SetLastInstanceJoinTS persists ts as the moderation guard's reference
// point (spec.md §4.4 rule 4) without touching location/history or
// emitting anything. Used by the session reconstructor (C7) when the
// scanned window's anchor is a "successfully joined room" line with no
// recent instance-join to replay.
func (m *Machine) SetLastInstanceJoinTS(ctx context.Context, ts string) error {
	return m.store.AppStateSet(ctx, store.AppStateLastInstanceJoinTS, ts)
}

// Process dispatches one parsed line against the store in the order
// spec.md §4.4 defines, stopping at the first matching rule. lineClockTS
// is used when the line carries no timestamp of its own. replay
// suppresses Emit calls (session reconstructor, C7) but not store writes.
func (m *Machine) Process(ctx context.Context, ev grammar.Event, lineClockTS string, replay bool) {
	ts := ev.Timestamp
	if ts == "" {
		ts = lineClockTS
	}

	switch ev.Kind {
	case grammar.KindSessionEnd, grammar.KindLeaveRoom:
		m.handleSessionEnd(ctx, ts, ev.Kind == grammar.KindLeaveRoom, replay)
	case grammar.KindInstanceJoin:
		m.handleInstanceJoin(ctx, ev, ts, replay)
	case grammar.KindRoomName:
		m.handleRoomName(ev)
	case grammar.KindModeration:
		m.handleModeration(ctx, ev, ts, replay)
	case grammar.KindAvatarSwitch:
		m.handleAvatarSwitch(ctx, ev, ts)
	case grammar.KindAPIMarker:
		m.handleAPIMarker(ev, replay)
	case grammar.KindPlayerJoin:
		m.handlePlayerJoin(ctx, ev, ts, replay)
	case grammar.KindPlayerLeft:
		m.handlePlayerLeft(ctx, ev, ts, replay)
	case grammar.KindDestroying:
		m.handleDestroying(ctx, ev, ts)
	}
}

func (m *Machine) handleSessionEnd(ctx context.Context, ts string, isLeaveRoom, replay bool) {
	if isLeaveRoom {
		m.mu.Lock()
		m.location = Location{}
		m.history = append(m.history, HistoryEntry{Timestamp: ts, Left: true})
		m.trimHistoryLocked()
		m.mu.Unlock()
		if !replay {
			m.emitSafe("location_update", map[string]any{"cleared": true})
			m.emitSafe("instance_cleared", map[string]any{"timestamp": ts})
		}
		return
	}

	if _, err := m.store.CloseAllOpenJoins(ctx, ts); err != nil {
		logging.Error().Err(err).Msg("statemachine: close all open joins on session end")
		return
	}
	m.mu.Lock()
	m.lastCallID = ""
	m.mu.Unlock()
	if !replay {
		m.emitSafe("db_purged", map[string]any{"timestamp": ts})
	}
}

func (m *Machine) handleInstanceJoin(ctx context.Context, ev grammar.Event, ts string, replay bool) {
	if _, err := m.store.CloseAllOpenJoins(ctx, ts); err != nil {
		logging.Error().Err(err).Msg("statemachine: close all open joins on instance join")
		return
	}

	msg := "instance changed"
	if err := m.store.InsertSystemRow(ctx, ts, "instance_changed", msg, ev.WorldID, ev.InstanceID, ev.Region); err != nil {
		logging.Error().Err(err).Msg("statemachine: insert instance_changed system row")
		return
	}
	if err := m.store.AppStateSet(ctx, store.AppStateLastInstanceJoinTS, ts); err != nil {
		logging.Error().Err(err).Msg("statemachine: set last_instance_join_ts")
		return
	}

	m.mu.Lock()
	m.location = Location{WorldID: ev.WorldID, InstanceID: ev.InstanceID, Region: ev.Region}
	m.history = append(m.history, HistoryEntry{Timestamp: ts, WorldID: ev.WorldID, InstanceID: ev.InstanceID, Region: ev.Region})
	m.trimHistoryLocked()
	m.mu.Unlock()

	if !replay {
		m.emitSafe("instance_changed", map[string]any{
			"timestamp": ts, "world_id": ev.WorldID, "instance_id": ev.InstanceID, "region": ev.Region,
		})
	}
}

func (m *Machine) handleRoomName(ev grammar.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.location.Empty() {
		m.location.RoomName = ev.RoomName
	}
	if n := len(m.history); n > 0 {
		m.history[n-1].RoomName = ev.RoomName
	}
}

func (m *Machine) handleModeration(ctx context.Context, ev grammar.Event, ts string, replay bool) {
	lastJoinTS, err := m.store.AppStateGet(ctx, store.AppStateLastInstanceJoinTS)
	if err != nil {
		logging.Error().Err(err).Msg("statemachine: read last_instance_join_ts for moderation guard")
		return
	}
	if lastJoinTS != "" {
		delta, ok := m.withinGuard(lastJoinTS, ts)
		if ok && delta {
			return
		}
	}

	windowStart := m.subtractWindow(ts, moderationDedupWindow)
	dup, err := m.store.ModerationDuplicateExists(ctx, ev.Target, ev.Reason, windowStart, ts)
	if err != nil {
		logging.Error().Err(err).Msg("statemachine: moderation dedup query")
		return
	}
	if dup {
		metrics.RecordDedupDrop("moderation")
		return
	}

	loc := m.Location()
	location := "N/A"
	if !loc.Empty() {
		location = loc.WorldID + ":" + loc.InstanceID
	}

	row := store.ModerationRow{Admin: ev.Admin, Target: ev.Target, Reason: ev.Reason, Timestamp: ts, ActionType: ev.Action, Location: location}
	if err := m.store.InsertModerationRow(ctx, row); err != nil {
		logging.Error().Err(err).Msg("statemachine: insert moderation row")
		return
	}
	if !replay {
		m.emitSafe("ban_event", row)
		if m.enrichment != nil {
			m.enrichment.PublishModeration(row)
		}
	}
}

func (m *Machine) handleAvatarSwitch(ctx context.Context, ev grammar.Event, ts string) {
	owner := strings.TrimSpace(ev.AvatarOwner)
	name := strings.TrimSpace(ev.AvatarName)
	if owner == "" || name == "" {
		return
	}
	if err := m.store.InsertAvatarLog(ctx, store.AvatarLogRow{Timestamp: ts, Username: owner, AvatarName: name}); err != nil {
		logging.Error().Err(err).Msg("statemachine: insert avatar log")
	}
}

func (m *Machine) handleAPIMarker(ev grammar.Event, replay bool) {
	if ev.APIMarkerType == grammar.APIMarkerNone {
		return
	}

	m.mu.Lock()
	seen := ev.CallID != "" && ev.CallID == m.lastCallID
	if !seen {
		m.lastCallID = ev.CallID
	}
	m.mu.Unlock()
	if seen {
		return
	}

	if m.enrichment == nil {
		return
	}

	job := EnrichmentJob{CallID: ev.CallID, URL: ev.URL}
	switch ev.APIMarkerType {
	case grammar.APIMarkerSecurity:
		job.Kind = "security"
		job.FileID, job.Version = ev.FileID, ev.Version
	case grammar.APIMarkerPrint:
		job.Kind = "print"
		job.PrintID = ev.PrintID
	case grammar.APIMarkerInventory:
		job.Kind = "inventory"
		job.InvOwner, job.InvID = ev.InvOwner, ev.InvID
	}
	m.enrichment.Enqueue(job)
	if !replay {
		m.emitSafe("debug_log", map[string]any{"msg": "enrichment job enqueued", "call_id": ev.CallID})
	}
}

func (m *Machine) handlePlayerJoin(ctx context.Context, ev grammar.Event, ts string, replay bool) {
	err := m.store.InsertJoinRow(ctx, store.JoinRow{UserID: ev.UserID, Username: ev.Username, JoinTimestamp: ts})
	if err != nil && err != store.ErrDuplicateJoin {
		logging.Error().Err(err).Msg("statemachine: insert join row")
		return
	}
	if err == store.ErrDuplicateJoin {
		return
	}

	if m.usernames != nil {
		m.usernames.SetUsername(ev.UserID, ev.Username)
	}
	if !replay && m.notifier != nil {
		m.notifier.NotifyJoin(ev.UserID, ev.Username)
	}
	if !replay && m.enrichment != nil {
		m.enrichment.PushWatchlistCandidate(ev.UserID)
	}
	if !replay {
		m.emitSafe("db_row_inserted", map[string]any{"user_id": ev.UserID, "username": ev.Username, "timestamp": ts})
		m.emitSafe("player_event", map[string]any{"kind": "join", "user_id": ev.UserID, "username": ev.Username})
	}
}

func (m *Machine) handlePlayerLeft(ctx context.Context, ev grammar.Event, ts string, replay bool) {
	closed, err := m.store.CloseLatestOpenJoin(ctx, ev.UserID, ts)
	if err != nil {
		logging.Error().Err(err).Msg("statemachine: close open join on player left")
		return
	}
	if !closed {
		return
	}
	if !replay {
		m.emitSafe("db_row_updated", map[string]any{"user_id": ev.UserID, "timestamp": ts})
		m.emitSafe("player_event", map[string]any{"kind": "left", "user_id": ev.UserID, "username": ev.Username})
	}
}

func (m *Machine) handleDestroying(ctx context.Context, ev grammar.Event, ts string) {
	closed, err := m.closeLatestOpenJoinByUsername(ctx, ev.Username, ts)
	if err != nil {
		logging.Error().Err(err).Msg("statemachine: close open join on destroying fallback")
		return
	}
	_ = closed
}

func (m *Machine) closeLatestOpenJoinByUsername(ctx context.Context, username, ts string) (bool, error) {
	active, err := m.store.ActiveJoinLogs(ctx)
	if err != nil {
		return false, err
	}
	var userID string
	for _, row := range active {
		if row.Username == username {
			userID = row.UserID
		}
	}
	if userID == "" {
		return false, nil
	}
	return m.store.CloseLatestOpenJoin(ctx, userID, ts)
}

func (m *Machine) trimHistoryLocked() {
	if len(m.history) > historyCap {
		m.history = m.history[len(m.history)-historyCap:]
	}
}

func (m *Machine) emitSafe(event string, payload interface{}) {
	if m.emit != nil {
		m.emit.Emit(event, payload)
	}
}

// withinGuard reports whether ts falls within [lastJoinTS, lastJoinTS+window).
func (m *Machine) withinGuard(lastJoinTS, ts string) (within bool, ok bool) {
	c := m.clockOrReal()
	last, err1 := c.Parse(lastJoinTS)
	cur, err2 := c.Parse(ts)
	if err1 != nil || err2 != nil {
		return false, false
	}
	delta := cur.Sub(last)
	return delta >= 0 && delta < moderationGuardWindow, true
}

// subtractWindow returns ts minus d, formatted in the native layout. If ts
// fails to parse (defensive; grammar guarantees the layout), it returns ts
// unchanged, which makes the BETWEEN query degrade to a single-point match.
func (m *Machine) subtractWindow(ts string, d time.Duration) string {
	c := m.clockOrReal()
	t, err := c.Parse(ts)
	if err != nil {
		return ts
	}
	return c.Format(t.Add(-d))
}

func (m *Machine) clockOrReal() clock.Clock {
	if m.clock != nil {
		return m.clock
	}
	return clock.NewReal()
}

// ClockFormatNow returns the current time in the log's native timestamp
// layout, for lines that carry no timestamp of their own. Exposed for
// the tracker (C5), which has no clock of its own.
func (m *Machine) ClockFormatNow() string {
	return m.clockOrReal().FormatNow()
}

// EmitterOrNil returns the configured Emitter, or nil if none was
// injected. Used by the session reconstructor (C7), which is handed the
// machine's own emitter rather than constructing its own.
func (m *Machine) EmitterOrNil() Emitter {
	return m.emit
}

// ClockLag returns the duration between the machine's clock and ts, a
// log-native timestamp. Used by the tracker (C5) to report how far
// behind the file it's processing, for metrics only; an unparsable or
// empty ts returns zero.
func (m *Machine) ClockLag(ts string) time.Duration {
	if ts == "" {
		return 0
	}
	c := m.clockOrReal()
	t, err := c.Parse(ts)
	if err != nil {
		return 0
	}
	return c.Now().Sub(t)
}
