// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package statemachine

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/vrc-companion/internal/config"
	"github.com/tomtom215/vrc-companion/internal/grammar"
	"github.com/tomtom215/vrc-companion/internal/store"
)

type recordingEmitter struct {
	events []string
}

func (r *recordingEmitter) Emit(event string, _ interface{}) {
	r.events = append(r.events, event)
}

type recordingNotifier struct {
	joins []string
}

func (r *recordingNotifier) NotifyJoin(userID, _ string) {
	r.joins = append(r.joins, userID)
}

func newTestMachine(t *testing.T) (*Machine, *store.Store, *recordingEmitter, *recordingNotifier) {
	t.Helper()
	s, err := store.Open(&config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "joinlogs.duckdb"), MaxMemory: "256MB"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	emitter := &recordingEmitter{}
	notifier := &recordingNotifier{}
	m := New(s, nil, emitter, nil, notifier, nil)
	return m, s, emitter, notifier
}

func TestScenarioS1NormalJoinLeave(t *testing.T) {
	m, s, emitter, notifier := newTestMachine(t)
	ctx := context.Background()

	process := func(line string) {
		ev, ok := grammar.Parse(line)
		require.True(t, ok, line)
		m.Process(ctx, ev, "", false)
	}

	process(`2026.01.02 06:44:07 [Behaviour] Joining wrld_11111111-1111-1111-1111-111111111111:12345~region(us)`)
	process(`2026.01.02 06:44:08 [Behaviour] Joining or Creating Room: Hideout`)
	process(`2026.01.02 06:44:20 OnPlayerJoined Alice (usr_aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa)`)
	process(`2026.01.02 06:45:30 OnPlayerLeft Alice (usr_aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa)`)

	loc := m.Location()
	assert.Equal(t, "wrld_11111111-1111-1111-1111-111111111111", loc.WorldID)
	assert.Equal(t, "12345", loc.InstanceID)
	assert.Equal(t, "us", loc.Region)
	assert.Equal(t, "Hideout", loc.RoomName)

	lastJoinTS, err := s.AppStateGet(ctx, store.AppStateLastInstanceJoinTS)
	require.NoError(t, err)
	assert.Equal(t, "2026.01.02 06:44:07", lastJoinTS)

	active, err := s.ActiveJoinLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 0)

	assert.Contains(t, notifier.joins, "usr_aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	assert.Contains(t, emitter.events, "instance_changed")
	assert.Contains(t, emitter.events, "db_row_inserted")
	assert.Contains(t, emitter.events, "db_row_updated")
}

func TestScenarioS2ModerationDroppedInsideGuard(t *testing.T) {
	m, s, _, _ := newTestMachine(t)
	ctx := context.Background()

	joinEv, ok := grammar.Parse(`2026.01.02 06:44:07 [Behaviour] Joining wrld_11111111-1111-1111-1111-111111111111:12345`)
	require.True(t, ok)
	m.Process(ctx, joinEv, "", false)

	modEv, ok := grammar.Parse(`2026.01.02 06:44:25 Admin "Mod" banned player "Alice" for the following reason: "Test"`)
	require.True(t, ok)
	m.Process(ctx, modEv, "", false)

	rows, err := s.ModerationLogsPage(ctx, 0, 10)
	require.NoError(t, err)
	assert.Len(t, rows, 0)
}

func TestModerationDedupWindow(t *testing.T) {
	m, s, _, _ := newTestMachine(t)
	ctx := context.Background()

	joinEv, ok := grammar.Parse(`2026.01.02 06:00:00 [Behaviour] Joining wrld_11111111-1111-1111-1111-111111111111:12345`)
	require.True(t, ok)
	m.Process(ctx, joinEv, "", false)

	first, ok := grammar.Parse(`2026.01.02 06:44:22 Admin "Mod" banned player "Alice" for the following reason: "Test"`)
	require.True(t, ok)
	m.Process(ctx, first, "", false)

	second, ok := grammar.Parse(`2026.01.02 06:44:24 Admin "Mod" banned player "Alice" for the following reason: "Test"`)
	require.True(t, ok)
	m.Process(ctx, second, "", false)

	rows, err := s.ModerationLogsPage(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026.01.02 06:44:22", rows[0].Timestamp)
}

func TestDestroyingFallbackClosesJoin(t *testing.T) {
	m, s, _, _ := newTestMachine(t)
	ctx := context.Background()

	joinEv, ok := grammar.Parse(`2026.01.02 06:44:20 OnPlayerJoined Alice (usr_aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa)`)
	require.True(t, ok)
	m.Process(ctx, joinEv, "", false)

	destroyEv, ok := grammar.Parse(`2026.01.02 06:50:00 Destroying Alice`)
	require.True(t, ok)
	m.Process(ctx, destroyEv, "", false)

	active, err := s.ActiveJoinLogs(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 0)
}
