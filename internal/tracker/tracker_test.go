// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package tracker

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/vrc-companion/internal/config"
	"github.com/tomtom215/vrc-companion/internal/statemachine"
	"github.com/tomtom215/vrc-companion/internal/store"
	"github.com/tomtom215/vrc-companion/internal/tailstate"
)

func newTrackerFixture(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()

	s, err := store.Open(&config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "joinlogs.duckdb"), MaxMemory: "256MB"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	cur, err := tailstate.Open(filepath.Join(t.TempDir(), "tailstate"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cur.Close() })

	m := statemachine.New(s, nil, &recordingEmitter{}, nil, nil, nil)

	cfg := config.TrackerConfig{
		LogDir:                 dir,
		PollInterval:           time.Second,
		TailInterval:           750 * time.Millisecond,
		ReadBufferBytes:        64 * 1024,
		MaxLinesPerBatch:       1000,
		MaxLinesPerPoll:        10000,
		ReconstructWindowBytes: 4 << 20,
		UseFSNotify:            false,
	}

	return New(cfg, s, cur, m), dir
}

func TestTrackerPollForSwitchDiscoversNewestFile(t *testing.T) {
	svc, dir := newTrackerFixture(t)
	ctx := context.Background()

	path := filepath.Join(dir, "output_log_2026-07-30.txt")
	require.NoError(t, os.WriteFile(path, []byte("2026.01.02 06:44:07 [Behaviour] Joining wrld_11111111-1111-1111-1111-111111111111:12345~region(us)\n"), 0o600))

	svc.pollForSwitch(ctx)
	assert.Equal(t, "output_log_2026-07-30.txt", svc.basename)
	assert.NotNil(t, svc.file)
}

func TestTrackerTailOpenFileProcessesNewLines(t *testing.T) {
	svc, dir := newTrackerFixture(t)
	ctx := context.Background()

	path := filepath.Join(dir, "output_log_2026-07-30.txt")
	require.NoError(t, os.WriteFile(path, []byte{}, 0o600))

	svc.pollForSwitch(ctx)
	require.NotNil(t, svc.file)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("2026.01.02 06:44:07 [Behaviour] Joining wrld_11111111-1111-1111-1111-111111111111:12345~region(us)\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	svc.tailOpenFile(ctx)

	loc := svc.machine.Location()
	assert.Equal(t, "wrld_11111111-1111-1111-1111-111111111111", loc.WorldID)
}

func TestTrackerTailOpenFileHandlesTruncation(t *testing.T) {
	svc, dir := newTrackerFixture(t)
	ctx := context.Background()

	path := filepath.Join(dir, "output_log_2026-07-30.txt")
	require.NoError(t, os.WriteFile(path, []byte("2026.01.02 06:44:07 [Behaviour] Joining wrld_11111111-1111-1111-1111-111111111111:12345~region(us)\n"), 0o600))

	svc.pollForSwitch(ctx)
	svc.tailOpenFile(ctx)
	require.Greater(t, svc.offset, int64(0))

	require.NoError(t, os.WriteFile(path, []byte("short\n"), 0o600))
	svc.tailOpenFile(ctx)
	assert.LessOrEqual(t, svc.offset, int64(len("short\n")))
}
