// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package tracker

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tomtom215/vrc-companion/internal/config"
	"github.com/tomtom215/vrc-companion/internal/grammar"
	"github.com/tomtom215/vrc-companion/internal/logging"
	"github.com/tomtom215/vrc-companion/internal/metrics"
	"github.com/tomtom215/vrc-companion/internal/statemachine"
	"github.com/tomtom215/vrc-companion/internal/store"
	"github.com/tomtom215/vrc-companion/internal/tailstate"
)

// Service discovers the current output_log_*.txt, detects rotation and
// truncation, reconstructs session state on first open, and tails new
// lines into the state machine in file order (spec.md §4.1, §4.5).
// It implements suture.Service so the supervisor tree can restart it on
// panic or returned error without losing persisted cursor state.
type Service struct {
	cfg     config.TrackerConfig
	store   *store.Store
	cursors *tailstate.Store
	machine *statemachine.Machine

	assembler *LineAssembler
	file      *os.File
	basename  string
	offset    int64
}

// New constructs the tracker service. cursors and machine must be
// non-nil; cfg should come from config.Config.Tracker.
func New(cfg config.TrackerConfig, s *store.Store, cursors *tailstate.Store, m *statemachine.Machine) *Service {
	return &Service{cfg: cfg, store: s, cursors: cursors, machine: m}
}

// String implements fmt.Stringer for suture's log output.
func (t *Service) String() string { return "tracker" }

// Serve implements suture.Service. It restores any persisted cursor,
// then alternates directory polling with tailing the currently open
// file until ctx is canceled.
func (t *Service) Serve(ctx context.Context) error {
	if err := t.restoreCursor(ctx); err != nil {
		logging.Error().Err(err).Msg("tracker: restore cursor")
	}

	pollTicker := time.NewTicker(t.cfg.PollInterval)
	defer pollTicker.Stop()
	tailTicker := time.NewTicker(t.cfg.TailInterval)
	defer tailTicker.Stop()

	var watcher *fsnotify.Watcher
	var fsEvents <-chan fsnotify.Event
	if t.cfg.UseFSNotify {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			logging.Error().Err(err).Msg("tracker: fsnotify unavailable, falling back to poll-only")
		} else {
			watcher = w
			defer watcher.Close()
			if err := watcher.Add(t.cfg.LogDir); err != nil {
				logging.Error().Err(err).Msg("tracker: fsnotify watch add failed")
			}
			fsEvents = watcher.Events
		}
	}

	t.pollForSwitch(ctx)
	t.tailOpenFile(ctx)

	for {
		select {
		case <-ctx.Done():
			t.closeQuietly()
			return ctx.Err()
		case <-pollTicker.C:
			t.pollForSwitch(ctx)
		case <-tailTicker.C:
			t.tailOpenFile(ctx)
		case <-fsEvents:
			t.tailOpenFile(ctx)
		}
	}
}

func (t *Service) restoreCursor(ctx context.Context) error {
	cur, err := t.cursors.Load()
	if err != nil {
		return err
	}
	if cur.Basename != "" {
		t.basename = cur.Basename
		t.offset = cur.Offset
		t.assembler = NewLineAssembler(cur.Remainder)
		if t.machine != nil {
			t.machine.SetLastCallID(cur.LastCallID)
		}
		return nil
	}

	// No Badger-backed cursor yet (fresh tailstate DB, or it was
	// recreated independently of the DuckDB store). Fall back to the
	// durably persisted last_log_filename so the first pollForSwitch
	// after a crash/restart still recognizes the prior file as stale
	// and purges its open joins (spec.md §4.1 scenario S5), instead of
	// mistaking whatever DiscoverLatest finds for the file already
	// being tailed.
	last, err := t.store.AppStateGet(ctx, store.AppStateLastLogFilename)
	if err != nil {
		return err
	}
	t.basename = last
	return nil
}

// pollForSwitch rescans the log directory for a newer file (spec.md
// §4.1). On rotation it purges open joins, resets the assembler, and
// runs the session reconstructor against the new file before the next
// tail read.
func (t *Service) pollForSwitch(ctx context.Context) {
	path, err := DiscoverLatest(t.cfg.LogDir)
	if err != nil {
		logging.Error().Err(err).Str("dir", t.cfg.LogDir).Msg("tracker: discover latest log")
		return
	}
	if path == "" {
		return
	}

	base := basenameOf(path)
	if base == t.basename && t.file != nil {
		return
	}

	t.closeQuietly()

	if t.basename != "" && base != t.basename {
		if _, err := t.store.CloseAllOpenJoins(ctx, nowTS(t.machine)); err != nil {
			logging.Error().Err(err).Msg("tracker: purge open joins on log switch")
		}
	}

	f, err := os.Open(path)
	if err != nil {
		logging.Error().Err(err).Str("path", path).Msg("tracker: open discovered log")
		return
	}
	t.file = f
	t.basename = base
	t.assembler = NewLineAssembler(nil)

	endOffset, err := Reconstruct(ctx, path, t.cfg.ReconstructWindowBytes, t.machine, emitterOf(t.machine))
	if err != nil {
		logging.Error().Err(err).Str("path", path).Msg("tracker: reconstruct session state")
		endOffset = 0
	}
	t.offset = endOffset

	if err := t.store.AppStateSet(ctx, store.AppStateLastLogFilename, base); err != nil {
		logging.Error().Err(err).Msg("tracker: persist last_log_filename")
	}
	t.persistCursor()
}

// tailOpenFile reads any bytes appended since the last offset, detects
// truncation, and drives complete lines through the state machine in
// order, bounded by MaxLinesPerPoll (spec.md §4.2).
func (t *Service) tailOpenFile(ctx context.Context) {
	if t.file == nil {
		return
	}

	info, err := t.file.Stat()
	if err != nil {
		logging.Error().Err(err).Msg("tracker: stat open file")
		return
	}
	if info.Size() < t.offset {
		// Truncation: VRChat rewrote the file shorter than our cursor.
		t.offset = 0
		t.assembler.Reset()
	}
	if info.Size() == t.offset && !t.assembler.HasBufferedLine() {
		return
	}

	buf := make([]byte, t.cfg.ReadBufferBytes)
	total := 0
	for total < t.cfg.MaxLinesPerPoll {
		n, err := t.file.ReadAt(buf, t.offset)
		if n > 0 {
			t.offset += int64(n)
		}

		// Cap each micro-batch handed to the state machine at
		// MaxLinesPerBatch, never discarding an already-complete line
		// that didn't fit: FeedCapped leaves it buffered in the
		// assembler for the next iteration (or the next poll, if this
		// tick's MaxLinesPerPoll budget runs out first).
		remaining := t.cfg.MaxLinesPerBatch
		if left := t.cfg.MaxLinesPerPoll - total; left < remaining {
			remaining = left
		}
		lines := t.assembler.FeedCapped(buf[:n], remaining)
		for _, line := range lines {
			t.processLine(ctx, line)
			total++
		}

		if err != nil && err != io.EOF {
			logging.Error().Err(err).Msg("tracker: read open file")
			break
		}
		if n == 0 && len(lines) == 0 {
			break
		}
	}

	t.persistCursor()
}

func (t *Service) processLine(ctx context.Context, line string) {
	ev, ok := grammar.Parse(line)
	if !ok {
		return
	}
	lineTS := nowTS(t.machine)
	metrics.RecordTrackerLine(t.machine.ClockLag(ev.Timestamp))
	t.machine.Process(ctx, ev, lineTS, false)
}

func (t *Service) persistCursor() {
	if t.cursors == nil {
		return
	}
	cur := tailstate.Cursor{
		Basename:   t.basename,
		Offset:     t.offset,
		Remainder:  t.assembler.Remainder(),
		LastCallID: t.machine.LastCallID(),
	}
	if err := t.cursors.Save(cur); err != nil {
		logging.Error().Err(err).Msg("tracker: persist cursor")
	}
}

func (t *Service) closeQuietly() {
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
}

func basenameOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' || path[i] == '\\' {
			return path[i+1:]
		}
	}
	return path
}

func nowTS(m *statemachine.Machine) string {
	return m.ClockFormatNow()
}

func emitterOf(m *statemachine.Machine) statemachine.Emitter {
	return m.EmitterOrNil()
}
