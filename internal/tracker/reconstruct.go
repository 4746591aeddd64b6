// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package tracker

import (
	"bytes"
	"context"
	"os"

	"github.com/tomtom215/vrc-companion/internal/grammar"
	"github.com/tomtom215/vrc-companion/internal/statemachine"
)

// reconstructAnchor identifies the later of the two candidate anchors
// spec.md §4.5 describes.
type reconstructAnchor struct {
	index int // line index within the scanned window, -1 if absent
	event grammar.Event
}

// Reconstruct runs once, before the first live read of a freshly opened
// file (spec.md §4.5). It scans the last windowBytes of path, replays
// instance/room state non-emittingly through m, and returns the
// end-of-file offset at scan time so the caller can hand that cursor to
// the live tailer.
func Reconstruct(ctx context.Context, path string, windowBytes int64, m *statemachine.Machine, emit statemachine.Emitter) (endOffset int64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	size := info.Size()

	start := int64(0)
	if size > windowBytes {
		start = size - windowBytes
	}

	buf := make([]byte, size-start)
	if _, err := f.ReadAt(buf, start); err != nil {
		return 0, err
	}

	// If the first byte of the window is mid-line, discard up to the next
	// '\n' (spec.md §4.5).
	if start > 0 {
		if idx := bytes.IndexByte(buf, '\n'); idx >= 0 {
			buf = buf[idx+1:]
		} else {
			buf = nil
		}
	}

	lines := splitLines(buf)

	instanceAnchor := reconstructAnchor{index: -1}
	roomAnchor := reconstructAnchor{index: -1}
	sessionEndAfterAnchor := -1

	for i, line := range lines {
		if grammar.IsSessionEnd(line) && (instanceAnchor.index >= 0 || roomAnchor.index >= 0) {
			sessionEndAfterAnchor = i
		}

		ev, ok := grammar.Parse(line)
		if !ok {
			continue
		}
		switch ev.Kind {
		case grammar.KindInstanceJoin:
			instanceAnchor = reconstructAnchor{index: i, event: ev}
		case grammar.KindSessionEnd:
			if isRoomJoinedLine(line) {
				roomAnchor = reconstructAnchor{index: i, event: ev}
			}
		}
	}

	anchor := instanceAnchor
	if roomAnchor.index > anchor.index {
		anchor = roomAnchor
	}

	if anchor.index < 0 {
		emitSafe(emit, "watcher_ready", nil)
		return size, nil
	}

	if sessionEndAfterAnchor > anchor.index {
		// State is already clean: only emit watcher_ready and seek to end.
		emitSafe(emit, "watcher_ready", nil)
		return size, nil
	}

	if anchor.index == instanceAnchor.index && instanceAnchor.index >= 0 {
		m.Process(ctx, instanceAnchor.event, instanceAnchor.event.Timestamp, true)
		for i := anchor.index + 1; i < len(lines); i++ {
			ev, ok := grammar.Parse(lines[i])
			if !ok {
				continue
			}
			if ev.Kind == grammar.KindPlayerJoin || ev.Kind == grammar.KindPlayerLeft || ev.Kind == grammar.KindDestroying || ev.Kind == grammar.KindRoomName {
				m.Process(ctx, ev, ev.Timestamp, true)
			}
		}
	} else if err := m.SetLastInstanceJoinTS(ctx, roomAnchor.event.Timestamp); err != nil {
		return 0, err
	}

	emitSafe(emit, "watcher_ready", nil)
	return size, nil
}

// isRoomJoinedLine reports whether line is the "successfully joined room"
// session-end marker, the room-anchor candidate spec.md §4.5 refers to.
func isRoomJoinedLine(line string) bool {
	return grammar.IsSessionEnd(line) && !grammar.IsLeaveRoom(line) && bytesContains(line, "Successfully joined room")
}

func bytesContains(s, substr string) bool {
	return bytes.Contains([]byte(s), []byte(substr))
}

func splitLines(buf []byte) []string {
	a := NewLineAssembler(nil)
	lines := a.Feed(buf)
	return lines
}

func emitSafe(emit statemachine.Emitter, event string, payload interface{}) {
	if emit != nil {
		emit.Emit(event, payload)
	}
}
