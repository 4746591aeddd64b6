// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package tracker

import "bytes"

// LineAssembler turns a stream of appended bytes into complete, newline-
// terminated lines (spec.md §4.2). It withholds any trailing bytes that
// have not yet seen their terminating '\n', and is resilient to a
// multi-byte UTF-8 rune split across two Feed calls since it only ever
// splits on the single-byte '\n' marker.
type LineAssembler struct {
	pending []byte
}

// NewLineAssembler returns an assembler, optionally seeded with a
// previously persisted remainder (internal/tailstate, across restarts).
func NewLineAssembler(remainder []byte) *LineAssembler {
	a := &LineAssembler{}
	if len(remainder) > 0 {
		a.pending = append(a.pending, remainder...)
	}
	return a
}

// Feed appends data and returns every complete line split out of the
// pending buffer, in order, with a trailing '\r' stripped. Incomplete
// trailing bytes are retained for the next Feed/Remainder call.
func (a *LineAssembler) Feed(data []byte) []string {
	return a.feed(data, -1)
}

// FeedCapped behaves like Feed but stops after extracting maxLines
// complete lines (a non-positive maxLines means unlimited, same as
// Feed). Any additional complete lines already present in the combined
// buffer are left untouched in pending rather than discarded, so a
// caller capping work per call never loses a line: it is simply found
// again, still in order, on the next Feed/FeedCapped call.
func (a *LineAssembler) FeedCapped(data []byte, maxLines int) []string {
	return a.feed(data, maxLines)
}

func (a *LineAssembler) feed(data []byte, maxLines int) []string {
	if len(data) > 0 {
		a.pending = append(a.pending, data...)
	}

	var lines []string
	for maxLines <= 0 || len(lines) < maxLines {
		idx := bytes.IndexByte(a.pending, '\n')
		if idx < 0 {
			break
		}
		line := a.pending[:idx]
		line = bytes.TrimSuffix(line, []byte("\r"))
		lines = append(lines, string(line))
		a.pending = a.pending[idx+1:]
	}
	return lines
}

// HasBufferedLine reports whether pending already contains a complete,
// newline-terminated line that a prior capped Feed left unprocessed.
func (a *LineAssembler) HasBufferedLine() bool {
	return bytes.IndexByte(a.pending, '\n') >= 0
}

// Remainder returns the unterminated bytes currently buffered, for
// persistence into internal/tailstate.
func (a *LineAssembler) Remainder() []byte {
	out := make([]byte, len(a.pending))
	copy(out, a.pending)
	return out
}

// Reset discards any buffered bytes. Used on truncation (spec.md §4.1).
func (a *LineAssembler) Reset() {
	a.pending = nil
}
