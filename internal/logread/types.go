// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package logread

import "errors"

// ErrSearchCancelled is returned when a search is displaced by a newer
// token before it completes (spec.md §4.8 edge case 9).
var ErrSearchCancelled = errors.New("logread: search cancelled by a newer token")

// ErrNoCurrentLogFile is returned by ReadInfo/ReadChunk/Search when no
// output_log_*.txt file exists yet in the configured log directory.
var ErrNoCurrentLogFile = errors.New("logread: no current log file")

// Info is the result of read_log_info: {path, size}.
type Info struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Chunk is the result of read_log_chunk(offset, max_bytes).
type Chunk struct {
	Data      []byte `json:"data"`
	NewOffset int64  `json:"new_offset"`
	EOF       bool   `json:"eof"`
}

// Match is one case-insensitive substring hit from Search.
type Match struct {
	LineNumber int    `json:"line_number"`
	Text       string `json:"text"`
}
