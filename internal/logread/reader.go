// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package logread

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/tomtom215/vrc-companion/internal/statemachine"
	"github.com/tomtom215/vrc-companion/internal/tracker"
)

const searchBatchSize = 1000

// Reader targets the same "current log file" tracker.Service tails
// (spec.md §4.8). It holds no file handle between calls — every
// operation re-resolves the latest output_log_*.txt, since the UI may
// call these commands long after the last tail.
type Reader struct {
	logDir string
	emit   statemachine.Emitter

	mu      sync.Mutex
	current string
}

// New constructs a Reader over logDir, the same directory
// config.TrackerConfig.LogDir points the tailer at.
func New(logDir string, emit statemachine.Emitter) *Reader {
	return &Reader{logDir: logDir, emit: emit}
}

func (r *Reader) resolvePath() (string, error) {
	path, err := tracker.DiscoverLatest(r.logDir)
	if err != nil {
		return "", fmt.Errorf("discover current log file: %w", err)
	}
	if path == "" {
		return "", ErrNoCurrentLogFile
	}
	return path, nil
}

// ReadInfo implements read_log_info.
func (r *Reader) ReadInfo(ctx context.Context) (Info, error) {
	path, err := r.resolvePath()
	if err != nil {
		return Info{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat log file: %w", err)
	}
	return Info{Path: path, Size: info.Size()}, nil
}

// ReadChunk implements read_log_chunk(offset, max_bytes): clamps offset
// to [0, size] and reads at most min(max_bytes, size-offset).
func (r *Reader) ReadChunk(ctx context.Context, offset, maxBytes int64) (Chunk, error) {
	path, err := r.resolvePath()
	if err != nil {
		return Chunk{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Chunk{}, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Chunk{}, fmt.Errorf("stat log file: %w", err)
	}
	size := info.Size()

	if offset < 0 {
		offset = 0
	}
	if offset > size {
		offset = size
	}
	if maxBytes < 0 {
		maxBytes = 0
	}
	toRead := size - offset
	if toRead > maxBytes {
		toRead = maxBytes
	}

	buf := make([]byte, toRead)
	n, err := f.ReadAt(buf, offset)
	if err != nil && n == 0 && toRead > 0 {
		return Chunk{}, fmt.Errorf("read log chunk: %w", err)
	}
	newOffset := offset + int64(n)

	return Chunk{Data: buf[:n], NewOffset: newOffset, EOF: newOffset >= size}, nil
}

// Search implements search_log_file(query, token): stores token as the
// current search, displacing (and cancelling) whatever token was
// current before, then scans the file in 1,000-line batches, aborting
// if a newer token displaces this one mid-scan.
func (r *Reader) Search(ctx context.Context, query, token string) ([]Match, error) {
	r.mu.Lock()
	old := r.current
	r.current = token
	r.mu.Unlock()

	if old != "" && old != token && r.emit != nil {
		r.emit.Emit("cancel_search", map[string]any{"token": old})
	}

	path, err := r.resolvePath()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}

	lines := splitLines(content)
	total := len(lines)
	needle := strings.ToLower(query)

	var matches []Match
	for start := 0; start < total; start += searchBatchSize {
		if !r.isCurrent(token) {
			return nil, ErrSearchCancelled
		}

		end := start + searchBatchSize
		if end > total {
			end = total
		}
		for i := start; i < end; i++ {
			line := lines[i]
			if needle == "" || strings.Contains(strings.ToLower(line), needle) {
				matches = append(matches, Match{LineNumber: i + 1, Text: line})
			}
		}

		if r.emit != nil {
			pct := 100
			if total > 0 {
				pct = (end * 100) / total
			}
			r.emit.Emit("search_progress", map[string]any{"token": token, "percent": pct})
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
	}

	if !r.isCurrent(token) {
		return nil, ErrSearchCancelled
	}
	return matches, nil
}

func (r *Reader) isCurrent(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current == token
}

func splitLines(content []byte) []string {
	raw := bytes.Split(content, []byte("\n"))
	lines := make([]string, 0, len(raw))
	for _, b := range raw {
		lines = append(lines, string(bytes.TrimRight(b, "\r")))
	}
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
