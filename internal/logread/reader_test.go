// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package logread

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type captureEmitter struct {
	events chan string
}

func (c *captureEmitter) Emit(event string, payload interface{}) {
	select {
	case c.events <- event:
	default:
	}
}

func writeLog(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "output_log_2026-07-30_12-00-00.txt")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestReadInfoReturnsCurrentLogPathAndSize(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "hello\nworld\n")

	r := New(dir, nil)
	info, err := r.ReadInfo(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(12), info.Size)
}

func TestReadChunkClampsOffsetAndLength(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "0123456789")

	r := New(dir, nil)
	chunk, err := r.ReadChunk(context.Background(), 5, 100)
	require.NoError(t, err)
	require.Equal(t, []byte("56789"), chunk.Data)
	require.True(t, chunk.EOF)
	require.Equal(t, int64(10), chunk.NewOffset)
}

func TestReadChunkOffsetBeyondEndReturnsEmptyEOF(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "abc")

	r := New(dir, nil)
	chunk, err := r.ReadChunk(context.Background(), 999, 10)
	require.NoError(t, err)
	require.Empty(t, chunk.Data)
	require.True(t, chunk.EOF)
}

func TestSearchFindsCaseInsensitiveMatches(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "Alice joined\nBob left\nALICE joined again\n")

	r := New(dir, &captureEmitter{events: make(chan string, 8)})
	matches, err := r.Search(context.Background(), "alice", "tok1")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, 1, matches[0].LineNumber)
	require.Equal(t, 3, matches[1].LineNumber)
}

func TestSearchEmitsCancelSearchForDisplacedToken(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "line one\nline two\n")

	emitter := &captureEmitter{events: make(chan string, 8)}
	r := New(dir, emitter)

	_, err := r.Search(context.Background(), "line", "tok1")
	require.NoError(t, err)

	_, err = r.Search(context.Background(), "line", "tok2")
	require.NoError(t, err)

	var sawCancel bool
	deadline := time.After(time.Second)
	for !sawCancel {
		select {
		case ev := <-emitter.events:
			if ev == "cancel_search" {
				sawCancel = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for cancel_search event")
		}
	}
}

func TestReadInfoReturnsErrWhenNoLogFile(t *testing.T) {
	dir := t.TempDir()
	r := New(dir, nil)
	_, err := r.ReadInfo(context.Background())
	require.ErrorIs(t, err, ErrNoCurrentLogFile)
}
