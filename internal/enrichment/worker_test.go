// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tomtom215/vrc-companion/internal/config"
	"github.com/tomtom215/vrc-companion/internal/statemachine"
	"github.com/tomtom215/vrc-companion/internal/store"
)

type recordingEmitter struct {
	events chan eventRecord
}

type eventRecord struct {
	name    string
	payload interface{}
}

func newRecordingEmitter() *recordingEmitter {
	return &recordingEmitter{events: make(chan eventRecord, 32)}
}

func (r *recordingEmitter) Emit(event string, payload interface{}) {
	r.events <- eventRecord{name: event, payload: payload}
}

func newWorkerFixture(t *testing.T, cfg config.EnrichmentConfig, emit statemachine.Emitter) (*Worker, *store.Store) {
	t.Helper()
	s, err := store.Open(&config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "joinlogs.duckdb"), MaxMemory: "256MB"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	w := New(cfg, s, emit)
	return w, s
}

func baseEnrichmentConfig(baseURL string) config.EnrichmentConfig {
	return config.EnrichmentConfig{
		BaseURL:                 baseURL,
		CheckUserPath:           "/check-user",
		SecurityCheckPath:       "/api/security-check",
		InvChkPath:              "/invChk",
		WorldLogsPath:           "/api/worldlogs",
		RequestTimeout:          2 * time.Second,
		ClientTimeout:           2 * time.Second,
		RetryBackoff:            10 * time.Millisecond,
		WatchlistDebounce:       20 * time.Millisecond,
		BreakerFailureThreshold: 3,
		BreakerOpenTimeout:      50 * time.Millisecond,
		ItemRateLimitPerSecond:  1000,
	}
}

func TestWorkerEnqueueDrainsSecurityJobAndPersistsDetails(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"results":[{"file_id":"file_1","version":"1","avatar_name":"Cool Avatar","owner_id":"usr_owner","file":{},"security":{}}]}`))
	}))
	defer srv.Close()

	emit := newRecordingEmitter()
	cfg := baseEnrichmentConfig(srv.URL)
	w, s := newWorkerFixture(t, cfg, emit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Serve(ctx) }()

	w.Enqueue(statemachine.EnrichmentJob{CallID: "call1", Kind: "security", FileID: "file_1", Version: "1"})

	select {
	case ev := <-emit.events:
		require.Equal(t, "api_queue_length", ev.name)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for queue length event")
	}

	var gotResult bool
	deadline := time.After(2 * time.Second)
	for !gotResult {
		select {
		case ev := <-emit.events:
			if ev.name == "api_checks_result" {
				gotResult = true
			}
		case <-deadline:
			t.Fatal("timed out waiting for api_checks_result event")
		}
	}

	details, err := s.AvatarDetailsByOwner(context.Background(), "usr_owner")
	require.NoError(t, err)
	require.Len(t, details, 1)
	require.Equal(t, "file_1", details[0].FileID)
	require.GreaterOrEqual(t, hits.Load(), int32(1))
}

func TestWorkerRetriesFailedItemWithBackoff(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		if n == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"results":[]}`))
	}))
	defer srv.Close()

	emit := newRecordingEmitter()
	cfg := baseEnrichmentConfig(srv.URL)
	w, _ := newWorkerFixture(t, cfg, emit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Serve(ctx) }()

	w.Enqueue(statemachine.EnrichmentJob{CallID: "call1", Kind: "security", FileID: "file_1", Version: "1"})

	deadline := time.After(2 * time.Second)
	for hits.Load() < 2 {
		select {
		case <-time.After(5 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out waiting for retry")
		}
	}
}
