// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package enrichment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/vrc-companion/internal/store"
)

func TestPublishModerationPostsFireAndForget(t *testing.T) {
	var hits atomic.Int32
	var gotReq atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		var req worldLogsRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotReq.Store(req)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	emit := newRecordingEmitter()
	cfg := baseEnrichmentConfig(srv.URL)
	w, s := newWorkerFixture(t, cfg, emit)

	require.NoError(t, s.AddGroupAccessToken(context.Background(), store.GroupAccess{GroupID: "grp_1", GroupName: "g", AccessToken: "tok_1"}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Serve(ctx) }()

	w.PublishModeration(store.ModerationRow{
		Admin:      "usr_admin",
		Target:     "usr_target",
		Reason:     "spam",
		ActionType: "warn",
		Location:   "wrld_1:12345",
	})

	deadline := time.After(2 * time.Second)
	for hits.Load() == 0 {
		select {
		case <-time.After(5 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out waiting for worldlogs publish")
		}
	}

	req, _ := gotReq.Load().(worldLogsRequest)
	require.Equal(t, "usr_target", req.Target)
	require.Equal(t, []string{"tok_1"}, req.Tokens)
}

func TestPublishModerationDoesNotRetryOnFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	emit := newRecordingEmitter()
	cfg := baseEnrichmentConfig(srv.URL)
	w, _ := newWorkerFixture(t, cfg, emit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Serve(ctx) }()

	w.PublishModeration(store.ModerationRow{Admin: "a", Target: "b", Reason: "r", ActionType: "warn", Location: "l"})

	time.Sleep(150 * time.Millisecond)
	require.Equal(t, int32(1), hits.Load())
}
