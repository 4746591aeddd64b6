// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package eventsink

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastsToConnectedClient(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	srv := httptest.NewServer(UpgradeHandler(hub, nil))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	time.Sleep(20 * time.Millisecond)
	hub.Emit("instance_changed", map[string]any{"world_id": "wrld_1"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "instance_changed")
}

func TestHubCatchUpReplaysHistoryToLateClient(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	srv := httptest.NewServer(UpgradeHandler(hub, nil))
	defer srv.Close()

	firstURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	first, _, err := websocket.DefaultDialer.Dial(firstURL, nil)
	require.NoError(t, err)
	defer first.Close()
	time.Sleep(20 * time.Millisecond)

	hub.Emit("db_row_inserted", map[string]any{"user_id": "usr_a"})
	time.Sleep(20 * time.Millisecond)

	late, _, err := websocket.DefaultDialer.Dial(firstURL, nil)
	require.NoError(t, err)
	defer late.Close()

	require.NoError(t, late.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := late.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), "db_row_inserted")
}

func TestOriginCheckerRejectsUnknownOrigin(t *testing.T) {
	check := originChecker([]string{"http://localhost"})
	req := httptest.NewRequest("GET", "/ws", nil)
	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))

	req.Header.Set("Origin", "http://localhost")
	assert.True(t, check(req))
}
