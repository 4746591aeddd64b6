// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package commandapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomtom215/vrc-companion/internal/clock"
	"github.com/tomtom215/vrc-companion/internal/config"
	"github.com/tomtom215/vrc-companion/internal/logread"
	"github.com/tomtom215/vrc-companion/internal/statemachine"
	"github.com/tomtom215/vrc-companion/internal/store"
)

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

func newHandlerFixture(t *testing.T) (*Handler, *store.Store) {
	t.Helper()
	s, err := store.Open(&config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "joinlogs.duckdb"), MaxMemory: "256MB"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	m := statemachine.New(s, clock.NewReal(), nil, nil, nil, nil)
	reader := logread.New(t.TempDir(), nil)
	h := New(s, reader, nil, m, clock.NewReal(), nil)
	return h, s
}

func TestJoinLogsPageReturnsInsertedRows(t *testing.T) {
	h, s := newHandlerFixture(t)
	require.NoError(t, s.InsertJoinRow(context.Background(), store.JoinRow{
		UserID: "usr_a", Username: "Alice", JoinTimestamp: "2026.07.30 10:00:00", EventKind: "join",
	}))

	req := httptest.NewRequest(http.MethodGet, "/commands/join_logs", nil)
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "usr_a")
}

func TestGroupAccessTokenRoundTrip(t *testing.T) {
	h, _ := newHandlerFixture(t)

	addReq := httptest.NewRequest(http.MethodPost, "/commands/group_access_token", jsonBody(`{"group_id":"grp_1","group_name":"g","access_token":"tok_1"}`))
	addW := httptest.NewRecorder()
	h.Router().ServeHTTP(addW, addReq)
	require.Equal(t, http.StatusOK, addW.Code)

	listReq := httptest.NewRequest(http.MethodGet, "/commands/group_access_token", nil)
	listW := httptest.NewRecorder()
	h.Router().ServeHTTP(listW, listReq)
	require.Contains(t, listW.Body.String(), "tok_1")
}

func TestReadLogInfoNotFoundWhenNoLogFile(t *testing.T) {
	h, _ := newHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/commands/read_log_info", nil)
	w := httptest.NewRecorder()
	h.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}
