// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package eventsink

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/vrc-companion/internal/logging"
)

// UpgradeHandler builds the http.HandlerFunc that accepts a WebSocket
// connection and registers it with hub, restricting the handshake to
// allowedOrigins (the desktop UI's loopback origins).
func UpgradeHandler(hub *Hub, allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		HandshakeTimeout: 10 * time.Second,
		CheckOrigin:      originChecker(allowedOrigins),
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Error().Err(err).Msg("eventsink: websocket upgrade failed")
			return
		}
		client := NewClient(hub, conn)
		hub.Register <- client
		client.Start()
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			// Non-browser clients (curl, a native shell with no Origin) are
			// the expected caller for a loopback-only desktop companion.
			return true
		}
		for _, a := range allowed {
			if origin == a {
				return true
			}
		}
		logging.Warn().Str("origin", origin).Msg("eventsink: websocket connection rejected, origin not allowed")
		return false
	}
}
