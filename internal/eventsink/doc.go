// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package eventsink fans out named state-machine events to connected
// WebSocket clients (the desktop UI) and retains a short catch-up ring
// buffer so a client that connects mid-session can replay what it missed.
// It implements C2.
package eventsink
