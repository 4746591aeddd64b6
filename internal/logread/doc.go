// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package logread implements search and chunked read over the current
// VRChat log file (C11): ReadInfo, ReadChunk, and a cooperatively
// cancellable Search exposed to the UI over internal/commandapi.
package logread
