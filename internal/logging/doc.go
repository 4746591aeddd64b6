// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package logging provides centralized zerolog-based structured logging for
// the VRChat session companion backend.
//
// The tracker, state machine, enrichment worker, and notification
// dispatcher all log through this package instead of the standard log
// package, so every component's output shares one configurable level,
// format, and field set.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("file", name).Msg("log file opened")
//	logging.Error().Err(err).Msg("line dropped")
//
// # Configuration
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
//
// # Context-aware logging
//
//	logging.Ctx(ctx).Info().Msg("enrichment batch sent")
//
// # slog adapter
//
// internal/supervisor wires this package into suture's EventHook via
// NewSlogHandler, so supervisor lifecycle events (service start/stop,
// panics, backoff) land in the same structured stream as everything else.
package logging
