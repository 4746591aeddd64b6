// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package config loads companion configuration from defaults, an optional
// YAML file, and environment variables, in that priority order, using
// koanf v2.
//
// Example:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("failed to load configuration")
//	}
//	tr := tracker.New(cfg.Tracker, ...)
package config
