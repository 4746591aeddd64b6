// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package apppaths resolves the per-user data directory and the VRChat log
// directory. On Windows this is %LOCALAPPDATA%\..\LocalLow\VRChat\VRChat;
// the companion also runs in dev/test environments without that tree, so
// every lookup falls back to a sane default instead of failing.
package apppaths

import (
	"os"
	"path/filepath"
)

const (
	envLocalAppData = "LOCALAPPDATA"
	envXDGData      = "XDG_DATA_HOME"
	appDirName      = "VRCCompanion"
)

// DataDir returns the directory the companion stores its own state in
// (joinlogs.db, notes.json, config.json, settings.json). It never returns
// an error; callers that need the directory to exist should mkdir it.
func DataDir() string {
	if v := os.Getenv(envLocalAppData); v != "" {
		return filepath.Join(v, appDirName)
	}
	if v := os.Getenv(envXDGData); v != "" {
		return filepath.Join(v, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", appDirName)
	}
	return filepath.Join(home, ".local", "share", appDirName)
}

// LogDir returns the directory VRChat writes its rotating output_log_*.txt
// files to. Overridable via VRC_LOG_DIR for tests and non-Windows hosts.
func LogDir() string {
	if v := os.Getenv("VRC_LOG_DIR"); v != "" {
		return v
	}
	if v := os.Getenv(envLocalAppData); v != "" {
		return filepath.Join(filepath.Dir(v), "LocalLow", "VRChat", "VRChat")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "VRChat", "VRChat")
	}
	return filepath.Join(home, "AppData", "LocalLow", "VRChat", "VRChat")
}

// EnsureDataDir creates DataDir() (and parents) if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir := DataDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	return dir, nil
}
