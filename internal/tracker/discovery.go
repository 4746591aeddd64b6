// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package tracker

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	logPrefix = "output_log_"
	logSuffix = ".txt"
)

// DiscoverLatest lists dir and returns the full path of the entry whose
// name starts with output_log_ and ends with .txt with the greatest
// modification time (spec.md §4.1). Returns "" if dir is absent or no
// matching file exists — neither is an error, since the directory being
// absent is an explicitly tolerated condition. Exported for
// internal/logread (C11), which targets the same "current log file."
func DiscoverLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	var best string
	var bestMod int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		mod := info.ModTime().UnixNano()
		if best == "" || mod > bestMod {
			best = name
			bestMod = mod
		}
	}
	if best == "" {
		return "", nil
	}
	return filepath.Join(dir, best), nil
}
