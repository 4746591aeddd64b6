// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package grammar recognizes the fixed set of log line shapes VRChat
// writes to output_log_*.txt and turns each matched line into a tagged
// Event. Lines that match nothing are not an error: Parse returns
// (Event{}, false) and the caller counts the miss.
package grammar
