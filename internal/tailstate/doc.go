// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package tailstate persists the log tracker's cursor so an abrupt process
// kill doesn't force a full rescan of the current log file. It stores the
// tracked file's basename, byte offset, any unterminated line-assembly
// remainder, and the last-observed enrichment call-id, all keyed in one
// BadgerDB database.
//
// This mirrors the durability role the teacher's internal/wal package
// plays for NATS publish. The tracker saves the cursor after a poll's
// lines have been handed to the state machine, so a crash mid-poll
// resumes from the last saved cursor and reads the lines processed since
// then a second time.
package tailstate
