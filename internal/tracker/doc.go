// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package tracker discovers the current VRChat output_log_*.txt, tails it
// for new lines, reconstructs session state on first open, and drives
// every parsed line into the state machine in file order. It implements
// C5 (log tracker), C6 (line assembler), and C7 (session reconstructor);
// C8 (state machine dispatch) lives in internal/statemachine and is
// called from here for both live and replay lines.
package tracker
