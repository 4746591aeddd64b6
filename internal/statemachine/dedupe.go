// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package statemachine

import (
	"context"

	"github.com/tomtom215/vrc-companion/internal/logging"
	"github.com/tomtom215/vrc-companion/internal/metrics"
	"github.com/tomtom215/vrc-companion/internal/store"
)

// RunDedupe executes the periodic maintenance routine from spec.md §4.4:
// for every user with more than one open join row, keep the newest and
// close the rest. closeAt should be last_instance_join_ts when set, or
// the wall clock otherwise.
func (m *Machine) RunDedupe(ctx context.Context, wallClockTS string) {
	closeAt, err := m.store.AppStateGet(ctx, store.AppStateLastInstanceJoinTS)
	if err != nil {
		logging.Error().Err(err).Msg("statemachine: read last_instance_join_ts for dedupe")
		return
	}
	if closeAt == "" {
		closeAt = wallClockTS
	}

	n, err := m.store.DedupeOpenJoins(ctx, closeAt)
	if err != nil {
		logging.Error().Err(err).Msg("statemachine: dedupe open joins")
		return
	}
	if n > 0 {
		logging.Debug().Int64("closed", n).Msg("statemachine: dedupe closed stale open joins")
		metrics.DedupDropsTotal.WithLabelValues("open_join").Add(float64(n))
	}
}
