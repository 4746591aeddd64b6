// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics scoped to the companion's own pipeline (tracker lag, queue
// depth, dedup drops) per SPEC_FULL.md §3 — a trimmed slice of the
// teacher's much larger HTTP/DB/sync/cache surface; the command HTTP
// surface and the store are not instrumented here.
var (
	// TrackerLagSeconds is the age of the most recently processed log
	// line: wall clock minus the line's own timestamp (spec.md §4.1/4.5).
	// A growing value means the tracker is falling behind the file.
	TrackerLagSeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tracker_lag_seconds",
			Help: "Age of the most recently processed VRChat log line",
		},
	)

	// TrackerLinesProcessed counts lines successfully parsed into an
	// event and handed to the state machine.
	TrackerLinesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tracker_lines_processed_total",
			Help: "Total number of log lines parsed and dispatched",
		},
	)

	// EnrichmentQueueDepth mirrors enrichment.Worker's per-item FIFO
	// length (spec.md §4.6), set on every enqueue/dequeue.
	EnrichmentQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrichment_queue_depth",
			Help: "Current number of pending per-item enrichment jobs",
		},
	)

	// EnrichmentJobsFailed counts item jobs that errored and were
	// requeued (internal/enrichment.Worker.drainItemQueue).
	EnrichmentJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_jobs_failed_total",
			Help: "Total number of enrichment jobs that failed and were requeued",
		},
		[]string{"kind"}, // "security", "print", "inventory"
	)

	// DedupDropsTotal counts rows suppressed by an exact-match dedup
	// window instead of being inserted (spec.md §4.4, §4.9).
	DedupDropsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dedup_drops_total",
			Help: "Total number of events suppressed by a dedup window",
		},
		[]string{"kind"}, // "moderation", "open_join", "watchlist"
	)

	// AppInfo reports build information, one time series per process.
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Companion build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordTrackerLine records a processed log line's lag behind the wall
// clock and increments the processed-line counter.
func RecordTrackerLine(lag time.Duration) {
	TrackerLagSeconds.Set(lag.Seconds())
	TrackerLinesProcessed.Inc()
}

// SetEnrichmentQueueDepth updates the enrichment queue depth gauge.
func SetEnrichmentQueueDepth(depth int) {
	EnrichmentQueueDepth.Set(float64(depth))
}

// RecordEnrichmentFailure records an item job failing and being
// requeued.
func RecordEnrichmentFailure(kind string) {
	EnrichmentJobsFailed.WithLabelValues(kind).Inc()
}

// RecordDedupDrop records an event suppressed by a dedup window.
func RecordDedupDrop(kind string) {
	DedupDropsTotal.WithLabelValues(kind).Inc()
}
