// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

/*
Package metrics provides Prometheus instrumentation for the companion's
own pipeline: the log tracker, the enrichment queue, and the dedup
windows that guard moderation and join-log writes.

# Metrics Endpoint

Metrics are exposed at /metrics in Prometheus text format:

	curl http://127.0.0.1:38570/metrics

# Available Metrics

Tracker:
  - tracker_lag_seconds: age of the most recently processed log line (gauge)
  - tracker_lines_processed_total: log lines parsed and dispatched (counter)

Enrichment:
  - enrichment_queue_depth: pending per-item jobs (gauge)
  - enrichment_jobs_failed_total: jobs that failed and were requeued (counter)
    Labels: kind

Dedup:
  - dedup_drops_total: events suppressed by a dedup window (counter)
    Labels: kind (moderation, open_join, watchlist)

System:
  - app_info: build version and Go runtime version (gauge)
    Labels: version, go_version

This is a deliberately small slice of what the teacher's metrics
package covers: the command HTTP surface and the DuckDB store are not
instrumented, and this process has no sync scheduler or cache.
*/
package metrics
