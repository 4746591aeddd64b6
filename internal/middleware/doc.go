// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

/*
Package middleware provides HTTP middleware components for the command
surface (internal/commandapi).

This is a deliberately small slice of a larger middleware stack: just
gzip compression and request ID tracking. Prometheus instrumentation
and in-process latency percentile tracking are not carried here; they'd
duplicate internal/metrics's tracker/queue/dedup gauges and counters
rather than add an uncovered concern.

Key Components:

  - Compression: Gzip compression for any response the client accepts gzip for
  - Request ID: UUID-based request tracking for structured log correlation

Usage Example - Compression:

	import "github.com/tomtom215/vrc-companion/internal/middleware"

	// Wrap handler with gzip compression
	http.HandleFunc("/commands/search_log_file",
	    middleware.Compression(handler),
	)

	// Responses of any size are compressed
	// Accept-Encoding: gzip header is required

Usage Example - Request ID:

	http.HandleFunc("/commands/read_log_chunk",
	    middleware.RequestID(handler),
	)

	func handler(w http.ResponseWriter, r *http.Request) {
	    requestID := middleware.GetRequestID(r.Context())
	    log.Printf("[%s] processing request", requestID)
	}

Compression Details:

The compression middleware:
  - Compresses responses of any size (no size threshold)
  - Supports gzip encoding (Accept-Encoding: gzip)
  - Skips WebSocket upgrade requests
  - Automatically sets Content-Encoding header

Thread Safety:

Both middleware components are thread-safe:
  - Compression uses a sync.Pool of gzip writers
  - Request ID uses context.Context (immutable) plus internal/logging's
    correlation ID helpers

See Also:

  - internal/commandapi: HTTP handlers wrapped by this middleware
  - internal/logging: structured logging context propagation
*/
package middleware
