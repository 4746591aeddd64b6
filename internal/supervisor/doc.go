// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

/*
Package supervisor provides process supervision for the companion process
using suture v4.

This package implements a hierarchical supervisor tree that manages the
lifecycle of every long-running component in the application. It
provides Erlang/OTP-style supervision with automatic restart, failure
isolation, and graceful shutdown.

# Overview

The supervisor tree organizes components into four layers for failure
isolation:

	RootSupervisor ("vrc-companion")
	├── DataSupervisor ("data-layer")
	│   └── (reserved for future store/checkpoint maintenance services)
	├── TrackerSupervisor ("tracker-layer")
	│   └── tracker.Service (log discovery, tailing, session reconstruction)
	├── EnrichmentSupervisor ("enrichment-layer")
	│   └── enrichment.Worker (remote lookups, watchlist debounce, moderation publish)
	└── APISupervisor ("api-layer")
	    ├── services.HubService (WebSocket event sink)
	    └── services.HTTPServerService (command-surface HTTP shim)

This hierarchy ensures that:
  - A stuck remote enrichment call doesn't block log tracking
  - A log tracker panic doesn't drop the desktop UI's WebSocket connection
  - Each layer restarts independently of the others

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Failure Isolation:
  - Services are organized into logical groups
  - Child supervisor failures don't propagate upward
  - Each layer has independent failure counting

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Integration with slog for structured events
  - Logs service starts, stops, failures, and restarts
  - Event hooks via the sutureslog adapter

# Usage Example

Basic setup in main.go:

	import (
	    "log/slog"
	    "github.com/tomtom215/vrc-companion/internal/supervisor"
	    "github.com/tomtom215/vrc-companion/internal/supervisor/services"
	)

	func main() {
	    logger := slog.Default()
	    config := supervisor.DefaultTreeConfig()

	    tree, err := supervisor.NewSupervisorTree(logger, config)
	    if err != nil {
	        log.Fatal(err)
	    }

	    tree.AddTrackerService(trackerSvc)
	    tree.AddEnrichmentService(enrichmentWorker)
	    tree.AddAPIService(services.NewHubService(hub))
	    tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	    ctx := context.Background()
	    if err := tree.Serve(ctx); err != nil {
	        log.Printf("Supervisor stopped: %v", err)
	    }
	}

Background operation:

	errChan := tree.ServeBackground(ctx)
	// ...
	if err := <-errChan; err != nil {
	    log.Printf("Supervisor error: %v", err)
	}

# Configuration

The TreeConfig controls restart behavior:

	config := supervisor.TreeConfig{
	    FailureThreshold: 5.0,              // Failures before backoff
	    FailureDecay:     30.0,             // Seconds for failures to decay
	    FailureBackoff:   15 * time.Second, // Backoff duration
	    ShutdownTimeout:  10 * time.Second, // Per-service shutdown timeout
	}

Default values match suture's production-ready defaults.

# Failure Handling

The supervisor uses a failure counter with exponential decay:

 1. Each service failure increments the counter
 2. Counter decays exponentially over time (FailureDecay seconds)
 3. When counter exceeds FailureThreshold, supervisor enters backoff
 4. During backoff, restarts are delayed by FailureBackoff duration

# Service Interface

All services must implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return nil: Service stopped cleanly, will not be restarted
  - Return error: Service crashed, will be restarted
  - Context canceled: Shutdown requested, return promptly

# What Is NOT Supervised

The embedded DuckDB connection is not supervised: it's a library, not a
long-running service, and its lifetime is tied to internal/store.Store.
The BadgerDB cursor store (internal/tailstate) is likewise a library
dependency owned by the tracker layer, not a separate supervised
component.

# Debugging Shutdown Issues

If services don't stop within the timeout:

	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("Service didn't stop: %v", svc)
	}

# See Also

  - internal/supervisor/services: Service wrappers
  - github.com/thejerf/suture/v4: Underlying library
*/
package supervisor
