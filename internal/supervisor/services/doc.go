// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

/*
Package services provides suture.Service wrappers for components whose
own lifecycle method doesn't already match suture v4's Serve(ctx) error
shape.

# Overview

internal/tracker.Service and internal/enrichment.Worker already
implement suture.Service directly (Serve(ctx context.Context) error
plus String() string) and are added to the tree with no wrapper at
all. Only two components need translation:

HubService wraps internal/eventsink.Hub, whose RunWithContext method
already follows the context-cancel-to-stop pattern but isn't named
Serve.

HTTPServerService wraps *http.Server's ListenAndServe/Shutdown pair,
converting the blocking-call-plus-separate-shutdown pattern into a
single Serve(ctx) that starts the listener in a goroutine and calls
Shutdown when ctx is canceled.

# Usage

	hub := eventsink.NewHub()
	tree.AddAPIService(services.NewHubService(hub))

	server := &http.Server{Addr: cfg.API.Addr, Handler: router}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

# Error handling

Return values determine supervisor behavior: nil means stopped cleanly
and will not restart, a non-nil error means the supervisor restarts the
service, and ctx.Err() on cancellation is a normal shutdown.
*/
package services
