// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package supervisor

import (
	"context"
	"log/slog"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// TreeConfig holds supervisor tree configuration.
type TreeConfig struct {
	// FailureThreshold is the number of failures before entering backoff.
	// Default: 5
	FailureThreshold float64

	// FailureDecay is the rate at which failures decay in seconds.
	// Default: 30
	FailureDecay float64

	// FailureBackoff is the duration to wait when threshold is exceeded.
	// Default: 15s
	FailureBackoff time.Duration

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	// Default: 10s
	ShutdownTimeout time.Duration
}

// DefaultTreeConfig returns production-ready defaults.
// These values match suture's built-in defaults per pkg.go.dev documentation.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5.0,
		FailureDecay:     30.0,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

// SupervisorTree manages the hierarchical supervisor structure for the
// companion process.
//
// The tree is organized into four layers:
//   - data: the embedded store and the tail-state checkpoint (nothing
//     long-running lives here today, but a crash-isolated home exists
//     for future WAL-style compaction work)
//   - tracker: the log tracker (C5/C6/C7) feeding the state machine
//   - enrichment: the remote enrichment worker (C9); the notification
//     dispatcher (C10) is not a supervised service
//   - api: the WebSocket event sink (C2) and the command-surface HTTP
//     server (C11/commandapi)
//
// This structure provides failure isolation: a crash while tailing the
// log file doesn't take down the WebSocket connection to the desktop
// UI, and a stuck remote enrichment call doesn't block log tracking.
type SupervisorTree struct {
	root       *suture.Supervisor
	data       *suture.Supervisor
	tracker    *suture.Supervisor
	enrichment *suture.Supervisor
	api        *suture.Supervisor
	logger     *slog.Logger
	config     TreeConfig
}

// NewSupervisorTree creates a new supervisor tree with the given configuration.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if config.FailureThreshold == 0 {
		config.FailureThreshold = 5.0
	}
	if config.FailureDecay == 0 {
		config.FailureDecay = 30.0
	}
	if config.FailureBackoff == 0 {
		config.FailureBackoff = 15 * time.Second
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = 10 * time.Second
	}

	// IMPORTANT: the correct API is (&Handler{Logger: logger}).MustHook(),
	// not sutureslog.EventHook(logger) which does not exist. MustHook has
	// a pointer receiver, so we need to take the address.
	handler := &sutureslog.Handler{Logger: logger}
	eventHook := handler.MustHook()

	rootSpec := suture.Spec{
		EventHook:        eventHook,
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	// Child supervisors use the same failure parameters and inherit the
	// EventHook when added to the root.
	childSpec := suture.Spec{
		FailureThreshold: config.FailureThreshold,
		FailureDecay:     config.FailureDecay,
		FailureBackoff:   config.FailureBackoff,
		Timeout:          config.ShutdownTimeout,
	}

	root := suture.New("vrc-companion", rootSpec)
	data := suture.New("data-layer", childSpec)
	tracker := suture.New("tracker-layer", childSpec)
	enrichment := suture.New("enrichment-layer", childSpec)
	api := suture.New("api-layer", childSpec)

	root.Add(data)
	root.Add(tracker)
	root.Add(enrichment)
	root.Add(api)

	return &SupervisorTree{
		root:       root,
		data:       data,
		tracker:    tracker,
		enrichment: enrichment,
		api:        api,
		logger:     logger,
		config:     config,
	}, nil
}

// Root returns the root supervisor for direct access if needed.
func (t *SupervisorTree) Root() *suture.Supervisor {
	return t.root
}

// AddDataService adds a service to the data layer supervisor.
func (t *SupervisorTree) AddDataService(svc suture.Service) suture.ServiceToken {
	return t.data.Add(svc)
}

// AddTrackerService adds a service to the tracker layer supervisor.
// Use this for the log tracker (internal/tracker.Service).
func (t *SupervisorTree) AddTrackerService(svc suture.Service) suture.ServiceToken {
	return t.tracker.Add(svc)
}

// AddEnrichmentService adds a service to the enrichment layer supervisor.
// Use this for the enrichment worker (internal/enrichment.Worker).
func (t *SupervisorTree) AddEnrichmentService(svc suture.Service) suture.ServiceToken {
	return t.enrichment.Add(svc)
}

// AddAPIService adds a service to the API layer supervisor.
// Use this for the WebSocket hub and the command-surface HTTP server.
func (t *SupervisorTree) AddAPIService(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// RemoveTrackerService removes a service from the tracker layer supervisor.
func (t *SupervisorTree) RemoveTrackerService(token suture.ServiceToken) error {
	return t.tracker.Remove(token)
}

// Serve starts the supervisor tree and blocks until the context is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the supervisor tree in a background goroutine.
// Returns a channel that receives the error (or nil) when the supervisor stops.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport returns information about services that failed to stop
// within the configured shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}

// Remove removes a service from the tree by its token.
func (t *SupervisorTree) Remove(token suture.ServiceToken) error {
	return t.root.Remove(token)
}

// RemoveAndWait removes a service and waits for it to fully stop.
func (t *SupervisorTree) RemoveAndWait(token suture.ServiceToken, timeout time.Duration) error {
	return t.root.RemoveAndWait(token, timeout)
}
