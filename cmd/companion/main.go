// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package main is the entry point for the VRChat session companion
// backend.
//
// # Application Architecture
//
// The process initializes components in the following order:
//
//  1. Configuration: load settings from defaults, an optional config.yaml,
//     and environment variables (koanf v2)
//  2. Logging: initialize zerolog with the configured level/format
//  3. Engine: open the embedded DuckDB store and the BadgerDB tail-state
//     checkpoint, then wire the state machine, enrichment worker,
//     notification dispatcher, event sink hub, and log tracker
//  4. Supervisor tree: add the tracker, enrichment, and API layer
//     services, then start serving
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the supervisor tree is
// given ShutdownTimeout to stop every service, then the engine's store
// and tail-state handles are closed.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/vrc-companion/internal/commandapi"
	"github.com/tomtom215/vrc-companion/internal/config"
	"github.com/tomtom215/vrc-companion/internal/engine"
	"github.com/tomtom215/vrc-companion/internal/eventsink"
	"github.com/tomtom215/vrc-companion/internal/logging"
	"github.com/tomtom215/vrc-companion/internal/logread"
	"github.com/tomtom215/vrc-companion/internal/metrics"
	"github.com/tomtom215/vrc-companion/internal/supervisor"
	"github.com/tomtom215/vrc-companion/internal/supervisor/services"
)

// companionVersion is the build version reported on the app_info metric.
// Not wired to a build-time ldflag in this repo; set to "dev" until one
// is added.
const companionVersion = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.Caller,
	})

	logging.Info().Msg("Starting VRChat session companion")

	// watch/player/toaster/usernames are external collaborators this
	// repo has no concrete OS-level implementation for (spec.md §1's
	// Non-goal boundary): the UI process supplies them over the command
	// surface in a later integration. Passing nil degrades their
	// priority steps to no-ops rather than crashing; see
	// internal/notify.Dispatcher and internal/statemachine.Machine.
	eng, err := engine.New(cfg, nil, nil, nil, nil)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize engine")
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing engine")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slogLogger := logging.NewSlogLogger()
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfig{
		FailureThreshold: cfg.Supervisor.FailureThreshold,
		FailureDecay:     cfg.Supervisor.FailureDecay,
		FailureBackoff:   cfg.Supervisor.FailureBackoff,
		ShutdownTimeout:  cfg.Supervisor.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	reader := logread.New(cfg.Tracker.LogDir, eng.Hub)
	apiHandler := commandapi.New(eng.Store, reader, eng.Notify, eng.Machine, eng.Clock, cfg.API.AllowedOrigins)

	metrics.AppInfo.WithLabelValues(companionVersion, runtime.Version()).Set(1)

	mux := http.NewServeMux()
	mux.Handle("/commands/", apiHandler.Router())
	mux.HandleFunc("/ws", eventsink.UpgradeHandler(eng.Hub, cfg.API.AllowedOrigins))
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         cfg.API.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	tree.AddTrackerService(eng.Tracker)
	tree.AddEnrichmentService(eng.Enrichment)
	tree.AddAPIService(services.NewHubService(eng.Hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout))

	logging.Info().Str("addr", cfg.API.Addr).Str("log_dir", cfg.Tracker.LogDir).Msg("Companion services registered")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Companion stopped gracefully")
}
