// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

// Package engine wires every component's dependencies together behind one
// explicit struct instead of package-level globals (spec.md §9). cmd/companion
// constructs an Engine once at startup and hands pieces of it to the
// supervisor tree; nothing in this repo reaches for a package var to find
// the store, the hub, or the clock.
package engine

import (
	"fmt"

	"github.com/tomtom215/vrc-companion/internal/clock"
	"github.com/tomtom215/vrc-companion/internal/config"
	"github.com/tomtom215/vrc-companion/internal/enrichment"
	"github.com/tomtom215/vrc-companion/internal/eventsink"
	"github.com/tomtom215/vrc-companion/internal/notify"
	"github.com/tomtom215/vrc-companion/internal/statemachine"
	"github.com/tomtom215/vrc-companion/internal/store"
	"github.com/tomtom215/vrc-companion/internal/tailstate"
	"github.com/tomtom215/vrc-companion/internal/tracker"
)

// Engine owns every long-lived, non-global dependency the companion
// needs: the embedded store, the tail-state checkpoint, the event sink
// hub, the state machine, and the workers built on top of them.
type Engine struct {
	Config *config.Config

	Store     *store.Store
	Cursors   *tailstate.Store
	Clock     clock.Clock
	Hub       *eventsink.Hub
	Machine   *statemachine.Machine
	Tracker   *tracker.Service
	Enrichment *enrichment.Worker
	Notify    *notify.Dispatcher
}

// New opens the store and the tail-state checkpoint, then wires the
// state machine, enrichment worker, notification dispatcher, event sink
// hub, and log tracker against them. watch/player/toaster are the
// companion's external collaborators (spec.md §1's Non-goal boundary:
// notes/watchlist/settings JSON stores and OS audio/toast are not
// backend-owned); passing nil for any of them degrades that priority
// step to a no-op rather than a crash, since every dependent call site
// nil-checks before using them.
func New(cfg *config.Config, watch notify.WatchFacade, player notify.SoundPlayer, toaster notify.Toaster, usernames statemachine.UsernameCache) (*Engine, error) {
	s, err := store.Open(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	cursors, err := tailstate.Open(cfg.TailState.Path)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open tailstate: %w", err)
	}

	realClock := clock.NewReal()
	hub := eventsink.NewHub()

	enrichWorker := enrichment.New(cfg.Enrichment, s, hub)
	notifyDispatcher := notify.New(cfg.Notification, watch, player, toaster, hub)

	machine := statemachine.New(s, realClock, hub, enrichWorker, notifyDispatcher, usernames)
	trackerSvc := tracker.New(cfg.Tracker, s, cursors, machine)

	return &Engine{
		Config:     cfg,
		Store:      s,
		Cursors:    cursors,
		Clock:      realClock,
		Hub:        hub,
		Machine:    machine,
		Tracker:    trackerSvc,
		Enrichment: enrichWorker,
		Notify:     notifyDispatcher,
	}, nil
}

// Close releases the store and tail-state handles. Call it after the
// supervisor tree has fully stopped.
func (e *Engine) Close() error {
	var firstErr error
	if err := e.Cursors.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close tailstate: %w", err)
	}
	if err := e.Store.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close store: %w", err)
	}
	return firstErr
}
