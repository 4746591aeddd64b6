// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package notify

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/tomtom215/vrc-companion/internal/config"
	"github.com/tomtom215/vrc-companion/internal/logging"
	"github.com/tomtom215/vrc-companion/internal/statemachine"
)

const (
	osAliasLocal = "SystemAsterisk"
	osAliasGroup = "SystemExclamation"
)

// Dispatcher implements statemachine.Notifier. It holds the process-wide
// single-flight flag that prevents overlapping playbacks — the same role
// the teacher's webhook/discord notifiers play with a rate-limit
// timestamp, generalized here from "not faster than N/sec" to "not at
// all while one is in flight."
type Dispatcher struct {
	cfg     config.NotificationConfig
	watch   WatchFacade
	player  SoundPlayer
	toaster Toaster
	emit    statemachine.Emitter

	busy atomic.Bool
}

// New constructs a Dispatcher. watch/player/toaster may be nil in tests
// that only exercise the priority chain's decision logic.
func New(cfg config.NotificationConfig, watch WatchFacade, player SoundPlayer, toaster Toaster, emit statemachine.Emitter) *Dispatcher {
	return &Dispatcher{cfg: cfg, watch: watch, player: player, toaster: toaster, emit: emit}
}

// NotifyJoin implements statemachine.Notifier. It runs priority steps 1
// and 2 of spec.md §4.7 synchronously off a player-join line: a per-user
// sound override, then the local-watchlist default.
func (d *Dispatcher) NotifyJoin(userID, username string) {
	if d.watch == nil {
		return
	}

	if path, ok := d.watch.GetSoundOverride(userID); ok && path != "" {
		d.play(context.Background(), playRequest{userID: userID, username: username, path: path, alias: osAliasLocal, volume: d.cfg.MasterVolume * d.cfg.LocalVolume})
		return
	}

	if d.watch.GetWatch(userID) {
		d.play(context.Background(), playRequest{userID: userID, username: username, path: d.cfg.DefaultLocalSound, alias: osAliasLocal, volume: d.cfg.MasterVolume * d.cfg.LocalVolume, toast: true, emitEvent: true})
	}
}

// NotifyGroupMatch implements priority step 3 of spec.md §4.7: a second,
// independently-triggered invocation once C9 delivers a group-watchlist
// match asynchronously. The UI is the caller here, through
// internal/commandapi — it is not reached from the tailing path.
func (d *Dispatcher) NotifyGroupMatch(userID, username string) {
	d.play(context.Background(), playRequest{userID: userID, username: username, path: d.cfg.DefaultGroupSound, alias: osAliasGroup, volume: d.cfg.MasterVolume * d.cfg.GroupVolume})
}

type playRequest struct {
	userID    string
	username  string
	path      string
	alias     string
	volume    float64
	toast     bool
	emitEvent bool
}

// play is the single-flight gate: if a sound is already playing, this
// invocation is dropped outright (spec.md §4.7: "new invocations are
// dropped"), not queued.
func (d *Dispatcher) play(ctx context.Context, req playRequest) {
	if !d.busy.CompareAndSwap(false, true) {
		return
	}
	defer d.busy.Store(false)

	if d.player != nil && req.path != "" {
		if err := d.player.Play(ctx, req.path, req.volume); err != nil {
			logging.Error().Err(err).Str("path", req.path).Msg("notify: sound playback failed, falling back to OS alias")
			if err := d.player.Play(ctx, req.alias, req.volume); err != nil {
				logging.Error().Err(err).Str("alias", req.alias).Msg("notify: OS alias playback also failed")
				return
			}
		}
	}

	if req.toast && d.toaster != nil {
		if err := d.toaster.Toast(ctx, "VRChat", fmt.Sprintf("%s has joined", req.username)); err != nil {
			logging.Error().Err(err).Msg("notify: toast failed")
		}
	}

	if req.emitEvent && d.emit != nil {
		d.emit.Emit("sound_triggered", map[string]any{"user_id": req.userID, "path": req.path})
	}
}
