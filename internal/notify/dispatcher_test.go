// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tomtom215/vrc-companion/internal/config"
)

type fakeWatch struct {
	watched   map[string]bool
	overrides map[string]string
}

func (f *fakeWatch) GetWatch(userID string) bool { return f.watched[userID] }
func (f *fakeWatch) GetSoundOverride(userID string) (string, bool) {
	p, ok := f.overrides[userID]
	return p, ok
}

type fakePlayer struct {
	mu       sync.Mutex
	played   []string
	failPath string
	block    chan struct{}
}

func (f *fakePlayer) Play(ctx context.Context, path string, volume float64) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if path == f.failPath {
		return errors.New("decode failure")
	}
	f.played = append(f.played, path)
	return nil
}

func (f *fakePlayer) playedPaths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.played))
	copy(out, f.played)
	return out
}

type fakeToaster struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeToaster) Toast(ctx context.Context, title, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	return nil
}

type recordingEmitter struct {
	events chan string
}

func (r *recordingEmitter) Emit(event string, payload interface{}) {
	r.events <- event
}

func testConfig() config.NotificationConfig {
	return config.NotificationConfig{
		MasterVolume:      1,
		LocalVolume:       0.5,
		GroupVolume:       0.8,
		DefaultLocalSound: "local.wav",
		DefaultGroupSound: "group.wav",
		OSFallbackLocal:   osAliasLocal,
		OSFallbackGroup:   osAliasGroup,
	}
}

func TestNotifyJoinPrefersPerUserOverride(t *testing.T) {
	watch := &fakeWatch{watched: map[string]bool{"usr_a": true}, overrides: map[string]string{"usr_a": "custom.wav"}}
	player := &fakePlayer{}
	d := New(testConfig(), watch, player, nil, nil)

	d.NotifyJoin("usr_a", "Alice")

	require.Equal(t, []string{"custom.wav"}, player.playedPaths())
}

func TestNotifyJoinPlaysLocalDefaultAndToastsForWatchlistedUser(t *testing.T) {
	watch := &fakeWatch{watched: map[string]bool{"usr_b": true}}
	player := &fakePlayer{}
	toaster := &fakeToaster{}
	emit := &recordingEmitter{events: make(chan string, 4)}
	d := New(testConfig(), watch, player, toaster, emit)

	d.NotifyJoin("usr_b", "Bob")

	require.Equal(t, []string{"local.wav"}, player.playedPaths())
	require.Contains(t, toaster.messages, "Bob has joined")
	select {
	case ev := <-emit.events:
		require.Equal(t, "sound_triggered", ev)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for sound_triggered")
	}
}

func TestNotifyJoinDoesNothingForUnwatchedUser(t *testing.T) {
	watch := &fakeWatch{watched: map[string]bool{}}
	player := &fakePlayer{}
	d := New(testConfig(), watch, player, nil, nil)

	d.NotifyJoin("usr_c", "Carl")

	require.Empty(t, player.playedPaths())
}

func TestNotifyJoinFallsBackToOSAliasOnPlaybackFailure(t *testing.T) {
	watch := &fakeWatch{watched: map[string]bool{"usr_d": true}}
	player := &fakePlayer{failPath: "local.wav"}
	d := New(testConfig(), watch, player, nil, nil)

	d.NotifyJoin("usr_d", "Dana")

	require.Equal(t, []string{osAliasLocal}, player.playedPaths())
}

func TestSingleFlightDropsOverlappingInvocations(t *testing.T) {
	watch := &fakeWatch{watched: map[string]bool{"usr_e": true, "usr_f": true}}
	player := &fakePlayer{block: make(chan struct{})}
	d := New(testConfig(), watch, player, nil, nil)

	done := make(chan struct{})
	go func() {
		d.NotifyJoin("usr_e", "Eve")
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	d.NotifyJoin("usr_f", "Frank")
	close(player.block)
	<-done

	require.Equal(t, []string{"local.wav"}, player.playedPaths())
}
