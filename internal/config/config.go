// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package config

import "time"

// Config holds all companion configuration loaded from defaults, an
// optional config.yaml, and environment variables (env wins).
type Config struct {
	Log          LogConfig          `koanf:"log"`
	Database     DatabaseConfig     `koanf:"database"`
	Tracker      TrackerConfig      `koanf:"tracker"`
	TailState    TailStateConfig    `koanf:"tailstate"`
	Enrichment   EnrichmentConfig   `koanf:"enrichment"`
	Notification NotificationConfig `koanf:"notification"`
	Supervisor   SupervisorConfig   `koanf:"supervisor"`
	API          APIConfig          `koanf:"api"`
}

// LogConfig controls internal/logging.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// DatabaseConfig controls the embedded DuckDB store (internal/store).
type DatabaseConfig struct {
	// Path is the joinlogs.db file path. Empty means resolve under
	// apppaths.DataDir().
	Path    string `koanf:"path"`
	Threads int    `koanf:"threads"`
	// MaxMemory is a DuckDB memory limit string, e.g. "512MB".
	MaxMemory string `koanf:"max_memory"`
}

// TrackerConfig controls the log tracker (C5) and line assembler (C6).
type TrackerConfig struct {
	// LogDir overrides apppaths.LogDir() when non-empty.
	LogDir string `koanf:"log_dir"`
	// PollInterval is how often the directory is rescanned for the
	// newest output_log_*.txt. Spec default: ~1s.
	PollInterval time.Duration `koanf:"poll_interval"`
	// TailInterval is how often an open file is read for new bytes.
	// Spec default: ~750ms.
	TailInterval time.Duration `koanf:"tail_interval"`
	// ReadBufferBytes is the fixed-size read buffer per poll (>= 64KiB).
	ReadBufferBytes int `koanf:"read_buffer_bytes"`
	// MaxLinesPerBatch bounds a single micro-batch handed to the state
	// machine before yielding.
	MaxLinesPerBatch int `koanf:"max_lines_per_batch"`
	// MaxLinesPerPoll bounds total lines processed in one poll before
	// the cursor is persisted and the tracker yields.
	MaxLinesPerPoll int `koanf:"max_lines_per_poll"`
	// ReconstructWindowBytes bounds the tail window the session
	// reconstructor scans on first open.
	ReconstructWindowBytes int64 `koanf:"reconstruct_window_bytes"`
	// UseFSNotify enables the fsnotify fast path between polls.
	UseFSNotify bool `koanf:"use_fsnotify"`
}

// TailStateConfig controls the BadgerDB-backed cursor/dedup checkpoint
// (internal/tailstate).
type TailStateConfig struct {
	// Path is the Badger directory. Empty means resolve under
	// apppaths.DataDir()/tailstate.
	Path string `koanf:"path"`
}

// EnrichmentConfig controls the remote enrichment worker (C9).
type EnrichmentConfig struct {
	// BaseURL is the remote API base, e.g. https://fch-toolkit.com.
	BaseURL string `koanf:"base_url"`
	// CheckUserPath overrides the /check-user path.
	CheckUserPath string `koanf:"check_user_path"`
	// SecurityCheckPath overrides the /api/security-check path.
	SecurityCheckPath string `koanf:"security_check_path"`
	// InvChkPath overrides the /invChk path.
	InvChkPath string `koanf:"inv_chk_path"`
	// WorldLogsPath overrides the /api/worldlogs path.
	WorldLogsPath string `koanf:"world_logs_path"`
	// RequestTimeout is the per-HTTP-attempt timeout (spec: 17s).
	RequestTimeout time.Duration `koanf:"request_timeout"`
	// ClientTimeout is the overall client timeout (spec: 90s).
	ClientTimeout time.Duration `koanf:"client_timeout"`
	// RetryBackoff is the delay between per-item queue retries (spec: 3s).
	RetryBackoff time.Duration `koanf:"retry_backoff"`
	// WatchlistDebounce is the quiet period before a watchlist batch
	// fires (spec: 1s).
	WatchlistDebounce time.Duration `koanf:"watchlist_debounce"`
	// BreakerFailureThreshold is consecutive failures before the
	// circuit breaker opens.
	BreakerFailureThreshold uint32 `koanf:"breaker_failure_threshold"`
	// BreakerOpenTimeout is how long the breaker stays open before
	// allowing a probe request.
	BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
	// ItemRateLimitPerSecond paces successful per-item queue sends.
	ItemRateLimitPerSecond float64 `koanf:"item_rate_limit_per_second"`
}

// NotificationConfig controls the notification dispatcher (C10).
type NotificationConfig struct {
	MasterVolume        float64 `koanf:"master_volume"`
	LocalVolume         float64 `koanf:"local_volume"`
	GroupVolume         float64 `koanf:"group_volume"`
	DefaultLocalSound   string  `koanf:"default_local_sound"`
	DefaultGroupSound   string  `koanf:"default_group_sound"`
	OSFallbackLocal     string  `koanf:"os_fallback_local"`
	OSFallbackGroup     string  `koanf:"os_fallback_group"`
}

// SupervisorConfig mirrors suture.Spec, ported from the teacher's
// supervisor.TreeConfig.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig controls the thin command-surface HTTP shim
// (internal/commandapi) and the event sink's WebSocket upgrade
// (internal/eventsink).
type APIConfig struct {
	Addr string `koanf:"addr"`
	// AllowedOrigins are the Origin header values the WebSocket upgrader
	// accepts. The desktop UI runs on localhost, so this defaults to the
	// loopback origins Electron/webview shells use.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// Default returns a Config populated with sensible defaults. Load()
// applies this first, then a config file, then environment variables.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Database: DatabaseConfig{
			Path:      "",
			Threads:   0,
			MaxMemory: "512MB",
		},
		Tracker: TrackerConfig{
			LogDir:                 "",
			PollInterval:           1 * time.Second,
			TailInterval:           750 * time.Millisecond,
			ReadBufferBytes:        64 * 1024,
			MaxLinesPerBatch:       1000,
			MaxLinesPerPoll:        10000,
			ReconstructWindowBytes: 4 << 20,
			UseFSNotify:            true,
		},
		TailState: TailStateConfig{
			Path: "",
		},
		Enrichment: EnrichmentConfig{
			BaseURL:                 "https://fch-toolkit.com",
			CheckUserPath:           "/check-user",
			SecurityCheckPath:       "/api/security-check",
			InvChkPath:              "/invChk",
			WorldLogsPath:           "/api/worldlogs",
			RequestTimeout:          17 * time.Second,
			ClientTimeout:           90 * time.Second,
			RetryBackoff:            3 * time.Second,
			WatchlistDebounce:       1 * time.Second,
			BreakerFailureThreshold: 5,
			BreakerOpenTimeout:      30 * time.Second,
			ItemRateLimitPerSecond:  2,
		},
		Notification: NotificationConfig{
			MasterVolume:      1.0,
			LocalVolume:       1.0,
			GroupVolume:       1.0,
			DefaultLocalSound: "",
			DefaultGroupSound: "",
			OSFallbackLocal:   "SystemAsterisk",
			OSFallbackGroup:   "SystemExclamation",
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5.0,
			FailureDecay:     30.0,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
		API: APIConfig{
			Addr:           "127.0.0.1:38570",
			AllowedOrigins: []string{"http://localhost", "http://127.0.0.1", "tauri://localhost"},
		},
	}
}
