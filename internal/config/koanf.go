// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/vrc-companion/internal/apppaths"
)

// DefaultConfigPaths lists the paths searched for a config file, in
// priority order. The first one found is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar overrides the config file search with an explicit path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds a Config from defaults, an optional YAML file, and
// environment variables (env wins), then validates it and resolves
// data-directory-relative defaults.
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := Default()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	applyPathDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}

	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// envTransformFunc maps environment variable names onto koanf dotted
// paths, e.g. TRACKER_POLL_INTERVAL -> tracker.poll_interval.
func envTransformFunc(s string) string {
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "log_"):
		return "log." + strings.TrimPrefix(lower, "log_")
	case strings.HasPrefix(lower, "database_"):
		return "database." + strings.TrimPrefix(lower, "database_")
	case strings.HasPrefix(lower, "tracker_"):
		return "tracker." + strings.TrimPrefix(lower, "tracker_")
	case strings.HasPrefix(lower, "tailstate_"):
		return "tailstate." + strings.TrimPrefix(lower, "tailstate_")
	case strings.HasPrefix(lower, "enrichment_"), strings.HasPrefix(lower, "api_checks_"), strings.HasPrefix(lower, "api_inv_check_"):
		return "enrichment." + mapEnrichmentEnv(lower)
	case strings.HasPrefix(lower, "notification_"):
		return "notification." + strings.TrimPrefix(lower, "notification_")
	case strings.HasPrefix(lower, "supervisor_"):
		return "supervisor." + strings.TrimPrefix(lower, "supervisor_")
	case strings.HasPrefix(lower, "api_"):
		return "api." + strings.TrimPrefix(lower, "api_")
	case lower == "vite_api_base":
		return "enrichment.base_url"
	default:
		return lower
	}
}

// mapEnrichmentEnv handles the spec's irregular API_CHECKS_*/API_INV_CHECK_*
// naming (§6) alongside the regular ENRICHMENT_* prefix.
func mapEnrichmentEnv(lower string) string {
	switch {
	case strings.HasSuffix(lower, "url") && strings.Contains(lower, "inv_check"):
		return "inv_chk_path"
	case strings.HasSuffix(lower, "url") && strings.Contains(lower, "checks"):
		return "security_check_path"
	default:
		return strings.TrimPrefix(strings.TrimPrefix(lower, "enrichment_"), "api_")
	}
}

// applyPathDefaults fills in data-directory-relative paths that Default()
// leaves empty so apppaths stays the single source of truth for directory
// resolution.
func applyPathDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = apppaths.DataDir() + "/joinlogs.db"
	}
	if cfg.Tracker.LogDir == "" {
		cfg.Tracker.LogDir = apppaths.LogDir()
	}
	if cfg.TailState.Path == "" {
		cfg.TailState.Path = apppaths.DataDir() + "/tailstate"
	}
}
