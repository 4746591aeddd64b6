// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package config

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationErrors aggregates every field-level validation failure so a
// single Load() call reports all of them at once instead of stopping at
// the first.
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks required fields and value ranges, returning a
// ValidationErrors if anything is wrong.
func (c *Config) Validate() error {
	var errs ValidationErrors

	if c.Tracker.PollInterval <= 0 {
		errs = append(errs, errors.New("tracker.poll_interval must be positive"))
	}
	if c.Tracker.TailInterval <= 0 {
		errs = append(errs, errors.New("tracker.tail_interval must be positive"))
	}
	if c.Tracker.ReadBufferBytes < 64*1024 {
		errs = append(errs, fmt.Errorf("tracker.read_buffer_bytes must be >= 65536, got %d", c.Tracker.ReadBufferBytes))
	}
	if c.Tracker.MaxLinesPerBatch <= 0 {
		errs = append(errs, errors.New("tracker.max_lines_per_batch must be positive"))
	}
	if c.Tracker.MaxLinesPerPoll < c.Tracker.MaxLinesPerBatch {
		errs = append(errs, errors.New("tracker.max_lines_per_poll must be >= max_lines_per_batch"))
	}
	if c.Tracker.ReconstructWindowBytes <= 0 {
		errs = append(errs, errors.New("tracker.reconstruct_window_bytes must be positive"))
	}

	if c.Enrichment.BaseURL == "" {
		errs = append(errs, errors.New("enrichment.base_url must not be empty"))
	}
	if c.Enrichment.RequestTimeout <= 0 {
		errs = append(errs, errors.New("enrichment.request_timeout must be positive"))
	}
	if c.Enrichment.ClientTimeout < c.Enrichment.RequestTimeout {
		errs = append(errs, errors.New("enrichment.client_timeout must be >= request_timeout"))
	}
	if c.Enrichment.RetryBackoff <= 0 {
		errs = append(errs, errors.New("enrichment.retry_backoff must be positive"))
	}
	if c.Enrichment.BreakerFailureThreshold == 0 {
		errs = append(errs, errors.New("enrichment.breaker_failure_threshold must be positive"))
	}

	if c.Notification.MasterVolume < 0 || c.Notification.MasterVolume > 1 {
		errs = append(errs, errors.New("notification.master_volume must be in [0,1]"))
	}
	if c.Notification.LocalVolume < 0 || c.Notification.LocalVolume > 1 {
		errs = append(errs, errors.New("notification.local_volume must be in [0,1]"))
	}
	if c.Notification.GroupVolume < 0 || c.Notification.GroupVolume > 1 {
		errs = append(errs, errors.New("notification.group_volume must be in [0,1]"))
	}

	if c.Supervisor.FailureThreshold <= 0 {
		errs = append(errs, errors.New("supervisor.failure_threshold must be positive"))
	}
	if c.Supervisor.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("supervisor.shutdown_timeout must be positive"))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
