// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package enrichment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/vrc-companion/internal/config"
)

// remoteClient wraps the plain HTTP client with the circuit breaker that
// protects the per-item queue from hammering a down remote service
// (SPEC_FULL.md §4.9, grounded in eventprocessor/circuitbreaker.go).
type remoteClient struct {
	cfg     config.EnrichmentConfig
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
}

func newRemoteClient(cfg config.EnrichmentConfig) *remoteClient {
	settings := gobreaker.Settings{
		Name:        "enrichment-remote",
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailureThreshold
		},
	}
	return &remoteClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.ClientTimeout},
		breaker: gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// postJSON POSTs body as JSON to path (joined with the configured base
// URL) and returns the response body. Every call goes through the
// circuit breaker.
func (c *remoteClient) postJSON(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("remote %s returned status %d", path, resp.StatusCode)
		}
		return respBody, nil
	})
}
