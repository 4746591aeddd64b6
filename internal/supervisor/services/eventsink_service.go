// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package services

import (
	"context"
)

// ContextHub interface matches *eventsink.Hub's RunWithContext method.
//
// This interface allows the HubService to work with the hub without
// importing internal/eventsink, avoiding an import cycle with
// internal/statemachine.
//
// Satisfied by *eventsink.Hub from internal/eventsink/hub.go.
type ContextHub interface {
	RunWithContext(ctx context.Context) error
}

// HubService wraps the WebSocket event sink hub (C2) as a supervised
// service.
//
// The hub's RunWithContext method already implements the suture.Service
// pattern, so this wrapper simply delegates to it and provides a name
// for logging.
//
// Example usage:
//
//	hub := eventsink.NewHub()
//	svc := services.NewHubService(hub)
//	tree.AddAPIService(svc)
type HubService struct {
	hub  ContextHub
	name string
}

// NewHubService creates a new event sink hub service wrapper.
func NewHubService(hub ContextHub) *HubService {
	return &HubService{
		hub:  hub,
		name: "eventsink-hub",
	}
}

// Serve implements suture.Service. It delegates to hub.RunWithContext,
// which processes client registration/unregistration and broadcasts
// until ctx is canceled, then closes every connected client.
func (w *HubService) Serve(ctx context.Context) error {
	return w.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for logging.
func (w *HubService) String() string {
	return w.name
}
