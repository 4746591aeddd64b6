// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package eventsink

import (
	"context"
	"sort"
	"sync"

	"github.com/tomtom215/vrc-companion/internal/logging"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// ringBufferCap bounds how many past events a freshly connected client
// can catch up on.
const ringBufferCap = 200

// Message is one named event pushed to every connected client.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Sink is the narrow interface the rest of the companion depends on;
// internal/statemachine, internal/tracker, and internal/enrichment only
// ever need to Emit, never touch a *Hub directly.
type Sink interface {
	Emit(event string, payload interface{})
}

// Hub maintains the set of active clients, broadcasts events to them,
// and keeps a bounded ring buffer of recent events for catch-up.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client

	mu      sync.RWMutex
	history []Message
}

// NewHub constructs a Hub. Call RunWithContext to drive it.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Emit implements the statemachine.Emitter / Sink interface.
func (h *Hub) Emit(event string, payload interface{}) {
	message := Message{Type: event, Data: payload}
	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("event", event).Msg("eventsink: broadcast channel full, dropping event")
	}
}

// RunWithContext drives the hub's register/unregister/broadcast actor
// loop until ctx is canceled. Priority-select ordering (lifecycle events
// before broadcasts) keeps client bookkeeping deterministic under load.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.registerClient(client)
			continue
		case client := <-h.Unregister:
			h.unregisterClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.logGracefulShutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		case message := <-h.broadcast:
			h.recordHistory(message)
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	backlog := append([]Message(nil), h.history...)
	h.mu.Unlock()

	logging.Info().Int("total_clients", len(h.clients)).Msg("eventsink client connected")
	for _, m := range backlog {
		select {
		case c.send <- m:
		default:
		}
	}
}

func (h *Hub) unregisterClient(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	logging.Info().Int("total_clients", len(h.clients)).Msg("eventsink client disconnected")
}

func (h *Hub) recordHistory(m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.history = append(h.history, m)
	if len(h.history) > ringBufferCap {
		h.history = h.history[len(h.history)-ringBufferCap:]
	}
}

func (h *Hub) logGracefulShutdown(ctx context.Context) {
	count := h.clientCount()
	h.closeAllClients()
	reason := shutdownReason(ctx)
	logging.Info().
		Str("component", "eventsink-hub").
		Str("reason", string(reason)).
		Int("clients_closed", count).
		Msg("eventsink hub stopped")
}

func shutdownReason(ctx context.Context) ShutdownReason {
	switch ctx.Err() {
	case context.DeadlineExceeded:
		return ShutdownReasonContextDeadline
	default:
		return ShutdownReasonContextCanceled
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcastToClients fans a message out in a deterministic client order
// so tests and logs aren't subject to map iteration order.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })

	var drop []*Client
	for _, c := range clients {
		select {
		case c.send <- message:
		default:
			drop = append(drop, c)
		}
	}
	for _, c := range drop {
		close(c.send)
		delete(h.clients, c)
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	sort.Slice(clients, func(i, j int) bool { return clients[i].id < clients[j].id })

	for _, c := range clients {
		close(c.send)
		delete(h.clients, c)
	}
}
