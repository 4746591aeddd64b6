// vrc-companion - VRChat Desktop Companion Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vrc-companion

package enrichment

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/vrc-companion/internal/config"
	"github.com/tomtom215/vrc-companion/internal/logging"
	"github.com/tomtom215/vrc-companion/internal/metrics"
	"github.com/tomtom215/vrc-companion/internal/statemachine"
	"github.com/tomtom215/vrc-companion/internal/store"
)

// Worker is the single consumer behind two independent queues — a
// debounced watchlist batch and an unbounded per-item FIFO — grounded in
// eventprocessor/duckdb_consumer.go's single-consumer-two-queues shape
// (SPEC_FULL.md §4.9). It implements statemachine.EnrichmentDispatcher
// and suture.Service.
type Worker struct {
	cfg     config.EnrichmentConfig
	store   *store.Store
	client  *remoteClient
	limiter *rate.Limiter
	emit    statemachine.Emitter

	rootMu sync.Mutex
	root   context.Context

	wlMu      sync.Mutex
	wlPending map[string]struct{}
	wlTimer   *time.Timer

	itemMu    sync.Mutex
	itemQueue []statemachine.EnrichmentJob
	itemReady chan struct{}
}

// New constructs the enrichment worker.
func New(cfg config.EnrichmentConfig, s *store.Store, emit statemachine.Emitter) *Worker {
	return &Worker{
		cfg:       cfg,
		store:     s,
		client:    newRemoteClient(cfg),
		limiter:   rate.NewLimiter(rate.Limit(cfg.ItemRateLimitPerSecond), 1),
		emit:      emit,
		wlPending: make(map[string]struct{}),
		itemReady: make(chan struct{}, 1),
		root:      context.Background(),
	}
}

// String implements fmt.Stringer for suture's log output.
func (w *Worker) String() string { return "enrichment" }

// Serve implements suture.Service: it runs the per-item queue consumer
// until ctx is canceled. The watchlist debounce and moderation publish
// paths are timer/goroutine driven and use the same root context.
func (w *Worker) Serve(ctx context.Context) error {
	w.rootMu.Lock()
	w.root = ctx
	w.rootMu.Unlock()

	for {
		select {
		case <-ctx.Done():
			w.wlMu.Lock()
			if w.wlTimer != nil {
				w.wlTimer.Stop()
			}
			w.wlMu.Unlock()
			return ctx.Err()
		case <-w.itemReady:
			w.drainItemQueue(ctx)
		}
	}
}

func (w *Worker) rootCtx() context.Context {
	w.rootMu.Lock()
	defer w.rootMu.Unlock()
	return w.root
}

// Enqueue implements statemachine.EnrichmentDispatcher.
func (w *Worker) Enqueue(job statemachine.EnrichmentJob) {
	w.itemMu.Lock()
	w.itemQueue = append(w.itemQueue, job)
	w.itemMu.Unlock()

	select {
	case w.itemReady <- struct{}{}:
	default:
	}
	w.emitQueueLength()
}

func (w *Worker) popItem() (statemachine.EnrichmentJob, bool) {
	w.itemMu.Lock()
	defer w.itemMu.Unlock()
	if len(w.itemQueue) == 0 {
		return statemachine.EnrichmentJob{}, false
	}
	job := w.itemQueue[0]
	w.itemQueue = w.itemQueue[1:]
	return job, true
}

func (w *Worker) requeueTail(job statemachine.EnrichmentJob) {
	w.itemMu.Lock()
	w.itemQueue = append(w.itemQueue, job)
	w.itemMu.Unlock()
}

func (w *Worker) queueLength() int {
	w.itemMu.Lock()
	defer w.itemMu.Unlock()
	return len(w.itemQueue)
}

func (w *Worker) emitQueueLength() {
	length := w.queueLength()
	metrics.SetEnrichmentQueueDepth(length)
	if w.emit != nil {
		w.emit.Emit("api_queue_length", map[string]any{"length": length})
	}
}

// drainItemQueue processes one job at a time until the queue is empty,
// per spec.md §4.6 ("Per-item queue... one job at a time").
func (w *Worker) drainItemQueue(ctx context.Context) {
	for {
		job, ok := w.popItem()
		if !ok {
			return
		}

		if err := w.limiter.Wait(ctx); err != nil {
			w.requeueTail(job)
			return
		}

		if err := w.processItem(ctx, job); err != nil {
			logging.Error().Err(err).Str("call_id", job.CallID).Msg("enrichment: item job failed, requeueing")
			metrics.RecordEnrichmentFailure(job.Kind)
			w.requeueTail(job)
			w.emitQueueLength()
			select {
			case <-time.After(w.cfg.RetryBackoff):
			case <-ctx.Done():
				return
			}
			continue
		}

		w.emitQueueLength()
	}
}

func (w *Worker) processItem(ctx context.Context, job statemachine.EnrichmentJob) error {
	switch job.Kind {
	case "security":
		return w.processSecurityCheck(ctx, job)
	case "print", "inventory":
		return w.processInvChk(ctx, job)
	default:
		return nil
	}
}
