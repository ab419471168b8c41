package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/ChhatbarPooja/crm-api/internal/api/metrics"
	"github.com/ChhatbarPooja/crm-api/internal/core/domain"
	"github.com/ChhatbarPooja/crm-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher routes domain events to a fixed set of workers using
// consistent hashing on the lead id, so all events for one lead are
// handled in order. Each worker hands events to the notification service;
// a failed dispatch is logged and counted, never retried, matching the
// best-effort contract between status writes and notifications.
type Dispatcher struct {
	workers []chan domain.Event
	service ports.NotificationService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.Event, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Event, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Emit sends an event to the worker responsible for its lead.
// Implements service.EventSink. Blocks only when the worker's buffer is full.
func (d *Dispatcher) Emit(event domain.Event) {
	idx := d.shardIndex(event.LeadRef())
	d.workers[idx] <- event
	metrics.EventsQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a lead id deterministically to a worker index.
func (d *Dispatcher) shardIndex(leadID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(leadID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Event) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.EventsQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if _, err := d.service.HandleEvent(ctx, event); err != nil {
				metrics.EventErrorsTotal.WithLabelValues("dispatch_failed").Inc()
				d.log.Error().Err(err).
					Str("lead_id", event.LeadRef()).
					Int("worker_id", id).
					Msg("notification dispatch failed")
			}
		}
	}
}
