package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tenantkit/identity-service/internal/api/metrics"
	"github.com/tenantkit/identity-service/internal/core/domain"
	"github.com/tenantkit/identity-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	defaultBuffer  = 256
)

// Dispatcher delivers integration events to the publisher from a fixed pool
// of workers fed by a buffered channel. Delivery is best-effort: Enqueue
// never blocks the caller, and publish failures are logged and dropped.
type Dispatcher struct {
	events    chan domain.UserCreated
	publisher ports.EventPublisher
	log       zerolog.Logger
	workers   int
}

// NewDispatcher creates a Dispatcher with numWorkers workers sharing a
// buffer-deep channel. Non-positive values fall back to the defaults.
func NewDispatcher(numWorkers, buffer int, publisher ports.EventPublisher, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Dispatcher{
		events:    make(chan domain.UserCreated, buffer),
		publisher: publisher,
		log:       log,
		workers:   numWorkers,
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		go d.runWorker(ctx, i)
	}
}

// Enqueue hands an event to the workers. When the buffer is full the event
// is dropped with a warning rather than blocking the request path.
func (d *Dispatcher) Enqueue(event domain.UserCreated) {
	select {
	case d.events <- event:
	default:
		metrics.EventsPublishedTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("user_id", event.UserID.String()).
			Msg("event buffer full, user.created dropped")
	}
}

func (d *Dispatcher) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-d.events:
			if !ok {
				return
			}
			if err := d.publisher.Publish(ctx, event); err != nil {
				metrics.EventsPublishedTotal.WithLabelValues("error").Inc()
				d.log.Error().Err(err).
					Str("user_id", event.UserID.String()).
					Int("worker_id", id).
					Msg("event publish failed")
				continue
			}
			metrics.EventsPublishedTotal.WithLabelValues("ok").Inc()
		}
	}
}
