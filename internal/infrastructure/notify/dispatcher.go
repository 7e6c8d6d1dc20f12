package notify

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans booking events out to a fixed set of workers using
// consistent hashing on the booking id, guaranteeing per-booking delivery
// ordering. It implements ports.EventSink.
type Dispatcher struct {
	workers  []chan ports.BookingEvent
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan ports.BookingEvent, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.BookingEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Publish sends an event to the worker responsible for its booking. The call
// is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Publish(event ports.BookingEvent) {
	d.workers[d.shardIndex(event.BookingID)] <- event
}

// QueueDepth reports the number of events waiting across all workers. Exposed
// as a gauge on the metrics endpoint.
func (d *Dispatcher) QueueDepth() int {
	depth := 0
	for _, ch := range d.workers {
		depth += len(ch)
	}
	return depth
}

// shardIndex maps a booking id deterministically to a worker index.
func (d *Dispatcher) shardIndex(bookingID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(bookingID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.BookingEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.notifier.Notify(ctx, event); err != nil {
				d.log.Error().Err(err).
					Str("booking_id", event.BookingID).
					Str("kind", event.Kind).
					Int("worker_id", id).
					Msg("notification delivery failed")
			}
		}
	}
}
