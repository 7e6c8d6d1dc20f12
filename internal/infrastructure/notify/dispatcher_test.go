package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

type captureNotifier struct {
	mu     sync.Mutex
	events []ports.BookingEvent
}

func (n *captureNotifier) Notify(_ context.Context, event ports.BookingEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *captureNotifier) snapshot() []ports.BookingEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.BookingEvent(nil), n.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestDispatcher_DeliversAll(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &captureNotifier{}
	d := NewDispatcher(4, sink, zerolog.Nop())
	d.Start(ctx)

	for i := 0; i < 20; i++ {
		d.Publish(ports.BookingEvent{
			Kind:      ports.NotifyStatusChanged,
			BookingID: fmt.Sprintf("bkg_%d", i),
		})
	}

	waitFor(t, func() bool { return len(sink.snapshot()) == 20 })
}

func TestDispatcher_PerBookingOrdering(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &captureNotifier{}
	d := NewDispatcher(4, sink, zerolog.Nop())
	d.Start(ctx)

	const n = 50
	for i := 0; i < n; i++ {
		d.Publish(ports.BookingEvent{
			Kind:      ports.NotifyNewMessage,
			BookingID: "bkg_1",
			Text:      fmt.Sprintf("%d", i),
		})
	}

	waitFor(t, func() bool { return len(sink.snapshot()) == n })

	for i, event := range sink.snapshot() {
		if event.Text != fmt.Sprintf("%d", i) {
			t.Fatalf("event %d out of order: %q", i, event.Text)
		}
	}
}

func TestDispatcher_QueueDepthDrains(t *testing.T) {
	sink := &captureNotifier{}
	d := NewDispatcher(2, sink, zerolog.Nop())

	// Not started yet: everything queues.
	for i := 0; i < 10; i++ {
		d.Publish(ports.BookingEvent{BookingID: fmt.Sprintf("bkg_%d", i)})
	}
	if depth := d.QueueDepth(); depth != 10 {
		t.Fatalf("expected depth 10, got %d", depth)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	waitFor(t, func() bool { return d.QueueDepth() == 0 })
}
