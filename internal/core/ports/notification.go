package ports

import (
	"context"
	"time"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

// Notification kinds emitted by the booking lifecycle.
const (
	NotifyStatusChanged = "status_changed"
	NotifyNewMessage    = "new_message"
)

// BookingEvent is the logical notification handed to the delivery
// collaborator. Formatting and actual delivery are out of scope here.
type BookingEvent struct {
	Kind        string
	RecipientID string
	BookingID   string
	Status      domain.BookingStatus
	Text        string
	Timestamp   time.Time
}

// EventSink accepts booking events for asynchronous delivery.
type EventSink interface {
	Publish(event BookingEvent)
}

// Notifier performs the delivery of a single event.
type Notifier interface {
	Notify(ctx context.Context, event BookingEvent) error
}
