package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

// LogNotifier writes notifications to the structured log. It stands in for a
// real delivery channel (email, push) behind the same interface.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, event ports.BookingEvent) error {
	n.log.Info().
		Str("kind", event.Kind).
		Str("recipient_id", event.RecipientID).
		Str("booking_id", event.BookingID).
		Str("status", string(event.Status)).
		Str("text", event.Text).
		Msg("notification delivered")
	return nil
}
