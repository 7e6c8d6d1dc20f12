package ports

import (
	"context"
	"time"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

// CreateBookingInput carries all data needed to create a booking. The
// customer identity comes from the authenticated request, never the body.
type CreateBookingInput struct {
	CustomerID string
	VendorID   string
	EventDate  time.Time
	EventType  string
	GuestCount int
	Budget     float64
	Message    string
}

// UpdateBookingInput carries a status change and its side-effect fields.
// Status empty means no transition: only messages and payment fields apply.
type UpdateBookingInput struct {
	Status domain.BookingStatus

	// VendorResponse is the accept/reject rationale. While the booking is
	// already confirmed it is appended to the message history instead.
	VendorResponse     string
	CancellationReason string
	CompletionNotes    string

	PaymentStatus string
	PaymentAmount float64
}

// BookingDetail is a booking plus the vendor-aggregate side read (present
// only for vendor and admin callers).
type BookingDetail struct {
	Booking *domain.Booking
	Stats   *domain.VendorStats
}

// BookingService owns the booking state machine and its authorization.
type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	Get(ctx context.Context, bookingID string, actor domain.Actor) (*BookingDetail, error)
	ListForCustomer(ctx context.Context, customerID string) ([]*domain.Booking, error)
	ListForVendor(ctx context.Context, vendorID string) ([]*domain.Booking, error)
	ListAll(ctx context.Context) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, actor domain.Actor, in UpdateBookingInput) (*BookingDetail, error)
	// Cancel is the customer-only specialization of UpdateStatus, valid from
	// pending or confirmed.
	Cancel(ctx context.Context, bookingID string, actor domain.Actor, reason string) (*domain.Booking, error)
	VendorStats(ctx context.Context, vendorID string) (*domain.VendorStats, error)
}
