package handler

import (
	"time"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

type createBookingRequest struct {
	VendorID   string    `json:"vendor_id" validate:"required"`
	EventDate  time.Time `json:"event_date" validate:"required"`
	EventType  string    `json:"event_type" validate:"required"`
	GuestCount int       `json:"guest_count" validate:"required,gt=0"`
	Budget     float64   `json:"budget" validate:"omitempty,gt=0"`
	Message    string    `json:"message,omitempty"`
}

// updateBookingRequest drives both status transitions and status-less updates
// (messages, payment fields). Status empty means no transition.
type updateBookingRequest struct {
	Status             string  `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed rejected cancelled completed"`
	VendorResponse     string  `json:"vendor_response,omitempty"`
	CancellationReason string  `json:"cancellation_reason,omitempty"`
	CompletionNotes    string  `json:"completion_notes,omitempty"`
	PaymentStatus      string  `json:"payment_status,omitempty" validate:"omitempty,oneof=unpaid partial paid refunded"`
	PaymentAmount      float64 `json:"payment_amount,omitempty" validate:"omitempty,gt=0"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

// bookingDetailResponse is a booking plus the vendor-aggregate side read,
// present only for vendor and admin callers.
type bookingDetailResponse struct {
	Booking *domain.Booking     `json:"booking"`
	Stats   *domain.VendorStats `json:"stats,omitempty"`
}

type bookingListResponse struct {
	Bookings []*domain.Booking `json:"bookings"`
	Count    int               `json:"count"`
}
