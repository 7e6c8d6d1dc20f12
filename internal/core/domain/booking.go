package domain

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
	StatusCompleted BookingStatus = "completed"
)

// validTransitions defines the allowed state machine transitions.
// rejected, cancelled and completed are terminal.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further status mutation is permitted.
func (s BookingStatus) Terminal() bool {
	return len(validTransitions[s]) == 0 && s.known()
}

func (s BookingStatus) known() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// ValidBookingStatus reports whether s names one of the five statuses.
func ValidBookingStatus(s BookingStatus) bool {
	return s.known()
}

// Actor tags recorded on booking mutations and messages.
const (
	ActorCustomer = "customer"
	ActorVendor   = "vendor"
	ActorSystem   = "system"
)

// Message is a single entry in a booking's conversation history.
type Message struct {
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Booking represents one service request between a customer and a vendor.
// Customer and vendor contact fields are snapshotted at creation time so the
// booking renders stably even if the referenced records change later.
type Booking struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	VendorID   string `json:"vendor_id"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	VendorName    string `json:"vendor_name"`
	VendorService string `json:"vendor_service"`

	EventDate  time.Time `json:"event_date"`
	EventType  string    `json:"event_type"`
	GuestCount int       `json:"guest_count"`
	Budget     float64   `json:"budget"`

	Status             BookingStatus `json:"status"`
	VendorResponse     string        `json:"vendor_response,omitempty"`
	VendorResponseDate *time.Time    `json:"vendor_response_date,omitempty"`
	ConfirmationDate   *time.Time    `json:"confirmation_date,omitempty"`
	RejectionReason    string        `json:"rejection_reason,omitempty"`
	RejectionDate      *time.Time    `json:"rejection_date,omitempty"`
	CancellationReason string        `json:"cancellation_reason,omitempty"`
	CancellationDate   *time.Time    `json:"cancellation_date,omitempty"`
	CompletionNotes    string        `json:"completion_notes,omitempty"`
	CompletionDate     *time.Time    `json:"completion_date,omitempty"`

	Messages      []Message `json:"messages,omitempty"`
	LastUpdatedBy string    `json:"last_updated_by"`

	PaymentStatus string  `json:"payment_status,omitempty"`
	PaymentAmount float64 `json:"payment_amount,omitempty"`

	// Version guards against lost updates: every persisted mutation bumps it
	// and writes are conditional on the version that was read.
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
