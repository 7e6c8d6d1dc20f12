package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

// StatsCache abstracts the vendor-stats cache (Redis). A nil-safe no-op
// implementation is acceptable in tests.
type StatsCache interface {
	Get(ctx context.Context, vendorID string) (*domain.VendorStats, bool)
	Set(ctx context.Context, vendorID string, stats *domain.VendorStats)
	Invalidate(ctx context.Context, vendorID string)
}

// BookingService implements the booking state machine with role-based
// authorization and the side effects attached to each transition.
type BookingService struct {
	bookings ports.BookingRepository
	accounts ports.AccountRepository
	vendors  ports.VendorRepository
	events   ports.EventSink
	stats    StatsCache
	logger   zerolog.Logger
}

func NewBookingService(
	bookings ports.BookingRepository,
	accounts ports.AccountRepository,
	vendors ports.VendorRepository,
	events ports.EventSink,
	stats StatsCache,
	logger zerolog.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		accounts: accounts,
		vendors:  vendors,
		events:   events,
		stats:    stats,
		logger:   logger,
	}
}

// Create validates both parties exist and creates the booking in pending,
// snapshotting contact and business fields for display stability.
func (s *BookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	if in.VendorID == "" || in.EventType == "" || in.EventDate.IsZero() {
		return nil, domain.Validationf("vendor, event type and event date are required")
	}
	if in.GuestCount <= 0 {
		return nil, domain.Validationf("guest count must be positive")
	}

	customer, err := s.accounts.FindByID(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	vendor, err := s.vendors.FindByID(ctx, in.VendorID)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	now := time.Now().UTC()
	booking := &domain.Booking{
		CustomerID:    customer.ID,
		VendorID:      vendor.ID,
		CustomerName:  customer.FullName,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		VendorName:    vendor.BusinessName,
		VendorService: vendor.ServiceCategory,
		EventDate:     in.EventDate,
		EventType:     in.EventType,
		GuestCount:    in.GuestCount,
		Budget:        in.Budget,
		Status:        domain.StatusPending,
		LastUpdatedBy: domain.ActorCustomer,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.Message != "" {
		booking.Messages = append(booking.Messages, domain.Message{
			Sender:    domain.ActorCustomer,
			Text:      in.Message,
			Timestamp: now,
		})
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.stats.Invalidate(ctx, vendor.ID)
	s.events.Publish(ports.BookingEvent{
		Kind:        ports.NotifyStatusChanged,
		RecipientID: vendor.AccountID,
		BookingID:   created.ID,
		Status:      domain.StatusPending,
		Text:        fmt.Sprintf("New booking request from %s for %s", customer.FullName, in.EventType),
		Timestamp:   now,
	})

	s.logger.Info().
		Str("booking_id", created.ID).
		Str("customer_id", customer.ID).
		Str("vendor_id", vendor.ID).
		Msg("booking created")

	return created, nil
}

// Get returns one booking for its customer, its vendor, or an admin. Vendor
// and admin callers also get the vendor-aggregate side read.
func (s *BookingService) Get(ctx context.Context, bookingID string, actor domain.Actor) (*ports.BookingDetail, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanMutateBooking(actor, booking) {
		return nil, domain.ErrForbidden
	}

	detail := &ports.BookingDetail{Booking: booking}
	if actor.Role == domain.RoleVendor || actor.Role == domain.RoleAdmin {
		if stats, err := s.VendorStats(ctx, booking.VendorID); err == nil {
			detail.Stats = stats
		}
	}
	return detail, nil
}

func (s *BookingService) ListForCustomer(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	return s.bookings.ListByCustomer(ctx, customerID)
}

func (s *BookingService) ListForVendor(ctx context.Context, vendorID string) ([]*domain.Booking, error) {
	return s.bookings.ListByVendor(ctx, vendorID)
}

func (s *BookingService) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	return s.bookings.List(ctx)
}

// UpdateStatus applies one caller-initiated transition with its side
// effects, or a status-less update touching only messages and payment
// fields. The write is conditional on the version the booking was read at.
func (s *BookingService) UpdateStatus(ctx context.Context, bookingID string, actor domain.Actor, in ports.UpdateBookingInput) (*ports.BookingDetail, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanMutateBooking(actor, booking) {
		return nil, domain.ErrForbidden
	}

	now := time.Now().UTC()
	if in.Status != "" {
		if !domain.ValidBookingStatus(in.Status) {
			return nil, domain.Validationf("unknown booking status %q", in.Status)
		}
		if !booking.Status.CanTransitionTo(in.Status) {
			return nil, &domain.TransitionError{From: booking.Status, To: in.Status}
		}
		if in.Status == domain.StatusCancelled && !domain.CanCancel(actor, booking) {
			return nil, domain.ErrForbidden
		}
		s.applyTransition(booking, actor, in, now)
	}

	s.applyMessage(booking, actor, in, now)

	if in.PaymentStatus != "" {
		booking.PaymentStatus = in.PaymentStatus
	}
	if in.PaymentAmount > 0 {
		booking.PaymentAmount = in.PaymentAmount
	}
	booking.UpdatedAt = now

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx, booking.VendorID)
	s.publishUpdate(ctx, booking, actor, in, now)

	detail := &ports.BookingDetail{Booking: booking}
	if actor.Role == domain.RoleVendor || actor.Role == domain.RoleAdmin {
		if stats, err := s.VendorStats(ctx, booking.VendorID); err == nil {
			detail.Stats = stats
		}
	}
	return detail, nil
}

const defaultRejectionReason = "Booking rejected by vendor"

// applyTransition records the per-target-state side effects. Free text sent
// along with any transition is kept as the vendor's stated rationale.
func (s *BookingService) applyTransition(b *domain.Booking, actor domain.Actor, in ports.UpdateBookingInput, now time.Time) {
	b.Status = in.Status
	b.LastUpdatedBy = actorTag(actor)

	if in.VendorResponse != "" {
		b.VendorResponse = in.VendorResponse
		b.VendorResponseDate = &now
	}

	switch in.Status {
	case domain.StatusConfirmed:
		b.ConfirmationDate = &now
	case domain.StatusRejected:
		b.RejectionDate = &now
		b.RejectionReason = in.VendorResponse
		if b.RejectionReason == "" {
			b.RejectionReason = defaultRejectionReason
		}
	case domain.StatusCancelled:
		b.CancellationDate = &now
		b.CancellationReason = in.CancellationReason
		// Cancellation is a customer action by business rule, admin override included.
		b.LastUpdatedBy = domain.ActorCustomer
	case domain.StatusCompleted:
		b.CompletionDate = &now
		b.CompletionNotes = in.CompletionNotes
	}
}

// applyMessage routes free text: while the booking is already confirmed it
// joins the conversation history; otherwise it is the vendor's accept/reject
// rationale and lands in the dedicated response field.
func (s *BookingService) applyMessage(b *domain.Booking, actor domain.Actor, in ports.UpdateBookingInput, now time.Time) {
	if in.VendorResponse == "" || in.Status != "" {
		return
	}
	if b.Status == domain.StatusConfirmed {
		b.Messages = append(b.Messages, domain.Message{
			Sender:    actorTag(actor),
			Text:      in.VendorResponse,
			Timestamp: now,
		})
		return
	}
	b.VendorResponse = in.VendorResponse
	b.VendorResponseDate = &now
}

func (s *BookingService) publishUpdate(ctx context.Context, b *domain.Booking, actor domain.Actor, in ports.UpdateBookingInput, now time.Time) {
	recipient := b.CustomerID
	if actorTag(actor) == domain.ActorCustomer {
		// Customer-initiated changes notify the vendor's account.
		if vendor, err := s.vendors.FindByID(ctx, b.VendorID); err == nil {
			recipient = vendor.AccountID
		}
	}

	event := ports.BookingEvent{
		RecipientID: recipient,
		BookingID:   b.ID,
		Status:      b.Status,
		Timestamp:   now,
	}
	if in.Status != "" {
		event.Kind = ports.NotifyStatusChanged
		event.Text = fmt.Sprintf("Your booking with %s has been %s", b.VendorName, b.Status)
	} else if in.VendorResponse != "" {
		event.Kind = ports.NotifyNewMessage
		event.Text = in.VendorResponse
	} else {
		return
	}
	s.events.Publish(event)
}

// Cancel is the customer-only cancellation path, valid from pending or
// confirmed only.
func (s *BookingService) Cancel(ctx context.Context, bookingID string, actor domain.Actor, reason string) (*domain.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !domain.CanCancel(actor, booking) {
		return nil, domain.ErrForbidden
	}
	if booking.Status != domain.StatusPending && booking.Status != domain.StatusConfirmed {
		return nil, &domain.TransitionError{From: booking.Status, To: domain.StatusCancelled}
	}

	now := time.Now().UTC()
	booking.Status = domain.StatusCancelled
	booking.CancellationReason = reason
	booking.CancellationDate = &now
	booking.LastUpdatedBy = domain.ActorCustomer
	booking.UpdatedAt = now

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.stats.Invalidate(ctx, booking.VendorID)
	if vendor, err := s.vendors.FindByID(ctx, booking.VendorID); err == nil {
		s.events.Publish(ports.BookingEvent{
			Kind:        ports.NotifyStatusChanged,
			RecipientID: vendor.AccountID,
			BookingID:   booking.ID,
			Status:      domain.StatusCancelled,
			Text:        fmt.Sprintf("Booking for %s was cancelled by the customer", booking.EventType),
			Timestamp:   now,
		})
	}

	s.logger.Info().
		Str("booking_id", booking.ID).
		Str("account_id", actor.AccountID).
		Msg("booking cancelled")

	return booking, nil
}

// VendorStats recomputes (or serves from cache) the per-status counts and
// acceptance/rejection rates for one vendor. Pure side read.
func (s *BookingService) VendorStats(ctx context.Context, vendorID string) (*domain.VendorStats, error) {
	if cached, ok := s.stats.Get(ctx, vendorID); ok {
		return cached, nil
	}

	counts, err := s.bookings.CountByStatus(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("vendor stats: %w", err)
	}

	stats := &domain.VendorStats{
		Pending:   counts[domain.StatusPending],
		Confirmed: counts[domain.StatusConfirmed],
		Rejected:  counts[domain.StatusRejected],
		Cancelled: counts[domain.StatusCancelled],
		Completed: counts[domain.StatusCompleted],
	}
	stats.Total = stats.Pending + stats.Confirmed + stats.Rejected + stats.Cancelled + stats.Completed
	if stats.Total > 0 {
		accepted := stats.Confirmed + stats.Completed
		stats.AcceptanceRate = float64(accepted) / float64(stats.Total) * 100
		stats.RejectionRate = float64(stats.Rejected) / float64(stats.Total) * 100
	}

	s.stats.Set(ctx, vendorID, stats)
	return stats, nil
}

func actorTag(actor domain.Actor) string {
	switch actor.Role {
	case domain.RoleVendor:
		return domain.ActorVendor
	case domain.RoleAdmin:
		return domain.ActorSystem
	default:
		return domain.ActorCustomer
	}
}
