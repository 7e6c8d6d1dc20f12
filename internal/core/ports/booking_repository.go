package ports

import (
	"context"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

// BookingRepository defines persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Booking, error)
	ListByVendor(ctx context.Context, vendorID string) ([]*domain.Booking, error)
	List(ctx context.Context) ([]*domain.Booking, error)

	// Update persists b conditionally on the version it was read at and bumps
	// the version. Returns domain.ErrStaleBooking when another writer got
	// there first.
	Update(ctx context.Context, b *domain.Booking) error

	// CountByStatus returns per-status booking counts for one vendor.
	CountByStatus(ctx context.Context, vendorID string) (map[domain.BookingStatus]int64, error)
}
