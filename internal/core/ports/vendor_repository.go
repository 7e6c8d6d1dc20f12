package ports

import (
	"context"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

// VendorRepository defines persistence operations for vendor profiles.
type VendorRepository interface {
	Create(ctx context.Context, v *domain.VendorProfile) (*domain.VendorProfile, error)
	FindByID(ctx context.Context, id string) (*domain.VendorProfile, error)
	FindByAccountID(ctx context.Context, accountID string) (*domain.VendorProfile, error)
	Update(ctx context.Context, v *domain.VendorProfile) error
	// SetActive flips the active flag; inactive profiles block vendor login.
	SetActive(ctx context.Context, id string, active bool) error
	SetVerified(ctx context.Context, id string, verified bool) error
	List(ctx context.Context) ([]*domain.VendorProfile, error)
}
