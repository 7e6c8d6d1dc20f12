package ports

import (
	"context"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

// UpdateVendorProfileInput carries the vendor-editable profile fields.
// Empty strings leave the stored value unchanged.
type UpdateVendorProfileInput struct {
	BusinessName    string
	OwnerName       string
	ServiceCategory string
	Phone           string
	Address         string
	City            string
	State           string
	ZipCode         string
}

// VendorService owns vendor profile reads/edits and admin moderation.
type VendorService interface {
	ProfileByAccount(ctx context.Context, accountID string) (*domain.VendorProfile, error)
	UpdateProfile(ctx context.Context, accountID string, in UpdateVendorProfileInput) (*domain.VendorProfile, error)

	// Admin moderation.
	ListVendors(ctx context.Context) ([]*domain.VendorProfile, error)
	SetVendorActive(ctx context.Context, vendorID string, active bool) (*domain.VendorProfile, error)
	SetVendorVerified(ctx context.Context, vendorID string, verified bool) (*domain.VendorProfile, error)
	ListAccounts(ctx context.Context) ([]*domain.Account, error)
}
