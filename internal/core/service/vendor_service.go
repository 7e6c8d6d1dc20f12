package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

// VendorService covers vendor profile self-service and admin moderation.
type VendorService struct {
	vendors  ports.VendorRepository
	accounts ports.AccountRepository
	logger   zerolog.Logger
}

func NewVendorService(vendors ports.VendorRepository, accounts ports.AccountRepository, logger zerolog.Logger) *VendorService {
	return &VendorService{vendors: vendors, accounts: accounts, logger: logger}
}

func (s *VendorService) ProfileByAccount(ctx context.Context, accountID string) (*domain.VendorProfile, error) {
	return s.vendors.FindByAccountID(ctx, accountID)
}

func (s *VendorService) UpdateProfile(ctx context.Context, accountID string, in ports.UpdateVendorProfileInput) (*domain.VendorProfile, error) {
	profile, err := s.vendors.FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if in.BusinessName != "" {
		profile.BusinessName = in.BusinessName
	}
	if in.OwnerName != "" {
		profile.OwnerName = in.OwnerName
	}
	if in.ServiceCategory != "" {
		profile.ServiceCategory = in.ServiceCategory
	}
	if in.Phone != "" {
		if !validPhone(in.Phone) {
			return nil, domain.Validationf("phone must be exactly 10 digits")
		}
		profile.Phone = in.Phone
	}
	if in.Address != "" {
		profile.Address = in.Address
	}
	if in.City != "" {
		profile.City = in.City
	}
	if in.State != "" {
		profile.State = in.State
	}
	if in.ZipCode != "" {
		profile.ZipCode = in.ZipCode
	}
	profile.UpdatedAt = time.Now().UTC()

	if err := s.vendors.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update vendor profile: %w", err)
	}
	return profile, nil
}

func (s *VendorService) ListVendors(ctx context.Context) ([]*domain.VendorProfile, error) {
	return s.vendors.List(ctx)
}

// SetVendorActive flips the gate checked at vendor login.
func (s *VendorService) SetVendorActive(ctx context.Context, vendorID string, active bool) (*domain.VendorProfile, error) {
	if err := s.vendors.SetActive(ctx, vendorID, active); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("vendor_id", vendorID).
		Bool("active", active).
		Msg("vendor active flag updated")
	return s.vendors.FindByID(ctx, vendorID)
}

func (s *VendorService) SetVendorVerified(ctx context.Context, vendorID string, verified bool) (*domain.VendorProfile, error) {
	if err := s.vendors.SetVerified(ctx, vendorID, verified); err != nil {
		return nil, err
	}
	return s.vendors.FindByID(ctx, vendorID)
}

func (s *VendorService) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	return s.accounts.List(ctx)
}
