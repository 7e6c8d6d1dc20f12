package domain

import "time"

// Service categories a vendor can register under.
const (
	CategoryVenue       = "Venue"
	CategoryCatering    = "Catering"
	CategoryPhotography = "Photography"
	CategoryDJ          = "DJ"
	CategoryDecor       = "Decor"
	CategoryOther       = "Other"
)

// ValidServiceCategory reports whether s is one of the known categories.
func ValidServiceCategory(s string) bool {
	switch s {
	case CategoryVenue, CategoryCatering, CategoryPhotography, CategoryDJ, CategoryDecor, CategoryOther:
		return true
	}
	return false
}

// VendorProfile is the one-to-one business extension of a vendor Account.
// An account with role vendor cannot pass vendor-restricted authentication
// without an active profile.
type VendorProfile struct {
	ID              string    `json:"id"`
	AccountID       string    `json:"account_id"`
	BusinessName    string    `json:"business_name"`
	OwnerName       string    `json:"owner_name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	ServiceCategory string    `json:"service_category"`
	Address         string    `json:"address"`
	City            string    `json:"city"`
	State           string    `json:"state"`
	ZipCode         string    `json:"zip_code"`
	IsActive        bool      `json:"is_active"`
	IsVerified      bool      `json:"is_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// VendorStats is a side read over a vendor's bookings, never stored.
type VendorStats struct {
	Total          int64   `json:"total"`
	Pending        int64   `json:"pending"`
	Confirmed      int64   `json:"confirmed"`
	Rejected       int64   `json:"rejected"`
	Cancelled      int64   `json:"cancelled"`
	Completed      int64   `json:"completed"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	RejectionRate  float64 `json:"rejection_rate"`
}
