package domain

// Actor is the authenticated identity attached to a request, paired with the
// vendor profile id when the account owns one.
type Actor struct {
	AccountID       string
	Role            string
	VendorProfileID string
}

// CanMutateBooking is the single authorization predicate for booking
// mutations: the owning customer, the owning vendor, or an admin.
func CanMutateBooking(actor Actor, b *Booking) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleCustomer:
		return actor.AccountID == b.CustomerID
	case RoleVendor:
		return actor.VendorProfileID != "" && actor.VendorProfileID == b.VendorID
	}
	return false
}

// CanCancel enforces the customer-only cancellation rule. Vendors reject
// instead of cancelling; admins may cancel on a customer's behalf.
func CanCancel(actor Actor, b *Booking) bool {
	if actor.Role == RoleAdmin {
		return true
	}
	return actor.Role == RoleCustomer && actor.AccountID == b.CustomerID
}
