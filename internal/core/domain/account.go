package domain

import "time"

const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
	RoleAdmin    = "admin"
)

// SelfRegistrableRole reports whether role may be chosen at registration.
// Admin accounts are provisioned out of band, never via the public API.
func SelfRegistrableRole(role string) bool {
	return role == RoleCustomer || role == RoleVendor
}

// Account models a registered person. PasswordHash is never serialized.
type Account struct {
	ID                string     `json:"id"`
	FullName          string     `json:"full_name"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Phone             string     `json:"phone"`
	Role              string     `json:"role"`
	LoginAttempts     int        `json:"-"`
	LockUntil         *time.Time `json:"-"`
	PasswordChangedAt time.Time  `json:"-"`
	LastLogin         time.Time  `json:"last_login,omitzero"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Locked reports whether the account is under a failed-login lockout at now.
func (a *Account) Locked(now time.Time) bool {
	return a.LockUntil != nil && a.LockUntil.After(now)
}

// PasswordVersion is the marker embedded in session tokens. Tokens issued
// before a password change carry an older marker and are rejected as stale.
// Accounts that never changed their password use the constant "v1".
func (a *Account) PasswordVersion() string {
	if a.PasswordChangedAt.IsZero() {
		return "v1"
	}
	return a.PasswordChangedAt.UTC().Format(time.RFC3339)
}

// PasswordChangedAfter reports whether the password changed after the given
// token issue time. A one second grace avoids rejecting a token minted in the
// same instant as the change.
func (a *Account) PasswordChangedAfter(issuedAt time.Time) bool {
	if a.PasswordChangedAt.IsZero() {
		return false
	}
	return a.PasswordChangedAt.After(issuedAt.Add(time.Second))
}
