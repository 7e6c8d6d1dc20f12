package ports

import (
	"context"
	"time"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
// Emails are stored lowercased; lookups expect a normalized value.
type AccountRepository interface {
	Create(ctx context.Context, a *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)

	// RecordFailedLogin atomically increments the failed-login counter and
	// returns the new count. Concurrent failures must not under-count.
	RecordFailedLogin(ctx context.Context, id string) (int, error)
	// Lock sets the lockout-until timestamp.
	Lock(ctx context.Context, id string, until time.Time) error
	// ResetLoginState zeroes the counter, clears the lockout and stamps the
	// last successful login.
	ResetLoginState(ctx context.Context, id string, lastLogin time.Time) error

	// UpdatePassword stores a new hash and bumps password_changed_at,
	// invalidating outstanding session tokens.
	UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error

	// List returns all accounts (admin moderation view).
	List(ctx context.Context) ([]*domain.Account, error)
}

// Transactor runs fn inside a single storage transaction. Context passed to
// fn must be used for every repository call that should join the transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
