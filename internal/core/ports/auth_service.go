package ports

import (
	"context"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

// RegisterInput carries all data needed to register an account. Vendor fields
// are required when Role is vendor and ignored otherwise.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
	Role     string

	BusinessName    string
	OwnerName       string
	ServiceCategory string
	Address         string
	City            string
	State           string
	ZipCode         string
}

// TokenPair is an access token plus the rotating refresh token. The refresh
// token is delivered only via an HTTP-only cookie by the transport layer.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// AuthResult is returned on successful registration or login.
type AuthResult struct {
	Account *domain.Account
	Tokens  TokenPair
}

// Identity is what token verification attaches to a request.
type Identity struct {
	AccountID string
	Role      string
}

// AuthService owns credentials, lockout bookkeeping and session tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	// Refresh verifies a refresh token, re-checks the account and password
	// version, and returns a rotated pair.
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	// VerifyToken validates an access token and resolves it to a live
	// identity. Stale tokens (password changed after issue) are rejected.
	VerifyToken(ctx context.Context, token string) (*Identity, error)
	Profile(ctx context.Context, accountID string) (*domain.Account, error)
	ChangePassword(ctx context.Context, accountID, current, next string) error
}
