package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

const (
	defaultLockoutThreshold = 5
	defaultLockoutDuration  = time.Hour
)

// AuthOptions are the security knobs injected at construction time. Zero
// values fall back to the strict defaults.
type AuthOptions struct {
	BcryptCost       int
	Policy           PasswordPolicy
	LockoutThreshold int
	LockoutDuration  time.Duration
}

// AuthService implements registration, login, lockout bookkeeping and
// session-token verification.
type AuthService struct {
	accounts ports.AccountRepository
	vendors  ports.VendorRepository
	tx       ports.Transactor
	tokens   *TokenIssuer
	opts     AuthOptions
	logger   zerolog.Logger
}

func NewAuthService(
	accounts ports.AccountRepository,
	vendors ports.VendorRepository,
	tx ports.Transactor,
	tokens *TokenIssuer,
	opts AuthOptions,
	logger zerolog.Logger,
) *AuthService {
	if opts.BcryptCost < bcrypt.MinCost {
		opts.BcryptCost = 12
	}
	if opts.Policy.MinLength <= 0 {
		opts.Policy = PasswordPolicy{MinLength: 8, RequireComplexity: true}
	}
	if opts.LockoutThreshold <= 0 {
		opts.LockoutThreshold = defaultLockoutThreshold
	}
	if opts.LockoutDuration <= 0 {
		opts.LockoutDuration = defaultLockoutDuration
	}
	return &AuthService{
		accounts: accounts,
		vendors:  vendors,
		tx:       tx,
		tokens:   tokens,
		opts:     opts,
		logger:   logger,
	}
}

// Register validates input, hashes the password and creates the account. For
// vendor registrations the account and its profile are created in one
// transaction: either both land or neither is visible.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	if err := s.validateRegistration(&in); err != nil {
		return nil, err
	}

	email := normalizeEmail(in.Email)
	if _, err := s.accounts.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrAccountExists
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.opts.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	account := &domain.Account{
		FullName:     in.FullName,
		Email:        email,
		PasswordHash: string(hash),
		Phone:        in.Phone,
		Role:         in.Role,
		LastLogin:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	var created *domain.Account
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err = s.accounts.Create(ctx, account)
		if err != nil {
			return err
		}
		if in.Role != domain.RoleVendor {
			return nil
		}
		_, err = s.vendors.Create(ctx, &domain.VendorProfile{
			AccountID:       created.ID,
			BusinessName:    in.BusinessName,
			OwnerName:       in.OwnerName,
			Email:           created.Email,
			Phone:           created.Phone,
			ServiceCategory: in.ServiceCategory,
			Address:         in.Address,
			City:            in.City,
			State:           in.State,
			ZipCode:         in.ZipCode,
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			return nil, domain.ErrAccountExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	tokens, err := s.issueTokens(created, now)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("account_id", created.ID).
		Str("role", created.Role).
		Msg("account registered")

	return &ports.AuthResult{Account: created, Tokens: tokens}, nil
}

func (s *AuthService) validateRegistration(in *ports.RegisterInput) error {
	if !validFullName(in.FullName) {
		return domain.Validationf("full name must be 3-100 letters and include first and last name")
	}
	if !validEmail(in.Email) {
		return domain.Validationf("invalid email address")
	}
	if err := s.opts.Policy.Validate(in.Password); err != nil {
		return err
	}
	if !validPhone(in.Phone) {
		return domain.Validationf("phone must be exactly 10 digits")
	}
	if !domain.SelfRegistrableRole(in.Role) {
		return domain.Validationf("role must be either customer or vendor")
	}
	if in.Role == domain.RoleVendor {
		if in.BusinessName == "" || in.OwnerName == "" || in.ServiceCategory == "" ||
			in.Address == "" || in.City == "" || in.State == "" || in.ZipCode == "" {
			return domain.Validationf("missing required vendor fields")
		}
		if !domain.ValidServiceCategory(in.ServiceCategory) {
			return domain.Validationf("service category must be one of Venue, Catering, Photography, DJ, Decor, Other")
		}
	}
	return nil
}

// Login authenticates an email/password pair. Lockout is checked before the
// hash comparison; vendor profile gates apply only after the credentials
// verified so the two failure shapes cannot be used to probe for accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.Validationf("email and password are required")
	}

	account, err := s.accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, &domain.CredentialsError{}
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	now := time.Now().UTC()
	if account.Locked(now) {
		return nil, &domain.LockedError{RetryAfter: account.LockUntil.Sub(now)}
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, s.recordFailure(ctx, account, now)
	}

	if err := s.accounts.ResetLoginState(ctx, account.ID, now); err != nil {
		return nil, fmt.Errorf("login: reset attempts: %w", err)
	}
	account.LoginAttempts = 0
	account.LockUntil = nil
	account.LastLogin = now

	if account.Role == domain.RoleVendor {
		if err := s.checkVendorGate(ctx, account.ID); err != nil {
			return nil, err
		}
	}

	tokens, err := s.issueTokens(account, now)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("account_id", account.ID).
		Str("role", account.Role).
		Msg("login successful")

	return &ports.AuthResult{Account: account, Tokens: tokens}, nil
}

// recordFailure bumps the failed-login counter and applies the lockout once
// the threshold is reached. The increment is atomic at the store.
func (s *AuthService) recordFailure(ctx context.Context, account *domain.Account, now time.Time) error {
	attempts, err := s.accounts.RecordFailedLogin(ctx, account.ID)
	if err != nil {
		return fmt.Errorf("login: record failed attempt: %w", err)
	}
	if attempts >= s.opts.LockoutThreshold {
		until := now.Add(s.opts.LockoutDuration)
		if err := s.accounts.Lock(ctx, account.ID, until); err != nil {
			return fmt.Errorf("login: lock account: %w", err)
		}
		s.logger.Warn().
			Str("account_id", account.ID).
			Time("lock_until", until).
			Msg("account locked after repeated failed logins")
	}
	return &domain.CredentialsError{RemainingAttempts: s.opts.LockoutThreshold - attempts}
}

// checkVendorGate enforces that a vendor account has an active profile.
func (s *AuthService) checkVendorGate(ctx context.Context, accountID string) error {
	profile, err := s.vendors.FindByAccountID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrVendorNotFound) {
			return domain.ErrVendorProfileMissing
		}
		return fmt.Errorf("login: vendor gate: %w", err)
	}
	if !profile.IsActive {
		return domain.ErrVendorInactive
	}
	return nil
}

// Refresh rotates a refresh token into a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	account, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	if account.PasswordChangedAfter(claims.IssuedAt) {
		return nil, domain.ErrTokenInvalid
	}

	now := time.Now().UTC()
	tokens, err := s.issueTokens(account, now)
	if err != nil {
		return nil, err
	}
	return &ports.AuthResult{Account: account, Tokens: tokens}, nil
}

// VerifyToken resolves an access token to a live identity. Tokens issued
// before the account's last password change are rejected as stale.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*ports.Identity, error) {
	claims, err := s.tokens.ParseAccess(token)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	account, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	if account.PasswordChangedAfter(claims.IssuedAt) {
		return nil, domain.ErrTokenInvalid
	}

	return &ports.Identity{AccountID: account.ID, Role: account.Role}, nil
}

// Profile returns the safe account projection.
func (s *AuthService) Profile(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return account, nil
}

// ChangePassword verifies the current password, applies the policy to the
// new one and bumps password_changed_at so outstanding tokens go stale.
func (s *AuthService) ChangePassword(ctx context.Context, accountID, current, next string) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(current)) != nil {
		return &domain.CredentialsError{}
	}
	if err := s.opts.Policy.Validate(next); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.opts.BcryptCost)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}
	if err := s.accounts.UpdatePassword(ctx, accountID, string(hash), time.Now().UTC()); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	s.logger.Info().Str("account_id", accountID).Msg("password changed")
	return nil
}

func (s *AuthService) issueTokens(a *domain.Account, now time.Time) (ports.TokenPair, error) {
	access, err := s.tokens.IssueAccess(a, now)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(a.ID, now)
	if err != nil {
		return ports.TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
	}
	return ports.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.tokens.AccessTTLSeconds(),
	}, nil
}
