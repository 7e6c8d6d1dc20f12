package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

type stubAccountRepo struct {
	byID   map[string]*domain.Account
	nextID int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	if a.LockUntil != nil {
		until := *a.LockUntil
		clone.LockUntil = &until
	}
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	for _, existing := range r.byID {
		if existing.Email == a.Email {
			return nil, domain.ErrAccountExists
		}
	}
	r.nextID++
	copy := cloneAccount(a)
	copy.ID = fmt.Sprintf("acc_%d", r.nextID)
	r.byID[copy.ID] = copy
	return cloneAccount(copy), nil
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.byID {
		if a.Email == email {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) RecordFailedLogin(_ context.Context, id string) (int, error) {
	a, ok := r.byID[id]
	if !ok {
		return 0, domain.ErrAccountNotFound
	}
	a.LoginAttempts++
	return a.LoginAttempts, nil
}

func (r *stubAccountRepo) Lock(_ context.Context, id string, until time.Time) error {
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.LockUntil = &until
	return nil
}

func (r *stubAccountRepo) ResetLoginState(_ context.Context, id string, lastLogin time.Time) error {
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.LoginAttempts = 0
	a.LockUntil = nil
	a.LastLogin = lastLogin
	return nil
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, id, hash string, changedAt time.Time) error {
	a, ok := r.byID[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = hash
	a.PasswordChangedAt = changedAt
	a.LoginAttempts = 0
	a.LockUntil = nil
	return nil
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	out := make([]*domain.Account, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, cloneAccount(a))
	}
	return out, nil
}

type stubVendorRepo struct {
	byID   map[string]*domain.VendorProfile
	nextID int
}

func newStubVendorRepo() *stubVendorRepo {
	return &stubVendorRepo{byID: make(map[string]*domain.VendorProfile)}
}

func (r *stubVendorRepo) Create(_ context.Context, v *domain.VendorProfile) (*domain.VendorProfile, error) {
	r.nextID++
	copy := *v
	copy.ID = fmt.Sprintf("vend_%d", r.nextID)
	r.byID[copy.ID] = &copy
	clone := copy
	return &clone, nil
}

func (r *stubVendorRepo) FindByID(_ context.Context, id string) (*domain.VendorProfile, error) {
	v, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrVendorNotFound
	}
	clone := *v
	return &clone, nil
}

func (r *stubVendorRepo) FindByAccountID(_ context.Context, accountID string) (*domain.VendorProfile, error) {
	for _, v := range r.byID {
		if v.AccountID == accountID {
			clone := *v
			return &clone, nil
		}
	}
	return nil, domain.ErrVendorNotFound
}

func (r *stubVendorRepo) Update(_ context.Context, v *domain.VendorProfile) error {
	if _, ok := r.byID[v.ID]; !ok {
		return domain.ErrVendorNotFound
	}
	clone := *v
	r.byID[v.ID] = &clone
	return nil
}

func (r *stubVendorRepo) SetActive(_ context.Context, id string, active bool) error {
	v, ok := r.byID[id]
	if !ok {
		return domain.ErrVendorNotFound
	}
	v.IsActive = active
	return nil
}

func (r *stubVendorRepo) SetVerified(_ context.Context, id string, verified bool) error {
	v, ok := r.byID[id]
	if !ok {
		return domain.ErrVendorNotFound
	}
	v.IsVerified = verified
	return nil
}

func (r *stubVendorRepo) List(_ context.Context) ([]*domain.VendorProfile, error) {
	out := make([]*domain.VendorProfile, 0, len(r.byID))
	for _, v := range r.byID {
		clone := *v
		out = append(out, &clone)
	}
	return out, nil
}

// noopTx satisfies ports.Transactor without a real transaction.
type noopTx struct{}

func (noopTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestAuthService(accounts *stubAccountRepo, vendors *stubVendorRepo) *AuthService {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", time.Hour, 7*24*time.Hour)
	return NewAuthService(accounts, vendors, noopTx{}, issuer, AuthOptions{
		BcryptCost: bcrypt.MinCost,
	}, zerolog.Nop())
}

func customerInput(email string) ports.RegisterInput {
	return ports.RegisterInput{
		FullName: "Alice Sharma",
		Email:    email,
		Password: "Str0ng!Pass",
		Phone:    "9876543210",
		Role:     domain.RoleCustomer,
	}
}

func vendorInput(email string) ports.RegisterInput {
	in := customerInput(email)
	in.Role = domain.RoleVendor
	in.BusinessName = "Dream Venues"
	in.OwnerName = "Alice Sharma"
	in.ServiceCategory = domain.CategoryVenue
	in.Address = "12 MG Road"
	in.City = "Pune"
	in.State = "MH"
	in.ZipCode = "411001"
	return in
}

func TestAuthService_Register_Success(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := newTestAuthService(accounts, newStubVendorRepo())

	res, err := svc.Register(context.Background(), customerInput("alice@example.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Account.PasswordHash == "Str0ng!Pass" ||
		strings.Contains(res.Account.PasswordHash, "Str0ng!Pass") {
		t.Fatalf("password stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(res.Account.PasswordHash), []byte("Str0ng!Pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if res.Account.Role != domain.RoleCustomer {
		t.Fatalf("unexpected role: %s", res.Account.Role)
	}
	if res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" {
		t.Fatalf("expected token pair")
	}
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := newTestAuthService(accounts, newStubVendorRepo())

	res, err := svc.Register(context.Background(), customerInput("Alice@Example.COM"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Account.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %s", res.Account.Email)
	}

	if _, err := svc.Register(context.Background(), customerInput("ALICE@example.com")); err != domain.ErrAccountExists {
		t.Fatalf("expected ErrAccountExists for case-insensitive duplicate, got %v", err)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo(), newStubVendorRepo())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(in *ports.RegisterInput)
	}{
		{"bad email", func(in *ports.RegisterInput) { in.Email = "not-an-email" }},
		{"short password", func(in *ports.RegisterInput) { in.Password = "Ab1!" }},
		{"no complexity", func(in *ports.RegisterInput) { in.Password = "alllowercase" }},
		{"bad phone", func(in *ports.RegisterInput) { in.Phone = "12345" }},
		{"single name", func(in *ports.RegisterInput) { in.FullName = "Alice" }},
		{"admin role", func(in *ports.RegisterInput) { in.Role = domain.RoleAdmin }},
	}
	for _, tc := range cases {
		in := customerInput("x@example.com")
		tc.mutate(&in)
		if _, err := svc.Register(ctx, in); !isValidation(err) {
			t.Errorf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func isValidation(err error) bool {
	var ve *domain.ValidationError
	if err == nil {
		return false
	}
	if ok := errors.As(err, &ve); ok {
		return true
	}
	return false
}

func TestAuthService_Register_VendorCreatesProfile(t *testing.T) {
	accounts := newStubAccountRepo()
	vendors := newStubVendorRepo()
	svc := newTestAuthService(accounts, vendors)

	res, err := svc.Register(context.Background(), vendorInput("venue@example.com"))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	profile, err := vendors.FindByAccountID(context.Background(), res.Account.ID)
	if err != nil {
		t.Fatalf("vendor profile not created: %v", err)
	}
	if profile.BusinessName != "Dream Venues" || !profile.IsActive {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestAuthService_Register_VendorMissingFields(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := newTestAuthService(accounts, newStubVendorRepo())

	in := vendorInput("venue@example.com")
	in.BusinessName = ""
	if _, err := svc.Register(context.Background(), in); !isValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(accounts.byID) != 0 {
		t.Fatalf("no account may be persisted when vendor fields are missing")
	}
}

func TestAuthService_Register_VendorUnknownCategory(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := newTestAuthService(accounts, newStubVendorRepo())

	in := vendorInput("venue@example.com")
	in.ServiceCategory = "Fireworks"
	if _, err := svc.Register(context.Background(), in); !isValidation(err) {
		t.Fatalf("expected validation error for unknown category, got %v", err)
	}
	if len(accounts.byID) != 0 {
		t.Fatalf("no account may be persisted under an unknown category")
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := newTestAuthService(accounts, newStubVendorRepo())
	ctx := context.Background()

	reg, err := svc.Register(ctx, customerInput("carol@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(ctx, "carol@example.com", "Str0ng!Pass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Account.ID != reg.Account.ID {
		t.Fatalf("unexpected account: %+v", res.Account)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(res.Tokens.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("access token invalid: %v", err)
	}
	if claims["account_id"] != reg.Account.ID || claims["role"] != domain.RoleCustomer {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims["pwd_version"] != "v1" {
		t.Fatalf("expected constant pwd_version for never-changed password, got %v", claims["pwd_version"])
	}
}

func TestAuthService_Login_UnknownEmailIsGeneric(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo(), newStubVendorRepo())

	_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if strings.Contains(err.Error(), "ghost") {
		t.Fatalf("error must not echo the email")
	}
}

func TestAuthService_Login_LockoutAfterFiveFailures(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := newTestAuthService(accounts, newStubVendorRepo())
	ctx := context.Background()

	reg, err := svc.Register(ctx, customerInput("bob@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		_, err := svc.Login(ctx, "bob@example.com", "wrong-password")
		if !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	// Sixth attempt with the CORRECT password must still be rejected.
	_, err = svc.Login(ctx, "bob@example.com", "Str0ng!Pass")
	if !errors.Is(err, domain.ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}

	stored := accounts.byID[reg.Account.ID]
	if stored.LockUntil == nil {
		t.Fatalf("lockout timestamp not set")
	}
	left := time.Until(*stored.LockUntil)
	if left < 55*time.Minute || left > 65*time.Minute {
		t.Fatalf("lockout duration ~1h expected, got %v", left)
	}

	// Once the window elapses the correct password succeeds and resets state.
	past := time.Now().Add(-time.Minute)
	stored.LockUntil = &past

	if _, err := svc.Login(ctx, "bob@example.com", "Str0ng!Pass"); err != nil {
		t.Fatalf("login after lockout expiry failed: %v", err)
	}
	if stored.LoginAttempts != 0 || stored.LockUntil != nil {
		t.Fatalf("login state not reset: attempts=%d lock=%v", stored.LoginAttempts, stored.LockUntil)
	}
}

func TestAuthService_Login_ReportsRemainingAttempts(t *testing.T) {
	svc := newTestAuthService(newStubAccountRepo(), newStubVendorRepo())
	ctx := context.Background()

	if _, err := svc.Register(ctx, customerInput("dan@example.com")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := svc.Login(ctx, "dan@example.com", "nope")
	var ce *domain.CredentialsError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CredentialsError, got %v", err)
	}
	if ce.RemainingAttempts != 4 {
		t.Fatalf("expected 4 remaining attempts, got %d", ce.RemainingAttempts)
	}
}

func TestAuthService_Login_VendorGates(t *testing.T) {
	accounts := newStubAccountRepo()
	vendors := newStubVendorRepo()
	svc := newTestAuthService(accounts, vendors)
	ctx := context.Background()

	reg, err := svc.Register(ctx, vendorInput("venue@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	profile, _ := vendors.FindByAccountID(ctx, reg.Account.ID)

	// Inactive profile blocks login after credentials verify.
	if err := vendors.SetActive(ctx, profile.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if _, err := svc.Login(ctx, "venue@example.com", "Str0ng!Pass"); !errors.Is(err, domain.ErrVendorInactive) {
		t.Fatalf("expected ErrVendorInactive, got %v", err)
	}

	// Missing profile entirely.
	delete(vendors.byID, profile.ID)
	if _, err := svc.Login(ctx, "venue@example.com", "Str0ng!Pass"); !errors.Is(err, domain.ErrVendorProfileMissing) {
		t.Fatalf("expected ErrVendorProfileMissing, got %v", err)
	}

	// Wrong password must NOT reveal the vendor gate.
	if _, err := svc.Login(ctx, "venue@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials before vendor checks, got %v", err)
	}
}

func TestAuthService_VerifyToken(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := newTestAuthService(accounts, newStubVendorRepo())
	ctx := context.Background()

	reg, err := svc.Register(ctx, customerInput("eve@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	id, err := svc.VerifyToken(ctx, reg.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if id.AccountID != reg.Account.ID || id.Role != domain.RoleCustomer {
		t.Fatalf("unexpected identity: %+v", id)
	}

	if _, err := svc.VerifyToken(ctx, "not-a-token"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}

	// Deleted account invalidates the token.
	saved := accounts.byID[reg.Account.ID]
	delete(accounts.byID, reg.Account.ID)
	if _, err := svc.VerifyToken(ctx, reg.Tokens.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for missing account, got %v", err)
	}
	accounts.byID[reg.Account.ID] = saved
}

func TestAuthService_VerifyToken_StaleAfterPasswordChange(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := newTestAuthService(accounts, newStubVendorRepo())
	ctx := context.Background()

	reg, err := svc.Register(ctx, customerInput("frank@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	accounts.byID[reg.Account.ID].PasswordChangedAt = time.Now().Add(5 * time.Second)

	if _, err := svc.VerifyToken(ctx, reg.Tokens.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected stale token rejection, got %v", err)
	}
}

func TestAuthService_Refresh_Rotates(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := newTestAuthService(accounts, newStubVendorRepo())
	ctx := context.Background()

	reg, err := svc.Register(ctx, customerInput("gina@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Refresh(ctx, reg.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if res.Tokens.RefreshToken == reg.Tokens.RefreshToken {
		t.Fatalf("refresh token was not rotated")
	}
	if _, err := svc.VerifyToken(ctx, res.Tokens.AccessToken); err != nil {
		t.Fatalf("rotated access token invalid: %v", err)
	}

	// An access token must not pass as a refresh token (separate secret).
	if _, err := svc.Refresh(ctx, reg.Tokens.AccessToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	accounts := newStubAccountRepo()
	svc := newTestAuthService(accounts, newStubVendorRepo())
	ctx := context.Background()

	reg, err := svc.Register(ctx, customerInput("hana@example.com"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.ChangePassword(ctx, reg.Account.ID, "wrong", "N3w!Password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := svc.ChangePassword(ctx, reg.Account.ID, "Str0ng!Pass", "weak"); !isValidation(err) {
		t.Fatalf("expected validation error for weak password, got %v", err)
	}

	if err := svc.ChangePassword(ctx, reg.Account.ID, "Str0ng!Pass", "N3w!Password"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if _, err := svc.Login(ctx, "hana@example.com", "N3w!Password"); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}
