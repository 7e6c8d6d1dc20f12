package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

// TokenIssuer signs and parses session tokens. The signing algorithm is
// pinned to HS256 on both sides: no negotiation, no downgrade.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenIssuer(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// AccessTTLSeconds is the advertised expires_in for clients.
func (t *TokenIssuer) AccessTTLSeconds() int64 {
	return int64(t.accessTTL.Seconds())
}

// RefreshTTL is exposed so the transport layer can align the cookie Max-Age.
func (t *TokenIssuer) RefreshTTL() time.Duration {
	return t.refreshTTL
}

// IssueAccess signs the access token. Payload is exactly
// {account_id, role, pwd_version} plus the standard iat/exp claims.
func (t *TokenIssuer) IssueAccess(a *domain.Account, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"account_id":  a.ID,
		"role":        a.Role,
		"pwd_version": a.PasswordVersion(),
		"iat":         now.Unix(),
		"exp":         now.Add(t.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.accessSecret)
}

// IssueRefresh signs the refresh token with the separate secret. Payload is
// {account_id} plus a jti so every rotation yields a distinct token.
func (t *TokenIssuer) IssueRefresh(accountID string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"account_id": accountID,
		"jti":        uuid.NewString(),
		"iat":        now.Unix(),
		"exp":        now.Add(t.refreshTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.refreshSecret)
}

// accessClaims is the decoded access token payload.
type accessClaims struct {
	AccountID  string
	Role       string
	PwdVersion string
	IssuedAt   time.Time
}

// ParseAccess verifies signature and expiry of an access token.
func (t *TokenIssuer) ParseAccess(token string) (*accessClaims, error) {
	claims, err := t.parse(token, t.accessSecret)
	if err != nil {
		return nil, err
	}
	out := &accessClaims{}
	out.AccountID, _ = claims["account_id"].(string)
	out.Role, _ = claims["role"].(string)
	out.PwdVersion, _ = claims["pwd_version"].(string)
	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0)
	}
	if out.AccountID == "" || out.Role == "" {
		return nil, domain.ErrTokenInvalid
	}
	return out, nil
}

// refreshClaims is the decoded refresh token payload.
type refreshClaims struct {
	AccountID string
	IssuedAt  time.Time
}

// ParseRefresh verifies signature and expiry of a refresh token.
func (t *TokenIssuer) ParseRefresh(token string) (*refreshClaims, error) {
	claims, err := t.parse(token, t.refreshSecret)
	if err != nil {
		return nil, err
	}
	out := &refreshClaims{}
	out.AccountID, _ = claims["account_id"].(string)
	if iat, ok := claims["iat"].(float64); ok {
		out.IssuedAt = time.Unix(int64(iat), 0)
	}
	if out.AccountID == "" {
		return nil, domain.ErrTokenInvalid
	}
	return out, nil
}

func (t *TokenIssuer) parse(token string, secret []byte) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (interface{}, error) {
		if tok.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w", domain.ErrTokenInvalid)
	}
	return claims, nil
}
