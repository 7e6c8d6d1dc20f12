package service

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]{3,100}$`)
)

// PasswordPolicy is the configurable minimum-strength rule. The strict
// variant additionally requires one uppercase, one lowercase, one digit and
// one symbol.
type PasswordPolicy struct {
	MinLength         int
	RequireComplexity bool
}

// Validate checks password against the policy.
func (p PasswordPolicy) Validate(password string) error {
	minLen := p.MinLength
	if minLen <= 0 {
		minLen = 8
	}
	if len(password) < minLen {
		return domain.Validationf("password must be at least %d characters", minLen)
	}
	if !p.RequireComplexity {
		return nil
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return domain.Validationf("password must contain uppercase, lowercase, number and special character")
	}
	return nil
}

// normalizeEmail lowercases and trims an address for storage and lookup.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// validFullName requires 3-100 letters/spaces with at least two name parts.
func validFullName(name string) bool {
	if !namePattern.MatchString(name) {
		return false
	}
	return len(strings.Fields(name)) >= 2
}
