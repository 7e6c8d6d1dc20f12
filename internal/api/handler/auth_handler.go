package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/shaadisetgo/marketplace-api/internal/api/metrics"
	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	authService ports.AuthService
	refreshTTL  time.Duration
	// secureCookies marks the refresh cookie Secure; enabled outside development.
	secureCookies bool
}

func NewAuthHandler(authService ports.AuthService, refreshTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
	}
}

type registerRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=customer vendor"`

	BusinessName    string `json:"business_name,omitempty"`
	OwnerName       string `json:"owner_name,omitempty"`
	ServiceCategory string `json:"service_category,omitempty" validate:"omitempty,oneof=Venue Catering Photography DJ Decor Other"`
	Address         string `json:"address,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	ZipCode         string `json:"zip_code,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type authResponse struct {
	Token     string          `json:"token"`
	ExpiresIn int64           `json:"expires_in"`
	Account   *domain.Account `json:"account"`
}

// Register creates a customer or vendor account and signs the caller in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		Phone:           req.Phone,
		Role:            req.Role,
		BusinessName:    req.BusinessName,
		OwnerName:       req.OwnerName,
		ServiceCategory: req.ServiceCategory,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		ZipCode:         req.ZipCode,
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(result.Account.Role).Inc()
	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	return c.JSON(http.StatusCreated, authResponse{
		Token:     result.Tokens.AccessToken,
		ExpiresIn: result.Tokens.ExpiresIn,
		Account:   result.Account,
	})
}

// Login authenticates an email/password pair and returns a token pair. The
// refresh token travels only in an HTTP-only cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	return c.JSON(http.StatusOK, authResponse{
		Token:     result.Tokens.AccessToken,
		ExpiresIn: result.Tokens.ExpiresIn,
		Account:   result.Account,
	})
}

// Refresh rotates the refresh cookie into a new token pair.
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	result, err := h.authService.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		return err
	}

	h.setRefreshCookie(c, result.Tokens.RefreshToken)
	return c.JSON(http.StatusOK, authResponse{
		Token:     result.Tokens.AccessToken,
		ExpiresIn: result.Tokens.ExpiresIn,
		Account:   result.Account,
	})
}

// Logout clears the refresh cookie. Access tokens expire on their own.
func (h *AuthHandler) Logout(c echo.Context) error {
	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"status": "logged out"})
}

// Profile returns the authenticated account.
func (h *AuthHandler) Profile(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	account, err := h.authService.Profile(c.Request().Context(), actor.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// ChangePassword rotates the caller's password. Outstanding tokens issued
// before the change stop verifying.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), actor.AccountID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}

	h.clearRefreshCookie(c)
	return c.JSON(http.StatusOK, map[string]string{"status": "password changed"})
}

func (h *AuthHandler) setRefreshCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/auth",
		MaxAge:   int(h.refreshTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func loginOutcome(err error) string {
	if errors.Is(err, domain.ErrAccountLocked) {
		return "locked"
	}
	return "failure"
}
