package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

// Context keys set by Auth and read by the handlers.
const (
	CtxAccountID       = "account_id"
	CtxRole            = "role"
	CtxVendorProfileID = "vendor_profile_id"
)

// Auth validates the bearer token against the auth service and injects the
// resolved identity into context. Vendor identities additionally carry their
// profile id so booking authorization can match on it.
func Auth(auth ports.AuthService, vendors ports.VendorRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			identity, err := auth.VerifyToken(c.Request().Context(), parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(CtxAccountID, identity.AccountID)
			c.Set(CtxRole, identity.Role)

			if identity.Role == domain.RoleVendor {
				profile, err := vendors.FindByAccountID(c.Request().Context(), identity.AccountID)
				switch {
				case err == nil:
					c.Set(CtxVendorProfileID, profile.ID)
				case errors.Is(err, domain.ErrVendorNotFound):
					// Tolerated here: endpoints that require the profile fail
					// with 403 downstream.
				default:
					return err
				}
			}

			return next(c)
		}
	}
}
