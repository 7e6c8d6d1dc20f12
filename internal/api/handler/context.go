package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shaadisetgo/marketplace-api/internal/api/middleware"
	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
)

// ctxActor assembles the acting identity injected by the Auth middleware.
// A missing role means the middleware did not run; reject with 401 before any
// service call.
func ctxActor(c echo.Context) (domain.Actor, error) {
	role, _ := c.Get(middleware.CtxRole).(string)
	if role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	accountID, _ := c.Get(middleware.CtxAccountID).(string)
	profileID, _ := c.Get(middleware.CtxVendorProfileID).(string)

	return domain.Actor{
		AccountID:       accountID,
		Role:            role,
		VendorProfileID: profileID,
	}, nil
}

// ctxVendorProfileID is for vendor-only endpoints that operate on the caller's
// own profile. A vendor token without a profile cannot use them.
func ctxVendorProfileID(c echo.Context) (string, error) {
	profileID, _ := c.Get(middleware.CtxVendorProfileID).(string)
	if profileID == "" {
		return "", echo.NewHTTPError(http.StatusForbidden, "vendor profile not found")
	}
	return profileID, nil
}
