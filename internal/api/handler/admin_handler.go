package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

// AdminHandler exposes the moderation surface: account listing and vendor
// activation/verification. Routes are gated to the admin role by RBAC.
type AdminHandler struct {
	vendorService ports.VendorService
}

func NewAdminHandler(vendorService ports.VendorService) *AdminHandler {
	return &AdminHandler{vendorService: vendorService}
}

type setFlagRequest struct {
	Value *bool `json:"value" validate:"required"`
}

func (h *AdminHandler) ListAccounts(c echo.Context) error {
	accounts, err := h.vendorService.ListAccounts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

func (h *AdminHandler) ListVendors(c echo.Context) error {
	vendors, err := h.vendorService.ListVendors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vendors)
}

// SetVendorActive flips the gate checked at vendor login. Deactivated vendors
// keep their data but cannot sign in.
func (h *AdminHandler) SetVendorActive(c echo.Context) error {
	var req setFlagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.vendorService.SetVendorActive(c.Request().Context(), c.Param("id"), *req.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

func (h *AdminHandler) SetVendorVerified(c echo.Context) error {
	var req setFlagRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.vendorService.SetVendorVerified(c.Request().Context(), c.Param("id"), *req.Value)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
