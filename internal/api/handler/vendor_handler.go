package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

type VendorHandler struct {
	vendorService  ports.VendorService
	bookingService ports.BookingService
}

func NewVendorHandler(vendorService ports.VendorService, bookingService ports.BookingService) *VendorHandler {
	return &VendorHandler{vendorService: vendorService, bookingService: bookingService}
}

type updateVendorProfileRequest struct {
	BusinessName    string `json:"business_name,omitempty"`
	OwnerName       string `json:"owner_name,omitempty"`
	ServiceCategory string `json:"service_category,omitempty" validate:"omitempty,oneof=Venue Catering Photography DJ Decor Other"`
	Phone           string `json:"phone,omitempty"`
	Address         string `json:"address,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	ZipCode         string `json:"zip_code,omitempty"`
}

// List is the public vendor directory customers browse before booking.
func (h *VendorHandler) List(c echo.Context) error {
	vendors, err := h.vendorService.ListVendors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, vendors)
}

// Me returns the caller's own vendor profile.
func (h *VendorHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	profile, err := h.vendorService.ProfileByAccount(c.Request().Context(), actor.AccountID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateMe edits the caller's own vendor profile. Empty fields keep their
// stored value.
func (h *VendorHandler) UpdateMe(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateVendorProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.vendorService.UpdateProfile(c.Request().Context(), actor.AccountID, ports.UpdateVendorProfileInput{
		BusinessName:    req.BusinessName,
		OwnerName:       req.OwnerName,
		ServiceCategory: req.ServiceCategory,
		Phone:           req.Phone,
		Address:         req.Address,
		City:            req.City,
		State:           req.State,
		ZipCode:         req.ZipCode,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Stats returns the caller's booking aggregates.
func (h *VendorHandler) Stats(c echo.Context) error {
	profileID, err := ctxVendorProfileID(c)
	if err != nil {
		return err
	}

	stats, err := h.bookingService.VendorStats(c.Request().Context(), profileID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
