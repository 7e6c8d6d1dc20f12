package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shaadisetgo/marketplace-api/internal/api/metrics"
	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

type BookingHandler struct {
	bookingService ports.BookingService
}

func NewBookingHandler(bookingService ports.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// Create files a booking request against a vendor. Customer identity comes
// from the token, never from the body.
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	booking, err := h.bookingService.Create(c.Request().Context(), ports.CreateBookingInput{
		CustomerID: actor.AccountID,
		VendorID:   req.VendorID,
		EventDate:  req.EventDate,
		EventType:  req.EventType,
		GuestCount: req.GuestCount,
		Budget:     req.Budget,
		Message:    req.Message,
	})
	if err != nil {
		return err
	}

	metrics.BookingsCreatedTotal.WithLabelValues(booking.VendorService).Inc()
	return c.JSON(http.StatusCreated, booking)
}

// List returns the caller's bookings: own requests for customers, incoming
// requests for vendors, everything for admins.
func (h *BookingHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var bookings []*domain.Booking
	switch actor.Role {
	case domain.RoleCustomer:
		bookings, err = h.bookingService.ListForCustomer(c.Request().Context(), actor.AccountID)
	case domain.RoleVendor:
		profileID, perr := ctxVendorProfileID(c)
		if perr != nil {
			return perr
		}
		bookings, err = h.bookingService.ListForVendor(c.Request().Context(), profileID)
	case domain.RoleAdmin:
		bookings, err = h.bookingService.ListAll(c.Request().Context())
	default:
		return domain.ErrForbidden
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bookingListResponse{Bookings: bookings, Count: len(bookings)})
}

// Get returns one booking with the vendor-aggregate side read for vendor and
// admin callers.
func (h *BookingHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	detail, err := h.bookingService.Get(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookingDetailResponse{Booking: detail.Booking, Stats: detail.Stats})
}

// UpdateStatus applies a lifecycle transition or a status-less update.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	detail, err := h.bookingService.UpdateStatus(c.Request().Context(), c.Param("id"), actor, ports.UpdateBookingInput{
		Status:             domain.BookingStatus(req.Status),
		VendorResponse:     req.VendorResponse,
		CancellationReason: req.CancellationReason,
		CompletionNotes:    req.CompletionNotes,
		PaymentStatus:      req.PaymentStatus,
		PaymentAmount:      req.PaymentAmount,
	})
	if err != nil {
		return err
	}

	if req.Status != "" {
		metrics.BookingTransitionsTotal.WithLabelValues(req.Status).Inc()
	}
	return c.JSON(http.StatusOK, bookingDetailResponse{Booking: detail.Booking, Stats: detail.Stats})
}

// Cancel is the customer-facing cancellation shortcut.
func (h *BookingHandler) Cancel(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req cancelBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	booking, err := h.bookingService.Cancel(c.Request().Context(), c.Param("id"), actor, req.Reason)
	if err != nil {
		return err
	}

	metrics.BookingTransitionsTotal.WithLabelValues(string(domain.StatusCancelled)).Inc()
	return c.JSON(http.StatusOK, booking)
}
