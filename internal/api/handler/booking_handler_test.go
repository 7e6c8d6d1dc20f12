package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shaadisetgo/marketplace-api/internal/api/middleware"
	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

type stubBookingService struct {
	createFn          func(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error)
	getFn             func(ctx context.Context, bookingID string, actor domain.Actor) (*ports.BookingDetail, error)
	listForCustomerFn func(ctx context.Context, customerID string) ([]*domain.Booking, error)
	listForVendorFn   func(ctx context.Context, vendorID string) ([]*domain.Booking, error)
	listAllFn         func(ctx context.Context) ([]*domain.Booking, error)
	updateStatusFn    func(ctx context.Context, bookingID string, actor domain.Actor, in ports.UpdateBookingInput) (*ports.BookingDetail, error)
	cancelFn          func(ctx context.Context, bookingID string, actor domain.Actor, reason string) (*domain.Booking, error)
	vendorStatsFn     func(ctx context.Context, vendorID string) (*domain.VendorStats, error)
}

func (s *stubBookingService) Create(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	return s.createFn(ctx, in)
}

func (s *stubBookingService) Get(ctx context.Context, bookingID string, actor domain.Actor) (*ports.BookingDetail, error) {
	return s.getFn(ctx, bookingID, actor)
}

func (s *stubBookingService) ListForCustomer(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	return s.listForCustomerFn(ctx, customerID)
}

func (s *stubBookingService) ListForVendor(ctx context.Context, vendorID string) ([]*domain.Booking, error) {
	return s.listForVendorFn(ctx, vendorID)
}

func (s *stubBookingService) ListAll(ctx context.Context) ([]*domain.Booking, error) {
	return s.listAllFn(ctx)
}

func (s *stubBookingService) UpdateStatus(ctx context.Context, bookingID string, actor domain.Actor, in ports.UpdateBookingInput) (*ports.BookingDetail, error) {
	return s.updateStatusFn(ctx, bookingID, actor, in)
}

func (s *stubBookingService) Cancel(ctx context.Context, bookingID string, actor domain.Actor, reason string) (*domain.Booking, error) {
	return s.cancelFn(ctx, bookingID, actor, reason)
}

func (s *stubBookingService) VendorStats(ctx context.Context, vendorID string) (*domain.VendorStats, error) {
	return s.vendorStatsFn(ctx, vendorID)
}

func authedContext(t *testing.T, method, path, body, accountID, role, profileID string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	c, rec := newJSONContext(t, method, path, body)
	c.Set(middleware.CtxAccountID, accountID)
	c.Set(middleware.CtxRole, role)
	if profileID != "" {
		c.Set(middleware.CtxVendorProfileID, profileID)
	}
	return c, rec
}

func TestBookingHandler_Create_UsesTokenIdentity(t *testing.T) {
	stub := &stubBookingService{
		createFn: func(_ context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
			if in.CustomerID != "acc_1" {
				t.Fatalf("customer id must come from the token, got %q", in.CustomerID)
			}
			if in.VendorID != "vend_1" || in.GuestCount != 200 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Booking{ID: "bkg_1", Status: domain.StatusPending, VendorService: domain.CategoryVenue}, nil
		},
	}
	h := NewBookingHandler(stub)

	body := `{"vendor_id":"vend_1","event_date":"2026-11-20T00:00:00Z","event_type":"Wedding","guest_count":200,"customer_id":"acc_999"}`
	c, rec := authedContext(t, http.MethodPost, "/v1/bookings", body, "acc_1", domain.RoleCustomer, "")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "pending" {
		t.Fatalf("expected pending, got %v", resp["status"])
	}
}

func TestBookingHandler_Create_ValidationFailures(t *testing.T) {
	stub := &stubBookingService{
		createFn: func(context.Context, ports.CreateBookingInput) (*domain.Booking, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewBookingHandler(stub)

	cases := map[string]string{
		"missing vendor":       `{"event_date":"2026-11-20T00:00:00Z","event_type":"Wedding","guest_count":10}`,
		"zero guests":          `{"vendor_id":"vend_1","event_date":"2026-11-20T00:00:00Z","event_type":"Wedding","guest_count":0}`,
		"malformed":            `{`,
		"missing event fields": `{"vendor_id":"vend_1"}`,
	}
	for name, body := range cases {
		c, _ := authedContext(t, http.MethodPost, "/v1/bookings", body, "acc_1", domain.RoleCustomer, "")
		err := h.Create(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", name, err)
		}
	}
}

func TestBookingHandler_Create_RequiresAuth(t *testing.T) {
	h := NewBookingHandler(&stubBookingService{})

	c, _ := newJSONContext(t, http.MethodPost, "/v1/bookings", `{}`)
	err := h.Create(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestBookingHandler_List_PerRole(t *testing.T) {
	stub := &stubBookingService{
		listForCustomerFn: func(_ context.Context, customerID string) ([]*domain.Booking, error) {
			if customerID != "acc_1" {
				t.Fatalf("unexpected customer id %q", customerID)
			}
			return []*domain.Booking{{ID: "bkg_1"}}, nil
		},
		listForVendorFn: func(_ context.Context, vendorID string) ([]*domain.Booking, error) {
			if vendorID != "vend_1" {
				t.Fatalf("unexpected vendor id %q", vendorID)
			}
			return []*domain.Booking{{ID: "bkg_1"}, {ID: "bkg_2"}}, nil
		},
		listAllFn: func(context.Context) ([]*domain.Booking, error) {
			return []*domain.Booking{{ID: "bkg_1"}, {ID: "bkg_2"}, {ID: "bkg_3"}}, nil
		},
	}
	h := NewBookingHandler(stub)

	cases := []struct {
		role      string
		profileID string
		want      int
	}{
		{domain.RoleCustomer, "", 1},
		{domain.RoleVendor, "vend_1", 2},
		{domain.RoleAdmin, "", 3},
	}
	for _, tc := range cases {
		c, rec := authedContext(t, http.MethodGet, "/v1/bookings", "", "acc_1", tc.role, tc.profileID)
		if err := h.List(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.role, err)
		}
		var resp bookingListResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("%s: invalid json: %v", tc.role, err)
		}
		if resp.Count != tc.want {
			t.Fatalf("%s: expected %d bookings, got %d", tc.role, tc.want, resp.Count)
		}
	}
}

func TestBookingHandler_List_VendorWithoutProfile(t *testing.T) {
	h := NewBookingHandler(&stubBookingService{})

	c, _ := authedContext(t, http.MethodGet, "/v1/bookings", "", "acc_9", domain.RoleVendor, "")
	err := h.List(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}

func TestBookingHandler_Get_IncludesStats(t *testing.T) {
	stub := &stubBookingService{
		getFn: func(_ context.Context, bookingID string, actor domain.Actor) (*ports.BookingDetail, error) {
			if bookingID != "bkg_1" || actor.VendorProfileID != "vend_1" {
				t.Fatalf("unexpected args: %s %+v", bookingID, actor)
			}
			return &ports.BookingDetail{
				Booking: &domain.Booking{ID: "bkg_1", Status: domain.StatusConfirmed},
				Stats:   &domain.VendorStats{Total: 4, Confirmed: 2},
			}, nil
		},
	}
	h := NewBookingHandler(stub)

	c, rec := authedContext(t, http.MethodGet, "/v1/bookings/bkg_1", "", "acc_9", domain.RoleVendor, "vend_1")
	c.SetParamNames("id")
	c.SetParamValues("bkg_1")

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp bookingDetailResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Stats == nil || resp.Stats.Total != 4 {
		t.Fatalf("stats missing from response: %+v", resp)
	}
}

func TestBookingHandler_UpdateStatus_PassesFields(t *testing.T) {
	stub := &stubBookingService{
		updateStatusFn: func(_ context.Context, bookingID string, actor domain.Actor, in ports.UpdateBookingInput) (*ports.BookingDetail, error) {
			if bookingID != "bkg_1" || actor.Role != domain.RoleVendor {
				t.Fatalf("unexpected args: %s %+v", bookingID, actor)
			}
			if in.Status != domain.StatusRejected || in.VendorResponse != "Date unavailable" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.BookingDetail{Booking: &domain.Booking{ID: bookingID, Status: in.Status}}, nil
		},
	}
	h := NewBookingHandler(stub)

	body := `{"status":"rejected","vendor_response":"Date unavailable"}`
	c, rec := authedContext(t, http.MethodPatch, "/v1/bookings/bkg_1/status", body, "acc_9", domain.RoleVendor, "vend_1")
	c.SetParamNames("id")
	c.SetParamValues("bkg_1")

	if err := h.UpdateStatus(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestBookingHandler_UpdateStatus_UnknownStatus(t *testing.T) {
	h := NewBookingHandler(&stubBookingService{})

	c, _ := authedContext(t, http.MethodPatch, "/v1/bookings/bkg_1/status", `{"status":"archived"}`, "acc_9", domain.RoleVendor, "vend_1")
	err := h.UpdateStatus(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestBookingHandler_UpdateStatus_ErrorPassthrough(t *testing.T) {
	stub := &stubBookingService{
		updateStatusFn: func(context.Context, string, domain.Actor, ports.UpdateBookingInput) (*ports.BookingDetail, error) {
			return nil, &domain.TransitionError{From: domain.StatusCompleted, To: domain.StatusCancelled}
		},
	}
	h := NewBookingHandler(stub)

	c, _ := authedContext(t, http.MethodPatch, "/v1/bookings/bkg_1/status", `{"status":"cancelled"}`, "acc_1", domain.RoleCustomer, "")
	c.SetParamNames("id")
	c.SetParamValues("bkg_1")

	if err := h.UpdateStatus(c); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected transition error, got %v", err)
	}
}

func TestBookingHandler_Cancel(t *testing.T) {
	stub := &stubBookingService{
		cancelFn: func(_ context.Context, bookingID string, actor domain.Actor, reason string) (*domain.Booking, error) {
			if bookingID != "bkg_1" || reason != "plans changed" {
				t.Fatalf("unexpected args: %s %q", bookingID, reason)
			}
			return &domain.Booking{ID: bookingID, Status: domain.StatusCancelled}, nil
		},
	}
	h := NewBookingHandler(stub)

	c, rec := authedContext(t, http.MethodPost, "/v1/bookings/bkg_1/cancel", `{"reason":"plans changed"}`, "acc_1", domain.RoleCustomer, "")
	c.SetParamNames("id")
	c.SetParamValues("bkg_1")

	if err := h.Cancel(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
