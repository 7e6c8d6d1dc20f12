package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shaadisetgo/marketplace-api/internal/api/handler"
	"github.com/shaadisetgo/marketplace-api/internal/api/middleware"
	"github.com/shaadisetgo/marketplace-api/internal/core/domain"
	"github.com/shaadisetgo/marketplace-api/internal/core/ports"
)

// Deps bundles everything the router wires into handlers and middleware.
type Deps struct {
	AuthService    ports.AuthService
	BookingService ports.BookingService
	VendorService  ports.VendorService
	VendorRepo     ports.VendorRepository

	Mongo *mongo.Database
	Redis *redis.Client

	RefreshTTL    time.Duration
	SecureCookies bool
	Logger        zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	authn := middleware.Auth(d.AuthService, d.VendorRepo)

	authHandler := handler.NewAuthHandler(d.AuthService, d.RefreshTTL, d.SecureCookies)
	bookingHandler := handler.NewBookingHandler(d.BookingService)
	vendorHandler := handler.NewVendorHandler(d.VendorService, d.BookingService)
	adminHandler := handler.NewAdminHandler(d.VendorService)

	// Auth.
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/profile", authHandler.Profile, authn)
	e.POST("/auth/change-password", authHandler.ChangePassword, authn)

	// Bookings.
	bookings := e.Group("/v1/bookings", authn)
	bookings.POST("", bookingHandler.Create, middleware.RBAC(domain.RoleCustomer))
	bookings.GET("", bookingHandler.List)
	bookings.GET("/:id", bookingHandler.Get)
	bookings.PATCH("/:id/status", bookingHandler.UpdateStatus)
	bookings.POST("/:id/cancel", bookingHandler.Cancel, middleware.RBAC(domain.RoleCustomer, domain.RoleAdmin))

	// Vendors.
	e.GET("/v1/vendors", vendorHandler.List)
	vendorSelf := e.Group("/v1/vendors/me", authn, middleware.RBAC(domain.RoleVendor))
	vendorSelf.GET("", vendorHandler.Me)
	vendorSelf.PATCH("", vendorHandler.UpdateMe)
	vendorSelf.GET("/stats", vendorHandler.Stats)

	// Admin moderation.
	admin := e.Group("/v1/admin", authn, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/accounts", adminHandler.ListAccounts)
	admin.GET("/vendors", adminHandler.ListVendors)
	admin.PATCH("/vendors/:id/active", adminHandler.SetVendorActive)
	admin.PATCH("/vendors/:id/verified", adminHandler.SetVendorVerified)

	// Probes and metrics.
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
