package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shaadisetgo/marketplace-api/internal/api"
	"github.com/shaadisetgo/marketplace-api/internal/api/metrics"
	"github.com/shaadisetgo/marketplace-api/internal/core/service"
	"github.com/shaadisetgo/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/shaadisetgo/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/shaadisetgo/marketplace-api/internal/infrastructure/db/redis"
	"github.com/shaadisetgo/marketplace-api/internal/infrastructure/notify"
	"github.com/shaadisetgo/marketplace-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() {
		_ = rdb.Close()
	}()

	accountRepo := mongodb.NewAccountRepository(db)
	vendorRepo := mongodb.NewVendorRepository(db)
	bookingRepo := mongodb.NewBookingRepository(db)
	for _, ensure := range []func(context.Context) error{
		accountRepo.EnsureIndexes,
		vendorRepo.EnsureIndexes,
		bookingRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Msg("index creation failed")
		}
	}

	dispatcher := notify.NewDispatcher(cfg.Notify.Workers, notify.NewLogNotifier(log), log)
	dispatcher.Start(ctx)
	metrics.RegisterQueueDepth(func() float64 {
		return float64(dispatcher.QueueDepth())
	})

	statsCache := redisdb.NewStatsCache(rdb, cfg.Redis.StatsTTL, log)
	tokens := service.NewTokenIssuer(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := service.NewAuthService(
		accountRepo,
		vendorRepo,
		mongodb.NewSessionTransactor(client),
		tokens,
		service.AuthOptions{
			BcryptCost:       cfg.Auth.BcryptCost,
			Policy:           service.PasswordPolicy{MinLength: cfg.Auth.PasswordMinLength, RequireComplexity: true},
			LockoutThreshold: cfg.Auth.LockoutThreshold,
			LockoutDuration:  cfg.Auth.LockoutDuration,
		},
		log,
	)
	bookingService := service.NewBookingService(bookingRepo, accountRepo, vendorRepo, dispatcher, statsCache, log)
	vendorService := service.NewVendorService(vendorRepo, accountRepo, log)

	e := api.NewRouter(api.Deps{
		AuthService:    authService,
		BookingService: bookingService,
		VendorService:  vendorService,
		VendorRepo:     vendorRepo,
		Mongo:          db,
		Redis:          rdb,
		RefreshTTL:     tokens.RefreshTTL(),
		SecureCookies:  cfg.Env == "production",
		Logger:         log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("marketplace api started")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
