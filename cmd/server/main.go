package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"charterbook/internal/api"
	"charterbook/internal/auth"
	"charterbook/internal/availability"
	"charterbook/internal/config"
	"charterbook/internal/db"
	"charterbook/internal/repository"
	"charterbook/internal/service"
	"charterbook/internal/utils"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := db.Migrate(ctx, conn); err != nil {
		return err
	}

	var cache repository.SnapshotCache = repository.NopSnapshotCache{}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, snapshots read through", zap.Error(err))
		} else {
			cache = repository.NewRedisSnapshotCache(client, "charterbook:snapshot", cfg.SnapshotTTL)
		}
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clock := availability.NewClock(loc)

	bookingRepo := repository.NewBookingRepository(conn)
	blockRepo := repository.NewBlockedSlotRepository(conn)
	adminRepo := repository.NewAdminAuthRepository(conn)

	mailer, err := service.NewMailer(ctx, cfg)
	if err != nil {
		return err
	}
	if mailer == nil {
		logger.Warn("no mail provider configured, booking emails disabled")
	}
	sender := service.NewSenderService(mailer, service.NewSMSSender(cfg), service.SenderConfig{
		BusinessName: cfg.BusinessName,
		OwnerEmail:   cfg.OwnerEmail,
		OwnerPhone:   cfg.OwnerPhone,
	}, logger)

	availabilitySvc := service.NewAvailabilityService(bookingRepo, blockRepo, cache, clock, cfg.BookingHorizonMonths, logger)
	bookingSvc := service.NewBookingService(bookingRepo, availabilitySvc, sender, logger)
	adminSvc := service.NewAdminService(bookingRepo, blockRepo, availabilitySvc, logger)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	adminAuthSvc := service.NewAdminAuthService(adminRepo, tokens, logger)

	jobs := service.NewJobService(bookingRepo, sender, clock, logger)
	scheduler, err := jobs.Schedule(cfg.DigestCron)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer func() { <-scheduler.Stop().Done() }()

	router := api.NewRouter(
		api.NewUserHandler(bookingSvc, availabilitySvc, logger),
		api.NewAdminHandler(adminSvc, logger),
		api.NewAdminAuthHandler(adminAuthSvc, logger),
		api.RouterConfig{
			AllowedOrigins: cfg.AllowedOrigins(),
			Tokens:         tokens,
			Limiter:        api.NewIPRateLimiter(cfg.RateLimitPerMin, logger),
			Logger:         logger,
			TrustProxy:     cfg.TrustProxy,
		},
	)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("port", cfg.AppPort), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	sender.Wait()
	return nil
}
