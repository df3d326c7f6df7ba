package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/iliyamo/venue-booking-api/internal/auth"
	"github.com/iliyamo/venue-booking-api/internal/config"
	"github.com/iliyamo/venue-booking-api/internal/database"
	"github.com/iliyamo/venue-booking-api/internal/handler"
	"github.com/iliyamo/venue-booking-api/internal/middleware"
	"github.com/iliyamo/venue-booking-api/internal/repository"
	"github.com/iliyamo/venue-booking-api/internal/router"
	"github.com/iliyamo/venue-booking-api/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found; using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		logger.Error("open database", "driver", cfg.Database.Driver, "err", err)
		os.Exit(1)
	}
	defer db.Close()
	gw := database.NewGateway(db)

	var pub service.Publisher = service.NoopPublisher{}
	if cfg.Events.RabbitMQURL != "" {
		pub = service.NewAMQPPublisher(cfg.Events.RabbitMQURL, cfg.Events.Exchange)
	} else {
		logger.Info("RABBITMQ_URL not set; domain events disabled")
	}
	defer pub.Close()

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		logger.Info("redis unavailable; rate limiting in process")
	} else {
		defer rdb.Close()
	}

	authSvc := service.NewAuthService(repository.NewAdminRepo(gw), auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL), cfg.Auth)
	bookings := service.NewBookingService(repository.NewBookingStore(gw), pub, logger)
	requests := service.NewVenueRequestService(repository.NewVenueRequestStore(gw), pub, logger)
	venues := service.NewVenueService(repository.NewVenueRepo(gw))
	tableTypes := service.NewTableTypeService(repository.NewTableTypeRepo(gw))

	timeout := cfg.RequestTimeout
	e := router.New(router.Handlers{
		Auth:         handler.NewAuthHandler(authSvc, timeout),
		Bookings:     handler.NewBookingHandler(bookings, timeout),
		VenueRequest: handler.NewVenueRequestHandler(requests, timeout),
		Venues:       handler.NewVenueHandler(venues, timeout),
		TableTypes:   handler.NewTableTypeHandler(tableTypes, timeout),
	}, router.Options{
		Logger:     logger,
		Production: cfg.IsProduction(),
		Authn:      authSvc,
		Limiter:    middleware.NewTokenBucket(cfg.RateLimit, rdb, logger),

		VenueCache:     middleware.NewResponseCache(cfg.Cache, rdb, "venues", logger),
		TableTypeCache: middleware.NewResponseCache(cfg.Cache, rdb, "table_types", logger),
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"X-Request-Id", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
	}).Handler(e)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           corsHandler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr, "env", cfg.Env, "driver", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen", "err", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
		return
	}
	logger.Info("server stopped")
}
