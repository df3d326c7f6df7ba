// Command notifier consumes domain events from RabbitMQ and appends one line
// per event to the booking log.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/iliyamo/venue-booking-api/internal/config"
	"github.com/iliyamo/venue-booking-api/internal/queue"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	_ = godotenv.Load()

	cfg, err := config.LoadEvents()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := queue.NewConsumer(cfg, logger)
	logger.Info("notifier started", "exchange", cfg.Exchange, "queue", cfg.Queue, "log", cfg.LogPath)
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("consumer stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("notifier stopped")
}
