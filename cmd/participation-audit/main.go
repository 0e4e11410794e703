package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"mergington/internal/notifications"
	"mergington/internal/shared/config"
	"mergington/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	appLogger := logger.NewWithWriter(os.Stdout, cfg.LogLevel)
	logger.SetDefault(appLogger)

	if !cfg.Kafka.Enabled {
		appLogger.Error("KAFKA_ENABLED is false, nothing to audit")
		os.Exit(1)
	}

	consumer, err := notifications.NewParticipationConsumer(
		notifications.ConsumerConfigFrom(cfg.Kafka),
		auditEvent(appLogger),
		appLogger,
	)
	if err != nil {
		appLogger.Error("Failed to start participation consumer", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := consumer.Run(ctx); err != nil {
		appLogger.Error("Participation consumer stopped with error", slog.Any("error", err))
	}

	if err := consumer.Close(); err != nil {
		appLogger.Error("Error closing participation consumer", slog.Any("error", err))
	}
}

// auditEvent writes one structured audit line per roster change
func auditEvent(l *logger.Logger) notifications.EventHandler {
	return func(ctx context.Context, event *notifications.ParticipationEvent) error {
		l.LogParticipationEvent(ctx, string(event.Type), event.Activity, event.Email, event.ID.String(), event.OccurredAt)
		return nil
	}
}
