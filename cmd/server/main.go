package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/weather-report-service/internal/adapter/brevo"
	"github.com/couchcryptid/weather-report-service/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/weather-report-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-report-service/internal/adapter/memory"
	"github.com/couchcryptid/weather-report-service/internal/adapter/openai"
	"github.com/couchcryptid/weather-report-service/internal/adapter/postgres"
	"github.com/couchcryptid/weather-report-service/internal/adapter/weatherapi"
	"github.com/couchcryptid/weather-report-service/internal/config"
	"github.com/couchcryptid/weather-report-service/internal/observability"
	"github.com/couchcryptid/weather-report-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := newStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open report store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	weather := weatherapi.NewClient(cfg.WeatherAPIKey, cfg.WeatherAPIBaseURL, cfg.WeatherTimeout, metrics, logger)

	// Optional steps are nil when not configured; the pipeline skips them.
	var commentary pipeline.CommentaryGenerator
	if cfg.CommentaryEnabled() {
		commentary = openai.NewClient(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel,
			cfg.OpenAIMaxTokens, cfg.OpenAITimeout, metrics, logger)
		metrics.CommentaryEnabled.Set(1)
		logger.Info("ai commentary enabled", "model", cfg.OpenAIModel, "max_tokens", cfg.OpenAIMaxTokens)
	} else {
		logger.Info("ai commentary disabled")
	}

	var notifier pipeline.Notifier
	if cfg.EmailEnabled() {
		sender := brevo.Sender{Email: cfg.EmailSenderAddress, Name: cfg.EmailSenderName}
		notifier = brevo.NewClient(cfg.BrevoAPIKey, cfg.BrevoBaseURL, sender, cfg.BrevoTimeout, logger)
		metrics.EmailEnabled.Set(1)
		logger.Info("email notification enabled", "sender", cfg.EmailSenderAddress)
	} else {
		logger.Info("email notification disabled")
	}

	var publisher pipeline.EventPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.EventsEnabled() {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.ReportEventsTopic, logger)
		publisher = kafkaPublisher
		logger.Info("report event publishing enabled", "topic", cfg.ReportEventsTopic)
	}

	p := pipeline.New(weather, commentary, store, notifier, publisher, logger, metrics)

	srv := httpapi.NewServer(cfg.HTTPAddr, p, p, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// newStore selects the report store backend from DATABASE_URL. The "memory"
// sentinel runs without a database, for local development.
func newStore(ctx context.Context, cfg *config.Config) (pipeline.ReportStore, func(), error) {
	if cfg.DatabaseURL == "memory" {
		return memory.New(), func() {}, nil
	}
	store, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}
