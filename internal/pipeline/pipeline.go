package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/couchcryptid/weather-report-service/internal/observability"
)

// WeatherProvider fetches current conditions for a city. Mandatory step:
// any error aborts the run.
type WeatherProvider interface {
	Current(ctx context.Context, city string) (domain.WeatherSnapshot, error)
}

// CommentaryGenerator produces a short remark about a snapshot. Best-effort:
// implementations absorb their own failures and return "" instead.
type CommentaryGenerator interface {
	Commentary(ctx context.Context, snapshot domain.WeatherSnapshot) string
}

// ReportStore persists a report and returns its generated identifier.
// Mandatory step: any error aborts the run.
type ReportStore interface {
	Insert(ctx context.Context, report domain.Report) (string, error)
	Ping(ctx context.Context) error
}

// Notifier attempts one email delivery for a persisted report. Best-effort:
// implementations never return an error, only a DeliveryAttempt.
type Notifier interface {
	Notify(ctx context.Context, report domain.Report) domain.DeliveryAttempt
}

// EventPublisher announces a persisted report to downstream consumers.
// Best-effort: a returned error is logged and swallowed by the pipeline.
type EventPublisher interface {
	PublishReportCreated(ctx context.Context, report domain.Report) error
}

// Pipeline orchestrates one submission through weather lookup, commentary,
// persistence, and notification. Commentary, notifier, and publisher may be
// nil, meaning the corresponding optional step is not configured.
type Pipeline struct {
	weather    WeatherProvider
	commentary CommentaryGenerator
	store      ReportStore
	notifier   Notifier
	publisher  EventPublisher
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Pipeline with the given collaborators and observability.
func New(w WeatherProvider, c CommentaryGenerator, s ReportStore, n Notifier, p EventPublisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		weather:    w,
		commentary: c,
		store:      s,
		notifier:   n,
		publisher:  p,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil when the report store is reachable.
func (p *Pipeline) CheckReadiness(ctx context.Context) error {
	return p.store.Ping(ctx)
}

// Process runs one submission through the pipeline and returns the persisted
// report. Weather lookup and persistence failures abort the run; commentary,
// notification, and event publication degrade to neutral outcomes.
func (p *Pipeline) Process(ctx context.Context, sub domain.Submission) (domain.Report, error) {
	start := time.Now()

	if err := checkFields(sub); err != nil {
		return domain.Report{}, err
	}

	// Validity is computed once, up front, independent of any network call.
	// It is stored verbatim and gates only the notification step.
	emailValid := domain.IsValidEmail(sub.Email)

	snapshot, err := p.weather.Current(ctx, sub.City)
	if err != nil {
		p.metrics.PipelineFailures.WithLabelValues("weather").Inc()
		p.logger.Error("weather lookup failed", "city", sub.City, "error", err)
		return domain.Report{}, err
	}
	p.logger.Info("weather fetched",
		"city", sub.City,
		"temperature_c", snapshot.TemperatureC,
		"condition", snapshot.Condition,
		"aqi", snapshot.AQI,
	)

	var commentary string
	if p.commentary != nil {
		commentary = p.commentary.Commentary(ctx, snapshot)
		p.logger.Info("commentary attempted", "city", sub.City, "empty", commentary == "")
	}

	report := domain.Report{
		Name:         sub.Name,
		Email:        sub.Email,
		City:         sub.City,
		EmailValid:   emailValid,
		TemperatureC: snapshot.TemperatureC,
		Condition:    snapshot.Condition,
		AQI:          snapshot.AQI,
		Commentary:   commentary,
		CreatedAt:    domain.Now(),
	}

	id, err := p.store.Insert(ctx, report)
	if err != nil {
		p.metrics.PipelineFailures.WithLabelValues("store").Inc()
		p.logger.Error("report persistence failed", "city", sub.City, "error", err)
		return domain.Report{}, err
	}
	report.ID = id
	p.logger.Info("report persisted", "report_id", id, "city", sub.City)

	if p.notifier != nil {
		attempt := p.notifier.Notify(ctx, report)
		p.metrics.NotifyAttempts.WithLabelValues(string(attempt.Outcome)).Inc()
		switch attempt.Outcome {
		case domain.DeliveryFailed:
			p.logger.Warn("notification failed", "report_id", id, "reason", attempt.Reason)
		case domain.DeliverySkipped:
			p.logger.Info("notification skipped", "report_id", id, "reason", attempt.Reason)
		default:
			p.logger.Info("notification sent", "report_id", id, "email", report.Email)
		}
	}

	if p.publisher != nil {
		if err := p.publisher.PublishReportCreated(ctx, report); err != nil {
			p.metrics.EventsPublished.WithLabelValues("error").Inc()
			p.logger.Warn("report event publish failed", "report_id", id, "error", err)
		} else {
			p.metrics.EventsPublished.WithLabelValues("success").Inc()
		}
	}

	p.metrics.ReportsCreated.Inc()
	p.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	return report, nil
}

// checkFields rejects submissions with blank mandatory fields.
func checkFields(sub domain.Submission) error {
	var missing []string
	if strings.TrimSpace(sub.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(sub.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(sub.City) == "" {
		missing = append(missing, "city")
	}
	if len(missing) > 0 {
		return &domain.MissingFieldsError{Fields: missing}
	}
	return nil
}
