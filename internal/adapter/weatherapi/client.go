// Package weatherapi implements pipeline.WeatherProvider using the
// WeatherAPI.com current-conditions endpoint.
package weatherapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/couchcryptid/weather-report-service/internal/observability"
)

// Client fetches current weather and air-quality data for a place name.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a WeatherAPI.com client.
func NewClient(key, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Current returns the conditions snapshot for a city. Exactly one attempt is
// made; any failure is terminal for the calling request.
func (c *Client) Current(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
	if c.key == "" {
		return domain.WeatherSnapshot{}, fmt.Errorf("weather API key: %w", domain.ErrNotConfigured)
	}

	params := url.Values{
		"key": {c.key},
		"q":   {city},
		"aqi": {"yes"},
	}
	fullURL := c.baseURL + "/current.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherSnapshot{}, &domain.UpstreamError{Provider: "weatherapi", Err: fmt.Errorf("fetch weather data: %w", err)}
	}
	defer resp.Body.Close()
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.WeatherSnapshot{}, &domain.UpstreamError{
			Provider: "weatherapi",
			Err:      fmt.Errorf("fetch weather data: status %d: %s", resp.StatusCode, body),
		}
	}

	var parsed currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.WeatherSnapshot{}, &domain.UpstreamError{Provider: "weatherapi", Err: fmt.Errorf("decode response: %w", err)}
	}

	return snapshotFrom(parsed)
}

// snapshotFrom validates the nested provider fields and builds a snapshot.
// A snapshot is only produced whole; any absent field is an upstream error.
func snapshotFrom(parsed currentResponse) (domain.WeatherSnapshot, error) {
	cur := parsed.Current
	switch {
	case cur == nil || cur.TempC == nil:
		return domain.WeatherSnapshot{}, missingField("current.temp_c")
	case cur.Condition == nil || cur.Condition.Text == nil:
		return domain.WeatherSnapshot{}, missingField("current.condition.text")
	case cur.AirQuality == nil || cur.AirQuality.PM25 == nil:
		return domain.WeatherSnapshot{}, missingField("current.air_quality.pm2_5")
	}

	return domain.WeatherSnapshot{
		TemperatureC: *cur.TempC,
		Condition:    *cur.Condition.Text,
		AQI:          domain.AQIFromPM25(*cur.AirQuality.PM25),
	}, nil
}

func missingField(path string) error {
	return &domain.UpstreamError{
		Provider: "weatherapi",
		Err:      fmt.Errorf("fetch weather data: response missing %s", path),
	}
}

// WeatherAPI.com response types. Pointers distinguish absent fields from
// zero values.

type currentResponse struct {
	Current *current `json:"current"`
}

type current struct {
	TempC      *float64    `json:"temp_c"`
	Condition  *condition  `json:"condition"`
	AirQuality *airQuality `json:"air_quality"`
}

type condition struct {
	Text *string `json:"text"`
}

type airQuality struct {
	PM25 *float64 `json:"pm2_5"`
}
