package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Weather provider (mandatory).
	WeatherAPIKey     string
	WeatherAPIBaseURL string
	WeatherTimeout    time.Duration

	// Commentary provider (optional; disabled when the key is unset).
	OpenAIKey       string
	OpenAIBaseURL   string
	OpenAIModel     string
	OpenAIMaxTokens int
	OpenAITimeout   time.Duration

	// Report store (mandatory). "memory" selects the in-memory store.
	DatabaseURL string

	// Email provider (optional; disabled when the key is unset).
	BrevoAPIKey        string
	BrevoBaseURL       string
	BrevoTimeout       time.Duration
	EmailSenderAddress string
	EmailSenderName    string

	// Report event publishing (optional; disabled when no brokers are set).
	KafkaBrokers      []string
	ReportEventsTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	weatherTimeout, err := parseDuration("WEATHER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	openAITimeout, err := parseDuration("OPENAI_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	brevoTimeout, err := parseDuration("BREVO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	maxTokens, err := parsePositiveInt("OPENAI_MAX_TOKENS", 100)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		WeatherAPIKey:     os.Getenv("WEATHER_API_KEY"),
		WeatherAPIBaseURL: envOrDefault("WEATHER_API_BASE_URL", "http://api.weatherapi.com/v1"),
		WeatherTimeout:    weatherTimeout,

		OpenAIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   envOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:     envOrDefault("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAIMaxTokens: maxTokens,
		OpenAITimeout:   openAITimeout,

		DatabaseURL: os.Getenv("DATABASE_URL"),

		BrevoAPIKey:        os.Getenv("BREVO_API_KEY"),
		BrevoBaseURL:       envOrDefault("BREVO_BASE_URL", "https://api.brevo.com"),
		BrevoTimeout:       brevoTimeout,
		EmailSenderAddress: envOrDefault("EMAIL_SENDER_ADDRESS", "noreply@weather-app.com"),
		EmailSenderName:    envOrDefault("EMAIL_SENDER_NAME", "AI Weather Reporter"),

		KafkaBrokers:      parseBrokers(os.Getenv("KAFKA_BROKERS")),
		ReportEventsTopic: envOrDefault("REPORT_EVENTS_TOPIC", "weather-reports"),
	}

	if cfg.WeatherAPIKey == "" {
		return nil, errors.New("WEATHER_API_KEY is required")
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}

	return cfg, nil
}

// CommentaryEnabled reports whether the optional commentary step is configured.
func (c *Config) CommentaryEnabled() bool { return c.OpenAIKey != "" }

// EmailEnabled reports whether the optional notification step is configured.
func (c *Config) EmailEnabled() bool { return c.BrevoAPIKey != "" }

// EventsEnabled reports whether report-created events should be published.
func (c *Config) EventsEnabled() bool { return len(c.KafkaBrokers) > 0 }

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
