package integration_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/couchcryptid/weather-report-service/internal/adapter/brevo"
	"github.com/couchcryptid/weather-report-service/internal/adapter/httpapi"
	"github.com/couchcryptid/weather-report-service/internal/adapter/memory"
	"github.com/couchcryptid/weather-report-service/internal/adapter/openai"
	"github.com/couchcryptid/weather-report-service/internal/adapter/weatherapi"
	"github.com/couchcryptid/weather-report-service/internal/observability"
	"github.com/couchcryptid/weather-report-service/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture wires real adapters against httptest provider fakes and an
// in-memory store, fronted by the real HTTP server.
type fixture struct {
	server     *httpapi.Server
	store      *memory.Store
	emailCalls *atomic.Int64
}

type fixtureOpts struct {
	weatherStatus int
	weatherBody   string
	openAIBody    string
	openAIStatus  int
}

func newFixture(t *testing.T, opts fixtureOpts) *fixture {
	t.Helper()

	if opts.weatherStatus == 0 {
		opts.weatherStatus = http.StatusOK
	}
	if opts.weatherBody == "" {
		opts.weatherBody = `{"current":{"temp_c":18.2,"condition":{"text":"Clear"},"air_quality":{"pm2_5":9.6}}}`
	}
	if opts.openAIStatus == 0 {
		opts.openAIStatus = http.StatusOK
	}
	if opts.openAIBody == "" {
		opts.openAIBody = `{"choices":[{"message":{"role":"assistant","content":"A clear mild day, ideal for being outside."}}]}`
	}

	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(opts.weatherStatus)
		_, _ = w.Write([]byte(opts.weatherBody))
	}))
	t.Cleanup(weatherSrv.Close)

	openAISrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(opts.openAIStatus)
		_, _ = w.Write([]byte(opts.openAIBody))
	}))
	t.Cleanup(openAISrv.Close)

	emailCalls := &atomic.Int64{}
	brevoSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		emailCalls.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(brevoSrv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	store := memory.New()

	p := pipeline.New(
		weatherapi.NewClient("weather-key", weatherSrv.URL, 5*time.Second, metrics, logger),
		openai.NewClient("sk-test", openAISrv.URL, "gpt-3.5-turbo", 100, 5*time.Second, metrics, logger),
		store,
		brevo.NewClient("brevo-key", brevoSrv.URL, brevo.Sender{Email: "noreply@weather-app.com", Name: "AI Weather Reporter"}, 5*time.Second, logger),
		nil,
		logger,
		metrics,
	)

	return &fixture{
		server:     httpapi.NewServer(":0", p, p, logger),
		store:      store,
		emailCalls: emailCalls,
	}
}

type responseEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		ID           string  `json:"id"`
		Temperature  float64 `json:"temperature"`
		Condition    string  `json:"condition"`
		AQI          int     `json:"aqi"`
		AICommentary string  `json:"aiCommentary"`
		EmailValid   bool    `json:"emailValid"`
	} `json:"data"`
}

func submit(t *testing.T, f *fixture, body string) (*httptest.ResponseRecorder, responseEnvelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/reports", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	f.server.ServeHTTP(rec, req)

	var env responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestEndToEnd_HappyPath(t *testing.T) {
	f := newFixture(t, fixtureOpts{})

	rec, env := submit(t, f, `{"name":"Ada","email":"ada@example.com","city":"Paris"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, 18.2, env.Data.Temperature)
	assert.Equal(t, "Clear", env.Data.Condition)
	assert.Equal(t, 10, env.Data.AQI, "pm2.5 9.6 rounds to 10")
	assert.True(t, env.Data.EmailValid)
	assert.Equal(t, "A clear mild day, ideal for being outside.", env.Data.AICommentary)

	require.NotEmpty(t, env.Data.ID)
	stored, ok := f.store.Get(env.Data.ID)
	require.True(t, ok, "report persisted under returned id")
	assert.Equal(t, "Ada", stored.Name)
	assert.Equal(t, 10, stored.AQI)

	assert.Equal(t, int64(1), f.emailCalls.Load(), "one delivery for a valid address")
}

func TestEndToEnd_InvalidEmailSkipsNotification(t *testing.T) {
	f := newFixture(t, fixtureOpts{})

	rec, env := submit(t, f, `{"name":"Ada","email":"not-an-email","city":"Paris"}`)

	assert.Equal(t, http.StatusOK, rec.Code, "invalid email does not abort the pipeline")
	assert.True(t, env.Success)
	assert.False(t, env.Data.EmailValid)
	assert.Equal(t, 1, f.store.Len(), "report is still persisted")
	assert.Equal(t, int64(0), f.emailCalls.Load(), "no delivery attempt for an invalid address")
}

func TestEndToEnd_WeatherFailureAbortsRun(t *testing.T) {
	f := newFixture(t, fixtureOpts{
		weatherStatus: http.StatusInternalServerError,
		weatherBody:   `{"error":{"message":"internal"}}`,
	})

	rec, env := submit(t, f, `{"name":"Ada","email":"ada@example.com","city":"Paris"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "fetch weather data")
	assert.Equal(t, 0, f.store.Len(), "no report is created")
	assert.Equal(t, int64(0), f.emailCalls.Load())
}

func TestEndToEnd_CommentaryFailureDegradesToEmpty(t *testing.T) {
	f := newFixture(t, fixtureOpts{
		openAIStatus: http.StatusServiceUnavailable,
		openAIBody:   `{"error":"overloaded"}`,
	})

	rec, env := submit(t, f, `{"name":"Ada","email":"ada@example.com","city":"Paris"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Empty(t, env.Data.AICommentary)
	assert.Equal(t, 1, f.store.Len())
}

func TestEndToEnd_StoreFailureAbortsBeforeNotification(t *testing.T) {
	f := newFixture(t, fixtureOpts{})
	f.store.FailWith(assert.AnError)

	rec, env := submit(t, f, `{"name":"Ada","email":"ada@example.com","city":"Paris"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, int64(0), f.emailCalls.Load(), "no delivery once persistence failed")
}
