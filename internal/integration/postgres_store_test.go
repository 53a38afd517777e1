//go:build integration

package integration_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/weather-report-service/internal/adapter/postgres"
	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres runs a disposable PostgreSQL container with the report
// schema applied and returns its connection string.
func startPostgres(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("weather_reports"),
		tcpostgres.WithUsername("weather"),
		tcpostgres.WithPassword("weather"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "start postgres container")
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	schema, err := os.ReadFile("../adapter/postgres/schema.sql")
	require.NoError(t, err, "read schema")

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, string(schema))
	require.NoError(t, err, "apply schema")

	return connStr
}

func testReport(commentary string) domain.Report {
	return domain.Report{
		Name:         "Ada",
		Email:        "ada@example.com",
		City:         "Paris",
		EmailValid:   true,
		TemperatureC: 18.2,
		Condition:    "Clear",
		AQI:          10,
		Commentary:   commentary,
		CreatedAt:    time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC),
	}
}

func TestPostgresStore_InsertAndReadBack(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	connStr := startPostgres(ctx, t)

	store, err := postgres.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.Ping(ctx))

	id, err := store.Insert(ctx, testReport("Great day for a walk."))
	require.NoError(t, err)
	require.NotEmpty(t, id, "store assigns the identifier")

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	var (
		name, email, city, condition, commentary string
		emailValid                               bool
		temperature                              float64
		aqi                                      int
	)
	err = pool.QueryRow(ctx,
		`SELECT name, email, city, email_valid, temperature_c, condition, aqi, ai_commentary
		 FROM weather_reports WHERE id = $1`, id).
		Scan(&name, &email, &city, &emailValid, &temperature, &condition, &aqi, &commentary)
	require.NoError(t, err)

	assert.Equal(t, "Ada", name)
	assert.Equal(t, "ada@example.com", email)
	assert.Equal(t, "Paris", city)
	assert.True(t, emailValid)
	assert.Equal(t, 18.2, temperature)
	assert.Equal(t, "Clear", condition)
	assert.Equal(t, 10, aqi)
	assert.Equal(t, "Great day for a walk.", commentary)
}

func TestPostgresStore_DuplicateSubmissionsCreateDuplicateRows(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	connStr := startPostgres(ctx, t)

	store, err := postgres.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	first, err := store.Insert(ctx, testReport(""))
	require.NoError(t, err)
	second, err := store.Insert(ctx, testReport(""))
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "no idempotency key: each run inserts a new row")

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	var count int
	require.NoError(t, pool.QueryRow(ctx, `SELECT count(*) FROM weather_reports`).Scan(&count))
	assert.Equal(t, 2, count)
}

func TestPostgresStore_InsertFailureIsPersistenceError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	connStr := startPostgres(ctx, t)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `DROP TABLE weather_reports`)
	require.NoError(t, err)
	pool.Close()

	store, err := postgres.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	_, err = store.Insert(ctx, testReport(""))
	require.Error(t, err)

	var pe *domain.PersistenceError
	assert.ErrorAs(t, err, &pe)
}
