// Package postgres implements pipeline.ReportStore on PostgreSQL via pgx.
package postgres

import (
	"context"

	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists reports in the weather_reports table.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const insertReportSQL = `
    INSERT INTO weather_reports
        (name, email, city, email_valid, temperature_c, condition, aqi, ai_commentary, created_at)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    RETURNING id
`

// Insert writes one report and returns the generated identifier. Duplicate
// submissions create duplicate rows; there is no idempotency key.
func (s *Store) Insert(ctx context.Context, report domain.Report) (string, error) {
	var id string
	err := s.pool.QueryRow(ctx, insertReportSQL,
		report.Name,
		report.Email,
		report.City,
		report.EmailValid,
		report.TemperatureC,
		report.Condition,
		report.AQI,
		report.Commentary,
		report.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", &domain.PersistenceError{Err: err}
	}
	return id, nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
