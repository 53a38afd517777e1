// Package memory implements pipeline.ReportStore in process memory. It
// backs tests and local runs without a database (DATABASE_URL=memory).
package memory

import (
	"context"
	"sync"

	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/google/uuid"
)

// Store keeps reports in a map keyed by generated UUID.
type Store struct {
	mu      sync.Mutex
	reports map[string]domain.Report
	failErr error
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{reports: make(map[string]domain.Report)}
}

// Insert assigns a UUID and records the report.
func (s *Store) Insert(_ context.Context, report domain.Report) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failErr != nil {
		return "", &domain.PersistenceError{Err: s.failErr}
	}

	id := uuid.NewString()
	report.ID = id
	s.reports[id] = report
	return id, nil
}

// Ping always succeeds; there is no backing connection.
func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failErr
}

// Get returns a stored report by ID.
func (s *Store) Get(id string) (domain.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	return r, ok
}

// Len returns the number of stored reports.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reports)
}

// FailWith makes subsequent inserts fail with err. Pass nil to restore
// normal operation. Test hook.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failErr = err
}
