package domain

import (
	"errors"
	"fmt"
)

// ErrNotConfigured indicates a required provider credential or endpoint is
// missing. It aborts a run before any network call is made.
var ErrNotConfigured = errors.New("provider not configured")

// UpstreamError indicates a mandatory external call returned a non-success
// status or a malformed body. Fatal for the run, never retried.
type UpstreamError struct {
	Provider string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// PersistenceError indicates the report store failed to write. Fatal for
// the run: no notification is attempted and no success is reported once
// weather data exists without a stored record.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist report: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// MissingFieldsError indicates the inbound payload lacks one or more of
// name, email, city after normalization.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %v", e.Fields)
}
