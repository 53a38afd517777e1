// Package domain models the weather report pipeline data.
//
// # Data Flow
//
// A Submission (name, email, city) enters through the HTTP API or the
// webhook normalizer. The pipeline fetches a WeatherSnapshot for the city
// from the weather provider, optionally generates a short AI commentary,
// persists everything as a Report, and finally attempts an email delivery.
//
// # Failure Taxonomy
//
// Steps are either mandatory or best-effort:
//
//	mandatory:   weather lookup, report persistence. Any failure aborts the
//	             run; the caller receives a wrapped UpstreamError,
//	             PersistenceError, or ErrNotConfigured and no partial result.
//	best-effort: commentary generation, email notification, event
//	             publication. Failures are absorbed at the adapter boundary
//	             and logged; the pipeline only ever sees a neutral value
//	             (empty commentary, a failed DeliveryAttempt).
//
// # Email Validity
//
// IsValidEmail applies an RFC 5321 inspired rule: at most 254 characters
// total, exactly one "@" splitting a local part (max 64 chars) from a
// domain (max 253 chars), no consecutive dots, no leading or trailing dot,
// and an alphabetic TLD of at least two characters. Validity is computed
// once per run, stored on the Report verbatim, and gates only the email
// notification. An invalid address never aborts the pipeline.
//
// # Air Quality
//
// The AQI carried on a Report is the provider's raw PM2.5 reading rounded
// half away from zero (12.5 becomes 13, 12.4 becomes 12).
package domain
