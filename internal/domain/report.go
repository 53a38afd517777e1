package domain

import "time"

// Submission is the user-provided input to one pipeline run.
// It is immutable for the duration of the run and never stored directly;
// its fields are embedded into the Report at persistence time.
type Submission struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city"`
}

// WeatherSnapshot is the current-conditions reading fetched for a
// submission's city. It is only ever produced whole: a provider failure or
// a missing field yields an error, never a partial snapshot.
type WeatherSnapshot struct {
	TemperatureC float64 `json:"temperature_c"`
	Condition    string  `json:"condition"`
	AQI          int     `json:"aqi"` // PM2.5 rounded half away from zero
}

// Report is the persisted record combining submission, snapshot, and
// commentary. ID is assigned by the store; it is empty before persistence.
type Report struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	City         string    `json:"city"`
	EmailValid   bool      `json:"email_valid"`
	TemperatureC float64   `json:"temperature_c"`
	Condition    string    `json:"condition"`
	AQI          int       `json:"aqi"`
	Commentary   string    `json:"ai_commentary,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// DeliveryOutcome classifies one notification attempt.
type DeliveryOutcome string

const (
	DeliverySent    DeliveryOutcome = "sent"
	DeliverySkipped DeliveryOutcome = "skipped"
	DeliveryFailed  DeliveryOutcome = "failed"
)

// DeliveryAttempt records the result of a notification attempt. It exists
// for logging and metrics only and is never persisted; it has no bearing
// on the pipeline's reported success.
type DeliveryAttempt struct {
	Outcome DeliveryOutcome
	Reason  string // populated for skipped and failed attempts
}
