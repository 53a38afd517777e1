package kafka

import (
	"testing"
	"time"

	"github.com/couchcryptid/weather-report-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	report := domain.Report{
		ID:           "report-1",
		Name:         "Ada",
		Email:        "ada@example.com",
		City:         "Paris",
		EmailValid:   true,
		TemperatureC: 18.2,
		Condition:    "Clear",
		AQI:          10,
		CreatedAt:    now,
	}

	msg, err := serializeToMessage(report)
	require.NoError(t, err)

	assert.Equal(t, []byte("report-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"city":"Paris"`)
	assert.Contains(t, string(msg.Value), `"email_valid":true`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "event", msg.Headers[0].Key)
	assert.Equal(t, []byte("report.created"), msg.Headers[0].Value)
	assert.Equal(t, "created_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}
