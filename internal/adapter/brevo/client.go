// Package brevo implements pipeline.Notifier using the Brevo transactional
// email API. Delivery is best-effort: Notify reports an outcome, never an
// error.
package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/weather-report-service/internal/domain"
)

// Sender identifies the from-address on outgoing mail.
type Sender struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Client sends report summary emails.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	sender     Sender
	logger     *slog.Logger
}

// NewClient creates a Brevo notifier.
func NewClient(key, baseURL string, sender Sender, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		sender:  sender,
		logger:  logger.With("provider", "brevo"),
	}
}

// Notify attempts one delivery of the report summary to the submitter.
// Deliveries to syntactically invalid addresses are skipped, and provider
// failures are absorbed; the attempt outcome exists for logging only.
func (c *Client) Notify(ctx context.Context, report domain.Report) domain.DeliveryAttempt {
	if c.key == "" {
		return domain.DeliveryAttempt{Outcome: domain.DeliverySkipped, Reason: "no API key configured"}
	}
	if !report.EmailValid {
		return domain.DeliveryAttempt{Outcome: domain.DeliverySkipped, Reason: "invalid email address"}
	}

	if err := c.send(ctx, report); err != nil {
		c.logger.Warn("email delivery failed", "report_id", report.ID, "error", err)
		return domain.DeliveryAttempt{Outcome: domain.DeliveryFailed, Reason: err.Error()}
	}
	return domain.DeliveryAttempt{Outcome: domain.DeliverySent}
}

// send performs the fallible provider call.
func (c *Client) send(ctx context.Context, report domain.Report) error {
	reqBody, err := json.Marshal(emailRequest{
		Sender:      c.sender,
		To:          []recipient{{Email: report.Email, Name: report.Name}},
		Subject:     fmt.Sprintf("Weather Report for %s", report.City),
		HTMLContent: htmlBody(report),
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v3/smtp/email", bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("send email: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// htmlBody renders the summary email. Commentary is omitted when empty.
func htmlBody(report domain.Report) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "<h2>Hi %s,</h2>", report.Name)
	buf.WriteString("<p>Thanks for submitting your details.</p>")
	fmt.Fprintf(&buf, "<p>Here's the current weather for <strong>%s</strong>:</p>", report.City)
	buf.WriteString("<ul>")
	fmt.Fprintf(&buf, "<li>Temperature: <strong>%g°C</strong></li>", report.TemperatureC)
	fmt.Fprintf(&buf, "<li>Condition: <strong>%s</strong></li>", report.Condition)
	fmt.Fprintf(&buf, "<li>AQI: <strong>%d</strong></li>", report.AQI)
	buf.WriteString("</ul>")
	if report.Commentary != "" {
		fmt.Fprintf(&buf, "<p><em>%s</em></p>", report.Commentary)
	}
	buf.WriteString("<p>Stay safe and take care!</p>")
	buf.WriteString("<p><strong>Thanks,<br/>AI Weather Reporter</strong></p>")
	return buf.String()
}

// Brevo request types.

type emailRequest struct {
	Sender      Sender      `json:"sender"`
	To          []recipient `json:"to"`
	Subject     string      `json:"subject"`
	HTMLContent string      `json:"htmlContent"`
}

type recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}
