package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/couchcryptid/weather-report-service/internal/domain"
)

// reportData is the success payload of the report endpoints.
type reportData struct {
	ID           string  `json:"id"`
	Temperature  float64 `json:"temperature"`
	Condition    string  `json:"condition"`
	AQI          int     `json:"aqi"`
	AICommentary string  `json:"aiCommentary"`
	EmailValid   bool    `json:"emailValid"`
}

type successResponse struct {
	Success bool       `json:"success"`
	Data    reportData `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// handleReport accepts the canonical {name,email,city} body and runs the
// pipeline.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	s.runPipeline(w, r, sub)
}

// handleWebhook accepts an arbitrary JSON object from a form provider,
// normalizes its field names, and runs the pipeline. The response wraps the
// usual envelope with a processing message, mirroring what webhook callers
// expect.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	sub, err := NormalizeSubmission(payload)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	report, err := s.runner.Process(r.Context(), sub)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Weather report processed successfully",
		"data":    successResponse{Success: true, Data: dataFrom(report)},
	})
}

func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request, sub domain.Submission) {
	report, err := s.runner.Process(r.Context(), sub)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true, Data: dataFrom(report)})
}

func dataFrom(report domain.Report) reportData {
	return reportData{
		ID:           report.ID,
		Temperature:  report.TemperatureC,
		Condition:    report.Condition,
		AQI:          report.AQI,
		AICommentary: report.Commentary,
		EmailValid:   report.EmailValid,
	}
}

// statusFor maps the pipeline error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	var mfe *domain.MissingFieldsError
	var ue *domain.UpstreamError
	switch {
	case errors.As(err, &mfe):
		return http.StatusBadRequest
	case errors.As(err, &ue):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
