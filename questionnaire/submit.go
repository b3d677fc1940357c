// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questionnaire

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/models"
)

// Mode says which completion view to show
type Mode int

const (
	// Submitted: the server acknowledged the response
	Submitted Mode = iota
	// SavedLocally: the server was unreachable and the backup store holds the response
	SavedLocally
	// Lost: both the server and the backup store failed
	Lost
	// Rejected: the server refused the payload as invalid; nothing is backed up
	Rejected
)

// ErrRejected marks a 4xx answer that retrying would not change
var ErrRejected = errors.New("submission rejected")

// Outcome is always terminal; Submit never leaves the caller without one
type Outcome struct {
	Mode           Mode
	ResponseID     string
	TotalResponses int
	Dominant       string
	Scores         map[string]int
	EmailSent      bool
	SubmitErr      error
	BackupErr      error
}

// Backup stores responses that could not reach the server
type Backup interface {
	Append(ctx context.Context, rec models.SurveyResponse) (int, error)
}

// Submitter posts payloads to the survey API with a local fallback
type Submitter struct {
	endpoint string
	client   *http.Client
	backup   Backup
	now      func() time.Time
}

// NewSubmitter posts to baseURL + "/api/survey"
func NewSubmitter(baseURL string, client *http.Client, backup Backup) *Submitter {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Submitter{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/survey",
		client:   client,
		backup:   backup,
		now:      time.Now,
	}
}

// Submit sends req. A 4xx rejection ends in Rejected with the server's
// error. Any other failure, including a panic in the transport, ends in a
// SavedLocally or Lost outcome.
func (s *Submitter) Submit(ctx context.Context, req models.SurveyRequest) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = s.fallback(ctx, req, fmt.Errorf("submit panicked: %v", r))
		}
	}()

	ack, err := s.post(ctx, req)
	if errors.Is(err, ErrRejected) {
		slog.Warn("survey submission rejected", "response_id", req.ID, "error", err)
		return Outcome{Mode: Rejected, ResponseID: req.ID, SubmitErr: err}
	}
	if err != nil {
		slog.Warn("survey submission failed, saving locally", "response_id", req.ID, "error", err)
		return s.fallback(ctx, req, err)
	}

	return Outcome{
		Mode:           Submitted,
		ResponseID:     ack.ResponseID,
		TotalResponses: ack.TotalResponses,
		Dominant:       ack.DominantCategory,
		Scores:         ack.Scores,
		EmailSent:      ack.EmailSent,
	}
}

func (s *Submitter) post(ctx context.Context, req models.SurveyRequest) (models.SubmitSurveyResponse, error) {
	var ack models.SubmitSurveyResponse

	body, err := json.Marshal(req)
	if err != nil {
		return ack, fmt.Errorf("failed to encode payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return ack, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return ack, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ack, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 300 {
		msg := fmt.Sprintf("server returned %d", resp.StatusCode)
		var apiErr models.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			msg += ": " + apiErr.Error
		}
		if isPermanent(resp.StatusCode) {
			return ack, fmt.Errorf("%w: %s", ErrRejected, msg)
		}
		return ack, errors.New(msg)
	}

	if err := json.Unmarshal(data, &ack); err != nil {
		return ack, fmt.Errorf("failed to parse response: %w", err)
	}
	if !ack.Success {
		return ack, fmt.Errorf("server did not accept the response")
	}
	return ack, nil
}

// isPermanent reports client errors other than timeouts and rate limits
func isPermanent(status int) bool {
	return status >= 400 && status < 500 &&
		status != http.StatusRequestTimeout &&
		status != http.StatusTooManyRequests
}

func (s *Submitter) fallback(ctx context.Context, req models.SurveyRequest, submitErr error) Outcome {
	id := req.ID
	if id == "" {
		id = auth.NewResponseID()
	}
	rec := req.ToResponse(id, s.now())
	rec.LocalBackup = true

	out := Outcome{
		Mode:       SavedLocally,
		ResponseID: rec.ID,
		Dominant:   rec.DominantCategory,
		Scores:     rec.CategoryScores,
		SubmitErr:  submitErr,
	}

	if s.backup == nil {
		out.Mode = Lost
		out.BackupErr = fmt.Errorf("no local backup configured")
		return out
	}

	// Keep the backup write even if the submit context was cancelled
	if _, err := s.backup.Append(context.WithoutCancel(ctx), rec); err != nil {
		slog.Error("local backup failed", "response_id", rec.ID, "error", err)
		out.Mode = Lost
		out.BackupErr = err
	}
	return out
}
