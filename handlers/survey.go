// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"time"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/metrics"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/notify"
	"github.com/danielhkuo/quickly-survey/scoring"
	"github.com/danielhkuo/quickly-survey/store"
)

type SurveyHandler struct {
	store      store.Store
	cfg        cliparse.Config
	questions  []scoring.Question
	dispatcher *notify.Dispatcher
	metrics    *metrics.Metrics
	now        func() time.Time
}

// NewSurveyHandler wires the submission endpoints. questions may be empty,
// in which case clients must send their own scores. dispatcher may be nil.
func NewSurveyHandler(s store.Store, cfg cliparse.Config, questions []scoring.Question, d *notify.Dispatcher, m *metrics.Metrics) *SurveyHandler {
	return &SurveyHandler{
		store:      s,
		cfg:        cfg,
		questions:  questions,
		dispatcher: d,
		metrics:    m,
		now:        time.Now,
	}
}

// Submit handles POST /api/survey
func (h *SurveyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SurveyRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		h.metrics.SubmissionRejected("invalid_json")
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if len(req.Answers) == 0 {
		h.metrics.SubmissionRejected("no_answers")
		middleware.ErrorResponse(w, http.StatusBadRequest, "No answers received")
		return
	}

	id := req.ID
	if id == "" {
		id = auth.NewResponseID()
	} else if err := auth.ValidateID(id); err != nil {
		h.metrics.SubmissionRejected("invalid_id")
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid response id")
		return
	}

	if needsScoring(req) && len(h.questions) > 0 {
		applyServerScores(&req, scoring.Score(h.questions, req.Answers))
	}

	rec := req.ToResponse(id, h.now().UTC())
	if rec.UserAgent == "" {
		rec.UserAgent = r.UserAgent()
	}
	rec.IP = middleware.GetClientIP(r)

	total, err := h.store.Append(r.Context(), rec)
	if errors.Is(err, store.ErrDuplicateID) {
		h.metrics.SubmissionRejected("duplicate")
		middleware.ErrorResponse(w, http.StatusConflict, "Response already submitted")
		return
	}
	if err != nil {
		h.metrics.StoreError("append")
		slog.Error("failed to save response", "response_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save response")
		return
	}
	h.metrics.SubmissionAccepted()

	slog.Info("survey response saved",
		"response_id", rec.ID,
		"dominant", rec.DominantCategory,
		"total_responses", total,
	)

	resp := models.SubmitSurveyResponse{
		Success:          true,
		ResponseID:       rec.ID,
		Timestamp:        rec.Timestamp,
		TotalResponses:   total,
		Scores:           rec.CategoryScores,
		DominantCategory: rec.DominantCategory,
		SavedToFile:      true,
	}

	// Notification is best-effort and never changes the status code
	if h.dispatcher != nil && h.dispatcher.Enabled() && h.cfg.NotifyTo != "" {
		res := h.dispatcher.Dispatch(r.Context(), notify.Summary(h.cfg.NotifyTo, "", rec, total))
		resp.EmailSent = res.Sent
		if res.Err != nil {
			resp.EmailError = res.Err.Error()
		}
	}

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// AttachContact handles POST /api/responses/{id}/contact
func (h *SurveyHandler) AttachContact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := auth.ValidateID(id); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid response id")
		return
	}

	var req models.AttachContactRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	addr, err := mail.ParseAddress(req.Email)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	err = h.store.AttachContact(r.Context(), id, addr.Address)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Response not found")
		return
	}
	if err != nil {
		h.metrics.StoreError("attach_contact")
		slog.Error("failed to attach contact", "response_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save contact")
		return
	}

	slog.Info("contact attached", "response_id", id)
	middleware.JSONResponse(w, http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Contact saved",
	})
}

// needsScoring reports whether the client sent no scores at all
func needsScoring(req models.SurveyRequest) bool {
	return req.CategoryScores == nil &&
		req.TotalScoreA == nil &&
		req.TotalScoreB == nil &&
		req.TotalScoreC == nil
}

func applyServerScores(req *models.SurveyRequest, res scoring.Result) {
	req.CategoryScores = res.Tally.Clone()
	if req.DominantCategory == "" {
		req.DominantCategory = res.Dominant
	}
	if req.TotalYes == nil {
		req.TotalYes = &res.TotalYes
	}
	if req.TotalNo == nil {
		req.TotalNo = &res.TotalNo
	}
	if req.TotalQuestions == nil {
		req.TotalQuestions = &res.TotalQuestions
	}
}
