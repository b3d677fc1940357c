// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"

	"github.com/danielhkuo/quickly-survey/metrics"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/notify"
	"github.com/danielhkuo/quickly-survey/store"
)

type EmailHandler struct {
	store      store.Store
	dispatcher *notify.Dispatcher
	metrics    *metrics.Metrics
}

func NewEmailHandler(s store.Store, d *notify.Dispatcher, m *metrics.Metrics) *EmailHandler {
	return &EmailHandler{store: s, dispatcher: d, metrics: m}
}

// SendEmail handles POST /api/send-email
func (h *EmailHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req models.SendEmailRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ToEmail == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "toEmail is required")
		return
	}
	addr, err := mail.ParseAddress(req.ToEmail)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	var rec models.SurveyResponse
	switch {
	case req.Results != nil:
		rec = *req.Results
	case req.ResponseID != "":
		rec, err = h.store.Get(r.Context(), req.ResponseID)
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Response not found")
			return
		}
		if err != nil {
			h.metrics.StoreError("get")
			slog.Error("failed to load response for email", "response_id", req.ResponseID, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read responses")
			return
		}
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "results or responseId is required")
		return
	}

	total, err := h.store.Count(r.Context())
	if err != nil {
		slog.Warn("failed to count responses", "error", err)
	}

	if h.dispatcher == nil {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Email is not configured")
		return
	}

	res := h.dispatcher.Send(r.Context(), notify.Summary(addr.Address, req.Subject, rec, total))
	if errors.Is(res.Err, notify.ErrNotConfigured) {
		middleware.ErrorResponse(w, http.StatusServiceUnavailable, "Email is not configured")
		return
	}
	if res.Err != nil {
		middleware.JSONResponse(w, http.StatusBadGateway, models.SendEmailResponse{
			Success: false,
			EmailID: res.EmailID,
			Error:   res.Err.Error(),
		})
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SendEmailResponse{
		Success: true,
		EmailID: res.EmailID,
	})
}

// ListEmails handles GET /api/emails
func (h *EmailHandler) ListEmails(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListEmails(r.Context())
	if err != nil {
		h.metrics.StoreError("list_emails")
		slog.Error("failed to list email records", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read email records")
		return
	}
	if records == nil {
		records = []models.EmailRecord{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListEmailsResponse{
		Success: true,
		Data:    records,
		Count:   len(records),
	})
}
