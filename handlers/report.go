// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/metrics"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/report"
	"github.com/danielhkuo/quickly-survey/store"
)

type ReportHandler struct {
	store   store.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewReportHandler(s store.Store, m *metrics.Metrics) *ReportHandler {
	return &ReportHandler{store: s, metrics: m, now: time.Now}
}

// List handles GET /api/responses
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListResponsesResponse{
		Success: true,
		Data:    records,
		Count:   len(records),
	})
}

// Get handles GET /api/responses/{id}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := auth.ValidateID(id); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid response id")
		return
	}

	rec, err := h.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Response not found")
		return
	}
	if err != nil {
		h.metrics.StoreError("get")
		slog.Error("failed to get response", "response_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read responses")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.GetResponseResponse{
		Success: true,
		Data:    rec,
	})
}

// Stats handles GET /api/stats
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r)
	if !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.StatsResponse{
		Success: true,
		Stats:   report.Stats(records),
	})
}

// CSV handles GET /api/responses/csv
func (h *ReportHandler) CSV(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r)
	if !ok {
		return
	}

	// Render fully before writing headers so a failure can still become a 500
	var buf bytes.Buffer
	err := report.WriteCSV(&buf, records)
	if errors.Is(err, report.ErrNoData) {
		middleware.ErrorResponse(w, http.StatusNotFound, "No data")
		return
	}
	if err != nil {
		slog.Error("failed to render csv", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to export responses")
		return
	}

	filename := fmt.Sprintf("survey_responses_%s.csv", h.now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// DeleteAll handles DELETE /api/responses
func (h *ReportHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	var req models.DeleteAllRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Confirm != models.ConfirmDeleteAll {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Confirmation required: send {\"confirm\": %q}", models.ConfirmDeleteAll))
		return
	}

	deleted, err := h.store.Clear(r.Context())
	if err != nil {
		h.metrics.StoreError("clear")
		slog.Error("failed to clear responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete responses")
		return
	}

	slog.Warn("all responses deleted", "deleted", deleted, "remote", middleware.GetClientIP(r))

	middleware.JSONResponse(w, http.StatusOK, models.DeleteAllResponse{
		Success: true,
		Message: "All responses deleted",
		Deleted: deleted,
	})
}

func (h *ReportHandler) load(w http.ResponseWriter, r *http.Request) ([]models.SurveyResponse, bool) {
	records, err := h.store.List(r.Context())
	if err != nil {
		h.metrics.StoreError("list")
		slog.Error("failed to list responses", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to read responses")
		return nil, false
	}
	if records == nil {
		records = []models.SurveyResponse{}
	}
	return records, true
}
