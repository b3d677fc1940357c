// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/handlers"
	"github.com/danielhkuo/quickly-survey/metrics"
	"github.com/danielhkuo/quickly-survey/middleware"
	"github.com/danielhkuo/quickly-survey/notify"
	"github.com/danielhkuo/quickly-survey/scoring"
	"github.com/danielhkuo/quickly-survey/store"
)

// Deps carries everything the handlers need. Dispatcher and Metrics may be nil.
type Deps struct {
	Store      store.Store
	Config     cliparse.Config
	Questions  []scoring.Question
	Dispatcher *notify.Dispatcher
	Metrics    *metrics.Metrics
}

func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(d.Store)
	surveyHandler := handlers.NewSurveyHandler(d.Store, d.Config, d.Questions, d.Dispatcher, d.Metrics)
	reportHandler := handlers.NewReportHandler(d.Store, d.Metrics)
	emailHandler := handlers.NewEmailHandler(d.Store, d.Dispatcher, d.Metrics)

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdminKey(d.Config.AdminKey, h))
	}

	// Health check
	mux.HandleFunc("GET /api/health", healthHandler.Health)

	// Submission (public)
	mux.HandleFunc("POST /api/survey", middleware.WithLogging(surveyHandler.Submit))
	mux.HandleFunc("POST /api/responses/{id}/contact", middleware.WithLogging(surveyHandler.AttachContact))
	mux.HandleFunc("POST /api/send-email", middleware.WithLogging(emailHandler.SendEmail))

	// Reporting (admin when a key is configured)
	mux.HandleFunc("GET /api/responses", admin(reportHandler.List))
	mux.HandleFunc("GET /api/responses/csv", admin(reportHandler.CSV))
	mux.HandleFunc("GET /api/responses/{id}", admin(reportHandler.Get))
	mux.HandleFunc("GET /api/stats", admin(reportHandler.Stats))
	mux.HandleFunc("DELETE /api/responses", admin(reportHandler.DeleteAll))
	mux.HandleFunc("GET /api/emails", admin(emailHandler.ListEmails))

	if d.Metrics != nil {
		mux.Handle("GET /metrics", d.Metrics.Handler())
	}

	// Everything else
	mux.HandleFunc("/", middleware.WithLogging(middleware.NotFound))

	return middleware.Recover(middleware.CORS(d.Metrics.InstrumentHandler(mux)))
}
