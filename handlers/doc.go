// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Survey API.

# Handler Types

Each handler is a struct with store, config and notifier dependencies:

  - SurveyHandler: Response submission and contact capture
  - ReportHandler: Listing, statistics, CSV export and bulk delete
  - EmailHandler: Result emails and the delivery log
  - HealthHandler: Liveness with the current collection size

Handlers are created via constructor functions:

	surveyHandler := handlers.NewSurveyHandler(st, cfg, def.Questions, dispatcher, m)

# Submission

	POST /api/survey                  → Submit (201, returns totalResponses)
	POST /api/responses/{id}/contact  → AttachContact

Missing numeric fields default to zero. When the client sends no scores at
all and a question set is configured, scores are computed server-side.
A notification failure is reported in emailError but never fails the
submission.

# Reporting

	GET    /api/responses      → List
	GET    /api/responses/{id} → Get
	GET    /api/stats          → Stats
	GET    /api/responses/csv  → CSV (404 "No data" when empty)
	DELETE /api/responses      → DeleteAll (requires confirm=YES_DELETE_ALL)

Reporting routes require the X-Admin-Key header when an admin key is set.
*/
package handlers
