// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Survey API.

NewRouter returns the mux wrapped in panic recovery, CORS and request
metrics:

	h := router.NewRouter(router.Deps{Store: st, Config: cfg, Metrics: m})

# Endpoints

Public:

	GET  /api/health
	POST /api/survey
	POST /api/responses/{id}/contact
	POST /api/send-email

Reporting (requires X-Admin-Key when ADMIN_KEY is set):

	GET    /api/responses
	GET    /api/responses/{id}
	GET    /api/responses/csv
	GET    /api/stats
	DELETE /api/responses
	GET    /api/emails

Unmatched paths get a 404 JSON envelope. /metrics serves Prometheus
exposition when metrics are enabled.
*/
package router
