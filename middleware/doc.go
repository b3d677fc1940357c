// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

	mux.HandleFunc("POST /api/survey", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (status, duration_ms).

# Recovery and CORS

	handler := middleware.Recover(middleware.CORS(mux))

Recover turns a handler panic into a 500 JSON envelope. CORS reflects the
request origin and allows the X-Admin-Key header.

# Admin Key

	mux.HandleFunc("GET /api/stats", middleware.RequireAdminKey(cfg.AdminKey, h))

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "message")

Errors use the envelope {"success": false, "error": "message"}.
ParseJSONBody caps request bodies at 1 MiB.

# Client IP Extraction

	ip := middleware.GetClientIP(r)

Checks X-Forwarded-For, X-Real-IP, then RemoteAddr without the port.
*/
package middleware
