// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Survey API server.

Quickly Survey collects yes/no questionnaire responses, scores them into
categories A, B and C, and serves listings, statistics and CSV exports of
the collected responses.

# Starting the Server

With no configuration the server listens on port 3000 and stores responses
in survey_responses.json:

	go run .

Or with flags:

	go run . -p 8080 -t sqlite -d "file:survey.db"

Settings may also come from a .env file in the working directory.

# Configuration

  - PORT (-p): Server port (default: 3000)
  - STORE_TYPE (-t): json, sqlite or postgres (default: json)
  - DATA_FILE (-data), EMAIL_FILE (-emails): JSON store files
  - DATABASE_URL (-d): SQL store connection string
  - ADMIN_KEY (-admin-key): Protects reporting routes when set
  - QUESTIONS_FILE (-questions): YAML question set for server-side scoring
  - SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD, MAIL_FROM: Email delivery
  - NOTIFY_TO: Address notified on every submission
  - NOTIFY_ASYNC: Deliver notifications in the background

# Architecture

  - handlers: HTTP request handlers (survey, report, email, health)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, recovery, JSON helpers
  - store: JSON file, SQLite and PostgreSQL persistence
  - scoring: Category tally and dominant category
  - report: Statistics and CSV export
  - notify: SMTP notifications and delivery log
  - questionnaire: Question sets, respondent sessions and submission
  - metrics: Prometheus counters
  - cliparse: Configuration parsing

The terminal questionnaire client lives in cmd/questionnaire.
*/
package main
