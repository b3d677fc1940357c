// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p          Server port
	-t          Store type: json, sqlite or postgres
	-data       Responses JSON file
	-emails     Email records JSON file
	-d          Database URL
	-questions  Question set YAML
	-admin-key  Admin key (prefer env)
	-smtp-password SMTP password (prefer env)
	-env-file   dotenv file to load first (default .env)

# Environment Variables

Flags fall back to environment variables, which may be loaded from the
dotenv file:

	PORT, STORE_TYPE, DATA_FILE, EMAIL_FILE, DATABASE_URL, QUESTIONS_FILE,
	ADMIN_KEY, SMTP_HOST, SMTP_PORT, SMTP_USERNAME, SMTP_PASSWORD,
	MAIL_FROM, NOTIFY_TO, NOTIFY_ASYNC

CLI flags take precedence over environment variables. Variables already set
in the process environment take precedence over the dotenv file.

# Validation

ParseFlags returns an error for an unknown store type, a non-numeric port,
or a postgres store without a database URL. Missing SMTP settings only
disable email.
*/
package cliparse
