// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation for the SQL store backends.

# Schema Creation

CreateSchema initializes all required tables for a dialect:

	if err := db.CreateSchema(conn, db.DialectSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - survey_response: one row per accepted submission
  - email_record: one row per notification attempt

Both tables keep the full record as a JSON payload column alongside the
columns needed for lookup (id) and ordering (seq). Adding a field to a
record type needs no migration; old rows decode with the zero value.
*/
package db
