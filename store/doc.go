// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists survey responses and email delivery records.

# Backends

Open picks a backend from the configuration:

  - json: two JSON array files (DATA_FILE, EMAIL_FILE)
  - sqlite: a local database file via modernc.org/sqlite
  - postgres: a PostgreSQL server via lib/pq

	st, err := store.Open(cfg)
	defer st.Close()

# Guarantees

Append is atomic with respect to other calls: two concurrent submissions
are both kept and report distinct counts. A failed write leaves the
collection unchanged and the response is not counted.

The JSON backend rewrites its file through a temp file and rename, so a
crash mid-write never leaves a truncated array. A missing responses file is
created as []. An unreadable one is an error; it is never silently
replaced.

Records are returned in insertion order. Response IDs are unique;
Append returns ErrDuplicateID for a repeat.
*/
package store
