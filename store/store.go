// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
)

var (
	ErrNotFound    = errors.New("response not found")
	ErrDuplicateID = errors.New("response id already exists")
)

// Store persists survey responses and email records.
// List returns records in insertion order.
type Store interface {
	Append(ctx context.Context, rec models.SurveyResponse) (int, error)
	List(ctx context.Context) ([]models.SurveyResponse, error)
	Count(ctx context.Context) (int, error)
	Get(ctx context.Context, id string) (models.SurveyResponse, error)
	AttachContact(ctx context.Context, id, email string) error
	Clear(ctx context.Context) (int, error)

	AppendEmail(ctx context.Context, rec models.EmailRecord) error
	ListEmails(ctx context.Context) ([]models.EmailRecord, error)

	Close() error
}

// Open creates the store selected by cfg.StoreType
func Open(cfg cliparse.Config) (Store, error) {
	switch cfg.StoreType {
	case cliparse.StoreJSON, "":
		return OpenJSON(cfg.DataFile, cfg.EmailFile)
	case cliparse.StoreSQLite:
		return openSQL("sqlite", cfg.DatabaseURL, db.DialectSQLite)
	case cliparse.StorePostgres:
		return openSQL("postgres", cfg.DatabaseURL, db.DialectPostgres)
	}
	return nil, fmt.Errorf("unknown store type %q", cfg.StoreType)
}

func openSQL(driver, dsn, dialect string) (*SQLStore, error) {
	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s ping failed: %w", dialect, err)
	}

	if err := db.CreateSchema(conn, dialect); err != nil {
		conn.Close()
		return nil, err
	}

	return NewSQLStore(conn, dialect), nil
}
