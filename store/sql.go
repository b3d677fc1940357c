// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
)

// SQLStore persists records in the survey_response and email_record tables
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// NewSQLStore wraps an open connection whose schema already exists
func NewSQLStore(conn *sql.DB, dialect string) *SQLStore {
	if dialect == db.DialectSQLite {
		// A single writer avoids SQLITE_BUSY between concurrent requests
		conn.SetMaxOpenConns(1)
	}
	return &SQLStore{db: conn, dialect: dialect}
}

func (s *SQLStore) Append(ctx context.Context, rec models.SurveyResponse) (int, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal response: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO survey_response (id, created_at, payload)
		VALUES ($1, $2, $3)
	`, rec.ID, rec.Timestamp.UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateID
		}
		return 0, fmt.Errorf("failed to insert response: %w", err)
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM survey_response`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit response: %w", err)
	}
	return count, nil
}

func (s *SQLStore) List(ctx context.Context) ([]models.SurveyResponse, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM survey_response ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	out := []models.SurveyResponse{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		var rec models.SurveyResponse
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM survey_response`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count responses: %w", err)
	}
	return count, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (models.SurveyResponse, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM survey_response WHERE id = $1`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return models.SurveyResponse{}, ErrNotFound
	}
	if err != nil {
		return models.SurveyResponse{}, fmt.Errorf("failed to query response: %w", err)
	}

	var rec models.SurveyResponse
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return models.SurveyResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return rec, nil
}

func (s *SQLStore) AttachContact(ctx context.Context, id, email string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var payload string
	err = tx.QueryRowContext(ctx, `SELECT payload FROM survey_response WHERE id = $1`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query response: %w", err)
	}

	var rec models.SurveyResponse
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	rec.ContactEmail = email

	updated, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE survey_response SET payload = $1 WHERE id = $2`, string(updated), id); err != nil {
		return fmt.Errorf("failed to update response: %w", err)
	}
	return tx.Commit()
}

func (s *SQLStore) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM survey_response`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear responses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read deleted count: %w", err)
	}
	return int(n), nil
}

func (s *SQLStore) AppendEmail(ctx context.Context, rec models.EmailRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal email record: %w", err)
	}

	var responseID sql.NullString
	if rec.ResponseID != "" {
		responseID = sql.NullString{String: rec.ResponseID, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO email_record (id, response_id, sent_at, payload)
		VALUES ($1, $2, $3, $4)
	`, rec.ID, responseID, rec.SentAt.UTC().Format(time.RFC3339Nano), string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert email record: %w", err)
	}
	return nil
}

func (s *SQLStore) ListEmails(ctx context.Context) ([]models.EmailRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM email_record ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query email records: %w", err)
	}
	defer rows.Close()

	out := []models.EmailRecord{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan email record: %w", err)
		}
		var rec models.EmailRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode email record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
