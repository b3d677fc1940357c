// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-survey/db"
	"github.com/danielhkuo/quickly-survey/models"
)

// backends returns a fresh instance of every store backend available here.
// Postgres runs only when TEST_DATABASE_URL is set.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	jsonStore, err := OpenJSON(filepath.Join(dir, "responses.json"), filepath.Join(dir, "emails.json"))
	require.NoError(t, err)

	sqliteStore, err := openSQL("sqlite", "file:"+filepath.Join(dir, "survey.db"), db.DialectSQLite)
	require.NoError(t, err)

	out := map[string]Store{
		"json":   jsonStore,
		"sqlite": sqliteStore,
	}

	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		conn, err := sql.Open("postgres", url)
		require.NoError(t, err)
		require.NoError(t, db.DropSchema(conn))
		require.NoError(t, db.CreateSchema(conn, db.DialectPostgres))
		out["postgres"] = NewSQLStore(conn, db.DialectPostgres)
	}

	t.Cleanup(func() {
		for _, s := range out {
			s.Close()
		}
	})
	return out
}

func testResponse(id string, a, b, c int, dominant string) models.SurveyResponse {
	return models.SurveyResponse{
		ID:               id,
		Timestamp:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		Answers:          map[string]string{"q1": "1", "q2": "2"},
		CategoryScores:   map[string]int{"A": a, "B": b, "C": c},
		TotalScoreA:      a,
		TotalScoreB:      b,
		TotalScoreC:      c,
		DominantCategory: dominant,
		TotalYes:         1,
		TotalNo:          1,
		TotalQuestions:   2,
		IP:               "203.0.113.7",
	}
}

func TestStore_AppendListCount(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			count, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, count)

			n, err := s.Append(ctx, testResponse("r1", 3, 1, 1, "A"))
			require.NoError(t, err)
			assert.Equal(t, 1, n)

			n, err = s.Append(ctx, testResponse("r2", 0, 2, 2, models.DominantMixed))
			require.NoError(t, err)
			assert.Equal(t, 2, n)

			list, err := s.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "r1", list[0].ID, "insertion order must be preserved")
			assert.Equal(t, "r2", list[1].ID)
			assert.Equal(t, 3, list[0].TotalScoreA)
			assert.Equal(t, "203.0.113.7", list[0].IP)
			assert.True(t, list[0].Timestamp.Equal(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)))
		})
	}
}

func TestStore_DuplicateID(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Append(ctx, testResponse("dup", 1, 0, 0, "A"))
			require.NoError(t, err)

			_, err = s.Append(ctx, testResponse("dup", 0, 1, 0, "B"))
			assert.ErrorIs(t, err, ErrDuplicateID)

			count, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, count)
		})
	}
}

func TestStore_GetAndAttachContact(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Append(ctx, testResponse("r1", 1, 0, 0, "A"))
			require.NoError(t, err)

			_, err = s.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.ErrorIs(t, s.AttachContact(ctx, "missing", "x@example.com"), ErrNotFound)

			require.NoError(t, s.AttachContact(ctx, "r1", "person@example.com"))

			rec, err := s.Get(ctx, "r1")
			require.NoError(t, err)
			assert.Equal(t, "person@example.com", rec.ContactEmail)
			assert.Equal(t, 1, rec.TotalScoreA, "attaching contact must not alter scores")
		})
	}
}

func TestStore_Clear(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 3; i++ {
				_, err := s.Append(ctx, testResponse(fmt.Sprintf("r%d", i), 1, 0, 0, "A"))
				require.NoError(t, err)
			}

			deleted, err := s.Clear(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, deleted)

			count, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, 0, count)

			list, err := s.List(ctx)
			require.NoError(t, err)
			assert.NotNil(t, list)
			assert.Empty(t, list)
		})
	}
}

func TestStore_Emails(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.AppendEmail(ctx, models.EmailRecord{
				ID: "email_1", Recipient: "a@example.com", Subject: "Results",
				ResponseID: "r1", SentAt: time.Now(), Status: models.EmailStatusSent,
			}))
			require.NoError(t, s.AppendEmail(ctx, models.EmailRecord{
				ID: "email_2", Recipient: "b@example.com", Subject: "Results",
				SentAt: time.Now(), Status: models.EmailStatusFailed, Error: "dial tcp: refused",
			}))

			emails, err := s.ListEmails(ctx)
			require.NoError(t, err)
			require.Len(t, emails, 2)
			assert.Equal(t, "email_1", emails[0].ID)
			assert.Equal(t, models.EmailStatusFailed, emails[1].Status)
		})
	}
}

// Concurrent submissions must all survive; the whole-file rewrite must not lose any.
func TestStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			const writers = 20
			var wg sync.WaitGroup
			errs := make(chan error, writers)

			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					if _, err := s.Append(ctx, testResponse(fmt.Sprintf("c%d", i), i%3, 1, 0, "A")); err != nil {
						errs <- err
					}
				}(i)
			}
			wg.Wait()
			close(errs)

			for err := range errs {
				t.Errorf("append failed: %v", err)
			}

			count, err := s.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, writers, count)
		})
	}
}

func TestJSONStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	responses := filepath.Join(dir, "responses.json")
	emails := filepath.Join(dir, "emails.json")

	s, err := OpenJSON(responses, emails)
	require.NoError(t, err)
	_, err = s.Append(ctx, testResponse("keep", 2, 0, 0, "A"))
	require.NoError(t, err)

	reopened, err := OpenJSON(responses, emails)
	require.NoError(t, err)

	rec, err := reopened.Get(ctx, "keep")
	require.NoError(t, err)
	assert.Equal(t, 2, rec.TotalScoreA)

	// No temp files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp-")
	}
}

func TestJSONStore_CreatesEmptyArrayFile(t *testing.T) {
	dir := t.TempDir()
	responses := filepath.Join(dir, "responses.json")

	_, err := OpenJSON(responses, filepath.Join(dir, "emails.json"))
	require.NoError(t, err)

	data, err := os.ReadFile(responses)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestJSONStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	responses := filepath.Join(dir, "responses.json")
	require.NoError(t, os.WriteFile(responses, []byte("{not json"), 0o644))

	_, err := OpenJSON(responses, filepath.Join(dir, "emails.json"))
	assert.Error(t, err)
}

// A failed write must leave the in-memory collection unchanged.
func TestJSONStore_WriteFailureNotCounted(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := OpenJSON(filepath.Join(dir, "responses.json"), filepath.Join(dir, "emails.json"))
	require.NoError(t, err)

	s.responsesFile = filepath.Join(dir, "missing-dir", "responses.json")

	_, err = s.Append(ctx, testResponse("lost", 1, 0, 0, "A"))
	require.Error(t, err)

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
