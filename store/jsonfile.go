// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/danielhkuo/quickly-survey/models"
)

// JSONStore keeps the collections in memory and rewrites one JSON array
// file per collection on every mutation. The in-memory state only changes
// after the file write succeeds.
type JSONStore struct {
	responsesFile string
	emailsFile    string

	mu        sync.RWMutex
	responses []models.SurveyResponse
	emails    []models.EmailRecord
}

// OpenJSON loads both files, creating empty arrays for missing ones
func OpenJSON(responsesFile, emailsFile string) (*JSONStore, error) {
	s := &JSONStore{responsesFile: responsesFile, emailsFile: emailsFile}

	if err := loadArray(responsesFile, &s.responses); err != nil {
		return nil, err
	}
	if err := loadArray(emailsFile, &s.emails); err != nil {
		return nil, err
	}

	if s.responses == nil {
		s.responses = []models.SurveyResponse{}
		if err := writeArray(responsesFile, s.responses); err != nil {
			return nil, err
		}
	}
	if s.emails == nil {
		s.emails = []models.EmailRecord{}
	}

	return s, nil
}

func (s *JSONStore) Append(ctx context.Context, rec models.SurveyResponse) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.responses {
		if existing.ID == rec.ID {
			return 0, ErrDuplicateID
		}
	}

	next := make([]models.SurveyResponse, len(s.responses), len(s.responses)+1)
	copy(next, s.responses)
	next = append(next, rec)

	if err := writeArray(s.responsesFile, next); err != nil {
		return 0, err
	}
	s.responses = next
	return len(next), nil
}

func (s *JSONStore) List(ctx context.Context) ([]models.SurveyResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SurveyResponse, len(s.responses))
	copy(out, s.responses)
	return out, nil
}

func (s *JSONStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.responses), nil
}

func (s *JSONStore) Get(ctx context.Context, id string) (models.SurveyResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.responses {
		if rec.ID == id {
			return rec, nil
		}
	}
	return models.SurveyResponse{}, ErrNotFound
}

func (s *JSONStore) AttachContact(ctx context.Context, id, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, rec := range s.responses {
		if rec.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}

	next := make([]models.SurveyResponse, len(s.responses))
	copy(next, s.responses)
	next[idx].ContactEmail = email

	if err := writeArray(s.responsesFile, next); err != nil {
		return err
	}
	s.responses = next
	return nil
}

func (s *JSONStore) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeArray(s.responsesFile, []models.SurveyResponse{}); err != nil {
		return 0, err
	}
	deleted := len(s.responses)
	s.responses = []models.SurveyResponse{}
	return deleted, nil
}

func (s *JSONStore) AppendEmail(ctx context.Context, rec models.EmailRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]models.EmailRecord, len(s.emails), len(s.emails)+1)
	copy(next, s.emails)
	next = append(next, rec)

	if err := writeArray(s.emailsFile, next); err != nil {
		return err
	}
	s.emails = next
	return nil
}

func (s *JSONStore) ListEmails(ctx context.Context) ([]models.EmailRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.EmailRecord, len(s.emails))
	copy(out, s.emails)
	return out, nil
}

func (s *JSONStore) Close() error {
	return nil
}

func loadArray[T any](filename string, out *[]T) error {
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	if len(data) == 0 {
		*out = []T{}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", filename, err)
	}
	return nil
}

// writeArray replaces filename atomically via a temp file in the same directory
func writeArray[T any](filename string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	dir := filepath.Dir(filename)
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}
	return nil
}
