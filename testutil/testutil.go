// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/cliparse"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/store"
)

// TestAdminKey is the admin key used by GetTestConfig
const TestAdminKey = "test-admin-key"

// GetTestConfig returns a standard test configuration rooted in dir
func GetTestConfig(dir string) cliparse.Config {
	return cliparse.Config{
		Port:      3318,
		StoreType: cliparse.StoreJSON,
		DataFile:  filepath.Join(dir, "survey_responses.json"),
		EmailFile: filepath.Join(dir, "email_records.json"),
		AdminKey:  TestAdminKey,
		SMTPPort:  587,
	}
}

// SetupTestStore opens a fresh JSON store in a temp directory
func SetupTestStore(t *testing.T) *store.JSONStore {
	t.Helper()

	dir := t.TempDir()
	s, err := store.OpenJSON(filepath.Join(dir, "survey_responses.json"), filepath.Join(dir, "email_records.json"))
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s
}

// CreateTestResponse stores a response with the given scores and returns it
func CreateTestResponse(t *testing.T, s store.Store, a, b, c int, dominant string) models.SurveyResponse {
	t.Helper()

	rec := models.SurveyResponse{
		ID:               auth.NewResponseID(),
		Timestamp:        time.Now().UTC(),
		Answers:          map[string]string{"q1": models.AnswerYes},
		CategoryScores:   map[string]int{models.CategoryA: a, models.CategoryB: b, models.CategoryC: c},
		TotalScoreA:      a,
		TotalScoreB:      b,
		TotalScoreC:      c,
		DominantCategory: dominant,
		TotalYes:         a + b + c,
		TotalQuestions:   9,
		IP:               "192.0.2.1",
	}
	if _, err := s.Append(context.Background(), rec); err != nil {
		t.Fatalf("Failed to create test response: %v", err)
	}

	return rec
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
