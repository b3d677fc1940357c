// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/questionnaire"
	"github.com/danielhkuo/quickly-survey/scoring"
)

func testDefinition() questionnaire.Definition {
	return questionnaire.Definition{
		Title: "Test Survey",
		Questions: []scoring.Question{
			{ID: "q1", Text: "First?", Category: "A"},
			{ID: "q2", Text: "Second?", Category: "B"},
		},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m model, msgs ...tea.Msg) (model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(model)
	}
	return m, cmd
}

func TestModel_FullRun(t *testing.T) {
	var got models.SurveyRequest
	submit := func(ctx context.Context, req models.SurveyRequest) questionnaire.Outcome {
		got = req
		return questionnaire.Outcome{
			Mode:           questionnaire.Submitted,
			ResponseID:     req.ID,
			TotalResponses: 3,
			Dominant:       req.DominantCategory,
			Scores:         req.CategoryScores,
		}
	}

	m := newModel(questionnaire.NewSession(testDefinition()), submit, time.Second)
	assert.Contains(t, m.View(), "Test Survey")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, questionnaire.PhaseQuestion, m.session.Phase())
	assert.Contains(t, m.View(), "First?")

	m, _ = press(t, m, keyRunes("y"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "Second?")

	m, cmd := press(t, m, keyRunes("2"), tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, m.submitting)
	assert.Contains(t, m.View(), "Submitting")

	m, _ = press(t, m, cmd())
	require.NotNil(t, m.outcome)
	assert.Equal(t, questionnaire.Submitted, m.outcome.Mode)
	assert.Equal(t, "A", got.DominantCategory)
	assert.Equal(t, map[string]string{"q1": "1", "q2": "2"}, got.Answers)

	view := m.View()
	assert.Contains(t, view, "submitted")
	assert.Contains(t, view, "3rd respondent")

	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_SavedLocallyView(t *testing.T) {
	m := newModel(questionnaire.NewSession(testDefinition()), nil, time.Second)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, keyRunes("n"), tea.KeyMsg{Type: tea.KeyRight}, keyRunes("n"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, questionnaire.PhaseDone, m.session.Phase())

	m, _ = press(t, m, submittedMsg{outcome: questionnaire.Outcome{Mode: questionnaire.SavedLocally, Dominant: "Mixed"}})
	assert.Contains(t, m.View(), "saved locally")
}

func TestModel_SubmitBlockedUntilAnswered(t *testing.T) {
	m := newModel(questionnaire.NewSession(testDefinition()), nil, time.Second)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, tea.KeyMsg{Type: tea.KeyRight})

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.False(t, m.submitting)
	assert.Equal(t, questionnaire.PhaseQuestion, m.session.Phase())
	assert.Contains(t, m.status, "2 question(s) still unanswered")
	assert.Contains(t, m.View(), "unanswered")
}

func TestModel_RejectedView(t *testing.T) {
	m := newModel(questionnaire.NewSession(testDefinition()), nil, time.Second)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, keyRunes("y"), tea.KeyMsg{Type: tea.KeyRight}, keyRunes("y"), tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, questionnaire.PhaseDone, m.session.Phase())

	m, _ = press(t, m, submittedMsg{outcome: questionnaire.Outcome{
		Mode:      questionnaire.Rejected,
		SubmitErr: errors.New("submission rejected: server returned 400: No answers received"),
	}})
	view := m.View()
	assert.Contains(t, view, "did not accept")
	assert.Contains(t, view, "No answers received")
	assert.NotContains(t, view, "saved locally")
}

func TestModel_Navigation(t *testing.T) {
	m := newModel(questionnaire.NewSession(testDefinition()), nil, time.Second)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.session.Index())
	assert.Contains(t, m.status, "first question")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.session.Index())
	assert.Empty(t, m.status)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, m.session.Index())
	assert.Contains(t, m.status, "last question")

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.session.Index())
}

func TestModel_CtrlCQuits(t *testing.T) {
	m := newModel(questionnaire.NewSession(testDefinition()), nil, time.Second)
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestSummaryLine(t *testing.T) {
	line := summaryLine(questionnaire.Outcome{Mode: questionnaire.Submitted, ResponseID: "r1", Dominant: "B"})
	assert.True(t, strings.HasPrefix(line, "Submitted response r1"))

	assert.Equal(t, "survey_backup_emails.json", emailsFileFor("survey_backup.json"))
}
