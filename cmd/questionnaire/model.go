// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/questionnaire"
)

type submitFunc func(ctx context.Context, req models.SurveyRequest) questionnaire.Outcome

// submittedMsg carries the terminal outcome back into Update
type submittedMsg struct {
	outcome questionnaire.Outcome
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	questionStyle = lipgloss.NewStyle().Bold(true).PaddingLeft(2)
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	chosenStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warnStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

type model struct {
	session *questionnaire.Session
	submit  submitFunc
	timeout time.Duration
	meta    questionnaire.ClientMeta

	submitting bool
	outcome    *questionnaire.Outcome
	status     string
}

func newModel(s *questionnaire.Session, submit submitFunc, timeout time.Duration) model {
	return model{session: s, submit: submit, timeout: timeout}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submittedMsg:
		m.submitting = false
		m.outcome = &msg.outcome
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.status = ""

		switch m.session.Phase() {
		case questionnaire.PhaseWelcome:
			return m.updateWelcome(msg)
		case questionnaire.PhaseQuestion:
			return m.updateQuestion(msg)
		case questionnaire.PhaseDone:
			if m.outcome != nil && (msg.Type == tea.KeyEnter || msg.String() == "q") {
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m model) updateWelcome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ":
		if err := m.session.Start(); err != nil {
			m.status = err.Error()
		}
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "1":
		m.answer(models.AnswerYes)
	case "n", "2":
		m.answer(models.AnswerNo)
	case "right", "l":
		if err := m.session.Next(); err != nil {
			m.status = "This is the last question. Press enter to submit."
		}
	case "left", "h":
		if err := m.session.Previous(); err != nil {
			m.status = "This is the first question."
		}
	case "enter":
		submitted, err := m.session.Enter()
		if errors.Is(err, questionnaire.ErrIncomplete) {
			m.status = fmt.Sprintf("%d question(s) still unanswered. Use ← to go back.", m.session.Unanswered())
			return m, nil
		}
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		if submitted {
			m.submitting = true
			return m, m.submitCmd()
		}
	}
	return m, nil
}

func (m *model) answer(value string) {
	if err := m.session.Answer(value); err != nil {
		m.status = err.Error()
	}
}

func (m model) submitCmd() tea.Cmd {
	payload := m.session.Payload(m.meta)
	submit := m.submit
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return submittedMsg{outcome: submit(ctx, payload)}
	}
}

func (m model) View() string {
	var b strings.Builder

	switch m.session.Phase() {
	case questionnaire.PhaseWelcome:
		def := m.session.Definition()
		b.WriteString(titleStyle.Render(def.Title))
		b.WriteString("\n\n")
		if def.Intro != "" {
			b.WriteString(def.Intro)
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d yes/no questions. Press enter to begin.\n", m.session.Len())

	case questionnaire.PhaseQuestion:
		q := m.session.Current()
		b.WriteString(dimStyle.Render(fmt.Sprintf("Question %d of %d", m.session.Index()+1, m.session.Len())))
		b.WriteString("\n\n")
		b.WriteString(questionStyle.Render(q.Text))
		b.WriteString("\n\n")

		current, _ := m.session.AnswerFor(q.ID)
		b.WriteString("  " + option("[y] Yes", current == models.AnswerYes))
		b.WriteString("   " + option("[n] No", current == models.AnswerNo))
		b.WriteString("\n\n")

		hint := "enter: next   ←/→: move"
		if m.session.IsLast() {
			hint = "enter: submit   ←: back"
		}
		b.WriteString(dimStyle.Render(hint))

	case questionnaire.PhaseDone:
		b.WriteString(m.doneView())
	}

	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(warnStyle.Render(m.status))
	}
	b.WriteString("\n")
	return b.String()
}

func (m model) doneView() string {
	if m.submitting || m.outcome == nil {
		return dimStyle.Render("Submitting your answers...")
	}

	out := *m.outcome
	var b strings.Builder

	switch out.Mode {
	case questionnaire.Submitted:
		b.WriteString(chosenStyle.Render("Thank you! Your answers were submitted."))
		if out.TotalResponses > 0 {
			fmt.Fprintf(&b, "\nYou are the %s respondent.", humanize.Ordinal(out.TotalResponses))
		}
	case questionnaire.SavedLocally:
		b.WriteString(warnStyle.Render("The server could not be reached."))
		b.WriteString("\nYour answers were saved locally and nothing was lost.")
	case questionnaire.Rejected:
		b.WriteString(errorStyle.Render("The server did not accept your answers."))
		if out.SubmitErr != nil {
			fmt.Fprintf(&b, "\n%s", out.SubmitErr)
		}
	case questionnaire.Lost:
		b.WriteString(errorStyle.Render("Your answers could not be submitted or saved."))
		if out.BackupErr != nil {
			fmt.Fprintf(&b, "\n%s", out.BackupErr)
		}
	}

	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Dominant category: %s\n", out.Dominant)
	for _, c := range models.Categories {
		score := out.Scores[c]
		fmt.Fprintf(&b, "  %s %s %d\n", c, strings.Repeat("█", score), score)
	}

	return boxStyle.Render(b.String()) + "\n" + dimStyle.Render("Press enter to exit.")
}

func option(label string, chosen bool) string {
	if chosen {
		return chosenStyle.Render("● " + label)
	}
	return "○ " + label
}

// summaryLine is printed after the TUI exits
func summaryLine(out questionnaire.Outcome) string {
	switch out.Mode {
	case questionnaire.Submitted:
		return fmt.Sprintf("Submitted response %s (dominant: %s)", out.ResponseID, out.Dominant)
	case questionnaire.SavedLocally:
		return fmt.Sprintf("Saved response %s locally: %v", out.ResponseID, out.SubmitErr)
	case questionnaire.Rejected:
		return fmt.Sprintf("Response %s was rejected: %v", out.ResponseID, out.SubmitErr)
	}
	return fmt.Sprintf("Response %s was lost: %v", out.ResponseID, out.BackupErr)
}
