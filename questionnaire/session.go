// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package questionnaire

import (
	"errors"
	"fmt"

	"github.com/danielhkuo/quickly-survey/auth"
	"github.com/danielhkuo/quickly-survey/models"
	"github.com/danielhkuo/quickly-survey/scoring"
)

var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidAnswer     = errors.New("answer must be yes or no")
	ErrIncomplete        = errors.New("every question must be answered before submitting")
)

// Phase is the coarse session state; the question index refines PhaseQuestion
type Phase int

const (
	PhaseWelcome Phase = iota
	PhaseQuestion
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseWelcome:
		return "welcome"
	case PhaseQuestion:
		return "question"
	case PhaseDone:
		return "done"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ClientMeta is passive context attached to a submission
type ClientMeta struct {
	UserAgent string
	Referrer  string
	PageURL   string
}

// Session steps one respondent through a Definition.
// All tally state lives here; nothing is shared between sessions.
type Session struct {
	id    string
	def   Definition
	phase Phase
	index int

	answers map[string]string
	tally   scoring.Tally
	counted scoring.Counted
}

func NewSession(def Definition) *Session {
	return &Session{
		id:      auth.NewResponseID(),
		def:     def,
		phase:   PhaseWelcome,
		answers: map[string]string{},
		tally:   scoring.NewTally(),
		counted: scoring.Counted{},
	}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) Index() int {
	return s.index
}

func (s *Session) Len() int {
	return len(s.def.Questions)
}

func (s *Session) Definition() Definition {
	return s.def
}

func (s *Session) Tally() scoring.Tally {
	return s.tally.Clone()
}

func (s *Session) IsLast() bool {
	return s.phase == PhaseQuestion && s.index == s.Len()-1
}

func (s *Session) Current() scoring.Question {
	return s.def.Questions[s.index]
}

// AnswerFor returns the stored answer for a question id, if any
func (s *Session) AnswerFor(id string) (string, bool) {
	v, ok := s.answers[id]
	return v, ok
}

// Start moves from the welcome screen to the first question
func (s *Session) Start() error {
	if s.phase != PhaseWelcome {
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, s.phase)
	}
	s.phase = PhaseQuestion
	s.index = 0
	return nil
}

// Answer records value for the current question and updates the tally
func (s *Session) Answer(value string) error {
	if s.phase != PhaseQuestion {
		return fmt.Errorf("%w: answer in %s", ErrInvalidTransition, s.phase)
	}
	if value != models.AnswerYes && value != models.AnswerNo {
		return ErrInvalidAnswer
	}

	q := s.Current()
	s.answers[q.ID] = value
	s.tally, s.counted = scoring.Apply(s.tally, s.counted, q, value)
	return nil
}

func (s *Session) Next() error {
	if s.phase != PhaseQuestion || s.index >= s.Len()-1 {
		return fmt.Errorf("%w: next from %s %d", ErrInvalidTransition, s.phase, s.index)
	}
	s.index++
	return nil
}

func (s *Session) Previous() error {
	if s.phase != PhaseQuestion || s.index == 0 {
		return fmt.Errorf("%w: previous from %s %d", ErrInvalidTransition, s.phase, s.index)
	}
	s.index--
	return nil
}

// Submit finishes the session. It is only allowed on the last question
// once every question has an answer.
func (s *Session) Submit() error {
	if !s.IsLast() {
		return fmt.Errorf("%w: submit from %s %d", ErrInvalidTransition, s.phase, s.index)
	}
	if n := s.Unanswered(); n > 0 {
		return fmt.Errorf("%w: %d unanswered", ErrIncomplete, n)
	}
	s.phase = PhaseDone
	return nil
}

// Unanswered counts questions without an answer
func (s *Session) Unanswered() int {
	n := 0
	for _, q := range s.def.Questions {
		if _, ok := s.answers[q.ID]; !ok {
			n++
		}
	}
	return n
}

// Enter acts as Next, or Submit on the last question.
// It reports whether the session was submitted.
func (s *Session) Enter() (bool, error) {
	if s.IsLast() {
		if err := s.Submit(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, s.Next()
}

// Payload assembles the submission from the current state.
// CategoryScores come from the session tally, where a question counts once
// its first yes is seen and never uncounts. Changing a yes to no therefore
// keeps the category point while Answers and TotalYes show the final "no".
// Do not recompute the tally from Answers.
func (s *Session) Payload(meta ClientMeta) models.SurveyRequest {
	answers := make(map[string]string, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}

	scores := s.tally.Clone()
	a, b, c := scores[models.CategoryA], scores[models.CategoryB], scores[models.CategoryC]
	yes, no, total := scoring.Totals(answers)

	return models.SurveyRequest{
		ID:               s.id,
		Answers:          answers,
		CategoryScores:   scores,
		TotalScoreA:      &a,
		TotalScoreB:      &b,
		TotalScoreC:      &c,
		DominantCategory: scoring.Dominant(scores),
		TotalYes:         &yes,
		TotalNo:          &no,
		TotalQuestions:   &total,
		UserAgent:        meta.UserAgent,
		Referrer:         meta.Referrer,
		PageURL:          meta.PageURL,
	}
}
