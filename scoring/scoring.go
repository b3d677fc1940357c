// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"sort"

	"github.com/danielhkuo/quickly-survey/models"
)

// Question is the scoring view of a questionnaire item
type Question struct {
	ID       string `json:"id" yaml:"id"`
	Text     string `json:"text" yaml:"text"`
	Category string `json:"category" yaml:"category"`
}

// Tally maps a category label to the number of positive answers
type Tally map[string]int

// Counted records which question IDs have already contributed to a Tally
type Counted map[string]bool

// Result is the full scoring of one answer set
type Result struct {
	Tally          Tally
	Dominant       string
	TotalYes       int
	TotalNo        int
	TotalQuestions int
}

// NewTally returns a tally with every known category at zero
func NewTally() Tally {
	t := make(Tally, len(models.Categories))
	for _, c := range models.Categories {
		t[c] = 0
	}
	return t
}

// Clone copies the tally
func (t Tally) Clone() Tally {
	out := make(Tally, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Apply returns the tally and counted set after answering q.
// Inputs are never mutated. A question increments its category at most once
// per counted set, and only when the answer is the positive value.
func Apply(t Tally, counted Counted, q Question, answer string) (Tally, Counted) {
	nextTally := t.Clone()
	nextCounted := make(Counted, len(counted)+1)
	for k, v := range counted {
		nextCounted[k] = v
	}

	if answer != models.AnswerYes || nextCounted[q.ID] {
		return nextTally, nextCounted
	}

	nextTally[q.Category]++
	nextCounted[q.ID] = true
	return nextTally, nextCounted
}

// Dominant returns the category with the highest tally, or DominantMixed
// when two or more categories share the maximum.
func Dominant(t Tally) string {
	if len(t) == 0 {
		return models.DominantMixed
	}

	labels := make([]string, 0, len(t))
	for k := range t {
		labels = append(labels, k)
	}
	sort.Strings(labels)

	top := t[labels[0]]
	for _, l := range labels[1:] {
		if t[l] > top {
			top = t[l]
		}
	}

	var leaders []string
	for _, l := range labels {
		if t[l] == top {
			leaders = append(leaders, l)
		}
	}
	if len(leaders) != 1 {
		return models.DominantMixed
	}
	return leaders[0]
}

// Totals counts yes answers, no answers and answered questions
func Totals(answers map[string]string) (yes, no, total int) {
	for _, v := range answers {
		switch v {
		case models.AnswerYes:
			yes++
		case models.AnswerNo:
			no++
		}
	}
	return yes, no, len(answers)
}

// Score tallies a complete answer set against the question list.
// Answers for unknown question IDs count toward the totals but not the tally.
func Score(questions []Question, answers map[string]string) Result {
	tally := NewTally()
	counted := Counted{}
	for _, q := range questions {
		if v, ok := answers[q.ID]; ok {
			tally, counted = Apply(tally, counted, q, v)
		}
	}

	yes, no, total := Totals(answers)
	return Result{
		Tally:          tally,
		Dominant:       Dominant(tally),
		TotalYes:       yes,
		TotalNo:        no,
		TotalQuestions: total,
	}
}
