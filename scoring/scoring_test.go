// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scoring

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/danielhkuo/quickly-survey/models"
)

var testQuestions = []Question{
	{ID: "q1", Category: "A"},
	{ID: "q2", Category: "A"},
	{ID: "q3", Category: "B"},
	{ID: "q4", Category: "C"},
	{ID: "q5", Category: "A"},
}

func TestApply_CountsOncePerQuestion(t *testing.T) {
	tally, counted := NewTally(), Counted{}

	for i := 0; i < 5; i++ {
		tally, counted = Apply(tally, counted, testQuestions[0], models.AnswerYes)
	}

	assert.Equal(t, 1, tally["A"])
	assert.True(t, counted["q1"])
}

func TestApply_DoesNotMutateInputs(t *testing.T) {
	tally, counted := NewTally(), Counted{}

	next, nextCounted := Apply(tally, counted, testQuestions[2], models.AnswerYes)

	assert.Equal(t, 0, tally["B"], "input tally must be unchanged")
	assert.Empty(t, counted, "input counted set must be unchanged")
	assert.Equal(t, 1, next["B"])
	assert.True(t, nextCounted["q3"])
}

func TestApply_IgnoresNonPositive(t *testing.T) {
	tests := []struct {
		name   string
		answer string
	}{
		{"no", models.AnswerNo},
		{"zero", "0"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tally, counted := Apply(NewTally(), Counted{}, testQuestions[0], tt.answer)
			assert.Equal(t, 0, tally["A"])
			assert.False(t, counted["q1"])
		})
	}
}

func TestApply_NoThenYesCounts(t *testing.T) {
	tally, counted := Apply(NewTally(), Counted{}, testQuestions[0], models.AnswerNo)
	tally, counted = Apply(tally, counted, testQuestions[0], models.AnswerYes)
	tally, _ = Apply(tally, counted, testQuestions[0], models.AnswerYes)

	assert.Equal(t, 1, tally["A"])
}

func TestDominant(t *testing.T) {
	tests := []struct {
		name  string
		tally Tally
		want  string
	}{
		{"single leader", Tally{"A": 3, "B": 1, "C": 1}, "A"},
		{"leader C", Tally{"A": 0, "B": 1, "C": 4}, "C"},
		{"two-way tie", Tally{"A": 2, "B": 2, "C": 0}, models.DominantMixed},
		{"three-way tie", Tally{"A": 1, "B": 1, "C": 1}, models.DominantMixed},
		{"all zero", NewTally(), models.DominantMixed},
		{"empty", Tally{}, models.DominantMixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Dominant(tt.tally))
		})
	}
}

func TestTotals(t *testing.T) {
	yes, no, total := Totals(map[string]string{"q1": "1", "q2": "2", "q3": "1", "q4": "0"})

	assert.Equal(t, 2, yes)
	assert.Equal(t, 1, no)
	assert.Equal(t, 4, total)
}

func TestScore(t *testing.T) {
	answers := map[string]string{
		"q1":    "1",
		"q2":    "1",
		"q3":    "1",
		"q4":    "2",
		"q5":    "2",
		"extra": "1",
	}

	got := Score(testQuestions, answers)

	want := Result{
		Tally:          Tally{"A": 2, "B": 1, "C": 0},
		Dominant:       "A",
		TotalYes:       4,
		TotalNo:        2,
		TotalQuestions: 6,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Score mismatch (-want +got):\n%s", diff)
	}
}
