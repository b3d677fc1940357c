// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-survey/models"
)

func rec(id string, a, b, c int, dominant string) models.SurveyResponse {
	return models.SurveyResponse{
		ID:               id,
		Timestamp:        time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
		TotalScoreA:      a,
		TotalScoreB:      b,
		TotalScoreC:      c,
		DominantCategory: dominant,
		TotalYes:         a + b + c,
		TotalNo:          1,
		TotalQuestions:   a + b + c + 1,
	}
}

func TestStats_Empty(t *testing.T) {
	stats := Stats(nil)

	assert.Equal(t, 0, stats.TotalResponses)
	assert.Equal(t, map[string]float64{"A": 0, "B": 0, "C": 0}, stats.AverageScores)
	assert.Empty(t, stats.DominantCategories)
	assert.NotNil(t, stats.RecentSubmissions)
	assert.Empty(t, stats.RecentSubmissions)
}

func TestStats_AveragesAndBuckets(t *testing.T) {
	records := []models.SurveyResponse{
		rec("r1", 3, 1, 1, "A"),
		rec("r2", 1, 1, 0, models.DominantMixed),
		rec("r3", 0, 0, 2, "C"),
		rec("r4", 1, 0, 0, ""),
	}

	stats := Stats(records)

	assert.Equal(t, 4, stats.TotalResponses)
	assert.Equal(t, 1.25, stats.AverageScores["A"])
	assert.Equal(t, 0.5, stats.AverageScores["B"])
	assert.Equal(t, 0.75, stats.AverageScores["C"])
	assert.Equal(t, map[string]int{
		"A":                    1,
		"C":                    1,
		models.DominantMixed:   1,
		models.DominantUnknown: 1,
	}, stats.DominantCategories)
}

func TestStats_RoundsToTwoDecimals(t *testing.T) {
	records := []models.SurveyResponse{
		rec("r1", 1, 0, 0, "A"),
		rec("r2", 0, 0, 0, ""),
		rec("r3", 0, 0, 0, ""),
	}

	stats := Stats(records)

	assert.Equal(t, 0.33, stats.AverageScores["A"])
}

func TestStats_RecentNewestFirst(t *testing.T) {
	var records []models.SurveyResponse
	for i := 0; i < 15; i++ {
		records = append(records, rec(fmt.Sprintf("r%02d", i), 1, 0, 0, "A"))
	}

	stats := Stats(records)

	require.Len(t, stats.RecentSubmissions, RecentLimit)
	assert.Equal(t, "r14", stats.RecentSubmissions[0].ID)
	assert.Equal(t, "r05", stats.RecentSubmissions[RecentLimit-1].ID)
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, nil)

	assert.ErrorIs(t, err, ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestWriteCSV_LinesAndQuoting(t *testing.T) {
	records := []models.SurveyResponse{
		rec("r1", 3, 1, 1, "A"),
		rec(`we"ird`, 0, 2, 2, models.DominantMixed),
		rec("r3", 0, 0, 1, "C"),
	}
	records[0].IP = "198.51.100.1"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, len(records)+1)

	assert.Equal(t, "id,timestamp,scoreA,scoreB,scoreC,dominantCategory,totalYes,totalNo,totalQuestions,ip", lines[0])
	assert.Equal(t, `"r1","2025-01-02T03:04:05Z",3,1,1,"A",5,1,6,"198.51.100.1"`, lines[1])
	assert.Contains(t, lines[2], `"we""ird"`)
	assert.True(t, strings.HasSuffix(lines[3], `,""`), "missing ip is an empty quoted field")

	// Output must be readable by a standard CSV parser
	parsed, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `we"ird`, parsed[2][0])
}

func TestWriteCSV_FlattensNewlines(t *testing.T) {
	r := rec("r1", 1, 0, 0, "A")
	r.IP = "line1\nline2"

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []models.SurveyResponse{r}))

	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
}
