// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"math"

	"github.com/danielhkuo/quickly-survey/models"
)

// RecentLimit is how many submissions Stats surfaces
const RecentLimit = 10

// Stats aggregates the full collection. records must be in insertion order.
func Stats(records []models.SurveyResponse) models.Stats {
	stats := models.Stats{
		TotalResponses:     len(records),
		AverageScores:      make(map[string]float64, len(models.Categories)),
		DominantCategories: map[string]int{},
		RecentSubmissions:  []models.SurveyResponse{},
	}

	for _, c := range models.Categories {
		stats.AverageScores[c] = 0
	}
	if len(records) == 0 {
		return stats
	}

	sums := make(map[string]int, len(models.Categories))
	for _, rec := range records {
		for _, c := range models.Categories {
			sums[c] += rec.Score(c)
		}

		label := rec.DominantCategory
		if label == "" {
			label = models.DominantUnknown
		}
		stats.DominantCategories[label]++
	}

	for _, c := range models.Categories {
		stats.AverageScores[c] = round2(float64(sums[c]) / float64(len(records)))
	}

	// Newest first
	for i := len(records) - 1; i >= 0 && len(stats.RecentSubmissions) < RecentLimit; i-- {
		stats.RecentSubmissions = append(stats.RecentSubmissions, records[i])
	}

	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
