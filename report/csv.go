// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-survey/models"
)

var ErrNoData = errors.New("no data")

// CSVHeader is the fixed first line of every export
var CSVHeader = []string{
	"id", "timestamp", "scoreA", "scoreB", "scoreC", "dominantCategory",
	"totalYes", "totalNo", "totalQuestions", "ip",
}

// WriteCSV writes one header line and one row per record.
// String fields are always quoted; numbers never are.
func WriteCSV(w io.Writer, records []models.SurveyResponse) error {
	if len(records) == 0 {
		return ErrNoData
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(CSVHeader, ",") + "\n"); err != nil {
		return err
	}

	for _, rec := range records {
		fields := []string{
			quote(rec.ID),
			quote(rec.Timestamp.UTC().Format(time.RFC3339)),
			strconv.Itoa(rec.TotalScoreA),
			strconv.Itoa(rec.TotalScoreB),
			strconv.Itoa(rec.TotalScoreC),
			quote(rec.DominantCategory),
			strconv.Itoa(rec.TotalYes),
			strconv.Itoa(rec.TotalNo),
			strconv.Itoa(rec.TotalQuestions),
			quote(rec.IP),
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// quote wraps s in double quotes, doubling embedded quotes.
// Newlines are flattened so every record stays on one line.
func quote(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
