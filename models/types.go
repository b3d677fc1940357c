package models

import "time"

// Category labels
const (
	CategoryA = "A"
	CategoryB = "B"
	CategoryC = "C"
)

// Answer values and derived labels
const (
	AnswerYes = "1"
	AnswerNo  = "2"

	DominantMixed   = "Mixed"
	DominantUnknown = "Unknown"
)

// ConfirmDeleteAll must be sent as the confirm field to clear all responses
const ConfirmDeleteAll = "YES_DELETE_ALL"

// Email delivery status constants
const (
	EmailStatusSent   = "sent"
	EmailStatusFailed = "failed"
)

// Categories lists every category label in display order
var Categories = []string{CategoryA, CategoryB, CategoryC}

// Request types

type SurveyRequest struct {
	ID               string            `json:"id,omitempty"`
	Answers          map[string]string `json:"answers"` // question_id -> choice value
	CategoryScores   map[string]int    `json:"categoryScores,omitempty"`
	TotalScoreA      *int              `json:"totalScoreA,omitempty"`
	TotalScoreB      *int              `json:"totalScoreB,omitempty"`
	TotalScoreC      *int              `json:"totalScoreC,omitempty"`
	DominantCategory string            `json:"dominantCategory,omitempty"`
	TotalYes         *int              `json:"totalYes,omitempty"`
	TotalNo          *int              `json:"totalNo,omitempty"`
	TotalQuestions   *int              `json:"totalQuestions,omitempty"`
	UserAgent        string            `json:"userAgent,omitempty"`
	Referrer         string            `json:"referrer,omitempty"`
	PageURL          string            `json:"pageUrl,omitempty"`
}

// ToResponse builds the persisted record, defaulting missing numbers to zero
func (req SurveyRequest) ToResponse(id string, now time.Time) SurveyResponse {
	rec := SurveyResponse{
		ID:               id,
		Timestamp:        now,
		Answers:          req.Answers,
		CategoryScores:   map[string]int{},
		TotalScoreA:      intOrZero(req.TotalScoreA),
		TotalScoreB:      intOrZero(req.TotalScoreB),
		TotalScoreC:      intOrZero(req.TotalScoreC),
		DominantCategory: req.DominantCategory,
		TotalYes:         intOrZero(req.TotalYes),
		TotalNo:          intOrZero(req.TotalNo),
		TotalQuestions:   intOrZero(req.TotalQuestions),
		UserAgent:        req.UserAgent,
		Referrer:         req.Referrer,
		PageURL:          req.PageURL,
	}
	for k, v := range req.CategoryScores {
		rec.CategoryScores[k] = v
	}

	// Per-category totals fall back to the category map when omitted
	if req.TotalScoreA == nil {
		rec.TotalScoreA = req.CategoryScores[CategoryA]
	}
	if req.TotalScoreB == nil {
		rec.TotalScoreB = req.CategoryScores[CategoryB]
	}
	if req.TotalScoreC == nil {
		rec.TotalScoreC = req.CategoryScores[CategoryC]
	}
	for _, c := range Categories {
		if _, ok := rec.CategoryScores[c]; !ok {
			rec.CategoryScores[c] = rec.Score(c)
		}
	}
	return rec
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

type AttachContactRequest struct {
	Email string `json:"email"`
}

type DeleteAllRequest struct {
	Confirm string `json:"confirm"`
}

type SendEmailRequest struct {
	ToEmail    string          `json:"toEmail"`
	Subject    string          `json:"subject"`
	Results    *SurveyResponse `json:"results,omitempty"`
	ResponseID string          `json:"responseId,omitempty"`
}

// Response types

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Responses int       `json:"responses"`
}

type SubmitSurveyResponse struct {
	Success          bool           `json:"success"`
	ResponseID       string         `json:"responseId"`
	Timestamp        time.Time      `json:"timestamp"`
	TotalResponses   int            `json:"totalResponses"`
	Scores           map[string]int `json:"scores"`
	DominantCategory string         `json:"dominantCategory"`
	SavedToFile      bool           `json:"savedToFile"`
	EmailSent        bool           `json:"emailSent"`
	EmailError       string         `json:"emailError,omitempty"`
}

type ListResponsesResponse struct {
	Success bool             `json:"success"`
	Data    []SurveyResponse `json:"data"`
	Count   int              `json:"count"`
}

type GetResponseResponse struct {
	Success bool           `json:"success"`
	Data    SurveyResponse `json:"data"`
}

type StatsResponse struct {
	Success bool  `json:"success"`
	Stats   Stats `json:"stats"`
}

type DeleteAllResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Deleted int    `json:"deleted"`
}

type SendEmailResponse struct {
	Success bool   `json:"success"`
	EmailID string `json:"emailId,omitempty"`
	Error   string `json:"error,omitempty"`
}

type ListEmailsResponse struct {
	Success bool          `json:"success"`
	Data    []EmailRecord `json:"data"`
	Count   int           `json:"count"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Domain types

type SurveyResponse struct {
	ID               string            `json:"id"`
	Timestamp        time.Time         `json:"timestamp"`
	Answers          map[string]string `json:"answers"`
	CategoryScores   map[string]int    `json:"categoryScores"`
	TotalScoreA      int               `json:"totalScoreA"`
	TotalScoreB      int               `json:"totalScoreB"`
	TotalScoreC      int               `json:"totalScoreC"`
	DominantCategory string            `json:"dominantCategory,omitempty"`
	TotalYes         int               `json:"totalYes"`
	TotalNo          int               `json:"totalNo"`
	TotalQuestions   int               `json:"totalQuestions"`
	UserAgent        string            `json:"userAgent,omitempty"`
	Referrer         string            `json:"referrer,omitempty"`
	PageURL          string            `json:"pageUrl,omitempty"`
	IP               string            `json:"ip,omitempty"`
	ContactEmail     string            `json:"contactEmail,omitempty"`
	LocalBackup      bool              `json:"localBackup,omitempty"`
}

// Score returns the total for a category label
func (r SurveyResponse) Score(category string) int {
	switch category {
	case CategoryA:
		return r.TotalScoreA
	case CategoryB:
		return r.TotalScoreB
	case CategoryC:
		return r.TotalScoreC
	}
	return r.CategoryScores[category]
}

type EmailRecord struct {
	ID         string    `json:"id"`
	Recipient  string    `json:"recipient"`
	Subject    string    `json:"subject"`
	ResponseID string    `json:"responseId,omitempty"`
	SentAt     time.Time `json:"sentAt"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
}

type Stats struct {
	TotalResponses     int                `json:"totalResponses"`
	AverageScores      map[string]float64 `json:"averageScores"`
	DominantCategories map[string]int     `json:"dominantCategories"`
	RecentSubmissions  []SurveyResponse   `json:"recentSubmissions"`
}

// Error response

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
