package dto

import (
	"encoding/json"
	"time"

	"github.com/noah-isme/skillcheck-go-api/internal/models"
)

// HistoryRecordResponse is the wire shape of one persisted assessment record,
// returned newest first.
type HistoryRecordResponse struct {
	ID            uint      `json:"id"`
	SessionID     string    `json:"session_id,omitempty"`
	QuestionIndex int       `json:"question_index"`
	Mode          string    `json:"mode"`
	Difficulty    string    `json:"difficulty,omitempty"`
	ChallengeText string    `json:"challenge_text"`
	Options       []string  `json:"options,omitempty"`
	Topics        []string  `json:"topics,omitempty"`
	Answer        string    `json:"answer"`
	Score         float64   `json:"score"`
	Feedback      string    `json:"feedback"`
	IsFallback    bool      `json:"is_fallback"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewHistoryRecordResponse converts a persisted record into its wire shape.
func NewHistoryRecordResponse(record models.AssessmentRecord) HistoryRecordResponse {
	response := HistoryRecordResponse{
		ID:            record.ID,
		SessionID:     record.SessionID,
		QuestionIndex: record.QuestionIndex,
		Mode:          record.Mode,
		Difficulty:    record.Difficulty,
		ChallengeText: record.ChallengeText,
		Answer:        record.Answer,
		Score:         record.Score,
		Feedback:      record.Feedback,
		IsFallback:    record.IsFallback,
		CreatedAt:     record.CreatedAt,
	}

	if len(record.Options) > 0 {
		_ = json.Unmarshal(record.Options, &response.Options)
	}
	if len(record.Topics) > 0 {
		_ = json.Unmarshal(record.Topics, &response.Topics)
	}

	return response
}

// NewHistoryRecordResponseSlice converts a list of records.
func NewHistoryRecordResponseSlice(records []models.AssessmentRecord) []HistoryRecordResponse {
	out := make([]HistoryRecordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, NewHistoryRecordResponse(record))
	}
	return out
}
