package dto

import "github.com/noah-isme/skillcheck-go-api/internal/models"

// SubmissionRequest carries one answered challenge for evaluation. The
// challenge is echoed back by the caller because issued challenges are not
// cached server-side outside of sessions.
type SubmissionRequest struct {
	Mode          string   `json:"mode" validate:"required,oneof=adaptive multi general"`
	ChallengeText string   `json:"challenge_text" validate:"required,min=1"`
	Options       []string `json:"options" validate:"omitempty,dive,min=1"`
	Answer        string   `json:"answer" validate:"required,min=1"`
	SessionID     string   `json:"session_id" validate:"omitempty,max=64"`
}

// BatchEvaluateRequest carries several answers graded in a single model call.
type BatchEvaluateRequest struct {
	Mode  string              `json:"mode" validate:"required,oneof=adaptive multi general"`
	Items []SubmissionRequest `json:"items" validate:"required,min=1,max=20,dive"`
}

// EvaluationResponse is the wire shape of a scored answer.
type EvaluationResponse struct {
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
	Logic      *int    `json:"logic,omitempty"`
	Tone       *int    `json:"tone,omitempty"`
	IsFallback bool    `json:"is_fallback"`
}

// NewEvaluationResponse converts a domain result into its wire shape.
func NewEvaluationResponse(result models.EvaluationResult) EvaluationResponse {
	return EvaluationResponse{
		Score:      result.Score,
		Feedback:   result.Feedback,
		Logic:      result.Logic,
		Tone:       result.Tone,
		IsFallback: result.IsFallback,
	}
}

// NewEvaluationResponseSlice converts a batch of results.
func NewEvaluationResponseSlice(results []models.EvaluationResult) []EvaluationResponse {
	out := make([]EvaluationResponse, 0, len(results))
	for _, result := range results {
		out = append(out, NewEvaluationResponse(result))
	}
	return out
}
