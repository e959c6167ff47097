package dto

import (
	"encoding/json"

	"github.com/noah-isme/skillcheck-go-api/internal/models"
)

// SessionStartRequest opens a new assessment session and returns its first challenge.
type SessionStartRequest struct {
	Mode       string   `json:"mode" validate:"required,oneof=adaptive multi general"`
	Topics     []string `json:"topics" validate:"omitempty,dive,min=1,max=64"`
	Difficulty string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Length     int      `json:"length" validate:"omitempty,gte=1,lte=50"`
}

// SessionAnswerRequest submits the answer to the session's outstanding challenge.
type SessionAnswerRequest struct {
	Answer string `json:"answer" validate:"required,min=1"`
}

// SessionSummary reports the final aggregate of a completed session.
type SessionSummary struct {
	MeanScore float64 `json:"mean_score"`
	Tier      string  `json:"tier"`
}

// SessionResponse is the wire shape of session state returned after start and
// after each advance. NextChallenge is nil once the session is completed.
type SessionResponse struct {
	ID            string              `json:"id"`
	Mode          string              `json:"mode"`
	Difficulty    string              `json:"difficulty"`
	Length        int                 `json:"length"`
	QuestionIndex int                 `json:"question_index"`
	Completed     bool                `json:"completed"`
	Result        *EvaluationResponse `json:"result,omitempty"`
	NextChallenge *ChallengeResponse  `json:"next_challenge,omitempty"`
	Summary       *SessionSummary     `json:"summary,omitempty"`
}

// NewSessionResponse builds the session wire shape from persisted state.
func NewSessionResponse(session models.AssessmentSession) SessionResponse {
	response := SessionResponse{
		ID:            session.ID,
		Mode:          session.Mode,
		Difficulty:    session.Difficulty,
		Length:        session.Length,
		QuestionIndex: session.QuestionIndex,
		Completed:     session.Completed,
	}

	if session.Completed {
		response.Summary = &SessionSummary{
			MeanScore: session.MeanScore(),
			Tier:      session.Tier,
		}
		return response
	}

	if len(session.CurrentChallenge) > 0 {
		var challenge models.Challenge
		if err := json.Unmarshal(session.CurrentChallenge, &challenge); err == nil {
			next := NewChallengeResponse(challenge)
			response.NextChallenge = &next
		}
	}

	return response
}
