package dto

import "github.com/noah-isme/skillcheck-go-api/internal/models"

// GenerateChallengeRequest asks the engine for one or more fresh challenges.
type GenerateChallengeRequest struct {
	Mode       string   `json:"mode" validate:"required,oneof=adaptive multi general"`
	Topics     []string `json:"topics" validate:"omitempty,dive,min=1,max=64"`
	Difficulty string   `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`
	Count      int      `json:"count" validate:"omitempty,gte=1,lte=10"`
}

// ChallengeResponse is the wire shape of one issued challenge.
type ChallengeResponse struct {
	Text       string   `json:"text"`
	Kind       string   `json:"kind"`
	Options    []string `json:"options,omitempty"`
	Difficulty string   `json:"difficulty"`
	Topics     []string `json:"topics,omitempty"`
	IsFallback bool     `json:"is_fallback"`
}

// NewChallengeResponse converts a domain challenge into its wire shape.
func NewChallengeResponse(challenge models.Challenge) ChallengeResponse {
	return ChallengeResponse{
		Text:       challenge.Text,
		Kind:       string(challenge.Kind),
		Options:    challenge.Options,
		Difficulty: string(challenge.Difficulty),
		Topics:     challenge.Topics,
		IsFallback: challenge.IsFallback,
	}
}

// NewChallengeResponseSlice converts a batch of challenges.
func NewChallengeResponseSlice(challenges []models.Challenge) []ChallengeResponse {
	out := make([]ChallengeResponse, 0, len(challenges))
	for _, challenge := range challenges {
		out = append(out, NewChallengeResponse(challenge))
	}
	return out
}
