package models

import (
	"time"

	"gorm.io/datatypes"
)

// AssessmentRecord is one persisted row per (session, question index): a
// denormalized snapshot of the challenge, the submitted answer and its
// evaluation. Records are append-only; the engine never updates or deletes them.
type AssessmentRecord struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	OwnerKey      string         `gorm:"size:128;not null;index" json:"owner_key"`
	SessionID     string         `gorm:"size:64;index" json:"session_id"`
	QuestionIndex int            `gorm:"not null" json:"question_index"`
	Mode          string         `gorm:"size:32;not null" json:"mode"`
	Difficulty    string         `gorm:"size:16" json:"difficulty"`
	ChallengeText string         `gorm:"type:text;not null" json:"challenge_text"`
	Options       datatypes.JSON `json:"options,omitempty"`
	Topics        datatypes.JSON `json:"topics,omitempty"`
	Answer        string         `gorm:"type:text" json:"answer"`
	Score         float64        `gorm:"not null" json:"score"`
	Feedback      string         `gorm:"type:text" json:"feedback"`
	IsFallback    bool           `gorm:"not null;default:false" json:"is_fallback"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

// Session tier labels over the mean score of a completed session.
const (
	TierDeveloping = "Developing"
	TierAdvanced   = "Advanced"
	TierSuperior   = "Superior"
)

// AssessmentSession is the persisted state of one test-taker run. Sessions are
// created on the first challenge request, appended to by each evaluate step and
// flagged terminal once the configured length is reached; they are never deleted.
type AssessmentSession struct {
	ID               string         `gorm:"primaryKey;size:64" json:"id"`
	OwnerKey         string         `gorm:"size:128;not null;index" json:"owner_key"`
	Mode             string         `gorm:"size:32;not null" json:"mode"`
	Topics           datatypes.JSON `json:"topics,omitempty"`
	Difficulty       string         `gorm:"size:16;not null" json:"difficulty"`
	Length           int            `gorm:"not null" json:"length"`
	QuestionIndex    int            `gorm:"not null;default:0" json:"question_index"`
	CumulativeScore  float64        `gorm:"not null;default:0" json:"cumulative_score"`
	CurrentChallenge datatypes.JSON `json:"current_challenge,omitempty"`
	Completed        bool           `gorm:"not null;default:false" json:"completed"`
	Tier             string         `gorm:"size:32" json:"tier,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// MeanScore returns the average score across evaluated questions so far.
func (s AssessmentSession) MeanScore() float64 {
	if s.QuestionIndex == 0 {
		return 0
	}
	return s.CumulativeScore / float64(s.QuestionIndex)
}
