package models

// Mode selects the assessment flavour and, with it, the prompt template and
// evaluation policy applied to answers.
type Mode string

const (
	// ModeAdaptive presents free-text scenario challenges graded 0-10 by the model.
	ModeAdaptive Mode = "adaptive"
	// ModeMulti presents multiple-choice challenges graded binary.
	ModeMulti Mode = "multi"
	// ModeGeneral mixes scenario and choice challenges, graded binary.
	ModeGeneral Mode = "general"
)

// Valid reports whether the mode is one of the supported assessment modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeAdaptive, ModeMulti, ModeGeneral:
		return true
	}
	return false
}

// ChallengeKind distinguishes scenario prompts from multiple-choice questions.
type ChallengeKind string

const (
	KindScenario       ChallengeKind = "scenario"
	KindMultipleChoice ChallengeKind = "multiple-choice"
)

// Difficulty is the three-tier challenge difficulty ladder.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether the difficulty is a known tier.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Escalate moves one tier up, saturating at hard.
func (d Difficulty) Escalate() Difficulty {
	switch d {
	case DifficultyEasy:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// DeEscalate moves one tier down, saturating at easy.
func (d Difficulty) DeEscalate() Difficulty {
	switch d {
	case DifficultyHard:
		return DifficultyMedium
	default:
		return DifficultyEasy
	}
}

// Challenge is one question or scenario issued to a test-taker. A challenge is
// immutable once issued; IsFallback marks challenges drawn from the local bank
// when the model path was unavailable or unparsable.
type Challenge struct {
	Text       string        `json:"text"`
	Kind       ChallengeKind `json:"kind"`
	Options    []string      `json:"options,omitempty"`
	Difficulty Difficulty    `json:"difficulty"`
	Topics     []string      `json:"topics,omitempty"`
	IsFallback bool          `json:"is_fallback"`
}

// EvaluationResult is the canonical outcome of scoring one answer. Score is
// always within 0-10; Logic and Tone are optional 1-100 sub-axes produced only
// by adaptive-mode grading. IsFallback marks scores produced by the local
// exact-match path rather than the model.
type EvaluationResult struct {
	Score      float64 `json:"score"`
	Feedback   string  `json:"feedback"`
	Logic      *int    `json:"logic,omitempty"`
	Tone       *int    `json:"tone,omitempty"`
	IsFallback bool    `json:"is_fallback"`
}

// Submission pairs an issued challenge with the answer a test-taker gave it.
type Submission struct {
	Challenge Challenge
	Answer    string
	OwnerKey  string
	SessionID string
}
