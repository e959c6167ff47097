// Package session implements the pure assessment session state machine:
// AwaitingChallenge(i) -> AwaitingAnswer(i) -> Evaluated(i) -> AwaitingChallenge(i+1) | Completed.
// The next difficulty is always computed locally from score thresholds; the
// model never directs session progression.
package session

import (
	"errors"

	"github.com/noah-isme/skillcheck-go-api/internal/models"
)

// Phase is the observable state of a session run.
type Phase string

const (
	PhaseAwaitingChallenge Phase = "awaiting_challenge"
	PhaseAwaitingAnswer    Phase = "awaiting_answer"
	PhaseCompleted         Phase = "completed"
)

// Score thresholds for the local difficulty policy.
const (
	escalateThreshold    = 7
	holdThreshold        = 4
	superiorThreshold    = 7
	advancedThreshold    = 4
	defaultSessionLength = 10
)

var (
	// ErrCompleted is returned when a terminal session receives further input.
	ErrCompleted = errors.New("session already completed")
	// ErrNoChallengeIssued is returned when an answer arrives with no challenge outstanding.
	ErrNoChallengeIssued = errors.New("no challenge outstanding for this session")
	// ErrChallengeOutstanding is returned when a challenge is requested twice without an answer.
	ErrChallengeOutstanding = errors.New("challenge already issued and awaiting an answer")
)

// Machine tracks question index, cumulative score and the next difficulty for
// one session. The zero value is not usable; construct with New.
type Machine struct {
	length     int
	index      int
	cumulative float64
	difficulty models.Difficulty
	phase      Phase
}

// New starts a machine at AwaitingChallenge(0) with the given starting
// difficulty. Non-positive lengths fall back to the default of ten questions;
// invalid difficulties start at easy.
func New(length int, start models.Difficulty) *Machine {
	if length <= 0 {
		length = defaultSessionLength
	}
	if !start.Valid() {
		start = models.DifficultyEasy
	}
	return &Machine{
		length:     length,
		difficulty: start,
		phase:      PhaseAwaitingChallenge,
	}
}

// Resume rebuilds a machine from persisted session state.
func Resume(length, index int, cumulative float64, difficulty models.Difficulty, awaitingAnswer, completed bool) *Machine {
	m := New(length, difficulty)
	m.index = index
	m.cumulative = cumulative
	switch {
	case completed:
		m.phase = PhaseCompleted
	case awaitingAnswer:
		m.phase = PhaseAwaitingAnswer
	}
	return m
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Index returns the zero-based index of the question in flight or up next.
func (m *Machine) Index() int { return m.index }

// Difficulty returns the difficulty the next challenge should use.
func (m *Machine) Difficulty() models.Difficulty { return m.difficulty }

// Cumulative returns the summed score over evaluated questions.
func (m *Machine) Cumulative() float64 { return m.cumulative }

// Length returns the configured session length.
func (m *Machine) Length() int { return m.length }

// IssueChallenge transitions AwaitingChallenge -> AwaitingAnswer.
func (m *Machine) IssueChallenge() error {
	switch m.phase {
	case PhaseCompleted:
		return ErrCompleted
	case PhaseAwaitingAnswer:
		return ErrChallengeOutstanding
	}
	m.phase = PhaseAwaitingAnswer
	return nil
}

// Outcome summarises the transition taken after an answer was evaluated.
type Outcome struct {
	Completed      bool
	NextDifficulty models.Difficulty
	MeanScore      float64
	Tier           string
}

// RecordResult consumes the evaluation for the outstanding question and either
// advances to the next index with a threshold-adjusted difficulty or, when the
// configured length is reached, completes the session with its final aggregate.
// Completed is absorbing.
func (m *Machine) RecordResult(score float64) (Outcome, error) {
	switch m.phase {
	case PhaseCompleted:
		return Outcome{}, ErrCompleted
	case PhaseAwaitingChallenge:
		return Outcome{}, ErrNoChallengeIssued
	}

	m.cumulative += score
	m.index++

	if m.index >= m.length {
		m.phase = PhaseCompleted
		mean := m.cumulative / float64(m.length)
		return Outcome{
			Completed: true,
			MeanScore: mean,
			Tier:      TierFor(mean),
		}, nil
	}

	m.difficulty = NextDifficulty(m.difficulty, score)
	m.phase = PhaseAwaitingChallenge
	return Outcome{NextDifficulty: m.difficulty}, nil
}

// NextDifficulty applies the threshold policy: scores of seven and above
// escalate a tier, four and above hold, anything lower de-escalates.
func NextDifficulty(current models.Difficulty, score float64) models.Difficulty {
	switch {
	case score >= escalateThreshold:
		return current.Escalate()
	case score >= holdThreshold:
		return current
	default:
		return current.DeEscalate()
	}
}

// TierFor maps the final mean score to the categorical session tier.
func TierFor(mean float64) string {
	switch {
	case mean >= superiorThreshold:
		return models.TierSuperior
	case mean >= advancedThreshold:
		return models.TierAdvanced
	default:
		return models.TierDeveloping
	}
}
