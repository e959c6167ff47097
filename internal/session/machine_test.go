package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/skillcheck-go-api/internal/models"
)

func TestMachineCompletesAfterConfiguredLength(t *testing.T) {
	m := New(10, models.DifficultyEasy)

	for i := 0; i < 10; i++ {
		require.Equal(t, i, m.Index())
		require.NoError(t, m.IssueChallenge())
		outcome, err := m.RecordResult(8)
		require.NoError(t, err)
		if i < 9 {
			require.False(t, outcome.Completed)
		} else {
			require.True(t, outcome.Completed)
		}
	}

	require.Equal(t, PhaseCompleted, m.Phase())

	// Completed is absorbing: an eleventh cycle is rejected.
	require.ErrorIs(t, m.IssueChallenge(), ErrCompleted)
	_, err := m.RecordResult(5)
	require.ErrorIs(t, err, ErrCompleted)
}

func TestMachineThresholdPolicy(t *testing.T) {
	cases := []struct {
		current models.Difficulty
		score   float64
		next    models.Difficulty
	}{
		{models.DifficultyMedium, 8, models.DifficultyHard},
		{models.DifficultyMedium, 7, models.DifficultyHard},
		{models.DifficultyMedium, 5, models.DifficultyMedium},
		{models.DifficultyMedium, 4, models.DifficultyMedium},
		{models.DifficultyMedium, 2, models.DifficultyEasy},
		{models.DifficultyHard, 10, models.DifficultyHard},
		{models.DifficultyEasy, 0, models.DifficultyEasy},
	}
	for _, tc := range cases {
		require.Equal(t, tc.next, NextDifficulty(tc.current, tc.score),
			"current=%s score=%v", tc.current, tc.score)
	}
}

func TestMachineAdvanceAppliesThresholds(t *testing.T) {
	m := New(10, models.DifficultyMedium)

	require.NoError(t, m.IssueChallenge())
	outcome, err := m.RecordResult(8)
	require.NoError(t, err)
	require.Equal(t, models.DifficultyHard, outcome.NextDifficulty)

	require.NoError(t, m.IssueChallenge())
	outcome, err = m.RecordResult(2)
	require.NoError(t, err)
	require.Equal(t, models.DifficultyMedium, outcome.NextDifficulty)
	require.Equal(t, 2, m.Index())
}

func TestMachineOrderingGuards(t *testing.T) {
	m := New(5, models.DifficultyEasy)

	_, err := m.RecordResult(5)
	require.ErrorIs(t, err, ErrNoChallengeIssued)

	require.NoError(t, m.IssueChallenge())
	require.ErrorIs(t, m.IssueChallenge(), ErrChallengeOutstanding)
}

func TestMachineFinalAggregate(t *testing.T) {
	m := New(2, models.DifficultyEasy)

	require.NoError(t, m.IssueChallenge())
	_, err := m.RecordResult(10)
	require.NoError(t, err)

	require.NoError(t, m.IssueChallenge())
	outcome, err := m.RecordResult(6)
	require.NoError(t, err)

	require.True(t, outcome.Completed)
	require.InDelta(t, 8.0, outcome.MeanScore, 1e-9)
	require.Equal(t, models.TierSuperior, outcome.Tier)
}

func TestTierThresholds(t *testing.T) {
	require.Equal(t, models.TierDeveloping, TierFor(3.9))
	require.Equal(t, models.TierAdvanced, TierFor(4))
	require.Equal(t, models.TierAdvanced, TierFor(6.9))
	require.Equal(t, models.TierSuperior, TierFor(7))
}

func TestNewDefaults(t *testing.T) {
	m := New(0, models.Difficulty("weird"))
	require.Equal(t, 10, m.Length())
	require.Equal(t, models.DifficultyEasy, m.Difficulty())
	require.Equal(t, PhaseAwaitingChallenge, m.Phase())
}

func TestResume(t *testing.T) {
	m := Resume(10, 4, 22, models.DifficultyHard, true, false)
	require.Equal(t, PhaseAwaitingAnswer, m.Phase())
	require.Equal(t, 4, m.Index())

	outcome, err := m.RecordResult(3)
	require.NoError(t, err)
	require.Equal(t, models.DifficultyMedium, outcome.NextDifficulty)

	done := Resume(10, 10, 70, models.DifficultyHard, false, true)
	require.ErrorIs(t, done.IssueChallenge(), ErrCompleted)
}
