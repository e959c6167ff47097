package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/skillcheck-go-api/internal/models"
)

func TestBuildEndsWithSchemaExample(t *testing.T) {
	cases := []struct {
		mode  models.Mode
		count int
		tail  string
	}{
		{models.ModeAdaptive, 1, `Format: {"text": "..."}`},
		{models.ModeAdaptive, 3, `Format: [{"text": "..."}, {"text": "..."}]`},
		{models.ModeMulti, 1, `Format: {"text": "...", "options": ["a", "b", "c", "d"]}`},
		{models.ModeGeneral, 1, `Format: {"text": "..."}`},
	}

	for _, tc := range cases {
		text, err := Build(tc.mode, []string{"css"}, models.DifficultyMedium, tc.count, 42)
		require.NoError(t, err, "mode %s", tc.mode)
		require.True(t, strings.HasSuffix(text, tc.tail), "mode %s count %d:\n%s", tc.mode, tc.count, text)
	}
}

func TestBuildEmbedsSeedTopicsAndDifficulty(t *testing.T) {
	text, err := Build(models.ModeAdaptive, []string{"sql", "indexes"}, models.DifficultyHard, 1, 987654)
	require.NoError(t, err)
	require.Contains(t, text, "987654")
	require.Contains(t, text, "sql, indexes")
	require.Contains(t, text, "hard")
}

func TestBuildUnknownMode(t *testing.T) {
	_, err := Build(models.Mode("bogus"), nil, models.DifficultyEasy, 1, 1)
	require.Error(t, err)
}

func TestBuildGradingPolicies(t *testing.T) {
	challenge := models.Challenge{Text: "Explain eventual consistency.", Kind: models.KindScenario}

	graded, err := BuildGrading(models.ModeAdaptive, challenge, "replicas converge over time")
	require.NoError(t, err)
	require.Contains(t, graded, `"logic"`)
	require.Contains(t, graded, `"tone"`)
	require.True(t, strings.Contains(graded, "Return ONLY a raw JSON object"))

	binary, err := BuildGrading(models.ModeMulti, models.Challenge{
		Text:    "Which CSS property adds a shadow?",
		Options: []string{"box-shadow", "margin"},
	}, "box-shadow")
	require.NoError(t, err)
	require.Contains(t, binary, "box-shadow | margin")
	require.NotContains(t, binary, `"logic"`)
}

func TestBuildBatchGradingNumbersEveryItem(t *testing.T) {
	items := []GradingItem{
		{Challenge: models.Challenge{Text: "Q one"}, Answer: "A one"},
		{Challenge: models.Challenge{Text: "Q two"}, Answer: "A two"},
		{Challenge: models.Challenge{Text: "Q three"}, Answer: "A three"},
	}
	text, err := BuildBatchGrading(models.ModeGeneral, items)
	require.NoError(t, err)
	require.Contains(t, text, "Question 3: Q three")
	require.Contains(t, text, "Answer 2: A two")
	require.Contains(t, text, "Return exactly 3 results")
	require.True(t, strings.HasSuffix(text, `Format: [{"score": 10, "feedback": "Correct."}, {"score": 0, "feedback": "Incorrect."}]`))
}

func TestBuildBatchGradingEmpty(t *testing.T) {
	_, err := BuildBatchGrading(models.ModeGeneral, nil)
	require.Error(t, err)
}

func TestSpecForTableConsistency(t *testing.T) {
	for _, mode := range []models.Mode{models.ModeAdaptive, models.ModeMulti, models.ModeGeneral} {
		spec, err := SpecFor(mode)
		require.NoError(t, err)
		require.Less(t, spec.ScoreMin, spec.ScoreMax)
		if spec.Policy == PolicyGraded {
			require.Equal(t, models.KindScenario, spec.Kind)
		}
	}
}
