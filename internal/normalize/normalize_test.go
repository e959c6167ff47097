package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractPlainObject(t *testing.T) {
	payload, err := Extract(`{"score": 8, "feedback": "Good answer."}`)
	require.NoError(t, err)

	var parsed struct {
		Score    int    `json:"score"`
		Feedback string `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(payload, &parsed))
	require.Equal(t, 8, parsed.Score)
	require.Equal(t, "Good answer.", parsed.Feedback)
}

func TestExtractFencedPayload(t *testing.T) {
	raw := "```json\n{\"score\": 5, \"feedback\": \"ok\"}\n```"
	payload, err := Extract(raw)
	require.NoError(t, err)
	require.JSONEq(t, `{"score": 5, "feedback": "ok"}`, string(payload))
}

func TestExtractSurroundingProse(t *testing.T) {
	raw := "Sure! Here is the evaluation you asked for:\n{\"score\": 3, \"feedback\": \"Needs work.\"}\nLet me know if you need anything else."
	payload, err := Extract(raw)
	require.NoError(t, err)
	require.JSONEq(t, `{"score": 3, "feedback": "Needs work."}`, string(payload))
}

func TestExtractArrayPayload(t *testing.T) {
	raw := "Results below.\n[{\"score\": 10}, {\"score\": 0}]"
	payload, err := Extract(raw)
	require.NoError(t, err)

	var items []map[string]float64
	require.NoError(t, json.Unmarshal(payload, &items))
	require.Len(t, items, 2)
}

func TestExtractBracesInsideStrings(t *testing.T) {
	raw := `{"feedback": "use {curly} braces carefully", "score": 7}`
	payload, err := Extract(raw)
	require.NoError(t, err)
	require.JSONEq(t, raw, string(payload))
}

func TestExtractEscapedQuotes(t *testing.T) {
	raw := `prefix {"feedback": "she said \"hello\"", "score": 6} suffix`
	payload, err := Extract(raw)
	require.NoError(t, err)

	var parsed struct {
		Feedback string `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(payload, &parsed))
	require.Equal(t, `she said "hello"`, parsed.Feedback)
}

func TestExtractNoPayload(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"the model refused to answer",
		"unbalanced { brace",
		"```\nonly prose inside a fence\n```",
	}
	for _, raw := range cases {
		_, err := Extract(raw)
		require.Error(t, err, "input %q", raw)
	}
}

func TestExtractMalformedJSON(t *testing.T) {
	_, err := Extract(`{"score": not-a-number}`)
	require.Error(t, err)
}

func TestExtractInto(t *testing.T) {
	var parsed struct {
		Score int `json:"score"`
	}
	require.NoError(t, ExtractInto("noise {\"score\": 9} noise", &parsed))
	require.Equal(t, 9, parsed.Score)
}
