// Package bank holds the static fallback question pools. The bank guarantees the
// engine is never fully blocked by model unavailability, at the cost of reduced
// question diversity during outages. Pools are fixed at build time and read-only
// afterwards, so concurrent lookups need no synchronization.
package bank

import (
	"math/rand/v2"
	"strings"

	"github.com/noah-isme/skillcheck-go-api/internal/models"
)

// Entry couples a fallback challenge with its canonical answer.
type Entry struct {
	Challenge models.Challenge
	Answer    string
}

var pools = map[models.Mode][]Entry{
	models.ModeAdaptive: {
		{
			Challenge: models.Challenge{
				Text:       "A customer is angry because their food arrived cold. What do you say?",
				Kind:       models.KindScenario,
				Difficulty: models.DifficultyEasy,
				Topics:     []string{"customer-service"},
			},
			Answer: "apologize",
		},
		{
			Challenge: models.Challenge{
				Text:       "A teammate keeps missing deadlines and the sprint is at risk. How do you raise it with them?",
				Kind:       models.KindScenario,
				Difficulty: models.DifficultyMedium,
				Topics:     []string{"communication"},
			},
			Answer: "talk to them directly",
		},
		{
			Challenge: models.Challenge{
				Text:       "Your manager asks you to ship a feature you believe has a serious security flaw. What do you do?",
				Kind:       models.KindScenario,
				Difficulty: models.DifficultyHard,
				Topics:     []string{"ethics", "security"},
			},
			Answer: "escalate the risk",
		},
	},
	models.ModeMulti: {
		{
			Challenge: models.Challenge{
				Text:       "Which CSS property adds an inner or outer shadow to an element?",
				Kind:       models.KindMultipleChoice,
				Options:    []string{"box-shadow", "margin", "text-decoration", "outline"},
				Difficulty: models.DifficultyEasy,
				Topics:     []string{"css"},
			},
			Answer: "box-shadow",
		},
		{
			Challenge: models.Challenge{
				Text:       "Which HTTP status code indicates that a resource was created?",
				Kind:       models.KindMultipleChoice,
				Options:    []string{"200", "201", "301", "404"},
				Difficulty: models.DifficultyEasy,
				Topics:     []string{"http"},
			},
			Answer: "201",
		},
		{
			Challenge: models.Challenge{
				Text:       "Which data structure gives O(1) average lookup by key?",
				Kind:       models.KindMultipleChoice,
				Options:    []string{"linked list", "hash map", "binary tree", "stack"},
				Difficulty: models.DifficultyMedium,
				Topics:     []string{"data-structures"},
			},
			Answer: "hash map",
		},
	},
	models.ModeGeneral: {
		{
			Challenge: models.Challenge{
				Text:       "Name the SQL keyword used to remove duplicate rows from a result set.",
				Kind:       models.KindScenario,
				Difficulty: models.DifficultyEasy,
				Topics:     []string{"sql"},
			},
			Answer: "distinct",
		},
		{
			Challenge: models.Challenge{
				Text:       "Which Git command moves your current branch pointer to another commit without touching the working tree?",
				Kind:       models.KindMultipleChoice,
				Options:    []string{"git reset --soft", "git checkout", "git revert", "git merge"},
				Difficulty: models.DifficultyMedium,
				Topics:     []string{"git"},
			},
			Answer: "git reset --soft",
		},
	},
}

// Lookup draws a random fallback challenge for the mode, with replacement.
// The returned challenge is always flagged as a fallback. Unknown modes draw
// from the general pool.
func Lookup(mode models.Mode) models.Challenge {
	pool, ok := pools[mode]
	if !ok || len(pool) == 0 {
		pool = pools[models.ModeGeneral]
	}

	challenge := pool[rand.IntN(len(pool))].Challenge
	challenge.IsFallback = true
	if len(challenge.Options) > 0 {
		challenge.Options = append([]string(nil), challenge.Options...)
	}
	if len(challenge.Topics) > 0 {
		challenge.Topics = append([]string(nil), challenge.Topics...)
	}
	return challenge
}

// FindByText returns the bank entry whose challenge text matches verbatim.
// Linear scan; the pools are small and static.
func FindByText(text string) (Entry, bool) {
	for _, pool := range pools {
		for _, entry := range pool {
			if entry.Challenge.Text == text {
				return entry, true
			}
		}
	}
	return Entry{}, false
}

// Match reports whether the submission contains the canonical answer for the
// given challenge text, compared case-insensitively by substring containment.
func Match(challengeText, answer string) bool {
	entry, ok := FindByText(challengeText)
	if !ok {
		return false
	}
	return strings.Contains(
		strings.ToLower(answer),
		strings.ToLower(entry.Answer),
	)
}
