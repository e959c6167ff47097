// Package prompt builds the instruction text sent to the model. Prompt templates
// and evaluation policy live in one mode-keyed table so generation and grading
// cannot drift apart per mode.
package prompt

import (
	"fmt"
	"strings"

	"github.com/noah-isme/skillcheck-go-api/internal/models"
)

// Policy decides how a model-graded answer is scored for a mode.
type Policy string

const (
	// PolicyGraded asks the model for a 0-10 score with logic/tone sub-axes.
	PolicyGraded Policy = "graded"
	// PolicyBinary asks the model for a correct/incorrect verdict mapped to 10 or 0.
	PolicyBinary Policy = "binary"
)

// ModeSpec is one row of the mode configuration table consumed by both the
// prompt builder and the evaluation strategy.
type ModeSpec struct {
	Description string
	Kind        models.ChallengeKind
	WithOptions bool
	Policy      Policy
	ScoreMin    float64
	ScoreMax    float64
}

var specs = map[models.Mode]ModeSpec{
	models.ModeAdaptive: {
		Description: "a realistic workplace scenario requiring a short free-text answer",
		Kind:        models.KindScenario,
		WithOptions: false,
		Policy:      PolicyGraded,
		ScoreMin:    0,
		ScoreMax:    10,
	},
	models.ModeMulti: {
		Description: "a technical multiple-choice question with exactly four options",
		Kind:        models.KindMultipleChoice,
		WithOptions: true,
		Policy:      PolicyBinary,
		ScoreMin:    0,
		ScoreMax:    10,
	},
	models.ModeGeneral: {
		Description: "a concise technical question answerable in one short phrase",
		Kind:        models.KindScenario,
		WithOptions: false,
		Policy:      PolicyBinary,
		ScoreMin:    0,
		ScoreMax:    10,
	},
}

// SpecFor returns the configuration row for a mode.
func SpecFor(mode models.Mode) (ModeSpec, error) {
	spec, ok := specs[mode]
	if !ok {
		return ModeSpec{}, fmt.Errorf("unknown assessment mode %q", mode)
	}
	return spec, nil
}

// Build produces the generation prompt for count challenges of the given mode.
// The seed discourages the model from repeating earlier generations; callers
// pass a timestamp or random integer. Every prompt ends with a literal JSON
// shape example, which the response normalizer depends on.
func Build(mode models.Mode, topics []string, difficulty models.Difficulty, count int, seed int64) (string, error) {
	spec, err := SpecFor(mode)
	if err != nil {
		return "", err
	}
	if count < 1 {
		count = 1
	}

	b := strings.Builder{}
	b.WriteString("You are an expert examiner preparing an adaptive skills assessment.\n")
	fmt.Fprintf(&b, "Generate %d challenge(s), each %s.\n", count, spec.Description)
	fmt.Fprintf(&b, "Difficulty: %s.\n", difficulty)
	if len(topics) > 0 {
		fmt.Fprintf(&b, "Topics: %s.\n", strings.Join(topics, ", "))
	}
	b.WriteString("Keep each challenge under 80 words.\n")
	if spec.WithOptions {
		b.WriteString("Each challenge must include exactly four answer options with one correct option.\n")
	} else {
		b.WriteString("Do not include answer options.\n")
	}
	fmt.Fprintf(&b, "Uniqueness seed: %d. Produce challenges you have not produced before.\n", seed)
	b.WriteString("\nIMPORTANT: Return ONLY a raw JSON value. No markdown, no backticks, no extra text.\n")

	if count > 1 {
		if spec.WithOptions {
			b.WriteString(`Format: [{"text": "...", "options": ["a", "b", "c", "d"]}, {"text": "...", "options": ["a", "b", "c", "d"]}]`)
		} else {
			b.WriteString(`Format: [{"text": "..."}, {"text": "..."}]`)
		}
	} else {
		if spec.WithOptions {
			b.WriteString(`Format: {"text": "...", "options": ["a", "b", "c", "d"]}`)
		} else {
			b.WriteString(`Format: {"text": "..."}`)
		}
	}

	return b.String(), nil
}

// BuildGrading produces the grading prompt for one submitted answer.
func BuildGrading(mode models.Mode, challenge models.Challenge, answer string) (string, error) {
	spec, err := SpecFor(mode)
	if err != nil {
		return "", err
	}

	b := strings.Builder{}
	b.WriteString("You are an expert examiner.\n")
	fmt.Fprintf(&b, "Challenge: %s\n", challenge.Text)
	if len(challenge.Options) > 0 {
		fmt.Fprintf(&b, "Options: %s\n", strings.Join(challenge.Options, " | "))
	}
	fmt.Fprintf(&b, "Candidate answer: %s\n\n", answer)

	switch spec.Policy {
	case PolicyGraded:
		b.WriteString("Task: evaluate the answer for logic and professionalism. ")
		fmt.Fprintf(&b, "Give a score from %.0f to %.0f, logic and tone ratings from 1 to 100, and one short sentence of feedback.\n", spec.ScoreMin, spec.ScoreMax)
		b.WriteString("\nIMPORTANT: Return ONLY a raw JSON object. No markdown, no backticks, no extra text.\n")
		b.WriteString(`Format: {"score": 8, "logic": 72, "tone": 85, "feedback": "Your answer was very professional."}`)
	default:
		b.WriteString("Task: decide whether the answer is correct. ")
		fmt.Fprintf(&b, "Score %.0f when correct, %.0f when incorrect, and give one short sentence of feedback.\n", spec.ScoreMax, spec.ScoreMin)
		b.WriteString("\nIMPORTANT: Return ONLY a raw JSON object. No markdown, no backticks, no extra text.\n")
		b.WriteString(`Format: {"score": 10, "feedback": "Correct, box-shadow draws inner and outer shadows."}`)
	}

	return b.String(), nil
}

// GradingItem is one challenge/answer pair inside a batch grading prompt.
type GradingItem struct {
	Challenge models.Challenge
	Answer    string
}

// BuildBatchGrading produces one grading prompt covering every submission. The
// model must answer with a results array parallel to the numbered list below.
func BuildBatchGrading(mode models.Mode, items []GradingItem) (string, error) {
	spec, err := SpecFor(mode)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", fmt.Errorf("batch grading requires at least one submission")
	}

	b := strings.Builder{}
	b.WriteString("You are an expert examiner grading a batch of answers.\n\n")
	for i, item := range items {
		fmt.Fprintf(&b, "Question %d: %s\n", i+1, item.Challenge.Text)
		if len(item.Challenge.Options) > 0 {
			fmt.Fprintf(&b, "Options %d: %s\n", i+1, strings.Join(item.Challenge.Options, " | "))
		}
		fmt.Fprintf(&b, "Answer %d: %s\n\n", i+1, item.Answer)
	}

	if spec.Policy == PolicyGraded {
		fmt.Fprintf(&b, "Task: score every answer from %.0f to %.0f with one short sentence of feedback each.\n", spec.ScoreMin, spec.ScoreMax)
	} else {
		fmt.Fprintf(&b, "Task: score every answer %.0f when correct or %.0f when incorrect, with one short sentence of feedback each.\n", spec.ScoreMax, spec.ScoreMin)
	}
	fmt.Fprintf(&b, "Return exactly %d results in question order.\n", len(items))
	b.WriteString("\nIMPORTANT: Return ONLY a raw JSON array. No markdown, no backticks, no extra text.\n")
	b.WriteString(`Format: [{"score": 10, "feedback": "Correct."}, {"score": 0, "feedback": "Incorrect."}]`)

	return b.String(), nil
}
