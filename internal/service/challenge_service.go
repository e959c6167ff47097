package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/skillcheck-go-api/internal/bank"
	"github.com/noah-isme/skillcheck-go-api/internal/dto"
	"github.com/noah-isme/skillcheck-go-api/internal/fault"
	"github.com/noah-isme/skillcheck-go-api/internal/models"
	"github.com/noah-isme/skillcheck-go-api/internal/normalize"
	"github.com/noah-isme/skillcheck-go-api/internal/observability"
	"github.com/noah-isme/skillcheck-go-api/internal/prompt"
	"github.com/noah-isme/skillcheck-go-api/pkg/ai"
)

// ChallengeService generates fresh challenges via the model, falling back to
// the local question bank when the model path fails. Fallback challenges are
// flagged so downstream consumers can distinguish degraded responses.
type ChallengeService interface {
	Generate(ctx context.Context, payload dto.GenerateChallengeRequest) ([]models.Challenge, error)
	GenerateOne(ctx context.Context, mode models.Mode, topics []string, difficulty models.Difficulty) (models.Challenge, error)
}

type challengeService struct {
	gateway   ai.Gateway
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
	seed      func() int64
}

// NewChallengeService constructs the challenge generation service.
func NewChallengeService(gateway ai.Gateway, validate *validator.Validate, logger zerolog.Logger) ChallengeService {
	return &challengeService{
		gateway:   gateway,
		validator: validate,
		logger:    logger.With().Str("component", "challenge_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/skillcheck-go-api/internal/service/challenge"),
		seed:      func() int64 { return time.Now().UnixNano() },
	}
}

// generatedChallenge is the schema the generation prompt instructs the model to emit.
type generatedChallenge struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

func (s *challengeService) Generate(ctx context.Context, payload dto.GenerateChallengeRequest) ([]models.Challenge, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	mode := models.Mode(payload.Mode)
	difficulty := models.Difficulty(payload.Difficulty)
	if !difficulty.Valid() {
		difficulty = models.DifficultyEasy
	}
	count := payload.Count
	if count < 1 {
		count = 1
	}

	ctx, span := s.tracer.Start(ctx, "challenge.generate", trace.WithAttributes(
		attribute.String("assessment.mode", string(mode)),
		attribute.String("assessment.difficulty", string(difficulty)),
		attribute.Int("assessment.count", count),
	))
	defer span.End()

	challenges, err := s.fromModel(ctx, mode, payload.Topics, difficulty, count)
	if err != nil {
		span.RecordError(err)
		s.logger.Warn().Err(err).
			Str("mode", string(mode)).
			Msg("model generation failed, serving fallback from question bank")
		observability.Fallbacks().WithLabelValues(string(mode), reasonFor(err)).Inc()
		return s.fromBank(mode, count), nil
	}

	observability.Generations().WithLabelValues(string(mode), "model").Inc()
	return challenges, nil
}

func (s *challengeService) GenerateOne(ctx context.Context, mode models.Mode, topics []string, difficulty models.Difficulty) (models.Challenge, error) {
	challenges, err := s.Generate(ctx, dto.GenerateChallengeRequest{
		Mode:       string(mode),
		Topics:     topics,
		Difficulty: string(difficulty),
		Count:      1,
	})
	if err != nil {
		return models.Challenge{}, err
	}
	return challenges[0], nil
}

func (s *challengeService) fromModel(ctx context.Context, mode models.Mode, topics []string, difficulty models.Difficulty, count int) ([]models.Challenge, error) {
	spec, err := prompt.SpecFor(mode)
	if err != nil {
		return nil, err
	}

	promptText, err := prompt.Build(mode, topics, difficulty, count, s.seed())
	if err != nil {
		return nil, err
	}

	raw, err := s.gateway.Complete(ctx, promptText)
	if err != nil {
		return nil, fault.Transport(err)
	}

	generated, err := parseGenerated(raw, count)
	if err != nil {
		return nil, fault.Normalization(err.Error(), err)
	}

	challenges := make([]models.Challenge, 0, count)
	for _, item := range generated {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			return nil, fault.Normalization("generated challenge has empty text", errEmptyChallengeText)
		}
		if spec.WithOptions && len(item.Options) < 2 {
			return nil, fault.Normalization("generated challenge lacks answer options", errMissingOptions)
		}
		challenge := models.Challenge{
			Text:       text,
			Kind:       spec.Kind,
			Difficulty: difficulty,
			Topics:     topics,
		}
		if spec.WithOptions {
			challenge.Options = item.Options
		}
		challenges = append(challenges, challenge)
	}

	return challenges, nil
}

// parseGenerated accepts either a single object or an array, tolerating a model
// that wraps a count=1 result in a one-element array.
func parseGenerated(raw string, count int) ([]generatedChallenge, error) {
	payload, err := normalize.Extract(raw)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(string(payload))
	if strings.HasPrefix(trimmed, "[") {
		var items []generatedChallenge
		if err := normalize.ExtractInto(trimmed, &items); err != nil {
			return nil, err
		}
		if len(items) != count {
			return nil, errGenerationCountMismatch
		}
		return items, nil
	}

	if count != 1 {
		return nil, errGenerationCountMismatch
	}

	var item generatedChallenge
	if err := normalize.ExtractInto(trimmed, &item); err != nil {
		return nil, err
	}
	return []generatedChallenge{item}, nil
}

func (s *challengeService) fromBank(mode models.Mode, count int) []models.Challenge {
	challenges := make([]models.Challenge, 0, count)
	for i := 0; i < count; i++ {
		challenges = append(challenges, bank.Lookup(mode))
	}
	observability.Generations().WithLabelValues(string(mode), "fallback").Inc()
	return challenges
}
