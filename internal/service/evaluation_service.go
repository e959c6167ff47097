package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/noah-isme/skillcheck-go-api/internal/bank"
	"github.com/noah-isme/skillcheck-go-api/internal/dto"
	"github.com/noah-isme/skillcheck-go-api/internal/fault"
	"github.com/noah-isme/skillcheck-go-api/internal/models"
	"github.com/noah-isme/skillcheck-go-api/internal/normalize"
	"github.com/noah-isme/skillcheck-go-api/internal/observability"
	"github.com/noah-isme/skillcheck-go-api/internal/prompt"
	"github.com/noah-isme/skillcheck-go-api/pkg/ai"
)

// Feedback strings for the local exact-match path.
const (
	matchFeedback    = "Excellent. Correct."
	mismatchFeedback = "Incorrect. The anticipated answer was: %s."
)

// EvaluationService scores submitted answers. Answers to challenges that exist
// verbatim in the local question bank are matched locally without a model call;
// everything else is graded by the model under the mode's grading contract. A
// model response without a usable score is surfaced as a failure, never turned
// into a silent zero.
type EvaluationService interface {
	Evaluate(ctx context.Context, payload dto.SubmissionRequest, ownerKey string) (models.EvaluationResult, error)
	EvaluateBatch(ctx context.Context, payload dto.BatchEvaluateRequest, ownerKey string) ([]models.EvaluationResult, error)
	// Score runs the evaluation decision order without touching the history
	// recorder; the session flow persists its own records with question indices.
	Score(ctx context.Context, mode models.Mode, challenge models.Challenge, answer string) (models.EvaluationResult, error)
}

type evaluationService struct {
	gateway   ai.Gateway
	history   HistoryService
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewEvaluationService constructs the evaluation service.
func NewEvaluationService(gateway ai.Gateway, history HistoryService, validate *validator.Validate, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		gateway:   gateway,
		history:   history,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "evaluation_service").Logger(),
		tracer:    otel.Tracer("github.com/noah-isme/skillcheck-go-api/internal/service/evaluation"),
	}
}

// gradingPayload is the schema the grading prompt instructs the model to emit.
// Score is a pointer so an absent field is distinguishable from a zero score.
type gradingPayload struct {
	Score    *float64 `json:"score"`
	Feedback string   `json:"feedback"`
	Logic    *int     `json:"logic"`
	Tone     *int     `json:"tone"`
}

func (s *evaluationService) Evaluate(ctx context.Context, payload dto.SubmissionRequest, ownerKey string) (models.EvaluationResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.EvaluationResult{}, err
	}

	mode := models.Mode(payload.Mode)
	ctx, span := s.tracer.Start(ctx, "evaluation.single", trace.WithAttributes(
		attribute.String("assessment.mode", string(mode)),
	))
	defer span.End()

	result, err := s.score(ctx, mode, payload.ChallengeText, payload.Options, payload.Answer)
	if err != nil {
		span.RecordError(err)
		return models.EvaluationResult{}, err
	}

	s.persist(ctx, mode, payload, ownerKey, result)
	return result, nil
}

func (s *evaluationService) EvaluateBatch(ctx context.Context, payload dto.BatchEvaluateRequest, ownerKey string) ([]models.EvaluationResult, error) {
	if err := s.validator.Struct(payload); err != nil {
		return nil, err
	}

	mode := models.Mode(payload.Mode)
	ctx, span := s.tracer.Start(ctx, "evaluation.batch", trace.WithAttributes(
		attribute.String("assessment.mode", string(mode)),
		attribute.Int("assessment.batch_size", len(payload.Items)),
	))
	defer span.End()

	spec, err := prompt.SpecFor(mode)
	if err != nil {
		return nil, err
	}

	items := make([]prompt.GradingItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, prompt.GradingItem{
			Challenge: models.Challenge{Text: item.ChallengeText, Options: item.Options},
			Answer:    s.sanitizer.Sanitize(item.Answer),
		})
	}

	promptText, err := prompt.BuildBatchGrading(mode, items)
	if err != nil {
		return nil, err
	}

	raw, err := s.gateway.Complete(ctx, promptText)
	if err != nil {
		span.RecordError(err)
		return nil, fault.Transport(err)
	}

	var graded []gradingPayload
	if err := normalize.ExtractInto(raw, &graded); err != nil {
		span.RecordError(err)
		return nil, fault.Normalization(err.Error(), err)
	}

	// The whole batch fails on a length mismatch; guessing which result belongs
	// to which answer would corrupt every downstream score.
	if len(graded) != len(payload.Items) {
		err := fault.SchemaMismatch(fmt.Sprintf("expected %d results, model returned %d", len(payload.Items), len(graded)))
		span.RecordError(err)
		return nil, err
	}

	results := make([]models.EvaluationResult, 0, len(graded))
	for i, item := range graded {
		result, err := s.resultFromPayload(spec, item)
		if err != nil {
			span.RecordError(err)
			return nil, fault.Normalization(fmt.Sprintf("result %d: %v", i+1, err), err)
		}
		results = append(results, result)
	}

	observability.Evaluations().WithLabelValues(string(mode), "model").Add(float64(len(results)))
	s.persistBatch(ctx, mode, payload.Items, ownerKey, results)
	return results, nil
}

// Score applies the evaluation decision order without persistence.
func (s *evaluationService) Score(ctx context.Context, mode models.Mode, challenge models.Challenge, answer string) (models.EvaluationResult, error) {
	return s.score(ctx, mode, challenge.Text, challenge.Options, answer)
}

// score applies the evaluation decision order: bank exact-match first, then the
// model grading path.
func (s *evaluationService) score(ctx context.Context, mode models.Mode, challengeText string, options []string, answer string) (models.EvaluationResult, error) {
	if entry, ok := bank.FindByText(challengeText); ok {
		observability.Evaluations().WithLabelValues(string(mode), "bank").Inc()
		if bank.Match(challengeText, answer) {
			return models.EvaluationResult{Score: 10, Feedback: matchFeedback, IsFallback: true}, nil
		}
		return models.EvaluationResult{
			Score:      0,
			Feedback:   fmt.Sprintf(mismatchFeedback, entry.Answer),
			IsFallback: true,
		}, nil
	}

	spec, err := prompt.SpecFor(mode)
	if err != nil {
		return models.EvaluationResult{}, err
	}

	challenge := models.Challenge{Text: challengeText, Options: options}
	promptText, err := prompt.BuildGrading(mode, challenge, s.sanitizer.Sanitize(answer))
	if err != nil {
		return models.EvaluationResult{}, err
	}

	raw, err := s.gateway.Complete(ctx, promptText)
	if err != nil {
		return models.EvaluationResult{}, fault.Transport(err)
	}

	var graded gradingPayload
	if err := normalize.ExtractInto(raw, &graded); err != nil {
		return models.EvaluationResult{}, fault.Normalization(err.Error(), err)
	}

	result, err := s.resultFromPayload(spec, graded)
	if err != nil {
		return models.EvaluationResult{}, fault.Normalization(err.Error(), err)
	}

	observability.Evaluations().WithLabelValues(string(mode), "model").Inc()
	return result, nil
}

// resultFromPayload validates the graded payload against the mode's score range
// and applies its evaluation policy. Binary-policy scores snap to the nearest
// bound so multiple-choice grades stay strictly correct-or-incorrect.
func (s *evaluationService) resultFromPayload(spec prompt.ModeSpec, payload gradingPayload) (models.EvaluationResult, error) {
	if payload.Score == nil {
		return models.EvaluationResult{}, fmt.Errorf("model response is missing the score field")
	}

	score := *payload.Score
	if score < spec.ScoreMin || score > spec.ScoreMax {
		return models.EvaluationResult{}, fmt.Errorf("score %v outside range %v-%v", score, spec.ScoreMin, spec.ScoreMax)
	}

	if spec.Policy == prompt.PolicyBinary {
		if score >= (spec.ScoreMin+spec.ScoreMax)/2 {
			score = spec.ScoreMax
		} else {
			score = spec.ScoreMin
		}
	}

	result := models.EvaluationResult{
		Score:    score,
		Feedback: strings.TrimSpace(payload.Feedback),
	}

	if spec.Policy == prompt.PolicyGraded {
		result.Logic = clampAxis(payload.Logic)
		result.Tone = clampAxis(payload.Tone)
	}

	return result, nil
}

// clampAxis bounds an optional 1-100 sub-axis; out-of-range values are dropped
// rather than failing the evaluation, the canonical score is the contract.
func clampAxis(value *int) *int {
	if value == nil {
		return nil
	}
	if *value < 1 || *value > 100 {
		return nil
	}
	return value
}

// persist appends one history record. Persistence is at-most-once: a failed
// write is logged and the evaluation result still returned to the caller.
func (s *evaluationService) persist(ctx context.Context, mode models.Mode, payload dto.SubmissionRequest, ownerKey string, result models.EvaluationResult) {
	if s.history == nil || ownerKey == "" {
		return
	}

	record := recordFor(mode, payload, ownerKey, result)
	if err := s.history.Append(ctx, &record); err != nil {
		s.logger.Warn().Err(err).
			Str("owner_key", ownerKey).
			Msg("failed to persist assessment record")
	}
}

func (s *evaluationService) persistBatch(ctx context.Context, mode models.Mode, items []dto.SubmissionRequest, ownerKey string, results []models.EvaluationResult) {
	if s.history == nil || ownerKey == "" {
		return
	}

	records := make([]models.AssessmentRecord, 0, len(items))
	for i, item := range items {
		record := recordFor(mode, item, ownerKey, results[i])
		record.QuestionIndex = i
		records = append(records, record)
	}

	if err := s.history.AppendAll(ctx, records); err != nil {
		s.logger.Warn().Err(err).
			Str("owner_key", ownerKey).
			Int("records", len(records)).
			Msg("failed to persist assessment batch")
	}
}

func recordFor(mode models.Mode, payload dto.SubmissionRequest, ownerKey string, result models.EvaluationResult) models.AssessmentRecord {
	record := models.AssessmentRecord{
		OwnerKey:      ownerKey,
		SessionID:     payload.SessionID,
		Mode:          string(mode),
		ChallengeText: payload.ChallengeText,
		Answer:        payload.Answer,
		Score:         result.Score,
		Feedback:      result.Feedback,
		IsFallback:    result.IsFallback,
	}
	if len(payload.Options) > 0 {
		if encoded, err := jsonColumn(payload.Options); err == nil {
			record.Options = encoded
		}
	}
	return record
}

func jsonColumn(value interface{}) (datatypes.JSON, error) {
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(encoded), nil
}
