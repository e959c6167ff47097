package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/noah-isme/skillcheck-go-api/internal/dto"
	"github.com/noah-isme/skillcheck-go-api/internal/models"
	"github.com/noah-isme/skillcheck-go-api/internal/observability"
	"github.com/noah-isme/skillcheck-go-api/internal/repository"
	"github.com/noah-isme/skillcheck-go-api/internal/session"
)

const sessionCompletedSubject = "skillcheck.sessions.completed"

// SessionService runs assessment sessions: it opens a session with its first
// challenge and drives the evaluate-and-advance cycle until the state machine
// completes. Completion events are published to NATS when a connection is
// configured.
type SessionService interface {
	Start(ctx context.Context, payload dto.SessionStartRequest, ownerKey string) (dto.SessionResponse, error)
	Advance(ctx context.Context, sessionID string, payload dto.SessionAnswerRequest, ownerKey string) (dto.SessionResponse, error)
	Get(ctx context.Context, sessionID string, ownerKey string) (dto.SessionResponse, error)
}

type sessionService struct {
	repo          repository.SessionRepository
	challenges    ChallengeService
	evaluations   EvaluationService
	history       HistoryService
	nats          *nats.Conn
	validator     *validator.Validate
	defaultLength int
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewSessionService constructs the session service.
func NewSessionService(
	repo repository.SessionRepository,
	challenges ChallengeService,
	evaluations EvaluationService,
	history HistoryService,
	natsConn *nats.Conn,
	validate *validator.Validate,
	defaultLength int,
	logger zerolog.Logger,
) SessionService {
	if defaultLength <= 0 {
		defaultLength = 10
	}
	return &sessionService{
		repo:          repo,
		challenges:    challenges,
		evaluations:   evaluations,
		history:       history,
		nats:          natsConn,
		validator:     validate,
		defaultLength: defaultLength,
		logger:        logger.With().Str("component", "session_service").Logger(),
		tracer:        otel.Tracer("github.com/noah-isme/skillcheck-go-api/internal/service/session"),
	}
}

func (s *sessionService) Start(ctx context.Context, payload dto.SessionStartRequest, ownerKey string) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	mode := models.Mode(payload.Mode)
	difficulty := models.Difficulty(payload.Difficulty)
	if !difficulty.Valid() {
		difficulty = models.DifficultyEasy
	}
	length := payload.Length
	if length <= 0 {
		length = s.defaultLength
	}

	ctx, span := s.tracer.Start(ctx, "session.start", trace.WithAttributes(
		attribute.String("assessment.mode", string(mode)),
		attribute.Int("session.length", length),
	))
	defer span.End()

	challenge, err := s.challenges.GenerateOne(ctx, mode, payload.Topics, difficulty)
	if err != nil {
		span.RecordError(err)
		return dto.SessionResponse{}, err
	}

	record := models.AssessmentSession{
		ID:         uuid.NewString(),
		OwnerKey:   ownerKey,
		Mode:       string(mode),
		Difficulty: string(difficulty),
		Length:     length,
	}
	if encoded, err := jsonColumn(payload.Topics); err == nil && len(payload.Topics) > 0 {
		record.Topics = encoded
	}
	if encoded, err := jsonColumn(challenge); err == nil {
		record.CurrentChallenge = encoded
	}

	if err := s.repo.Create(ctx, &record); err != nil {
		span.RecordError(err)
		return dto.SessionResponse{}, err
	}

	return dto.NewSessionResponse(record), nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string, ownerKey string) (dto.SessionResponse, error) {
	record, err := s.load(ctx, sessionID, ownerKey)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	return dto.NewSessionResponse(record), nil
}

func (s *sessionService) Advance(ctx context.Context, sessionID string, payload dto.SessionAnswerRequest, ownerKey string) (dto.SessionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SessionResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "session.advance", trace.WithAttributes(
		attribute.String("session.id", sessionID),
	))
	defer span.End()

	record, err := s.load(ctx, sessionID, ownerKey)
	if err != nil {
		span.RecordError(err)
		return dto.SessionResponse{}, err
	}

	if record.Completed {
		return dto.SessionResponse{}, ErrSessionCompleted
	}

	var challenge models.Challenge
	if err := json.Unmarshal(record.CurrentChallenge, &challenge); err != nil {
		return dto.SessionResponse{}, ErrNoChallengeOutstanding
	}

	machine := session.Resume(
		record.Length,
		record.QuestionIndex,
		record.CumulativeScore,
		models.Difficulty(record.Difficulty),
		len(record.CurrentChallenge) > 0,
		record.Completed,
	)

	mode := models.Mode(record.Mode)
	answeredIndex := machine.Index()
	result, err := s.evaluations.Score(ctx, mode, challenge, payload.Answer)
	if err != nil {
		span.RecordError(err)
		return dto.SessionResponse{}, err
	}

	outcome, err := machine.RecordResult(result.Score)
	if err != nil {
		if errors.Is(err, session.ErrCompleted) {
			return dto.SessionResponse{}, ErrSessionCompleted
		}
		return dto.SessionResponse{}, err
	}

	s.persistRecord(ctx, record, answeredIndex, challenge, payload.Answer, result)

	record.QuestionIndex = machine.Index()
	record.CumulativeScore = machine.Cumulative()
	record.CurrentChallenge = nil

	if outcome.Completed {
		record.Completed = true
		record.Tier = outcome.Tier
	} else {
		record.Difficulty = string(outcome.NextDifficulty)
		next, err := s.challenges.GenerateOne(ctx, mode, topicsOf(record), outcome.NextDifficulty)
		if err != nil {
			span.RecordError(err)
			return dto.SessionResponse{}, err
		}
		if encoded, err := jsonColumn(next); err == nil {
			record.CurrentChallenge = encoded
		}
	}

	if err := s.repo.Update(ctx, &record); err != nil {
		span.RecordError(err)
		return dto.SessionResponse{}, err
	}

	if outcome.Completed {
		observability.SessionsCompleted().Inc()
		s.publishCompleted(record)
	}

	response := dto.NewSessionResponse(record)
	evaluation := dto.NewEvaluationResponse(result)
	response.Result = &evaluation
	return response, nil
}

func (s *sessionService) load(ctx context.Context, sessionID string, ownerKey string) (models.AssessmentSession, error) {
	record, err := s.repo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AssessmentSession{}, ErrSessionNotFound
		}
		return models.AssessmentSession{}, err
	}

	// Owner keys are opaque; a mismatch is indistinguishable from absence.
	if ownerKey != "" && record.OwnerKey != "" && record.OwnerKey != ownerKey {
		return models.AssessmentSession{}, ErrSessionNotFound
	}

	return record, nil
}

func (s *sessionService) persistRecord(ctx context.Context, record models.AssessmentSession, index int, challenge models.Challenge, answer string, result models.EvaluationResult) {
	if s.history == nil {
		return
	}

	row := models.AssessmentRecord{
		OwnerKey:      record.OwnerKey,
		SessionID:     record.ID,
		QuestionIndex: index,
		Mode:          record.Mode,
		Difficulty:    string(challenge.Difficulty),
		ChallengeText: challenge.Text,
		Answer:        answer,
		Score:         result.Score,
		Feedback:      result.Feedback,
		IsFallback:    result.IsFallback,
	}
	if len(challenge.Options) > 0 {
		if encoded, err := jsonColumn(challenge.Options); err == nil {
			row.Options = encoded
		}
	}
	if len(challenge.Topics) > 0 {
		if encoded, err := jsonColumn(challenge.Topics); err == nil {
			row.Topics = encoded
		}
	}

	if err := s.history.Append(ctx, &row); err != nil {
		s.logger.Warn().Err(err).
			Str("session_id", record.ID).
			Int("question_index", index).
			Msg("failed to persist session assessment record")
	}
}

// sessionCompletedEvent is the payload published when a session terminates.
type sessionCompletedEvent struct {
	SessionID   string    `json:"session_id"`
	OwnerKey    string    `json:"owner_key"`
	Mode        string    `json:"mode"`
	Length      int       `json:"length"`
	MeanScore   float64   `json:"mean_score"`
	Tier        string    `json:"tier"`
	CompletedAt time.Time `json:"completed_at"`
}

func (s *sessionService) publishCompleted(record models.AssessmentSession) {
	if s.nats == nil {
		return
	}

	event := sessionCompletedEvent{
		SessionID:   record.ID,
		OwnerKey:    record.OwnerKey,
		Mode:        record.Mode,
		Length:      record.Length,
		MeanScore:   record.MeanScore(),
		Tier:        record.Tier,
		CompletedAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal session completed event")
		return
	}

	if err := s.nats.Publish(sessionCompletedSubject, payload); err != nil {
		s.logger.Warn().Err(err).Str("session_id", record.ID).Msg("failed to publish session completed event")
	}
}

func topicsOf(record models.AssessmentSession) []string {
	if len(record.Topics) == 0 {
		return nil
	}
	var topics []string
	if err := json.Unmarshal(record.Topics, &topics); err != nil {
		return nil
	}
	return topics
}
