package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skillcheck-go-api/internal/dto"
	"github.com/noah-isme/skillcheck-go-api/internal/models"
	"github.com/noah-isme/skillcheck-go-api/internal/repository"
)

const historyCacheKeyPrefix = "skillcheck:history"

// HistoryService is the history recorder: it appends immutable assessment
// records and serves per-owner history newest first, with a short redis cache
// in front of the read path. The redis client is optional; a nil client
// degrades to uncached reads.
type HistoryService interface {
	Append(ctx context.Context, record *models.AssessmentRecord) error
	AppendAll(ctx context.Context, records []models.AssessmentRecord) error
	ListByOwner(ctx context.Context, ownerKey string) ([]dto.HistoryRecordResponse, error)
}

type historyService struct {
	repo     repository.HistoryRepository
	redis    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewHistoryService constructs the history recorder.
func NewHistoryService(repo repository.HistoryRepository, redisClient *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) HistoryService {
	if cacheTTL <= 0 {
		cacheTTL = 2 * time.Minute
	}
	return &historyService{
		repo:     repo,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "history_service").Logger(),
	}
}

func (s *historyService) Append(ctx context.Context, record *models.AssessmentRecord) error {
	if err := s.repo.Append(ctx, record); err != nil {
		return err
	}
	s.invalidate(ctx, record.OwnerKey)
	return nil
}

func (s *historyService) AppendAll(ctx context.Context, records []models.AssessmentRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := s.repo.AppendAll(ctx, records); err != nil {
		return err
	}
	seen := map[string]struct{}{}
	for _, record := range records {
		if _, done := seen[record.OwnerKey]; done {
			continue
		}
		seen[record.OwnerKey] = struct{}{}
		s.invalidate(ctx, record.OwnerKey)
	}
	return nil
}

func (s *historyService) ListByOwner(ctx context.Context, ownerKey string) ([]dto.HistoryRecordResponse, error) {
	if cached, ok := s.fromCache(ctx, ownerKey); ok {
		return cached, nil
	}

	records, err := s.repo.ListByOwner(ctx, ownerKey)
	if err != nil {
		return nil, err
	}

	response := dto.NewHistoryRecordResponseSlice(records)
	s.toCache(ctx, ownerKey, response)
	return response, nil
}

func (s *historyService) cacheKey(ownerKey string) string {
	return fmt.Sprintf("%s:%s", historyCacheKeyPrefix, ownerKey)
}

func (s *historyService) fromCache(ctx context.Context, ownerKey string) ([]dto.HistoryRecordResponse, bool) {
	if s.redis == nil {
		return nil, false
	}

	raw, err := s.redis.Get(ctx, s.cacheKey(ownerKey)).Result()
	if err != nil {
		return nil, false
	}

	var cached []dto.HistoryRecordResponse
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		s.logger.Warn().Err(err).Msg("failed to unmarshal cached history")
		return nil, false
	}

	return cached, true
}

func (s *historyService) toCache(ctx context.Context, ownerKey string, response []dto.HistoryRecordResponse) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal history for cache")
		return
	}

	if err := s.redis.Set(ctx, s.cacheKey(ownerKey), payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache history")
	}
}

func (s *historyService) invalidate(ctx context.Context, ownerKey string) {
	if s.redis == nil || ownerKey == "" {
		return
	}
	if err := s.redis.Del(ctx, s.cacheKey(ownerKey)).Err(); err != nil {
		s.logger.Warn().Err(err).Str("owner_key", ownerKey).Msg("failed to invalidate history cache")
	}
}
