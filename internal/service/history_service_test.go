package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/skillcheck-go-api/internal/models"
	"github.com/noah-isme/skillcheck-go-api/internal/repository"
)

func setupHistoryService(t *testing.T) (HistoryService, *miniredis.Miniredis, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:history_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.AssessmentRecord{}))

	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	redisClient := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })

	svc := NewHistoryService(repository.NewHistoryRepository(db), redisClient, time.Minute, zerolog.Nop())
	return svc, server, db
}

func record(owner, text string, score float64) models.AssessmentRecord {
	return models.AssessmentRecord{
		OwnerKey:      owner,
		Mode:          "adaptive",
		ChallengeText: text,
		Answer:        "an answer",
		Score:         score,
		Feedback:      "noted",
	}
}

func TestHistoryListNewestFirst(t *testing.T) {
	svc, _, _ := setupHistoryService(t)
	ctx := context.Background()

	first := record("owner-1", "first question", 4)
	require.NoError(t, svc.Append(ctx, &first))
	second := record("owner-1", "second question", 8)
	require.NoError(t, svc.Append(ctx, &second))

	records, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "second question", records[0].ChallengeText)
	require.Equal(t, "first question", records[1].ChallengeText)
}

func TestHistoryListIsReadOnly(t *testing.T) {
	svc, _, db := setupHistoryService(t)
	ctx := context.Background()

	entry := record("owner-1", "stable question", 6)
	require.NoError(t, svc.Append(ctx, &entry))

	before, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	after, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Equal(t, before, after)

	var count int64
	require.NoError(t, db.Model(&models.AssessmentRecord{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestHistoryListCachesPerOwner(t *testing.T) {
	svc, server, _ := setupHistoryService(t)
	ctx := context.Background()

	entry := record("owner-1", "cached question", 6)
	require.NoError(t, svc.Append(ctx, &entry))

	_, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.True(t, server.Exists("skillcheck:history:owner-1"))
}

func TestHistoryAppendInvalidatesCache(t *testing.T) {
	svc, server, _ := setupHistoryService(t)
	ctx := context.Background()

	entry := record("owner-1", "first question", 6)
	require.NoError(t, svc.Append(ctx, &entry))

	_, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.True(t, server.Exists("skillcheck:history:owner-1"))

	later := record("owner-1", "later question", 9)
	require.NoError(t, svc.Append(ctx, &later))
	require.False(t, server.Exists("skillcheck:history:owner-1"))

	records, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "later question", records[0].ChallengeText)
}

func TestHistoryAppendAllIsAtomic(t *testing.T) {
	svc, _, db := setupHistoryService(t)
	ctx := context.Background()

	batch := []models.AssessmentRecord{
		record("owner-1", "batch one", 5),
		record("owner-1", "batch two", 7),
	}
	require.NoError(t, svc.AppendAll(ctx, batch))

	var count int64
	require.NoError(t, db.Model(&models.AssessmentRecord{}).Count(&count).Error)
	require.Equal(t, int64(2), count)
}

func TestHistoryScopedToOwner(t *testing.T) {
	svc, _, _ := setupHistoryService(t)
	ctx := context.Background()

	mine := record("owner-1", "my question", 5)
	require.NoError(t, svc.Append(ctx, &mine))
	theirs := record("owner-2", "their question", 5)
	require.NoError(t, svc.Append(ctx, &theirs))

	records, err := svc.ListByOwner(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "my question", records[0].ChallengeText)
}
