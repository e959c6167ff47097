package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/skillcheck-go-api/internal/models"
)

// HistoryRepository persists immutable assessment records. Records are only
// ever appended and read back newest first; there is no update or delete path.
type HistoryRepository interface {
	Append(ctx context.Context, record *models.AssessmentRecord) error
	AppendAll(ctx context.Context, records []models.AssessmentRecord) error
	ListByOwner(ctx context.Context, ownerKey string) ([]models.AssessmentRecord, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.AssessmentRecord, error)
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository instantiates the repository.
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Append(ctx context.Context, record *models.AssessmentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// AppendAll writes a batch of records in one transaction so a partially failed
// batch leaves no rows behind.
func (r *historyRepository) AppendAll(ctx context.Context, records []models.AssessmentRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
}

func (r *historyRepository) ListByOwner(ctx context.Context, ownerKey string) ([]models.AssessmentRecord, error) {
	var records []models.AssessmentRecord
	if err := r.db.WithContext(ctx).
		Where("owner_key = ?", ownerKey).
		Order("created_at DESC").
		Order("id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r *historyRepository) ListBySession(ctx context.Context, sessionID string) ([]models.AssessmentRecord, error) {
	var records []models.AssessmentRecord
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("question_index ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}
