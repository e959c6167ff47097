package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/skillcheck-go-api/internal/models"
)

// SessionRepository persists assessment session state. Sessions are append-only
// in spirit: they are created once and mutated forward, never deleted.
type SessionRepository interface {
	Create(ctx context.Context, session *models.AssessmentSession) error
	GetByID(ctx context.Context, id string) (models.AssessmentSession, error)
	Update(ctx context.Context, session *models.AssessmentSession) error
}

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository instantiates the repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *models.AssessmentSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (models.AssessmentSession, error) {
	var session models.AssessmentSession
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return models.AssessmentSession{}, err
	}

	return session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *models.AssessmentSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}
