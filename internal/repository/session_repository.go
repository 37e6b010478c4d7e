package repository

import (
	"context"
	"errors"
	"time"

	"kanba/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionRepository is the session store: an opaque token to user mapping
// with an absolute expiry. It is deliberately table-backed rather than
// in-memory so several server instances can share it.
type SessionRepository struct {
	db *gorm.DB
}

type SessionRepositoryInterface interface {
	Create(ctx context.Context, sessionID, userID uuid.UUID) error
	Resolve(ctx context.Context, sessionID uuid.UUID) (*model.Session, error)
	Exists(ctx context.Context, sessionID uuid.UUID) (bool, error)
	Invalidate(ctx context.Context, sessionID uuid.UUID) error
	PurgeExpired(ctx context.Context) (int64, error)
}

var _ SessionRepositoryInterface = (*SessionRepository)(nil)

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create upserts the session row with a fresh expiry. Re-creating an
// existing token re-points it and refreshes its lifetime.
func (r *SessionRepository) Create(ctx context.Context, sessionID, userID uuid.UUID) error {
	session := model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(model.SessionTTL),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "expires_at"}),
	}).Create(&session).Error
}

// Resolve returns the session only while it is alive. Expired rows are
// treated as absent; their deletion is left to PurgeExpired.
func (r *SessionRepository) Resolve(ctx context.Context, sessionID uuid.UUID) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", sessionID, time.Now()).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Exists(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND expires_at > ?", sessionID, time.Now()).
		Count(&count).Error
	return count > 0, err
}

// Invalidate deletes the session. Deleting a token that does not exist
// is not an error.
func (r *SessionRepository) Invalidate(ctx context.Context, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Session{}, "id = ?", sessionID).Error
}

// PurgeExpired removes rows past their expiry and reports how many went.
// Correctness never depends on it running; it only keeps the table small.
func (r *SessionRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&model.Session{})
	return result.RowsAffected, result.Error
}
