package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/fieldops/internal/models"
)

func (r *GormRepo) CreateSession(ctx context.Context, s *models.Session) error {
	return translate(r.DB.WithContext(ctx).Create(s).Error)
}

// ActiveSession finds an unexpired session whose user is still active.
func (r *GormRepo) ActiveSession(ctx context.Context, tokenHash string, now time.Time) (*models.Session, error) {
	var s models.Session
	err := r.DB.WithContext(ctx).
		Joins("JOIN users ON users.id = user_sessions.user_id").
		Where("user_sessions.token_hash = ? AND user_sessions.expires_at > ? AND users.is_active = ?", tokenHash, now, true).
		Preload("User").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) TouchSession(ctx context.Context, id uuid.UUID, now time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.Session{}).Where("id = ?", id).Update("last_used_at", now).Error
}
