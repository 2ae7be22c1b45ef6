package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/fieldops/internal/models"
)

func (r *GormRepo) CreateJob(ctx context.Context, j *models.Job) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(j).Error
}

func (r *GormRepo) JobByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var j models.Job
	err := r.DB.WithContext(ctx).
		Preload("Client").Preload("Assignee").
		Where("jobs.id = ?", id).
		First(&j).Error
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *GormRepo) AssignJob(ctx context.Context, id, assignee, by uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Job{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"assigned_to": assignee,
			"assigned_by": by,
			"status":      models.JobAssigned,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// JobTransition is one conditional status move. AssignedTo, when set, must
// match the row as well.
type JobTransition struct {
	ID         uuid.UUID
	AssignedTo *uuid.UUID
	From       []string
	To         string
	StampCol   string
}

func (r *GormRepo) TransitionJob(ctx context.Context, t JobTransition, now time.Time) (bool, error) {
	fields := map[string]any{"status": t.To}
	if t.StampCol != "" {
		fields[t.StampCol] = stamp(now)
	}

	q := r.DB.WithContext(ctx).Model(&models.Job{}).Where("id = ? AND status IN ?", t.ID, t.From)
	if t.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *t.AssignedTo)
	}
	res := q.Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ListJobs(ctx context.Context, f JobFilter, offset, limit int) ([]models.Job, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Job{}).Scopes(f.Scope).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.Job
	err := q.Preload("Client").Preload("Assignee").
		Order("jobs.scheduled_date DESC").
		Order("jobs.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *GormRepo) ClientByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var c models.Client
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) CreateClient(ctx context.Context, c *models.Client) error {
	return r.DB.WithContext(ctx).Create(c).Error
}
