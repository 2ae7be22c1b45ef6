package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/fieldops/internal/models"
)

var ErrOpenTimesheet = errors.New("open timesheet exists")

// OpenTimesheet returns the user's most recent open timesheet.
func (r *GormRepo) OpenTimesheet(ctx context.Context, userID uuid.UUID) (*models.Timesheet, error) {
	var ts models.Timesheet
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND clock_out_time IS NULL", userID).
		Order("clock_in_time DESC").
		First(&ts).Error
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *GormRepo) TimesheetByID(ctx context.Context, id uuid.UUID) (*models.Timesheet, error) {
	var ts models.Timesheet
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&ts).Error; err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *GormRepo) TimesheetForUser(ctx context.Context, id, userID uuid.UUID) (*models.Timesheet, error) {
	var ts models.Timesheet
	if err := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&ts).Error; err != nil {
		return nil, err
	}
	return &ts, nil
}

// CreateTimesheet maps a hit on idx_timesheets_one_open to ErrOpenTimesheet.
func (r *GormRepo) CreateTimesheet(ctx context.Context, ts *models.Timesheet) error {
	err := r.DB.WithContext(ctx).Omit(clause.Associations).Create(ts).Error
	if isUniqueViolation(err) {
		return ErrOpenTimesheet
	}
	return err
}

func (r *GormRepo) CloseTimesheet(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Timesheet{}).
		Where("id = ? AND clock_out_time IS NULL", id).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) MarkSurveyCompleted(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Model(&models.Timesheet{}).Where("id = ?", id).Update("survey_completed", true).Error
}

func (r *GormRepo) ListTimesheets(ctx context.Context, f TimesheetFilter, offset, limit int) ([]models.Timesheet, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Timesheet{}).Scopes(f.Scope).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Timesheet
	err := q.Preload("User").Preload("Job").Preload("Client").
		Order("timesheets.clock_in_time DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepo) CreateLocationUpdate(ctx context.Context, u *models.LocationUpdate) error {
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) LocationUpdatesFor(ctx context.Context, timesheetID uuid.UUID) ([]models.LocationUpdate, error) {
	var out []models.LocationUpdate
	err := r.DB.WithContext(ctx).
		Where("timesheet_id = ?", timesheetID).
		Order("recorded_at ASC").
		Find(&out).Error
	return out, err
}
