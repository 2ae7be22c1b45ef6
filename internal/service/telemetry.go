package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/repo"
	"github.com/Skotchmaster/fieldops/internal/roles"
)

type TelemetryService struct {
	Repo  *repo.GormRepo
	Clock func() time.Time
}

type PositionInput struct {
	ShiftID   *uuid.UUID
	Timestamp *time.Time
	Lat       *float64
	Lng       *float64
	Accuracy  *float64
	Speed     *float64
	Heading   *float64
	Address   *string
}

// RecordPosition appends a sample; samples are never updated or deleted.
func (s *TelemetryService) RecordPosition(ctx context.Context, actor Identity, in PositionInput) (*models.LocationUpdate, error) {
	if !actor.Can(roles.ClockInOut) {
		return nil, fail(ErrForbidden, "Only employees can submit location updates")
	}
	if in.Lat == nil || in.Lng == nil {
		return nil, fail(ErrValidation, "Latitude and longitude are required")
	}
	if *in.Lat < -90 || *in.Lat > 90 || *in.Lng < -180 || *in.Lng > 180 {
		return nil, fail(ErrValidation, "Latitude or longitude out of range")
	}

	u := &models.LocationUpdate{
		UserID:    actor.ID,
		Latitude:  *in.Lat,
		Longitude: *in.Lng,
		Accuracy:  in.Accuracy,
		Speed:     in.Speed,
		Heading:   in.Heading,
		Address:   in.Address,
	}
	if in.Timestamp != nil && !in.Timestamp.IsZero() {
		u.RecordedAt = in.Timestamp.UTC()
	} else if s.Clock != nil {
		u.RecordedAt = s.Clock().UTC()
	} else {
		u.RecordedAt = time.Now().UTC()
	}

	if in.ShiftID != nil {
		ts, err := s.Repo.TimesheetForUser(ctx, *in.ShiftID, actor.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if err != nil || !ts.IsOpen() {
			return nil, fail(ErrNotFound, "Invalid or closed shift")
		}
		u.TimesheetID = &ts.ID
	}

	if err := s.Repo.CreateLocationUpdate(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Track returns the samples recorded against a timesheet the caller may see.
func (s *TelemetryService) Track(ctx context.Context, actor Identity, timesheetID uuid.UUID) ([]models.LocationUpdate, error) {
	var err error
	if actor.Can(roles.ViewAllTimesheets) {
		_, err = s.Repo.TimesheetByID(ctx, timesheetID)
	} else {
		_, err = s.Repo.TimesheetForUser(ctx, timesheetID, actor.ID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Timesheet not found")
		}
		return nil, err
	}
	return s.Repo.LocationUpdatesFor(ctx, timesheetID)
}
