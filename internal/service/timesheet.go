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
	"github.com/Skotchmaster/fieldops/internal/util"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

type TimesheetService struct {
	Repo  *repo.GormRepo
	Clock func() time.Time
}

func (s *TimesheetService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

type ClockInInput struct {
	JobID    *uuid.UUID
	ClientID *uuid.UUID
	Lat      *float64
	Lng      *float64
	Accuracy *float64
}

type SurveyAnswers struct {
	TemplateID uuid.UUID
	Answers    []AnswerInput
}

type ClockOutInput struct {
	ShiftID  *uuid.UUID
	Lat      *float64
	Lng      *float64
	Accuracy *float64
	Survey   *SurveyAnswers
}

type ClockOutResult struct {
	Timesheet   *models.Timesheet
	DurationSec int64
}

type TimesheetQuery struct {
	UserID  *uuid.UUID
	From    *time.Time
	Until   *time.Time
	Current bool
	Page    int
	Limit   int
}

var errAlreadyOpen = fail(ErrAlreadyOpen, "You already have an open timesheet")

func (s *TimesheetService) ClockIn(ctx context.Context, actor Identity, in ClockInInput) (*models.Timesheet, error) {
	if !actor.Can(roles.ClockInOut) {
		return nil, fail(ErrForbidden, "Only employees can clock in")
	}
	l := logging.FromContext(ctx).With("svc", "timesheet.clock_in", "user_id", actor.ID)
	now := s.now()

	ts := &models.Timesheet{
		UserID:      actor.ID,
		JobID:       in.JobID,
		ClientID:    in.ClientID,
		ClockInTime: now,
		ClockInLat:  in.Lat,
		ClockInLng:  in.Lng,
	}

	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.OpenTimesheet(ctx, actor.ID); err == nil {
			return errAlreadyOpen
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if in.JobID != nil {
			if _, err := tx.JobByID(ctx, *in.JobID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fail(ErrNotFound, "Job not found")
				}
				return err
			}
		}
		if in.ClientID != nil {
			if _, err := tx.ClientByID(ctx, *in.ClientID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fail(ErrNotFound, "Client not found")
				}
				return err
			}
		}

		if err := tx.CreateTimesheet(ctx, ts); err != nil {
			if errors.Is(err, repo.ErrOpenTimesheet) {
				return errAlreadyOpen
			}
			return err
		}

		if in.Lat != nil && in.Lng != nil {
			return tx.CreateLocationUpdate(ctx, &models.LocationUpdate{
				UserID:      actor.ID,
				TimesheetID: &ts.ID,
				Latitude:    *in.Lat,
				Longitude:   *in.Lng,
				Accuracy:    in.Accuracy,
				RecordedAt:  now,
			})
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyOpen) {
			l.Warn("clock_in_rejected", "reason", "open timesheet exists")
		}
		return nil, err
	}

	l.Info("clocked_in", "timesheet_id", ts.ID)
	return ts, nil
}

func (s *TimesheetService) ClockOut(ctx context.Context, actor Identity, in ClockOutInput) (*ClockOutResult, error) {
	if !actor.Can(roles.ClockInOut) {
		return nil, fail(ErrForbidden, "Only employees can clock out")
	}
	l := logging.FromContext(ctx).With("svc", "timesheet.clock_out", "user_id", actor.ID)
	now := s.now()

	var out ClockOutResult
	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		var ts *models.Timesheet
		if in.ShiftID != nil {
			found, err := tx.TimesheetForUser(ctx, *in.ShiftID, actor.ID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err != nil || !found.IsOpen() {
				return fail(ErrNotFound, "Shift not found or already closed")
			}
			ts = found
		} else {
			found, err := tx.OpenTimesheet(ctx, actor.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fail(ErrNotFound, "No open timesheet found")
				}
				return err
			}
			ts = found
		}

		dur := ts.Duration(now)
		out.DurationSec = int64(dur / time.Second)

		ok, err := tx.CloseTimesheet(ctx, ts.ID, map[string]any{
			"clock_out_time":         now,
			"clock_out_location_lat": in.Lat,
			"clock_out_location_lng": in.Lng,
			"total_duration_minutes": int(out.DurationSec / 60),
		})
		if err != nil {
			return err
		}
		if !ok {
			return fail(ErrNotFound, "Shift not found or already closed")
		}

		if in.Lat != nil && in.Lng != nil {
			if err := tx.CreateLocationUpdate(ctx, &models.LocationUpdate{
				UserID:      actor.ID,
				TimesheetID: &ts.ID,
				Latitude:    *in.Lat,
				Longitude:   *in.Lng,
				Accuracy:    in.Accuracy,
				RecordedAt:  now,
			}); err != nil {
				return err
			}
		}

		if in.Survey != nil && in.Survey.TemplateID != uuid.Nil {
			if _, err := saveSurvey(ctx, tx, actor, ts, in.Survey.TemplateID, in.Survey.Answers, now); err != nil {
				return err
			}
		}

		closed, err := tx.TimesheetForUser(ctx, ts.ID, actor.ID)
		if err != nil {
			return err
		}
		out.Timesheet = closed
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Info("clocked_out", "timesheet_id", out.Timesheet.ID, "duration_sec", out.DurationSec)
	return &out, nil
}

// List confines employees to their own rows. Current returns at most the
// latest open timesheet visible to the caller, whatever the role.
func (s *TimesheetService) List(ctx context.Context, actor Identity, q TimesheetQuery) (*Page[models.Timesheet], error) {
	f := repo.TimesheetFilter{
		UserID:   q.UserID,
		From:     q.From,
		Until:    q.Until,
		OpenOnly: q.Current,
	}
	if !actor.Role.AtLeast(roles.Accountant) {
		f.UserID = &actor.ID
	}

	page, limit := util.Normalize(q.Page, q.Limit)
	if q.Current {
		page, limit = 1, 1
	}
	offset, _ := util.Calculate(page, limit)

	items, total, err := s.Repo.ListTimesheets(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}
	return &Page[models.Timesheet]{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: util.TotalPages(total, limit),
	}, nil
}
