package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/repo"
	"github.com/Skotchmaster/fieldops/internal/roles"
	"github.com/Skotchmaster/fieldops/internal/util"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

type JobService struct {
	Repo  *repo.GormRepo
	Clock func() time.Time
}

func (s *JobService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

type NewJob struct {
	Title            string
	Description      string
	ClientID         *uuid.UUID
	AssigneeID       *uuid.UUID
	ScheduledDate    *time.Time
	ScheduledEndDate *time.Time
	PickupLocation   string
	Destination      string
	Notes            string
	Priority         string
}

type JobQuery struct {
	Status     string
	AssigneeID *uuid.UUID
	ClientID   *uuid.UUID
	Q          string
	Page       int
	Limit      int
}

func (s *JobService) validateAssignee(ctx context.Context, id uuid.UUID) error {
	u, err := s.Repo.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(ErrNotFound, "Assignee not found")
		}
		return err
	}
	if !u.IsActive {
		return fail(ErrNotFound, "Assignee not found")
	}
	if u.Role != roles.Employee.String() {
		return fail(ErrValidation, "Can only assign jobs to employees")
	}
	return nil
}

func (s *JobService) Create(ctx context.Context, actor Identity, in NewJob) (*models.Job, error) {
	if !actor.Can(roles.AssignJobs) {
		return nil, fail(ErrForbidden, "Insufficient permissions")
	}
	l := logging.FromContext(ctx).With("svc", "job.create", "user_id", actor.ID)

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, fail(ErrValidation, "Title and description are required")
	}

	priority := strings.ToLower(strings.TrimSpace(in.Priority))
	if priority == "" {
		priority = "medium"
	}
	if !slices.Contains(models.JobPriorities, priority) {
		return nil, fail(ErrValidation, "Invalid priority")
	}

	if in.ClientID != nil {
		if _, err := s.Repo.ClientByID(ctx, *in.ClientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fail(ErrNotFound, "Client not found")
			}
			return nil, err
		}
	}
	if in.AssigneeID != nil {
		if err := s.validateAssignee(ctx, *in.AssigneeID); err != nil {
			return nil, err
		}
	}

	j := &models.Job{
		Title:            title,
		Description:      description,
		ClientID:         in.ClientID,
		AssignedTo:       in.AssigneeID,
		AssignedBy:       &actor.ID,
		Status:           models.JobAssigned,
		Priority:         priority,
		ScheduledDate:    in.ScheduledDate,
		ScheduledEndDate: in.ScheduledEndDate,
		PickupLocation:   in.PickupLocation,
		Destination:      in.Destination,
		Notes:            in.Notes,
	}
	if err := s.Repo.CreateJob(ctx, j); err != nil {
		return nil, err
	}

	l.Info("job_created", "job_id", j.ID)
	return s.Repo.JobByID(ctx, j.ID)
}

func (s *JobService) Assign(ctx context.Context, actor Identity, id uuid.UUID, assignee *uuid.UUID) (*models.Job, error) {
	if !actor.Can(roles.AssignJobs) {
		return nil, fail(ErrForbidden, "Insufficient permissions")
	}
	if assignee == nil || *assignee == uuid.Nil {
		return nil, fail(ErrValidation, "assigneeId is required")
	}
	if err := s.validateAssignee(ctx, *assignee); err != nil {
		return nil, err
	}

	ok, err := s.Repo.AssignJob(ctx, id, *assignee, actor.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fail(ErrNotFound, "Job not found")
	}

	logging.FromContext(ctx).Info("job_assigned", "svc", "job.assign", "job_id", id, "assignee_id", *assignee)
	return s.Repo.JobByID(ctx, id)
}

type jobStep struct {
	verb     string
	from     []string
	to       string
	stampCol string
}

var (
	stepAccept   = jobStep{"accepted", []string{models.JobAssigned}, models.JobAccepted, "accepted_at"}
	stepDecline  = jobStep{"declined", []string{models.JobAssigned}, models.JobDeclined, ""}
	stepStart    = jobStep{"started", []string{models.JobAccepted}, models.JobInProgress, "started_at"}
	stepComplete = jobStep{"completed", []string{models.JobInProgress}, models.JobCompleted, "completed_at"}
	stepClose    = jobStep{"closed", []string{models.JobCompleted, models.JobDeclined}, models.JobClosed, ""}
)

// transition does not tell a missing job apart from a disallowed move.
func (s *JobService) transition(ctx context.Context, id uuid.UUID, assignee *uuid.UUID, step jobStep) (*models.Job, error) {
	ok, err := s.Repo.TransitionJob(ctx, repo.JobTransition{
		ID:         id,
		AssignedTo: assignee,
		From:       step.from,
		To:         step.to,
		StampCol:   step.stampCol,
	}, s.now())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fail(ErrInvalidTransition, "Job not found or cannot be "+step.verb)
	}

	logging.FromContext(ctx).Info("job_transition", "svc", "job.transition", "job_id", id, "status", step.to)
	return s.Repo.JobByID(ctx, id)
}

// assigneeStep moves only jobs assigned to the actor; anyone else gets the
// same answer as for a missing job.
func (s *JobService) assigneeStep(ctx context.Context, actor Identity, id uuid.UUID, step jobStep) (*models.Job, error) {
	return s.transition(ctx, id, &actor.ID, step)
}

func (s *JobService) Accept(ctx context.Context, actor Identity, id uuid.UUID) (*models.Job, error) {
	return s.assigneeStep(ctx, actor, id, stepAccept)
}

func (s *JobService) Decline(ctx context.Context, actor Identity, id uuid.UUID) (*models.Job, error) {
	return s.assigneeStep(ctx, actor, id, stepDecline)
}

func (s *JobService) Start(ctx context.Context, actor Identity, id uuid.UUID) (*models.Job, error) {
	return s.assigneeStep(ctx, actor, id, stepStart)
}

func (s *JobService) Complete(ctx context.Context, actor Identity, id uuid.UUID) (*models.Job, error) {
	return s.assigneeStep(ctx, actor, id, stepComplete)
}

func (s *JobService) Close(ctx context.Context, actor Identity, id uuid.UUID) (*models.Job, error) {
	if !actor.Can(roles.AssignJobs) {
		return nil, fail(ErrForbidden, "Insufficient permissions")
	}
	return s.transition(ctx, id, nil, stepClose)
}

// List shows employees only their own assignments; every other role sees all jobs.
func (s *JobService) List(ctx context.Context, actor Identity, q JobQuery) (*Page[models.Job], error) {
	page, limit := util.Normalize(q.Page, q.Limit)

	f := repo.JobFilter{
		AssignedTo: q.AssigneeID,
		Status:     q.Status,
		ClientID:   q.ClientID,
		Query:      q.Q,
	}
	if !actor.Role.AtLeast(roles.Accountant) {
		if q.AssigneeID != nil && *q.AssigneeID != actor.ID {
			return &Page[models.Job]{Items: []models.Job{}, Page: page, Limit: limit}, nil
		}
		f.AssignedTo = &actor.ID
	}

	offset, _ := util.Calculate(page, limit)
	jobs, total, err := s.Repo.ListJobs(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}
	return &Page[models.Job]{
		Items:      jobs,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: util.TotalPages(total, limit),
	}, nil
}
