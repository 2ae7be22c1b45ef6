package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/repo"
	"github.com/Skotchmaster/fieldops/internal/roles"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

type SurveyService struct {
	Repo  *repo.GormRepo
	Clock func() time.Time
}

func (s *SurveyService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// AnswerInput is not checked against the template's questions.
type AnswerInput struct {
	QuestionID uuid.UUID
	Text       *string
	Rating     *int
}

type SurveySubmission struct {
	TemplateID uuid.UUID
	ShiftID    *uuid.UUID
	Answers    []AnswerInput
}

type NewQuestion struct {
	Text       string
	Type       string
	Options    []string
	IsRequired bool
	OrderIndex *int
}

type NewTemplate struct {
	Title       string
	Description string
	IsMandatory bool
	Questions   []NewQuestion
}

var questionTypes = []string{models.QuestionText, models.QuestionRating, models.QuestionChoice}

// Templates lists active templates; target "timesheet" keeps only mandatory ones.
func (s *SurveyService) Templates(ctx context.Context, target string) ([]models.SurveyTemplate, error) {
	return s.Repo.ActiveTemplates(ctx, strings.EqualFold(target, "timesheet"))
}

func (s *SurveyService) CreateTemplate(ctx context.Context, actor Identity, in NewTemplate) (*models.SurveyTemplate, error) {
	if !actor.Can(roles.ManageSurveys) {
		return nil, fail(ErrForbidden, "Insufficient permissions")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fail(ErrValidation, "Title is required")
	}
	if len(in.Questions) == 0 {
		return nil, fail(ErrValidation, "At least one question is required")
	}

	t := &models.SurveyTemplate{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		IsMandatory: in.IsMandatory,
		IsActive:    true,
		CreatedBy:   &actor.ID,
	}
	for i, q := range in.Questions {
		text := strings.TrimSpace(q.Text)
		qt := strings.ToLower(strings.TrimSpace(q.Type))
		if qt == "" {
			qt = models.QuestionText
		}
		if text == "" || !slices.Contains(questionTypes, qt) {
			return nil, fail(ErrValidation, fmt.Sprintf("Question %d needs text and a type of text, rating or choice", i+1))
		}
		if qt == models.QuestionChoice && len(q.Options) == 0 {
			return nil, fail(ErrValidation, fmt.Sprintf("Question %d needs options", i+1))
		}

		order := i
		if q.OrderIndex != nil {
			order = *q.OrderIndex
		}
		var opts datatypes.JSON
		if len(q.Options) > 0 {
			raw, err := json.Marshal(q.Options)
			if err != nil {
				return nil, err
			}
			opts = datatypes.JSON(raw)
		}
		t.Questions = append(t.Questions, models.SurveyQuestion{
			QuestionText: text,
			QuestionType: qt,
			Options:      opts,
			IsRequired:   q.IsRequired,
			OrderIndex:   order,
		})
	}

	if err := s.Repo.CreateTemplate(ctx, t); err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("survey_template_created", "svc", "survey.create_template", "template_id", t.ID)
	return s.Repo.ActiveTemplate(ctx, t.ID)
}

// Submit stores a response and its answers and, for a shift, marks the
// timesheet's survey done, all in one transaction.
func (s *SurveyService) Submit(ctx context.Context, actor Identity, in SurveySubmission) (*models.SurveyResponse, error) {
	if in.TemplateID == uuid.Nil || in.Answers == nil {
		return nil, fail(ErrValidation, "templateId and answers are required")
	}
	now := s.now()

	var resp *models.SurveyResponse
	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		var ts *models.Timesheet
		if in.ShiftID != nil {
			found, err := tx.TimesheetForUser(ctx, *in.ShiftID, actor.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fail(ErrNotFound, "Timesheet not found")
				}
				return err
			}
			ts = found
		}

		var err error
		resp, err = saveSurvey(ctx, tx, actor, ts, in.TemplateID, in.Answers, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("survey_submitted", "svc", "survey.submit", "response_id", resp.ID, "answers", len(resp.Answers))
	return resp, nil
}

// saveSurvey runs inside a caller's transaction. ts may be nil.
func saveSurvey(ctx context.Context, tx *repo.GormRepo, actor Identity, ts *models.Timesheet, templateID uuid.UUID, in []AnswerInput, now time.Time) (*models.SurveyResponse, error) {
	if _, err := tx.ActiveTemplate(ctx, templateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Survey template not found")
		}
		return nil, err
	}

	resp := &models.SurveyResponse{
		TemplateID:  templateID,
		UserID:      actor.ID,
		SubmittedAt: now,
	}
	if ts != nil {
		resp.TimesheetID = &ts.ID
		resp.JobID = ts.JobID
		resp.ClientID = ts.ClientID
	}

	answers := make([]models.SurveyAnswer, 0, len(in))
	for _, a := range in {
		answers = append(answers, models.SurveyAnswer{
			QuestionID:   a.QuestionID,
			AnswerText:   a.Text,
			AnswerRating: a.Rating,
		})
	}

	if err := tx.CreateSurveyResponse(ctx, resp, answers); err != nil {
		return nil, fmt.Errorf("insert survey response: %w", err)
	}
	if ts != nil {
		if err := tx.MarkSurveyCompleted(ctx, ts.ID); err != nil {
			return nil, err
		}
	}
	resp.Answers = answers
	return resp, nil
}
