package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fieldops/internal/models"
)

func TestSurvey_CreateTemplate(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	svc := &SurveyService{Repo: env.Repo}
	_, mgrID := env.user(t, "manager", "mgr@company.com")
	_, empID := env.user(t, "employee", "emp@company.com")

	tpl, err := svc.CreateTemplate(ctx, mgrID, NewTemplate{
		Title: "Site check",
		Questions: []NewQuestion{
			{Text: "Anything broken?", Type: "choice", Options: []string{"yes", "no"}},
			{Text: "Notes"},
		},
	})
	require.NoError(t, err)
	require.Len(t, tpl.Questions, 2)
	assert.Equal(t, []string{"yes", "no"}, tpl.Questions[0].OptionList())
	assert.Equal(t, models.QuestionText, tpl.Questions[1].QuestionType)
	assert.Equal(t, 1, tpl.Questions[1].OrderIndex)
	require.NotNil(t, tpl.Creator)
	assert.Equal(t, mgrID.ID, tpl.Creator.ID)

	tests := []struct {
		name  string
		actor Identity
		in    NewTemplate
		kind  error
	}{
		{"employee", empID, NewTemplate{Title: "x", Questions: []NewQuestion{{Text: "q"}}}, ErrForbidden},
		{"no title", mgrID, NewTemplate{Questions: []NewQuestion{{Text: "q"}}}, ErrValidation},
		{"no questions", mgrID, NewTemplate{Title: "x"}, ErrValidation},
		{"bad type", mgrID, NewTemplate{Title: "x", Questions: []NewQuestion{{Text: "q", Type: "slider"}}}, ErrValidation},
		{"choice without options", mgrID, NewTemplate{Title: "x", Questions: []NewQuestion{{Text: "q", Type: "choice"}}}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTemplate(ctx, tt.actor, tt.in)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestSurvey_TemplatesTarget(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	svc := &SurveyService{Repo: env.Repo}
	_, mgrID := env.user(t, "manager", "mgr@company.com")

	_, err := svc.CreateTemplate(ctx, mgrID, NewTemplate{Title: "Optional", Questions: []NewQuestion{{Text: "q"}}})
	require.NoError(t, err)
	_, err = svc.CreateTemplate(ctx, mgrID, NewTemplate{Title: "Mandatory", IsMandatory: true, Questions: []NewQuestion{{Text: "q"}}})
	require.NoError(t, err)

	all, err := svc.Templates(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	shift, err := svc.Templates(ctx, "timesheet")
	require.NoError(t, err)
	require.Len(t, shift, 1)
	assert.Equal(t, "Mandatory", shift[0].Title)
}

func TestSurvey_Submit(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	clock := newClock()
	svc := &SurveyService{Repo: env.Repo, Clock: clock.Now}
	shifts := &TimesheetService{Repo: env.Repo, Clock: clock.Now}
	_, mgrID := env.user(t, "manager", "mgr@company.com")
	_, empID := env.user(t, "employee", "emp@company.com")
	_, otherID := env.user(t, "employee", "other@company.com")

	tpl, err := svc.CreateTemplate(ctx, mgrID, NewTemplate{Title: "Shift", Questions: []NewQuestion{
		{Text: "Rate", Type: "rating"},
		{Text: "Comment"},
	}})
	require.NoError(t, err)
	ts, err := shifts.ClockIn(ctx, empID, ClockInInput{})
	require.NoError(t, err)

	_, err = svc.Submit(ctx, empID, SurveySubmission{TemplateID: tpl.ID})
	assert.Equal(t, "templateId and answers are required", Message(err))

	_, err = svc.Submit(ctx, otherID, SurveySubmission{TemplateID: tpl.ID, ShiftID: &ts.ID, Answers: []AnswerInput{}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Timesheet not found", Message(err))

	_, err = svc.Submit(ctx, empID, SurveySubmission{TemplateID: uuid.New(), Answers: []AnswerInput{}})
	assert.Equal(t, "Survey template not found", Message(err))

	resp, err := svc.Submit(ctx, empID, SurveySubmission{
		TemplateID: tpl.ID,
		ShiftID:    &ts.ID,
		Answers: []AnswerInput{
			{QuestionID: tpl.Questions[0].ID, Rating: ptr(4)},
			{QuestionID: tpl.Questions[1].ID, Text: ptr("quiet day")},
		},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Answers, 2)
	assert.True(t, resp.SubmittedAt.Equal(clock.Now()))
	require.NotNil(t, resp.TimesheetID)

	stored, err := env.Repo.SurveyAnswers(ctx, resp.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	after, err := env.Repo.TimesheetByID(ctx, ts.ID)
	require.NoError(t, err)
	assert.True(t, after.SurveyCompleted)
}
