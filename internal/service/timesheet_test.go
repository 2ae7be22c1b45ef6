package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/testdb"
)

func TestClockIn_OneOpenTimesheet(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	clock := newClock()
	svc := &TimesheetService{Repo: env.Repo, Clock: clock.Now}
	_, empID := env.user(t, "employee", "emp@company.com")
	client := testdb.Client(t, env.DB, "Acme")

	ts, err := svc.ClockIn(ctx, empID, ClockInInput{ClientID: &client.ID, Lat: ptr(52.1), Lng: ptr(4.3), Accuracy: ptr(8.0)})
	require.NoError(t, err)
	assert.True(t, ts.IsOpen())
	assert.True(t, ts.ClockInTime.Equal(clock.Now()))

	_, err = svc.ClockIn(ctx, empID, ClockInInput{})
	assert.ErrorIs(t, err, ErrAlreadyOpen)
	assert.Equal(t, "You already have an open timesheet", Message(err))

	var samples []models.LocationUpdate
	require.NoError(t, env.DB.Where("timesheet_id = ?", ts.ID).Find(&samples).Error)
	require.Len(t, samples, 1)
	assert.InDelta(t, 52.1, samples[0].Latitude, 1e-9)
}

func TestClockIn_Rejects(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	svc := &TimesheetService{Repo: env.Repo}
	_, mgrID := env.user(t, "manager", "mgr@company.com")
	_, empID := env.user(t, "employee", "emp@company.com")

	_, err := svc.ClockIn(ctx, mgrID, ClockInInput{})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Only employees can clock in", Message(err))

	_, err = svc.ClockIn(ctx, empID, ClockInInput{JobID: ptr(uuid.New())})
	assert.Equal(t, "Job not found", Message(err))

	_, err = svc.ClockIn(ctx, empID, ClockInInput{ClientID: ptr(uuid.New())})
	assert.Equal(t, "Client not found", Message(err))

	var n int64
	require.NoError(t, env.DB.Model(&models.Timesheet{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestClockOut_ComputesDuration(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	clock := newClock()
	svc := &TimesheetService{Repo: env.Repo, Clock: clock.Now}
	_, empID := env.user(t, "employee", "emp@company.com")

	_, err := svc.ClockOut(ctx, empID, ClockOutInput{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "No open timesheet found", Message(err))

	ts, err := svc.ClockIn(ctx, empID, ClockInInput{})
	require.NoError(t, err)

	clock.Advance(2*time.Hour + 15*time.Minute + 30*time.Second)
	res, err := svc.ClockOut(ctx, empID, ClockOutInput{ShiftID: &ts.ID, Lat: ptr(0.0), Lng: ptr(0.0)})
	require.NoError(t, err)
	assert.EqualValues(t, 8130, res.DurationSec)
	assert.False(t, res.Timesheet.IsOpen())
	require.NotNil(t, res.Timesheet.TotalDurationMinutes)
	assert.Equal(t, 135, *res.Timesheet.TotalDurationMinutes)
	require.NotNil(t, res.Timesheet.ClockOutLat)
	assert.Zero(t, *res.Timesheet.ClockOutLat)
	assert.False(t, res.Timesheet.SurveyCompleted)

	_, err = svc.ClockOut(ctx, empID, ClockOutInput{ShiftID: &ts.ID})
	assert.Equal(t, "Shift not found or already closed", Message(err))

	_, err = svc.ClockIn(ctx, empID, ClockInInput{})
	assert.NoError(t, err)
}

func TestClockOut_OtherUsersShift(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	svc := &TimesheetService{Repo: env.Repo}
	_, aliceID := env.user(t, "employee", "alice@company.com")
	_, bobID := env.user(t, "employee", "bob@company.com")

	ts, err := svc.ClockIn(ctx, aliceID, ClockInInput{})
	require.NoError(t, err)

	_, err = svc.ClockOut(ctx, bobID, ClockOutInput{ShiftID: &ts.ID})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Shift not found or already closed", Message(err))
}

func TestClockOut_WithSurvey(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	svc := &TimesheetService{Repo: env.Repo}
	surveys := &SurveyService{Repo: env.Repo}
	_, mgrID := env.user(t, "manager", "mgr@company.com")
	_, empID := env.user(t, "employee", "emp@company.com")

	tpl, err := surveys.CreateTemplate(ctx, mgrID, NewTemplate{
		Title:       "End of shift",
		IsMandatory: true,
		Questions:   []NewQuestion{{Text: "How was it?", Type: "rating", IsRequired: true}},
	})
	require.NoError(t, err)

	ts, err := svc.ClockIn(ctx, empID, ClockInInput{})
	require.NoError(t, err)

	_, err = svc.ClockOut(ctx, empID, ClockOutInput{Survey: &SurveyAnswers{TemplateID: uuid.New()}})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Survey template not found", Message(err))

	open, err := env.Repo.OpenTimesheet(ctx, empID.ID)
	require.NoError(t, err, "failed survey must roll back the clock-out")
	assert.Equal(t, ts.ID, open.ID)

	res, err := svc.ClockOut(ctx, empID, ClockOutInput{Survey: &SurveyAnswers{
		TemplateID: tpl.ID,
		Answers:    []AnswerInput{{QuestionID: tpl.Questions[0].ID, Rating: ptr(5)}},
	}})
	require.NoError(t, err)
	assert.True(t, res.Timesheet.SurveyCompleted)

	var resp models.SurveyResponse
	require.NoError(t, env.DB.Where("timesheet_id = ?", ts.ID).First(&resp).Error)
	assert.Equal(t, tpl.ID, resp.TemplateID)
}

func TestTimesheetList_Scoping(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	clock := newClock()
	svc := &TimesheetService{Repo: env.Repo, Clock: clock.Now}
	_, aliceID := env.user(t, "employee", "alice@company.com")
	_, bobID := env.user(t, "employee", "bob@company.com")
	_, acctID := env.user(t, "accountant", "acct@company.com")
	_, mgrID := env.user(t, "manager", "mgr@company.com")

	_, err := svc.ClockIn(ctx, aliceID, ClockInInput{})
	require.NoError(t, err)
	clock.Advance(time.Hour)
	_, err = svc.ClockOut(ctx, aliceID, ClockOutInput{})
	require.NoError(t, err)
	clock.Advance(time.Hour)
	open, err := svc.ClockIn(ctx, aliceID, ClockInInput{})
	require.NoError(t, err)
	clock.Advance(time.Minute)
	bobOpen, err := svc.ClockIn(ctx, bobID, ClockInInput{})
	require.NoError(t, err)

	own, err := svc.List(ctx, aliceID, TimesheetQuery{UserID: &bobID.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, own.Total)
	for _, ts := range own.Items {
		assert.Equal(t, aliceID.ID, ts.UserID)
	}

	acct, err := svc.List(ctx, acctID, TimesheetQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, acct.Total)

	filtered, err := svc.List(ctx, acctID, TimesheetQuery{UserID: &bobID.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, filtered.Total)

	all, err := svc.List(ctx, mgrID, TimesheetQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)
	require.NotNil(t, all.Items[0].User)

	current, err := svc.List(ctx, aliceID, TimesheetQuery{Current: true})
	require.NoError(t, err)
	require.Len(t, current.Items, 1)
	assert.Equal(t, open.ID, current.Items[0].ID)
	assert.Equal(t, 1, current.Limit)

	latest, err := svc.List(ctx, mgrID, TimesheetQuery{Current: true})
	require.NoError(t, err)
	require.Len(t, latest.Items, 1)
	assert.Equal(t, bobOpen.ID, latest.Items[0].ID)
	assert.EqualValues(t, 2, latest.Total)
}
