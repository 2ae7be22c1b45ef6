package transport

import (
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/service"
)

const DateLayout = "2006-01-02"

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func PaginationOf[T any](p *service.Page[T]) Pagination {
	return Pagination{Page: p.Page, Limit: p.Limit, Total: p.Total, TotalPages: p.TotalPages}
}

type UserView struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	EmployeeID string    `json:"employeeId"`
	FullName   string    `json:"fullName"`
}

func UserOf(i service.Identity) UserView {
	return UserView{
		ID:         i.ID,
		Email:      i.Email,
		Role:       i.Role.String(),
		FirstName:  i.FirstName,
		LastName:   i.LastName,
		EmployeeID: i.EmployeeID,
		FullName:   i.FullName(),
	}
}

type PersonView struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email,omitempty"`
	EmployeeID string `json:"employeeId,omitempty"`
	FullName   string `json:"fullName"`
}

func personOf(u *models.User) *PersonView {
	if u == nil {
		return nil
	}
	return &PersonView{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Email:      u.Email,
		EmployeeID: u.EmployeeID,
		FullName:   u.FullName(),
	}
}

type CardRef struct {
	Name     string `json:"name"`
	LastFour string `json:"lastFour"`
}

type ExpenseView struct {
	ID              uuid.UUID   `json:"id"`
	Date            string      `json:"date"`
	Amount          float64     `json:"amount"`
	Category        string      `json:"category"`
	Description     string      `json:"description"`
	ReceiptURL      *string     `json:"receiptUrl"`
	Status          string      `json:"status"`
	ApprovedAt      *time.Time  `json:"approvedAt"`
	RejectionReason *string     `json:"rejectionReason"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
	User            *PersonView `json:"user"`
	Card            *CardRef    `json:"card"`
	Approver        *PersonView `json:"approver"`
}

func ExpenseOf(e *models.Expense) ExpenseView {
	v := ExpenseView{
		ID:              e.ID,
		Date:            e.ExpenseDate.UTC().Format(DateLayout),
		Amount:          e.Amount,
		Category:        e.Category,
		Description:     e.Description,
		ReceiptURL:      e.ReceiptURL,
		Status:          e.Status,
		ApprovedAt:      e.ApprovedAt,
		RejectionReason: e.RejectionReason,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
		User:            personOf(e.User),
		Approver:        personOf(e.Approver),
	}
	if e.Card != nil {
		v.Card = &CardRef{Name: e.Card.CardName, LastFour: e.Card.LastFourDigits}
	}
	return v
}

func ExpensesOf(items []models.Expense) []ExpenseView {
	out := make([]ExpenseView, 0, len(items))
	for i := range items {
		out = append(out, ExpenseOf(&items[i]))
	}
	return out
}

type JobLocation struct {
	Label   string `json:"label"`
	Address string `json:"address"`
}

type JobView struct {
	ID               uuid.UUID     `json:"id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	ClientID         *uuid.UUID    `json:"clientId"`
	ClientName       *string       `json:"clientName"`
	When             *time.Time    `json:"when"`
	ScheduledEndDate *time.Time    `json:"scheduledEndDate"`
	Status           string        `json:"status"`
	Priority         string        `json:"priority"`
	AssigneeID       *uuid.UUID    `json:"assigneeId"`
	AssigneeName     *string       `json:"assigneeName"`
	PickupLocation   string        `json:"pickupLocation"`
	Destination      string        `json:"destination"`
	Notes            string        `json:"notes"`
	AcceptedAt       *time.Time    `json:"acceptedAt,omitempty"`
	StartedAt        *time.Time    `json:"startedAt,omitempty"`
	CompletedAt      *time.Time    `json:"completedAt,omitempty"`
	Locations        []JobLocation `json:"locations"`
}

func JobOf(j *models.Job) JobView {
	v := JobView{
		ID:               j.ID,
		Title:            j.Title,
		Description:      j.Description,
		ClientID:         j.ClientID,
		When:             j.ScheduledDate,
		ScheduledEndDate: j.ScheduledEndDate,
		Status:           j.Status,
		Priority:         j.Priority,
		AssigneeID:       j.AssignedTo,
		PickupLocation:   j.PickupLocation,
		Destination:      j.Destination,
		Notes:            j.Notes,
		AcceptedAt:       j.AcceptedAt,
		StartedAt:        j.StartedAt,
		CompletedAt:      j.CompletedAt,
		Locations:        []JobLocation{},
	}
	if j.Client != nil {
		v.ClientName = &j.Client.Name
	}
	if j.Assignee != nil {
		name := j.Assignee.FullName()
		v.AssigneeName = &name
	}
	if j.PickupLocation != "" && j.Destination != "" {
		v.Locations = []JobLocation{
			{Label: "Pickup", Address: j.PickupLocation},
			{Label: "Destination", Address: j.Destination},
		}
	}
	return v
}

// JobResult is a single job plus the outcome message of the call.
type JobResult struct {
	JobView
	Message string `json:"message"`
}

func JobsOf(items []models.Job) []JobView {
	out := make([]JobView, 0, len(items))
	for i := range items {
		out = append(out, JobOf(&items[i]))
	}
	return out
}

type Point struct {
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Accuracy *float64 `json:"accuracy,omitempty"`
}

func pointOf(lat, lng, accuracy *float64) *Point {
	if lat == nil || lng == nil {
		return nil
	}
	return &Point{Lat: *lat, Lng: *lng, Accuracy: accuracy}
}

func shiftStatus(ts *models.Timesheet) string {
	if ts.IsOpen() {
		return "Open"
	}
	return "Closed"
}

type TimesheetView struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               uuid.UUID  `json:"userId"`
	UserName             *string    `json:"userName"`
	JobID                *uuid.UUID `json:"jobId"`
	JobTitle             *string    `json:"jobTitle"`
	ClientID             *uuid.UUID `json:"clientId"`
	ClientName           *string    `json:"clientName"`
	ClockInTime          time.Time  `json:"clockInTime"`
	ClockInLoc           *Point     `json:"clockInLoc"`
	ClockOutTime         *time.Time `json:"clockOutTime"`
	ClockOutLoc          *Point     `json:"clockOutLoc"`
	DurationSec          *int64     `json:"durationSec"`
	Status               string     `json:"status"`
	SurveyCompleted      bool       `json:"surveyCompleted"`
	Notes                string     `json:"notes"`
	BreakDurationMinutes int        `json:"breakDurationMinutes"`
}

func TimesheetOf(ts *models.Timesheet) TimesheetView {
	v := TimesheetView{
		ID:                   ts.ID,
		UserID:               ts.UserID,
		JobID:                ts.JobID,
		ClientID:             ts.ClientID,
		ClockInTime:          ts.ClockInTime,
		ClockInLoc:           pointOf(ts.ClockInLat, ts.ClockInLng, nil),
		ClockOutTime:         ts.ClockOutTime,
		ClockOutLoc:          pointOf(ts.ClockOutLat, ts.ClockOutLng, nil),
		Status:               shiftStatus(ts),
		SurveyCompleted:      ts.SurveyCompleted,
		Notes:                ts.Notes,
		BreakDurationMinutes: ts.BreakDurationMinutes,
	}
	if ts.ClockOutTime != nil {
		sec := int64(ts.ClockOutTime.Sub(ts.ClockInTime) / time.Second)
		v.DurationSec = &sec
	}
	if ts.User != nil {
		name := ts.User.FullName()
		v.UserName = &name
	}
	if ts.Job != nil {
		v.JobTitle = &ts.Job.Title
	}
	if ts.Client != nil {
		v.ClientName = &ts.Client.Name
	}
	return v
}

func TimesheetsOf(items []models.Timesheet) []TimesheetView {
	out := make([]TimesheetView, 0, len(items))
	for i := range items {
		out = append(out, TimesheetOf(&items[i]))
	}
	return out
}

type ClockInResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	JobID      *uuid.UUID `json:"jobId"`
	ClientID   *uuid.UUID `json:"clientId"`
	ClockInAt  time.Time  `json:"clockInAt"`
	ClockInLoc *Point     `json:"clockInLoc"`
	Status     string     `json:"status"`
	Message    string     `json:"message"`
}

func ClockInOf(ts *models.Timesheet, accuracy *float64) ClockInResponse {
	return ClockInResponse{
		ID:         ts.ID,
		UserID:     ts.UserID,
		JobID:      ts.JobID,
		ClientID:   ts.ClientID,
		ClockInAt:  ts.ClockInTime,
		ClockInLoc: pointOf(ts.ClockInLat, ts.ClockInLng, accuracy),
		Status:     shiftStatus(ts),
		Message:    "Clocked in successfully",
	}
}

type ClockOutResponse struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"userId"`
	JobID           *uuid.UUID `json:"jobId"`
	ClientID        *uuid.UUID `json:"clientId"`
	ClockInAt       time.Time  `json:"clockInAt"`
	ClockOutAt      *time.Time `json:"clockOutAt"`
	ClockOutLoc     *Point     `json:"clockOutLoc"`
	DurationSec     int64      `json:"durationSec"`
	Status          string     `json:"status"`
	SurveyCompleted bool       `json:"surveyCompleted"`
	Message         string     `json:"message"`
}

func ClockOutOf(res *service.ClockOutResult, accuracy *float64) ClockOutResponse {
	ts := res.Timesheet
	return ClockOutResponse{
		ID:              ts.ID,
		UserID:          ts.UserID,
		JobID:           ts.JobID,
		ClientID:        ts.ClientID,
		ClockInAt:       ts.ClockInTime,
		ClockOutAt:      ts.ClockOutTime,
		ClockOutLoc:     pointOf(ts.ClockOutLat, ts.ClockOutLng, accuracy),
		DurationSec:     res.DurationSec,
		Status:          shiftStatus(ts),
		SurveyCompleted: ts.SurveyCompleted,
		Message:         "Clocked out successfully",
	}
}

type LocationView struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	TimesheetID *uuid.UUID `json:"timesheetId"`
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	Accuracy    *float64   `json:"accuracy"`
	Speed       *float64   `json:"speed"`
	Heading     *float64   `json:"heading"`
	Address     *string    `json:"address"`
	RecordedAt  time.Time  `json:"recordedAt"`
}

func LocationOf(u *models.LocationUpdate) LocationView {
	return LocationView{
		ID:          u.ID,
		UserID:      u.UserID,
		TimesheetID: u.TimesheetID,
		Lat:         u.Latitude,
		Lng:         u.Longitude,
		Accuracy:    u.Accuracy,
		Speed:       u.Speed,
		Heading:     u.Heading,
		Address:     u.Address,
		RecordedAt:  u.RecordedAt,
	}
}

func LocationsOf(items []models.LocationUpdate) []LocationView {
	out := make([]LocationView, 0, len(items))
	for i := range items {
		out = append(out, LocationOf(&items[i]))
	}
	return out
}

type QuestionView struct {
	ID         uuid.UUID `json:"id"`
	Text       string    `json:"text"`
	Type       string    `json:"type"`
	Options    []string  `json:"options"`
	IsRequired bool      `json:"isRequired"`
	OrderIndex int       `json:"orderIndex"`
}

type TemplateView struct {
	ID            uuid.UUID      `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	IsMandatory   bool           `json:"isMandatory"`
	CreatedByName *string        `json:"createdByName"`
	CreatedAt     time.Time      `json:"createdAt"`
	Questions     []QuestionView `json:"questions"`
}

func TemplateOf(t *models.SurveyTemplate) TemplateView {
	v := TemplateView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsMandatory: t.IsMandatory,
		CreatedAt:   t.CreatedAt,
		Questions:   make([]QuestionView, 0, len(t.Questions)),
	}
	if t.Creator != nil {
		name := t.Creator.FullName()
		v.CreatedByName = &name
	}
	for _, q := range t.Questions {
		v.Questions = append(v.Questions, QuestionView{
			ID:         q.ID,
			Text:       q.QuestionText,
			Type:       q.QuestionType,
			Options:    q.OptionList(),
			IsRequired: q.IsRequired,
			OrderIndex: q.OrderIndex,
		})
	}
	return v
}

func TemplatesOf(items []models.SurveyTemplate) []TemplateView {
	out := make([]TemplateView, 0, len(items))
	for i := range items {
		out = append(out, TemplateOf(&items[i]))
	}
	return out
}

type SurveyResponseView struct {
	ResponseID   uuid.UUID  `json:"responseId"`
	TemplateID   uuid.UUID  `json:"templateId"`
	ShiftID      *uuid.UUID `json:"shiftId"`
	AnswersCount int        `json:"answersCount"`
	SubmittedAt  time.Time  `json:"submittedAt"`
	Message      string     `json:"message"`
}

func SurveyResponseOf(r *models.SurveyResponse) SurveyResponseView {
	return SurveyResponseView{
		ResponseID:   r.ID,
		TemplateID:   r.TemplateID,
		ShiftID:      r.TimesheetID,
		AnswersCount: len(r.Answers),
		SubmittedAt:  r.SubmittedAt,
		Message:      "Survey response submitted successfully",
	}
}

type CardView struct {
	ID                uuid.UUID  `json:"id"`
	CardName          string     `json:"cardName"`
	LastFour          string     `json:"lastFour"`
	AssignedTo        *uuid.UUID `json:"assignedTo"`
	AssigneeName      *string    `json:"assigneeName"`
	IsActive          bool       `json:"isActive"`
	MonthlyLimit      float64    `json:"monthlyLimit"`
	CurrentMonthSpend float64    `json:"currentMonthSpend"`
}

func CardOf(c *models.Card) CardView {
	v := CardView{
		ID:                c.ID,
		CardName:          c.CardName,
		LastFour:          c.LastFourDigits,
		AssignedTo:        c.AssignedTo,
		IsActive:          c.IsActive,
		MonthlyLimit:      c.MonthlyLimit,
		CurrentMonthSpend: c.CurrentMonthSpend,
	}
	if c.Assignee != nil {
		name := c.Assignee.FullName()
		v.AssigneeName = &name
	}
	return v
}

func CardsOf(items []models.Card) []CardView {
	out := make([]CardView, 0, len(items))
	for i := range items {
		out = append(out, CardOf(&items[i]))
	}
	return out
}

type ReconciliationView struct {
	Card          CardView `json:"card"`
	RecordedSpend float64  `json:"recordedSpend"`
	ComputedSpend float64  `json:"computedSpend"`
	Balanced      bool     `json:"balanced"`
}

func ReconciliationOf(r *service.Reconciliation) ReconciliationView {
	return ReconciliationView{
		Card:          CardOf(r.Card),
		RecordedSpend: r.Recorded,
		ComputedSpend: r.Computed,
		Balanced:      r.Balanced(),
	}
}
