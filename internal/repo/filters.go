package repo

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Filters compile to gorm scopes; every request value travels as a bound
// parameter.

type ExpenseFilter struct {
	UserID   *uuid.UUID
	Status   string
	Category string
	From     *time.Time
	Until    *time.Time // exclusive
}

func (f ExpenseFilter) Scope(db *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		db = db.Where("expenses.user_id = ?", *f.UserID)
	}
	if f.Status != "" {
		db = db.Where("expenses.status = ?", f.Status)
	}
	if f.Category != "" {
		db = db.Where("expenses.category = ?", f.Category)
	}
	if f.From != nil {
		db = db.Where("expenses.expense_date >= ?", *f.From)
	}
	if f.Until != nil {
		db = db.Where("expenses.expense_date < ?", *f.Until)
	}
	return db
}

type JobFilter struct {
	AssignedTo *uuid.UUID
	Status     string
	ClientID   *uuid.UUID
	Query      string
}

func (f JobFilter) Scope(db *gorm.DB) *gorm.DB {
	if f.AssignedTo != nil {
		db = db.Where("jobs.assigned_to = ?", *f.AssignedTo)
	}
	if f.Status != "" {
		db = db.Where("jobs.status = ?", f.Status)
	}
	if f.ClientID != nil {
		db = db.Where("jobs.client_id = ?", *f.ClientID)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("(LOWER(jobs.title) LIKE ? OR LOWER(jobs.description) LIKE ?)", like, like)
	}
	return db
}

type TimesheetFilter struct {
	UserID   *uuid.UUID
	From     *time.Time
	Until    *time.Time // exclusive
	OpenOnly bool
}

func (f TimesheetFilter) Scope(db *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		db = db.Where("timesheets.user_id = ?", *f.UserID)
	}
	if f.From != nil {
		db = db.Where("timesheets.clock_in_time >= ?", *f.From)
	}
	if f.Until != nil {
		db = db.Where("timesheets.clock_in_time < ?", *f.Until)
	}
	if f.OpenOnly {
		db = db.Where("timesheets.clock_out_time IS NULL")
	}
	return db
}

type CardFilter struct {
	AssignedTo *uuid.UUID
}

func (f CardFilter) Scope(db *gorm.DB) *gorm.DB {
	if f.AssignedTo != nil {
		db = db.Where("corporate_cards.assigned_to = ?", *f.AssignedTo)
	}
	return db
}
