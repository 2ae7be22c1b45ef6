package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// At most one Timesheet per user has a nil ClockOutTime; see repo.Migrate
// for the partial unique index backing that.
type Timesheet struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID               uuid.UUID  `gorm:"type:uuid;not null;index"`
	JobID                *uuid.UUID `gorm:"type:uuid;index"`
	ClientID             *uuid.UUID `gorm:"type:uuid;index"`
	ClockInTime          time.Time  `gorm:"not null;index"`
	ClockInLat           *float64   `gorm:"column:clock_in_location_lat"`
	ClockInLng           *float64   `gorm:"column:clock_in_location_lng"`
	ClockOutTime         *time.Time
	ClockOutLat          *float64 `gorm:"column:clock_out_location_lat"`
	ClockOutLng          *float64 `gorm:"column:clock_out_location_lng"`
	TotalDurationMinutes *int
	SurveyCompleted      bool `gorm:"not null"`
	Notes                string
	BreakDurationMinutes int `gorm:"not null;default:0"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	User   *User   `gorm:"foreignKey:UserID"`
	Job    *Job    `gorm:"foreignKey:JobID"`
	Client *Client `gorm:"foreignKey:ClientID"`
}

func (t *Timesheet) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}

func (Timesheet) TableName() string { return "timesheets" }

func (t Timesheet) IsOpen() bool { return t.ClockOutTime == nil }

// Duration runs to ClockOutTime, or to now while the timesheet is open.
func (t Timesheet) Duration(now time.Time) time.Duration {
	end := now
	if t.ClockOutTime != nil {
		end = *t.ClockOutTime
	}
	if end.Before(t.ClockInTime) {
		return 0
	}
	return end.Sub(t.ClockInTime)
}

type LocationUpdate struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	TimesheetID *uuid.UUID `gorm:"type:uuid;index"`
	Latitude    float64    `gorm:"not null"`
	Longitude   float64    `gorm:"not null"`
	Accuracy    *float64
	Speed       *float64
	Heading     *float64
	Address     *string
	RecordedAt  time.Time `gorm:"not null;index"`
}

func (l *LocationUpdate) BeforeCreate(tx *gorm.DB) error {
	ensureID(&l.ID)
	return nil
}

func (LocationUpdate) TableName() string { return "location_updates" }
