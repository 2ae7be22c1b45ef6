package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	JobAssigned   = "assigned"
	JobAccepted   = "accepted"
	JobDeclined   = "declined"
	JobInProgress = "in_progress"
	JobCompleted  = "completed"
	JobClosed     = "closed"
)

var JobPriorities = []string{"low", "medium", "high", "urgent"}

type Job struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Title            string     `gorm:"not null"`
	Description      string     `gorm:"type:text;not null"`
	ClientID         *uuid.UUID `gorm:"type:uuid;index"`
	AssignedTo       *uuid.UUID `gorm:"type:uuid;index"`
	AssignedBy       *uuid.UUID `gorm:"type:uuid"`
	Status           string     `gorm:"not null;index"`
	Priority         string     `gorm:"not null"`
	ScheduledDate    *time.Time `gorm:"index"`
	ScheduledEndDate *time.Time
	PickupLocation   string
	Destination      string
	Notes            string `gorm:"type:text"`
	AcceptedAt       *time.Time
	StartedAt        *time.Time
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Client   *Client `gorm:"foreignKey:ClientID"`
	Assignee *User   `gorm:"foreignKey:AssignedTo"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	ensureID(&j.ID)
	return nil
}

func (Job) TableName() string { return "jobs" }
