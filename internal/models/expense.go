package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ExpensePending  = "pending"
	ExpenseApproved = "approved"
	ExpenseRejected = "rejected"
)

type Expense struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	CardID          *uuid.UUID `gorm:"type:uuid;index"`
	ExpenseDate     time.Time  `gorm:"not null;index"`
	Amount          float64    `gorm:"type:numeric(12,2);not null"`
	Category        string     `gorm:"not null;index"`
	Description     string     `gorm:"not null"`
	ReceiptURL      *string
	Status          string     `gorm:"not null;index"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time `gorm:"index"`
	UpdatedAt       time.Time

	User     *User `gorm:"foreignKey:UserID"`
	Card     *Card `gorm:"foreignKey:CardID"`
	Approver *User `gorm:"foreignKey:ApprovedBy"`
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	ensureID(&e.ID)
	return nil
}

func (Expense) TableName() string { return "expenses" }

func (e Expense) IsPending() bool { return e.Status == ExpensePending }
