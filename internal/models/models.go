package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// User rows are provisioned out of band (cmd/adduser); the API only reads them.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;index"`
	FirstName    string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	EmployeeID   string    `gorm:"column:employee_id"`
	IsActive     bool      `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	ensureID(&u.ID)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	return nil
}

func (User) TableName() string { return "users" }

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Session is a login. It is never revoked; it only lapses at ExpiresAt.
type Session struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash  string    `gorm:"uniqueIndex;not null"`
	ExpiresAt  time.Time `gorm:"not null;index"`
	LastUsedAt *time.Time
	CreatedAt  time.Time

	User *User `gorm:"foreignKey:UserID"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (Session) TableName() string { return "user_sessions" }

type Client struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null"`
	Address   string
	CreatedAt time.Time
}

func (c *Client) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (Client) TableName() string { return "clients" }

// Card.CurrentMonthSpend equals the sum of non-rejected expense amounts
// charged to the card; it only moves through server-side increments.
type Card struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CardName          string     `gorm:"not null"`
	LastFourDigits    string     `gorm:"size:4;not null"`
	AssignedTo        *uuid.UUID `gorm:"type:uuid;index"`
	IsActive          bool       `gorm:"not null"`
	MonthlyLimit      float64    `gorm:"type:numeric(12,2);not null;default:0"`
	CurrentMonthSpend float64    `gorm:"type:numeric(12,2);not null;default:0"`
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Assignee *User `gorm:"foreignKey:AssignedTo"`
}

func (c *Card) BeforeCreate(tx *gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (Card) TableName() string { return "corporate_cards" }
