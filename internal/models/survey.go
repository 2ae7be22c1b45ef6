package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuestionText   = "text"
	QuestionRating = "rating"
	QuestionChoice = "choice"
)

type SurveyTemplate struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title       string    `gorm:"not null"`
	Description string
	IsMandatory bool       `gorm:"not null"`
	IsActive    bool       `gorm:"not null"`
	CreatedBy   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Creator   *User            `gorm:"foreignKey:CreatedBy"`
	Questions []SurveyQuestion `gorm:"foreignKey:TemplateID"`
}

func (s *SurveyTemplate) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (SurveyTemplate) TableName() string { return "survey_templates" }

type SurveyQuestion struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	TemplateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	QuestionText string    `gorm:"not null"`
	QuestionType string    `gorm:"not null"`
	Options      datatypes.JSON
	IsRequired   bool `gorm:"not null"`
	OrderIndex   int  `gorm:"not null;default:0"`
}

func (q *SurveyQuestion) BeforeCreate(tx *gorm.DB) error {
	ensureID(&q.ID)
	return nil
}

func (SurveyQuestion) TableName() string { return "survey_questions" }

// OptionList decodes Options; a missing or malformed column reads as no options.
func (q SurveyQuestion) OptionList() []string {
	if len(q.Options) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(q.Options, &out); err != nil {
		return nil
	}
	return out
}

type SurveyResponse struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TimesheetID *uuid.UUID `gorm:"type:uuid;index"`
	TemplateID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	JobID       *uuid.UUID `gorm:"type:uuid"`
	ClientID    *uuid.UUID `gorm:"type:uuid"`
	SubmittedAt time.Time  `gorm:"not null"`

	Answers []SurveyAnswer `gorm:"foreignKey:ResponseID"`
}

func (s *SurveyResponse) BeforeCreate(tx *gorm.DB) error {
	ensureID(&s.ID)
	return nil
}

func (SurveyResponse) TableName() string { return "survey_responses" }

type SurveyAnswer struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ResponseID   uuid.UUID `gorm:"type:uuid;not null;index"`
	QuestionID   uuid.UUID `gorm:"type:uuid;not null"`
	AnswerText   *string
	AnswerRating *int
}

func (a *SurveyAnswer) BeforeCreate(tx *gorm.DB) error {
	ensureID(&a.ID)
	return nil
}

func (SurveyAnswer) TableName() string { return "survey_answers" }
