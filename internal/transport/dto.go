package transport

import (
	"bytes"
	"encoding/json"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateExpenseRequest struct {
	Date        string   `json:"date"`
	Amount      *float64 `json:"amount"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	ReceiptURL  *string  `json:"receiptUrl"`
	CardID      *string  `json:"cardId"`
}

// NullableString records whether the key was present at all, so that an
// explicit null can be told apart from an omitted field.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

type PatchExpenseRequest struct {
	Date        *string        `json:"date"`
	Amount      *float64       `json:"amount"`
	Category    *string        `json:"category"`
	Description *string        `json:"description"`
	ReceiptURL  *string        `json:"receiptUrl"`
	CardID      NullableString `json:"cardId"`
}

type RejectExpenseRequest struct {
	Reason string `json:"reason"`
}

type CreateJobRequest struct {
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	ClientID         *string `json:"clientId"`
	AssigneeID       *string `json:"assigneeId"`
	When             *string `json:"when"`
	ScheduledEndDate *string `json:"scheduledEndDate"`
	PickupLocation   string  `json:"pickupLocation"`
	Destination      string  `json:"destination"`
	Notes            string  `json:"notes"`
	Priority         string  `json:"priority"`
}

type AssignJobRequest struct {
	AssigneeID *string `json:"assigneeId"`
}

type ClockInRequest struct {
	JobID    *string  `json:"jobId"`
	ClientID *string  `json:"clientId"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Accuracy *float64 `json:"accuracy"`
}

type AnswerRequest struct {
	QuestionID string  `json:"questionId"`
	Text       *string `json:"text"`
	Rating     *int    `json:"rating"`
}

type SurveyAnswersRequest struct {
	TemplateID string          `json:"templateId"`
	Answers    []AnswerRequest `json:"answers"`
}

type ClockOutRequest struct {
	ShiftID       *string               `json:"shiftId"`
	Lat           *float64              `json:"lat"`
	Lng           *float64              `json:"lng"`
	Accuracy      *float64              `json:"accuracy"`
	SurveyAnswers *SurveyAnswersRequest `json:"surveyAnswers"`
}

type PositionRequest struct {
	ShiftID  *string  `json:"shiftId"`
	TS       *string  `json:"ts"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
	Accuracy *float64 `json:"accuracy"`
	Speed    *float64 `json:"speed"`
	Heading  *float64 `json:"heading"`
	Address  *string  `json:"address"`
}

type SurveyResponseRequest struct {
	TemplateID string          `json:"templateId"`
	ShiftID    *string         `json:"shiftId"`
	Answers    []AnswerRequest `json:"answers"`
}

type CreateQuestionRequest struct {
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	Options    []string `json:"options"`
	IsRequired bool     `json:"isRequired"`
	OrderIndex *int     `json:"orderIndex"`
}

type CreateTemplateRequest struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	IsMandatory bool                    `json:"isMandatory"`
	Questions   []CreateQuestionRequest `json:"questions"`
}

type CreateCardRequest struct {
	CardName     string   `json:"cardName"`
	LastFour     string   `json:"lastFour"`
	AssignedTo   *string  `json:"assignedTo"`
	MonthlyLimit *float64 `json:"monthlyLimit"`
}
