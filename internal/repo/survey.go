package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/fieldops/internal/models"
)

func orderedQuestions(db *gorm.DB) *gorm.DB {
	return db.Order("survey_questions.order_index ASC")
}

func (r *GormRepo) ActiveTemplates(ctx context.Context, mandatoryOnly bool) ([]models.SurveyTemplate, error) {
	q := r.DB.WithContext(ctx).
		Preload("Creator").
		Preload("Questions", orderedQuestions).
		Where("is_active = ?", true)
	if mandatoryOnly {
		q = q.Where("is_mandatory = ?", true)
	}

	var out []models.SurveyTemplate
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) ActiveTemplate(ctx context.Context, id uuid.UUID) (*models.SurveyTemplate, error) {
	var t models.SurveyTemplate
	err := r.DB.WithContext(ctx).
		Preload("Questions", orderedQuestions).
		Where("id = ? AND is_active = ?", id, true).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTemplate inserts the template and its Questions together.
func (r *GormRepo) CreateTemplate(ctx context.Context, t *models.SurveyTemplate) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func (r *GormRepo) CreateSurveyResponse(ctx context.Context, resp *models.SurveyResponse, answers []models.SurveyAnswer) error {
	db := r.DB.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(resp).Error; err != nil {
		return err
	}
	if len(answers) == 0 {
		return nil
	}
	for i := range answers {
		answers[i].ResponseID = resp.ID
	}
	return db.CreateInBatches(answers, 100).Error
}

func (r *GormRepo) SurveyAnswers(ctx context.Context, responseID uuid.UUID) ([]models.SurveyAnswer, error) {
	var out []models.SurveyAnswer
	err := r.DB.WithContext(ctx).Where("response_id = ?", responseID).Find(&out).Error
	return out, err
}
