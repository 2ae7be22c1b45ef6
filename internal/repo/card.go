package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fieldops/internal/models"
)

// SpendDelta is one server-side increment of a card's current_month_spend.
type SpendDelta struct {
	CardID uuid.UUID
	Delta  float64
}

func (r *GormRepo) CardByID(ctx context.Context, id uuid.UUID) (*models.Card, error) {
	var card models.Card
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *GormRepo) CreateCard(ctx context.Context, card *models.Card) error {
	return translate(r.DB.WithContext(ctx).Create(card).Error)
}

func (r *GormRepo) ListCards(ctx context.Context, f CardFilter) ([]models.Card, error) {
	var cards []models.Card
	err := r.DB.WithContext(ctx).
		Scopes(f.Scope).
		Preload("Assignee").
		Order("corporate_cards.card_name ASC").
		Find(&cards).Error
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// ApplySpend never reads the current value; each delta is added by the store.
func (r *GormRepo) ApplySpend(ctx context.Context, deltas []SpendDelta) error {
	db := r.DB.WithContext(ctx)
	for _, d := range deltas {
		if d.Delta == 0 {
			continue
		}
		res := db.Model(&models.Card{}).
			Where("id = ?", d.CardID).
			Update("current_month_spend", gorm.Expr("current_month_spend + ?", d.Delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}
