package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/fieldops/internal/models"
)

func (r *GormRepo) CreateExpense(ctx context.Context, e *models.Expense) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *GormRepo) ExpenseByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	var e models.Expense
	err := r.DB.WithContext(ctx).
		Preload("User").Preload("Card").Preload("Approver").
		Where("expenses.id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// LockExpense reads the row with FOR UPDATE; call it inside Tx.
func (r *GormRepo) LockExpense(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	var e models.Expense
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// UpdatePendingExpense applies fields only while the row is still pending and
// reports whether it did.
func (r *GormRepo) UpdatePendingExpense(ctx context.Context, id uuid.UUID, fields map[string]any) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.Expense{}).
		Where("id = ? AND status = ?", id, models.ExpensePending).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) DeletePendingExpense(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("id = ? AND status = ?", id, models.ExpensePending).
		Delete(&models.Expense{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) ListExpenses(ctx context.Context, f ExpenseFilter, offset, limit int) ([]models.Expense, int64, error) {
	q := r.DB.WithContext(ctx).Model(&models.Expense{}).Scopes(f.Scope).Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Expense
	err := q.Preload("User").Preload("Card").Preload("Approver").
		Order("expenses.created_at DESC").
		Offset(offset).Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// SpendOnCard sums non-rejected expenses charged to the card.
func (r *GormRepo) SpendOnCard(ctx context.Context, cardID uuid.UUID) (float64, error) {
	var sum float64
	err := r.DB.WithContext(ctx).Model(&models.Expense{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("card_id = ? AND status <> ?", cardID, models.ExpenseRejected).
		Scan(&sum).Error
	return sum, err
}

func stamp(now time.Time) *time.Time {
	t := now.UTC()
	return &t
}
