package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/repo"
	"github.com/Skotchmaster/fieldops/internal/roles"
	"github.com/Skotchmaster/fieldops/internal/util"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

type ExpenseService struct {
	Repo  *repo.GormRepo
	Clock func() time.Time
}

func (s *ExpenseService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

type NewExpense struct {
	Date        time.Time
	Amount      *float64
	Category    string
	Description string
	ReceiptURL  *string
	CardID      *uuid.UUID
}

// OptionalID distinguishes an absent field from an explicit null.
type OptionalID struct {
	Set bool
	ID  *uuid.UUID
}

type ExpensePatch struct {
	Date        *time.Time
	Amount      *float64
	Category    *string
	Description *string
	ReceiptURL  *string
	CardID      OptionalID
}

func (p ExpensePatch) empty() bool {
	return p.Date == nil && p.Amount == nil && p.Category == nil &&
		p.Description == nil && p.ReceiptURL == nil && !p.CardID.Set
}

type ExpenseQuery struct {
	UserID   *uuid.UUID
	Status   string
	Category string
	From     *time.Time
	To       *time.Time // exclusive
	Page     int
	Limit    int
}

type Page[T any] struct {
	Items      []T
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

var errExpenseNotFound = fail(ErrNotFound, "Expense not found")

func canSeeExpense(actor Identity, e *models.Expense) bool {
	return e.UserID == actor.ID || actor.Can(roles.ViewAllExpenses)
}

func checkCard(ctx context.Context, r *repo.GormRepo, actor Identity, id uuid.UUID) error {
	card, err := r.CardByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(ErrInvalidCard, "Invalid or unauthorized card")
		}
		return err
	}
	if !card.IsActive {
		return fail(ErrInvalidCard, "Invalid or unauthorized card")
	}
	if actor.Role != roles.Admin && (card.AssignedTo == nil || *card.AssignedTo != actor.ID) {
		return fail(ErrInvalidCard, "Invalid or unauthorized card")
	}
	return nil
}

func (s *ExpenseService) Create(ctx context.Context, actor Identity, in NewExpense) (*models.Expense, error) {
	l := logging.FromContext(ctx).With("svc", "expense.create", "user_id", actor.ID)

	category := strings.TrimSpace(in.Category)
	description := strings.TrimSpace(in.Description)
	if in.Date.IsZero() || in.Amount == nil || *in.Amount == 0 || category == "" || description == "" {
		return nil, fail(ErrValidation, "Date, amount, category, and description are required")
	}
	if round2(*in.Amount) <= 0 {
		return nil, fail(ErrValidation, "Amount must be greater than 0")
	}

	e := &models.Expense{
		UserID:      actor.ID,
		CardID:      in.CardID,
		ExpenseDate: in.Date.UTC(),
		Amount:      round2(*in.Amount),
		Category:    category,
		Description: description,
		ReceiptURL:  in.ReceiptURL,
		Status:      models.ExpensePending,
	}

	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		if e.CardID != nil {
			if err := checkCard(ctx, tx, actor, *e.CardID); err != nil {
				return err
			}
		}
		if err := tx.CreateExpense(ctx, e); err != nil {
			return fmt.Errorf("insert expense: %w", err)
		}
		return tx.ApplySpend(ctx, spendAdjustments(nil, 0, e.CardID, e.Amount))
	})
	if err != nil {
		return nil, err
	}

	l.Info("expense_created", "expense_id", e.ID, "amount", e.Amount)
	return s.Repo.ExpenseByID(ctx, e.ID)
}

func (s *ExpenseService) Get(ctx context.Context, actor Identity, id uuid.UUID) (*models.Expense, error) {
	e, err := s.Repo.ExpenseByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errExpenseNotFound
		}
		return nil, err
	}
	if !canSeeExpense(actor, e) {
		return nil, errExpenseNotFound
	}
	return e, nil
}

func (s *ExpenseService) List(ctx context.Context, actor Identity, q ExpenseQuery) (*Page[models.Expense], error) {
	f := repo.ExpenseFilter{
		UserID:   q.UserID,
		Status:   q.Status,
		Category: q.Category,
		From:     q.From,
	}
	if !actor.Can(roles.ViewAllExpenses) {
		f.UserID = &actor.ID
	}
	if q.To != nil {
		f.Until = q.To
	}

	page, limit := util.Normalize(q.Page, q.Limit)
	offset, _ := util.Calculate(page, limit)

	items, total, err := s.Repo.ListExpenses(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}
	return &Page[models.Expense]{
		Items:      items,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: util.TotalPages(total, limit),
	}, nil
}

func (s *ExpenseService) Update(ctx context.Context, actor Identity, id uuid.UUID, p ExpensePatch) (*models.Expense, error) {
	l := logging.FromContext(ctx).With("svc", "expense.update", "expense_id", id)

	if p.empty() {
		return nil, fail(ErrValidation, "No valid fields to update")
	}
	if p.Amount != nil && round2(*p.Amount) <= 0 {
		return nil, fail(ErrValidation, "Amount must be greater than 0")
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return nil, fail(ErrValidation, "Category cannot be empty")
	}
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		return nil, fail(ErrValidation, "Description cannot be empty")
	}

	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		e, err := tx.LockExpense(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errExpenseNotFound
			}
			return err
		}
		if !canSeeExpense(actor, e) {
			return errExpenseNotFound
		}
		if !e.IsPending() {
			return fail(ErrInvalidState, "Only pending expenses can be updated")
		}

		fields := map[string]any{}
		newCard, newAmount := e.CardID, e.Amount

		if p.Date != nil {
			fields["expense_date"] = p.Date.UTC()
		}
		if p.Amount != nil {
			newAmount = round2(*p.Amount)
			fields["amount"] = newAmount
		}
		if p.Category != nil {
			fields["category"] = strings.TrimSpace(*p.Category)
		}
		if p.Description != nil {
			fields["description"] = strings.TrimSpace(*p.Description)
		}
		if p.ReceiptURL != nil {
			fields["receipt_url"] = *p.ReceiptURL
		}
		if p.CardID.Set {
			newCard = p.CardID.ID
			if newCard != nil {
				if err := checkCard(ctx, tx, actor, *newCard); err != nil {
					return err
				}
				fields["card_id"] = *newCard
			} else {
				fields["card_id"] = nil
			}
		}

		ok, err := tx.UpdatePendingExpense(ctx, id, fields)
		if err != nil {
			return err
		}
		if !ok {
			return fail(ErrInvalidState, "Only pending expenses can be updated")
		}
		return tx.ApplySpend(ctx, spendAdjustments(e.CardID, e.Amount, newCard, newAmount))
	})
	if err != nil {
		return nil, err
	}

	l.Info("expense_updated")
	return s.Repo.ExpenseByID(ctx, id)
}

func (s *ExpenseService) Delete(ctx context.Context, actor Identity, id uuid.UUID) error {
	l := logging.FromContext(ctx).With("svc", "expense.delete", "expense_id", id)

	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		e, err := tx.LockExpense(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errExpenseNotFound
			}
			return err
		}
		if !canSeeExpense(actor, e) {
			return errExpenseNotFound
		}
		if !e.IsPending() {
			return fail(ErrInvalidState, "Only pending expenses can be deleted")
		}

		ok, err := tx.DeletePendingExpense(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return fail(ErrInvalidState, "Only pending expenses can be deleted")
		}
		return tx.ApplySpend(ctx, spendAdjustments(e.CardID, e.Amount, nil, 0))
	})
	if err != nil {
		return err
	}

	l.Info("expense_deleted")
	return nil
}

func (s *ExpenseService) Approve(ctx context.Context, actor Identity, id uuid.UUID) (*models.Expense, error) {
	if !actor.Can(roles.ApproveExpenses) {
		return nil, fail(ErrForbidden, "Insufficient permissions")
	}
	l := logging.FromContext(ctx).With("svc", "expense.approve", "expense_id", id)
	now := s.now()

	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		e, err := tx.LockExpense(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errExpenseNotFound
			}
			return err
		}
		if !e.IsPending() {
			return fail(ErrInvalidState, "Only pending expenses can be approved")
		}

		ok, err := tx.UpdatePendingExpense(ctx, id, map[string]any{
			"status":      models.ExpenseApproved,
			"approved_by": actor.ID,
			"approved_at": now,
		})
		if err != nil {
			return err
		}
		if !ok {
			return fail(ErrInvalidState, "Only pending expenses can be approved")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Info("expense_approved", "approver_id", actor.ID)
	return s.Repo.ExpenseByID(ctx, id)
}

func (s *ExpenseService) Reject(ctx context.Context, actor Identity, id uuid.UUID, reason string) (*models.Expense, error) {
	if !actor.Can(roles.ApproveExpenses) {
		return nil, fail(ErrForbidden, "Insufficient permissions")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fail(ErrValidation, "Rejection reason is required")
	}
	l := logging.FromContext(ctx).With("svc", "expense.reject", "expense_id", id)
	now := s.now()

	err := s.Repo.Tx(ctx, func(tx *repo.GormRepo) error {
		e, err := tx.LockExpense(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errExpenseNotFound
			}
			return err
		}
		if !e.IsPending() {
			return fail(ErrInvalidState, "Only pending expenses can be rejected")
		}

		ok, err := tx.UpdatePendingExpense(ctx, id, map[string]any{
			"status":           models.ExpenseRejected,
			"approved_by":      actor.ID,
			"approved_at":      now,
			"rejection_reason": reason,
		})
		if err != nil {
			return err
		}
		if !ok {
			return fail(ErrInvalidState, "Only pending expenses can be rejected")
		}
		return tx.ApplySpend(ctx, spendAdjustments(e.CardID, e.Amount, nil, 0))
	})
	if err != nil {
		return nil, err
	}

	l.Info("expense_rejected", "approver_id", actor.ID)
	return s.Repo.ExpenseByID(ctx, id)
}
