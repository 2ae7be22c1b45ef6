package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/repo"
	"github.com/Skotchmaster/fieldops/internal/roles"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

type CardService struct {
	Repo *repo.GormRepo
}

type NewCard struct {
	CardName     string
	LastFour     string
	AssignedTo   *uuid.UUID
	MonthlyLimit float64
}

type Reconciliation struct {
	Card     *models.Card
	Recorded float64
	Computed float64
}

func (r Reconciliation) Balanced() bool {
	return round2(r.Recorded) == round2(r.Computed)
}

func (s *CardService) List(ctx context.Context, actor Identity) ([]models.Card, error) {
	var f repo.CardFilter
	if !actor.Can(roles.ManageCards) {
		f.AssignedTo = &actor.ID
	}
	return s.Repo.ListCards(ctx, f)
}

func (s *CardService) Create(ctx context.Context, actor Identity, in NewCard) (*models.Card, error) {
	if !actor.Can(roles.ManageCards) {
		return nil, fail(ErrForbidden, "Insufficient permissions")
	}

	name := strings.TrimSpace(in.CardName)
	last4 := strings.TrimSpace(in.LastFour)
	if name == "" || len(last4) != 4 || strings.Trim(last4, "0123456789") != "" {
		return nil, fail(ErrValidation, "Card name and four last digits are required")
	}
	if in.MonthlyLimit < 0 {
		return nil, fail(ErrValidation, "Monthly limit cannot be negative")
	}

	if in.AssignedTo != nil {
		u, err := s.Repo.UserByID(ctx, *in.AssignedTo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fail(ErrNotFound, "Assignee not found")
			}
			return nil, err
		}
		if !u.IsActive {
			return nil, fail(ErrNotFound, "Assignee not found")
		}
	}

	card := &models.Card{
		CardName:       name,
		LastFourDigits: last4,
		AssignedTo:     in.AssignedTo,
		IsActive:       true,
		MonthlyLimit:   round2(in.MonthlyLimit),
	}
	if err := s.Repo.CreateCard(ctx, card); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("card_created", "svc", "card.create", "card_id", card.ID)
	return card, nil
}

// Reconcile compares the stored running spend with the sum of the card's
// non-rejected expenses.
func (s *CardService) Reconcile(ctx context.Context, actor Identity, id uuid.UUID) (*Reconciliation, error) {
	if !actor.Can(roles.ViewReports) {
		return nil, fail(ErrForbidden, "Insufficient permissions")
	}

	card, err := s.Repo.CardByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrNotFound, "Card not found")
		}
		return nil, err
	}
	sum, err := s.Repo.SpendOnCard(ctx, id)
	if err != nil {
		return nil, err
	}

	rec := &Reconciliation{Card: card, Recorded: card.CurrentMonthSpend, Computed: round2(sum)}
	if !rec.Balanced() {
		logging.FromContext(ctx).Warn("card_spend_drift", "svc", "card.reconcile", "card_id", id, "recorded", rec.Recorded, "computed", rec.Computed)
	}
	return rec, nil
}
