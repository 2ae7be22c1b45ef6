package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fieldops/internal/testdb"
)

func TestCard_CreateAndList(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	svc := &CardService{Repo: env.Repo}
	_, adminID := env.user(t, "admin", "admin@company.com")
	emp, empID := env.user(t, "employee", "emp@company.com")
	_, mgrID := env.user(t, "manager", "mgr@company.com")

	card, err := svc.Create(ctx, adminID, NewCard{CardName: "Fleet", LastFour: "1234", AssignedTo: &emp.ID, MonthlyLimit: 1000.456})
	require.NoError(t, err)
	assert.True(t, card.IsActive)
	assert.InDelta(t, 1000.46, card.MonthlyLimit, 0.001)
	_, err = svc.Create(ctx, adminID, NewCard{CardName: "Spare", LastFour: "9999"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, mgrID, NewCard{CardName: "x", LastFour: "1111"})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Create(ctx, adminID, NewCard{CardName: "x", LastFour: "12a4"})
	assert.Equal(t, "Card name and four last digits are required", Message(err))
	_, err = svc.Create(ctx, adminID, NewCard{CardName: "x", LastFour: "1234", AssignedTo: ptr(uuid.New())})
	assert.Equal(t, "Assignee not found", Message(err))

	all, err := svc.List(ctx, adminID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := svc.List(ctx, empID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, card.ID, mine[0].ID)
	require.NotNil(t, mine[0].Assignee)

	none, err := svc.List(ctx, mgrID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCard_Reconcile(t *testing.T) {
	env := newEnv(t)
	ctx := context.Background()
	svc := &CardService{Repo: env.Repo}
	expenses := &ExpenseService{Repo: env.Repo}
	emp, empID := env.user(t, "employee", "emp@company.com")
	_, mgrID := env.user(t, "manager", "mgr@company.com")
	_, acctID := env.user(t, "accountant", "acct@company.com")
	card := testdb.Card(t, env.DB, &emp.ID, 0)

	a, err := expenses.Create(ctx, empID, newExpenseInput(30, &card.ID))
	require.NoError(t, err)
	_, err = expenses.Create(ctx, empID, newExpenseInput(20, &card.ID))
	require.NoError(t, err)
	_, err = expenses.Reject(ctx, mgrID, a.ID, "duplicate")
	require.NoError(t, err)

	rec, err := svc.Reconcile(ctx, acctID, card.ID)
	require.NoError(t, err)
	assert.True(t, rec.Balanced())
	assert.InDelta(t, 20, rec.Computed, 0.001)

	require.NoError(t, env.DB.Model(&card).Update("current_month_spend", 99).Error)
	rec, err = svc.Reconcile(ctx, acctID, card.ID)
	require.NoError(t, err)
	assert.False(t, rec.Balanced())

	_, err = svc.Reconcile(ctx, empID, card.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Reconcile(ctx, acctID, uuid.New())
	assert.Equal(t, "Card not found", Message(err))
}
