// Package testdb opens migrated in-memory sqlite databases and seeds
// fixtures for package tests.
package testdb

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/repo"
	pkgdb "github.com/Skotchmaster/fieldops/pkg/db"
	"github.com/Skotchmaster/fieldops/pkg/hash"
)

const Password = "Admin123!"

var (
	hashOnce sync.Once
	pwHash   string
)

// Open returns a private database per call. One connection keeps sqlite
// transactions serialised the way row locks would on postgres.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	cfg := pkgdb.Config()
	cfg.PrepareStmt = false

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, (&repo.GormRepo{DB: db}).Migrate(context.Background()))
	return db
}

func passwordHash(t testing.TB) string {
	hashOnce.Do(func() {
		h, err := hash.HashPassword(Password)
		if err != nil {
			panic(err)
		}
		pwHash = h
	})
	return pwHash
}

func User(t testing.TB, db *gorm.DB, role, email string) models.User {
	t.Helper()
	u := models.User{
		Email:        email,
		PasswordHash: passwordHash(t),
		Role:         role,
		FirstName:    "Test",
		LastName:     role,
		EmployeeID:   "E-" + uuid.NewString()[:8],
		IsActive:     true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func Card(t testing.TB, db *gorm.DB, assignedTo *uuid.UUID, spend float64) models.Card {
	t.Helper()
	c := models.Card{
		CardName:          "Fuel card",
		LastFourDigits:    "4242",
		AssignedTo:        assignedTo,
		IsActive:          true,
		MonthlyLimit:      5000,
		CurrentMonthSpend: spend,
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func Client(t testing.TB, db *gorm.DB, name string) models.Client {
	t.Helper()
	c := models.Client{Name: name}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func CardSpend(t testing.TB, db *gorm.DB, id uuid.UUID) float64 {
	t.Helper()
	var c models.Card
	require.NoError(t, db.Where("id = ?", id).First(&c).Error)
	return c.CurrentMonthSpend
}
