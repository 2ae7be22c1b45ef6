package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/repo"
	"github.com/Skotchmaster/fieldops/internal/roles"
	"github.com/Skotchmaster/fieldops/internal/testdb"
)

var testSecret = []byte("test-jwt-secret")

type testEnv struct {
	DB   *gorm.DB
	Repo *repo.GormRepo
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testdb.Open(t)
	return &testEnv{DB: db, Repo: &repo.GormRepo{DB: db}}
}

func (e *testEnv) user(t *testing.T, role, email string) (models.User, Identity) {
	t.Helper()
	u := testdb.User(t, e.DB, role, email)
	r, err := roles.Parse(u.Role)
	require.NoError(t, err)
	return u, Identity{ID: u.ID, Email: u.Email, Role: r, FirstName: u.FirstName, LastName: u.LastName, EmployeeID: u.EmployeeID}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)}
}

func ptr[T any](v T) *T { return &v }
