package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fieldops/internal/repo"
	"github.com/Skotchmaster/fieldops/internal/roles"
	"github.com/Skotchmaster/fieldops/internal/service"
	"github.com/Skotchmaster/fieldops/internal/testdb"
	loggingmw "github.com/Skotchmaster/fieldops/pkg/middleware/logging"
)

func newGate(t *testing.T) (*Gate, string, string) {
	t.Helper()
	db := testdb.Open(t)
	svc := &service.AuthService{Repo: &repo.GormRepo{DB: db}, Secret: []byte("gate-secret")}
	emp := testdb.User(t, db, "employee", "emp@company.com")

	res, err := svc.Login(context.Background(), emp.Email, testdb.Password)
	require.NoError(t, err)
	return NewGate(svc), res.Token, emp.ID.String()
}

func serve(h echo.HandlerFunc, header string) (*httptest.ResponseRecorder, echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, c, h(c)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func TestRequireAuth(t *testing.T) {
	gate, token, uid := newGate(t)

	var seen *service.Identity
	h := gate.RequireAuth(func(c echo.Context) error {
		seen = IdentityFrom(c)
		return c.NoContent(http.StatusNoContent)
	})

	rec, c, err := serve(h, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, roles.Employee, seen.Role)
	assert.Equal(t, uid, c.Get(loggingmw.UserIDKey))
	assert.Equal(t, "employee", c.Get(loggingmw.RoleKey))

	for _, header := range []string{"", "Bearer", "Bearer nope", "Token " + token} {
		_, _, err := serve(h, header)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err), header)
	}
}

func TestRequire(t *testing.T) {
	gate, token, _ := newGate(t)
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	allowed := gate.RequireAuth(gate.Require(roles.ClockInOut)(ok))
	rec, _, err := serve(allowed, "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	denied := gate.RequireAuth(gate.Require(roles.ApproveExpenses)(ok))
	_, _, err = serve(denied, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	anonymous := gate.Require(roles.ClockInOut)(ok)
	_, _, err = serve(anonymous, "")
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}
