package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/roles"
	"github.com/Skotchmaster/fieldops/internal/testdb"
	"github.com/Skotchmaster/fieldops/pkg/tokens"
)

func newAuth(env *testEnv) *AuthService {
	return &AuthService{Repo: env.Repo, Secret: testSecret}
}

func TestLogin_IssuesSession(t *testing.T) {
	env := newEnv(t)
	svc := newAuth(env)
	u, _ := env.user(t, "admin", "admin@company.com")

	res, err := svc.Login(context.Background(), "Admin@Company.com", testdb.Password)
	require.NoError(t, err)
	assert.Len(t, splitDots(res.Token), 3)
	assert.Equal(t, u.ID, res.User.ID)
	assert.Equal(t, roles.Admin, res.User.Role)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), res.ExpiresAt, time.Minute)

	var s models.Session
	require.NoError(t, env.DB.Where("token_hash = ?", tokens.Hash(res.Token)).First(&s).Error)
	assert.Equal(t, u.ID, s.UserID)
}

func TestLogin_Rejects(t *testing.T) {
	env := newEnv(t)
	svc := newAuth(env)
	u, _ := env.user(t, "employee", "emp@company.com")
	inactive, _ := env.user(t, "employee", "gone@company.com")
	require.NoError(t, env.DB.Model(&inactive).Update("is_active", false).Error)

	tests := []struct {
		name     string
		email    string
		password string
		kind     error
		msg      string
	}{
		{"missing email", "", "x", ErrValidation, "Email and password are required"},
		{"missing password", u.Email, "", ErrValidation, "Email and password are required"},
		{"unknown email", "nobody@company.com", testdb.Password, ErrUnauthenticated, "Invalid email or password"},
		{"wrong password", u.Email, "wrong", ErrUnauthenticated, "Invalid email or password"},
		{"inactive", inactive.Email, testdb.Password, ErrUnauthenticated, "Account is deactivated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Login(context.Background(), tt.email, tt.password)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.msg, Message(err))
		})
	}
}

func TestAuthenticate_RoundTrip(t *testing.T) {
	env := newEnv(t)
	svc := newAuth(env)
	u, _ := env.user(t, "manager", "mgr@company.com")

	res, err := svc.Login(context.Background(), u.Email, testdb.Password)
	require.NoError(t, err)

	ident, err := svc.Authenticate(context.Background(), "Bearer "+res.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, ident.ID)
	assert.Equal(t, roles.Manager, ident.Role)
	assert.Equal(t, "Test manager", ident.FullName())

	var s models.Session
	require.NoError(t, env.DB.Where("user_id = ?", u.ID).First(&s).Error)
	assert.NotNil(t, s.LastUsedAt)
}

func TestAuthenticate_Rejects(t *testing.T) {
	env := newEnv(t)
	svc := newAuth(env)
	u, _ := env.user(t, "employee", "emp@company.com")
	now := time.Now().UTC()

	expired, err := tokens.Issue(testSecret, u.ID.String(), u.Email, u.Role, now.Add(-8*24*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	require.NoError(t, env.Repo.CreateSession(context.Background(), &models.Session{UserID: u.ID, TokenHash: tokens.Hash(expired), ExpiresAt: now.Add(time.Hour)}))

	orphan, err := tokens.Issue(testSecret, u.ID.String(), u.Email, u.Role, now, now.Add(time.Hour))
	require.NoError(t, err)

	foreign, err := tokens.Issue([]byte("someone-else"), u.ID.String(), u.Email, u.Role, now, now.Add(time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"no header", "", "No valid token provided"},
		{"not bearer", "Basic abc", "No valid token provided"},
		{"empty bearer", "Bearer ", "No valid token provided"},
		{"two segments", "Bearer abc.def", "Invalid token"},
		{"bad signature", "Bearer " + foreign, "Invalid token"},
		{"expired claims with live session", "Bearer " + expired, "Token expired"},
		{"no session row", "Bearer " + orphan, "Invalid or expired session"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ident, err := svc.Authenticate(context.Background(), tt.header)
			require.Error(t, err)
			assert.Nil(t, ident)
			assert.ErrorIs(t, err, ErrUnauthenticated)
			assert.Equal(t, tt.msg, Message(err))
		})
	}
}

func TestAuthenticate_DeactivatedUserLosesSession(t *testing.T) {
	env := newEnv(t)
	svc := newAuth(env)
	u, _ := env.user(t, "employee", "emp@company.com")

	res, err := svc.Login(context.Background(), u.Email, testdb.Password)
	require.NoError(t, err)
	require.NoError(t, env.DB.Model(&u).Update("is_active", false).Error)

	_, err = svc.Authenticate(context.Background(), "Bearer "+res.Token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, "Invalid or expired session", Message(err))
}

func TestAuthorize(t *testing.T) {
	svc := &AuthService{}
	emp := &Identity{Role: roles.Employee}

	assert.NoError(t, svc.Authorize(emp, roles.ClockInOut))
	err := svc.Authorize(emp, roles.ApproveExpenses)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "Insufficient permissions", Message(err))
	assert.ErrorIs(t, svc.Authorize(nil, roles.SubmitExpenses), ErrUnauthenticated)
}

func splitDots(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	return append(out, s[start:])
}
