package tokens

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestIssue_SetsExpectedClaims(t *testing.T) {
	t.Parallel()

	userID := uuid.NewString()
	now := time.Now().UTC()
	exp := now.Add(7 * 24 * time.Hour)

	token, err := Issue(secret, userID, "admin@company.com", "admin", now, exp)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	claims, err := Parse(token, secret)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, "admin@company.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestIssue_UniquePerCall(t *testing.T) {
	t.Parallel()

	now := time.Now()
	a, err := Issue(secret, "u", "e", "employee", now, now.Add(time.Hour))
	require.NoError(t, err)
	b, err := Issue(secret, "u", "e", "employee", now, now.Add(time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, Hash(a), Hash(b))
}

func TestParse_Rejects(t *testing.T) {
	t.Parallel()

	now := time.Now()
	expired, err := Issue(secret, "u", "e", "employee", now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	foreign, err := Issue([]byte("other-secret"), "u", "e", "employee", now, now.Add(time.Hour))
	require.NoError(t, err)
	noSubject, err := Issue(secret, "", "e", "employee", now, now.Add(time.Hour))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "expired", token: expired, want: ErrExpired},
		{name: "wrong secret", token: foreign, want: ErrInvalid},
		{name: "two segments", token: "abc.def", want: ErrInvalid},
		{name: "garbage", token: "not-a-token", want: ErrInvalid},
		{name: "no subject", token: noSubject, want: ErrInvalid},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			claims, err := Parse(tt.token, secret)
			require.Error(t, err)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHash(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", Hash("hello"))
}
