package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/testdb"
	"github.com/Skotchmaster/fieldops/pkg/hash"
)

func sqliteOpener(db *gorm.DB) opener {
	return func(context.Context, string) (*gorm.DB, func(), error) {
		return db, func() {}, nil
	}
}

func TestRun_CreatesUser(t *testing.T) {
	db := testdb.Open(t)
	var stdout, stderr bytes.Buffer

	err := run([]string{
		"--email", "New.Hire@Company.com",
		"--role", "manager",
		"--first-name", "Grace",
		"--last-name", "Hopper",
		"--employee-id", "E-100",
		"--database-url", "ignored",
	}, strings.NewReader("S3cret!\n"), &stdout, &stderr, sqliteOpener(db))
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Password: ")
	assert.Contains(t, stdout.String(), "new.hire@company.com (manager) created")

	var u models.User
	require.NoError(t, db.Where("email = ?", "new.hire@company.com").First(&u).Error)
	assert.Equal(t, "manager", u.Role)
	assert.True(t, u.IsActive)
	assert.True(t, hash.CheckPassword(u.PasswordHash, "S3cret!"))
}

func TestRun_Rejections(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	db := testdb.Open(t)
	testdb.User(t, db, "employee", "taken@company.com")

	base := []string{"--first-name", "A", "--last-name", "B", "--database-url", "x", "--password", "pw"}

	tests := []struct {
		name    string
		args    []string
		stdin   string
		wantErr string
	}{
		{"missing flags", []string{"--password", "pw"}, "", "missing required flags: email, first-name, last-name, database-url"},
		{"bad role", append([]string{"--email", "a@b.c", "--role", "owner"}, base...), "", `unknown role "owner"`},
		{"duplicate", append([]string{"--email", "taken@company.com"}, base...), "", "already exists"},
		{"empty prompt", []string{"--email", "a@b.c", "--first-name", "A", "--last-name", "B", "--database-url", "x"}, "   \n", "password cannot be empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tt.args, strings.NewReader(tt.stdin), &stdout, &stderr, sqliteOpener(db))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRun_OpenFailure(t *testing.T) {
	boom := errors.New("refused")
	open := func(context.Context, string) (*gorm.DB, func(), error) { return nil, nil, boom }

	var stdout, stderr bytes.Buffer
	err := run([]string{"--email", "a@b.c", "--first-name", "A", "--last-name", "B", "--database-url", "x", "--password", "pw"},
		strings.NewReader(""), &stdout, &stderr, open)
	assert.ErrorIs(t, err, boom)
}
