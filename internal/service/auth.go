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
	"github.com/Skotchmaster/fieldops/pkg/hash"
	"github.com/Skotchmaster/fieldops/pkg/logging"
	"github.com/Skotchmaster/fieldops/pkg/tokens"
)

const DefaultSessionTTL = 7 * 24 * time.Hour

// Identity is the authenticated caller of a request.
type Identity struct {
	ID         uuid.UUID
	Email      string
	Role       roles.Role
	FirstName  string
	LastName   string
	EmployeeID string
}

func (i Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

func (i Identity) Can(b roles.Bundle) bool {
	return b.Allows(i.Role)
}

func identityFromUser(u *models.User) (*Identity, error) {
	role, err := roles.Parse(u.Role)
	if err != nil {
		return nil, err
	}
	return &Identity{
		ID:         u.ID,
		Email:      u.Email,
		Role:       role,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		EmployeeID: u.EmployeeID,
	}, nil
}

type AuthService struct {
	Repo   *repo.GormRepo
	Secret []byte
	TTL    time.Duration
	Clock  func() time.Time
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      Identity
}

func (s *AuthService) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultSessionTTL
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	if email == "" || password == "" {
		return nil, fail(ErrValidation, "Email and password are required")
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "reason", "unknown email")
			return nil, fail(ErrUnauthenticated, "Invalid email or password")
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "reason", "wrong password")
		return nil, fail(ErrUnauthenticated, "Invalid email or password")
	}
	if !user.IsActive {
		l.Warn("login_failed", "reason", "inactive account")
		return nil, fail(ErrUnauthenticated, "Account is deactivated")
	}

	ident, err := identityFromUser(user)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", user.ID, err)
	}

	now := s.now()
	exp := now.Add(s.ttl())
	token, err := tokens.Issue(s.Secret, user.ID.String(), user.Email, user.Role, now, exp)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.CreateSession(ctx, &models.Session{
		UserID:    user.ID,
		TokenHash: tokens.Hash(token),
		ExpiresAt: exp,
	}); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{Token: token, ExpiresAt: exp, User: *ident}, nil
}

// Authenticate resolves an Authorization header value to the caller. The
// token claims are checked first; the session row is the final word.
func (s *AuthService) Authenticate(ctx context.Context, header string) (*Identity, error) {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate")

	raw, ok := strings.CutPrefix(header, "Bearer ")
	raw = strings.TrimSpace(raw)
	if !ok || raw == "" {
		return nil, fail(ErrUnauthenticated, "No valid token provided")
	}

	if _, err := tokens.Parse(raw, s.Secret); err != nil {
		if errors.Is(err, tokens.ErrExpired) {
			return nil, fail(ErrUnauthenticated, "Token expired")
		}
		return nil, fail(ErrUnauthenticated, "Invalid token")
	}

	now := s.now()
	sess, err := s.Repo.ActiveSession(ctx, tokens.Hash(raw), now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fail(ErrUnauthenticated, "Invalid or expired session")
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.User == nil {
		return nil, fail(ErrUnauthenticated, "Invalid or expired session")
	}

	ident, err := identityFromUser(sess.User)
	if err != nil {
		l.Warn("session_user_invalid_role", "user_id", sess.UserID, "error", err)
		return nil, fail(ErrUnauthenticated, "Invalid or expired session")
	}

	if err := s.Repo.TouchSession(ctx, sess.ID, now); err != nil {
		l.Warn("session_touch_failed", "session_id", sess.ID, "error", err)
	}

	return ident, nil
}

func (s *AuthService) Authorize(ident *Identity, b roles.Bundle) error {
	if ident == nil {
		return fail(ErrUnauthenticated, "Authentication required")
	}
	if !ident.Can(b) {
		return fail(ErrForbidden, "Insufficient permissions")
	}
	return nil
}
