package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fieldops/internal/service"
	"github.com/Skotchmaster/fieldops/pkg/logging"
	loggingmw "github.com/Skotchmaster/fieldops/pkg/middleware/logging"
)

type Gate struct {
	Auth *service.AuthService
}

func NewGate(svc *service.AuthService) *Gate {
	return &Gate{Auth: svc}
}

// RequireAuth resolves the bearer token to an Identity. Every failure,
// including a store error, answers 401 with the same message.
func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		ident, err := g.Auth.Authenticate(ctx, c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			logging.FromContext(ctx).Warn("auth_rejected", "status", 401, "reason", service.Message(err), "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
		}

		setIdentity(c, ident)
		c.Set(loggingmw.UserIDKey, ident.ID.String())
		c.Set(loggingmw.RoleKey, ident.Role.String())

		l := logging.FromContext(ctx).With("user_id", ident.ID, "role", ident.Role.String())
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))
		return next(c)
	}
}
