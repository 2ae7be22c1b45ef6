package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fieldops/internal/roles"
	"github.com/Skotchmaster/fieldops/internal/service"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

// Require lets the request through only when the caller's role is in b.
// It must run after RequireAuth.
func (g *Gate) Require(b roles.Bundle) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ident := IdentityFrom(c)
			if err := g.Auth.Authorize(ident, b); err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
				}
				logging.FromContext(c.Request().Context()).Warn("permission_denied",
					"status", 403, "bundle", b.Name, "role", ident.Role.String())
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
			}
			return next(c)
		}
	}
}
