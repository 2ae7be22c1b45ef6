package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fieldops/internal/service"
	"github.com/Skotchmaster/fieldops/internal/transport"
	"github.com/Skotchmaster/fieldops/pkg/logging"
	loggingmw "github.com/Skotchmaster/fieldops/pkg/middleware/logging"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "login_failed", "Invalid request body", err)
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return fromService(l, "login_failed", err)
	}

	c.Set(loggingmw.UserIDKey, res.User.ID.String())
	return c.JSON(http.StatusOK, echo.Map{
		"token":   res.Token,
		"user":    transport.UserOf(res.User),
		"message": "Login successful",
	})
}

// Verify reports the caller behind the bearer token. It answers with the
// precise rejection reason, unlike the route gate.
func (h *AuthHTTP) Verify(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify")

	ident, err := h.Svc.Authenticate(ctx, c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return fromService(l, "verify_failed", err)
	}

	c.Set(loggingmw.UserIDKey, ident.ID.String())
	return c.JSON(http.StatusOK, echo.Map{
		"valid": true,
		"user":  transport.UserOf(*ident),
	})
}
