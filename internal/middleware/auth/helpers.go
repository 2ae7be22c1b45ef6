package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fieldops/internal/service"
)

const identityKey = "identity"

func setIdentity(c echo.Context, ident *service.Identity) {
	c.Set(identityKey, ident)
}

// IdentityFrom returns the caller stored by RequireAuth, or nil.
func IdentityFrom(c echo.Context) *service.Identity {
	ident, _ := c.Get(identityKey).(*service.Identity)
	return ident
}
