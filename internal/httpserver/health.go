package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	pkgdb "github.com/Skotchmaster/fieldops/pkg/db"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

type HealthHTTP struct {
	DB    *gorm.DB
	Clock func() time.Time
}

func (h *HealthHTTP) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now().UTC()
}

func (h *HealthHTTP) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":    "healthy",
		"timestamp": h.now().Format(time.RFC3339),
		"message":   "Corporate Management System API is running",
	})
}

func (h *HealthHTTP) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *HealthHTTP) Ready(c echo.Context) error {
	ctx := c.Request().Context()
	if err := pkgdb.Ping(ctx, h.DB); err != nil {
		logging.FromContext(ctx).Error("readiness_failed", "handler", "health.ready", "err", err)
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
}
