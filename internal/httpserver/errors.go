package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fieldops/internal/service"
)

// ErrorHandler renders every error as {"error": "<message>"}.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "Internal server error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		default:
			msg = fmt.Sprint(m)
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"error": msg})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrInvalidCard),
		errors.Is(err, service.ErrAlreadyOpen):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrInvalidTransition):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// fromService maps a service error to an HTTP error and logs it under
// event. Unclassified errors become a bare 500; the cause stays in the log.
func fromService(l *slog.Logger, event string, err error) error {
	code := statusOf(err)
	msg := service.Message(err)
	if code == http.StatusInternalServerError || msg == "" {
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
	l.Warn(event, "status", code, "reason", msg)
	return echo.NewHTTPError(code, msg)
}

func badRequest(l *slog.Logger, event, msg string, err error) error {
	l.Warn(event, "status", 400, "reason", msg, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, msg)
}
