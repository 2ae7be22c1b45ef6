package loggingmw

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fieldops/pkg/logging"
)

// Caller keys are read from the echo context after the handler ran, so
// authenticated requests carry the caller in the completion line.
const (
	UserIDKey = "user_id"
	RoleKey   = "role"
)

var callerKeys = []string{UserIDKey, RoleKey}

// RequestLogger puts a request-scoped logger into the context and writes one
// completion line per request. Successful requests to a quiet route (probes)
// are logged at debug.
func RequestLogger(base *slog.Logger, quiet ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			l := base.With(
				"method", c.Request().Method,
				"route", c.Path(),
				"url", c.Request().URL.Path,
				"remote_ip", c.RealIP(),
			)
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(c.Request().WithContext(logging.IntoContext(c.Request().Context(), l)))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}

			status := c.Response().Status
			attrs := []any{"status", status, "duration_ms", time.Since(start).Milliseconds()}
			for _, k := range callerKeys {
				if v, ok := c.Get(k).(string); ok && v != "" {
					attrs = append(attrs, k, v)
				}
			}

			switch {
			case status >= 500:
				l.Error("request completed", append(attrs, "error", errStr(err))...)
			case status >= 400:
				l.Warn("request completed", append(attrs, "error", errStr(err))...)
			case slices.Contains(quiet, c.Path()):
				l.Debug("request completed", attrs...)
			default:
				l.Info("request completed", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
