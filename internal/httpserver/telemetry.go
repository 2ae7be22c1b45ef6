package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fieldops/internal/service"
	"github.com/Skotchmaster/fieldops/internal/transport"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

type TelemetryHTTP struct {
	Svc *service.TelemetryService
}

func (h *TelemetryHTTP) Position(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "telemetry.position")

	who, err := actor(c)
	if err != nil {
		return err
	}

	var req transport.PositionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "position_failed", "Invalid request body", err)
	}

	in := service.PositionInput{
		Lat:      req.Lat,
		Lng:      req.Lng,
		Accuracy: req.Accuracy,
		Speed:    req.Speed,
		Heading:  req.Heading,
		Address:  req.Address,
	}
	if in.ShiftID, err = optUUID(req.ShiftID); err != nil {
		return badRequest(l, "position_failed", "Invalid shiftId", err)
	}
	if in.Timestamp, err = optDate(req.TS); err != nil {
		return badRequest(l, "position_failed", "Invalid ts", err)
	}

	u, err := h.Svc.RecordPosition(ctx, who, in)
	if err != nil {
		return fromService(l, "position_failed", err)
	}

	return c.JSON(http.StatusOK, struct {
		transport.LocationView
		Message string `json:"message"`
	}{transport.LocationOf(u), "Location update recorded"})
}
