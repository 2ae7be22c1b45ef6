package httpserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fieldops/internal/service"
	"github.com/Skotchmaster/fieldops/internal/transport"
	"github.com/Skotchmaster/fieldops/internal/util"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

type TimesheetHTTP struct {
	Svc       *service.TimesheetService
	Telemetry *service.TelemetryService
}

func (h *TimesheetHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "timesheet.list")

	who, err := actor(c)
	if err != nil {
		return err
	}

	q := service.TimesheetQuery{
		Current: strings.EqualFold(c.QueryParam("current"), "true"),
		Page:    util.ParseIntDefault(c.QueryParam("page"), 1),
		Limit:   util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize),
	}
	if q.UserID, err = queryUUID(c, "userId"); err != nil {
		return badRequest(l, "list_timesheets_failed", "Invalid userId", err)
	}
	if q.From, err = queryDate(c, "from", false); err != nil {
		return badRequest(l, "list_timesheets_failed", "Invalid from", err)
	}
	if q.Until, err = queryDate(c, "to", true); err != nil {
		return badRequest(l, "list_timesheets_failed", "Invalid to", err)
	}

	page, err := h.Svc.List(ctx, who, q)
	if err != nil {
		return fromService(l, "list_timesheets_failed", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"timesheets": transport.TimesheetsOf(page.Items),
		"pagination": transport.PaginationOf(page),
	})
}

func (h *TimesheetHTTP) ClockIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "timesheet.clock_in")

	who, err := actor(c)
	if err != nil {
		return err
	}

	var req transport.ClockInRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "clock_in_failed", "Invalid request body", err)
	}

	in := service.ClockInInput{Lat: req.Lat, Lng: req.Lng, Accuracy: req.Accuracy}
	if in.JobID, err = optUUID(req.JobID); err != nil {
		return badRequest(l, "clock_in_failed", "Invalid jobId", err)
	}
	if in.ClientID, err = optUUID(req.ClientID); err != nil {
		return badRequest(l, "clock_in_failed", "Invalid clientId", err)
	}

	ts, err := h.Svc.ClockIn(ctx, who, in)
	if err != nil {
		return fromService(l, "clock_in_failed", err)
	}

	l.Info("clock_in_success", "timesheet_id", ts.ID)
	return c.JSON(http.StatusOK, transport.ClockInOf(ts, req.Accuracy))
}

func (h *TimesheetHTTP) ClockOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "timesheet.clock_out")

	who, err := actor(c)
	if err != nil {
		return err
	}

	var req transport.ClockOutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "clock_out_failed", "Invalid request body", err)
	}

	in := service.ClockOutInput{Lat: req.Lat, Lng: req.Lng, Accuracy: req.Accuracy}
	if in.ShiftID, err = optUUID(req.ShiftID); err != nil {
		return badRequest(l, "clock_out_failed", "Invalid shiftId", err)
	}
	if sa := req.SurveyAnswers; sa != nil {
		tid, err := uuid.Parse(sa.TemplateID)
		if err != nil {
			return badRequest(l, "clock_out_failed", "Invalid templateId", err)
		}
		answers, err := answersOf(sa.Answers)
		if err != nil {
			return badRequest(l, "clock_out_failed", "Invalid questionId", err)
		}
		in.Survey = &service.SurveyAnswers{TemplateID: tid, Answers: answers}
	}

	res, err := h.Svc.ClockOut(ctx, who, in)
	if err != nil {
		return fromService(l, "clock_out_failed", err)
	}

	l.Info("clock_out_success", "timesheet_id", res.Timesheet.ID, "duration_sec", res.DurationSec)
	return c.JSON(http.StatusOK, transport.ClockOutOf(res, req.Accuracy))
}

func (h *TimesheetHTTP) Track(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "timesheet.track")

	who, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Timesheet not found").SetInternal(err)
	}

	points, err := h.Telemetry.Track(ctx, who, id)
	if err != nil {
		return fromService(l, "track_failed", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"timesheetId": id,
		"locations":   transport.LocationsOf(points),
	})
}
