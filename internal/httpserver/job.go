package httpserver

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fieldops/internal/models"
	"github.com/Skotchmaster/fieldops/internal/service"
	"github.com/Skotchmaster/fieldops/internal/transport"
	"github.com/Skotchmaster/fieldops/internal/util"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

type JobHTTP struct {
	Svc *service.JobService
}

func (h *JobHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.list")

	who, err := actor(c)
	if err != nil {
		return err
	}

	q := service.JobQuery{
		Status: c.QueryParam("status"),
		Q:      c.QueryParam("q"),
		Page:   util.ParseIntDefault(c.QueryParam("page"), 1),
		Limit:  util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize),
	}
	if q.AssigneeID, err = queryUUID(c, "assigneeId"); err != nil {
		return badRequest(l, "list_jobs_failed", "Invalid assigneeId", err)
	}
	if q.ClientID, err = queryUUID(c, "clientId"); err != nil {
		return badRequest(l, "list_jobs_failed", "Invalid clientId", err)
	}

	page, err := h.Svc.List(ctx, who, q)
	if err != nil {
		return fromService(l, "list_jobs_failed", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"jobs":       transport.JobsOf(page.Items),
		"pagination": transport.PaginationOf(page),
	})
}

func (h *JobHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.create")

	who, err := actor(c)
	if err != nil {
		return err
	}

	var req transport.CreateJobRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_job_failed", "Invalid request body", err)
	}

	in := service.NewJob{
		Title:          req.Title,
		Description:    req.Description,
		PickupLocation: req.PickupLocation,
		Destination:    req.Destination,
		Notes:          req.Notes,
		Priority:       req.Priority,
	}
	if in.ClientID, err = optUUID(req.ClientID); err != nil {
		return badRequest(l, "create_job_failed", "Invalid clientId", err)
	}
	if in.AssigneeID, err = optUUID(req.AssigneeID); err != nil {
		return badRequest(l, "create_job_failed", "Invalid assigneeId", err)
	}
	if in.ScheduledDate, err = optDate(req.When); err != nil {
		return badRequest(l, "create_job_failed", "Invalid when", err)
	}
	if in.ScheduledEndDate, err = optDate(req.ScheduledEndDate); err != nil {
		return badRequest(l, "create_job_failed", "Invalid scheduledEndDate", err)
	}

	j, err := h.Svc.Create(ctx, who, in)
	if err != nil {
		return fromService(l, "create_job_failed", err)
	}

	l.Info("create_job_success", "job_id", j.ID)
	return c.JSON(http.StatusOK, transport.JobResult{JobView: transport.JobOf(j), Message: "Job created successfully"})
}

func (h *JobHTTP) Assign(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "job.assign")

	who, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Job not found").SetInternal(err)
	}

	var req transport.AssignJobRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "assign_job_failed", "Invalid request body", err)
	}
	assignee, err := optUUID(req.AssigneeID)
	if err != nil {
		return badRequest(l, "assign_job_failed", "Invalid assigneeId", err)
	}

	j, err := h.Svc.Assign(ctx, who, id, assignee)
	if err != nil {
		return fromService(l, "assign_job_failed", err)
	}

	l.Info("assign_job_success", "job_id", id)
	return c.JSON(http.StatusOK, transport.JobResult{JobView: transport.JobOf(j), Message: "Job assigned successfully"})
}

type jobMove func(*service.JobService, context.Context, service.Identity, uuid.UUID) (*models.Job, error)

// transition builds the handler for one job state move. A malformed id is
// reported the same way as a move the job cannot make.
func (h *JobHTTP) transition(verb, done string, move jobMove) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("handler", "job."+verb)

		who, err := actor(c)
		if err != nil {
			return err
		}
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "Job not found or cannot be "+done).SetInternal(err)
		}

		j, err := move(h.Svc, ctx, who, id)
		if err != nil {
			return fromService(l, verb+"_job_failed", err)
		}

		l.Info(verb+"_job_success", "job_id", id, "status", j.Status)
		return c.JSON(http.StatusOK, transport.JobResult{
			JobView: transport.JobOf(j),
			Message: "Job " + done + " successfully",
		})
	}
}

func (h *JobHTTP) Accept() echo.HandlerFunc {
	return h.transition("accept", "accepted", (*service.JobService).Accept)
}

func (h *JobHTTP) Decline() echo.HandlerFunc {
	return h.transition("decline", "declined", (*service.JobService).Decline)
}

func (h *JobHTTP) Start() echo.HandlerFunc {
	return h.transition("start", "started", (*service.JobService).Start)
}

func (h *JobHTTP) Complete() echo.HandlerFunc {
	return h.transition("complete", "completed", (*service.JobService).Complete)
}

func (h *JobHTTP) Close() echo.HandlerFunc {
	return h.transition("close", "closed", (*service.JobService).Close)
}
