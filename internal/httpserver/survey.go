package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fieldops/internal/service"
	"github.com/Skotchmaster/fieldops/internal/transport"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

type SurveyHTTP struct {
	Svc *service.SurveyService
}

func (h *SurveyHTTP) Templates(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "survey.templates")

	items, err := h.Svc.Templates(ctx, c.QueryParam("target"))
	if err != nil {
		return fromService(l, "list_templates_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"templates": transport.TemplatesOf(items)})
}

func (h *SurveyHTTP) CreateTemplate(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "survey.create_template")

	who, err := actor(c)
	if err != nil {
		return err
	}

	var req transport.CreateTemplateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_template_failed", "Invalid request body", err)
	}

	in := service.NewTemplate{
		Title:       req.Title,
		Description: req.Description,
		IsMandatory: req.IsMandatory,
		Questions:   make([]service.NewQuestion, 0, len(req.Questions)),
	}
	for _, q := range req.Questions {
		in.Questions = append(in.Questions, service.NewQuestion{
			Text:       q.Text,
			Type:       q.Type,
			Options:    q.Options,
			IsRequired: q.IsRequired,
			OrderIndex: q.OrderIndex,
		})
	}

	t, err := h.Svc.CreateTemplate(ctx, who, in)
	if err != nil {
		return fromService(l, "create_template_failed", err)
	}

	l.Info("create_template_success", "template_id", t.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"template": transport.TemplateOf(t),
		"message":  "Survey template created successfully",
	})
}

func (h *SurveyHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "survey.submit")

	who, err := actor(c)
	if err != nil {
		return err
	}

	var req transport.SurveyResponseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "submit_survey_failed", "Invalid request body", err)
	}

	var in service.SurveySubmission
	if req.TemplateID != "" {
		if in.TemplateID, err = uuid.Parse(req.TemplateID); err != nil {
			return badRequest(l, "submit_survey_failed", "Invalid templateId", err)
		}
	}
	if in.ShiftID, err = optUUID(req.ShiftID); err != nil {
		return badRequest(l, "submit_survey_failed", "Invalid shiftId", err)
	}
	if in.Answers, err = answersOf(req.Answers); err != nil {
		return badRequest(l, "submit_survey_failed", "Invalid questionId", err)
	}

	r, err := h.Svc.Submit(ctx, who, in)
	if err != nil {
		return fromService(l, "submit_survey_failed", err)
	}

	l.Info("submit_survey_success", "response_id", r.ID)
	return c.JSON(http.StatusOK, transport.SurveyResponseOf(r))
}
