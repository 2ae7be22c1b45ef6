package httpserver

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fieldops/internal/service"
	"github.com/Skotchmaster/fieldops/internal/transport"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

type CardHTTP struct {
	Svc *service.CardService
}

func (h *CardHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "card.list")

	who, err := actor(c)
	if err != nil {
		return err
	}

	cards, err := h.Svc.List(ctx, who)
	if err != nil {
		return fromService(l, "list_cards_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cards": transport.CardsOf(cards)})
}

func (h *CardHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "card.create")

	who, err := actor(c)
	if err != nil {
		return err
	}

	var req transport.CreateCardRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_card_failed", "Invalid request body", err)
	}

	in := service.NewCard{
		CardName: strings.TrimSpace(req.CardName),
		LastFour: strings.TrimSpace(req.LastFour),
	}
	if req.MonthlyLimit != nil {
		in.MonthlyLimit = *req.MonthlyLimit
	}
	if in.AssignedTo, err = optUUID(req.AssignedTo); err != nil {
		return badRequest(l, "create_card_failed", "Invalid assignedTo", err)
	}

	card, err := h.Svc.Create(ctx, who, in)
	if err != nil {
		return fromService(l, "create_card_failed", err)
	}

	l.Info("create_card_success", "card_id", card.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"card":    transport.CardOf(card),
		"message": "Card created successfully",
	})
}

func (h *CardHTTP) Reconcile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "card.reconcile")

	who, err := actor(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Card not found").SetInternal(err)
	}

	r, err := h.Svc.Reconcile(ctx, who, id)
	if err != nil {
		return fromService(l, "reconcile_card_failed", err)
	}
	if !r.Balanced() {
		l.Warn("card_spend_drift", "card_id", id, "recorded", r.Recorded, "computed", r.Computed)
	}
	return c.JSON(http.StatusOK, transport.ReconciliationOf(r))
}
