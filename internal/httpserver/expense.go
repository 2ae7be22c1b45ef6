package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fieldops/internal/service"
	"github.com/Skotchmaster/fieldops/internal/transport"
	"github.com/Skotchmaster/fieldops/internal/util"
	"github.com/Skotchmaster/fieldops/pkg/logging"
)

type ExpenseHTTP struct {
	Svc *service.ExpenseService
}

// expenseID treats a malformed id like an unknown one.
func expenseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, "Expense not found").SetInternal(err)
	}
	return id, nil
}

func (h *ExpenseHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense.list")

	who, err := actor(c)
	if err != nil {
		return err
	}

	q := service.ExpenseQuery{
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Page:     util.ParseIntDefault(c.QueryParam("page"), 1),
		Limit:    util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize),
	}
	if q.UserID, err = queryUUID(c, "userId"); err != nil {
		return badRequest(l, "list_expenses_failed", "Invalid userId", err)
	}
	if q.From, err = queryDate(c, "startDate", false); err != nil {
		return badRequest(l, "list_expenses_failed", "Invalid startDate", err)
	}
	if q.To, err = queryDate(c, "endDate", true); err != nil {
		return badRequest(l, "list_expenses_failed", "Invalid endDate", err)
	}

	page, err := h.Svc.List(ctx, who, q)
	if err != nil {
		return fromService(l, "list_expenses_failed", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"expenses":   transport.ExpensesOf(page.Items),
		"pagination": transport.PaginationOf(page),
	})
}

func (h *ExpenseHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense.create")

	who, err := actor(c)
	if err != nil {
		return err
	}

	var req transport.CreateExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_expense_failed", "Invalid request body", err)
	}

	in := service.NewExpense{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		ReceiptURL:  req.ReceiptURL,
	}
	if req.Date != "" {
		if in.Date, _, err = parseDate(req.Date); err != nil {
			return badRequest(l, "create_expense_failed", "Invalid date", err)
		}
	}
	if in.CardID, err = optUUID(req.CardID); err != nil {
		return badRequest(l, "create_expense_failed", "Invalid or unauthorized card", err)
	}

	e, err := h.Svc.Create(ctx, who, in)
	if err != nil {
		return fromService(l, "create_expense_failed", err)
	}

	l.Info("create_expense_success", "expense_id", e.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"expense": transport.ExpenseOf(e),
		"message": "Expense created successfully",
	})
}

func (h *ExpenseHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense.get")

	who, err := actor(c)
	if err != nil {
		return err
	}
	id, err := expenseID(c)
	if err != nil {
		return err
	}

	e, err := h.Svc.Get(ctx, who, id)
	if err != nil {
		return fromService(l, "get_expense_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"expense": transport.ExpenseOf(e)})
}

func (h *ExpenseHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense.update")

	who, err := actor(c)
	if err != nil {
		return err
	}
	id, err := expenseID(c)
	if err != nil {
		return err
	}

	var req transport.PatchExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "update_expense_failed", "Invalid request body", err)
	}

	patch := service.ExpensePatch{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		ReceiptURL:  req.ReceiptURL,
	}
	if patch.Date, err = optDate(req.Date); err != nil {
		return badRequest(l, "update_expense_failed", "Invalid date", err)
	}
	if req.CardID.Set {
		patch.CardID.Set = true
		if patch.CardID.ID, err = optUUID(req.CardID.Value); err != nil {
			return badRequest(l, "update_expense_failed", "Invalid or unauthorized card", err)
		}
	}

	e, err := h.Svc.Update(ctx, who, id, patch)
	if err != nil {
		return fromService(l, "update_expense_failed", err)
	}

	l.Info("update_expense_success", "expense_id", id)
	return c.JSON(http.StatusOK, echo.Map{
		"expense": transport.ExpenseOf(e),
		"message": "Expense updated successfully",
	})
}

func (h *ExpenseHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense.delete")

	who, err := actor(c)
	if err != nil {
		return err
	}
	id, err := expenseID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Delete(ctx, who, id); err != nil {
		return fromService(l, "delete_expense_failed", err)
	}

	l.Info("delete_expense_success", "expense_id", id)
	return c.JSON(http.StatusOK, echo.Map{"message": "Expense deleted successfully"})
}

func (h *ExpenseHTTP) Approve(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense.approve")

	who, err := actor(c)
	if err != nil {
		return err
	}
	id, err := expenseID(c)
	if err != nil {
		return err
	}

	e, err := h.Svc.Approve(ctx, who, id)
	if err != nil {
		return fromService(l, "approve_expense_failed", err)
	}

	l.Info("approve_expense_success", "expense_id", id)
	return c.JSON(http.StatusOK, echo.Map{
		"expense": transport.ExpenseOf(e),
		"message": "Expense approved successfully",
	})
}

func (h *ExpenseHTTP) Reject(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "expense.reject")

	who, err := actor(c)
	if err != nil {
		return err
	}
	id, err := expenseID(c)
	if err != nil {
		return err
	}

	var req transport.RejectExpenseRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "reject_expense_failed", "Invalid request body", err)
	}

	e, err := h.Svc.Reject(ctx, who, id, req.Reason)
	if err != nil {
		return fromService(l, "reject_expense_failed", err)
	}

	l.Info("reject_expense_success", "expense_id", id)
	return c.JSON(http.StatusOK, echo.Map{
		"expense": transport.ExpenseOf(e),
		"message": "Expense rejected successfully",
	})
}
