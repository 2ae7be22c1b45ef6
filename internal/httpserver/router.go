package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	authmw "github.com/Skotchmaster/fieldops/internal/middleware/auth"
	"github.com/Skotchmaster/fieldops/internal/repo"
	"github.com/Skotchmaster/fieldops/internal/roles"
	"github.com/Skotchmaster/fieldops/internal/service"
)

type Deps struct {
	Gate      *authmw.Gate
	Auth      *AuthHTTP
	Expense   *ExpenseHTTP
	Job       *JobHTTP
	Timesheet *TimesheetHTTP
	Telemetry *TelemetryHTTP
	Survey    *SurveyHTTP
	Card      *CardHTTP
	Health    *HealthHTTP
}

// NewDeps builds every service over one repository and wraps them in
// their handlers.
func NewDeps(db *gorm.DB, secret []byte, ttl time.Duration) *Deps {
	r := &repo.GormRepo{DB: db}
	authSvc := &service.AuthService{Repo: r, Secret: secret, TTL: ttl}
	telemetry := &service.TelemetryService{Repo: r}

	return &Deps{
		Gate:      authmw.NewGate(authSvc),
		Auth:      &AuthHTTP{Svc: authSvc},
		Expense:   &ExpenseHTTP{Svc: &service.ExpenseService{Repo: r}},
		Job:       &JobHTTP{Svc: &service.JobService{Repo: r}},
		Timesheet: &TimesheetHTTP{Svc: &service.TimesheetService{Repo: r}, Telemetry: telemetry},
		Telemetry: &TelemetryHTTP{Svc: telemetry},
		Survey:    &SurveyHTTP{Svc: &service.SurveyService{Repo: r}},
		Card:      &CardHTTP{Svc: &service.CardService{Repo: r}},
		Health:    &HealthHTTP{DB: db},
	}
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health", d.Health.Health)
	e.GET("/health/live", d.Health.Live)
	e.GET("/health/ready", d.Health.Ready)

	e.POST("/auth/login", d.Auth.Login)
	e.GET("/auth/verify", d.Auth.Verify)

	g := d.Gate

	expenses := e.Group("/expenses", g.RequireAuth, g.Require(roles.SubmitExpenses))

	expenses.GET("", d.Expense.List)
	expenses.POST("", d.Expense.Create)
	expenses.GET("/:id", d.Expense.Get)
	expenses.PATCH("/:id", d.Expense.Update)
	expenses.DELETE("/:id", d.Expense.Delete)
	expenses.POST("/:id/approve", d.Expense.Approve, g.Require(roles.ApproveExpenses))
	expenses.POST("/:id/reject", d.Expense.Reject, g.Require(roles.ApproveExpenses))

	jobs := e.Group("/jobs", g.RequireAuth)

	jobs.GET("", d.Job.List)
	jobs.POST("", d.Job.Create, g.Require(roles.AssignJobs))
	jobs.POST("/:id/assign", d.Job.Assign, g.Require(roles.AssignJobs))
	jobs.POST("/:id/close", d.Job.Close(), g.Require(roles.AssignJobs))
	jobs.POST("/:id/accept", d.Job.Accept())
	jobs.POST("/:id/decline", d.Job.Decline())
	jobs.POST("/:id/start", d.Job.Start())
	jobs.POST("/:id/complete", d.Job.Complete())

	timesheets := e.Group("/timesheets", g.RequireAuth)

	timesheets.GET("", d.Timesheet.List)
	timesheets.POST("/clock-in", d.Timesheet.ClockIn, g.Require(roles.ClockInOut))
	timesheets.POST("/clock-out", d.Timesheet.ClockOut, g.Require(roles.ClockInOut))
	timesheets.GET("/:id/track", d.Timesheet.Track)

	e.POST("/telemetry/position", d.Telemetry.Position, g.RequireAuth, g.Require(roles.ClockInOut))

	surveys := e.Group("/surveys", g.RequireAuth)

	surveys.GET("/templates", d.Survey.Templates)
	surveys.POST("/templates", d.Survey.CreateTemplate, g.Require(roles.ManageSurveys))
	surveys.POST("/response", d.Survey.Submit)

	cards := e.Group("/cards", g.RequireAuth)

	cards.GET("", d.Card.List)
	cards.POST("", d.Card.Create, g.Require(roles.ManageCards))
	cards.GET("/:id/reconcile", d.Card.Reconcile, g.Require(roles.ViewReports))
}
