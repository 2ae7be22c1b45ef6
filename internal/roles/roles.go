// Package roles holds the four user roles and the capability bundles the
// HTTP surface gates on.
package roles

import (
	"fmt"
	"slices"
	"strings"
)

type Role int

const (
	Unknown Role = iota
	Employee
	Accountant
	Manager
	Admin
)

var names = map[Role]string{
	Employee:   "employee",
	Accountant: "accountant",
	Manager:    "manager",
	Admin:      "admin",
}

func Parse(s string) (Role, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for r, n := range names {
		if n == s {
			return r, nil
		}
	}
	return Unknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	if n, ok := names[r]; ok {
		return n
	}
	return "unknown"
}

func (r Role) Valid() bool {
	_, ok := names[r]
	return ok
}

// AtLeast compares on employee < accountant < manager < admin.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r >= min
}

// Bundle is a named set of roles. Membership, not order, decides access.
type Bundle struct {
	Name  string
	Roles []Role
}

func (b Bundle) Allows(r Role) bool {
	return slices.Contains(b.Roles, r)
}

// AcceptJobs and FillSurveys gate no route: job moves are scoped to the
// assignee and any signed-in user may answer a survey.
var (
	ViewAllExpenses   = Bundle{"VIEW_ALL_EXPENSES", []Role{Admin, Manager, Accountant}}
	ApproveExpenses   = Bundle{"APPROVE_EXPENSES", []Role{Admin, Manager}}
	SubmitExpenses    = Bundle{"SUBMIT_EXPENSES", []Role{Admin, Manager, Accountant, Employee}}
	ManageCards       = Bundle{"MANAGE_CARDS", []Role{Admin}}
	ViewReports       = Bundle{"VIEW_REPORTS", []Role{Admin, Manager, Accountant}}
	AssignJobs        = Bundle{"ASSIGN_JOBS", []Role{Admin, Manager}}
	AcceptJobs        = Bundle{"ACCEPT_JOBS", []Role{Employee}}
	ClockInOut        = Bundle{"CLOCK_IN_OUT", []Role{Employee}}
	ViewAllTimesheets = Bundle{"VIEW_ALL_TIMESHEETS", []Role{Admin, Manager}}
	FillSurveys       = Bundle{"FILL_SURVEYS", []Role{Employee}}
	ManageSurveys     = Bundle{"MANAGE_SURVEYS", []Role{Admin, Manager}}
)
