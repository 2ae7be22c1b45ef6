package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/fieldops/internal/middleware/auth"
	"github.com/Skotchmaster/fieldops/internal/service"
	"github.com/Skotchmaster/fieldops/internal/transport"
)

var errNoIdentity = errors.New("no identity on request")

func actor(c echo.Context) (service.Identity, error) {
	ident := authmw.IdentityFrom(c)
	if ident == nil {
		return service.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required").SetInternal(errNoIdentity)
	}
	return *ident, nil
}

// parseDate accepts a calendar day or an RFC 3339 timestamp. dayOnly
// reports which one it was.
func parseDate(s string) (t time.Time, dayOnly bool, err error) {
	s = strings.TrimSpace(s)
	if t, err = time.Parse(transport.DateLayout, s); err == nil {
		return t.UTC(), true, nil
	}
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, err
}

func optDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, _, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func optUUID(s *string) (*uuid.UUID, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func queryUUID(c echo.Context, name string) (*uuid.UUID, error) {
	v := c.QueryParam(name)
	return optUUID(&v)
}

// queryDate parses a date query parameter. With inclusiveEnd a calendar
// day is widened to the start of the next day.
func queryDate(c echo.Context, name string, inclusiveEnd bool) (*time.Time, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return nil, nil
	}
	t, dayOnly, err := parseDate(v)
	if err != nil {
		return nil, err
	}
	if inclusiveEnd {
		if dayOnly {
			t = t.Add(24 * time.Hour)
		} else {
			t = t.Add(time.Nanosecond)
		}
	}
	return &t, nil
}

func answersOf(in []transport.AnswerRequest) ([]service.AnswerInput, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]service.AnswerInput, 0, len(in))
	for _, a := range in {
		qid, err := uuid.Parse(a.QuestionID)
		if err != nil {
			return nil, err
		}
		out = append(out, service.AnswerInput{QuestionID: qid, Text: a.Text, Rating: a.Rating})
	}
	return out, nil
}
