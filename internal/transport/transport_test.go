package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fieldops/internal/models"
)

func TestPatchExpenseRequest_CardID(t *testing.T) {
	var absent PatchExpenseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount": 5}`), &absent))
	assert.False(t, absent.CardID.Set)

	var cleared PatchExpenseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"cardId": null}`), &cleared))
	assert.True(t, cleared.CardID.Set)
	assert.Nil(t, cleared.CardID.Value)

	var set PatchExpenseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"cardId": "abc"}`), &set))
	assert.True(t, set.CardID.Set)
	require.NotNil(t, set.CardID.Value)
	assert.Equal(t, "abc", *set.CardID.Value)

	var bad PatchExpenseRequest
	assert.Error(t, json.Unmarshal([]byte(`{"cardId": 12}`), &bad))
}

func TestJobOf_Locations(t *testing.T) {
	j := JobOf(&models.Job{Title: "x", PickupLocation: "Depot"})
	assert.Empty(t, j.Locations)
	assert.NotNil(t, j.Locations)

	j = JobOf(&models.Job{
		PickupLocation: "Depot",
		Destination:    "Site",
		Client:         &models.Client{Name: "Acme"},
		Assignee:       &models.User{FirstName: "Ada", LastName: "L"},
	})
	assert.Equal(t, []JobLocation{{"Pickup", "Depot"}, {"Destination", "Site"}}, j.Locations)
	require.NotNil(t, j.ClientName)
	assert.Equal(t, "Acme", *j.ClientName)
	require.NotNil(t, j.AssigneeName)
	assert.Equal(t, "Ada L", *j.AssigneeName)
}

func TestTimesheetOf(t *testing.T) {
	in := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	lat, lng := 0.0, 0.0

	open := TimesheetOf(&models.Timesheet{ClockInTime: in, ClockInLat: &lat, ClockInLng: &lng})
	assert.Equal(t, "Open", open.Status)
	assert.Nil(t, open.DurationSec)
	require.NotNil(t, open.ClockInLoc)
	assert.Nil(t, open.ClockOutLoc)

	out := in.Add(90 * time.Second)
	closed := TimesheetOf(&models.Timesheet{ClockInTime: in, ClockOutTime: &out})
	assert.Equal(t, "Closed", closed.Status)
	require.NotNil(t, closed.DurationSec)
	assert.EqualValues(t, 90, *closed.DurationSec)
}

func TestExpenseOf_DateOnly(t *testing.T) {
	v := ExpenseOf(&models.Expense{ExpenseDate: time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)})
	assert.Equal(t, "2024-05-01", v.Date)
	assert.Nil(t, v.Card)
	assert.Nil(t, v.Approver)
}
