package reminder

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, res.IsError
}

func TestServerAddReminder(t *testing.T) {
	s, _, _ := newTestStore(t)
	changes := 0
	srv := NewServer(s, func() { changes++ })

	out, isErr := callTool(t, srv.handleAddReminder, map[string]any{
		"category":   "gym",
		"time":       "07:30",
		"recurrence": "specific_days",
		"days":       "mon,wed,fri",
	})
	require.False(t, isErr, out)
	assert.Equal(t, 1, changes)

	var v reminderView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "r1", v.ID)
	assert.Equal(t, "Gym", v.Name)
	assert.Equal(t, "7:30 AM", v.Time)
	assert.Equal(t, "Mon, Wed, Fri", v.Schedule)
	// 2026-10-12 06:00 is a Monday.
	assert.Equal(t, "2026-10-12T07:30:00Z", v.Next)

	got, err := s.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, got.Days)
}

func TestServerAddReminderValidation(t *testing.T) {
	s, _, _ := newTestStore(t)
	changes := 0
	srv := NewServer(s, func() { changes++ })

	tests := []struct {
		name string
		args map[string]any
	}{
		{"custom without name", map[string]any{"category": "custom", "time": "08:00"}},
		{"unknown category", map[string]any{"category": "foo", "name": "Foo", "time": "08:00"}},
		{"bad time", map[string]any{"category": "gym", "time": "25:00"}},
		{"weekly without day", map[string]any{"category": "gym", "time": "08:00", "recurrence": "weekly"}},
		{"bad day", map[string]any{"category": "gym", "time": "08:00", "recurrence": "weekly", "days": "someday"}},
		{"bad month day", map[string]any{"category": "bills", "time": "08:00", "recurrence": "monthly", "month_day": float64(40)}},
		{"unknown recurrence", map[string]any{"category": "gym", "time": "08:00", "recurrence": "yearly"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, isErr := callTool(t, srv.handleAddReminder, tt.args)
			assert.True(t, isErr)
		})
	}
	assert.Empty(t, s.GetAll())
	assert.Zero(t, changes)
}

func TestServerWeeklyAddKeepsOneDay(t *testing.T) {
	s, _, _ := newTestStore(t)
	srv := NewServer(s, nil)

	out, isErr := callTool(t, srv.handleAddReminder, map[string]any{
		"category":   "laundry",
		"time":       "10:00",
		"recurrence": "weekly",
		"days":       "sat,sun",
	})
	require.False(t, isErr, out)

	got, err := s.Get("r1")
	require.NoError(t, err)
	assert.Equal(t, []int{0}, got.Days)
}

func TestServerUpdateReminder(t *testing.T) {
	s, _, _ := newTestStore(t)
	srv := NewServer(s, nil)
	r, err := s.Add(Reminder{Name: "Pay bills", Category: "bills", Hour: 9, Recurrence: RecurrenceMonthly, MonthDay: 1})
	require.NoError(t, err)

	out, isErr := callTool(t, srv.handleUpdateReminder, map[string]any{
		"id":        r.ID,
		"month_day": float64(15),
		"enabled":   false,
	})
	require.False(t, isErr, out)

	got, err := s.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, got.MonthDay)
	assert.False(t, got.Enabled)
	assert.Equal(t, "Pay bills", got.Name)

	_, isErr = callTool(t, srv.handleUpdateReminder, map[string]any{"id": "missing", "name": "x"})
	assert.True(t, isErr)
}

func TestServerTodayAndToggle(t *testing.T) {
	s, _, _ := newTestStore(t)
	srv := NewServer(s, nil)

	out, _ := callTool(t, srv.handleTodayReminders, nil)
	assert.Equal(t, "No reminders due today.", out)

	r, err := s.Add(Reminder{Name: "Water", Category: "water", Hour: 10, Recurrence: RecurrenceDaily})
	require.NoError(t, err)
	_, err = s.Add(Reminder{Name: "Tuesday thing", Hour: 10, Recurrence: RecurrenceWeekly, Days: []int{2}})
	require.NoError(t, err)

	out, isErr := callTool(t, srv.handleToggleCompletion, map[string]any{"id": r.ID})
	require.False(t, isErr)
	assert.Equal(t, "Water marked done for today.", out)

	out, _ = callTool(t, srv.handleTodayReminders, nil)
	var views []reminderView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, r.ID, views[0].ID)
	require.NotNil(t, views[0].Done)
	assert.True(t, *views[0].Done)
}

func TestServerDeleteAndNext(t *testing.T) {
	s, _, _ := newTestStore(t)
	srv := NewServer(s, nil)
	r, err := s.Add(Reminder{Name: "Monthly", Hour: 9, Recurrence: RecurrenceMonthly, MonthDay: 20})
	require.NoError(t, err)

	out, isErr := callTool(t, srv.handleNextOccurrence, map[string]any{"id": r.ID})
	require.False(t, isErr)
	assert.Equal(t, "2026-10-20T09:00:00Z", out)

	_, isErr = callTool(t, srv.handleDeleteReminder, map[string]any{"id": r.ID})
	require.False(t, isErr)
	assert.Empty(t, s.GetAll())

	_, isErr = callTool(t, srv.handleGetReminder, map[string]any{"id": r.ID})
	assert.True(t, isErr)

	out, _ = callTool(t, srv.handleListReminders, nil)
	assert.Equal(t, "No reminders found.", out)
}
