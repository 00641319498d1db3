package reminder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "reminder"
	serverVersion = "2.0.0"
)

// Server is the MCP server for reminder management.
type Server struct {
	mcpServer *server.MCPServer
	store     *Store
	onChange  func()
}

// NewServer creates a new Reminder MCP server backed by the given store.
// onChange, when non-nil, runs after every successful mutation.
func NewServer(store *Store, onChange func()) *Server {
	s := &Server{
		store:    store,
		onChange: onChange,
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server for serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Create a recurring reminder"),
			mcp.WithString("name", mcp.Description("Display name (defaults to the category name for preset categories)")),
			mcp.WithString("category", mcp.Required(), mcp.Description("Category id: gym, study, groceries, cooking, laundry, bills, medicine, water, sleep, reading or custom")),
			mcp.WithString("time", mcp.Required(), mcp.Description("Local time of day, 24-hour HH:MM")),
			mcp.WithString("recurrence", mcp.Description("daily (default), specific_days, weekly or monthly")),
			mcp.WithString("days", mcp.Description("Weekdays for specific_days/weekly, e.g. mon,wed,fri")),
			mcp.WithNumber("month_day", mcp.Description("Day of month (1-31) for monthly")),
		),
		s.handleAddReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List all reminders sorted by time of day"),
		),
		s.handleListReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_today_reminders",
			mcp.WithDescription("List enabled reminders due today with their completion state"),
		),
		s.handleTodayReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_reminder",
			mcp.WithDescription("Get a single reminder"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleGetReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("update_reminder",
			mcp.WithDescription("Update a reminder's fields; omitted fields keep their value"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("name", mcp.Description("New name")),
			mcp.WithString("category", mcp.Description("New category id")),
			mcp.WithString("time", mcp.Description("New time of day, HH:MM")),
			mcp.WithString("recurrence", mcp.Description("New recurrence")),
			mcp.WithString("days", mcp.Description("New weekdays, e.g. sat")),
			mcp.WithNumber("month_day", mcp.Description("New day of month")),
			mcp.WithBoolean("enabled", mcp.Description("Enable or disable the reminder")),
		),
		s.handleUpdateReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("toggle_completion",
			mcp.WithDescription("Mark a reminder done for today, or undo it"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleToggleCompletion,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("next_occurrence",
			mcp.WithDescription("When a reminder fires next (looks ahead 31 days)"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleNextOccurrence,
	)
}

// reminderView is the JSON shape returned to MCP clients.
type reminderView struct {
	Reminder
	Icon     string `json:"icon"`
	Time     string `json:"time"`
	Schedule string `json:"schedule"`
	Done     *bool  `json:"doneToday,omitempty"`
	Next     string `json:"next,omitempty"`
}

func (s *Server) view(r Reminder, now time.Time, withDone bool) reminderView {
	v := reminderView{
		Reminder: r,
		Icon:     r.Icon(),
		Time:     FormatTime(r.Hour, r.Minute),
		Schedule: FormatRecurrence(r),
	}
	if withDone {
		done := s.store.IsCompleted(r.ID)
		v.Done = &done
	}
	if next, ok := NextOccurrence(r, now); ok && r.Enabled {
		v.Next = next.Format(time.RFC3339)
	}
	return v
}

func (s *Server) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	output, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(output))
}

func (s *Server) handleAddReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d := NewDraft()
	d.SelectCategory(req.GetString("category", ""))
	if name := req.GetString("name", ""); name != "" {
		d.Name = name
	}

	if err := draftFromArgs(&d, req); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := d.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	added, err := s.store.Add(d.Reminder())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}
	s.changed()

	return jsonResult(s.view(added, s.store.Now(), false)), nil
}

// draftFromArgs applies the optional schedule arguments shared by add and update.
func draftFromArgs(d *Draft, req mcp.CallToolRequest) error {
	if v := req.GetString("time", ""); v != "" {
		if err := d.SetTime(v); err != nil {
			return err
		}
	}
	if v := req.GetString("recurrence", ""); v != "" {
		d.SelectRecurrence(Recurrence(strings.ToLower(v)))
	}
	if v := req.GetString("days", ""); v != "" {
		days, err := ParseDays(v)
		if err != nil {
			return err
		}
		d.Days = nil
		for _, day := range days {
			d.ToggleDay(day)
		}
	}
	if v := req.GetInt("month_day", 0); v != 0 {
		if err := d.SetMonthDay(v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleListReminders(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reminders := s.store.GetAll()
	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}
	SortByTime(reminders)

	now := s.store.Now()
	views := make([]reminderView, 0, len(reminders))
	for _, r := range reminders {
		views = append(views, s.view(r, now, false))
	}
	return jsonResult(views), nil
}

func (s *Server) handleTodayReminders(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := s.store.Now()
	due := DueToday(s.store.GetAll(), now)
	if len(due) == 0 {
		return mcp.NewToolResultText("No reminders due today."), nil
	}

	views := make([]reminderView, 0, len(due))
	for _, r := range due {
		views = append(views, s.view(r, now, true))
	}
	return jsonResult(views), nil
}

func (s *Server) lookup(req mcp.CallToolRequest) (Reminder, *mcp.CallToolResult) {
	id := req.GetString("id", "")
	if id == "" {
		return Reminder{}, mcp.NewToolResultError("id is required")
	}
	r, err := s.store.Get(id)
	if errors.Is(err, ErrNotFound) {
		return Reminder{}, mcp.NewToolResultError(fmt.Sprintf("reminder %s not found", id))
	}
	if err != nil {
		return Reminder{}, mcp.NewToolResultError(err.Error())
	}
	return r, nil
}

func (s *Server) handleGetReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, errResult := s.lookup(req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(s.view(r, s.store.Now(), true)), nil
}

func (s *Server) handleUpdateReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, errResult := s.lookup(req)
	if errResult != nil {
		return errResult, nil
	}

	d := DraftFrom(r)
	if v := req.GetString("category", ""); v != "" {
		d.Category = v
	}
	if v := req.GetString("name", ""); v != "" {
		d.Name = v
	}
	if err := draftFromArgs(&d, req); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := d.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	patch := d.Patch()
	if args := req.GetArguments(); args != nil {
		if enabled, ok := args["enabled"].(bool); ok {
			patch.Enabled = &enabled
		}
	}

	updated, err := s.store.Update(r.ID, patch)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to update reminder: %v", err)), nil
	}
	s.changed()

	return jsonResult(s.view(updated, s.store.Now(), false)), nil
}

func (s *Server) handleDeleteReminder(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	if err := s.store.Remove(id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}
	s.changed()

	return mcp.NewToolResultText(fmt.Sprintf("Reminder %s deleted.", id)), nil
}

func (s *Server) handleToggleCompletion(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, errResult := s.lookup(req)
	if errResult != nil {
		return errResult, nil
	}

	done, err := s.store.ToggleCompletion(r.ID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to toggle completion: %v", err)), nil
	}
	s.changed()

	if done {
		return mcp.NewToolResultText(fmt.Sprintf("%s marked done for today.", r.Name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s marked not done.", r.Name)), nil
}

func (s *Server) handleNextOccurrence(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	r, errResult := s.lookup(req)
	if errResult != nil {
		return errResult, nil
	}

	next, ok := NextOccurrence(r, s.store.Now())
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf("%s has no occurrence in the next %d days.", r.Name, lookaheadDays)), nil
	}
	return mcp.NewToolResultText(next.Format(time.RFC3339)), nil
}
