package validate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daybook/internal/models"
)

func validTodo() models.TodoItem {
	return models.TodoItem{
		Title:    "Write report",
		Date:     "2026-10-17",
		Time:     "09:30",
		Priority: models.PriorityHigh,
		Tags:     []string{"work"},
		Type:     models.TypeTask,
	}
}

func ts(h, m int) time.Time {
	return time.Date(2026, time.October, 17, h, m, 0, 0, time.UTC)
}

func TestTodo(t *testing.T) {
	require.NoError(t, Todo(validTodo()))

	noTime := validTodo()
	noTime.Time = ""
	require.NoError(t, Todo(noTime), "time of day is optional")

	tests := []struct {
		name    string
		mutate  func(*models.TodoItem)
		message string
	}{
		{"blank title", func(i *models.TodoItem) { i.Title = "   " }, "Title is required"},
		{"bad date", func(i *models.TodoItem) { i.Date = "17/10/2026" }, "not a YYYY-MM-DD date"},
		{"bad clock", func(i *models.TodoItem) { i.Time = "9am" }, "not an HH:MM time"},
		{"bad priority", func(i *models.TodoItem) { i.Priority = "urgent" }, "Priority must be one of"},
		{"bad type", func(i *models.TodoItem) { i.Type = "meeting" }, "Type must be one of"},
		{"duplicate tags", func(i *models.TodoItem) { i.Tags = []string{"a", "a"} }, "Tags contains duplicates"},
		{"empty tag", func(i *models.TodoItem) { i.Tags = []string{""} }, "is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validTodo()
			tt.mutate(&item)
			err := Todo(item)
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestNewTask(t *testing.T) {
	valid := models.NewTask{Title: "Run", Date: ts(0, 0), Duration: 30}
	require.NoError(t, NewTask(valid))

	recurring := valid
	recurring.IsRecurring = true
	recurring.RecurringPattern = models.RecurWeekly
	require.NoError(t, NewTask(recurring))

	tests := []struct {
		name   string
		mutate func(*models.NewTask)
	}{
		{"blank title", func(n *models.NewTask) { n.Title = "" }},
		{"missing date", func(n *models.NewTask) { n.Date = time.Time{} }},
		{"negative duration", func(n *models.NewTask) { n.Duration = -5 }},
		{"unknown pattern", func(n *models.NewTask) { n.IsRecurring = true; n.RecurringPattern = "hourly" }},
		{"pattern without recurrence", func(n *models.NewTask) { n.RecurringPattern = models.RecurDaily }},
		{"bad session", func(n *models.NewTask) {
			n.TimeTracking = []models.Session{{StartTime: ts(10, 0), EndTime: ts(9, 0)}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			assert.ErrorIs(t, NewTask(in), ErrInvalid)
		})
	}
}

func TestTaskUpdate(t *testing.T) {
	require.NoError(t, TaskUpdate(models.TaskUpdate{}))

	title := "New title"
	require.NoError(t, TaskUpdate(models.TaskUpdate{Title: &title}))

	blank := "  "
	assert.ErrorIs(t, TaskUpdate(models.TaskUpdate{Title: &blank}), ErrInvalid)

	negative := -1
	assert.ErrorIs(t, TaskUpdate(models.TaskUpdate{Duration: &negative}), ErrInvalid)

	pattern := models.RecurringPattern("yearly")
	assert.ErrorIs(t, TaskUpdate(models.TaskUpdate{RecurringPattern: &pattern}), ErrInvalid)
}

func TestSession(t *testing.T) {
	tests := []struct {
		name    string
		session models.Session
		wantErr string
	}{
		{
			name:    "valid with break",
			session: models.Session{StartTime: ts(14, 0), EndTime: ts(14, 20), Breaks: []models.Break{{Start: ts(14, 5), End: ts(14, 10)}}},
		},
		{
			name:    "zero length",
			session: models.Session{StartTime: ts(14, 0), EndTime: ts(14, 0)},
		},
		{
			name:    "ends before start",
			session: models.Session{StartTime: ts(14, 0), EndTime: ts(13, 0)},
			wantErr: "EndTime is before StartTime",
		},
		{
			name:    "break reversed",
			session: models.Session{StartTime: ts(14, 0), EndTime: ts(15, 0), Breaks: []models.Break{{Start: ts(14, 30), End: ts(14, 10)}}},
			wantErr: "is before Start",
		},
		{
			name:    "break outside session",
			session: models.Session{StartTime: ts(14, 0), EndTime: ts(15, 0), Breaks: []models.Break{{Start: ts(15, 0), End: ts(15, 10)}}},
			wantErr: "falls outside the session",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Session(tt.session)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCategory(t *testing.T) {
	require.NoError(t, Category(models.NewCategory{Name: "Work", Color: "#3B82F6"}))
	require.NoError(t, Category(models.NewCategory{Name: "Home", Color: "#fff", Icon: "🏠"}))

	err := Category(models.NewCategory{Name: "Work", Color: "blue"})
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "not a hex colour")

	assert.ErrorIs(t, Category(models.NewCategory{Name: " ", Color: "#000000"}), ErrInvalid)
}
