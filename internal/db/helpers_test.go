package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daybook/internal/models"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{Dir: t.TempDir()}
}

func setupTodoStore(t *testing.T) *TodoStore {
	t.Helper()
	store := NewTodoStore(testConfig(t))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func setupTaskStore(t *testing.T) *TaskHistoryStore {
	t.Helper()
	store := NewTaskHistoryStore(testConfig(t))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.March, 14, hour, minute, 0, 0, time.UTC)
}

func sampleTodo(id, title, date string) models.TodoItem {
	return models.TodoItem{
		ID:        id,
		Title:     title,
		Date:      date,
		Time:      "09:30",
		Priority:  models.PriorityMedium,
		Category:  "work",
		Tags:      []string{},
		Type:      models.TypeTask,
		CreatedAt: time.Date(2026, time.March, 1, 8, 0, 0, 0, time.UTC),
	}
}

func addTask(t *testing.T, store *TaskHistoryStore, in models.NewTask) string {
	t.Helper()
	id, err := store.AddTask(context.Background(), in)
	require.NoError(t, err)
	return id
}

func ids[T any](records []T, id func(T) string) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, id(r))
	}
	return out
}

func todoIDs(items []models.TodoItem) []string {
	return ids(items, func(i models.TodoItem) string { return i.ID })
}

func taskIDs(tasks []models.TaskRecord) []string {
	return ids(tasks, func(t models.TaskRecord) string { return t.ID })
}
