package stats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/models"
)

var errNotFound = fmt.Errorf("fake: %w", db.ErrNotFound)

// fakeSource serves tasks from memory.
type fakeSource struct {
	tasks []models.TaskRecord
}

func (f *fakeSource) Task(_ context.Context, id string) (*models.TaskRecord, error) {
	for i := range f.tasks {
		if f.tasks[i].ID == id {
			return &f.tasks[i], nil
		}
	}
	return nil, errNotFound
}

func (f *fakeSource) TasksByDateRange(_ context.Context, start, end time.Time) ([]models.TaskRecord, error) {
	out := make([]models.TaskRecord, 0)
	for _, t := range f.tasks {
		if !t.Date.Before(start) && !t.Date.After(end) {
			out = append(out, t)
		}
	}
	return out, nil
}

func clock(h, m int) time.Time {
	return time.Date(2026, time.March, 14, h, m, 0, 0, time.UTC)
}

func twoSessions() []models.Session {
	return []models.Session{
		{StartTime: clock(9, 0), EndTime: clock(9, 30)},
		{
			StartTime: clock(14, 0),
			EndTime:   clock(14, 20),
			Breaks:    []models.Break{{Start: clock(14, 5), End: clock(14, 10)}},
		},
	}
}

func TestTaskStats_Aggregates(t *testing.T) {
	tests := []struct {
		name      string
		completed bool
		wantRate  float64
	}{
		{"open task", false, 0},
		{"completed task", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := New(&fakeSource{tasks: []models.TaskRecord{{
				ID:           "t1",
				Date:         clock(0, 0),
				Completed:    tt.completed,
				TimeTracking: twoSessions(),
			}}})

			got, err := engine.TaskStats(context.Background(), "t1")
			require.NoError(t, err)
			assert.Equal(t, 50*time.Minute, got.TotalTime)
			assert.Equal(t, 25*time.Minute, got.AverageSessionTime)
			assert.Equal(t, 5*time.Minute, got.TotalBreakTime)
			assert.Equal(t, 2, got.Sessions)
			assert.Equal(t, tt.wantRate, got.CompletionRate)

			assert.Equal(t, Millis{
				TotalTime:          3_000_000,
				AverageSessionTime: 1_500_000,
				TotalBreakTime:     300_000,
				CompletionRate:     tt.wantRate,
			}, got.Millis())
		})
	}
}

func TestTaskStats_EmptyHistory(t *testing.T) {
	engine := New(&fakeSource{tasks: []models.TaskRecord{{ID: "idle"}}})

	got, err := engine.TaskStats(context.Background(), "idle")
	require.NoError(t, err)
	assert.Equal(t, Stats{}, got, "no sessions means zeros, never a division by zero")
}

func TestTaskStats_NotFound(t *testing.T) {
	engine := New(&fakeSource{})

	_, err := engine.TaskStats(context.Background(), "ghost")
	require.ErrorIs(t, err, db.ErrNotFound)
}

func TestTaskStats_AgainstStore(t *testing.T) {
	store := db.NewTaskHistoryStore(db.Config{Dir: t.TempDir()})
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	id, err := store.AddTask(ctx, models.NewTask{Title: "Essay", Date: clock(0, 0)})
	require.NoError(t, err)
	for _, s := range twoSessions() {
		require.NoError(t, store.AddTimeTrackingEntry(ctx, id, s))
	}

	engine := New(store)
	got, err := engine.TaskStats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 50*time.Minute, got.TotalTime)
	assert.Equal(t, 5*time.Minute, got.TotalBreakTime)

	// Stats are recomputed on every call.
	require.NoError(t, store.AddTimeTrackingEntry(ctx, id, models.Session{
		StartTime: clock(16, 0),
		EndTime:   clock(16, 10),
	}))
	got, err = engine.TaskStats(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 60*time.Minute, got.TotalTime)
	assert.Equal(t, 20*time.Minute, got.AverageSessionTime)

	_, err = engine.TaskStats(ctx, "missing")
	require.ErrorIs(t, err, db.ErrNotFound)
}
