package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balkashynov/daybook/internal/models"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 9, 0, 0, 0, time.UTC)
}

func session(startHour, minutes int, breaks ...models.Break) models.Session {
	start := at(startHour, 0)
	return models.Session{
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
		Breaks:    breaks,
	}
}

func TestTaskStore_AddAndGet(t *testing.T) {
	store := setupTaskStore(t)
	store.now = func() time.Time { return at(8, 0) }
	ctx := context.Background()

	id := addTask(t, store, models.NewTask{
		Title:    "Deep work",
		Date:     day(14),
		Duration: 90,
		Category: "work",
		Tags:     []string{"focus"},
		TimeTracking: []models.Session{
			session(9, 50, models.Break{Start: at(9, 10), End: at(9, 15)}),
		},
	})
	assert.NotEmpty(t, id)

	task, err := store.Task(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Deep work", task.Title)
	assert.True(t, day(14).Equal(task.Date))
	assert.Equal(t, 90, task.Duration)
	assert.Equal(t, []string{"focus"}, task.Tags)
	assert.True(t, at(8, 0).Equal(task.CreatedAt))
	assert.True(t, task.CreatedAt.Equal(task.UpdatedAt))
	require.Len(t, task.TimeTracking, 1)
	assert.Equal(t, 50*time.Minute, task.TimeTracking[0].Duration())
	assert.Equal(t, 5*time.Minute, task.TimeTracking[0].BreakTime())

	_, err = store.Task(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTaskStore_UpdateTask(t *testing.T) {
	store := setupTaskStore(t)
	store.now = func() time.Time { return at(8, 0) }
	ctx := context.Background()

	id := addTask(t, store, models.NewTask{Title: "Plan", Date: day(14), Category: "work"})
	require.NoError(t, store.AddTimeTrackingEntry(ctx, id, session(10, 30)))

	store.now = func() time.Time { return at(18, 0) }
	title := "Plan sprint"
	done := true
	doneAt := at(17, 30)
	require.NoError(t, store.UpdateTask(ctx, id, models.TaskUpdate{
		Title:       &title,
		Completed:   &done,
		CompletedAt: &doneAt,
	}))

	task, err := store.Task(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Plan sprint", task.Title)
	assert.Equal(t, "work", task.Category, "unset fields are kept")
	assert.True(t, task.Completed)
	require.NotNil(t, task.CompletedAt)
	assert.True(t, doneAt.Equal(*task.CompletedAt))
	assert.True(t, at(18, 0).Equal(task.UpdatedAt))
	assert.True(t, at(8, 0).Equal(task.CreatedAt))
	assert.Len(t, task.TimeTracking, 1, "sessions survive an update")

	err = store.UpdateTask(ctx, "missing", models.TaskUpdate{Title: &title})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTaskStore_TasksByDateRange(t *testing.T) {
	store := setupTaskStore(t)
	ctx := context.Background()

	late := addTask(t, store, models.NewTask{Title: "late", Date: day(20)})
	early := addTask(t, store, models.NewTask{Title: "early", Date: day(10)})
	mid := addTask(t, store, models.NewTask{Title: "mid", Date: day(15)})
	_ = addTask(t, store, models.NewTask{Title: "outside", Date: day(25)})

	got, err := store.TasksByDateRange(ctx, day(10), day(20))
	require.NoError(t, err)
	assert.Equal(t, []string{early, mid, late}, taskIDs(got), "bounds are inclusive and results ordered by date")

	got, err = store.TasksByDateRange(ctx, day(11), day(14))
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = store.TasksByDateRange(ctx, day(21), day(19))
	require.NoError(t, err)
	assert.Empty(t, got, "inverted range is empty")
}

func TestTaskStore_TasksByCategoryAndAll(t *testing.T) {
	store := setupTaskStore(t)
	ctx := context.Background()

	a := addTask(t, store, models.NewTask{Title: "a", Date: day(1), Category: "gym"})
	b := addTask(t, store, models.NewTask{Title: "b", Date: day(2), Category: "work"})
	c := addTask(t, store, models.NewTask{Title: "c", Date: day(3), Category: "gym"})

	gym, err := store.TasksByCategory(ctx, "gym")
	require.NoError(t, err)
	assert.Equal(t, []string{a, c}, taskIDs(gym))

	all, err := store.AllTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{a, b, c}, taskIDs(all))
}

func TestTaskStore_SearchTasks(t *testing.T) {
	store := setupTaskStore(t)
	ctx := context.Background()

	run := addTask(t, store, models.NewTask{
		Title:    "Morning run",
		Date:     day(1),
		Category: "fitness",
		Notes:    "felt Strong",
		Tags:     []string{"cardio"},
	})
	_ = addTask(t, store, models.NewTask{Title: "Taxes", Date: day(2), Description: "annual filing"})

	got, err := store.SearchTasks(ctx, "run strong")
	require.NoError(t, err)
	assert.Equal(t, []string{run}, taskIDs(got))

	got, err = store.SearchTasks(ctx, "CARDIO")
	require.NoError(t, err)
	assert.Equal(t, []string{run}, taskIDs(got))

	got, err = store.SearchTasks(ctx, "fitness")
	require.NoError(t, err)
	assert.Empty(t, got, "category is not searched")

	got, err = store.SearchTasks(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestTaskStore_Categories(t *testing.T) {
	store := setupTaskStore(t)
	ctx := context.Background()

	first, err := store.AddCategory(ctx, models.NewCategory{Name: "Work", Color: "#3B82F6"})
	require.NoError(t, err)
	second, err := store.AddCategory(ctx, models.NewCategory{Name: "Health", Color: "#10B981", Icon: "♥"})
	require.NoError(t, err)

	categories, err := store.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, first, categories[0].ID)
	assert.Equal(t, second, categories[1].ID)
	assert.Equal(t, "♥", categories[1].Icon)
}

func TestTaskStore_TaskHistory(t *testing.T) {
	store := setupTaskStore(t)
	ctx := context.Background()

	id := addTask(t, store, models.NewTask{Title: "Write", Date: day(14)})
	require.NoError(t, store.AddTimeTrackingEntry(ctx, id, session(9, 25)))
	require.NoError(t, store.AddTimeTrackingEntry(ctx, id, session(14, 40,
		models.Break{Start: at(14, 10), End: at(14, 20)})))

	history, err := store.TaskHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 25*time.Minute, history[0].Duration())
	assert.Equal(t, 40*time.Minute, history[1].Duration())
	assert.Equal(t, 10*time.Minute, history[1].BreakTime())

	missing, err := store.TaskHistory(ctx, "missing")
	require.NoError(t, err, "history of an unknown task is empty, not an error")
	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestTaskStore_AddTimeTrackingEntry(t *testing.T) {
	store := setupTaskStore(t)
	store.now = func() time.Time { return at(8, 0) }
	ctx := context.Background()

	id := addTask(t, store, models.NewTask{Title: "Track", Date: day(14)})

	store.now = func() time.Time { return at(12, 0) }
	require.NoError(t, store.AddTimeTrackingEntry(ctx, id, session(10, 60)))

	task, err := store.Task(ctx, id)
	require.NoError(t, err)
	assert.True(t, at(12, 0).Equal(task.UpdatedAt))
	assert.Len(t, task.TimeTracking, 1)

	err = store.AddTimeTrackingEntry(ctx, "missing", session(10, 60))
	require.ErrorIs(t, err, ErrNotFound)

	orphans, err := store.TaskHistory(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, orphans, "a rejected append leaves nothing behind")
}

func TestTaskStore_ConcurrentAppendsAreNotLost(t *testing.T) {
	store := setupTaskStore(t)
	ctx := context.Background()

	id := addTask(t, store, models.NewTask{Title: "Busy", Date: day(14)})

	const writers = 12
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.AddTimeTrackingEntry(ctx, id, session(8, i+1))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	history, err := store.TaskHistory(ctx, id)
	require.NoError(t, err)
	assert.Len(t, history, writers)
}

func TestTaskStore_DeleteTask(t *testing.T) {
	store := setupTaskStore(t)
	ctx := context.Background()

	id := addTask(t, store, models.NewTask{Title: "Gone", Date: day(14)})
	require.NoError(t, store.AddTimeTrackingEntry(ctx, id, session(9, 15)))

	require.NoError(t, store.DeleteTask(ctx, id))
	require.NoError(t, store.DeleteTask(ctx, id))

	_, err := store.Task(ctx, id)
	require.ErrorIs(t, err, ErrNotFound)

	history, err := store.TaskHistory(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestTaskStore_TasksByDateRangeBoundaries(t *testing.T) {
	store := setupTaskStore(t)
	ctx := context.Background()

	start, end := day(10), day(20)
	atStart := addTask(t, store, models.NewTask{Title: "at start", Date: start})
	atEnd := addTask(t, store, models.NewTask{Title: "at end", Date: end})
	_ = addTask(t, store, models.NewTask{Title: "just before", Date: start.Add(-time.Millisecond)})
	_ = addTask(t, store, models.NewTask{Title: "just after", Date: end.Add(time.Millisecond)})

	got, err := store.TasksByDateRange(ctx, start, end)
	require.NoError(t, err)
	assert.Equal(t, []string{atStart, atEnd}, taskIDs(got))
}
