package stats

import (
	"context"
	"time"

	"github.com/balkashynov/daybook/internal/models"
)

// DayProgress is one calendar cell: how many tasks fall on the day, how
// many are done, and how much time was tracked on them.
type DayProgress struct {
	Date      string        `json:"date" yaml:"date"`
	Completed int           `json:"completed" yaml:"completed"`
	Total     int           `json:"total" yaml:"total"`
	TimeSpent time.Duration `json:"timeSpent" yaml:"timeSpent"`
}

// DailyProgress returns one entry per calendar day from `from` to `to`
// inclusive, in from's location. Days without tasks are present with zero
// counts so calendars can render every cell.
func (e *Engine) DailyProgress(ctx context.Context, from, to time.Time) ([]DayProgress, error) {
	loc := from.Location()
	first := startOfDay(from)
	last := startOfDay(to.In(loc))
	if last.Before(first) {
		return []DayProgress{}, nil
	}

	tasks, err := e.tasks.TasksByDateRange(ctx, first, endOfDay(last))
	if err != nil {
		return nil, err
	}

	var days []DayProgress
	index := make(map[string]int)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := d.Format(models.DateLayout)
		index[key] = len(days)
		days = append(days, DayProgress{Date: key})
	}

	for _, task := range tasks {
		i, ok := index[task.Date.In(loc).Format(models.DateLayout)]
		if !ok {
			continue
		}
		days[i].Total++
		if task.Completed {
			days[i].Completed++
		}
		days[i].TimeSpent += ForTask(task).TotalTime
	}
	return days, nil
}

// TodoProgress counts done and total items of a todo list.
func TodoProgress(items []models.TodoItem) (completed, total int) {
	for _, item := range items {
		if item.Completed {
			completed++
		}
	}
	return completed, len(items)
}

// startOfDay returns 00:00:00 of the same day.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay returns the last nanosecond of the same day.
func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
