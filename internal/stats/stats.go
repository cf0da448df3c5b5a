// Package stats derives time-tracking figures from the task history store.
// Nothing is cached; every call reads the store again.
package stats

import (
	"context"
	"time"

	"github.com/balkashynov/daybook/internal/models"
)

// TaskSource is the slice of the task history store the engine reads.
type TaskSource interface {
	Task(ctx context.Context, id string) (*models.TaskRecord, error)
	TasksByDateRange(ctx context.Context, start, end time.Time) ([]models.TaskRecord, error)
}

// Engine computes aggregates over task sessions.
type Engine struct {
	tasks TaskSource
}

// New returns an engine reading from tasks.
func New(tasks TaskSource) *Engine {
	return &Engine{tasks: tasks}
}

// Stats summarises the tracked sessions of one task.
type Stats struct {
	TotalTime          time.Duration
	AverageSessionTime time.Duration
	TotalBreakTime     time.Duration
	Sessions           int
	// CompletionRate is 1 for a completed task and 0 otherwise. There is no
	// completion history to derive a real rate from.
	CompletionRate float64
}

// Millis is the millisecond view of Stats used by exports.
type Millis struct {
	TotalTime          int64   `json:"totalTime" yaml:"totalTime"`
	AverageSessionTime int64   `json:"averageSessionTime" yaml:"averageSessionTime"`
	TotalBreakTime     int64   `json:"totalBreakTime" yaml:"totalBreakTime"`
	CompletionRate     float64 `json:"completionRate" yaml:"completionRate"`
}

// Millis converts the durations to whole milliseconds.
func (s Stats) Millis() Millis {
	return Millis{
		TotalTime:          s.TotalTime.Milliseconds(),
		AverageSessionTime: s.AverageSessionTime.Milliseconds(),
		TotalBreakTime:     s.TotalBreakTime.Milliseconds(),
		CompletionRate:     s.CompletionRate,
	}
}

// TaskStats loads the task and aggregates its sessions. A missing task
// fails with the store's not-found error.
func (e *Engine) TaskStats(ctx context.Context, taskID string) (Stats, error) {
	task, err := e.tasks.Task(ctx, taskID)
	if err != nil {
		return Stats{}, err
	}
	return ForTask(*task), nil
}

// ForTask aggregates the sessions already loaded on task.
func ForTask(task models.TaskRecord) Stats {
	st := Stats{Sessions: len(task.TimeTracking)}
	for _, session := range task.TimeTracking {
		st.TotalTime += session.Duration()
		st.TotalBreakTime += session.BreakTime()
	}
	if st.Sessions > 0 {
		st.AverageSessionTime = st.TotalTime / time.Duration(st.Sessions)
	}
	if task.Completed {
		st.CompletionRate = 1
	}
	return st
}
