// Package tui holds the interactive terminal views: the floating timer and
// the daily checklist.
package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balkashynov/daybook/internal/models"
)

// RunTimerTUI runs the timer for task and records the session if the user
// saves it.
func RunTimerTUI(ctx context.Context, recorder SessionRecorder, task models.TaskRecord) error {
	p := tea.NewProgram(NewTimerModel(task, time.Now), tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	timer := finalModel.(TimerModel)
	session, ok := timer.Session()
	if !ok {
		fmt.Printf("❌ Session for \"%s\" discarded.\n", task.Title)
		return nil
	}

	if err := recorder.AddTimeTrackingEntry(ctx, task.ID, session); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Printf("⏹️  Recorded session for \"%s\"\n", task.Title)
	fmt.Printf("📊 Session: %s, breaks: %s\n", formatDuration(session.Duration()), formatDuration(session.BreakTime()))
	return nil
}

// RunChecklistTUI shows items until the user quits.
func RunChecklistTUI(ctx context.Context, toggler CompletionToggler, title string, items []models.TodoItem) error {
	p := tea.NewProgram(NewChecklistModel(ctx, toggler, title, items), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
