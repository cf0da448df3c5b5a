package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/parser"
	"github.com/balkashynov/daybook/internal/stats"
	"github.com/balkashynov/daybook/internal/validate"
)

func newTaskCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage calendar tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(a),
		newTaskEditCmd(a),
		newTaskDoneCmd(a),
		newTaskListCmd(a),
		newTaskSearchCmd(a),
		newTaskShowCmd(a),
		newTaskRemoveCmd(a),
	)
	return cmd
}

func addTaskFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("date", "d", "", "date (yyyy-mm-dd, dd/mm/yyyy, today, tomorrow, X days)")
	cmd.Flags().String("at", "", "time of day (HH:MM)")
	cmd.Flags().Int("duration", 0, "planned duration in minutes")
	cmd.Flags().StringP("category", "c", "", "category")
	cmd.Flags().StringSliceP("tags", "t", nil, "tags (comma-separated)")
	cmd.Flags().String("description", "", "description")
	cmd.Flags().String("notes", "", "notes")
	cmd.Flags().String("recurring", "", "repeat: daily|weekly|monthly")
}

// taskDate combines --date and --at into a point in time.
func taskDate(cmd *cobra.Command, now time.Time) (time.Time, error) {
	rawDate, _ := cmd.Flags().GetString("date")
	day, err := parser.ParseDate(rawDate, now)
	if err != nil {
		return time.Time{}, err
	}
	if rawAt, _ := cmd.Flags().GetString("at"); rawAt != "" {
		return parser.ParseClock(rawAt, day)
	}
	return day, nil
}

func newTaskAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a calendar task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			date, err := taskDate(cmd, a.now())
			if err != nil {
				return err
			}

			in := models.NewTask{
				Title: strings.Join(args, " "),
				Date:  date,
			}
			in.Duration, _ = flags.GetInt("duration")
			in.Category, _ = flags.GetString("category")
			in.Tags, _ = flags.GetStringSlice("tags")
			in.Description, _ = flags.GetString("description")
			in.Notes, _ = flags.GetString("notes")
			if recurring, _ := flags.GetString("recurring"); recurring != "" {
				in.IsRecurring = true
				in.RecurringPattern = models.RecurringPattern(recurring)
			}

			if err := validate.NewTask(in); err != nil {
				return err
			}
			id, err := a.stores.Tasks.AddTask(cmd.Context(), in)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "✅ New task \"%s\" on %s - ID: %s\n", in.Title, date.Format("Jan 02, 2006 15:04"), shortID(id))
			return nil
		},
	}
	addTaskFlags(cmd)
	return cmd
}

func newTaskEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Change fields of a task",
		Long: `Change fields of a task. Only the flags you pass are updated.

Usage:
  daybook task edit 1a2b --title "New title" --duration 45`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := a.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}

			update, err := taskUpdateFromFlags(cmd, a.now())
			if err != nil {
				return err
			}
			if update.Empty() {
				return fmt.Errorf("nothing to change; pass at least one flag")
			}
			if err := validate.TaskUpdate(update); err != nil {
				return err
			}
			if err := a.stores.Tasks.UpdateTask(ctx, id, update); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "✏️  Updated task %s\n", shortID(id))
			return nil
		},
	}
	addTaskFlags(cmd)
	cmd.Flags().String("title", "", "title")
	return cmd
}

// taskUpdateFromFlags turns the flags the user set into a TaskUpdate.
func taskUpdateFromFlags(cmd *cobra.Command, now time.Time) (models.TaskUpdate, error) {
	flags := cmd.Flags()
	var u models.TaskUpdate

	if flags.Changed("title") {
		v, _ := flags.GetString("title")
		u.Title = &v
	}
	if flags.Changed("date") || flags.Changed("at") {
		d, err := taskDate(cmd, now)
		if err != nil {
			return u, err
		}
		u.Date = &d
	}
	if flags.Changed("duration") {
		v, _ := flags.GetInt("duration")
		u.Duration = &v
	}
	if flags.Changed("category") {
		v, _ := flags.GetString("category")
		u.Category = &v
	}
	if flags.Changed("tags") {
		v, _ := flags.GetStringSlice("tags")
		u.Tags = &v
	}
	if flags.Changed("description") {
		v, _ := flags.GetString("description")
		u.Description = &v
	}
	if flags.Changed("notes") {
		v, _ := flags.GetString("notes")
		u.Notes = &v
	}
	if flags.Changed("recurring") {
		v, _ := flags.GetString("recurring")
		recurring := v != ""
		u.IsRecurring = &recurring
		if recurring {
			pattern := models.RecurringPattern(v)
			u.RecurringPattern = &pattern
		}
	}
	return u, nil
}

func newTaskDoneCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := a.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}

			undo, _ := cmd.Flags().GetBool("undo")
			completed := !undo
			update := models.TaskUpdate{Completed: &completed}
			if completed {
				now := a.now()
				update.CompletedAt = &now
			}
			if err := a.stores.Tasks.UpdateTask(ctx, id, update); err != nil {
				return err
			}

			if completed {
				printf(cmd.OutOrStdout(), "✅ Marked task %s as done\n", shortID(id))
			} else {
				printf(cmd.OutOrStdout(), "↩️  Marked task %s back to todo\n", shortID(id))
			}
			return nil
		},
	}
	cmd.Flags().Bool("undo", false, "reopen a completed task")
	return cmd
}

func newTaskListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks in a date range or category",
		Long:    "List tasks between --from and --to (both inclusive, default: the current month), or in one category.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()

			var (
				tasks []models.TaskRecord
				err   error
			)
			if flags.Changed("category") {
				category, _ := flags.GetString("category")
				tasks, err = a.stores.Tasks.TasksByCategory(ctx, category)
			} else {
				var from, to time.Time
				from, to, err = dateRange(cmd, a.now())
				if err != nil {
					return err
				}
				tasks, err = a.stores.Tasks.TasksByDateRange(ctx, from, to)
			}
			if err != nil {
				return err
			}

			if jsonOutput, _ := flags.GetBool("json"); jsonOutput {
				return writeJSON(cmd.OutOrStdout(), tasks)
			}
			renderTaskTable(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
	addRangeFlags(cmd)
	cmd.Flags().StringP("category", "c", "", "only tasks in this category")
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}

func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "first day (default: first day of this month)")
	cmd.Flags().String("to", "", "last day (default: last day of this month)")
}

// dateRange resolves --from/--to into [start of from, end of to].
func dateRange(cmd *cobra.Command, now time.Time) (time.Time, time.Time, error) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, -1)

	if raw, _ := cmd.Flags().GetString("from"); raw != "" {
		d, err := parser.ParseDate(raw, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = d
	}
	if raw, _ := cmd.Flags().GetString("to"); raw != "" {
		d, err := parser.ParseDate(raw, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = d
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("--to is before --from")
	}
	return from, to.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func newTaskSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search tasks",
		Long: `Search tasks by title, description, notes and tags.

Every word of the query must match (case insensitive). An empty query lists
every task.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			tasks, err := a.stores.Tasks.SearchTasks(cmd.Context(), query)
			if err != nil {
				return err
			}
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				return writeJSON(cmd.OutOrStdout(), tasks)
			}
			printf(cmd.OutOrStdout(), "Search results for '%s' (%d found):\n\n", query, len(tasks))
			renderTaskTable(cmd.OutOrStdout(), tasks)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}

// showWrapWidth is where task show wraps descriptions and notes.
const showWrapWidth = 72

func newTaskShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task with its session history and statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := a.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			task, err := a.stores.Tasks.Task(ctx, id)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printf(w, "%s\n", task.Title)
			printf(w, "%s\n", strings.Repeat("─", 40))
			printf(w, "ID:        %s\n", task.ID)
			printf(w, "Date:      %s\n", task.Date.Format("Mon Jan 02, 2006 15:04"))
			printf(w, "Category:  %s\n", orNone(task.Category))
			printf(w, "Planned:   %d min\n", task.Duration)
			if task.IsRecurring {
				printf(w, "Repeats:   %s\n", task.RecurringPattern)
			}
			status := "open"
			if task.Completed {
				status = "done"
				if task.CompletedAt != nil {
					status += " " + humanize.Time(*task.CompletedAt)
				}
			}
			printf(w, "Status:    %s\n", status)
			if len(task.Tags) > 0 {
				printf(w, "Tags:      #%s\n", strings.Join(task.Tags, " #"))
			}
			if task.Description != "" {
				printf(w, "\n%s\n", wordwrap.String(task.Description, showWrapWidth))
			}
			if task.Notes != "" {
				printf(w, "\nNotes: %s\n", wordwrap.String(task.Notes, showWrapWidth-7))
			}
			printf(w, "\nCreated %s, updated %s\n\n", humanize.Time(task.CreatedAt), humanize.Time(task.UpdatedAt))

			renderSessions(w, task.TimeTracking)
			printf(w, "\n")
			renderStats(w, stats.ForTask(*task))
			return nil
		},
	}
}

func newTaskRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task and its sessions",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolveTaskID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.stores.Tasks.DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "🗑️  Deleted task %s\n", shortID(id))
			return nil
		},
	}
}

// renderTaskTable prints tasks as a fixed-width table
func renderTaskTable(w io.Writer, tasks []models.TaskRecord) {
	if len(tasks) == 0 {
		printf(w, "No tasks found. Use 'daybook task add \"title\"' to create one.\n")
		return
	}

	printf(w, "%-8s %-4s %-16s %-32s %-12s %-8s %s\n", "ID", "DONE", "DATE", "TITLE", "CATEGORY", "TRACKED", "TAGS")
	printf(w, "%s\n", strings.Repeat("-", 96))
	for _, t := range tasks {
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		printf(w, "%-8s %-4s %-16s %-32s %-12s %-8s %s\n",
			shortID(t.ID),
			done,
			t.Date.Format("2006-01-02 15:04"),
			truncate(t.Title, 32),
			truncate(t.Category, 12),
			formatDuration(stats.ForTask(t).TotalTime),
			strings.Join(t.Tags, ","))
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
