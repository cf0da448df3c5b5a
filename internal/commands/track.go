package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/parser"
	"github.com/balkashynov/daybook/internal/stats"
	"github.com/balkashynov/daybook/internal/tui"
	"github.com/balkashynov/daybook/internal/validate"
)

func newTrackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "track <task-id>",
		Short: "Track time on a task with the interactive timer",
		Long: `Open the floating timer for a task.

Keys:
  b   start or end a break
  s   stop and save the session
  q   discard the session`,
		Args: cobra.ExactArgs(1),
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
			if !interactive() {
				return fmt.Errorf("the timer needs a terminal; use 'daybook log' to record a session")
			}
			return tui.RunTimerTUI(ctx, a.stores.Tasks, *task)
		},
	}
}

func newLogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <task-id>",
		Short: "Record a finished work session",
		Long: `Record a session that was not tracked live.

Examples:
  daybook log 1a2b --start 09:00 --end 09:30
  daybook log 1a2b --date yesterday --start 14:00 --end 14:20 --break 14:05-14:10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := sessionFromFlags(cmd, a.now())
			if err != nil {
				return err
			}
			if err := validate.Session(session); err != nil {
				return err
			}

			id, err := a.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.stores.Tasks.AddTimeTrackingEntry(ctx, id, session); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "⏱️  Logged %s (%s on break) for task %s\n",
				formatDuration(session.Duration()), formatDuration(session.BreakTime()), shortID(id))
			return nil
		},
	}
	cmd.Flags().StringP("date", "d", "", "day of the session (default today)")
	cmd.Flags().String("start", "", "start time (HH:MM)")
	cmd.Flags().String("end", "", "end time (HH:MM)")
	cmd.Flags().StringArray("break", nil, "break interval HH:MM-HH:MM (repeatable)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

// sessionFromFlags builds a session from --date, --start, --end and --break.
func sessionFromFlags(cmd *cobra.Command, now time.Time) (models.Session, error) {
	flags := cmd.Flags()
	rawDate, _ := flags.GetString("date")
	day, err := parser.ParseDate(rawDate, now)
	if err != nil {
		return models.Session{}, err
	}

	rawStart, _ := flags.GetString("start")
	rawEnd, _ := flags.GetString("end")
	start, err := parser.ParseClock(rawStart, day)
	if err != nil {
		return models.Session{}, err
	}
	end, err := parser.ParseClock(rawEnd, day)
	if err != nil {
		return models.Session{}, err
	}

	session := models.Session{StartTime: start, EndTime: end, Breaks: []models.Break{}}
	rawBreaks, _ := flags.GetStringArray("break")
	for _, raw := range rawBreaks {
		bStart, bEnd, err := parser.ParseInterval(raw, day)
		if err != nil {
			return models.Session{}, err
		}
		session.Breaks = append(session.Breaks, models.Break{Start: bStart, End: bEnd})
	}
	return session, nil
}

func newHistoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <task-id>",
		Short: "Show the tracked sessions of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := a.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			sessions, err := a.stores.Tasks.TaskHistory(ctx, id)
			if err != nil {
				return err
			}
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				return writeJSON(cmd.OutOrStdout(), sessions)
			}
			renderSessions(cmd.OutOrStdout(), sessions)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <task-id>",
		Short: "Show time statistics for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := a.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			st, err := a.stats.TaskStats(ctx, id)
			if err != nil {
				return err
			}
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				return writeJSON(cmd.OutOrStdout(), st.Millis())
			}
			renderStats(cmd.OutOrStdout(), st)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "output as JSON (milliseconds)")
	return cmd
}

func newProgressCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show daily completion and tracked time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to, err := dateRange(cmd, a.now())
			if err != nil {
				return err
			}
			days, err := a.stats.DailyProgress(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				return writeJSON(cmd.OutOrStdout(), days)
			}

			w := cmd.OutOrStdout()
			printf(w, "%-10s %-4s %-9s %s\n", "DATE", "DAY", "DONE", "TRACKED")
			printf(w, "%s\n", strings.Repeat("-", 40))
			for _, d := range days {
				day, _ := time.Parse(models.DateLayout, d.Date)
				printf(w, "%-10s %-4s %-9s %s\n", d.Date, day.Format("Mon"), fmt.Sprintf("%d/%d", d.Completed, d.Total), formatDuration(d.TimeSpent))
			}
			return nil
		},
	}
	addRangeFlags(cmd)
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}

// renderSessions prints a session history, oldest first.
func renderSessions(w io.Writer, sessions []models.Session) {
	if len(sessions) == 0 {
		printf(w, "No sessions recorded yet.\n")
		return
	}

	printf(w, "%-3s %-17s %-8s %-8s %-8s %s\n", "#", "STARTED", "ENDED", "LENGTH", "BREAKS", "WHEN")
	printf(w, "%s\n", strings.Repeat("-", 70))
	for i, s := range sessions {
		printf(w, "%-3d %-17s %-8s %-8s %-8s %s\n",
			i+1,
			s.StartTime.Format("2006-01-02 15:04"),
			s.EndTime.Format("15:04"),
			formatDuration(s.Duration()),
			formatDuration(s.BreakTime()),
			humanize.Time(s.EndTime))
	}
}

func renderStats(w io.Writer, st stats.Stats) {
	printf(w, "Sessions:        %d\n", st.Sessions)
	printf(w, "Total time:      %s\n", formatDuration(st.TotalTime))
	printf(w, "Average session: %s\n", formatDuration(st.AverageSessionTime))
	printf(w, "Break time:      %s\n", formatDuration(st.TotalBreakTime))
	printf(w, "Completion:      %.0f%%\n", st.CompletionRate*100)
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
