package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/balkashynov/daybook/internal/models"
	"github.com/balkashynov/daybook/internal/parser"
	"github.com/balkashynov/daybook/internal/stats"
	"github.com/balkashynov/daybook/internal/tui"
	"github.com/balkashynov/daybook/internal/validate"
)

func newTodoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage the daily todo list",
	}
	cmd.AddCommand(
		newTodoAddCmd(a),
		newTodoListCmd(a),
		newTodoTodayCmd(a),
		newTodoDoneCmd(a),
		newTodoEditCmd(a),
		newTodoRemoveCmd(a),
		newTodoSearchCmd(a),
	)
	return cmd
}

func newTodoAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a todo",
		Long: `Add a todo to the list.

Smart parsing syntax:
  #tag1,tag2    - Tags (comma-separated or individual)
  @category     - Category
  +priority     - Priority (low/medium/high or 1/2/3)
  on:tomorrow   - Date (yyyy-mm-dd, dd/mm/yyyy, today, tomorrow, 3_days)
  at:09:30      - Time of day
  type:event    - task, event, note, project, timer, upload or chat

Flags override anything parsed from the title.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := a.now()
			parsed := parser.ParseQuickAdd(strings.Join(args, " "), now)
			if len(parsed.Errors) > 0 {
				return fmt.Errorf("could not parse todo: %s", strings.Join(parsed.Errors, "; "))
			}

			item := parsed.Item()
			item.ID, _ = cmd.Flags().GetString("id")
			if err := applyTodoFlags(cmd, &item, a); err != nil {
				return err
			}
			if err := validate.Todo(item); err != nil {
				return err
			}

			id, err := a.stores.Todos.Add(cmd.Context(), item)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "✅ Added todo \"%s\" for %s - ID: %s\n", item.Title, item.Date, shortID(id))
			return nil
		},
	}
	addTodoFlags(cmd)
	cmd.Flags().String("id", "", "use this id instead of a generated one")
	return cmd
}

func addTodoFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("date", "d", "", "date (yyyy-mm-dd, dd/mm/yyyy, today, tomorrow, X days)")
	cmd.Flags().String("time", "", "time of day (HH:MM)")
	cmd.Flags().StringP("priority", "p", "", "priority: low|medium|high")
	cmd.Flags().StringP("category", "c", "", "category")
	cmd.Flags().StringSliceP("tags", "t", nil, "tags (comma-separated)")
	cmd.Flags().String("type", "", "type: task|event|note|project|timer|upload|chat")
	cmd.Flags().String("description", "", "longer description")
	cmd.Flags().String("title", "", "title")
}

// applyTodoFlags copies every flag the user set onto item.
func applyTodoFlags(cmd *cobra.Command, item *models.TodoItem, a *app) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		item.Title, _ = flags.GetString("title")
	}
	if flags.Changed("date") {
		raw, _ := flags.GetString("date")
		d, err := parser.ParseDate(raw, a.now())
		if err != nil {
			return err
		}
		item.Date = parser.FormatDate(d)
	}
	if flags.Changed("time") {
		item.Time, _ = flags.GetString("time")
	}
	if flags.Changed("priority") {
		raw, _ := flags.GetString("priority")
		p, ok := parser.NormalizePriority(raw)
		if !ok {
			return fmt.Errorf("invalid priority %q. Use: low, medium, high, 1, 2, or 3", raw)
		}
		item.Priority = p
	}
	if flags.Changed("category") {
		item.Category, _ = flags.GetString("category")
	}
	if flags.Changed("tags") {
		tags, _ := flags.GetStringSlice("tags")
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if tag != "" && !item.HasTag(tag) {
				item.Tags = append(item.Tags, tag)
			}
		}
	}
	if flags.Changed("type") {
		raw, _ := flags.GetString("type")
		item.Type = models.TodoType(raw)
	}
	if flags.Changed("description") {
		item.Description, _ = flags.GetString("description")
	}
	return nil
}

func newTodoListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos",
		Long:    "List todos for a day (today by default), or filter by type or category.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			flags := cmd.Flags()
			all, _ := flags.GetBool("all")
			jsonOutput, _ := flags.GetBool("json")

			var (
				items []models.TodoItem
				err   error
			)
			switch {
			case all:
				items, err = a.stores.Todos.All(ctx)
			case flags.Changed("type"):
				raw, _ := flags.GetString("type")
				if !models.IsValidTodoType(raw) {
					return fmt.Errorf("unknown todo type %q", raw)
				}
				items, err = a.stores.Todos.ByType(ctx, models.TodoType(raw))
			case flags.Changed("category"):
				category, _ := flags.GetString("category")
				items, err = a.stores.Todos.ByCategory(ctx, category)
			default:
				raw, _ := flags.GetString("date")
				var d = a.now()
				if raw != "" {
					if d, err = parser.ParseDate(raw, a.now()); err != nil {
						return err
					}
				}
				items, err = a.stores.Todos.ByDate(ctx, parser.FormatDate(d))
			}
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			renderTodoTable(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().StringP("date", "d", "", "day to list (default today)")
	cmd.Flags().String("type", "", "only todos of this type")
	cmd.Flags().StringP("category", "c", "", "only todos in this category")
	cmd.Flags().BoolP("all", "a", false, "list every todo")
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}

func newTodoTodayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Open today's checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := parser.FormatDate(a.now())
			items, err := a.stores.Todos.ByDate(cmd.Context(), today)
			if err != nil {
				return err
			}

			noUI, _ := cmd.Flags().GetBool("no-ui")
			if noUI || !interactive() {
				done, total := stats.TodoProgress(items)
				printf(cmd.OutOrStdout(), "Today (%s): %d/%d done\n\n", today, done, total)
				renderTodoTable(cmd.OutOrStdout(), items)
				return nil
			}
			return tui.RunChecklistTUI(cmd.Context(), a.stores.Todos, "Today · "+today, items)
		},
	}
	cmd.Flags().Bool("no-ui", false, "print instead of opening the checklist")
	return cmd
}

// interactive reports whether both ends of the terminal are attached.
func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func newTodoDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <todo-id>",
		Short: "Toggle a todo between done and open",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolveTodoID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			item, err := a.stores.Todos.ToggleCompletion(cmd.Context(), id)
			if err != nil {
				return err
			}
			if item.Completed {
				printf(cmd.OutOrStdout(), "✅ Marked \"%s\" as done\n", item.Title)
			} else {
				printf(cmd.OutOrStdout(), "↩️  Reopened \"%s\"\n", item.Title)
			}
			return nil
		},
	}
}

func newTodoEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <todo-id>",
		Short: "Change fields of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := a.resolveTodoID(ctx, args[0])
			if err != nil {
				return err
			}
			item, err := a.stores.Todos.Get(ctx, id)
			if err != nil {
				return err
			}
			if item == nil {
				return fmt.Errorf("todo %s disappeared", shortID(id))
			}

			if clearTags, _ := cmd.Flags().GetBool("clear-tags"); clearTags {
				item.Tags = []string{}
			}
			if err := applyTodoFlags(cmd, item, a); err != nil {
				return err
			}
			if err := validate.Todo(*item); err != nil {
				return err
			}
			if err := a.stores.Todos.Update(ctx, *item); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "✏️  Updated todo \"%s\"\n", item.Title)
			return nil
		},
	}
	addTodoFlags(cmd)
	cmd.Flags().Bool("clear-tags", false, "remove existing tags before applying --tags")
	return cmd
}

func newTodoRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <todo-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo permanently",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolveTodoID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.stores.Todos.Delete(cmd.Context(), id); err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "🗑️  Deleted todo %s\n", shortID(id))
			return nil
		},
	}
}

func newTodoSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search todos",
		Long: `Search todos by title, description, category and tags.

Every word of the query must match (case insensitive). An empty query lists
every todo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			items, err := a.stores.Todos.Search(cmd.Context(), query)
			if err != nil {
				return err
			}
			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			printf(cmd.OutOrStdout(), "Search results for '%s' (%d found):\n\n", query, len(items))
			renderTodoTable(cmd.OutOrStdout(), items)
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}

// renderTodoTable prints todos as a fixed-width table
func renderTodoTable(w io.Writer, items []models.TodoItem) {
	if len(items) == 0 {
		printf(w, "No todos found. Use 'daybook todo add \"title\"' to create one.\n")
		return
	}

	printf(w, "%-8s %-4s %-10s %-5s %-32s %-12s %-7s %s\n", "ID", "DONE", "DATE", "TIME", "TITLE", "CATEGORY", "PRIO", "TAGS")
	printf(w, "%s\n", strings.Repeat("-", 96))
	for _, item := range items {
		done := "[ ]"
		if item.Completed {
			done = "[x]"
		}
		printf(w, "%-8s %-4s %-10s %-5s %-32s %-12s %-7s %s\n",
			shortID(item.ID),
			done,
			item.Date,
			item.Time,
			truncate(item.Title, 32),
			truncate(item.Category, 12),
			item.Priority,
			strings.Join(item.Tags, ","))
	}
	printf(w, "\n%d todo(s), newest added %s\n", len(items), humanize.Time(newestTodo(items)))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func newestTodo(items []models.TodoItem) time.Time {
	var newest time.Time
	for _, item := range items {
		if item.CreatedAt.After(newest) {
			newest = item.CreatedAt
		}
	}
	return newest
}
