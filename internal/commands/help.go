package commands

import (
	"github.com/spf13/cobra"
)

// newHelpCmd replaces cobra's help with an overview when called bare and
// falls back to per-command help otherwise.
func newHelpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show help for daybook or one of its commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				target, _, err := cmd.Root().Find(args)
				if err != nil {
					return err
				}
				return target.Help()
			}
			printf(cmd.OutOrStdout(), "%s", overview)
			return nil
		},
	}
}

const overview = `
daybook - todos, calendar tasks and time tracking

TODOS (todo-app-db):

  todo add <title>        Add a todo
    -d, --date            Day (yyyy-mm-dd, dd/mm/yyyy, today, tomorrow, 3 days)
    --time                Time of day (HH:MM)
    -p, --priority        low|medium|high
    -c, --category        Category
    -t, --tags            Comma-separated tags
    --type                task|event|note|project|timer|upload|chat
    --id                  Use your own id instead of a generated one

    Smart syntax:
      #tag          Add tags
      @category     Set category
      +priority     Set priority
      on:tomorrow   Set the day
      at:09:30      Set the time
      type:event    Set the type

    Example:
      daybook todo add "Dentist @health +high on:tomorrow at:09:30 type:event"

  todo ls                 Today's todos (--date, --type, --category, --all, --json)
  todo today              Interactive checklist for today (--no-ui to print)
  todo done <id>          Toggle done
  todo edit <id>          Change fields (same flags as add)
  todo rm <id>            Delete permanently
  todo search <words>     Every word must match title, description, category or a tag

TASKS (task-history-db):

  task add <title>        Add a calendar task (--date, --at, --duration, --recurring)
  task ls                 Tasks this month (--from, --to, --category)
  task edit <id>          Change fields
  task done <id>          Mark done (--undo to reopen)
  task show <id>          Details, sessions and statistics
  task search <words>     Every word must match title, description, notes or a tag
  task rm <id>            Delete with its sessions
  category add|ls         Manage the category palette

TIME TRACKING:

  track <id>              Interactive timer (b break, s save, q discard)
  log <id>                Record a past session (--start, --end, --break)
  history <id>            Sessions of a task
  stats <id>              Total, average and break time
  progress                Per-day completion and tracked time (--from, --to)

OTHER:

  export                  Dump everything (--format json|yaml, --output)
  version                 Show version

GLOBAL FLAGS:

  --data-dir              Where the databases live (default ~/.daybook)
  --config                Config file (default ~/.daybook/config.yaml)
  --log-level             debug|info|warn|error
  -v, --verbose           Log SQL statements

Ids can be shortened to any unique prefix.
`
