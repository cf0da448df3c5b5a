package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/balkashynov/daybook/internal/config"
	"github.com/balkashynov/daybook/internal/db"
	"github.com/balkashynov/daybook/internal/stats"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// app is everything a command needs, built once per invocation in the
// root command's pre-run hook.
type app struct {
	fs      afero.Fs
	v       *viper.Viper
	baseDir string

	cfg    config.Config
	log    *slog.Logger
	stores *db.Stores
	stats  *stats.Engine
	now    func() time.Time
}

// setup loads configuration and prepares the stores.
func (a *app) setup(cmd *cobra.Command) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(a.v, a.fs, a.baseDir, configFile)
	if err != nil {
		return err
	}
	if err := config.EnsureDataDir(a.fs, cfg); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = config.NewLogger(cmd.ErrOrStderr(), cfg)
	a.stores = db.New(cfg.StoreConfig(a.log))
	a.stats = stats.New(a.stores.Tasks)
	a.log.Debug("configuration loaded", "data_dir", cfg.DataDir, "log_level", cfg.LogLevel)
	return nil
}

func (a *app) close() {
	if a.stores == nil {
		return
	}
	if err := a.stores.Close(); err != nil {
		a.log.Warn("failed to close stores", "error", err)
	}
}

// NewRootCmd builds the command tree. baseDir is the default location of
// config.yaml and the data files.
func NewRootCmd(fs afero.Fs, baseDir string) *cobra.Command {
	return newRootCmd(&app{
		fs:      fs,
		v:       viper.New(),
		baseDir: baseDir,
		now:     time.Now,
	})
}

func newRootCmd(a *app) *cobra.Command {
	baseDir := a.baseDir
	rootCmd := &cobra.Command{
		Use:   "daybook",
		Short: "Todos, calendar tasks and time tracking",
		Long: `daybook keeps a daily todo list and a calendar of tasks with tracked
work sessions, and derives time statistics from that history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is "+baseDir+"/config.yaml)")
	flags.String("data-dir", "", "directory holding the databases")
	flags.String("log-level", "", "log level: debug|info|warn|error")
	flags.BoolP("verbose", "v", false, "log SQL statements and debug output")
	bindFlags(a.v, flags)

	rootCmd.AddCommand(
		newTodoCmd(a),
		newTaskCmd(a),
		newCategoryCmd(a),
		newTrackCmd(a),
		newLogCmd(a),
		newHistoryCmd(a),
		newStatsCmd(a),
		newProgressCmd(a),
		newExportCmd(a),
		newVersionCmd(),
	)
	rootCmd.SetHelpCommand(newHelpCmd())
	return rootCmd
}

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	"data-dir":  "data_dir",
	"log-level": "log_level",
	"verbose":   "verbose",
}

// bindFlags lets flags the user set override config and environment.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for name, key := range flagKeys {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

// Execute runs the root command against the real filesystem.
func Execute(ctx context.Context) error {
	baseDir, err := config.DefaultDir()
	if err != nil {
		return fmt.Errorf("failed to locate home directory: %w", err)
	}
	return NewRootCmd(afero.NewOsFs(), baseDir).ExecuteContext(ctx)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "daybook %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
