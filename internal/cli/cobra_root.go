package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"kanban-todo/internal/config"
	"kanban-todo/internal/logging"
)

// AppFactory builds the application once configuration is final. The
// returned func releases whatever the app opened.
type AppFactory func(cfg *config.Config) (*App, func(), error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd     *cobra.Command
	loader  *config.Loader
	factory AppFactory

	app     *App
	config  *config.Config
	cleanup func()

	in  io.Reader
	out io.Writer
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(loader *config.Loader, factory AppFactory) *RootCommand {
	root := &RootCommand{
		loader:  loader,
		factory: factory,
	}

	root.cmd = &cobra.Command{
		Use:   "kb",
		Short: "A kanban board and work planner for the terminal",
		Long: `kb is a command-line client for a shared kanban board.

FEATURES:
  • View the board and manage todos, statuses and assignees
  • Reorder cards within a column
  • Plan a day by allocating todos onto a half-hour timeline
  • Import todos in bulk, back up and restore the whole board
  • Render meeting minutes from the current board
  • Full-screen interactive mode with drag and drop

EXAMPLES:
  kb login                                 # Log in and store a session
  kb board                                 # Show the board
  kb todo add "Write report" --priority high --assignee Alice
  kb todo status 12 doing                  # Move todo #12 to Doing
  kb plan place 12 09:30 --duration 3      # Allocate 09:30-11:00 today
  kb plan show                             # Show today's allocation
  kb tui                                   # Interactive board and planner

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > .env > config file > defaults

    KB_CONFIG                              Config file (default: ~/.kb/config.yaml)
    KB_API_URL                             Server base URL (default: http://localhost:8080)
    KB_DB_DIR                              Local store directory (default: ~/.kb)
    KB_DB_FILENAME                         Local store filename (default: kb.db)
    KB_APP_TIMEOUT                         Request timeout (default: 60s)
    KB_APP_VERBOSE                         Enable debug logging (default: false)
    KB_TIMELINE_LAYOUT                     Overlap layout: local or cluster (default: local)
    KB_TIMELINE_WORK_START                 Start of working hours (default: 09:00)
    KB_TIMELINE_WORK_END                   End of working hours (default: 18:00)
    KB_IMPORT_CONCURRENCY                  Parallel creates during import (default: 8)
    KB_DISPLAY_DATE_FORMAT                 Date format for minutes (default: 2006/1/2)

GETTING HELP:
  kb [command] --help                      # Get help for any specific command
  kb completion bash                       # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setup()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// SetIO replaces the streams of the app built for the next run.
func (r *RootCommand) SetIO(in io.Reader, out io.Writer) {
	r.in = in
	r.out = out
	r.cmd.SetOut(out)
	r.cmd.SetErr(out)
}

// SetArgs sets the arguments for the next run, mainly for tests.
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command under ctx and releases the app afterwards.
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	defer func() {
		if r.cleanup != nil {
			r.cleanup()
			r.cleanup = nil
		}
	}()
	return r.cmd.ExecuteContext(ctx)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.String("api-url", "", "Server base URL (overrides KB_API_URL)")
	flags.String("db-dir", "", "Local store directory (overrides KB_DB_DIR)")
	flags.String("db-filename", "", "Local store filename (overrides KB_DB_FILENAME)")
	flags.Duration("timeout", 0, "Request timeout (overrides KB_APP_TIMEOUT)")
	flags.BoolP("verbose", "v", false, "Enable debug logging (overrides KB_APP_VERBOSE)")
	flags.String("layout", "", "Timeline overlap layout, local or cluster (overrides KB_TIMELINE_LAYOUT)")
	flags.Int("import-concurrency", 0, "Parallel creates during import (overrides KB_IMPORT_CONCURRENCY)")
}

// overridesFromFlags collects the global flags the user actually set
func (r *RootCommand) overridesFromFlags() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	if flags.Changed("api-url") {
		v, _ := flags.GetString("api-url")
		overrides.APIURL = &v
	}
	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		overrides.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		overrides.DBFilename = &v
	}
	if flags.Changed("timeout") {
		v, _ := flags.GetDuration("timeout")
		overrides.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		overrides.Verbose = &v
	}
	if flags.Changed("layout") {
		v, _ := flags.GetString("layout")
		overrides.LayoutMode = &v
	}
	if flags.Changed("import-concurrency") {
		v, _ := flags.GetInt("import-concurrency")
		overrides.ImportConcurrency = &v
	}
	return overrides
}

// setup loads configuration with flag overrides and builds the app
func (r *RootCommand) setup() error {
	if r.loader == nil || r.factory == nil {
		return fmt.Errorf("application not initialized")
	}

	cfg, err := r.loader.LoadWithOverrides(r.overridesFromFlags())
	if err != nil {
		return err
	}
	logging.SetVerbose(cfg.Application.Verbose)
	logging.Debugf("config: api=%s db=%s layout=%s", cfg.API.BaseURL, cfg.GetDatabasePath(), cfg.Timeline.LayoutMode)

	app, cleanup, err := r.factory(cfg)
	if err != nil {
		return err
	}
	if r.in != nil && r.out != nil {
		app.SetIO(r.in, r.out)
	}
	r.app = app
	r.config = cfg
	r.cleanup = cleanup
	return nil
}

// getAppTimeout returns the configured request timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil && r.config.Application.Timeout > 0 {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

func (r *RootCommand) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), r.getAppTimeout())
}

// interactiveContext allows extra time for commands that prompt the user
func (r *RootCommand) interactiveContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), r.getAppTimeout()*2)
}
