package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	mdwlog "github.com/msto63/kthxbye/foundation/core/log"
	"github.com/msto63/kthxbye/internal/engine"
	"github.com/msto63/kthxbye/internal/history"
	"github.com/msto63/kthxbye/pkg/core/config"
	"github.com/msto63/kthxbye/pkg/core/logging"
)

var (
	cfgFile string
	verbose bool
)

// errInvalidProgram makes the process exit with 1 without printing
// anything beyond the diagnostic already written
var errInvalidProgram = errors.New("program is not valid")

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	validStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
)

var rootCmd = &cobra.Command{
	Use:   "kthxbye",
	Short: "kthxbye - LOLCODE interpreter",
	Long: `kthxbye checks and runs LOLCODE programs in a single pass.

Commands:
  run      - run a program file
  tokens   - print the token table of a program
  repl     - interactive interpreter
  tui      - playground with editor and output pane
  serve    - HTTP/WebSocket API
  history  - inspect recorded runs`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalidProgram) {
			printError(err)
		}
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./kthxbye.toml, ./kthxbye.yaml, ~/.config/kthxbye/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func printError(err error) {
	msg := err.Error()
	if code := mdwerror.GetCode(err); code != mdwerror.CodeUnknown {
		msg = fmt.Sprintf("%s (%s)", msg, code)
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+msg)
}

// app bundles what the commands share
type app struct {
	cfg    *config.Config
	logger *mdwlog.Logger
	store  history.Store
	engine *engine.Engine
}

// loadApp reads the configuration and opens history when enabled. The
// caller must call close.
func loadApp(cmd *cobra.Command) (*app, error) {
	cfg, used, err := config.Discover(cfgFile)
	if err != nil {
		return nil, err
	}

	lc := logging.FromConfig("kthxbye", cfg)
	lc.Output = cmd.ErrOrStderr()
	if verbose {
		lc.Level = "debug"
	}
	logger := logging.NewLogger(lc)
	mdwlog.SetDefault(logger)
	if used != "" {
		logger.Debug("configuration loaded", mdwlog.Fields{"path": used})
	}

	a := &app{cfg: cfg, logger: logger}
	if cfg.History.Enabled {
		store, err := history.NewSQLiteStore(history.SQLiteConfig{Path: cfg.History.Path})
		if err != nil {
			// history is optional for running programs
			logger.WarnWithErr("history disabled", err)
		} else {
			a.store = store
		}
	}

	a.engine = engine.New(engine.OptionsFromConfig(cfg, logger, a.store))
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// requireStore fails when history is disabled or could not be opened
func (a *app) requireStore() (history.Store, error) {
	if a.store == nil {
		return nil, mdwerror.New("run history is disabled").WithCode(mdwerror.CodeConfigError)
	}
	return a.store, nil
}
