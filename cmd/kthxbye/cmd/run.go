package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	mdwlog "github.com/msto63/kthxbye/foundation/core/log"
	"github.com/msto63/kthxbye/internal/engine"
	"github.com/msto63/kthxbye/internal/lolcode/interp"
	"github.com/msto63/kthxbye/internal/lolcode/scope"
	"github.com/msto63/kthxbye/internal/lolcode/source"
)

var (
	runWatch   bool
	runDumpEnv bool
	runVerdict bool
	runInput   []string
)

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a program",
	Long: `Runs a LOLCODE program in a single pass.

VISIBLE output goes to stdout. The first error is reported on stderr as
"Error at Line <n> : <message>" and the command exits with status 1.
GIMMEH reads whitespace separated words from stdin unless --input is given.

Examples:
  kthxbye run hello.lol
  kthxbye run --input 3,4 sum.lol
  kthxbye run --watch --verdict hello.lol`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "run again whenever the file changes")
	runCmd.Flags().BoolVar(&runDumpEnv, "dump-env", false, "print the final global variables to stderr")
	runCmd.Flags().BoolVar(&runVerdict, "verdict", false, "print whether the program is valid")
	runCmd.Flags().StringSliceVar(&runInput, "input", nil, "words for GIMMEH instead of stdin")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	path := args[0]
	if !runWatch {
		return runFile(ctx, a, cmd, path)
	}
	return watchFile(ctx, a, cmd, path)
}

// runFile runs path once. An invalid program yields errInvalidProgram.
func runFile(ctx context.Context, a *app, cmd *cobra.Command, path string) error {
	prog, err := source.ReadFile(path)
	if err != nil {
		return err
	}

	req := engine.Request{
		Program:    prog,
		InputWords: runInput,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	}
	if len(runInput) == 0 {
		req.Input = interp.NewReaderSource(cmd.InOrStdin())
	}

	report, err := a.engine.Run(ctx, req)
	if err != nil {
		return err
	}

	printSummary(cmd.ErrOrStderr(), a, report)
	if !report.Valid {
		return errInvalidProgram
	}
	return nil
}

func printSummary(w io.Writer, a *app, report *engine.Report) {
	if runDumpEnv || a.cfg.Interpreter.DumpEnv {
		scope.WriteTable(w, report.Globals)
	}
	if runVerdict || runDumpEnv || a.cfg.Interpreter.DumpEnv {
		style := validStyle
		if !report.Valid {
			style = errorStyle
		}
		fmt.Fprintln(w, style.Render(report.Verdict))
	}
}

// watchFile runs path, then again after every write until ctx is done.
// The directory is watched so that editors replacing the file are seen.
func watchFile(ctx context.Context, a *app, cmd *cobra.Command, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create file watcher").WithCode(mdwerror.CodeInternal)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return mdwerror.Wrap(err, "failed to watch directory").
			WithCode(mdwerror.CodeInvalidInput).
			WithDetail("path", filepath.Dir(abs))
	}

	rerun := func() {
		fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render(fmt.Sprintf("--- %s %s", filepath.Base(abs), time.Now().Format("15:04:05"))))
		if err := runFile(ctx, a, cmd, abs); err != nil && err != errInvalidProgram {
			printError(err)
		}
	}
	rerun()

	// editors often write a file in several steps
	const settle = 100 * time.Millisecond
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			a.logger.Debug("file changed", mdwlog.Fields{"path": ev.Name, "op": ev.Op.String()})
			pending = time.After(settle)

		case <-pending:
			pending = nil
			rerun()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.WarnWithErr("file watcher error", err)
		}
	}
}
