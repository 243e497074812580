package cmd

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/msto63/kthxbye/internal/repl"
	"github.com/msto63/kthxbye/pkg/core/version"
)

var replVerdict bool

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive interpreter",
	Long: `Reads a program line by line and runs it as soon as KTHXBYE is entered.

GIMMEH asks for input at the GIMMEH> prompt. Ctrl+C discards the program
being typed, :quit or Ctrl+D exits.`,
	Args: cobra.NoArgs,
	RunE: runRepl,
}

func init() {
	replCmd.Flags().BoolVar(&replVerdict, "verdict", true, "print whether each program is valid")
	rootCmd.AddCommand(replCmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := a.cfg.REPL.HistoryFile
	if f, err := os.Open(histPath); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if histPath == "" {
			return
		}
		os.MkdirAll(filepath.Dir(histPath), 0o755)
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	out := cmd.OutOrStdout()
	out.Write([]byte(headerStyle.Render("kthxbye "+version.App) + mutedStyle.Render("  type :help for help") + "\n"))

	session := repl.New(repl.Options{
		Engine:  a.engine,
		Reader:  ln,
		Out:     out,
		Err:     cmd.ErrOrStderr(),
		Verdict: replVerdict,
		OnProgram: func(src string) {
			ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))
		},
	})
	return session.Run(ctx)
}
