package cmd

import (
	"github.com/spf13/cobra"

	"github.com/msto63/kthxbye/internal/lolcode/source"
	"github.com/msto63/kthxbye/internal/tui/playground"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [FILE]",
	Short: "Start the playground",
	Long: `Starts the terminal playground with a program editor, an input line
for GIMMEH words and an output pane.

Navigation:
  Ctrl+R    - run the program
  Tab       - switch between editor, input and output
  Ctrl+L    - clear the output
  Ctrl+C    - quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	cfg := playground.Config{Engine: a.engine}
	if len(args) == 1 {
		prog, err := source.ReadFile(args[0])
		if err != nil {
			return err
		}
		cfg.Name = prog.Name
		cfg.Source = prog.Text
	}
	return playground.Run(cfg)
}
