package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	"github.com/msto63/kthxbye/foundation/utils/stringx"
	"github.com/msto63/kthxbye/internal/history"
)

var (
	historyLimit     int
	historyName      string
	historyFormat    string
	historyOlderThan time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded runs",
	Long: `Every run started by run, repl, tui or serve is recorded when
[history] enabled = true.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		store, err := a.requireStore()
		if err != nil {
			return err
		}

		records, err := store.List(cmd.Context(), history.Filter{Name: historyName, Limit: historyLimit})
		if err != nil {
			return err
		}
		writeHistoryTable(cmd.OutOrStdout(), records)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one run (ID or unique prefix)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		store, err := a.requireStore()
		if err != nil {
			return err
		}

		rec, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeRecord(cmd.OutOrStdout(), rec, historyFormat)
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()
		store, err := a.requireStore()
		if err != nil {
			return err
		}

		age := historyOlderThan
		if age == 0 {
			age = a.cfg.History.Retention.Duration
		}
		n, err := store.Prune(cmd.Context(), age)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d runs older than %s deleted\n", n, age)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	historyListCmd.Flags().StringVar(&historyName, "name", "", "only runs of this program")
	historyShowCmd.Flags().StringVarP(&historyFormat, "format", "f", "text", "output format: text, json, yaml")
	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "age limit (default: history.retention)")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPruneCmd)
	rootCmd.AddCommand(historyCmd)
}

func writeHistoryTable(w io.Writer, records []*history.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no runs recorded"))
		return
	}

	fmt.Fprintln(w, headerStyle.Render(
		stringx.PadRight("ID", 10, ' ')+stringx.PadRight("Started", 21, ' ')+stringx.PadRight("Program", 22, ' ')+stringx.PadRight("Result", 9, ' ')+"Duration"))
	for _, r := range records {
		result := validStyle.Render(stringx.PadRight("valid", 9, ' '))
		if !r.Valid {
			result = errorStyle.Render(stringx.PadRight("invalid", 9, ' '))
		}
		fmt.Fprintln(w,
			stringx.PadRight(r.ID[:min(8, len(r.ID))], 10, ' ')+
				stringx.PadRight(r.StartedAt.Format("2006-01-02 15:04:05"), 21, ' ')+
				stringx.PadRight(stringx.Truncate(r.Name, 20, "…"), 22, ' ')+
				result+
				r.Duration.Round(time.Microsecond).String())
	}
}

func writeRecord(w io.Writer, rec *history.Record, format string) error {
	switch format {
	case "text", "":
		fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Run"), rec.ID)
		fmt.Fprintf(w, "Program:  %s\n", rec.Name)
		fmt.Fprintf(w, "Started:  %s\n", rec.StartedAt.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration: %s\n", rec.Duration)
		fmt.Fprintf(w, "Tokens:   %d\n", rec.Tokens)
		if len(rec.Input) > 0 {
			fmt.Fprintf(w, "Input:    %s\n", strings.Join(rec.Input, " "))
		}
		if rec.Valid {
			fmt.Fprintf(w, "Result:   %s\n", validStyle.Render("valid"))
		} else {
			fmt.Fprintf(w, "Result:   %s\n", errorStyle.Render(rec.Diagnostic))
		}
		fmt.Fprintf(w, "\n%s\n%s\n", headerStyle.Render("Source"), rec.Source)
		if rec.Output != "" {
			fmt.Fprintf(w, "\n%s\n%s", headerStyle.Render("Output"), rec.Output)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(rec)
	default:
		return mdwerror.Newf("unknown format %q", format).WithCode(mdwerror.CodeInvalidInput)
	}
}
