package cmd

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	"github.com/msto63/kthxbye/internal/lolcode/source"
	"github.com/msto63/kthxbye/internal/lolcode/token"
)

var tokensFormat string

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Print the token table of a program",
	Long: `Scans a program and prints one row per token: kind, lexeme and line.

Formats: table (default), json, yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runTokens,
}

func init() {
	tokensCmd.Flags().StringVarP(&tokensFormat, "format", "f", "table", "output format: table, json, yaml")
	rootCmd.AddCommand(tokensCmd)
}

func runTokens(cmd *cobra.Command, args []string) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	prog, err := source.ReadFile(args[0])
	if err != nil {
		return err
	}
	return writeTokens(cmd.OutOrStdout(), a.engine.Tokenize(prog), tokensFormat)
}

func writeTokens(w io.Writer, tokens []token.Token, format string) error {
	switch format {
	case "table", "":
		return token.WriteTable(w, tokens)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(token.Entries(tokens))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(token.Entries(tokens))
	default:
		return mdwerror.Newf("unknown format %q", format).WithCode(mdwerror.CodeInvalidInput)
	}
}
