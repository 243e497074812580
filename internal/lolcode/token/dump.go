package token

import (
	"fmt"
	"io"
	"strconv"

	"github.com/msto63/kthxbye/foundation/utils/stringx"
)

// WriteTable writes the lexeme table: kind, text and line per token
func WriteTable(w io.Writer, tokens []Token) error {
	if _, err := fmt.Fprintln(w, row("Type", "Lexeme", "Line No.")); err != nil {
		return err
	}
	for _, t := range tokens {
		if _, err := fmt.Fprintln(w, row(t.kind.String(), t.text, strconv.Itoa(t.line))); err != nil {
			return err
		}
	}
	return nil
}

func row(kind, text, line string) string {
	return stringx.PadRight(kind, 20, ' ') + stringx.PadRight(text, 15, ' ') + line
}

// Entries converts a token slice to its serializable view
func Entries(tokens []Token) []Entry {
	out := make([]Entry, len(tokens))
	for i, t := range tokens {
		out[i] = t.Entry()
	}
	return out
}
