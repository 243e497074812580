package scope

import (
	"fmt"
	"io"

	"github.com/msto63/kthxbye/foundation/utils/stringx"
)

// Entry is the serializable view of a binding
type Entry struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// Entry converts the binding to its serializable view
func (b Binding) Entry() Entry {
	return Entry{Name: b.Name, Type: b.Value.Tag().String(), Value: b.Value.String()}
}

// Entries converts bindings to their serializable view
func Entries(bindings []Binding) []Entry {
	out := make([]Entry, len(bindings))
	for i, b := range bindings {
		out[i] = b.Entry()
	}
	return out
}

// WriteTable writes a Name/Type/Value table of bindings
func WriteTable(w io.Writer, bindings []Binding) error {
	if _, err := fmt.Fprintln(w, stringx.PadRight("Name", 20, ' ')+stringx.PadRight("Type", 10, ' ')+"Value"); err != nil {
		return err
	}
	for _, b := range bindings {
		e := b.Entry()
		line := stringx.PadRight(e.Name, 20, ' ') + stringx.PadRight(e.Type, 10, ' ') + stringx.Truncate(e.Value, 60, "...")
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
