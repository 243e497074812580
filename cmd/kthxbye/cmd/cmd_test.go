package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	mdwlog "github.com/msto63/kthxbye/foundation/core/log"
	"github.com/msto63/kthxbye/internal/history"
	"github.com/msto63/kthxbye/internal/lolcode/scanner"
	"github.com/msto63/kthxbye/internal/lolcode/token"
)

func scan(src string) []token.Token {
	return scanner.New(scanner.Options{Logger: mdwlog.Discard()}).ScanString(src)
}

func TestWriteTokens_Formats(t *testing.T) {
	tokens := scan("HAI\nVISIBLE \"hi\"\nKTHXBYE")

	var table bytes.Buffer
	if err := writeTokens(&table, tokens, "table"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(table.String(), "Lexeme") || !strings.Contains(table.String(), "PROGRAM_START") {
		t.Errorf("table = %q", table.String())
	}

	var js bytes.Buffer
	if err := writeTokens(&js, tokens, "json"); err != nil {
		t.Fatal(err)
	}
	var entries []token.Entry
	if err := json.Unmarshal(js.Bytes(), &entries); err != nil {
		t.Fatalf("json output: %v", err)
	}
	if len(entries) != 4 || entries[2].Text != `"hi"` || entries[2].Line != 2 {
		t.Errorf("entries = %+v", entries)
	}

	var ym bytes.Buffer
	if err := writeTokens(&ym, tokens, "yaml"); err != nil {
		t.Fatal(err)
	}
	var fromYAML []token.Entry
	if err := yaml.Unmarshal(ym.Bytes(), &fromYAML); err != nil || len(fromYAML) != 4 {
		t.Errorf("yaml output = %q, err %v", ym.String(), err)
	}

	if err := writeTokens(&bytes.Buffer{}, tokens, "xml"); !mdwerror.HasCode(err, mdwerror.CodeInvalidInput) {
		t.Errorf("unknown format error = %v", err)
	}
}

func testRecord(valid bool) *history.Record {
	return &history.Record{
		ID:         "0123456789abcdef",
		Name:       "hello.lol",
		Source:     "HAI\nKTHXBYE",
		Input:      []string{"1"},
		Valid:      valid,
		Diagnostic: "Error at Line 1 : nope",
		Output:     "out\n",
		Tokens:     2,
		Duration:   time.Millisecond,
		StartedAt:  time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC),
	}
}

func TestWriteRecord(t *testing.T) {
	var text bytes.Buffer
	if err := writeRecord(&text, testRecord(false), "text"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"0123456789abcdef", "hello.lol", "Error at Line 1 : nope", "out"} {
		if !strings.Contains(text.String(), want) {
			t.Errorf("text output missing %q: %q", want, text.String())
		}
	}

	var js bytes.Buffer
	if err := writeRecord(&js, testRecord(true), "json"); err != nil {
		t.Fatal(err)
	}
	var back history.Record
	if err := json.Unmarshal(js.Bytes(), &back); err != nil || !back.Valid || back.Name != "hello.lol" {
		t.Errorf("json = %q, err %v", js.String(), err)
	}

	if err := writeRecord(&bytes.Buffer{}, testRecord(true), "csv"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestWriteHistoryTable(t *testing.T) {
	var empty bytes.Buffer
	writeHistoryTable(&empty, nil)
	if !strings.Contains(empty.String(), "no runs recorded") {
		t.Errorf("empty table = %q", empty.String())
	}

	var out bytes.Buffer
	writeHistoryTable(&out, []*history.Record{testRecord(true), testRecord(false)})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("table has %d lines, want 3: %q", len(lines), out.String())
	}
	if !strings.HasPrefix(lines[1], "01234567  ") || !strings.Contains(lines[2], "invalid") {
		t.Errorf("rows = %q", lines[1:])
	}
}
