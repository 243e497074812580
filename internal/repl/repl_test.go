package repl

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/peterh/liner"

	mdwlog "github.com/msto63/kthxbye/foundation/core/log"
	"github.com/msto63/kthxbye/internal/engine"
)

// scripted replays lines and records the prompts it was shown
type scripted struct {
	lines   []string
	errs    map[int]error
	prompts []string
}

func (s *scripted) Prompt(prompt string) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if err, ok := s.errs[i]; ok {
		return "", err
	}
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func newSession(reader LineReader, out *bytes.Buffer, programs *[]string) *Session {
	return New(Options{
		Engine:  engine.New(engine.Options{Logger: mdwlog.Discard()}),
		Reader:  reader,
		Out:     out,
		Verdict: true,
		OnProgram: func(src string) {
			if programs != nil {
				*programs = append(*programs, src)
			}
		},
	})
}

func TestSession_RunsCompletePrograms(t *testing.T) {
	reader := &scripted{lines: []string{
		"HAI",
		`VISIBLE "one"`,
		"KTHXBYE",
		"HAI",
		"VISIBLE nope",
		"KTHXBYE",
	}}
	var out bytes.Buffer
	var programs []string

	if err := newSession(reader, &out, &programs).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := "one\nThe program is valid\nError at Line 2 : Variable 'nope' unknown.\nThe program is not valid\n\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
	if len(programs) != 2 || programs[0] != "HAI\nVISIBLE \"one\"\nKTHXBYE" {
		t.Errorf("programs = %q", programs)
	}

	wantPrompts := []string{PromptMain, PromptCont, PromptCont, PromptMain, PromptCont, PromptCont, PromptMain}
	if strings.Join(reader.prompts, "|") != strings.Join(wantPrompts, "|") {
		t.Errorf("prompts = %q", reader.prompts)
	}
}

func TestSession_GimmehPromptsForWords(t *testing.T) {
	reader := &scripted{lines: []string{
		"HAI",
		"I HAS A a",
		"I HAS A b",
		"GIMMEH a",
		"GIMMEH b",
		"VISIBLE SUM OF a AN b",
		"KTHXBYE",
		"",
		"20 22",
	}}
	var out bytes.Buffer

	if err := newSession(reader, &out, nil).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "42\n") {
		t.Errorf("output = %q", out.String())
	}

	inputPrompts := 0
	for _, p := range reader.prompts {
		if p == PromptInput {
			inputPrompts++
		}
	}
	if inputPrompts != 2 {
		t.Errorf("input prompts = %d, want 2 (blank line then two words)", inputPrompts)
	}
}

func TestSession_Commands(t *testing.T) {
	reader := &scripted{lines: []string{":help", ":bogus", "HAI", ":reset", ":quit", "KTHXBYE"}}
	var out bytes.Buffer

	if err := newSession(reader, &out, nil).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	if !strings.Contains(got, ":quit exits") || !strings.Contains(got, "unknown command") {
		t.Errorf("output = %q", got)
	}
	if len(reader.lines) != 1 {
		t.Errorf(":quit should stop reading, %d lines left", len(reader.lines))
	}
}

func TestSession_AbortDropsBuffer(t *testing.T) {
	reader := &scripted{
		lines: []string{"HAI", "VISIBLE 1", "HAI", "VISIBLE 2", "KTHXBYE"},
		errs:  map[int]error{2: liner.ErrPromptAborted},
	}
	var out bytes.Buffer
	var programs []string

	if err := newSession(reader, &out, &programs).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(programs) != 1 || strings.Contains(programs[0], "VISIBLE 1") {
		t.Errorf("programs = %q", programs)
	}
}

func TestSession_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	reader := &scripted{lines: []string{"HAI", "KTHXBYE"}}
	if err := newSession(reader, &bytes.Buffer{}, nil).Run(ctx); err == nil {
		t.Error("Run() with cancelled context should fail")
	}
}
