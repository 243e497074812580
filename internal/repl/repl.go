// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     repl
// Description: Interactive loop that collects lines until KTHXBYE and runs
//              the collected program
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/peterh/liner"

	"github.com/msto63/kthxbye/internal/engine"
	"github.com/msto63/kthxbye/internal/lolcode/source"
	"github.com/msto63/kthxbye/internal/lolcode/token"
)

// Prompts
const (
	PromptMain  = "HAI> "
	PromptCont  = "...> "
	PromptInput = "GIMMEH> "
)

// LineReader reads one line after showing a prompt. *liner.State
// satisfies it.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// Options configures a Session
type Options struct {
	Engine *engine.Engine
	Reader LineReader
	Out    io.Writer
	Err    io.Writer

	// OnProgram is called with every complete program, e.g. to append it
	// to the line editor history
	OnProgram func(src string)

	// Verdict prints the validity line after each run
	Verdict bool
}

// Session is one interactive REPL
type Session struct {
	opts Options
}

// New creates a session
func New(opts Options) *Session {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	if opts.Err == nil {
		opts.Err = opts.Out
	}
	return &Session{opts: opts}
}

// Run loops until :quit, end of input or ctx is done
func (s *Session) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		src, ok, err := s.readProgram()
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.opts.Out)
			return nil
		}

		trimmed := strings.TrimSpace(src)
		if strings.HasPrefix(trimmed, ":") {
			if quit := s.command(trimmed); quit {
				return nil
			}
			continue
		}
		if trimmed == "" {
			continue
		}

		if s.opts.OnProgram != nil {
			s.opts.OnProgram(src)
		}
		if err := s.run(ctx, src); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (s *Session) command(cmd string) (quit bool) {
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(s.opts.Out, "Type a program from HAI to KTHXBYE. :reset discards the current program, :quit exits.")
	case ":reset":
	default:
		fmt.Fprintln(s.opts.Out, "unknown command. Type :help for help.")
	}
	return false
}

func (s *Session) run(ctx context.Context, src string) error {
	report, err := s.opts.Engine.Run(ctx, engine.Request{
		Program: source.FromString("repl", src),
		Input:   &promptSource{reader: s.opts.Reader},
		Stdout:  s.opts.Out,
		Stderr:  s.opts.Err,
	})
	if err != nil {
		return err
	}
	if s.opts.Verdict {
		fmt.Fprintln(s.opts.Out, report.Verdict)
	}
	return nil
}

// readProgram collects lines until the buffer scans to a complete program
// or a colon command is entered on the first line. ok is false at end of
// input.
func (s *Session) readProgram() (src string, ok bool, err error) {
	var b strings.Builder

	for {
		prompt := PromptMain
		if b.Len() > 0 {
			prompt = PromptCont
		}

		line, err := s.opts.Reader.Prompt(prompt)
		switch {
		case errors.Is(err, io.EOF):
			return "", false, nil
		case errors.Is(err, liner.ErrPromptAborted):
			// ctrl+c drops the program being typed
			b.Reset()
			continue
		case err != nil:
			return "", false, err
		}

		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true, nil
		}
		if strings.TrimSpace(line) == ":reset" {
			b.Reset()
			continue
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if s.complete(b.String()) {
			return b.String(), true, nil
		}
		if b.Len() > 0 && strings.TrimSpace(b.String()) == "" {
			b.Reset()
		}
	}
}

// complete reports whether src scans to a token sequence containing KTHXBYE
func (s *Session) complete(src string) bool {
	for _, t := range s.opts.Engine.Tokenize(source.FromString("repl", src)) {
		if t.Is(token.Kthxbye) {
			return true
		}
	}
	return false
}

// promptSource serves GIMMEH words typed at the input prompt
type promptSource struct {
	reader  LineReader
	pending []string
}

func (p *promptSource) NextWord() (string, error) {
	for len(p.pending) == 0 {
		line, err := p.reader.Prompt(PromptInput)
		if err != nil {
			return "", err
		}
		p.pending = strings.Fields(line)
	}
	w := p.pending[0]
	p.pending = p.pending[1:]
	return w, nil
}
