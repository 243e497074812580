// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     scanner
// Description: Turns program text into classified tokens, folding multi-word
//              keywords and dropping comments
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package scanner

import (
	"regexp"
	"strings"
	"unicode"

	mdwlog "github.com/msto63/kthxbye/foundation/core/log"
	"github.com/msto63/kthxbye/foundation/utils/stringx"
	"github.com/msto63/kthxbye/internal/lolcode/token"
	"github.com/msto63/kthxbye/internal/lolcode/value"
)

// Mode is the scanner's lexical mode
type Mode int

const (
	ModeDefault Mode = iota
	ModeSingleLineComment
	ModeMultiLineComment
	ModeStringLiteral
)

func (m Mode) String() string {
	switch m {
	case ModeSingleLineComment:
		return "single-line-comment"
	case ModeMultiLineComment:
		return "multi-line-comment"
	case ModeStringLiteral:
		return "string"
	default:
		return "default"
	}
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Options configures a Scanner
type Options struct {
	Logger *mdwlog.Logger
}

// Scanner converts source lines into tokens. A Scanner holds no state
// between calls and may be reused.
type Scanner struct {
	logger *mdwlog.Logger
}

// New creates a scanner
func New(opts Options) *Scanner {
	logger := opts.Logger
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	return &Scanner{logger: logger.WithField("component", "scanner")}
}

// state is the per-call scanning state
type state struct {
	mode    Mode
	line    int
	pending string
	tokens  []token.Token
}

// Scan tokenizes lines. Line numbers are 1-based positions in lines.
func (s *Scanner) Scan(lines []string) []token.Token {
	st := &state{}
	for i, line := range lines {
		st.line = i + 1
		if line == "" {
			continue
		}
		before := len(st.tokens)
		st.scanLine(line)
		s.logger.Trace("line scanned", mdwlog.Fields{
			"line":   st.line,
			"tokens": len(st.tokens) - before,
			"mode":   st.mode.String(),
		})
	}
	s.logger.Debug("scan complete", mdwlog.Fields{"lines": len(lines), "tokens": len(st.tokens)})
	return st.tokens
}

// ScanString splits src into lines and tokenizes them
func (s *Scanner) ScanString(src string) []token.Token {
	return s.Scan(stringx.SplitLines(src))
}

func (st *state) scanLine(line string) {
	var word strings.Builder

	for _, ch := range line + " " {
		if st.mode == ModeSingleLineComment {
			break
		}

		if ch == '"' {
			switch st.mode {
			case ModeDefault:
				st.mode = ModeStringLiteral
			case ModeStringLiteral:
				st.mode = ModeDefault
			}
		}

		switch st.mode {
		case ModeDefault, ModeMultiLineComment:
			if unicode.IsSpace(ch) {
				st.submit(word.String())
				word.Reset()
			} else {
				word.WriteRune(ch)
			}
		case ModeStringLiteral:
			word.WriteRune(ch)
		}
	}

	switch st.mode {
	case ModeStringLiteral:
		// unterminated string: the rest of the line is one unknown word
		st.emit(token.Unknown, strings.TrimRight(word.String(), " "))
		st.mode = ModeDefault
	case ModeSingleLineComment:
		st.mode = ModeDefault
	}
	if st.pending != "" {
		st.emit(token.Unknown, st.pending)
		st.pending = ""
	}
}

func (st *state) submit(word string) {
	if word == "" {
		return
	}

	if st.mode == ModeMultiLineComment {
		if word == "TLDR" {
			st.mode = ModeDefault
		}
		return
	}

	if st.pending != "" {
		candidate := st.pending + " " + word
		st.pending = ""
		switch {
		case token.IsKeywordPrefix(candidate):
			st.pending = candidate
		default:
			if kind, ok := token.LookupKeyword(candidate); ok {
				st.emit(kind, candidate)
			} else {
				st.emit(token.Unknown, candidate)
			}
		}
		return
	}

	switch {
	case len(word) >= 2 && word[0] == '"' && word[len(word)-1] == '"':
		st.emit(token.StringLiteral, word)
	case word == "BTW":
		st.mode = ModeSingleLineComment
	case word == "OBTW":
		st.mode = ModeMultiLineComment
	case value.IsIntText(word):
		st.emit(token.IntLiteral, word)
	case value.IsFloatText(word):
		st.emit(token.FloatLiteral, word)
	case word == "WIN" || word == "FAIL":
		st.emit(token.BoolLiteral, word)
	default:
		if kind, ok := token.LookupKeyword(word); ok {
			st.emit(kind, word)
		} else if token.IsKeywordPrefix(word) {
			st.pending = word
		} else if identifierPattern.MatchString(word) {
			st.emit(token.Identifier, word)
		} else {
			st.emit(token.Unknown, word)
		}
	}
}

func (st *state) emit(kind token.Kind, text string) {
	st.tokens = append(st.tokens, token.New(kind, text, st.line))
}
