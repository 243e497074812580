// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     interp
// Description: Single-pass recognizer that validates and executes a token
//              sequence, reporting the first error of the pass
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package interp

import (
	"fmt"
	"io"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	mdwlog "github.com/msto63/kthxbye/foundation/core/log"
	"github.com/msto63/kthxbye/internal/lolcode/scope"
	"github.com/msto63/kthxbye/internal/lolcode/token"
)

// DefaultMaxDepth is the conditional nesting limit used when Options.MaxDepth is 0
const DefaultMaxDepth = 64

// Options configures an Interpreter
type Options struct {
	// Output receives one line per VISIBLE statement
	Output io.Writer

	// Input supplies one word per GIMMEH statement
	Input WordSource

	// Diagnostics receives at most one "Error at Line" line per run
	Diagnostics io.Writer

	Logger *mdwlog.Logger

	// MaxDepth limits conditional nesting. Negative disables the limit.
	MaxDepth int
}

// Interpreter runs token sequences. Each Run starts from a fresh
// environment, so an Interpreter can be reused.
type Interpreter struct {
	opts   Options
	logger *mdwlog.Logger
}

// Result is the outcome of one pass
type Result struct {
	Valid bool

	// Err is the first error of the pass, nil when valid
	Err *mdwerror.Error

	// Globals holds the root scope bindings after the pass
	Globals []scope.Binding
}

// Verdict returns the validity line printed after a run
func (r *Result) Verdict() string {
	if r.Valid {
		return "The program is valid"
	}
	return "The program is not valid"
}

// New creates an interpreter
func New(opts Options) *Interpreter {
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = io.Discard
	}
	if opts.Input == nil {
		opts.Input = StaticWords()
	}
	if opts.MaxDepth == 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	logger := opts.Logger
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	return &Interpreter{opts: opts, logger: logger.WithField("component", "interp")}
}

// Run recognizes and executes tokens in a single pass. Output produced
// before an error is not rolled back.
func (in *Interpreter) Run(tokens []token.Token) *Result {
	r := &run{
		opts:   in.opts,
		logger: in.logger,
		cur:    newCursor(tokens),
		env:    scope.New(),
	}

	err := r.program()
	res := &Result{Valid: err == nil, Globals: r.env.Globals()}
	if err != nil {
		// the latch holds the first failure; err is the same failure as
		// seen by the driver
		res.Err = r.latch.first()
		if res.Err == nil {
			res.Err = r.record(err, r.cur.current().Line())
		}
		fmt.Fprintln(in.opts.Diagnostics, res.Err.Diagnostic())
		in.logger.Debug("pass failed", mdwlog.Fields{
			"code": res.Err.Code(),
			"line": res.Err.Line(),
		})
	}
	return res
}

// run is the state of one pass
type run struct {
	opts   Options
	logger *mdwlog.Logger
	cur    *cursor
	env    *scope.Env
	latch  latch
	depth  int
}
