// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     engine
// Description: Runs programs end to end: scan, interpret, log a summary and
//              record the run in history
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"time"

	"github.com/google/uuid"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
	mdwlog "github.com/msto63/kthxbye/foundation/core/log"
	"github.com/msto63/kthxbye/internal/history"
	"github.com/msto63/kthxbye/internal/lolcode/interp"
	"github.com/msto63/kthxbye/internal/lolcode/scanner"
	"github.com/msto63/kthxbye/internal/lolcode/scope"
	"github.com/msto63/kthxbye/internal/lolcode/source"
	"github.com/msto63/kthxbye/internal/lolcode/token"
	"github.com/msto63/kthxbye/pkg/core/cache"
	"github.com/msto63/kthxbye/pkg/core/config"
)

// Options configures an Engine
type Options struct {
	Logger *mdwlog.Logger

	// History records every run when set
	History history.Store

	// MaxDepth is passed to the interpreter (0 = default)
	MaxDepth int

	// EchoInput copies every GIMMEH word to the program output
	EchoInput bool

	// TokenCache reuses scan results for identical program text
	TokenCache *cache.Cache[[]token.Token]
}

// OptionsFromConfig derives engine options from the [interpreter] section
func OptionsFromConfig(cfg *config.Config, logger *mdwlog.Logger, store history.Store) Options {
	opts := Options{
		Logger:    logger,
		History:   store,
		MaxDepth:  cfg.Interpreter.MaxDepth,
		EchoInput: cfg.Interpreter.EchoInput,
	}
	if cfg.Interpreter.TokenCacheSize > 0 {
		opts.TokenCache = cache.New[[]token.Token](cache.Config{
			MaxItems: cfg.Interpreter.TokenCacheSize,
			TTL:      cfg.Interpreter.TokenCacheTTL.Duration,
		})
	}
	return opts
}

// Request describes one run
type Request struct {
	Program *source.Program

	// Input supplies GIMMEH words. When nil, InputWords are used.
	Input      interp.WordSource
	InputWords []string

	// Stdout receives program output as it is produced
	Stdout io.Writer

	// Stderr receives the diagnostic line of a failed run
	Stderr io.Writer
}

// Report is the outcome of one run
type Report struct {
	RunID      string          `json:"run_id"`
	Name       string          `json:"name"`
	Valid      bool            `json:"valid"`
	Verdict    string          `json:"verdict"`
	Diagnostic string          `json:"diagnostic,omitempty"`
	Input      []string        `json:"input,omitempty"`
	Code       mdwerror.Code   `json:"code,omitempty"`
	Line       int             `json:"line,omitempty"`
	Output     string          `json:"output"`
	Tokens     []token.Token   `json:"-"`
	Globals    []scope.Binding `json:"-"`
	Env        []scope.Entry   `json:"env"`
	Duration   time.Duration   `json:"duration"`
	StartedAt  time.Time       `json:"started_at"`
	Err        *mdwerror.Error `json:"-"`
}

// Engine wires scanner, interpreter and history together
type Engine struct {
	opts    Options
	logger  *mdwlog.Logger
	scanner *scanner.Scanner
}

// New creates an engine
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = mdwlog.GetDefault()
	}
	return &Engine{
		opts:    opts,
		logger:  logger.WithField("component", "engine"),
		scanner: scanner.New(scanner.Options{Logger: logger}),
	}
}

// Tokenize scans a program without running it
func (e *Engine) Tokenize(prog *source.Program) []token.Token {
	if e.opts.TokenCache == nil {
		return e.scanner.Scan(prog.Lines)
	}
	sum := sha256.Sum256([]byte(prog.Text))
	key := hex.EncodeToString(sum[:])
	if tokens, ok := e.opts.TokenCache.Get(key); ok {
		e.logger.Debug("token cache hit", mdwlog.Fields{"name": prog.Name, "tokens": len(tokens)})
		return tokens
	}
	tokens := e.scanner.Scan(prog.Lines)
	e.opts.TokenCache.Set(key, tokens)
	return tokens
}

// CacheStats reports token cache usage; ok is false when caching is off
func (e *Engine) CacheStats() (stats cache.Stats, ok bool) {
	if e.opts.TokenCache == nil {
		return cache.Stats{}, false
	}
	return e.opts.TokenCache.Stats(), true
}

// Run scans and interprets req.Program. The returned error reports host
// failures only (nil program, cancelled context); program faults are in
// the report.
func (e *Engine) Run(ctx context.Context, req Request) (*Report, error) {
	if req.Program == nil {
		return nil, mdwerror.New("no program given").WithCode(mdwerror.CodeInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, mdwerror.Wrap(err, "run cancelled").WithCode(mdwerror.CodeInternal)
	}

	runID := uuid.New().String()
	logger := e.logger.WithRunID(runID)
	timer := logger.StartTimer("run").
		WithLevel(mdwlog.LevelInfo).
		WithField("name", req.Program.Name)

	var captured bytes.Buffer
	stdout := io.Writer(&captured)
	if req.Stdout != nil {
		stdout = io.MultiWriter(req.Stdout, &captured)
	}

	input := req.Input
	if input == nil {
		input = interp.StaticWords(req.InputWords...)
	}
	recorder := interp.RecordSource(input)
	input = contextSource{ctx: ctx, src: recorder}
	if e.opts.EchoInput {
		input = interp.EchoSource(input, stdout)
	}

	report := &Report{
		RunID:     runID,
		Name:      req.Program.Name,
		StartedAt: time.Now(),
	}

	report.Tokens = e.Tokenize(req.Program)

	in := interp.New(interp.Options{
		Output:      stdout,
		Input:       input,
		Diagnostics: req.Stderr,
		Logger:      logger,
		MaxDepth:    e.opts.MaxDepth,
	})
	res := in.Run(report.Tokens)

	report.Valid = res.Valid
	report.Verdict = res.Verdict()
	report.Globals = res.Globals
	report.Env = scope.Entries(res.Globals)
	report.Output = captured.String()
	report.Input = recorder.Words()
	if res.Err != nil {
		report.Err = res.Err
		report.Diagnostic = res.Err.Diagnostic()
		report.Code = res.Err.Code()
		report.Line = res.Err.Line()
		logger.LogError(res.Err)
	}

	report.Duration = timer.
		WithField("valid", report.Valid).
		WithField("tokens", len(report.Tokens)).
		Stop()

	e.record(ctx, logger, req, report)
	return report, nil
}

func (e *Engine) record(ctx context.Context, logger *mdwlog.Logger, req Request, report *Report) {
	if e.opts.History == nil {
		return
	}
	rec := &history.Record{
		ID:         report.RunID,
		Name:       report.Name,
		Source:     req.Program.Text,
		Input:      report.Input,
		Valid:      report.Valid,
		Diagnostic: report.Diagnostic,
		Output:     report.Output,
		Tokens:     len(report.Tokens),
		Duration:   report.Duration,
		StartedAt:  report.StartedAt,
	}
	// a history failure must not change the outcome of the run
	if err := e.opts.History.Save(context.WithoutCancel(ctx), rec); err != nil {
		logger.WarnWithErr("failed to record run", err)
	}
}

// contextSource stops serving words once ctx is done
type contextSource struct {
	ctx context.Context
	src interp.WordSource
}

func (c contextSource) NextWord() (string, error) {
	if err := c.ctx.Err(); err != nil {
		return "", err
	}
	return c.src.NextWord()
}

const selfTestProgram = "HAI\nI HAS A x ITZ SUM OF 1 AN 1\nVISIBLE x\nKTHXBYE"

// SelfTest runs a fixed program outside of history and verifies its output
func (e *Engine) SelfTest(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var out bytes.Buffer
	in := interp.New(interp.Options{Output: &out, Logger: mdwlog.Discard(), MaxDepth: e.opts.MaxDepth})
	res := in.Run(e.scanner.Scan(source.FromString("selftest", selfTestProgram).Lines))
	if !res.Valid {
		return res.Err
	}
	if out.String() != "2\n" {
		return mdwerror.Newf("self test printed %q", out.String()).WithCode(mdwerror.CodeInternal)
	}
	return nil
}
