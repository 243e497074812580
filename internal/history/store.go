// ============================================================================
// kthxbye - LOLCODE Interpreter
// ============================================================================
//
// Package:     history
// Description: Persistent record of interpreter runs (SQLite and in-memory)
// Author:      Mike Stoffels
// Created:     2026-10-18
// License:     MIT
// ============================================================================

package history

import (
	"context"
	"time"
)

// Record is one interpreter run
type Record struct {
	ID         string        `json:"id" yaml:"id"`
	Name       string        `json:"name" yaml:"name"`
	Source     string        `json:"source" yaml:"source"`
	Input      []string      `json:"input,omitempty" yaml:"input,omitempty"`
	Valid      bool          `json:"valid" yaml:"valid"`
	Diagnostic string        `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
	Output     string        `json:"output" yaml:"output"`
	Tokens     int           `json:"tokens" yaml:"tokens"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
}

// Filter narrows List results
type Filter struct {
	Name      string
	OnlyValid *bool
	Since     time.Time
	Limit     int
	Offset    int
}

// Store defines the interface for run persistence
type Store interface {
	Save(ctx context.Context, rec *Record) error
	// Get returns the record whose ID equals or uniquely starts with id
	Get(ctx context.Context, id string) (*Record, error)
	// List returns records newest first
	List(ctx context.Context, filter Filter) ([]*Record, error)
	// Prune deletes records started before now minus olderThan
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}
