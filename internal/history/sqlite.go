package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/kthxbye/foundation/core/error"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/history.db",
	}
}

// NewSQLiteStore opens (and if needed creates) the history database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, storageError(err, "failed to create directory")
		}
	}

	// Open database with WAL mode
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, storageError(err, "failed to open database")
	}
	if cfg.Path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, storageError(err, "failed to initialize schema")
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		source TEXT NOT NULL,
		input TEXT,
		valid INTEGER NOT NULL,
		diagnostic TEXT,
		output TEXT NOT NULL,
		tokens INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		started_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_name ON runs(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save records a run. Missing ID and StartedAt are filled in.
func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = time.Now()
	}

	var inputJSON []byte
	if len(rec.Input) > 0 {
		inputJSON, _ = json.Marshal(rec.Input)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, name, source, input, valid, diagnostic, output, tokens, duration_ns, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Name, rec.Source, inputJSON, rec.Valid, rec.Diagnostic, rec.Output,
		rec.Tokens, rec.Duration.Nanoseconds(), rec.StartedAt.UnixNano())
	if err != nil {
		return storageError(err, "failed to insert run").WithDetail("id", rec.ID)
	}

	return nil
}

const selectRuns = `SELECT id, name, source, input, valid, diagnostic, output, tokens, duration_ns, started_at FROM runs`

// Get retrieves a run by ID or unique ID prefix
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id == "" {
		return nil, mdwerror.New("run id is empty").WithCode(mdwerror.CodeInvalidInput)
	}

	rows, err := s.db.QueryContext(ctx, selectRuns+` WHERE substr(id, 1, length(?)) = ? ORDER BY id = ? DESC LIMIT 2`,
		id, id, id)
	if err != nil {
		return nil, storageError(err, "failed to query run")
	}
	defer rows.Close()

	records, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	switch {
	case len(records) == 0:
		return nil, mdwerror.Newf("run %q not found", id).WithCode(mdwerror.CodeNotFound)
	case records[0].ID == id || len(records) == 1:
		return records[0], nil
	default:
		return nil, mdwerror.Newf("run id prefix %q is ambiguous", id).WithCode(mdwerror.CodeInvalidInput)
	}
}

// List retrieves runs based on filter criteria
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := selectRuns + ` WHERE 1=1`
	var args []interface{}

	if filter.Name != "" {
		query += " AND name = ?"
		args = append(args, filter.Name)
	}
	if filter.OnlyValid != nil {
		query += " AND valid = ?"
		args = append(args, *filter.OnlyValid)
	}
	if !filter.Since.IsZero() {
		query += " AND started_at >= ?"
		args = append(args, filter.Since.UnixNano())
	}

	query += " ORDER BY started_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(err, "failed to query runs")
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Prune deletes runs older than the given age
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UnixNano()
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, storageError(err, "failed to prune runs")
	}

	return result.RowsAffected()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanRecords(rows *sql.Rows) ([]*Record, error) {
	var records []*Record
	for rows.Next() {
		var (
			rec        Record
			inputJSON  sql.NullString
			diagnostic sql.NullString
			durationNs int64
			startedAt  int64
		)

		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Source, &inputJSON, &rec.Valid, &diagnostic,
			&rec.Output, &rec.Tokens, &durationNs, &startedAt); err != nil {
			return nil, storageError(err, "failed to scan run")
		}

		if inputJSON.Valid && inputJSON.String != "" {
			json.Unmarshal([]byte(inputJSON.String), &rec.Input)
		}
		rec.Diagnostic = diagnostic.String
		rec.Duration = time.Duration(durationNs)
		rec.StartedAt = time.Unix(0, startedAt)

		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(err, "failed to iterate runs")
	}
	return records, nil
}

func storageError(err error, msg string) *mdwerror.Error {
	return mdwerror.Wrap(err, msg).WithCode(mdwerror.CodeStorageError)
}
