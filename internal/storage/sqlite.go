// Package storage provides SQLite-based persistence for recorded runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
)

// ErrRunNotFound is returned when no run matches the requested ID.
var ErrRunNotFound = errors.New("storage: run not found")

// ErrAmbiguousID is returned when an ID prefix matches more than one run.
var ErrAmbiguousID = errors.New("storage: ambiguous run id")

// Store manages the SQLite database connection for run persistence.
type Store struct {
	db *sql.DB
}

// RunRecord is one recorded run.
type RunRecord struct {
	ID        string
	Frontend  string // "tui", "gui" or "headless"
	Tape      flappy.Tape
	CreatedAt time.Time
}

// RunSummary is a run without its tape, for listings.
type RunSummary struct {
	ID        string
	Frontend  string
	RunSeed   int64
	Score     int
	Ticks     uint64
	Jumps     int
	CreatedAt time.Time
}

// tapeDoc is the YAML form of a tape stored in the tape column.
type tapeDoc struct {
	Config config.FlappyConfig `yaml:"config"`
	Jumps  []uint64            `yaml:"jumps,flow"`
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			frontend TEXT NOT NULL,
			run_seed INTEGER NOT NULL,
			score INTEGER NOT NULL,
			ticks INTEGER NOT NULL,
			jumps INTEGER NOT NULL DEFAULT 0,
			tape TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run and returns its generated ID.
func (s *Store) SaveRun(frontend string, tape flappy.Tape) (string, error) {
	doc, err := yaml.Marshal(tapeDoc{Config: tape.Config, Jumps: tape.Jumps})
	if err != nil {
		return "", fmt.Errorf("storage: cannot encode tape: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO runs (id, frontend, run_seed, score, ticks, jumps, tape)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, frontend, tape.RunSeed, tape.Score, int64(tape.Ticks), len(tape.Jumps), string(doc),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save run: %w", err)
	}
	return id, nil
}

// GetRun loads a run by its full ID or a unique ID prefix.
func (s *Store) GetRun(id string) (*RunRecord, error) {
	id = strings.TrimSpace(id)
	prefix := stripWildcards(id)
	if prefix == "" {
		return nil, fmt.Errorf("%w: %q", ErrRunNotFound, id)
	}

	rows, err := s.db.Query(
		`SELECT id, frontend, run_seed, score, ticks, tape, created_at
		 FROM runs
		 WHERE id = ? OR id LIKE ?
		 LIMIT 2`,
		id, prefix+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query run: %w", err)
	}
	defer rows.Close()

	var found []RunRecord
	for rows.Next() {
		var rec RunRecord
		var ticks int64
		var doc string
		var createdAt any
		if err := rows.Scan(&rec.ID, &rec.Frontend, &rec.Tape.RunSeed, &rec.Tape.Score, &ticks, &doc, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}

		var td tapeDoc
		if err := yaml.Unmarshal([]byte(doc), &td); err != nil {
			return nil, fmt.Errorf("storage: cannot decode tape of run %s: %w", rec.ID, err)
		}
		rec.Tape.Config = td.Config
		rec.Tape.Jumps = td.Jumps
		rec.Tape.Ticks = uint64(ticks)
		rec.CreatedAt = parseTime(createdAt)

		// An exact match wins over prefix matches.
		if rec.ID == id {
			return &rec, nil
		}
		found = append(found, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return &found[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

// RecentRuns lists the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, frontend, run_seed, score, ticks, jumps, created_at
		 FROM runs
		 ORDER BY created_at DESC, rowid DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		var ticks int64
		var createdAt any
		if err := rows.Scan(&r.ID, &r.Frontend, &r.RunSeed, &r.Score, &ticks, &r.Jumps, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Ticks = uint64(ticks)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// DeleteRun removes a run by its full ID.
func (s *Store) DeleteRun(id string) error {
	res, err := s.db.Exec("DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("storage: cannot delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: cannot count deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// stripWildcards removes LIKE metacharacters; run IDs never contain them.
func stripWildcards(s string) string {
	r := strings.NewReplacer("%", "", "_", "")
	return r.Replace(s)
}
