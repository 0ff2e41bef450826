package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ludo-technologies/pyplag/domain"
	_ "github.com/mattn/go-sqlite3"
)

// Store persists batch runs and their pair scores in SQLite
type Store struct {
	db *sql.DB
}

// Run is one stored batch
type Run struct {
	ID           int64
	GeneratedAt  string
	Version      string
	Threshold    float64
	Precision    int
	TotalPairs   int
	FlaggedPairs int
	ErrorPairs   int
	DurationMs   int64
	CreatedAt    time.Time
}

// PairScore is one stored pair result
type PairScore struct {
	RunID   int64
	Ordinal int
	PathA   string
	PathB   string
	Score   float64
	Flagged bool
	Status  string
	Error   string
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Open opens dbPath and creates the schema
func Open(dbPath string) (*Store, error) {
	s, err := NewStore(dbPath)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	if _, err := s.db.Exec(schemaDDL); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS runs (
  id              INTEGER PRIMARY KEY AUTOINCREMENT,
  generated_at    TEXT NOT NULL,
  version         TEXT,
  threshold       REAL NOT NULL,
  precision       INTEGER NOT NULL,
  total_pairs     INTEGER NOT NULL,
  flagged_pairs   INTEGER NOT NULL,
  error_pairs     INTEGER NOT NULL,
  duration_ms     INTEGER NOT NULL,
  created_at      TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS pair_scores (
  run_id          INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
  ordinal         INTEGER NOT NULL,
  path_a          TEXT NOT NULL,
  path_b          TEXT NOT NULL,
  score           REAL NOT NULL,
  flagged         BOOLEAN NOT NULL,
  status          TEXT NOT NULL,
  error           TEXT,
  PRIMARY KEY (run_id, ordinal)
);

CREATE INDEX IF NOT EXISTS idx_pair_scores_paths ON pair_scores(path_a, path_b);
`

// SaveRun stores response in one transaction and returns the run id
func (s *Store) SaveRun(ctx context.Context, response *domain.PlagiarismResponse) (int64, error) {
	stats := response.Statistics
	if stats == nil {
		stats = domain.NewPlagiarismStatistics(response.Results)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("save run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (generated_at, version, threshold, precision, total_pairs, flagged_pairs, error_pairs, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		response.GeneratedAt, response.Version, response.Threshold, response.Precision,
		stats.TotalPairs, stats.FlaggedPairs, stats.ErrorPairs, response.Duration,
		time.Now().UTC().Truncate(time.Second),
	)
	if err != nil {
		return 0, fmt.Errorf("save run: insert run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("save run: last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO pair_scores (run_id, ordinal, path_a, path_b, score, flagged, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("save run: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range response.Results {
		var errText sql.NullString
		if r.Error != "" {
			errText = sql.NullString{String: r.Error, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, runID, r.Pair.Index, r.Pair.PathA, r.Pair.PathB,
			float64(r.Score), r.Flagged, string(r.Status), errText); err != nil {
			return 0, fmt.Errorf("save run: pair %d: %w", r.Pair.Index+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("save run: commit: %w", err)
	}
	return runID, nil
}

// Runs returns stored runs, newest first
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, generated_at, version, threshold, precision, total_pairs, flagged_pairs, error_pairs, duration_ms, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var version sql.NullString
		if err := rows.Scan(&r.ID, &r.GeneratedAt, &version, &r.Threshold, &r.Precision,
			&r.TotalPairs, &r.FlaggedPairs, &r.ErrorPairs, &r.DurationMs, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Version = version.String
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// PairScores returns the pair results of a run in input order
func (s *Store) PairScores(ctx context.Context, runID int64) ([]PairScore, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, ordinal, path_a, path_b, score, flagged, status, error
		 FROM pair_scores WHERE run_id = ? ORDER BY ordinal`, runID)
	if err != nil {
		return nil, fmt.Errorf("query pair scores: %w", err)
	}
	defer rows.Close()

	var scores []PairScore
	for rows.Next() {
		var p PairScore
		var errText sql.NullString
		if err := rows.Scan(&p.RunID, &p.Ordinal, &p.PathA, &p.PathB, &p.Score, &p.Flagged, &p.Status, &errText); err != nil {
			return nil, fmt.Errorf("scan pair score: %w", err)
		}
		p.Error = errText.String
		scores = append(scores, p)
	}
	return scores, rows.Err()
}
