// Package history records assembly runs in a local SQLite database so past
// runs and their per-scene outcomes can be inspected after the fact.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; an old database must be deleted rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Run is one recorded assembly run.
type Run struct {
	ID              string
	StartedAt       time.Time
	FinishedAt      time.Time
	Status          string
	OutputPath      string
	ScenesTotal     int
	ScenesAssembled int
	ScenesSkipped   int
	ScenesFailed    int
	ErrorMessage    string
}

// SceneRecord is the recorded outcome of one scene within a run.
type SceneRecord struct {
	RunID       string
	SceneIndex  int
	Role        string
	Status      string
	SkipReason  string
	SourcePath  string
	SegmentPath string
	Elapsed     time.Duration
}

// Store persists run history. A nil *Store is valid and every method on it is
// a no-op, which is how a disabled history section behaves.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// StartRun inserts a new run row in the running state.
func (s *Store) StartRun(ctx context.Context, runID string, scenesTotal int) error {
	if s == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, status, scenes_total) VALUES (?, ?, ?, ?)`,
		runID,
		time.Now().UTC().Format(time.RFC3339Nano),
		"running",
		scenesTotal,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// RecordScene upserts the outcome of one scene within a run.
func (s *Store) RecordScene(ctx context.Context, record SceneRecord) error {
	if s == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_scenes (run_id, scene_index, role, status, skip_reason, source_path, segment_path, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id, scene_index) DO UPDATE SET
		   status = excluded.status,
		   skip_reason = excluded.skip_reason,
		   source_path = excluded.source_path,
		   segment_path = excluded.segment_path,
		   elapsed_ms = excluded.elapsed_ms`,
		record.RunID,
		record.SceneIndex,
		record.Role,
		record.Status,
		nullableString(record.SkipReason),
		nullableString(record.SourcePath),
		nullableString(record.SegmentPath),
		record.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("record scene %d: %w", record.SceneIndex, err)
	}
	return nil
}

// FinishRun closes out a run row with its final status and counters.
func (s *Store) FinishRun(ctx context.Context, runID, status, outputPath string, assembled, skipped, failed int, runErr error) error {
	if s == nil {
		return nil
	}
	var message any
	if runErr != nil {
		message = runErr.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, status = ?, output_path = ?,
		   scenes_assembled = ?, scenes_skipped = ?, scenes_failed = ?, error_message = ?
		 WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano),
		status,
		nullableString(outputPath),
		assembled,
		skipped,
		failed,
		message,
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, status, output_path,
		   scenes_total, scenes_assembled, scenes_skipped, scenes_failed, error_message
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started string
		var finished, output, message sql.NullString
		if err := rows.Scan(&run.ID, &started, &finished, &run.Status, &output,
			&run.ScenesTotal, &run.ScenesAssembled, &run.ScenesSkipped, &run.ScenesFailed, &message); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		if finished.Valid {
			run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished.String)
		}
		run.OutputPath = output.String
		run.ErrorMessage = message.String
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// ListScenes returns the per-scene records of one run in scene order.
func (s *Store) ListScenes(ctx context.Context, runID string) ([]SceneRecord, error) {
	if s == nil {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, scene_index, role, status, skip_reason, source_path, segment_path, elapsed_ms
		 FROM run_scenes WHERE run_id = ? ORDER BY scene_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run scenes: %w", err)
	}
	defer rows.Close()

	var records []SceneRecord
	for rows.Next() {
		var record SceneRecord
		var skip, source, segment sql.NullString
		var elapsedMS int64
		if err := rows.Scan(&record.RunID, &record.SceneIndex, &record.Role, &record.Status,
			&skip, &source, &segment, &elapsedMS); err != nil {
			return nil, fmt.Errorf("scan run scene: %w", err)
		}
		record.SkipReason = skip.String
		record.SourcePath = source.String
		record.SegmentPath = segment.String
		record.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		records = append(records, record)
	}
	return records, rows.Err()
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
