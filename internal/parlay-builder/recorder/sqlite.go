package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

// SQLiteRecorder persiste o histórico de execuções num arquivo SQLite local
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder abre (ou cria) o banco e aplica a migração
func NewSQLiteRecorder(path string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL para leituras do endpoint /v1/runs/recent durante a gravação
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS parlay_runs (
			run_id                TEXT PRIMARY KEY,
			sport                 TEXT    NOT NULL,
			status                TEXT    NOT NULL,
			bundles               INTEGER NOT NULL,
			candidates_considered INTEGER NOT NULL,
			candidates_rejected   INTEGER NOT NULL,
			attempts              INTEGER NOT NULL,
			discarded_incomplete  INTEGER NOT NULL,
			discarded_duplicate   INTEGER NOT NULL,
			started_at            INTEGER NOT NULL,
			duration_ms           INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_parlay_runs_started ON parlay_runs(started_at)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun grava o resumo da execução; regravar o mesmo run_id substitui a linha
func (r *SQLiteRecorder) RecordRun(ctx context.Context, res model.RunResult) error {
	s := Summarize(res)

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO parlay_runs
		  (run_id, sport, status, bundles, candidates_considered, candidates_rejected,
		   attempts, discarded_incomplete, discarded_duplicate, started_at, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		s.RunID, s.Sport, string(s.Status), s.Bundles, s.CandidatesConsidered, s.CandidatesRejected,
		s.Attempts, s.DiscardedIncomplete, s.DiscardedDuplicate, s.StartedAt.UnixMilli(), s.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert parlay_run: %w", err)
	}
	return nil
}

// RecentRuns lista as últimas execuções, mais recentes primeiro; sport vazio traz todos
func (r *SQLiteRecorder) RecentRuns(ctx context.Context, sport string, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id, sport, status, bundles, candidates_considered, candidates_rejected,
		       attempts, discarded_incomplete, discarded_duplicate, started_at, duration_ms
		FROM parlay_runs
		WHERE (? = '' OR sport = ?)
		ORDER BY started_at DESC
		LIMIT ?`, sport, sport, limit)
	if err != nil {
		return nil, fmt.Errorf("query parlay_runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s          RunSummary
			status     string
			started    int64
			durationMs int64
		)
		if err := rows.Scan(&s.RunID, &s.Sport, &status, &s.Bundles, &s.CandidatesConsidered, &s.CandidatesRejected,
			&s.Attempts, &s.DiscardedIncomplete, &s.DiscardedDuplicate, &started, &durationMs); err != nil {
			return nil, fmt.Errorf("scan parlay_run: %w", err)
		}
		s.Status = model.RunStatus(status)
		s.StartedAt = time.UnixMilli(started).UTC()
		s.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
