// Package recorder guarda o histórico de execuções do motor para consulta local.
package recorder

import (
	"context"
	"time"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

// RunSummary é a linha gravada por execução
type RunSummary struct {
	RunID                string          `json:"runId"`
	Sport                string          `json:"sport"`
	Status               model.RunStatus `json:"status"`
	Bundles              int             `json:"bundles"`
	CandidatesConsidered int             `json:"candidatesConsidered"`
	CandidatesRejected   int             `json:"candidatesRejected"`
	Attempts             int             `json:"attempts"`
	DiscardedIncomplete  int             `json:"discardedIncomplete"`
	DiscardedDuplicate   int             `json:"discardedDuplicate"`
	StartedAt            time.Time       `json:"startedAt"`
	Duration             time.Duration   `json:"durationNs"`
}

// Summarize reduz um RunResult à linha de histórico
func Summarize(r model.RunResult) RunSummary {
	return RunSummary{
		RunID:                r.RunID,
		Sport:                r.Sport,
		Status:               r.Status,
		Bundles:              len(r.Bundles),
		CandidatesConsidered: r.CandidatesConsidered,
		CandidatesRejected:   r.CandidatesRejected,
		Attempts:             r.Attempts,
		DiscardedIncomplete:  r.DiscardedIncomplete,
		DiscardedDuplicate:   r.DiscardedDuplicate,
		StartedAt:            r.StartedAt,
		Duration:             r.FinishedAt.Sub(r.StartedAt),
	}
}

type Recorder interface {
	RecordRun(ctx context.Context, r model.RunResult) error
	RecentRuns(ctx context.Context, sport string, limit int) ([]RunSummary, error)
	Close() error
}
