package recorder

import (
	"context"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

// NoopRecorder é usado quando SQLITE_PATH não está configurado
type NoopRecorder struct{}

func (NoopRecorder) RecordRun(context.Context, model.RunResult) error { return nil }

func (NoopRecorder) RecentRuns(context.Context, string, int) ([]RunSummary, error) { return nil, nil }

func (NoopRecorder) Close() error { return nil }
