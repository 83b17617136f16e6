package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

// BatchRunner é implementado por runner.Runner
type BatchRunner interface {
	RunBatch(ctx context.Context, sports []string) ([]model.RunResult, error)
}

// Scheduler dispara um lote de execuções conforme a expressão cron (com segundos)
type Scheduler struct {
	Cron    *cron.Cron
	Runner  BatchRunner
	Sports  []string
	Timeout time.Duration
	Log     *zap.Logger

	ctx context.Context
}

func New(ctx context.Context, r BatchRunner, sports []string, log *zap.Logger) *Scheduler {
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.PrintfLogger(zap.NewStdLog(log)))),
		),
		Runner:  r,
		Sports:  sports,
		Timeout: 2 * time.Minute,
		Log:     log,
		ctx:     ctx,
	}
}

// Register agenda o lote; expressão inválida é erro de configuração
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.RunNow); err != nil {
		return fmt.Errorf("register batch %q: %w", spec, err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started", zap.Strings("sports", s.Sports))
}

// Stop aguarda o lote em andamento terminar
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunNow executa um lote imediatamente (usado também pelo RUN_ON_START)
func (s *Scheduler) RunNow() {
	ctx, cancel := context.WithTimeout(s.ctx, s.Timeout)
	defer cancel()

	results, err := s.Runner.RunBatch(ctx, s.Sports)
	if err != nil {
		s.Log.Error("batch finished with errors", zap.Error(err))
	}
	total := 0
	for _, r := range results {
		total += len(r.Bundles)
	}
	s.Log.Info("batch finished", zap.Int("sports", len(results)), zap.Int("bundles", total))
}
