// Package runner orquestra uma execução completa do motor para um esporte:
// leitura das entradas, ranking, montagem e distribuição dos parlays.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/conviction"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/engine"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/recorder"
	"github.com/radieske/sports-parlay-engine/internal/shared/config"
	"github.com/radieske/sports-parlay-engine/internal/shared/logger"
	"github.com/radieske/sports-parlay-engine/pkg/contracts/events"
)

type Source interface {
	Opportunities(ctx context.Context, sport string) ([]model.Opportunity, error)
	Lookups(ctx context.Context, sport string) (model.Lookups, error)
}

type Store interface {
	SaveRun(ctx context.Context, runID string, bundles []*model.Bundle) error
}

type LatestCache interface {
	SetLatest(ctx context.Context, sport string, parlays []events.ParlayBuilt) error
}

type Publisher interface {
	PublishParlays(ctx context.Context, parlays []events.ParlayBuilt) error
}

type Broadcaster interface {
	Broadcast(ctx context.Context, sport string, payload any) error
}

// Runner executa o motor e distribui o resultado
// Saídas nulas (Store, Cache, Publisher, Broadcaster, Recorder) são ignoradas
type Runner struct {
	Log    *zap.Logger
	Config config.Config

	Source      Source
	Store       Store
	Cache       LatestCache
	Publisher   Publisher
	Broadcaster Broadcaster
	Recorder    recorder.Recorder

	NewRand func(seed uint64) engine.Rand // nil = PCG de engine.NewRand
	Now     func() time.Time              // nil = time.Now
	NewID   func() string                 // ids de run e de parlay; nil = uuid

	OnRun   func(model.RunResult) // métricas
	OnError func(string)          // métricas por estágio

	mu sync.Mutex
}

// Run executa um único esporte; exp nil usa um tracker novo
// Execuções concorrentes (cron e disparo manual) são serializadas
func (r *Runner) Run(ctx context.Context, sport string, exp *engine.Exposure) (model.RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if exp == nil {
		exp = engine.NewExposure()
	}
	return r.run(ctx, sport, exp)
}

// RunBatch processa os esportes em sequência com um único tracker de exposição
// Falha num esporte não interrompe os demais
func (r *Runner) RunBatch(ctx context.Context, sports []string) ([]model.RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp := engine.NewExposure()
	var (
		results []model.RunResult
		errs    []error
	)
	for _, sport := range sports {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		res, err := r.run(ctx, sport, exp)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sport, err))
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// CheckProfiles valida o perfil efetivo de cada esporte; usado na inicialização
func (r *Runner) CheckProfiles(sports []string) error {
	var errs []error
	for _, sport := range sports {
		ec := r.Config.EngineFor(sport)
		if err := engineConfig(ec).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sport, err))
		}
		if _, err := engine.ParseCorrelationMode(ec.CorrelationMode); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sport, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) run(ctx context.Context, sport string, exp *engine.Exposure) (model.RunResult, error) {
	now := r.now()
	runID := r.newID()
	log := logger.ForRun(r.log(), runID, sport)
	started := now()

	opps, err := r.Source.Opportunities(ctx, sport)
	if err != nil {
		r.fail("source")
		return model.RunResult{}, fmt.Errorf("load opportunities: %w", err)
	}
	lookups, err := r.Source.Lookups(ctx, sport)
	if err != nil {
		r.fail("source")
		return model.RunResult{}, fmt.Errorf("load lookups: %w", err)
	}

	ranked, rejected := conviction.NewScorer(lookups).Rank(opps)
	for _, rj := range rejected {
		log.Debug("opportunity rejected",
			zap.String("player", rj.Player), zap.String("market", rj.Market), zap.String("reason", rj.Reason))
	}

	ec := r.Config.EngineFor(sport)
	cfg := engineConfig(ec)
	if err := cfg.Validate(); err != nil {
		r.fail("config")
		return model.RunResult{}, fmt.Errorf("engine profile for %s: %w", sport, err)
	}
	mode, err := engine.ParseCorrelationMode(ec.CorrelationMode)
	if err != nil {
		log.Warn("invalid correlation mode, using strict", zap.Error(err))
		mode = engine.ModeStrict
	}

	opts := []engine.Option{engine.WithLogger(log), engine.WithClock(now)}
	if r.NewID != nil {
		opts = append(opts, engine.WithIDs(r.NewID))
	}
	b := engine.NewBuilder(cfg, engine.NewGuard(mode), exp, r.rand(ec.Seed), opts...)

	res := b.Build(ranked)
	res.RunID = runID
	res.Sport = sport
	res.CandidatesRejected = len(rejected)
	res.StartedAt = started
	res.FinishedAt = now()

	if len(res.Bundles) > 0 {
		r.distribute(ctx, log, res)
	}

	if r.Recorder != nil {
		if err := r.Recorder.RecordRun(ctx, res); err != nil {
			log.Warn("run record failed", zap.Error(err))
			r.fail("record")
		}
	}
	if r.OnRun != nil {
		r.OnRun(res)
	}

	log.Info("run finished",
		zap.String("status", string(res.Status)),
		zap.Int("bundles", len(res.Bundles)),
		zap.Int("candidates", res.CandidatesConsidered),
		zap.Int("rejected", res.CandidatesRejected),
		zap.Int("attempts", res.Attempts),
		zap.Duration("took", res.FinishedAt.Sub(res.StartedAt)))
	return res, nil
}

// distribute grava e publica os parlays confirmados
// Falhas são registradas por estágio e não descartam o resultado em memória
func (r *Runner) distribute(ctx context.Context, log *zap.Logger, res model.RunResult) {
	if r.Store != nil {
		if err := r.Store.SaveRun(ctx, res.RunID, res.Bundles); err != nil {
			log.Warn("db save failed", zap.Error(err))
			r.fail("persist")
		}
	}

	evs := make([]events.ParlayBuilt, 0, len(res.Bundles))
	for _, b := range res.Bundles {
		evs = append(evs, toEvent(res.RunID, b))
	}

	if r.Publisher != nil {
		if err := r.Publisher.PublishParlays(ctx, evs); err != nil {
			log.Warn("kafka publish failed", zap.Error(err))
			r.fail("publish")
		}
	}
	if r.Cache != nil {
		if err := r.Cache.SetLatest(ctx, res.Sport, evs); err != nil {
			log.Warn("redis set failed", zap.Error(err))
			r.fail("cache")
		}
	}
	if r.Broadcaster != nil {
		bctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		if err := r.Broadcaster.Broadcast(bctx, res.Sport, evs); err != nil {
			log.Warn("ws broadcast publish failed", zap.Error(err))
			r.fail("broadcast")
		}
	}
}

func (r *Runner) fail(stage string) {
	if r.OnError != nil {
		r.OnError(stage)
	}
}

func (r *Runner) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Runner) now() func() time.Time {
	if r.Now == nil {
		return time.Now
	}
	return r.Now
}

func (r *Runner) newID() string {
	if r.NewID == nil {
		return uuid.NewString()
	}
	return r.NewID()
}

func (r *Runner) rand(seed uint64) engine.Rand {
	if r.NewRand == nil {
		return engine.NewRand(seed)
	}
	return r.NewRand(seed)
}

func engineConfig(ec config.EngineConfig) engine.Config {
	return engine.Config{
		TargetBundles: ec.TargetBundles,
		LegsPerBundle: ec.LegsPerBundle,
		ExposureCap:   ec.ExposureCap,
		ReuseCap:      ec.ReuseCap,
		AttemptFactor: ec.AttemptFactor,
		PerturbWindow: ec.PerturbWindow,
	}
}

// toEvent converte um parlay confirmado no contrato parlay_built
func toEvent(runID string, b *model.Bundle) events.ParlayBuilt {
	legs := make([]events.ParlayLeg, 0, len(b.Legs))
	for _, l := range b.Legs {
		legs = append(legs, events.ParlayLeg{
			Player:    l.Player,
			Stat:      l.Stat,
			Side:      l.Side,
			Line:      l.Line,
			EdgePct:   l.EdgePct,
			Tier:      string(l.Tier),
			Confirmed: l.Confirmed,
			Average:   l.Average,
			Sport:     l.Sport,
		})
	}
	return events.ParlayBuilt{
		ParlayID:            b.ID,
		RunID:               runID,
		Sport:               b.Sport,
		Legs:                legs,
		LegCount:            b.LegCount(),
		AvgConviction:       b.AvgScore,
		ConfirmedLegs:       b.ConfirmedLegs,
		CombinedProbability: b.CombinedProbability,
		Rationale:           b.Rationale,
		Signature:           b.Signature,
		CreatedAt:           b.CreatedAt,
	}
}
