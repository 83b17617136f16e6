// Package engine monta parlays a partir de candidatos ranqueados: guarda de
// correlação, controle de exposição, deduplicação e o laço guloso com
// perturbação aleatória.
package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

// Rand é a fonte aleatória da perturbação; injetável para testes determinísticos
type Rand interface {
	IntN(n int) int
}

// NewRand cria uma fonte PCG; seed 0 usa o relógio
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Config parametriza uma execução do construtor
type Config struct {
	TargetBundles int // N
	LegsPerBundle int // L
	ExposureCap   int // E: teto global por par
	ReuseCap      int // R: teto por execução
	AttemptFactor int // orçamento = N * AttemptFactor
	PerturbWindow int // a perturbação sorteia dentro do topo da lista
}

func DefaultConfig() Config {
	return Config{
		TargetBundles: 8,
		LegsPerBundle: 3,
		ExposureCap:   5,
		ReuseCap:      2,
		AttemptFactor: 3,
		PerturbWindow: 10,
	}
}

// Validate rejeita perfis com os quais o laço não consegue montar parlays
func (c Config) Validate() error {
	var errs []error
	if c.TargetBundles < 1 {
		errs = append(errs, fmt.Errorf("target bundles must be >= 1, got %d", c.TargetBundles))
	}
	if c.LegsPerBundle < 1 {
		errs = append(errs, fmt.Errorf("legs per bundle must be >= 1, got %d", c.LegsPerBundle))
	}
	if c.AttemptFactor < 1 {
		errs = append(errs, fmt.Errorf("attempt factor must be >= 1, got %d", c.AttemptFactor))
	}
	if c.ExposureCap < 0 {
		errs = append(errs, fmt.Errorf("exposure cap must be >= 0, got %d", c.ExposureCap))
	}
	if c.ReuseCap < 0 {
		errs = append(errs, fmt.Errorf("reuse cap must be >= 0, got %d", c.ReuseCap))
	}
	if c.PerturbWindow < 0 {
		errs = append(errs, fmt.Errorf("perturb window must be >= 0, got %d", c.PerturbWindow))
	}
	return errors.Join(errs...)
}

// Budget é o número máximo de tentativas
func (c Config) Budget() int { return c.TargetBundles * c.AttemptFactor }

// Builder é single-thread: uma instância por execução, sem uso concorrente
type Builder struct {
	cfg      Config
	guard    *Guard
	exposure *Exposure
	rng      Rand
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*Builder)

func WithLogger(l *zap.Logger) Option { return func(b *Builder) { b.log = l } }

func WithClock(now func() time.Time) Option { return func(b *Builder) { b.now = now } }

func WithIDs(newID func() string) Option { return func(b *Builder) { b.newID = newID } }

func NewBuilder(cfg Config, guard *Guard, exposure *Exposure, rng Rand, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		guard:    guard,
		exposure: exposure,
		rng:      rng,
		log:      zap.NewNop(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build tenta confirmar até N parlays dentro do orçamento de tentativas.
// ranked não é alterado; a perturbação age sobre uma cópia de trabalho.
func (b *Builder) Build(ranked []*model.CandidatePick) model.RunResult {
	res := model.RunResult{CandidatesConsidered: len(ranked)}
	if len(ranked) == 0 {
		res.Status = model.StatusNoCandidates
		return res
	}

	b.exposure.ResetRun()
	dedup := NewDeduplicator()

	work := make([]*model.CandidatePick, len(ranked))
	copy(work, ranked)

	budget := b.cfg.Budget()
	for res.Attempts < budget && len(res.Bundles) < b.cfg.TargetBundles {
		res.Attempts++

		legs := b.assemble(work)
		switch {
		case len(legs) == 0 || len(legs) < b.cfg.LegsPerBundle:
			res.DiscardedIncomplete++
			b.log.Debug("attempt discarded: incomplete",
				zap.Int("attempt", res.Attempts), zap.Int("legs", len(legs)))
		default:
			sig := Signature(legs)
			if dedup.Seen(sig) {
				res.DiscardedDuplicate++
				b.log.Debug("attempt discarded: duplicate",
					zap.Int("attempt", res.Attempts), zap.String("signature", sig[:12]))
				break
			}
			dedup.Add(sig)
			b.exposure.Commit(legs)
			res.Bundles = append(res.Bundles, b.commit(legs, sig))
		}

		if len(res.Bundles) < b.cfg.TargetBundles {
			b.perturb(work)
		}
	}

	switch {
	case len(res.Bundles) == 0:
		res.Status = model.StatusNoFeasible
	case len(res.Bundles) < b.cfg.TargetBundles:
		res.Status = model.StatusPartial
	default:
		res.Status = model.StatusOK
	}
	return res
}

// assemble percorre a lista do topo e aceita o primeiro candidato que passa
// por todas as regras, até completar L pernas
func (b *Builder) assemble(work []*model.CandidatePick) []*model.CandidatePick {
	legs := make([]*model.CandidatePick, 0, b.cfg.LegsPerBundle)
	stats := make(map[string]struct{}, b.cfg.LegsPerBundle)
	teams := make(map[string]struct{}, b.cfg.LegsPerBundle)

	for _, c := range work {
		if len(legs) == b.cfg.LegsPerBundle {
			break
		}
		if b.guard.Correlated(legs, c.Player, c.Market) {
			continue
		}
		if _, dup := stats[c.Stat]; dup {
			continue
		}
		if c.Team != "" {
			if _, dup := teams[c.Team]; dup {
				continue
			}
		}
		k := c.Key()
		if b.exposure.GlobalCapped(k, b.cfg.ExposureCap) {
			continue
		}
		if b.exposure.ReuseCapped(k, b.cfg.ReuseCap) {
			continue
		}

		legs = append(legs, c)
		stats[c.Stat] = struct{}{}
		if c.Team != "" {
			teams[c.Team] = struct{}{}
		}
	}
	return legs
}

func (b *Builder) commit(legs []*model.CandidatePick, sig string) *model.Bundle {
	bundle := &model.Bundle{
		ID:        b.newID(),
		Sport:     legs[0].Sport,
		Legs:      legs,
		Signature: sig,
		CreatedAt: b.now().UTC(),
	}
	summarize(bundle)

	b.log.Debug("bundle committed",
		zap.String("parlay_id", bundle.ID),
		zap.Float64("avg_conviction", bundle.AvgScore),
		zap.Int("confirmed_legs", bundle.ConfirmedLegs))
	return bundle
}

// perturb move para a frente um candidato sorteado entre os primeiros da lista
func (b *Builder) perturb(work []*model.CandidatePick) {
	window := min(b.cfg.PerturbWindow, len(work))
	if window < 2 {
		return
	}
	idx := b.rng.IntN(window)
	if idx == 0 {
		return
	}
	c := work[idx]
	copy(work[1:idx+1], work[:idx])
	work[0] = c
}
