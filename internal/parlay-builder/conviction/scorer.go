// Package conviction pontua candidatos a perna de parlay combinando cinco sinais
// independentes num único score (teto 100, sem piso).
package conviction

import (
	"math"
	"slices"
	"strings"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/props"
)

const (
	MaxScore = 100.0

	edgeWeight = 0.3

	eliteBonus = 20.0
	highBonus  = 10.0

	confirmedSameSide     = 25.0
	confirmedOppositeSide = 5.0

	underBonus = 10.0

	minHistoryLegs = 5
	hotHitRate     = 0.70
	warmHitRate    = 0.50
	coldHitRate    = 0.30
	hotBonus       = 15.0
	warmBonus      = 5.0
	coldPenalty    = -20.0
)

// Scorer é puro: mesmo input e mesmas tabelas produzem o mesmo score
type Scorer struct {
	lookups model.Lookups
}

func NewScorer(l model.Lookups) *Scorer {
	return &Scorer{lookups: l}
}

// Breakdown expõe cada componente do score, útil para logs e para o rationale
type Breakdown struct {
	Edge         float64
	Tier         float64
	Confirmation float64
	Side         float64
	History      float64
	Total        float64
}

// Score calcula o score de um candidato já normalizado
func (s *Scorer) Score(c *model.CandidatePick) Breakdown {
	key := model.PairKey{Player: props.NormalizePlayer(c.Player), Stat: c.Stat}

	b := Breakdown{
		// edge com sinal: edge negativo puxa o score para baixo
		Edge: c.EdgePct * edgeWeight,
		Tier: tierBonus(c.Tier),
		Side: sideBonus(c.Side),
	}

	if conf, ok := s.lookups.Confirmations[key]; ok {
		b.Confirmation = confirmationBonus(c.Side, conf.Side)
	}
	if h, ok := s.lookups.History[key]; ok {
		b.History = historyBonus(h)
	}

	b.Total = math.Min(MaxScore, b.Edge+b.Tier+b.Confirmation+b.Side+b.History)
	return b
}

// Confirmed informa se a fonte independente recomenda o mesmo lado
func (s *Scorer) Confirmed(c *model.CandidatePick) bool {
	key := model.PairKey{Player: props.NormalizePlayer(c.Player), Stat: c.Stat}
	conf, ok := s.lookups.Confirmations[key]
	return ok && sameSide(c.Side, conf.Side)
}

// Rank valida, normaliza e pontua as oportunidades e devolve os candidatos em
// ordem decrescente de score; empates preservam a ordem de chegada
func (s *Scorer) Rank(opps []model.Opportunity) ([]*model.CandidatePick, []model.Rejection) {
	out := make([]*model.CandidatePick, 0, len(opps))
	var rejected []model.Rejection

	for _, o := range opps {
		c, reason := candidateFrom(o)
		if reason != "" {
			rejected = append(rejected, model.Rejection{Player: o.Player, Market: o.Market, Reason: reason})
			continue
		}
		c.Confirmed = s.Confirmed(c)
		c.Score = s.Score(c).Total
		out = append(out, c)
	}

	slices.SortStableFunc(out, func(a, b *model.CandidatePick) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	return out, rejected
}

func candidateFrom(o model.Opportunity) (*model.CandidatePick, string) {
	player := strings.TrimSpace(o.Player)
	if player == "" {
		return nil, "missing player"
	}
	if strings.TrimSpace(o.Market) == "" {
		return nil, "missing market"
	}
	if o.Edge == nil || math.IsNaN(*o.Edge) || math.IsInf(*o.Edge, 0) {
		return nil, "non-numeric edge"
	}
	tier, ok := model.ParseTier(o.Tier)
	if !ok {
		return nil, "unknown tier " + o.Tier
	}

	return &model.CandidatePick{
		Player:    player,
		PlayerKey: props.NormalizePlayer(player),
		Stat:      props.Normalize(o.Market),
		Market:    o.Market,
		Side:      strings.ToLower(strings.TrimSpace(o.Side)),
		EdgePct:   *o.Edge,
		Tier:      tier,
		Line:      o.Line,
		Average:   o.Average,
		Sport:     strings.ToLower(o.Sport),
		Team:      strings.ToUpper(strings.TrimSpace(o.Team)),
	}, ""
}

func tierBonus(t model.Tier) float64 {
	switch t {
	case model.TierElite:
		return eliteBonus
	case model.TierHigh:
		return highBonus
	}
	return 0
}

func sideBonus(side string) float64 {
	if isUnder(side) {
		return underBonus
	}
	return 0
}

func confirmationBonus(pickSide, confSide string) float64 {
	if strings.TrimSpace(confSide) == "" {
		return 0
	}
	if sameSide(pickSide, confSide) {
		return confirmedSameSide
	}
	// lado oposto rende crédito parcial
	return confirmedOppositeSide
}

func historyBonus(h model.History) float64 {
	if h.Legs < minHistoryLegs {
		return 0
	}
	switch {
	case h.HitRate >= hotHitRate:
		return hotBonus
	case h.HitRate >= warmHitRate:
		return warmBonus
	case h.HitRate < coldHitRate:
		return coldPenalty
	}
	return 0
}

func sameSide(a, b string) bool {
	return direction(a) == direction(b)
}

func isUnder(side string) bool {
	return direction(side) == model.SideUnder
}

// direction reduz o lado a over/under, aceitando rótulos direcionais como "UNDER_SIGNAL";
// rótulos sem direção são comparados como vieram
func direction(side string) string {
	s := strings.ToLower(strings.TrimSpace(side))
	switch {
	case strings.Contains(s, model.SideUnder):
		return model.SideUnder
	case strings.Contains(s, model.SideOver):
		return model.SideOver
	}
	return s
}
