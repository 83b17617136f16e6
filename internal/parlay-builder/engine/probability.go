package engine

import (
	"fmt"
	"math"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

const (
	baseWinProbability = 0.55
	edgeDivisor        = 500.0
	maxLegProbability  = 0.85
)

// LegProbability estima a chance de acerto de uma perna a partir do edge
func LegProbability(edgePct float64) float64 {
	return math.Min(maxLegProbability, baseWinProbability+math.Abs(edgePct)/edgeDivisor)
}

// CombinedProbability é o produto das probabilidades individuais
func CombinedProbability(legs []*model.CandidatePick) float64 {
	if len(legs) == 0 {
		return 0
	}
	p := 1.0
	for _, l := range legs {
		p *= LegProbability(l.EdgePct)
	}
	return p
}

// summarize preenche os metadados derivados das pernas
func summarize(b *model.Bundle) {
	var total float64
	b.ConfirmedLegs = 0
	for _, l := range b.Legs {
		total += l.Score
		if l.Confirmed {
			b.ConfirmedLegs++
		}
	}
	if n := len(b.Legs); n > 0 {
		b.AvgScore = total / float64(n)
	}
	b.CombinedProbability = CombinedProbability(b.Legs)
	b.Rationale = fmt.Sprintf("avg conviction %.1f; %d/%d legs cross-confirmed",
		b.AvgScore, b.ConfirmedLegs, len(b.Legs))
}
