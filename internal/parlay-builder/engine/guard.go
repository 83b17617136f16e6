package engine

import (
	"fmt"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/props"
)

// CorrelationMode define quão rígida é a exclusão entre pernas do mesmo jogador
type CorrelationMode string

const (
	// ModeStrict: qualquer perna do mesmo jogador bloqueia o candidato
	ModeStrict CorrelationMode = "strict"
	// ModeComposite: mesmo jogador só é permitido quando as estatísticas base não se sobrepõem
	ModeComposite CorrelationMode = "composite"
)

// ParseCorrelationMode converte o valor de configuração; vazio vira strict
func ParseCorrelationMode(s string) (CorrelationMode, error) {
	switch CorrelationMode(s) {
	case "", ModeStrict:
		return ModeStrict, nil
	case ModeComposite:
		return ModeComposite, nil
	}
	return "", fmt.Errorf("unknown correlation mode %q", s)
}

// Guard decide se um candidato é estatisticamente dependente das pernas já escolhidas
type Guard struct {
	mode CorrelationMode
}

func NewGuard(mode CorrelationMode) *Guard {
	if mode == "" {
		mode = ModeStrict
	}
	return &Guard{mode: mode}
}

// Correlated retorna true quando o candidato (player, rawStat) não pode entrar no parlay
func (g *Guard) Correlated(legs []*model.CandidatePick, player, rawStat string) bool {
	stat := props.Normalize(rawStat)
	who := props.NormalizePlayer(player)
	for _, l := range legs {
		if props.NormalizePlayer(l.Player) != who {
			continue
		}
		if g.mode == ModeStrict {
			return true
		}
		if props.Overlaps(l.Stat, stat) {
			return true
		}
	}
	return false
}
