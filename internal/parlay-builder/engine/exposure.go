package engine

import "github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"

// Exposure controla quantas vezes cada par (jogador, estatística) já apareceu
// em parlays confirmados. global vive o ciclo de vida do tracker (um lote);
// run é zerado no início de cada Build. Contadores só sobem em Commit.
// Os tetos vêm do perfil de cada Build, então esportes com perfis diferentes
// podem compartilhar o mesmo tracker.
type Exposure struct {
	global map[model.PairKey]int
	run    map[model.PairKey]int
}

func NewExposure() *Exposure {
	return &Exposure{
		global: make(map[model.PairKey]int),
		run:    make(map[model.PairKey]int),
	}
}

// ResetRun descarta apenas as contagens da execução corrente
func (e *Exposure) ResetRun() {
	e.run = make(map[model.PairKey]int)
}

// GlobalCapped indica que o par atingiu o teto global
func (e *Exposure) GlobalCapped(k model.PairKey, limit int) bool {
	return e.global[k] >= limit
}

// ReuseCapped indica que o par já está em limit ou mais parlays desta execução
func (e *Exposure) ReuseCapped(k model.PairKey, limit int) bool {
	return e.run[k] >= limit
}

// Commit contabiliza todas as pernas de um parlay aceito
func (e *Exposure) Commit(legs []*model.CandidatePick) {
	for _, l := range legs {
		k := l.Key()
		e.global[k]++
		e.run[k]++
	}
}

// Count retorna a exposição global do par
func (e *Exposure) Count(k model.PairKey) int { return e.global[k] }
