package model

import (
	"strings"
	"time"
)

// Tier é o nível de confiança atribuído pelo coletor de sinais
type Tier string

const (
	TierElite Tier = "ELITE"
	TierHigh  Tier = "HIGH"
)

// ParseTier aceita variações de caixa e espaços; ok=false para tiers desconhecidos
func ParseTier(s string) (Tier, bool) {
	switch Tier(strings.ToUpper(strings.TrimSpace(s))) {
	case TierElite:
		return TierElite, true
	case TierHigh:
		return TierHigh, true
	}
	return "", false
}

const (
	SideOver  = "over"
	SideUnder = "under"
)

// Opportunity é a linha bruta lida das tabelas de sinais, antes da normalização
// Edge é ponteiro porque pode vir nulo do coletor
type Opportunity struct {
	Player  string
	Market  string
	Side    string
	Edge    *float64
	Tier    string
	Line    float64
	Average float64
	Sport   string
	Team    string
}

// CandidatePick é uma oportunidade válida e pontuada; não muda depois do Rank
type CandidatePick struct {
	Player    string // nome para exibição
	PlayerKey string // nome normalizado; identidade do jogador nas regras do motor
	Stat      string // código canônico (ex: "pra")
	Market    string // rótulo bruto (ex: "player_points_rebounds_assists")
	Side      string
	EdgePct   float64
	Tier      Tier
	Line      float64
	Average   float64
	Sport     string
	Team      string
	Confirmed bool
	Score     float64
}

// Key identifica o par (jogador, estatística) usado em exposição e dedup
// Sem PlayerKey, o nome de exibição é usado como veio
func (c *CandidatePick) Key() PairKey {
	player := c.PlayerKey
	if player == "" {
		player = c.Player
	}
	return PairKey{Player: player, Stat: c.Stat}
}

// PairKey é a chave (jogador, estatística canônica)
type PairKey struct {
	Player string
	Stat   string
}

func (k PairKey) String() string { return k.Player + "|" + k.Stat }

// Confirmation é a recomendação de uma fonte de sinais independente
type Confirmation struct {
	Side       string
	Confidence float64
}

// History é o desempenho recente de um par (jogador, estatística)
type History struct {
	Legs    int
	Won     int
	HitRate float64
}

// Lookups reúne as tabelas auxiliares consultadas na pontuação
// As chaves usam o nome do jogador normalizado e o código canônico
type Lookups struct {
	Confirmations map[PairKey]Confirmation
	History       map[PairKey]History
}

// Bundle é um parlay confirmado; as pernas são referências para os candidatos
type Bundle struct {
	ID                  string
	Sport               string
	Legs                []*CandidatePick
	AvgScore            float64
	ConfirmedLegs       int
	CombinedProbability float64
	Rationale           string
	Signature           string
	CreatedAt           time.Time
}

// LegCount retorna o número de pernas do parlay
func (b *Bundle) LegCount() int { return len(b.Legs) }

// RunStatus descreve o desfecho de uma execução do construtor
type RunStatus string

const (
	StatusOK           RunStatus = "ok"
	StatusPartial      RunStatus = "partial"
	StatusNoCandidates RunStatus = "no_candidates"
	StatusNoFeasible   RunStatus = "no_feasible_bundles"
)

// Rejection registra um candidato descartado por dados malformados
type Rejection struct {
	Player string
	Market string
	Reason string
}

// RunResult é o resumo de uma execução entregue ao chamador
type RunResult struct {
	RunID                string
	Sport                string
	Status               RunStatus
	Bundles              []*Bundle
	CandidatesConsidered int
	CandidatesRejected   int
	Attempts             int
	DiscardedIncomplete  int
	DiscardedDuplicate   int
	StartedAt            time.Time
	FinishedAt           time.Time
}

// NoFeasibleBundles indica que a execução terminou sem nenhum parlay
func (r *RunResult) NoFeasibleBundles() bool { return len(r.Bundles) == 0 }
