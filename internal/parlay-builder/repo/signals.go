package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/props"
)

// Signals lê as entradas do motor produzidas pelos coletores de sinais
type Signals struct {
	DB *sql.DB
}

func NewSignals(db *sql.DB) *Signals { return &Signals{DB: db} }

// Opportunities retorna as oportunidades do dia para um esporte, na ordem de chegada
// Colunas nulas viram valores zerados; a validação fica com o Scorer
func (s *Signals) Opportunities(ctx context.Context, sport string) ([]model.Opportunity, error) {
	const q = `
		SELECT player_name, market, side, edge_pct, tier, line, trailing_avg, sport, team
		FROM prop_signals
		WHERE sport = $1 AND signal_date = CURRENT_DATE
		ORDER BY id
	`
	rows, err := s.DB.QueryContext(ctx, q, sport)
	if err != nil {
		return nil, fmt.Errorf("query prop_signals: %w", err)
	}
	defer rows.Close()

	var out []model.Opportunity
	for rows.Next() {
		var (
			player, market, side, tier, team sql.NullString
			edge                             sql.NullFloat64
			o                                model.Opportunity
		)
		if err := rows.Scan(&player, &market, &side, &edge, &tier, &o.Line, &o.Average, &o.Sport, &team); err != nil {
			return nil, fmt.Errorf("scan prop_signals: %w", err)
		}
		o.Player, o.Market, o.Side, o.Tier, o.Team = player.String, market.String, side.String, tier.String, team.String
		if edge.Valid {
			v := edge.Float64
			o.Edge = &v
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Lookups carrega confirmações do dia e o histórico do esporte, já com chaves normalizadas
func (s *Signals) Lookups(ctx context.Context, sport string) (model.Lookups, error) {
	l := model.Lookups{
		Confirmations: map[model.PairKey]model.Confirmation{},
		History:       map[model.PairKey]model.History{},
	}

	const qc = `
		SELECT player_name, stat, side, confidence
		FROM signal_confirmations
		WHERE sport = $1 AND signal_date = CURRENT_DATE
	`
	rows, err := s.DB.QueryContext(ctx, qc, sport)
	if err != nil {
		return l, fmt.Errorf("query signal_confirmations: %w", err)
	}
	for rows.Next() {
		var player, stat string
		var c model.Confirmation
		if err := rows.Scan(&player, &stat, &c.Side, &c.Confidence); err != nil {
			rows.Close()
			return l, fmt.Errorf("scan signal_confirmations: %w", err)
		}
		AddConfirmation(l.Confirmations, player, stat, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return l, err
	}

	const qh = `
		SELECT player_name, stat, legs_total, legs_won, hit_rate
		FROM prop_history
		WHERE sport = $1
	`
	rows, err = s.DB.QueryContext(ctx, qh, sport)
	if err != nil {
		return l, fmt.Errorf("query prop_history: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var player, stat string
		var h model.History
		if err := rows.Scan(&player, &stat, &h.Legs, &h.Won, &h.HitRate); err != nil {
			return l, fmt.Errorf("scan prop_history: %w", err)
		}
		l.History[LookupKey(player, stat)] = h
	}
	return l, rows.Err()
}

// LookupKey normaliza jogador e estatística do mesmo jeito que o Scorer
func LookupKey(player, stat string) model.PairKey {
	return model.PairKey{Player: props.NormalizePlayer(player), Stat: props.Normalize(stat)}
}

// AddConfirmation mantém a confirmação de maior confiança quando a fonte repete o par
func AddConfirmation(m map[model.PairKey]model.Confirmation, player, stat string, c model.Confirmation) {
	k := LookupKey(player, stat)
	if cur, ok := m[k]; ok && cur.Confidence >= c.Confidence {
		return
	}
	m[k] = c
}
