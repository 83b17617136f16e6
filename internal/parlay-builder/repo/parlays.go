package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

// Parlays persiste os parlays confirmados e suas pernas
type Parlays struct {
	db *sql.DB
}

func NewParlays(db *sql.DB) *Parlays { return &Parlays{db: db} }

// SaveRun grava todos os parlays de uma execução numa única transação
// Reprocessar o mesmo run_id não duplica linhas (UNIQUE run_id, signature)
func (p *Parlays) SaveRun(ctx context.Context, runID string, bundles []*model.Bundle) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, b := range bundles {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO parlays
			  (id, run_id, sport, signature, leg_count, avg_conviction, confirmed_legs, combined_probability, rationale, created_at)
			VALUES
			  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
			ON CONFLICT (run_id, signature) DO NOTHING`,
			b.ID, runID, b.Sport, b.Signature, b.LegCount(),
			numeric(b.AvgScore, 4), b.ConfirmedLegs, numeric(b.CombinedProbability, 6),
			b.Rationale, b.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert parlay %s: %w", b.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue // já gravado
		}

		for i, l := range b.Legs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO parlay_legs
				  (parlay_id, position, player_name, stat, market, side, line, edge_pct, tier, confirmed, trailing_avg, conviction, sport, team)
				VALUES
				  ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,NULLIF($14,''))`,
				b.ID, i, l.Player, l.Stat, l.Market, l.Side,
				numeric(l.Line, 2), numeric(l.EdgePct, 3), string(l.Tier), l.Confirmed,
				numeric(l.Average, 2), numeric(l.Score, 4), l.Sport, l.Team,
			); err != nil {
				return fmt.Errorf("insert leg %d of %s: %w", i, b.ID, err)
			}
		}
	}

	return tx.Commit()
}

// numeric arredonda para a escala da coluna NUMERIC correspondente
func numeric(v float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}
