package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/radieske/sports-parlay-engine/pkg/contracts/events"
)

var ErrNotFound = errors.New("parlay not found")

const parlayColumns = `
	p.id, p.run_id, p.sport, p.signature, p.leg_count, p.avg_conviction,
	p.confirmed_legs, p.combined_probability, p.rationale, p.created_at`

// ReadRepo consulta os parlays gravados pelo parlay-builder
type ReadRepo struct {
	DB *sql.DB
}

func NewReadRepo(db *sql.DB) *ReadRepo { return &ReadRepo{DB: db} }

// Latest retorna os parlays da execução mais recente do esporte
func (r *ReadRepo) Latest(ctx context.Context, sport string) ([]events.ParlayBuilt, error) {
	q := `
		SELECT` + parlayColumns + `
		FROM parlays p
		WHERE p.sport = $1
		  AND p.run_id = (SELECT run_id FROM parlays WHERE sport = $1 ORDER BY created_at DESC LIMIT 1)
		ORDER BY p.created_at, p.id
	`
	rows, err := r.DB.QueryContext(ctx, q, sport)
	if err != nil {
		return nil, fmt.Errorf("query parlays: %w", err)
	}
	defer rows.Close()

	var out []events.ParlayBuilt
	for rows.Next() {
		p, err := scanParlay(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.attachLegs(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByID retorna um parlay com suas pernas; ErrNotFound quando não existe
func (r *ReadRepo) ByID(ctx context.Context, id string) (events.ParlayBuilt, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT`+parlayColumns+` FROM parlays p WHERE p.id = $1`, id)
	p, err := scanParlay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, err
	}

	one := []events.ParlayBuilt{p}
	if err := r.attachLegs(ctx, one); err != nil {
		return p, err
	}
	return one[0], nil
}

// attachLegs carrega as pernas de todos os parlays numa única consulta
func (r *ReadRepo) attachLegs(ctx context.Context, parlays []events.ParlayBuilt) error {
	if len(parlays) == 0 {
		return nil
	}
	idx := make(map[string]int, len(parlays))
	ids := make([]string, len(parlays))
	for i, p := range parlays {
		idx[p.ParlayID] = i
		ids[i] = p.ParlayID
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT parlay_id, player_name, stat, side, line, edge_pct, tier, confirmed, trailing_avg, sport
		FROM parlay_legs
		WHERE parlay_id = ANY($1::uuid[])
		ORDER BY parlay_id, position
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("query parlay_legs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			parlayID        string
			l               events.ParlayLeg
			line, edge, avg decimal.Decimal
		)
		if err := rows.Scan(&parlayID, &l.Player, &l.Stat, &l.Side, &line, &edge, &l.Tier, &l.Confirmed, &avg, &l.Sport); err != nil {
			return fmt.Errorf("scan parlay_leg: %w", err)
		}
		l.Line, l.EdgePct, l.Average = line.InexactFloat64(), edge.InexactFloat64(), avg.InexactFloat64()

		i, ok := idx[parlayID]
		if !ok {
			continue
		}
		parlays[i].Legs = append(parlays[i].Legs, l)
	}
	return rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanParlay(s scanner) (events.ParlayBuilt, error) {
	var (
		p         events.ParlayBuilt
		avg, prob decimal.Decimal
	)
	err := s.Scan(&p.ParlayID, &p.RunID, &p.Sport, &p.Signature, &p.LegCount, &avg,
		&p.ConfirmedLegs, &prob, &p.Rationale, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return p, err
		}
		return p, fmt.Errorf("scan parlay: %w", err)
	}
	p.AvgConviction = avg.InexactFloat64()
	p.CombinedProbability = prob.InexactFloat64()
	return p, nil
}
