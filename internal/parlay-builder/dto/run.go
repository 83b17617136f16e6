package dto

import (
	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

// Leg é a perna exposta pela API de disparo manual
type Leg struct {
	Player     string  `json:"player"`
	Stat       string  `json:"stat"`
	Side       string  `json:"side"`
	Line       float64 `json:"line"`
	EdgePct    float64 `json:"edgePct"`
	Tier       string  `json:"tier"`
	Team       string  `json:"team,omitempty"`
	Confirmed  bool    `json:"confirmed"`
	Conviction float64 `json:"conviction"`
}

type Parlay struct {
	ID                  string  `json:"id"`
	Legs                []Leg   `json:"legs"`
	AvgConviction       float64 `json:"avgConviction"`
	ConfirmedLegs       int     `json:"confirmedLegs"`
	CombinedProbability float64 `json:"combinedProbability"`
	Rationale           string  `json:"rationale"`
}

// RunResponse resume uma execução do motor
type RunResponse struct {
	RunID                string   `json:"runId"`
	Sport                string   `json:"sport"`
	Status               string   `json:"status"`
	CandidatesConsidered int      `json:"candidatesConsidered"`
	CandidatesRejected   int      `json:"candidatesRejected"`
	Attempts             int      `json:"attempts"`
	DiscardedIncomplete  int      `json:"discardedIncomplete"`
	DiscardedDuplicate   int      `json:"discardedDuplicate"`
	DurationMs           int64    `json:"durationMs"`
	Parlays              []Parlay `json:"parlays"`
}

func FromRun(r model.RunResult) RunResponse {
	out := RunResponse{
		RunID:                r.RunID,
		Sport:                r.Sport,
		Status:               string(r.Status),
		CandidatesConsidered: r.CandidatesConsidered,
		CandidatesRejected:   r.CandidatesRejected,
		Attempts:             r.Attempts,
		DiscardedIncomplete:  r.DiscardedIncomplete,
		DiscardedDuplicate:   r.DiscardedDuplicate,
		DurationMs:           r.FinishedAt.Sub(r.StartedAt).Milliseconds(),
		Parlays:              make([]Parlay, 0, len(r.Bundles)),
	}
	for _, b := range r.Bundles {
		p := Parlay{
			ID:                  b.ID,
			AvgConviction:       b.AvgScore,
			ConfirmedLegs:       b.ConfirmedLegs,
			CombinedProbability: b.CombinedProbability,
			Rationale:           b.Rationale,
		}
		for _, l := range b.Legs {
			p.Legs = append(p.Legs, Leg{
				Player:     l.Player,
				Stat:       l.Stat,
				Side:       l.Side,
				Line:       l.Line,
				EdgePct:    l.EdgePct,
				Tier:       string(l.Tier),
				Team:       l.Team,
				Confirmed:  l.Confirmed,
				Conviction: l.Score,
			})
		}
		out.Parlays = append(out.Parlays, p)
	}
	return out
}

// ErrorResponse é o corpo padrão de erro
type ErrorResponse struct {
	Error string `json:"error"`
}
