package events

import "time"

// Evento publicado no tópico "parlay_built" a cada parlay confirmado numa execução
type ParlayLeg struct {
	Player    string  `json:"player"`
	Stat      string  `json:"stat"`
	Side      string  `json:"side"`
	Line      float64 `json:"line"`
	EdgePct   float64 `json:"edge_pct"`
	Tier      string  `json:"tier"`
	Confirmed bool    `json:"confirmed"`
	Average   float64 `json:"average"`
	Sport     string  `json:"sport"`
}

type ParlayBuilt struct {
	ParlayID            string      `json:"parlay_id"`
	RunID               string      `json:"run_id"`
	Sport               string      `json:"sport"`
	Legs                []ParlayLeg `json:"legs"`
	LegCount            int         `json:"leg_count"`
	AvgConviction       float64     `json:"avg_conviction"`
	ConfirmedLegs       int         `json:"confirmed_legs"`
	CombinedProbability float64     `json:"combined_probability"`
	Rationale           string      `json:"rationale"`
	Signature           string      `json:"signature"`
	CreatedAt           time.Time   `json:"created_at"`
}
