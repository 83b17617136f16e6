package conviction

import (
	"math"
	"testing"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

func edge(v float64) *float64 { return &v }

func key(player, stat string) model.PairKey { return model.PairKey{Player: player, Stat: stat} }

func TestScore_ScenarioC(t *testing.T) {
	s := NewScorer(model.Lookups{
		Confirmations: map[model.PairKey]model.Confirmation{
			key("jayson tatum", "points"): {Side: "over", Confidence: 0.8},
		},
		History: map[model.PairKey]model.History{
			key("jayson tatum", "points"): {Legs: 10, Won: 7, HitRate: 0.75},
		},
	})

	c := &model.CandidatePick{Player: "Jayson Tatum", Stat: "points", Side: "over", EdgePct: 60, Tier: model.TierElite}
	got := s.Score(c)

	want := Breakdown{Edge: 18, Tier: 20, Confirmation: 25, Side: 0, History: 15, Total: 78}
	if math.Abs(got.Total-want.Total) > 1e-9 {
		t.Fatalf("Score().Total = %v, want %v (breakdown %+v)", got.Total, want.Total, got)
	}
	if got.Confirmation != want.Confirmation || got.History != want.History || got.Tier != want.Tier {
		t.Errorf("Score() = %+v, want %+v", got, want)
	}
	if !s.Confirmed(c) {
		t.Error("Confirmed() = false, want true")
	}
}

func TestScore_Components(t *testing.T) {
	lk := model.Lookups{
		Confirmations: map[model.PairKey]model.Confirmation{
			key("a", "points"): {Side: "under"},
			key("b", "points"): {Side: ""},
			key("c", "points"): {Side: "under"},
		},
		History: map[model.PairKey]model.History{
			key("hot", "points"):   {Legs: 5, HitRate: 0.70},
			key("warm", "points"):  {Legs: 8, HitRate: 0.55},
			key("flat", "points"):  {Legs: 8, HitRate: 0.40},
			key("cold", "points"):  {Legs: 6, HitRate: 0.10},
			key("short", "points"): {Legs: 4, HitRate: 0.10},
		},
	}
	s := NewScorer(lk)

	tests := []struct {
		name string
		pick model.CandidatePick
		want float64
	}{
		{"high tier over", model.CandidatePick{Player: "x", Stat: "points", Side: "over", EdgePct: 10, Tier: model.TierHigh}, 13},
		{"under bonus", model.CandidatePick{Player: "x", Stat: "points", Side: "under", EdgePct: 10, Tier: model.TierHigh}, 23},
		{"directional under label", model.CandidatePick{Player: "x", Stat: "points", Side: "strong_under", EdgePct: 0, Tier: model.TierHigh}, 20},
		{"opposite side confirmation", model.CandidatePick{Player: "a", Stat: "points", Side: "over", EdgePct: 0, Tier: model.TierElite}, 25},
		{"directional label confirmed", model.CandidatePick{Player: "c", Stat: "points", Side: "under_signal", EdgePct: 0, Tier: model.TierHigh}, 45},
		{"directional label opposite", model.CandidatePick{Player: "c", Stat: "points", Side: "OVER_SIGNAL", EdgePct: 0, Tier: model.TierHigh}, 15},
		{"empty confirmation side", model.CandidatePick{Player: "b", Stat: "points", Side: "over", EdgePct: 0, Tier: model.TierElite}, 20},
		{"hot history", model.CandidatePick{Player: "hot", Stat: "points", Side: "over", Tier: model.TierElite}, 35},
		{"warm history", model.CandidatePick{Player: "warm", Stat: "points", Side: "over", Tier: model.TierElite}, 25},
		{"flat history", model.CandidatePick{Player: "flat", Stat: "points", Side: "over", Tier: model.TierElite}, 20},
		{"cold history", model.CandidatePick{Player: "cold", Stat: "points", Side: "over", Tier: model.TierElite}, 0},
		{"too few legs", model.CandidatePick{Player: "short", Stat: "points", Side: "over", Tier: model.TierElite}, 20},
		{"capped at 100", model.CandidatePick{Player: "x", Stat: "points", Side: "under", EdgePct: 400, Tier: model.TierElite}, 100},
		{"no floor", model.CandidatePick{Player: "cold", Stat: "points", Side: "over", EdgePct: -200, Tier: model.TierHigh}, -70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pick := tt.pick
			if got := s.Score(&pick).Total; math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Score() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRank_StableAndDeterministic(t *testing.T) {
	opps := []model.Opportunity{
		{Player: "A", Market: "player_points", Side: "over", Edge: edge(10), Tier: "ELITE"},
		{Player: "B", Market: "player_rebounds", Side: "over", Edge: edge(30), Tier: "ELITE"},
		{Player: "C", Market: "player_assists", Side: "over", Edge: edge(10), Tier: "ELITE"},
		{Player: "D", Market: "player_threes", Side: "over", Edge: edge(10), Tier: "elite"},
	}

	s := NewScorer(model.Lookups{})
	first, rejected := s.Rank(opps)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %+v", rejected)
	}

	wantOrder := []string{"B", "A", "C", "D"}
	for i, c := range first {
		if c.Player != wantOrder[i] {
			t.Fatalf("Rank()[%d] = %s, want %s", i, c.Player, wantOrder[i])
		}
	}

	for run := 0; run < 5; run++ {
		again, _ := s.Rank(opps)
		for i := range again {
			if again[i].Player != first[i].Player || again[i].Score != first[i].Score {
				t.Fatalf("run %d: Rank() not deterministic at %d", run, i)
			}
		}
	}
}

func TestRank_NormalizesAndConfirms(t *testing.T) {
	s := NewScorer(model.Lookups{
		Confirmations: map[model.PairKey]model.Confirmation{
			key("nikola jokic", "pra"): {Side: "OVER"},
		},
	})

	ranked, _ := s.Rank([]model.Opportunity{
		{Player: "Nikola Jokić", Market: "player_points_rebounds_assists", Side: "Over", Edge: edge(5), Tier: "HIGH", Team: "den", Sport: "NBA"},
	})
	if len(ranked) != 1 {
		t.Fatalf("len(Rank()) = %d, want 1", len(ranked))
	}
	c := ranked[0]
	if c.Stat != "pra" || c.Team != "DEN" || c.Sport != "nba" || c.Side != "over" {
		t.Errorf("unexpected normalization: %+v", c)
	}
	if !c.Confirmed {
		t.Error("Confirmed = false, want true")
	}
	if math.Abs(c.Score-36.5) > 1e-9 {
		t.Errorf("Score = %v, want 36.5", c.Score)
	}
}

func TestRank_RejectsMalformed(t *testing.T) {
	opps := []model.Opportunity{
		{Player: "", Market: "player_points", Edge: edge(10), Tier: "ELITE"},
		{Player: "A", Market: "player_points", Edge: nil, Tier: "ELITE"},
		{Player: "B", Market: "player_points", Edge: edge(math.NaN()), Tier: "ELITE"},
		{Player: "C", Market: "player_points", Edge: edge(math.Inf(1)), Tier: "ELITE"},
		{Player: "D", Market: "player_points", Edge: edge(10), Tier: "MEDIUM"},
		{Player: "E", Market: " ", Edge: edge(10), Tier: "HIGH"},
		{Player: "F", Market: "player_points", Edge: edge(10), Tier: "HIGH"},
	}

	ranked, rejected := NewScorer(model.Lookups{}).Rank(opps)
	if len(ranked) != 1 || ranked[0].Player != "F" {
		t.Fatalf("Rank() kept %d candidates, want only F", len(ranked))
	}
	if len(rejected) != 6 {
		t.Errorf("len(rejected) = %d, want 6", len(rejected))
	}
}

func TestConfirmed_DirectionalLabels(t *testing.T) {
	s := NewScorer(model.Lookups{
		Confirmations: map[model.PairKey]model.Confirmation{
			key("c", "points"): {Side: "UNDER"},
		},
	})

	tests := []struct {
		side string
		want bool
	}{
		{"under", true},
		{"under_signal", true},
		{"strong_under", true},
		{"over", false},
		{"over_signal", false},
	}
	for _, tt := range tests {
		t.Run(tt.side, func(t *testing.T) {
			c := &model.CandidatePick{Player: "c", Stat: "points", Side: tt.side}
			if got := s.Confirmed(c); got != tt.want {
				t.Errorf("Confirmed(%s) = %v, want %v", tt.side, got, tt.want)
			}
		})
	}
}

func TestRank_SamePlayerSpellingsShareKey(t *testing.T) {
	ranked, _ := NewScorer(model.Lookups{}).Rank([]model.Opportunity{
		{Player: "Nikola Jokić", Market: "player_points", Side: "over", Edge: edge(20), Tier: "ELITE"},
		{Player: "nikola  jokic", Market: "player_rebounds", Side: "over", Edge: edge(10), Tier: "ELITE"},
	})
	if len(ranked) != 2 {
		t.Fatalf("len(Rank()) = %d, want 2", len(ranked))
	}
	if ranked[0].Key().Player != "nikola jokic" || ranked[1].Key().Player != "nikola jokic" {
		t.Errorf("keys = %+v, %+v; want both nikola jokic", ranked[0].Key(), ranked[1].Key())
	}
	if ranked[0].Player != "Nikola Jokić" {
		t.Errorf("display name = %q, want Nikola Jokić", ranked[0].Player)
	}
}
