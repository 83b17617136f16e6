package repo

import (
	"testing"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

func TestLookupKey(t *testing.T) {
	got := LookupKey("  Nikola Jokić", "player_points_rebounds_assists")
	want := model.PairKey{Player: "nikola jokic", Stat: "pra"}
	if got != want {
		t.Errorf("LookupKey() = %+v, want %+v", got, want)
	}
}

func TestAddConfirmation_KeepsHighestConfidence(t *testing.T) {
	m := map[model.PairKey]model.Confirmation{}

	AddConfirmation(m, "LeBron James", "player_points", model.Confirmation{Side: "over", Confidence: 0.6})
	AddConfirmation(m, "lebron james", "points", model.Confirmation{Side: "under", Confidence: 0.4})
	AddConfirmation(m, "LeBron  James", "Points", model.Confirmation{Side: "under", Confidence: 0.9})

	if len(m) != 1 {
		t.Fatalf("len = %d, want 1 (keys must collapse)", len(m))
	}
	got := m[model.PairKey{Player: "lebron james", Stat: "points"}]
	if got.Side != "under" || got.Confidence != 0.9 {
		t.Errorf("confirmation = %+v, want under@0.9", got)
	}
}

func TestNumeric(t *testing.T) {
	tests := []struct {
		v      float64
		places int32
		want   string
	}{
		{0.123456789, 6, "0.123457"},
		{72.35, 1, "72.4"},
		{-3.14159, 3, "-3.142"},
		{25.5, 2, "25.5"},
	}
	for _, tt := range tests {
		if got := numeric(tt.v, tt.places).String(); got != tt.want {
			t.Errorf("numeric(%v, %d) = %s, want %s", tt.v, tt.places, got, tt.want)
		}
	}
}
