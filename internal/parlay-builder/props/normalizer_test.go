package props

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"player_points_rebounds_assists", PRA},
		{"player_points_rebounds", PR},
		{"player_points_assists", PA},
		{"player_rebounds_assists", RA},
		{"player_threes", Threes},
		{"player_three_pointers_made", Threes},
		{"3PT Made", Threes},
		{"  PLAYER_Points  ", "points"},
		{"player_rebounds", "rebounds"},
		{"batter_hits", "hits"},
		{"pitcher_strikeouts", "strikeouts"},
		{"Pts+Rebs+Asts", PRA},
		{"pts + ast", PA},
		{"player_steals", "steals"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Normalize(tt.raw); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, code := range []string{PRA, PR, PA, RA, Threes, "points", "rebounds", "assists", "hits", "strikeouts"} {
		if got := Normalize(code); got != code {
			t.Errorf("Normalize(%q) = %q, want unchanged", code, got)
		}
		if got := Normalize(Normalize("player_" + code)); got != Normalize("player_"+code) {
			t.Errorf("Normalize not idempotent for %q", code)
		}
	}
}

func TestBaseStats(t *testing.T) {
	tests := []struct {
		code string
		want []string
	}{
		{PRA, []string{"points", "rebounds", "assists"}},
		{PR, []string{"points", "rebounds"}},
		{PA, []string{"points", "assists"}},
		{RA, []string{"rebounds", "assists"}},
		{"points", []string{"points"}},
		{Threes, []string{Threes}},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := BaseStats(tt.code); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BaseStats(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestBaseStats_ReturnsCopy(t *testing.T) {
	got := BaseStats(PRA)
	got[0] = "mutated"
	if BaseStats(PRA)[0] != "points" {
		t.Error("BaseStats leaked the internal table")
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{PRA, "points", true},
		{PR, RA, true},
		{PA, "rebounds", false},
		{Threes, "points", false},
		{"points", "points", true},
	}
	for _, tt := range tests {
		if got := Overlaps(tt.a, tt.b); got != tt.want {
			t.Errorf("Overlaps(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNormalizePlayer(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LeBron James", "lebron james"},
		{"  Nikola   Jokić ", "nikola jokic"},
		{"D'Angelo Russell", "dangelo russell"},
		{"Jaren Jackson Jr.", "jaren jackson jr"},
		{"Luka Dončić", "luka doncic"},
	}
	for _, tt := range tests {
		if got := NormalizePlayer(tt.in); got != tt.want {
			t.Errorf("NormalizePlayer(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
