package engine

import (
	"math"
	"testing"

	"github.com/radieske/sports-parlay-engine/internal/parlay-builder/model"
)

func TestExposure_CommitAndReset(t *testing.T) {
	e := NewExposure()
	a := pick("A", "points", "", 0)
	k := a.Key()

	if e.GlobalCapped(k, 1) || e.ReuseCapped(k, 1) {
		t.Fatal("fresh tracker reports a capped pair")
	}

	e.Commit([]*model.CandidatePick{a})
	e.Commit([]*model.CandidatePick{a})

	if !e.ReuseCapped(k, 2) {
		t.Error("ReuseCapped(k, 2) = false after two commits")
	}
	if e.GlobalCapped(k, 3) {
		t.Error("GlobalCapped(k, 3) = true after two commits")
	}

	e.ResetRun()
	if e.ReuseCapped(k, 1) {
		t.Error("ResetRun did not clear run counts")
	}
	if e.Count(k) != 2 || !e.GlobalCapped(k, 2) {
		t.Errorf("global count = %d after ResetRun, want 2", e.Count(k))
	}
}

func TestSignature_OrderIndependent(t *testing.T) {
	a, b, c := pick("A", "points", "", 0), pick("B", "rebounds", "", 0), pick("C", "assists", "", 0)

	s1 := Signature([]*model.CandidatePick{a, b, c})
	s2 := Signature([]*model.CandidatePick{c, a, b})
	if s1 != s2 {
		t.Errorf("Signature depends on leg order: %s vs %s", s1, s2)
	}

	other := Signature([]*model.CandidatePick{a, b, pick("C", "threes", "", 0)})
	if s1 == other {
		t.Error("different pair sets share a signature")
	}

	d := NewDeduplicator()
	if d.Seen(s1) {
		t.Error("Seen() = true before Add")
	}
	d.Add(s1)
	if !d.Seen(s2) {
		t.Error("Seen() = false for a reordered bundle")
	}
}

func TestLegProbability(t *testing.T) {
	tests := []struct {
		edge float64
		want float64
	}{
		{0, 0.55},
		{25, 0.60},
		{-25, 0.60},
		{150, 0.85},
		{1000, 0.85},
	}
	for _, tt := range tests {
		if got := LegProbability(tt.edge); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("LegProbability(%v) = %v, want %v", tt.edge, got, tt.want)
		}
	}
	if CombinedProbability(nil) != 0 {
		t.Error("CombinedProbability(nil) != 0")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"zero caps", func(c *Config) { c.ExposureCap, c.ReuseCap = 0, 0 }, false},
		{"zero legs", func(c *Config) { c.LegsPerBundle = 0 }, true},
		{"negative legs", func(c *Config) { c.LegsPerBundle = -3 }, true},
		{"zero target", func(c *Config) { c.TargetBundles = 0 }, true},
		{"zero attempt factor", func(c *Config) { c.AttemptFactor = 0 }, true},
		{"negative exposure cap", func(c *Config) { c.ExposureCap = -1 }, true},
		{"negative reuse cap", func(c *Config) { c.ReuseCap = -1 }, true},
		{"negative perturb window", func(c *Config) { c.PerturbWindow = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuild_ZeroLegsDoesNotCommit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LegsPerBundle = 0

	b, _ := newTestBuilder(cfg, &fixedRand{})
	res := b.Build([]*model.CandidatePick{pick("A", "points", "", 10)})
	if len(res.Bundles) != 0 || res.Status != model.StatusNoFeasible {
		t.Errorf("Build() = %s with %d bundles, want no bundles", res.Status, len(res.Bundles))
	}
}
