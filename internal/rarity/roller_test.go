package rarity

import (
	"math"
	"math/rand"
	"testing"
)

func TestDistributionSumsToOne(t *testing.T) {
	roller := NewRoller(rand.New(rand.NewSource(1)), DefaultBonuses)

	for level := 1; level <= 40; level++ {
		for _, source := range []Source{SourceLevelUp, SourceChest, SourceElite} {
			d := roller.Distribution(level, source)
			if math.Abs(d.Sum()-1) > 1e-9 {
				t.Errorf("Distribution(%d, %s) sums to %v, want 1", level, source, d.Sum())
			}
			p := roller.Probabilities(level, source)
			if p.Common < 0 {
				t.Errorf("Probabilities(%d, %s).Common = %v, want >= 0", level, source, p.Common)
			}
		}
	}
}

func TestBracketSelection(t *testing.T) {
	roller := NewRoller(rand.New(rand.NewSource(1)), DefaultBonuses)

	tests := []struct {
		level     int
		legendary float64
	}{
		{1, 0.01},
		{4, 0.01},
		{5, 0.03},
		{9, 0.03},
		{10, 0.05},
		{25, 0.08},
		{30, 0.10},
		{99, 0.10},
		{0, 0.01},
	}

	for _, tt := range tests {
		got := roller.Probabilities(tt.level, SourceLevelUp).Legendary
		if math.Abs(got-tt.legendary) > 1e-9 {
			t.Errorf("level %d legendary = %v, want %v", tt.level, got, tt.legendary)
		}
	}
}

func TestSourceBonusClampsCommon(t *testing.T) {
	roller := NewRoller(rand.New(rand.NewSource(1)), Bonuses{Chest: 0.05, Elite: 0.15})

	p := roller.Probabilities(30, SourceElite)
	if p.Common != 0 {
		t.Errorf("Common = %v, want 0 when bonuses exceed the remainder", p.Common)
	}
	if p.Rare+p.Epic+p.Legendary <= 1 {
		t.Errorf("expected rare+epic+legendary > 1, got %v", p.Rare+p.Epic+p.Legendary)
	}

	d := roller.Distribution(30, SourceElite)
	if math.Abs(d.Legendary-0.25) > 1e-9 {
		t.Errorf("effective legendary = %v, want 0.25", d.Legendary)
	}
	if d.Common != 0 {
		t.Errorf("effective common = %v, want 0", d.Common)
	}
}

func TestChestBonusLowerThanElite(t *testing.T) {
	roller := NewRoller(rand.New(rand.NewSource(1)), DefaultBonuses)

	chest := roller.Probabilities(10, SourceChest)
	elite := roller.Probabilities(10, SourceElite)
	if chest.Legendary >= elite.Legendary {
		t.Errorf("chest legendary %v should be below elite %v", chest.Legendary, elite.Legendary)
	}
}

func TestRollMatchesDistribution(t *testing.T) {
	const samples = 200000
	roller := NewRoller(rand.New(rand.NewSource(42)), DefaultBonuses)

	for _, tc := range []struct {
		level  int
		source Source
	}{
		{1, SourceLevelUp},
		{12, SourceChest},
		{35, SourceElite},
	} {
		counts := make(map[Rarity]int)
		for i := 0; i < samples; i++ {
			counts[roller.Roll(tc.level, tc.source)]++
		}

		want := roller.Distribution(tc.level, tc.source)
		for _, r := range All() {
			got := float64(counts[r]) / samples
			if math.Abs(got-want.Of(r)) > 0.01 {
				t.Errorf("level %d %s: %s frequency %v, want %v ±0.01",
					tc.level, tc.source, r, got, want.Of(r))
			}
		}
	}
}

func TestMultipliers(t *testing.T) {
	want := map[Rarity]float64{Common: 1.0, Rare: 1.5, Epic: 2.0, Legendary: 3.0}
	for r, m := range want {
		if got := r.Multiplier(); got != m {
			t.Errorf("%s.Multiplier() = %v, want %v", r, got, m)
		}
	}
}

func TestParse(t *testing.T) {
	for _, r := range All() {
		text, _ := r.MarshalText()
		var parsed Rarity
		if err := parsed.UnmarshalText(text); err != nil || parsed != r {
			t.Errorf("round trip of %s gave %s (err %v)", r, parsed, err)
		}
	}
	if _, err := Parse("mythic"); err == nil {
		t.Error("Parse(mythic) should fail")
	}
	if _, err := ParseSource("boss"); err == nil {
		t.Error("ParseSource(boss) should fail")
	}
}
