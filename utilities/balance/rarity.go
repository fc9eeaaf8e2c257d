// Package balance provides Monte Carlo simulation tools for draft balance
// testing.
package balance

import (
	"math"
	"math/rand"

	"github.com/lawnchairsociety/draftforge/internal/rarity"
)

// RarityResult compares sampled rarity rolls with the roller's effective
// distribution for one level and source.
type RarityResult struct {
	Level    int
	Source   rarity.Source
	Samples  int
	Counts   map[rarity.Rarity]int
	Observed rarity.Odds
	Expected rarity.Odds
	// MaxDeviation is the largest absolute gap between observed and
	// expected probability across tiers.
	MaxDeviation float64
}

// SampleRarity rolls samples rarities and measures them against Distribution.
func SampleRarity(rng *rand.Rand, bonuses rarity.Bonuses, level int, source rarity.Source, samples int) RarityResult {
	roller := rarity.NewRoller(rng, bonuses)
	result := RarityResult{
		Level:    level,
		Source:   source,
		Samples:  samples,
		Counts:   make(map[rarity.Rarity]int),
		Expected: roller.Distribution(level, source),
	}
	if samples <= 0 {
		return result
	}

	for i := 0; i < samples; i++ {
		result.Counts[roller.Roll(level, source)]++
	}

	n := float64(samples)
	result.Observed = rarity.Odds{
		Common:    float64(result.Counts[rarity.Common]) / n,
		Rare:      float64(result.Counts[rarity.Rare]) / n,
		Epic:      float64(result.Counts[rarity.Epic]) / n,
		Legendary: float64(result.Counts[rarity.Legendary]) / n,
	}
	for _, r := range rarity.All() {
		result.MaxDeviation = math.Max(result.MaxDeviation, math.Abs(result.Observed.Of(r)-result.Expected.Of(r)))
	}
	return result
}

// RaritySweep samples every source at each level.
func RaritySweep(seed int64, bonuses rarity.Bonuses, levels []int, samples int) []RarityResult {
	rng := rand.New(rand.NewSource(seed))
	sources := []rarity.Source{rarity.SourceLevelUp, rarity.SourceChest, rarity.SourceElite}

	results := make([]RarityResult, 0, len(levels)*len(sources))
	for _, level := range levels {
		for _, source := range sources {
			results = append(results, SampleRarity(rng, bonuses, level, source, samples))
		}
	}
	return results
}
