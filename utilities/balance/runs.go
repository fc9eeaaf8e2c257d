package balance

import (
	"math/rand"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/config"
	"github.com/lawnchairsociety/draftforge/internal/draft"
	"github.com/lawnchairsociety/draftforge/internal/modifier"
	"github.com/lawnchairsociety/draftforge/internal/progression"
	"github.com/lawnchairsociety/draftforge/internal/rarity"
	"github.com/lawnchairsociety/draftforge/internal/session"
)

// RunConfig describes a batch of simulated runs with uniformly random picks.
type RunConfig struct {
	Runs        int
	TargetLevel int
	OfferSize   int
	Seed        int64
	Engine      config.EngineConfig

	// JobLevels are the levels that offer a job milestone.
	JobLevels []int
	// DoubleDownLevel and MasteryLevel trigger the passive tier advances.
	// 0 disables.
	DoubleDownLevel int
	MasteryLevel    int
}

// DefaultRunConfig returns a 200-run batch to level 30 with the default
// engine tuning.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Runs:            200,
		TargetLevel:     30,
		OfferSize:       3,
		Seed:            1,
		Engine:          config.DefaultConfig().Engine,
		JobLevels:       []int{1, 10, 20},
		DoubleDownLevel: 15,
		MasteryLevel:    25,
	}
}

// RunResult aggregates a batch of simulated runs.
type RunResult struct {
	Runs          int
	Picks         int
	NoEffectPicks int

	CategoryPicks map[draft.Category]int
	RarityPicks   map[rarity.Rarity]int
	Synergies     map[string]int

	// Awakenings counts runs that ended with a locked roster.
	Awakenings int
	// WeaponCapRuns counts runs that ended with a weapon at the level cap.
	WeaponCapRuns int
	// MeanWeapons is the mean number of owned weapons at the end of a run.
	MeanWeapons float64
	// MeanModifiers is the mean final value of every channel.
	MeanModifiers map[modifier.Channel]float64
}

// sourceFor spaces chests every 5 levels and elites every 10.
func sourceFor(level int) rarity.Source {
	switch {
	case level%10 == 0:
		return rarity.SourceElite
	case level%5 == 0:
		return rarity.SourceChest
	default:
		return rarity.SourceLevelUp
	}
}

// SimulateRuns plays cfg.Runs sessions. Run i uses seed cfg.Seed+i for both
// the session and the picks, so a batch is reproducible.
func SimulateRuns(registry *catalog.Registry, cfg RunConfig) RunResult {
	result := RunResult{
		Runs:          cfg.Runs,
		CategoryPicks: make(map[draft.Category]int),
		RarityPicks:   make(map[rarity.Rarity]int),
		Synergies:     make(map[string]int),
		MeanModifiers: make(map[modifier.Channel]float64),
	}
	if cfg.Runs <= 0 {
		return result
	}

	jobLevels := make(map[int]bool, len(cfg.JobLevels))
	for _, l := range cfg.JobLevels {
		jobLevels[l] = true
	}

	totalWeapons := 0
	for i := 0; i < cfg.Runs; i++ {
		seed := cfg.Seed + int64(i)
		snap := simulateRun(registry, cfg, jobLevels, seed, &result)

		if snap.Awakened {
			result.Awakenings++
		}
		for _, id := range snap.ActiveSynergies {
			result.Synergies[id]++
		}
		totalWeapons += len(snap.Weapons)
		for _, w := range snap.Weapons {
			if w.IsMaxLevel() {
				result.WeaponCapRuns++
				break
			}
		}
		for c, v := range snap.Modifiers {
			result.MeanModifiers[c] += v
		}
	}

	n := float64(cfg.Runs)
	result.MeanWeapons = float64(totalWeapons) / n
	for c := range result.MeanModifiers {
		result.MeanModifiers[c] /= n
	}
	return result
}

func simulateRun(registry *catalog.Registry, cfg RunConfig, jobLevels map[int]bool, seed int64, result *RunResult) progression.Snapshot {
	sess := session.New(registry, nil, cfg.Engine, seed)
	defer sess.Close()
	picker := rand.New(rand.NewSource(seed))

	pick := func(cards []draft.Card) {
		if len(cards) == 0 {
			return
		}
		card := cards[picker.Intn(len(cards))]
		result.Picks++
		result.CategoryPicks[card.Category]++
		result.RarityPicks[card.Rarity]++
		if !sess.Apply(card) {
			result.NoEffectPicks++
		}
	}

	for level := 1; level <= cfg.TargetLevel; level++ {
		sess.SetLevel(level)
		if jobLevels[level] {
			pick(sess.GenerateJobSelectionCards())
		}
		switch level {
		case cfg.DoubleDownLevel:
			sess.DoubleDown()
		case cfg.MasteryLevel:
			sess.Mastery()
		}
		if level > 1 {
			pick(sess.GenerateCards(cfg.OfferSize, sourceFor(level)))
		}
	}
	return sess.Snapshot()
}
