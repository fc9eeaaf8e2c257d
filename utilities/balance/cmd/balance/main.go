// balance is a Monte Carlo simulator for draft balance in draftforge.
//
// Usage:
//
//	balance [command] [options]
//
// Commands:
//
//	rarity  - Sample the rarity roller and compare against its distribution
//	runs    - Simulate random-pick runs and report what players end up with
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/config"
	"github.com/lawnchairsociety/draftforge/internal/modifier"
	"github.com/lawnchairsociety/draftforge/internal/rarity"
	"github.com/lawnchairsociety/draftforge/utilities/balance"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "rarity":
		runRaritySim()
	case "runs":
		runRunSim()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`draftforge Balance Simulator

A Monte Carlo simulator for testing card draft balance.

Usage: balance <command> [options]

Commands:
  rarity    Sample the rarity roller per level and source
  runs      Simulate random-pick runs to a target level

Examples:
  balance rarity -levels=1,5,10,20,30 -samples=100000
  balance runs -runs=1000 -target=40 -config=data/server.yaml

Use "balance <command> -h" for more information about a command.`)
}

func runRaritySim() {
	fs := flag.NewFlagSet("rarity", flag.ExitOnError)
	levels := fs.String("levels", "1,5,10,20,30", "Comma-separated player levels")
	samples := fs.Int("samples", 100000, "Rolls per level and source")
	seed := fs.Int64("seed", 0, "Random seed (default: current time)")
	configFile := fs.String("config", "", "Server config YAML for the source bonuses")
	fs.Parse(os.Args[2:])

	cfg := loadConfig(*configFile)
	bonuses := rarity.Bonuses{Chest: cfg.Engine.Rarity.ChestBonus, Elite: cfg.Engine.Rarity.EliteBonus}

	levelList, err := parseLevels(*levels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("=== Rarity Sampling ===")
	fmt.Printf("Samples: %d   Chest bonus: %.2f   Elite bonus: %.2f\n\n", *samples, bonuses.Chest, bonuses.Elite)
	fmt.Printf("%-6s %-8s %18s %18s %18s %18s %8s\n", "Level", "Source", "Common", "Rare", "Epic", "Legendary", "MaxDev")
	fmt.Println(strings.Repeat("-", 102))

	for _, r := range balance.RaritySweep(seedOrNow(*seed), bonuses, levelList, *samples) {
		fmt.Printf("%-6d %-8s", r.Level, r.Source)
		for _, tier := range rarity.All() {
			fmt.Printf(" %8.4f / %-7.4f", r.Observed.Of(tier), r.Expected.Of(tier))
		}
		fmt.Printf(" %8.4f\n", r.MaxDeviation)
	}
	fmt.Println()
	fmt.Println("Each cell is observed / expected.")
}

func runRunSim() {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	runs := fs.Int("runs", 200, "Number of runs to simulate")
	target := fs.Int("target", 30, "Level every run plays to")
	offer := fs.Int("offer", 3, "Cards per offer")
	seed := fs.Int64("seed", 0, "Base seed (default: current time)")
	configFile := fs.String("config", "", "Server config YAML for the engine tuning")
	catalogFile := fs.String("catalog", "", "Catalog YAML (default: embedded content)")
	fs.Parse(os.Args[2:])

	registry, err := loadCatalog(*catalogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runCfg := balance.DefaultRunConfig()
	runCfg.Runs = *runs
	runCfg.TargetLevel = *target
	runCfg.OfferSize = *offer
	runCfg.Seed = seedOrNow(*seed)
	runCfg.Engine = loadConfig(*configFile).Engine

	fmt.Println("=== Run Simulation ===")
	fmt.Printf("Runs: %d   Target level: %d   Offer size: %d   Seed: %d\n\n", runCfg.Runs, runCfg.TargetLevel, runCfg.OfferSize, runCfg.Seed)

	start := time.Now()
	res := balance.SimulateRuns(registry, runCfg)
	elapsed := time.Since(start)

	printRunResult(res)
	fmt.Printf("\nSimulated in %v\n", elapsed.Round(time.Millisecond))
}

func printRunResult(res balance.RunResult) {
	fmt.Printf("Picks: %d (%.1f per run), no effect: %d\n", res.Picks, float64(res.Picks)/float64(max(res.Runs, 1)), res.NoEffectPicks)
	fmt.Printf("Awakened runs: %d (%.1f%%)\n", res.Awakenings, pct(res.Awakenings, res.Runs))
	fmt.Printf("Runs with a capped weapon: %d (%.1f%%)\n", res.WeaponCapRuns, pct(res.WeaponCapRuns, res.Runs))
	fmt.Printf("Mean weapons owned: %.2f\n\n", res.MeanWeapons)

	fmt.Println("Picks by category:")
	categories := make(map[string]int, len(res.CategoryPicks))
	for c, n := range res.CategoryPicks {
		categories[string(c)] = n
	}
	printCounts(categories, res.Picks)

	fmt.Println("\nPicks by rarity:")
	for _, r := range rarity.All() {
		fmt.Printf("  %-18s %6d  %5.1f%%\n", r, res.RarityPicks[r], pct(res.RarityPicks[r], res.Picks))
	}

	fmt.Println("\nSynergies active at the end of a run:")
	printCounts(res.Synergies, res.Runs)

	fmt.Println("\nMean final modifiers:")
	for _, c := range modifier.AllChannels() {
		v := res.MeanModifiers[c]
		if v == c.Baseline() {
			continue
		}
		fmt.Printf("  %-18s %8.3f\n", c.Label(), v)
	}
}

func printCounts(counts map[string]int, total int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		fmt.Printf("  %-18s %6d  %5.1f%%\n", k, counts[k], pct(counts[k], total))
	}
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

func parseLevels(s string) ([]int, error) {
	var levels []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		level, err := strconv.Atoi(part)
		if err != nil || level < 1 {
			return nil, fmt.Errorf("invalid level %q", part)
		}
		levels = append(levels, level)
	}
	return levels, nil
}

func seedOrNow(seed int64) int64 {
	if seed != 0 {
		return seed
	}
	return time.Now().UnixNano()
}

func loadConfig(path string) *config.ServerConfig {
	if path == "" {
		return config.DefaultConfig()
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
	}
	return cfg
}

func loadCatalog(path string) (*catalog.Registry, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFromYAML(path)
}
