package rarity

import (
	"math"
	"math/rand"
)

// Odds holds one probability per rarity tier.
type Odds struct {
	Common    float64
	Rare      float64
	Epic      float64
	Legendary float64
}

// Sum returns the total probability mass.
func (o Odds) Sum() float64 {
	return o.Common + o.Rare + o.Epic + o.Legendary
}

// Of returns the probability of a single tier.
func (o Odds) Of(r Rarity) float64 {
	switch r {
	case Rare:
		return o.Rare
	case Epic:
		return o.Epic
	case Legendary:
		return o.Legendary
	default:
		return o.Common
	}
}

// Bracket applies from MinLevel upwards until a higher bracket takes over.
type Bracket struct {
	MinLevel int
	Odds     Odds
}

// DefaultBrackets is ordered by descending MinLevel.
var DefaultBrackets = []Bracket{
	{MinLevel: 30, Odds: Odds{Common: 0.30, Rare: 0.35, Epic: 0.25, Legendary: 0.10}},
	{MinLevel: 20, Odds: Odds{Common: 0.40, Rare: 0.32, Epic: 0.20, Legendary: 0.08}},
	{MinLevel: 10, Odds: Odds{Common: 0.50, Rare: 0.30, Epic: 0.15, Legendary: 0.05}},
	{MinLevel: 5, Odds: Odds{Common: 0.60, Rare: 0.27, Epic: 0.10, Legendary: 0.03}},
	{MinLevel: 1, Odds: Odds{Common: 0.70, Rare: 0.22, Epic: 0.07, Legendary: 0.01}},
}

// Bonuses are added to rare, epic and legendary odds per offer source.
type Bonuses struct {
	Chest float64
	Elite float64
}

// DefaultBonuses keeps chest below elite.
var DefaultBonuses = Bonuses{Chest: 0.05, Elite: 0.10}

// For returns the bonus for an offer source.
func (b Bonuses) For(source Source) float64 {
	switch source {
	case SourceChest:
		return b.Chest
	case SourceElite:
		return b.Elite
	default:
		return 0
	}
}

// Roller picks rarities from a level- and source-scaled table.
type Roller struct {
	brackets []Bracket
	bonuses  Bonuses
	rng      *rand.Rand
}

// NewRoller creates a roller using the default table.
func NewRoller(rng *rand.Rand, bonuses Bonuses) *Roller {
	return &Roller{
		brackets: DefaultBrackets,
		bonuses:  bonuses,
		rng:      rng,
	}
}

// Probabilities returns the odds for a level and source after the source bonus.
// Common is the clamped remainder, so rare+epic+legendary may exceed 1.
func (r *Roller) Probabilities(level int, source Source) Odds {
	odds := r.bracketFor(level).Odds
	if bonus := r.bonuses.For(source); bonus > 0 {
		odds.Rare += bonus
		odds.Epic += bonus
		odds.Legendary += bonus
		odds.Common = math.Max(0, 1-odds.Rare-odds.Epic-odds.Legendary)
	}
	return odds
}

// Distribution returns the effective odds implied by checking the cumulative
// thresholds from legendary down. It always sums to 1.
func (r *Roller) Distribution(level int, source Source) Odds {
	odds := r.Probabilities(level, source)
	remaining := 1.0
	take := func(p float64) float64 {
		p = math.Max(0, math.Min(p, remaining))
		remaining -= p
		return p
	}

	var d Odds
	d.Legendary = take(odds.Legendary)
	d.Epic = take(odds.Epic)
	d.Rare = take(odds.Rare)
	d.Common = remaining
	return d
}

// Roll draws one rarity. Legendary is checked first so it is never starved
// when bonuses push the odds near or above 1.
func (r *Roller) Roll(level int, source Source) Rarity {
	odds := r.Probabilities(level, source)
	roll := r.rng.Float64()

	threshold := odds.Legendary
	if roll < threshold {
		return Legendary
	}
	threshold += odds.Epic
	if roll < threshold {
		return Epic
	}
	threshold += odds.Rare
	if roll < threshold {
		return Rare
	}
	return Common
}

// bracketFor returns the bracket with the highest MinLevel not above level.
func (r *Roller) bracketFor(level int) Bracket {
	for _, b := range r.brackets {
		if level >= b.MinLevel {
			return b
		}
	}
	return r.brackets[len(r.brackets)-1]
}
