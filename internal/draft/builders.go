package draft

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/modifier"
	"github.com/lawnchairsociety/draftforge/internal/progression"
	"github.com/lawnchairsociety/draftforge/internal/rarity"
)

// builder synthesizes one card of its category, or reports that the state
// offers no usable target.
type builder func(state progression.Reader, r rarity.Rarity) (Card, bool)

func (g *Generator) builderFor(c Category) builder {
	switch c {
	case CategoryJobSkill:
		return g.buildJobSkill
	case CategoryMasterySkill:
		return g.buildMasterySkill
	case CategoryNewWeapon:
		return g.buildNewWeapon
	case CategoryWeaponUpgrade:
		return g.buildWeaponUpgrade
	case CategoryNewEnchant:
		return g.buildNewEnchant
	case CategoryEnchantUpgrade:
		return g.buildEnchantUpgrade
	case CategoryApplyElement:
		return g.buildApplyElement
	case CategoryElementUpgrade:
		return g.buildElementUpgrade
	case CategoryMalus:
		return g.buildMalus
	case CategorySynergySkill:
		return g.buildSynergySkill
	default:
		return g.buildStatBoost
	}
}

func (g *Generator) buildJobSkill(state progression.Reader, r rarity.Rarity) (Card, bool) {
	targets := g.resolver.jobSkillTargets(state)
	if len(targets) == 0 {
		return Card{}, false
	}
	return skillCard(CategoryJobSkill, pick(g.rng, targets), state, r), true
}

func (g *Generator) buildMasterySkill(state progression.Reader, r rarity.Rarity) (Card, bool) {
	targets := g.resolver.masterySkillTargets(state)
	if len(targets) == 0 {
		return Card{}, false
	}
	return skillCard(CategoryMasterySkill, pick(g.rng, targets), state, r), true
}

func skillCard(c Category, skill *catalog.Skill, state progression.Reader, r rarity.Rarity) Card {
	level := state.SkillLevel(skill.ID) + 1
	return Card{
		Category:    c,
		Title:       fmt.Sprintf("%s Lv.%d", skill.Name, level),
		Description: describe(skill.Description, skill.EffectsAt(level), 1),
		Rarity:      r,
		Job:         skill.Job,
		Skill:       skill.ID,
		Level:       level,
	}
}

func (g *Generator) buildNewWeapon(state progression.Reader, r rarity.Rarity) (Card, bool) {
	targets := g.resolver.unownedWeapons(state)
	if len(targets) == 0 {
		return Card{}, false
	}
	w := pick(g.rng, targets)
	level := startLevel(r)
	return Card{
		Category:    CategoryNewWeapon,
		Title:       "New Weapon: " + w.Name,
		Description: strings.TrimSpace(fmt.Sprintf("%s Starts at Lv.%d.", w.Description, level)),
		Rarity:      r,
		Weapon:      w.ID,
		Level:       level,
	}, true
}

func (g *Generator) buildWeaponUpgrade(state progression.Reader, r rarity.Rarity) (Card, bool) {
	targets := upgradableWeapons(state)
	if len(targets) == 0 {
		return Card{}, false
	}
	return g.weaponUpgradeCard(pick(g.rng, targets), r), true
}

func (g *Generator) weaponUpgradeCard(w progression.Weapon, r rarity.Rarity) Card {
	level := min(w.Level+weaponUpgradeStep(r), progression.MaxWeaponLevel)
	name := g.weaponName(w.ID)
	return Card{
		Category:    CategoryWeaponUpgrade,
		Title:       fmt.Sprintf("%s Lv.%d", name, level),
		Description: fmt.Sprintf("Raise %s from Lv.%d to Lv.%d.", name, w.Level, level),
		Rarity:      r,
		Weapon:      w.ID,
		Level:       level,
	}
}

func (g *Generator) buildNewEnchant(state progression.Reader, r rarity.Rarity) (Card, bool) {
	weapons := unenchantedWeapons(state)
	enchants := g.registry.Enchants()
	if len(weapons) == 0 || len(enchants) == 0 {
		return Card{}, false
	}
	w := pick(g.rng, weapons)
	e := pick(g.rng, enchants)
	tier := enchantTier(r)
	return Card{
		Category:    CategoryNewEnchant,
		Title:       fmt.Sprintf("%s + %s", g.weaponName(w.ID), e.Name),
		Description: strings.TrimSpace(fmt.Sprintf("%s Attaches at tier %d.", e.Description, tier)),
		Rarity:      r,
		Weapon:      w.ID,
		Enchant:     e.ID,
		Tier:        tier,
	}, true
}

func (g *Generator) buildEnchantUpgrade(state progression.Reader, r rarity.Rarity) (Card, bool) {
	weapons := enchantUpgradableWeapons(state)
	if len(weapons) == 0 {
		return Card{}, false
	}
	w := pick(g.rng, weapons)
	tier := min(w.Enchant.Tier+enchantStep(r), progression.MaxEnchantTier)
	name := w.Enchant.ID
	if e, ok := g.registry.Enchant(w.Enchant.ID); ok {
		name = e.Name
	}
	return Card{
		Category:    CategoryEnchantUpgrade,
		Title:       fmt.Sprintf("%s T%d (%s)", name, tier, g.weaponName(w.ID)),
		Description: fmt.Sprintf("Raise %s from tier %d to tier %d.", name, w.Enchant.Tier, tier),
		Rarity:      r,
		Weapon:      w.ID,
		Enchant:     w.Enchant.ID,
		Tier:        tier,
	}, true
}

func (g *Generator) buildApplyElement(state progression.Reader, r rarity.Rarity) (Card, bool) {
	weapons := g.resolver.unelementedWeapons(state)
	elements := g.registry.Elements()
	if len(weapons) == 0 || len(elements) == 0 {
		return Card{}, false
	}
	w := pick(g.rng, weapons)
	e := pick(g.rng, elements)
	return Card{
		Category:    CategoryApplyElement,
		Title:       fmt.Sprintf("%s: %s", g.weaponName(w.ID), e.Name),
		Description: describe(e.Description, nil, 1),
		Rarity:      r,
		Weapon:      w.ID,
		Element:     e.ID,
	}, true
}

func (g *Generator) buildElementUpgrade(state progression.Reader, r rarity.Rarity) (Card, bool) {
	targets := g.resolver.elementUpgradeTargets(state)
	if len(targets) == 0 {
		return Card{}, false
	}
	t := pick(g.rng, targets)
	u := pick(g.rng, t.available)
	return Card{
		Category:    CategoryElementUpgrade,
		Title:       fmt.Sprintf("%s (%s)", u.Name, g.weaponName(t.weapon.ID)),
		Description: describe(u.Description, nil, 1),
		Rarity:      r,
		Weapon:      t.weapon.ID,
		Element:     t.element.ID,
		Upgrade:     u.ID,
	}, true
}

// buildMalus ignores rarity: a trade-off always applies at face value.
func (g *Generator) buildMalus(state progression.Reader, r rarity.Rarity) (Card, bool) {
	targets := g.resolver.untakenMaluses(state)
	if len(targets) == 0 {
		return Card{}, false
	}
	m := pick(g.rng, targets)
	return Card{
		Category:    CategoryMalus,
		Title:       m.Name,
		Description: describe(m.Description, m.Effects(), 1),
		Rarity:      r,
		Malus:       m.ID,
	}, true
}

func (g *Generator) buildSynergySkill(state progression.Reader, r rarity.Rarity) (Card, bool) {
	targets := g.resolver.synergySkillTargets(state)
	if len(targets) == 0 {
		return Card{}, false
	}
	t := pick(g.rng, targets)
	level := state.SkillLevel(t.skill.ID) + 1
	return Card{
		Category:    CategorySynergySkill,
		Title:       fmt.Sprintf("%s Lv.%d", t.skill.Name, level),
		Description: describe(t.skill.Description, t.skill.EffectsAt(level), 1),
		Rarity:      r,
		Skill:       t.skill.ID,
		Synergy:     t.synergy.ID,
		Level:       level,
	}, true
}

func (g *Generator) buildStatBoost(state progression.Reader, r rarity.Rarity) (Card, bool) {
	ranges := g.registry.RangeCards()
	if len(ranges) > 0 && g.rng.Float64() < g.opts.RangeCardChance {
		return boostCard(pick(g.rng, ranges), r, true), true
	}
	boosts := g.registry.StatBoosts()
	if len(boosts) == 0 {
		return Card{}, false
	}
	return boostCard(pick(g.rng, boosts), r, false), true
}

func boostCard(b *catalog.Boost, r rarity.Rarity, isRange bool) Card {
	return Card{
		Category:    CategoryStatBoost,
		Title:       b.Name,
		Description: describe("", b.Effects, r.Multiplier()),
		Rarity:      r,
		Boost:       b.ID,
		Range:       isRange,
	}
}

func (g *Generator) weaponName(id string) string {
	if w, ok := g.registry.Weapon(id); ok {
		return w.Name
	}
	return id
}

// describe joins flavour text and the scaled effect list.
func describe(text string, effects []modifier.Effect, mult float64) string {
	parts := make([]string, 0, 2)
	if text != "" {
		parts = append(parts, text)
	}
	if len(effects) > 0 {
		parts = append(parts, modifier.Describe(effects, mult))
	}
	return strings.Join(parts, " ")
}

func pick[T any](rng *rand.Rand, list []T) T {
	return list[rng.Intn(len(list))]
}
