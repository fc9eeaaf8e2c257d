package draft

import (
	"math/rand"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/progression"
)

// Weighted is an eligible category and its selection weight.
type Weighted struct {
	Category Category
	Weight   int
}

// categoryOrder fixes iteration order so seeded picks are reproducible.
var categoryOrder = []Category{
	CategoryJobSkill,
	CategoryMasterySkill,
	CategoryNewWeapon,
	CategoryWeaponUpgrade,
	CategoryNewEnchant,
	CategoryEnchantUpgrade,
	CategoryApplyElement,
	CategoryElementUpgrade,
	CategoryMalus,
	CategorySynergySkill,
	CategoryStatBoost,
}

// DefaultWeights returns the standard category weights.
func DefaultWeights() map[Category]int {
	return map[Category]int{
		CategoryJobSkill:       30,
		CategoryMasterySkill:   20,
		CategoryNewWeapon:      12,
		CategoryWeaponUpgrade:  25,
		CategoryNewEnchant:     10,
		CategoryEnchantUpgrade: 8,
		CategoryApplyElement:   10,
		CategoryElementUpgrade: 8,
		CategoryMalus:          5,
		CategorySynergySkill:   15,
		CategoryStatBoost:      20,
	}
}

// Categories returns every generator category in resolution order.
func Categories() []Category {
	return append([]Category(nil), categoryOrder...)
}

// Resolver decides which categories a state can be offered.
type Resolver struct {
	registry      *catalog.Registry
	weights       map[Category]int
	malusMinLevel int
}

// NewResolver creates a resolver. Overrides replace default weights by
// category name; unknown names are ignored.
func NewResolver(registry *catalog.Registry, overrides map[string]int, malusMinLevel int) *Resolver {
	weights := DefaultWeights()
	for name, w := range overrides {
		if _, ok := weights[Category(name)]; ok {
			weights[Category(name)] = w
		}
	}
	return &Resolver{
		registry:      registry,
		weights:       weights,
		malusMinLevel: malusMinLevel,
	}
}

// Weight returns the configured weight of a category.
func (r *Resolver) Weight(c Category) int {
	return r.weights[c]
}

// Resolve returns the eligible categories with a positive weight.
func (r *Resolver) Resolve(state progression.Reader) []Weighted {
	var result []Weighted
	for _, c := range categoryOrder {
		w := r.weights[c]
		if w <= 0 || !r.Eligible(state, c) {
			continue
		}
		result = append(result, Weighted{Category: c, Weight: w})
	}
	return result
}

// Eligible reports whether a category has at least one valid target.
func (r *Resolver) Eligible(state progression.Reader, c Category) bool {
	switch c {
	case CategoryJobSkill:
		return len(r.jobSkillTargets(state)) > 0
	case CategoryMasterySkill:
		return len(r.masterySkillTargets(state)) > 0
	case CategoryNewWeapon:
		return len(r.unownedWeapons(state)) > 0
	case CategoryWeaponUpgrade:
		return len(upgradableWeapons(state)) > 0
	case CategoryNewEnchant:
		return len(r.registry.Enchants()) > 0 && len(unenchantedWeapons(state)) > 0
	case CategoryEnchantUpgrade:
		return len(enchantUpgradableWeapons(state)) > 0
	case CategoryApplyElement:
		return len(r.unelementedWeapons(state)) > 0
	case CategoryElementUpgrade:
		return len(r.elementUpgradeTargets(state)) > 0
	case CategoryMalus:
		return len(r.untakenMaluses(state)) > 0
	case CategorySynergySkill:
		return len(r.synergySkillTargets(state)) > 0
	case CategoryStatBoost:
		return true
	default:
		return false
	}
}

// pickWeighted selects a category with probability weight / sum of weights.
func pickWeighted(rng *rand.Rand, list []Weighted) Category {
	total := 0
	for _, w := range list {
		total += w.Weight
	}
	if total <= 0 {
		return CategoryStatBoost
	}
	roll := rng.Intn(total)
	for _, w := range list {
		if roll < w.Weight {
			return w.Category
		}
		roll -= w.Weight
	}
	return list[len(list)-1].Category
}

// Target collection. Every helper walks registry or state order, never map
// order, so a seeded generator replays exactly.

func (r *Resolver) skillTargets(state progression.Reader, mastery bool) []*catalog.Skill {
	superseded := r.registry.Superseded(state.ActiveSynergies())
	var result []*catalog.Skill
	for _, jobID := range state.Jobs() {
		job, ok := r.registry.Job(jobID)
		if !ok {
			continue
		}
		ids := job.Skills
		if mastery {
			ids = job.MasterySkills
		}
		for _, id := range ids {
			skill, ok := r.registry.Skill(id)
			if !ok || superseded[id] {
				continue
			}
			if state.SkillLevel(id) < skill.MaxLevel {
				result = append(result, skill)
			}
		}
	}
	return result
}

func (r *Resolver) jobSkillTargets(state progression.Reader) []*catalog.Skill {
	return r.skillTargets(state, false)
}

func (r *Resolver) masterySkillTargets(state progression.Reader) []*catalog.Skill {
	if !state.Awakened() {
		return nil
	}
	return r.skillTargets(state, true)
}

// unownedWeapons lists weapon types that a new weapon card may grant. The
// category opens once the player holds a first weapon.
func (r *Resolver) unownedWeapons(state progression.Reader) []*catalog.Weapon {
	if !state.CanAddWeapon() || len(state.Weapons()) == 0 {
		return nil
	}
	var result []*catalog.Weapon
	for _, w := range r.registry.Weapons() {
		if _, owned := state.Weapon(w.ID); !owned {
			result = append(result, w)
		}
	}
	return result
}

func upgradableWeapons(state progression.Reader) []progression.Weapon {
	return filterWeapons(state, func(w progression.Weapon) bool { return !w.IsMaxLevel() })
}

func unenchantedWeapons(state progression.Reader) []progression.Weapon {
	return filterWeapons(state, func(w progression.Weapon) bool { return !w.HasEnchant() })
}

func enchantUpgradableWeapons(state progression.Reader) []progression.Weapon {
	return filterWeapons(state, func(w progression.Weapon) bool {
		return w.HasEnchant() && w.Enchant.Tier < progression.MaxEnchantTier
	})
}

func (r *Resolver) unelementedWeapons(state progression.Reader) []progression.Weapon {
	if len(r.registry.Elements()) == 0 {
		return nil
	}
	return filterWeapons(state, func(w progression.Weapon) bool { return !w.HasElement() })
}

// elementUpgradeTarget is a weapon and the upgrades still open to it.
type elementUpgradeTarget struct {
	weapon    progression.Weapon
	element   *catalog.Element
	available []catalog.ElementUpgrade
}

func (r *Resolver) elementUpgradeTargets(state progression.Reader) []elementUpgradeTarget {
	var result []elementUpgradeTarget
	for _, w := range state.Weapons() {
		if !w.HasElement() {
			continue
		}
		element, ok := r.registry.Element(w.Element.ID)
		if !ok || len(w.Element.Upgrades) >= elementUpgradeLimit(element) {
			continue
		}
		var available []catalog.ElementUpgrade
		for _, u := range element.Upgrades {
			if !w.Element.HasUpgrade(u.ID) {
				available = append(available, u)
			}
		}
		if len(available) > 0 {
			result = append(result, elementUpgradeTarget{weapon: w, element: element, available: available})
		}
	}
	return result
}

func (r *Resolver) untakenMaluses(state progression.Reader) []*catalog.Malus {
	if state.Level() <= r.malusMinLevel {
		return nil
	}
	var result []*catalog.Malus
	for _, m := range r.registry.Maluses() {
		if !state.HasTakenMalus(m.ID) {
			result = append(result, m)
		}
	}
	return result
}

// synergySkillTarget is an active synergy whose combo skill can still level.
type synergySkillTarget struct {
	synergy *catalog.Synergy
	skill   *catalog.Skill
}

func (r *Resolver) synergySkillTargets(state progression.Reader) []synergySkillTarget {
	var result []synergySkillTarget
	for _, id := range state.ActiveSynergies() {
		syn, ok := r.registry.Synergy(id)
		if !ok {
			continue
		}
		skill, ok := r.registry.Skill(syn.Skill)
		if !ok {
			continue
		}
		if state.SkillLevel(skill.ID) < skill.MaxLevel {
			result = append(result, synergySkillTarget{synergy: syn, skill: skill})
		}
	}
	return result
}

func filterWeapons(state progression.Reader, keep func(progression.Weapon) bool) []progression.Weapon {
	var result []progression.Weapon
	for _, w := range state.Weapons() {
		if keep(w) {
			result = append(result, w)
		}
	}
	return result
}

// elementUpgradeLimit bounds upgrades by the element catalog size.
func elementUpgradeLimit(e *catalog.Element) int {
	return min(catalog.MaxElementUpgrades, len(e.Upgrades))
}
