// Package draft generates, weights and applies enhancement cards.
package draft

import (
	"fmt"
	"math"

	"github.com/lawnchairsociety/draftforge/internal/progression"
	"github.com/lawnchairsociety/draftforge/internal/rarity"
)

// Category tags the mutation a card performs.
type Category string

const (
	CategoryJobSelection   Category = "job_selection"
	CategoryAwakening      Category = "awakening"
	CategoryJobSkill       Category = "job_skill"
	CategoryMasterySkill   Category = "mastery_skill"
	CategoryNewWeapon      Category = "new_weapon"
	CategoryWeaponUpgrade  Category = "weapon_upgrade"
	CategoryNewEnchant     Category = "new_enchant"
	CategoryEnchantUpgrade Category = "enchant_upgrade"
	CategoryApplyElement   Category = "apply_element"
	CategoryElementUpgrade Category = "element_upgrade"
	CategoryMalus          Category = "malus"
	CategorySynergySkill   Category = "synergy_skill"
	CategoryStatBoost      Category = "stat_boost"
)

// Card is one offered choice. It lives for a single offer; Title is the
// dedup key within that offer.
type Card struct {
	Category    Category      `json:"category"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Rarity      rarity.Rarity `json:"rarity"`

	Job     string `json:"job,omitempty"`
	Skill   string `json:"skill,omitempty"`
	Weapon  string `json:"weapon,omitempty"`
	Enchant string `json:"enchant,omitempty"`
	Element string `json:"element,omitempty"`
	Upgrade string `json:"upgrade,omitempty"`
	Malus   string `json:"malus,omitempty"`
	Boost   string `json:"boost,omitempty"`
	Synergy string `json:"synergy,omitempty"`

	// Level is the resulting skill or weapon level shown on the card.
	Level int `json:"level,omitempty"`
	// Tier is the resulting enchant tier shown on the card.
	Tier int `json:"tier,omitempty"`
	// Range marks a stat boost replaced by a range/scale card.
	Range bool `json:"range,omitempty"`
}

func (c Card) String() string {
	return fmt.Sprintf("[%s] %s (%s)", c.Rarity, c.Title, c.Category)
}

// startLevel is the level a new weapon card grants.
func startLevel(r rarity.Rarity) int {
	switch r {
	case rarity.Rare:
		return 2
	case rarity.Epic:
		return 3
	case rarity.Legendary:
		return 4
	default:
		return 1
	}
}

// weaponUpgradeStep is the number of levels a weapon upgrade card adds.
func weaponUpgradeStep(r rarity.Rarity) int {
	if r.AtLeast(rarity.Epic) {
		return 2
	}
	return 1
}

// enchantTier is the tier a new enchant card attaches at.
func enchantTier(r rarity.Rarity) int {
	tier := int(math.Round(r.Multiplier()))
	return max(1, min(tier, progression.MaxEnchantTier))
}

// enchantStep is the number of tiers an enchant upgrade card adds.
func enchantStep(r rarity.Rarity) int {
	return max(1, int(math.Round(r.Multiplier())))
}
