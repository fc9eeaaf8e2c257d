package draft

import (
	"github.com/lawnchairsociety/draftforge/internal/progression"
	"github.com/lawnchairsociety/draftforge/internal/rarity"
)

// fallback fills an undersized offer. Stages run in order: job-skill
// upgrades, weapon-level upgrades, then stat boosts. Only the last stage
// may repeat a title, and only once every boost is already on offer.
func (g *Generator) fallback(state progression.Reader, source rarity.Source, cards []Card, count int) []Card {
	set := newCardSet(cards...)

	for _, skill := range g.resolver.jobSkillTargets(state) {
		if set.len() >= count {
			return set.cards
		}
		set.add(skillCard(CategoryJobSkill, skill, state, g.roller.Roll(state.Level(), source)))
	}

	for _, w := range upgradableWeapons(state) {
		if set.len() >= count {
			return set.cards
		}
		set.add(g.weaponUpgradeCard(w, g.roller.Roll(state.Level(), source)))
	}

	boosts := g.registry.StatBoosts()
	order := g.rng.Perm(len(boosts))
	for _, i := range order {
		if set.len() >= count {
			return set.cards
		}
		set.add(boostCard(boosts[i], g.roller.Roll(state.Level(), source), false))
	}

	result := set.cards
	for len(result) < count && len(boosts) > 0 {
		result = append(result, boostCard(pick(g.rng, boosts), g.roller.Roll(state.Level(), source), false))
	}
	return result
}
