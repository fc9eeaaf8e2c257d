package draft

import (
	"log/slog"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/logger"
	"github.com/lawnchairsociety/draftforge/internal/progression"
	"github.com/lawnchairsociety/draftforge/internal/signal"
)

// Applier performs the mutation a picked card describes.
type Applier struct {
	registry *catalog.Registry
	state    *progression.State
	bus      *signal.Bus
	log      *slog.Logger
}

// NewApplier creates an applier over one session's state.
func NewApplier(registry *catalog.Registry, state *progression.State, bus *signal.Bus) *Applier {
	return &Applier{
		registry: registry,
		state:    state,
		bus:      bus,
		log:      logger.With("draft"),
	}
}

// Apply mutates the state for card and reports whether anything changed.
// A card whose target is missing or capped is a no-op. EnhancementPicked is
// published after every call.
func (a *Applier) Apply(card Card) bool {
	var changed bool
	switch card.Category {
	case CategoryJobSelection:
		changed = a.applyJob(card)
	case CategoryAwakening:
		changed = a.applyAwakening()
	case CategoryJobSkill, CategoryMasterySkill:
		changed = a.applySkill(card)
	case CategoryNewWeapon:
		changed = a.applyNewWeapon(card)
	case CategoryWeaponUpgrade:
		changed = a.applyWeaponUpgrade(card)
	case CategoryNewEnchant:
		changed = a.applyNewEnchant(card)
	case CategoryEnchantUpgrade:
		changed = a.applyEnchantUpgrade(card)
	case CategoryApplyElement:
		changed = a.applyElement(card)
	case CategoryElementUpgrade:
		changed = a.applyElementUpgrade(card)
	case CategoryMalus:
		changed = a.applyMalus(card)
	case CategoryStatBoost:
		changed = a.applyBoost(card)
	case CategorySynergySkill:
		changed = a.applySynergySkill(card)
	}

	if !changed {
		a.log.Debug("card had no effect", "category", card.Category, "title", card.Title)
	}
	a.bus.Publish(signal.EnhancementPicked, card)
	return changed
}

func (a *Applier) applyJob(card Card) bool {
	job, ok := a.registry.Job(card.Job)
	if !ok || !a.state.AddJob(job.ID) {
		return false
	}
	if a.state.GrantPassive(job.ID) {
		a.state.ApplyEffects(job.Passive, 1, "passive:"+job.ID)
	}
	if a.state.AddWeapon(job.Weapon) {
		a.bus.Publish(signal.WeaponAdded, job.Weapon)
	}
	a.bus.Publish(signal.JobChosen, job.ID)
	a.bus.Publish(signal.StatsChanged)
	return true
}

// applyAwakening only signals; the passive component owns the roster lock.
func (a *Applier) applyAwakening() bool {
	if a.state.Awakened() || len(a.state.Jobs()) != 2 {
		return false
	}
	a.bus.Publish(signal.Awakening)
	return a.state.Awakened()
}

func (a *Applier) applySkill(card Card) bool {
	skill, ok := a.registry.Skill(card.Skill)
	if !ok || skill.Synergy != "" || !a.state.HasJob(skill.Job) {
		return false
	}
	if skill.Mastery != (card.Category == CategoryMasterySkill) {
		return false
	}
	if skill.Mastery && !a.state.Awakened() {
		return false
	}

	level, ok := a.state.LevelSkill(skill.ID, skill.MaxLevel)
	if !ok {
		return false
	}
	topic := signal.SkillUpgraded
	if skill.Mastery {
		topic = signal.MasterySkillUpgraded
	}
	a.bus.Publish(topic, skill.ID, level)
	if a.state.ApplyEffects(skill.EffectsAt(level), 1, "skill:"+skill.ID) > 0 {
		a.bus.Publish(signal.StatsChanged)
	}
	return true
}

func (a *Applier) applyNewWeapon(card Card) bool {
	if _, ok := a.registry.Weapon(card.Weapon); !ok || !a.state.AddWeapon(card.Weapon) {
		return false
	}
	a.bus.Publish(signal.WeaponAdded, card.Weapon)
	if extra := startLevel(card.Rarity) - 1; extra > 0 {
		if level, ok := a.state.UpgradeWeapon(card.Weapon, extra); ok {
			a.bus.Publish(signal.WeaponUpgraded, card.Weapon, level)
		}
	}
	return true
}

func (a *Applier) applyWeaponUpgrade(card Card) bool {
	level, ok := a.state.UpgradeWeapon(card.Weapon, weaponUpgradeStep(card.Rarity))
	if !ok {
		return false
	}
	a.bus.Publish(signal.WeaponUpgraded, card.Weapon, level)
	return true
}

func (a *Applier) applyNewEnchant(card Card) bool {
	if _, ok := a.registry.Enchant(card.Enchant); !ok {
		return false
	}
	tier := enchantTier(card.Rarity)
	if !a.state.AttachEnchant(card.Weapon, card.Enchant, tier) {
		return false
	}
	a.bus.Publish(signal.EnchantApplied, card.Weapon, card.Enchant, tier)
	return true
}

func (a *Applier) applyEnchantUpgrade(card Card) bool {
	w, ok := a.state.Weapon(card.Weapon)
	if !ok || (card.Enchant != "" && w.Enchant.ID != card.Enchant) {
		return false
	}
	tier, ok := a.state.UpgradeEnchant(card.Weapon, enchantStep(card.Rarity))
	if !ok {
		return false
	}
	a.bus.Publish(signal.EnchantUpgraded, card.Weapon, w.Enchant.ID, tier)
	return true
}

func (a *Applier) applyElement(card Card) bool {
	if _, ok := a.registry.Element(card.Element); !ok {
		return false
	}
	if !a.state.AttachElement(card.Weapon, card.Element) {
		return false
	}
	a.bus.Publish(signal.ElementApplied, card.Weapon, card.Element)
	return true
}

func (a *Applier) applyElementUpgrade(card Card) bool {
	w, ok := a.state.Weapon(card.Weapon)
	if !ok || !w.HasElement() {
		return false
	}
	element, ok := a.registry.Element(w.Element.ID)
	if !ok {
		return false
	}
	if _, ok := element.Upgrade(card.Upgrade); !ok {
		return false
	}
	if !a.state.AddElementUpgrade(card.Weapon, card.Upgrade, elementUpgradeLimit(element)) {
		return false
	}
	a.bus.Publish(signal.ElementUpgraded, card.Weapon, element.ID, card.Upgrade)
	return true
}

func (a *Applier) applyMalus(card Card) bool {
	m, ok := a.registry.Malus(card.Malus)
	if !ok || !a.state.TakeMalus(m.ID) {
		return false
	}
	a.state.ApplyEffects(m.Effects(), 1, "malus:"+m.ID)
	a.bus.Publish(signal.StatsChanged)
	return true
}

func (a *Applier) applyBoost(card Card) bool {
	lookup := a.registry.StatBoost
	if card.Range {
		lookup = a.registry.RangeCard
	}
	b, ok := lookup(card.Boost)
	if !ok || a.state.ApplyEffects(b.Effects, card.Rarity.Multiplier(), "boost:"+b.ID) == 0 {
		return false
	}
	a.bus.Publish(signal.StatsChanged)
	return true
}

// applySynergySkill requests the upgrade; the synergy component performs it.
func (a *Applier) applySynergySkill(card Card) bool {
	syn, ok := a.registry.Synergy(card.Synergy)
	if !ok || !a.state.HasSynergy(syn.ID) {
		return false
	}
	before := a.state.SkillLevel(syn.Skill)
	a.bus.Publish(signal.SynergySkillUpgradeRequested, syn.ID)
	return a.state.SkillLevel(syn.Skill) > before
}
