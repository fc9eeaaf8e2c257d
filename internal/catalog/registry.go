package catalog

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lawnchairsociety/draftforge/internal/modifier"
)

// MaxElementUpgrades bounds the upgrade catalog of a single element.
const MaxElementUpgrades = 3

// MaxPassiveTier is the highest passive tier a job can reach.
const MaxPassiveTier = 2

// Registry holds all loaded definitions. It is never mutated after NewRegistry,
// so one registry can back any number of sessions.
type Registry struct {
	jobs       map[string]*Job
	skills     map[string]*Skill
	weapons    map[string]*Weapon
	enchants   map[string]*Enchant
	elements   map[string]*Element
	maluses    map[string]*Malus
	statBoosts map[string]*Boost
	rangeCards map[string]*Boost
	synergies  map[string]*Synergy

	// sorted id lists keep iteration order stable for seeded generation
	jobIDs       []string
	skillIDs     []string
	weaponIDs    []string
	enchantIDs   []string
	elementIDs   []string
	malusIDs     []string
	statBoostIDs []string
	rangeCardIDs []string
	synergyIDs   []string
}

// NewRegistry builds a registry from parsed catalog YAML.
func NewRegistry(config *CatalogConfig) *Registry {
	r := &Registry{
		jobs:       make(map[string]*Job),
		skills:     make(map[string]*Skill),
		weapons:    make(map[string]*Weapon),
		enchants:   make(map[string]*Enchant),
		elements:   make(map[string]*Element),
		maluses:    make(map[string]*Malus),
		statBoosts: make(map[string]*Boost),
		rangeCards: make(map[string]*Boost),
		synergies:  make(map[string]*Synergy),
	}

	for id, def := range config.Jobs {
		r.jobs[id] = createJob(id, def)
	}
	for id, def := range config.Skills {
		r.skills[id] = createSkill(id, def)
	}
	for id, def := range config.Weapons {
		r.weapons[id] = &Weapon{ID: id, Name: def.Name, Description: def.Description}
	}
	for id, def := range config.Enchants {
		r.enchants[id] = &Enchant{ID: id, Name: def.Name, Description: def.Description}
	}
	for id, def := range config.Elements {
		r.elements[id] = createElement(id, def)
	}
	for id, def := range config.Maluses {
		r.maluses[id] = &Malus{ID: id, Name: def.Name, Description: def.Description, Bonus: def.Bonus, Malus: def.Malus}
	}
	for id, def := range config.StatBoosts {
		r.statBoosts[id] = &Boost{ID: id, Name: def.Name, Effects: def.Effects}
	}
	for id, def := range config.RangeCards {
		r.rangeCards[id] = &Boost{ID: id, Name: def.Name, Effects: def.Effects}
	}
	for id, def := range config.Synergies {
		s := createSynergy(id, def)
		r.synergies[id] = s
		if skill, ok := r.skills[s.Skill]; ok {
			skill.Synergy = id
		}
	}

	r.jobIDs = sortedKeys(r.jobs)
	r.skillIDs = sortedKeys(r.skills)
	r.weaponIDs = sortedKeys(r.weapons)
	r.enchantIDs = sortedKeys(r.enchants)
	r.elementIDs = sortedKeys(r.elements)
	r.malusIDs = sortedKeys(r.maluses)
	r.statBoostIDs = sortedKeys(r.statBoosts)
	r.rangeCardIDs = sortedKeys(r.rangeCards)
	r.synergyIDs = sortedKeys(r.synergies)
	return r
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func collect[T any](ids []string, m map[string]*T) []*T {
	result := make([]*T, 0, len(ids))
	for _, id := range ids {
		result = append(result, m[id])
	}
	return result
}

// Job returns a job by ID.
func (r *Registry) Job(id string) (*Job, bool) {
	j, ok := r.jobs[id]
	return j, ok
}

// Jobs returns all jobs sorted by ID.
func (r *Registry) Jobs() []*Job { return collect(r.jobIDs, r.jobs) }

// Skill returns a skill by ID.
func (r *Registry) Skill(id string) (*Skill, bool) {
	s, ok := r.skills[id]
	return s, ok
}

// Skills returns all skills sorted by ID.
func (r *Registry) Skills() []*Skill { return collect(r.skillIDs, r.skills) }

// Weapon returns a weapon by ID.
func (r *Registry) Weapon(id string) (*Weapon, bool) {
	w, ok := r.weapons[id]
	return w, ok
}

// Weapons returns all weapons sorted by ID.
func (r *Registry) Weapons() []*Weapon { return collect(r.weaponIDs, r.weapons) }

// Enchant returns an enchant by ID.
func (r *Registry) Enchant(id string) (*Enchant, bool) {
	e, ok := r.enchants[id]
	return e, ok
}

// Enchants returns all enchants sorted by ID.
func (r *Registry) Enchants() []*Enchant { return collect(r.enchantIDs, r.enchants) }

// Element returns an element by ID.
func (r *Registry) Element(id string) (*Element, bool) {
	e, ok := r.elements[id]
	return e, ok
}

// Elements returns all elements sorted by ID.
func (r *Registry) Elements() []*Element { return collect(r.elementIDs, r.elements) }

// Malus returns a trade-off card by ID.
func (r *Registry) Malus(id string) (*Malus, bool) {
	m, ok := r.maluses[id]
	return m, ok
}

// Maluses returns all trade-off cards sorted by ID.
func (r *Registry) Maluses() []*Malus { return collect(r.malusIDs, r.maluses) }

// StatBoost returns a stat boost by ID.
func (r *Registry) StatBoost(id string) (*Boost, bool) {
	b, ok := r.statBoosts[id]
	return b, ok
}

// StatBoosts returns all stat boosts sorted by ID.
func (r *Registry) StatBoosts() []*Boost { return collect(r.statBoostIDs, r.statBoosts) }

// RangeCard returns a range card by ID.
func (r *Registry) RangeCard(id string) (*Boost, bool) {
	b, ok := r.rangeCards[id]
	return b, ok
}

// RangeCards returns all range cards sorted by ID.
func (r *Registry) RangeCards() []*Boost { return collect(r.rangeCardIDs, r.rangeCards) }

// Synergy returns a synergy by ID.
func (r *Registry) Synergy(id string) (*Synergy, bool) {
	s, ok := r.synergies[id]
	return s, ok
}

// Synergies returns all synergies sorted by ID.
func (r *Registry) Synergies() []*Synergy { return collect(r.synergyIDs, r.synergies) }

// Superseded returns the base skills replaced by the given active synergies.
func (r *Registry) Superseded(activeSynergies []string) map[string]bool {
	result := make(map[string]bool)
	for _, id := range activeSynergies {
		if s, ok := r.synergies[id]; ok {
			for _, skillID := range s.Supersedes {
				result[skillID] = true
			}
		}
	}
	return result
}

// Validate checks every cross-reference and reports all problems at once.
func (r *Registry) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	checkEffects := func(owner string, effects []modifier.Effect) {
		for _, e := range effects {
			if !e.Channel.IsValid() {
				add("%s: unknown channel %q", owner, e.Channel)
			}
		}
	}

	if len(r.statBoosts) == 0 {
		add("catalog needs at least one stat boost")
	}

	for _, job := range r.Jobs() {
		owner := "job " + job.ID
		if _, ok := r.weapons[job.Weapon]; !ok {
			add("%s: unknown affinity weapon %q", owner, job.Weapon)
		}
		if len(job.Tiers) > MaxPassiveTier {
			add("%s: %d passive tiers, max %d", owner, len(job.Tiers), MaxPassiveTier)
		}
		checkEffects(owner, job.Passive)
		for _, tier := range job.Tiers {
			checkEffects(owner, tier)
		}
		for _, id := range job.Skills {
			skill, ok := r.skills[id]
			switch {
			case !ok:
				add("%s: unknown skill %q", owner, id)
			case skill.Job != job.ID:
				add("%s: skill %q belongs to %q", owner, id, skill.Job)
			case skill.Mastery:
				add("%s: mastery skill %q listed as base skill", owner, id)
			}
		}
		for _, id := range job.MasterySkills {
			skill, ok := r.skills[id]
			if !ok {
				add("%s: unknown mastery skill %q", owner, id)
			} else if !skill.Mastery {
				add("%s: skill %q is not a mastery skill", owner, id)
			}
		}
	}

	for _, skill := range r.Skills() {
		owner := "skill " + skill.ID
		if skill.MaxLevel < 1 {
			add("%s: max_level must be at least 1", owner)
		}
		if skill.Kind != SkillModifier && skill.Kind != SkillActive {
			add("%s: unknown kind %q", owner, skill.Kind)
		}
		checkEffects(owner, skill.Effects)
		for _, bonus := range skill.LevelBonus {
			checkEffects(owner, bonus)
		}
	}

	for _, element := range r.Elements() {
		if len(element.Upgrades) == 0 || len(element.Upgrades) > MaxElementUpgrades {
			add("element %s: needs 1 to %d upgrades, has %d", element.ID, MaxElementUpgrades, len(element.Upgrades))
		}
		seen := make(map[string]bool)
		for _, u := range element.Upgrades {
			if seen[u.ID] {
				add("element %s: duplicate upgrade %q", element.ID, u.ID)
			}
			seen[u.ID] = true
		}
	}

	for _, m := range r.Maluses() {
		checkEffects("malus "+m.ID, m.Effects())
	}
	for _, b := range r.StatBoosts() {
		checkEffects("stat boost "+b.ID, b.Effects)
	}
	for _, b := range r.RangeCards() {
		checkEffects("range card "+b.ID, b.Effects)
	}

	for _, s := range r.Synergies() {
		owner := "synergy " + s.ID
		for _, jobID := range s.Jobs {
			if _, ok := r.jobs[jobID]; !ok {
				add("%s: unknown job %q", owner, jobID)
			}
		}
		if s.Jobs[0] == s.Jobs[1] {
			add("%s: needs two different jobs", owner)
		}
		if _, ok := r.skills[s.Skill]; !ok {
			add("%s: unknown combo skill %q", owner, s.Skill)
		}
		for _, id := range s.Supersedes {
			if _, ok := r.skills[id]; !ok {
				add("%s: supersedes unknown skill %q", owner, id)
			}
		}
		checkEffects(owner, s.Effects)
	}

	return errors.Join(errs...)
}
