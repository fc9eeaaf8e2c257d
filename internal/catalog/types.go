// Package catalog holds the immutable definitions of jobs, skills, weapons,
// enchants, elements, trade-offs, boosts and synergies.
package catalog

import "github.com/lawnchairsociety/draftforge/internal/modifier"

// SkillKind distinguishes skills that touch the modifier aggregate.
type SkillKind string

const (
	// SkillModifier skills apply their level effects to the aggregate.
	SkillModifier SkillKind = "modifier"
	// SkillActive skills are read by the combat layer only.
	SkillActive SkillKind = "active"
)

// Job is a class the player can pick at job milestones.
type Job struct {
	ID            string
	Name          string
	Description   string
	Weapon        string
	Skills        []string
	MasterySkills []string
	Passive       []modifier.Effect
	// Tiers holds the increments for passive tiers 1 and 2.
	Tiers [][]modifier.Effect
}

// TierEffects returns the increment for reaching a passive tier.
func (j *Job) TierEffects(tier int) []modifier.Effect {
	if tier < 1 || tier > len(j.Tiers) {
		return nil
	}
	return j.Tiers[tier-1]
}

// Skill is a job, mastery or synergy combo skill.
type Skill struct {
	ID          string
	Name        string
	Description string
	Job         string
	Synergy     string
	Kind        SkillKind
	MaxLevel    int
	Mastery     bool
	Effects     []modifier.Effect
	LevelBonus  map[int][]modifier.Effect
}

// IsModifier reports whether leveling the skill changes the aggregate.
func (s *Skill) IsModifier() bool {
	return s.Kind == SkillModifier
}

// EffectsAt returns the effects applied when the skill reaches level.
func (s *Skill) EffectsAt(level int) []modifier.Effect {
	if !s.IsModifier() {
		return nil
	}
	result := append([]modifier.Effect{}, s.Effects...)
	return append(result, s.LevelBonus[level]...)
}

// Weapon is a weapon type the player can own one instance of.
type Weapon struct {
	ID          string
	Name        string
	Description string
}

// Enchant is attached to a weapon and upgraded by tier.
type Enchant struct {
	ID          string
	Name        string
	Description string
}

// ElementUpgrade is one entry of an element's fixed upgrade list.
type ElementUpgrade struct {
	ID          string
	Name        string
	Description string
}

// Element is attached to a weapon and owns a fixed upgrade catalog.
type Element struct {
	ID          string
	Name        string
	Description string
	Upgrades    []ElementUpgrade
}

// Upgrade looks up one of the element's upgrades.
func (e *Element) Upgrade(id string) (ElementUpgrade, bool) {
	for _, u := range e.Upgrades {
		if u.ID == id {
			return u, true
		}
	}
	return ElementUpgrade{}, false
}

// Malus is a one-time trade-off card.
type Malus struct {
	ID          string
	Name        string
	Description string
	Bonus       []modifier.Effect
	Malus       []modifier.Effect
}

// Effects returns the bonus followed by the drawback.
func (m *Malus) Effects() []modifier.Effect {
	result := append([]modifier.Effect{}, m.Bonus...)
	return append(result, m.Malus...)
}

// Boost is a repeatable stat card. Range cards share the shape.
type Boost struct {
	ID      string
	Name    string
	Effects []modifier.Effect
}

// Synergy activates when both jobs are held.
type Synergy struct {
	ID          string
	Name        string
	Description string
	Jobs        [2]string
	Skill       string
	Effects     []modifier.Effect
	// Supersedes lists base skills the combo skill replaces.
	Supersedes []string
}

// Pairs reports whether the synergy is triggered by both jobs.
func (s *Synergy) Pairs(held func(jobID string) bool) bool {
	return held(s.Jobs[0]) && held(s.Jobs[1])
}
