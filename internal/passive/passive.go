// Package passive advances per-job passive tiers on double-down and mastery
// milestones, and handles the awakening signal.
package passive

import (
	"fmt"
	"log/slog"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/logger"
	"github.com/lawnchairsociety/draftforge/internal/progression"
	"github.com/lawnchairsociety/draftforge/internal/signal"
)

// BaseSkillCap bounds base skill levels granted by a tier advance.
const BaseSkillCap = 3

// Progression owns passive tiers and the awakening lock.
type Progression struct {
	registry *catalog.Registry
	state    *progression.State
	bus      *signal.Bus
	log      *slog.Logger
	unsub    func()
}

// New creates the component and subscribes it to the awakening signal.
func New(registry *catalog.Registry, state *progression.State, bus *signal.Bus) *Progression {
	p := &Progression{
		registry: registry,
		state:    state,
		bus:      bus,
		log:      logger.With("passive"),
	}
	p.unsub = bus.Subscribe(signal.Awakening, func(...any) { p.Awaken() })
	return p
}

// Close unsubscribes the component.
func (p *Progression) Close() {
	if p.unsub != nil {
		p.unsub()
		p.unsub = nil
	}
}

// Awaken locks the job roster.
func (p *Progression) Awaken() bool {
	if !p.state.Awaken() {
		return false
	}
	p.log.Info("roster awakened", "jobs", p.state.Jobs())
	return true
}

// DoubleDown is the first tier advance.
func (p *Progression) DoubleDown() []string { return p.Advance() }

// Mastery is the second tier advance.
func (p *Progression) Mastery() []string { return p.Advance() }

// Advance raises every chosen job below the top tier by one tier, applying
// only the newly reached tier's effects, then levels the job's base skills
// (cap 3) and its affinity weapon. Jobs already at the top tier are left
// untouched. Returns the advanced job ids.
func (p *Progression) Advance() []string {
	var advanced []string
	statsChanged := false

	for _, jobID := range p.state.Jobs() {
		job, ok := p.registry.Job(jobID)
		if !ok {
			continue
		}
		tier, ok := p.state.AdvancePassive(jobID, catalog.MaxPassiveTier)
		if !ok {
			continue
		}
		source := fmt.Sprintf("passive:%s:%d", jobID, tier)
		if p.state.ApplyEffects(job.TierEffects(tier), 1, source) > 0 {
			statsChanged = true
		}
		p.bus.Publish(signal.PassiveAdvanced, jobID, tier)

		for _, skillID := range job.Skills {
			if p.levelSkill(skillID) {
				statsChanged = true
			}
		}
		if level, ok := p.state.UpgradeWeapon(job.Weapon, 1); ok {
			p.bus.Publish(signal.WeaponUpgraded, job.Weapon, level)
		}
		advanced = append(advanced, jobID)
	}

	if statsChanged {
		p.bus.Publish(signal.StatsChanged)
	}
	if len(advanced) > 0 {
		p.log.Debug("passive tiers advanced", "jobs", advanced)
	}
	return advanced
}

// levelSkill raises a base skill one level and reports whether the aggregate
// changed.
func (p *Progression) levelSkill(skillID string) bool {
	skill, ok := p.registry.Skill(skillID)
	if !ok {
		return false
	}
	level, ok := p.state.LevelSkill(skillID, min(BaseSkillCap, skill.MaxLevel))
	if !ok {
		return false
	}
	p.bus.Publish(signal.SkillUpgraded, skillID, level)
	return p.state.ApplyEffects(skill.EffectsAt(level), 1, "skill:"+skillID) > 0
}
