// Package synergy activates job-pair synergies and levels their combo skills.
package synergy

import (
	"log/slog"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/logger"
	"github.com/lawnchairsociety/draftforge/internal/progression"
	"github.com/lawnchairsociety/draftforge/internal/signal"
)

// Detector watches job picks and activates every synergy whose two jobs are
// held. Scans are full, so repeated signals never activate twice.
type Detector struct {
	registry *catalog.Registry
	state    *progression.State
	bus      *signal.Bus
	log      *slog.Logger
	unsub    []func()
}

// NewDetector creates a detector and subscribes it to the bus.
func NewDetector(registry *catalog.Registry, state *progression.State, bus *signal.Bus) *Detector {
	d := &Detector{
		registry: registry,
		state:    state,
		bus:      bus,
		log:      logger.With("synergy"),
	}
	d.unsub = append(d.unsub,
		bus.Subscribe(signal.JobChosen, func(...any) { d.Scan() }),
		bus.Subscribe(signal.SynergySkillUpgradeRequested, d.onUpgradeRequested),
	)
	return d
}

// Close unsubscribes the detector.
func (d *Detector) Close() {
	for _, u := range d.unsub {
		u()
	}
	d.unsub = nil
}

// Scan activates each inactive synergy whose jobs are both held and returns
// the newly activated ids.
func (d *Detector) Scan() []string {
	var activated []string
	for _, syn := range d.registry.Synergies() {
		if d.state.HasSynergy(syn.ID) || !syn.Pairs(d.state.HasJob) {
			continue
		}
		if !d.state.ActivateSynergy(syn.ID) {
			continue
		}
		if d.state.SkillLevel(syn.Skill) == 0 {
			d.state.LevelSkill(syn.Skill, 1)
		}
		d.state.ApplyEffects(syn.Effects, 1, "synergy:"+syn.ID)
		d.log.Info("synergy activated", "synergy", syn.ID, "skill", syn.Skill)
		d.bus.Publish(signal.SynergyActivated, syn.ID)
		activated = append(activated, syn.ID)
	}
	if len(activated) > 0 {
		d.bus.Publish(signal.StatsChanged)
	}
	return activated
}

// UpgradeSkill raises an active synergy's combo skill by one level up to the
// skill's cap, applying its modifier effects.
func (d *Detector) UpgradeSkill(synergyID string) (int, bool) {
	if !d.state.HasSynergy(synergyID) {
		return 0, false
	}
	syn, ok := d.registry.Synergy(synergyID)
	if !ok {
		return 0, false
	}
	skill, ok := d.registry.Skill(syn.Skill)
	if !ok {
		return 0, false
	}
	level, ok := d.state.LevelSkill(skill.ID, skill.MaxLevel)
	if !ok {
		return 0, false
	}
	d.bus.Publish(signal.SkillUpgraded, skill.ID, level)
	if d.state.ApplyEffects(skill.EffectsAt(level), 1, "skill:"+skill.ID) > 0 {
		d.bus.Publish(signal.StatsChanged)
	}
	return level, true
}

func (d *Detector) onUpgradeRequested(args ...any) {
	if len(args) == 0 {
		return
	}
	id, ok := args[0].(string)
	if !ok {
		return
	}
	if _, ok := d.UpgradeSkill(id); !ok {
		d.log.Debug("synergy upgrade ignored", "synergy", id)
	}
}
