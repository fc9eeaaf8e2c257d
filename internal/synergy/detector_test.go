package synergy

import (
	"math"
	"testing"

	"github.com/lawnchairsociety/draftforge/internal/catalog"
	"github.com/lawnchairsociety/draftforge/internal/modifier"
	"github.com/lawnchairsociety/draftforge/internal/progression"
	"github.com/lawnchairsociety/draftforge/internal/signal"
)

func setup(t *testing.T) (*catalog.Registry, *progression.State, *signal.Bus, *Detector) {
	t.Helper()
	registry, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog.Default: %v", err)
	}
	state := progression.New(nil, progression.DefaultLimits())
	bus := signal.NewBus()
	return registry, state, bus, NewDetector(registry, state, bus)
}

func chooseJob(state *progression.State, bus *signal.Bus, id string) {
	state.AddJob(id)
	bus.Publish(signal.JobChosen, id)
}

func TestScenarioPairActivatesOnce(t *testing.T) {
	_, state, bus, _ := setup(t)
	var activated []string
	bus.Subscribe(signal.SynergyActivated, func(args ...any) { activated = append(activated, args[0].(string)) })

	chooseJob(state, bus, "knight")
	if len(state.ActiveSynergies()) != 0 {
		t.Fatalf("synergy active with one job: %v", state.ActiveSynergies())
	}
	chooseJob(state, bus, "mage")

	if got := state.ActiveSynergies(); len(got) != 1 || got[0] != "spellblade" {
		t.Fatalf("ActiveSynergies = %v, want [spellblade]", got)
	}
	if got := state.Modifiers().Get(modifier.Damage); math.Abs(got-1.1) > 1e-9 {
		t.Errorf("Damage = %v, want 1.1", got)
	}
	if got := state.SkillLevel("arcane_edge"); got != 1 {
		t.Errorf("arcane_edge level = %d, want 1", got)
	}

	// Repeated signals rescan but never reactivate.
	bus.Publish(signal.JobChosen, "mage")
	bus.Publish(signal.JobChosen, "knight")
	if len(state.ActiveSynergies()) != 1 || len(activated) != 1 {
		t.Errorf("synergy activated %d times, active %v", len(activated), state.ActiveSynergies())
	}
	if got := state.Modifiers().Get(modifier.Damage); math.Abs(got-1.1) > 1e-9 {
		t.Errorf("Damage after repeats = %v, want 1.1", got)
	}

	deltas := 0
	for _, d := range state.Modifiers().History() {
		if d.Source == "synergy:spellblade" {
			deltas++
		}
	}
	if deltas != 1 {
		t.Errorf("synergy deltas recorded %d times, want 1", deltas)
	}
}

func TestThirdJobActivatesSecondSynergy(t *testing.T) {
	_, state, bus, _ := setup(t)

	chooseJob(state, bus, "knight")
	chooseJob(state, bus, "mage")
	chooseJob(state, bus, "cleric")

	got := state.ActiveSynergies()
	if len(got) != 2 || got[0] != "spellblade" || got[1] != "holy_guard" {
		t.Errorf("ActiveSynergies = %v, want [spellblade holy_guard]", got)
	}
}

func TestUnrelatedJobsActivateNothing(t *testing.T) {
	_, state, bus, d := setup(t)
	chooseJob(state, bus, "knight")
	chooseJob(state, bus, "ranger")

	if got := d.Scan(); len(got) != 0 {
		t.Errorf("Scan = %v, want none", got)
	}
}

func TestUpgradeRequestLevelsComboSkill(t *testing.T) {
	registry, state, bus, _ := setup(t)
	chooseJob(state, bus, "knight")
	chooseJob(state, bus, "mage")

	skill, _ := registry.Skill("arcane_edge")
	for i := 0; i < skill.MaxLevel+2; i++ {
		bus.Publish(signal.SynergySkillUpgradeRequested, "spellblade")
	}
	if got := state.SkillLevel("arcane_edge"); got != skill.MaxLevel {
		t.Errorf("arcane_edge level = %d, want cap %d", got, skill.MaxLevel)
	}

	// Activation 1.1, then five upgrades of 1.05 each.
	want := 1.1 * math.Pow(1.05, float64(skill.MaxLevel-1))
	if got := state.Modifiers().Get(modifier.Damage); math.Abs(got-want) > 1e-9 {
		t.Errorf("Damage = %v, want %v", got, want)
	}
}

func TestUpgradeInactiveSynergyIgnored(t *testing.T) {
	_, state, bus, d := setup(t)

	if _, ok := d.UpgradeSkill("spellblade"); ok {
		t.Error("inactive synergy upgrade should fail")
	}
	bus.Publish(signal.SynergySkillUpgradeRequested, "spellblade")
	bus.Publish(signal.SynergySkillUpgradeRequested, 42)
	bus.Publish(signal.SynergySkillUpgradeRequested)
	if got := state.SkillLevel("arcane_edge"); got != 0 {
		t.Errorf("arcane_edge level = %d, want 0", got)
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	_, state, bus, d := setup(t)
	d.Close()

	chooseJob(state, bus, "knight")
	chooseJob(state, bus, "mage")
	if len(state.ActiveSynergies()) != 0 {
		t.Error("closed detector should not activate synergies")
	}
}
