package progression

import (
	"testing"

	"github.com/lawnchairsociety/draftforge/internal/modifier"
)

func newTestState() *State {
	return New(&Player{Level: 1}, Limits{MaxWeapons: 2, MaxJobs: 3})
}

func TestAddWeaponRespectsCap(t *testing.T) {
	s := newTestState()

	if !s.AddWeapon("longsword") {
		t.Fatal("first AddWeapon failed")
	}
	if s.AddWeapon("longsword") {
		t.Error("duplicate weapon type should be rejected")
	}
	if !s.AddWeapon("bow") {
		t.Fatal("second AddWeapon failed")
	}
	if s.AddWeapon("staff") {
		t.Error("AddWeapon beyond MaxWeapons should fail")
	}
	if s.WeaponCount() != 2 {
		t.Errorf("WeaponCount = %d, want 2", s.WeaponCount())
	}
}

func TestUpgradeWeaponCapsAtFive(t *testing.T) {
	s := newTestState()
	s.AddWeapon("longsword")

	level, ok := s.UpgradeWeapon("longsword", 2)
	if !ok || level != 3 {
		t.Errorf("UpgradeWeapon(+2) = %d, %v; want 3, true", level, ok)
	}
	level, ok = s.UpgradeWeapon("longsword", 4)
	if !ok || level != MaxWeaponLevel {
		t.Errorf("UpgradeWeapon(+4) = %d, %v; want %d, true", level, ok, MaxWeaponLevel)
	}
	if _, ok := s.UpgradeWeapon("longsword", 1); ok {
		t.Error("UpgradeWeapon at cap should be a no-op")
	}
	if _, ok := s.UpgradeWeapon("bow", 1); ok {
		t.Error("UpgradeWeapon on unowned weapon should be a no-op")
	}
}

func TestEnchantLifecycle(t *testing.T) {
	s := newTestState()
	s.AddWeapon("dagger")

	if !s.AttachEnchant("dagger", "venom", 7) {
		t.Fatal("AttachEnchant failed")
	}
	w, _ := s.Weapon("dagger")
	if w.Enchant.Tier != MaxEnchantTier {
		t.Errorf("tier = %d, want clamp to %d", w.Enchant.Tier, MaxEnchantTier)
	}
	if s.AttachEnchant("dagger", "thunder", 1) {
		t.Error("second enchant should be rejected")
	}
	if _, ok := s.UpgradeEnchant("dagger", 1); ok {
		t.Error("UpgradeEnchant at cap should be a no-op")
	}
}

func TestUpgradeEnchantClamps(t *testing.T) {
	s := newTestState()
	s.AddWeapon("dagger")
	s.AttachEnchant("dagger", "venom", 1)

	tier, ok := s.UpgradeEnchant("dagger", 5)
	if !ok || tier != 3 {
		t.Errorf("UpgradeEnchant = %d, %v; want 3, true", tier, ok)
	}
}

func TestElementUpgrades(t *testing.T) {
	s := newTestState()
	s.AddWeapon("bow")

	if s.AddElementUpgrade("bow", "wildfire", 3) {
		t.Error("upgrade without element should be rejected")
	}
	if !s.AttachElement("bow", "fire") {
		t.Fatal("AttachElement failed")
	}
	if s.AttachElement("bow", "ice") {
		t.Error("second element should be rejected")
	}

	for _, id := range []string{"wildfire", "inferno"} {
		if !s.AddElementUpgrade("bow", id, 2) {
			t.Errorf("AddElementUpgrade(%s) failed", id)
		}
	}
	if s.AddElementUpgrade("bow", "wildfire", 3) {
		t.Error("duplicate upgrade should be rejected")
	}
	if s.AddElementUpgrade("bow", "ember_trail", 2) {
		t.Error("upgrade beyond limit should be rejected")
	}

	w, _ := s.Weapon("bow")
	w.Element.Upgrades[0] = "mutated"
	again, _ := s.Weapon("bow")
	if again.Element.Upgrades[0] != "wildfire" {
		t.Error("Weapon should return a copy")
	}
}

func TestJobsAndAwakening(t *testing.T) {
	s := newTestState()

	s.AddJob("knight")
	s.AddJob("mage")
	if s.AddJob("knight") {
		t.Error("duplicate job should be rejected")
	}
	if !s.Awaken() {
		t.Fatal("Awaken failed")
	}
	if s.Awaken() {
		t.Error("second Awaken should be a no-op")
	}
	if s.AddJob("rogue") {
		t.Error("awakening should lock the roster")
	}
	if len(s.Jobs()) != 2 {
		t.Errorf("Jobs = %v, want 2 jobs", s.Jobs())
	}
}

func TestJobRosterCap(t *testing.T) {
	s := New(nil, Limits{MaxWeapons: 6, MaxJobs: 1})
	s.AddJob("knight")
	if s.AddJob("mage") {
		t.Error("AddJob beyond MaxJobs should fail")
	}
	if s.Level() != 1 {
		t.Errorf("default player level = %d, want 1", s.Level())
	}
}

func TestLevelSkill(t *testing.T) {
	s := newTestState()

	for i := 1; i <= 3; i++ {
		level, ok := s.LevelSkill("cleave", 3)
		if !ok || level != i {
			t.Errorf("LevelSkill #%d = %d, %v", i, level, ok)
		}
	}
	if _, ok := s.LevelSkill("cleave", 3); ok {
		t.Error("LevelSkill at cap should be a no-op")
	}
}

func TestPassiveTiers(t *testing.T) {
	s := newTestState()

	if _, ok := s.AdvancePassive("knight", 2); ok {
		t.Error("advancing an ungranted passive should fail")
	}
	s.GrantPassive("knight")
	if tier, ok := s.PassiveTier("knight"); !ok || tier != 0 {
		t.Errorf("PassiveTier = %d, %v; want 0, true", tier, ok)
	}
	s.AdvancePassive("knight", 2)
	s.AdvancePassive("knight", 2)
	if _, ok := s.AdvancePassive("knight", 2); ok {
		t.Error("AdvancePassive beyond limit should fail")
	}
	if tier, _ := s.PassiveTier("knight"); tier != 2 {
		t.Errorf("tier = %d, want 2", tier)
	}
}

func TestSynergiesAndMalusesAreUnique(t *testing.T) {
	s := newTestState()

	if !s.ActivateSynergy("spellblade") || s.ActivateSynergy("spellblade") {
		t.Error("synergy should activate exactly once")
	}
	if !s.TakeMalus("greed") || s.TakeMalus("greed") {
		t.Error("malus should be taken exactly once")
	}
	if len(s.ActiveSynergies()) != 1 || len(s.TakenMaluses()) != 1 {
		t.Errorf("synergies %v, maluses %v", s.ActiveSynergies(), s.TakenMaluses())
	}
}

func TestApplyEffects(t *testing.T) {
	s := newTestState()
	s.ApplyEffects([]modifier.Effect{{Channel: modifier.MaxHP, Amount: 10}}, 1.5, "test")

	if got := s.Modifiers().Get(modifier.MaxHP); got != 15 {
		t.Errorf("MaxHP = %v, want 15", got)
	}
	snap := s.Snapshot()
	if snap.Modifiers[modifier.MaxHP] != 15 {
		t.Errorf("snapshot MaxHP = %v, want 15", snap.Modifiers[modifier.MaxHP])
	}
}
