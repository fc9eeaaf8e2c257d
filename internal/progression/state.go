// Package progression holds the per-session build: weapons, jobs, skills,
// passive tiers, synergies, trade-offs and the modifier aggregate.
package progression

import (
	"github.com/lawnchairsociety/draftforge/internal/modifier"
)

// Player is the subset of the external player entity the engine reads.
type Player struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
	HP    int `json:"hp"`
	Kills int `json:"kills"`
}

// Limits bounds the collections of a state.
type Limits struct {
	MaxWeapons int
	MaxJobs    int
}

// DefaultLimits returns the standard roster sizes.
func DefaultLimits() Limits {
	return Limits{MaxWeapons: 6, MaxJobs: 3}
}

// Reader is the query side of a progression state.
type Reader interface {
	Level() int
	Limits() Limits
	Weapons() []Weapon
	Weapon(id string) (Weapon, bool)
	CanAddWeapon() bool
	Jobs() []string
	HasJob(id string) bool
	Awakened() bool
	SkillLevel(id string) int
	PassiveTier(jobID string) (int, bool)
	ActiveSynergies() []string
	HasSynergy(id string) bool
	HasTakenMalus(id string) bool
}

// State is the progression state of one play session. It is not safe for
// concurrent use; a session mutates it from a single goroutine.
type State struct {
	player    *Player
	modifiers *modifier.Aggregate
	limits    Limits

	weapons   []*Weapon
	jobs      []string
	awakened  bool
	skills    map[string]int
	passive   map[string]int
	synergies []string
	maluses   []string
}

// New creates an empty state for the given player.
func New(player *Player, limits Limits) *State {
	if player == nil {
		player = &Player{Level: 1}
	}
	return &State{
		player:    player,
		modifiers: modifier.NewAggregate(),
		limits:    limits,
		skills:    make(map[string]int),
		passive:   make(map[string]int),
	}
}

// Player returns the referenced player entity.
func (s *State) Player() *Player { return s.player }

// Level returns the player level.
func (s *State) Level() int { return s.player.Level }

// Limits returns the collection bounds.
func (s *State) Limits() Limits { return s.limits }

// Modifiers returns the modifier aggregate.
func (s *State) Modifiers() *modifier.Aggregate { return s.modifiers }

// ApplyEffects scales effects by mult and reduces them into the aggregate.
func (s *State) ApplyEffects(effects []modifier.Effect, mult float64, source string) int {
	if len(effects) == 0 {
		return 0
	}
	return s.modifiers.Apply(modifier.Deltas(effects, mult, source)...)
}

// Weapons

// Weapons returns copies of the owned weapons in acquisition order.
func (s *State) Weapons() []Weapon {
	result := make([]Weapon, 0, len(s.weapons))
	for _, w := range s.weapons {
		result = append(result, w.clone())
	}
	return result
}

// Weapon returns a copy of an owned weapon.
func (s *State) Weapon(id string) (Weapon, bool) {
	if w := s.weapon(id); w != nil {
		return w.clone(), true
	}
	return Weapon{}, false
}

func (s *State) weapon(id string) *Weapon {
	for _, w := range s.weapons {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// OwnsWeapon reports whether the weapon type is owned.
func (s *State) OwnsWeapon(id string) bool { return s.weapon(id) != nil }

// WeaponCount returns the number of owned weapons.
func (s *State) WeaponCount() int { return len(s.weapons) }

// CanAddWeapon reports whether the roster has room for another weapon.
func (s *State) CanAddWeapon() bool { return len(s.weapons) < s.limits.MaxWeapons }

// AddWeapon grants a weapon at level 1.
func (s *State) AddWeapon(id string) bool {
	if id == "" || s.OwnsWeapon(id) || !s.CanAddWeapon() {
		return false
	}
	s.weapons = append(s.weapons, &Weapon{ID: id, Level: 1})
	return true
}

// UpgradeWeapon adds levels up to the cap and returns the new level.
func (s *State) UpgradeWeapon(id string, levels int) (int, bool) {
	w := s.weapon(id)
	if w == nil || levels < 1 || w.IsMaxLevel() {
		return 0, false
	}
	w.Level = min(w.Level+levels, MaxWeaponLevel)
	return w.Level, true
}

// AttachEnchant attaches an enchant to a weapon that has none.
func (s *State) AttachEnchant(weaponID, enchantID string, tier int) bool {
	w := s.weapon(weaponID)
	if w == nil || enchantID == "" || w.HasEnchant() {
		return false
	}
	w.Enchant = Enchant{ID: enchantID, Tier: clamp(tier, 1, MaxEnchantTier)}
	return true
}

// UpgradeEnchant raises an enchant tier up to the cap and returns the new tier.
func (s *State) UpgradeEnchant(weaponID string, tiers int) (int, bool) {
	w := s.weapon(weaponID)
	if w == nil || !w.HasEnchant() || tiers < 1 || w.Enchant.Tier >= MaxEnchantTier {
		return 0, false
	}
	w.Enchant.Tier = min(w.Enchant.Tier+tiers, MaxEnchantTier)
	return w.Enchant.Tier, true
}

// AttachElement attaches an element with an empty upgrade list.
func (s *State) AttachElement(weaponID, elementID string) bool {
	w := s.weapon(weaponID)
	if w == nil || elementID == "" || w.HasElement() {
		return false
	}
	w.Element = Element{ID: elementID}
	return true
}

// AddElementUpgrade appends an upgrade once, bounded by limit.
func (s *State) AddElementUpgrade(weaponID, upgradeID string, limit int) bool {
	w := s.weapon(weaponID)
	if w == nil || !w.HasElement() || upgradeID == "" {
		return false
	}
	if w.Element.HasUpgrade(upgradeID) || len(w.Element.Upgrades) >= limit {
		return false
	}
	w.Element.Upgrades = append(w.Element.Upgrades, upgradeID)
	return true
}

// Jobs

// Jobs returns the chosen jobs in pick order.
func (s *State) Jobs() []string { return append([]string(nil), s.jobs...) }

// HasJob reports whether the job was chosen.
func (s *State) HasJob(id string) bool { return contains(s.jobs, id) }

// Awakened reports whether the roster was locked by awakening.
func (s *State) Awakened() bool { return s.awakened }

// CanChooseJob reports whether another job can join the roster.
func (s *State) CanChooseJob() bool {
	return !s.awakened && len(s.jobs) < s.limits.MaxJobs
}

// AddJob appends a job to the roster.
func (s *State) AddJob(id string) bool {
	if id == "" || s.HasJob(id) || !s.CanChooseJob() {
		return false
	}
	s.jobs = append(s.jobs, id)
	return true
}

// Awaken locks the job roster.
func (s *State) Awaken() bool {
	if s.awakened {
		return false
	}
	s.awakened = true
	return true
}

// Skills

// SkillLevel returns the level of a skill, 0 when unlearned.
func (s *State) SkillLevel(id string) int { return s.skills[id] }

// SkillLevels returns a copy of every learned skill level.
func (s *State) SkillLevels() map[string]int {
	result := make(map[string]int, len(s.skills))
	for id, level := range s.skills {
		result[id] = level
	}
	return result
}

// LevelSkill raises a skill by one level up to limit and returns the new level.
func (s *State) LevelSkill(id string, limit int) (int, bool) {
	if id == "" || s.skills[id] >= limit {
		return 0, false
	}
	s.skills[id]++
	return s.skills[id], true
}

// Passive tiers

// PassiveTier returns a job's passive tier and whether it was granted.
func (s *State) PassiveTier(jobID string) (int, bool) {
	tier, ok := s.passive[jobID]
	return tier, ok
}

// GrantPassive starts a job's passive at tier 0.
func (s *State) GrantPassive(jobID string) bool {
	if _, ok := s.passive[jobID]; ok || jobID == "" {
		return false
	}
	s.passive[jobID] = 0
	return true
}

// AdvancePassive raises a granted passive by one tier up to limit.
func (s *State) AdvancePassive(jobID string, limit int) (int, bool) {
	tier, ok := s.passive[jobID]
	if !ok || tier >= limit {
		return tier, false
	}
	s.passive[jobID] = tier + 1
	return tier + 1, true
}

// Synergies

// ActiveSynergies returns active synergy IDs in activation order.
func (s *State) ActiveSynergies() []string { return append([]string(nil), s.synergies...) }

// HasSynergy reports whether a synergy is active.
func (s *State) HasSynergy(id string) bool { return contains(s.synergies, id) }

// ActivateSynergy records a synergy once.
func (s *State) ActivateSynergy(id string) bool {
	if id == "" || s.HasSynergy(id) {
		return false
	}
	s.synergies = append(s.synergies, id)
	return true
}

// Trade-offs

// TakenMaluses returns taken trade-off IDs in pick order.
func (s *State) TakenMaluses() []string { return append([]string(nil), s.maluses...) }

// HasTakenMalus reports whether a trade-off was already taken.
func (s *State) HasTakenMalus(id string) bool { return contains(s.maluses, id) }

// TakeMalus records a trade-off once.
func (s *State) TakeMalus(id string) bool {
	if id == "" || s.HasTakenMalus(id) {
		return false
	}
	s.maluses = append(s.maluses, id)
	return true
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
