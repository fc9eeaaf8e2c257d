package progression

import "github.com/lawnchairsociety/draftforge/internal/modifier"

// Snapshot is a read-only copy of a state for selection surfaces.
type Snapshot struct {
	Player          Player                       `json:"player"`
	Weapons         []Weapon                     `json:"weapons"`
	Jobs            []string                     `json:"jobs"`
	Awakened        bool                         `json:"awakened"`
	Skills          map[string]int               `json:"skills"`
	PassiveTiers    map[string]int               `json:"passive_tiers"`
	ActiveSynergies []string                     `json:"active_synergies"`
	TakenMaluses    []string                     `json:"taken_maluses"`
	Modifiers       map[modifier.Channel]float64 `json:"modifiers"`
}

// Snapshot copies the state.
func (s *State) Snapshot() Snapshot {
	tiers := make(map[string]int, len(s.passive))
	for id, tier := range s.passive {
		tiers[id] = tier
	}
	return Snapshot{
		Player:          *s.player,
		Weapons:         s.Weapons(),
		Jobs:            s.Jobs(),
		Awakened:        s.awakened,
		Skills:          s.SkillLevels(),
		PassiveTiers:    tiers,
		ActiveSynergies: s.ActiveSynergies(),
		TakenMaluses:    s.TakenMaluses(),
		Modifiers:       s.modifiers.Snapshot(),
	}
}
