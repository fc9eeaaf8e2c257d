// Package modifier holds the accumulated stat deltas the combat layer reads.
package modifier

import (
	"fmt"
	"sort"
)

// Kind says how effects compose on a channel.
type Kind int

const (
	// Additive channels start at 0 and effects add to them.
	Additive Kind = iota
	// Multiplicative channels start at 1.0 and effects multiply them.
	Multiplicative
)

// Channel names one independent numeric stat.
type Channel string

const (
	MaxHP           Channel = "max_hp"
	Armor           Channel = "armor"
	Regen           Channel = "regen"
	CritChance      Channel = "crit_chance"
	Dodge           Channel = "dodge"
	Lifesteal       Channel = "lifesteal"
	ProjectileCount Channel = "projectile_count"
	Luck            Channel = "luck"

	Damage      Channel = "damage"
	AttackSpeed Channel = "attack_speed"
	MoveSpeed   Channel = "move_speed"
	CritDamage  Channel = "crit_damage"
	Cooldown    Channel = "cooldown"
	Area        Channel = "area"
	PickupRange Channel = "pickup_range"
	XPGain      Channel = "xp_gain"
	Duration    Channel = "duration"
)

type channelInfo struct {
	kind    Kind
	label   string
	percent bool
}

// channels is fixed in code so a channel never changes meaning between effects.
var channels = map[Channel]channelInfo{
	MaxHP:           {Additive, "Max HP", false},
	Armor:           {Additive, "Armor", false},
	Regen:           {Additive, "HP Regen", false},
	CritChance:      {Additive, "Crit Chance", true},
	Dodge:           {Additive, "Dodge", true},
	Lifesteal:       {Additive, "Lifesteal", true},
	ProjectileCount: {Additive, "Projectiles", false},
	Luck:            {Additive, "Luck", false},

	Damage:      {Multiplicative, "Damage", true},
	AttackSpeed: {Multiplicative, "Attack Speed", true},
	MoveSpeed:   {Multiplicative, "Move Speed", true},
	CritDamage:  {Multiplicative, "Crit Damage", true},
	Cooldown:    {Multiplicative, "Cooldown", true},
	Area:        {Multiplicative, "Area", true},
	PickupRange: {Multiplicative, "Pickup Range", true},
	XPGain:      {Multiplicative, "XP Gain", true},
	Duration:    {Multiplicative, "Duration", true},
}

// IsValid reports whether the channel is known.
func (c Channel) IsValid() bool {
	_, ok := channels[c]
	return ok
}

// Kind returns the composition kind of the channel.
// Unknown channels are treated as additive.
func (c Channel) Kind() Kind {
	return channels[c].kind
}

// Baseline returns the neutral value of the channel.
func (c Channel) Baseline() float64 {
	if c.Kind() == Multiplicative {
		return 1.0
	}
	return 0
}

// Label returns the display name of the channel.
func (c Channel) Label() string {
	if info, ok := channels[c]; ok {
		return info.label
	}
	return string(c)
}

// ParseChannel validates a channel name from data files.
func ParseChannel(s string) (Channel, error) {
	c := Channel(s)
	if !c.IsValid() {
		return "", fmt.Errorf("unknown modifier channel: %s", s)
	}
	return c, nil
}

// AllChannels returns every known channel sorted by name.
func AllChannels() []Channel {
	result := make([]Channel, 0, len(channels))
	for c := range channels {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
