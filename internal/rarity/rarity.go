// Package rarity defines card rarity tiers and the level-scaled roller.
package rarity

import (
	"fmt"
	"strings"
)

// Rarity is an ordered card quality tier.
type Rarity int

const (
	Common Rarity = iota
	Rare
	Epic
	Legendary
)

// All returns every rarity from most common to rarest.
func All() []Rarity {
	return []Rarity{Common, Rare, Epic, Legendary}
}

// Multiplier scales numeric effect magnitudes.
func (r Rarity) Multiplier() float64 {
	switch r {
	case Rare:
		return 1.5
	case Epic:
		return 2.0
	case Legendary:
		return 3.0
	default:
		return 1.0
	}
}

// String returns the display name.
func (r Rarity) String() string {
	switch r {
	case Common:
		return "Common"
	case Rare:
		return "Rare"
	case Epic:
		return "Epic"
	case Legendary:
		return "Legendary"
	default:
		return "Unknown"
	}
}

// Color returns the display colour as a hex string. Cosmetic only.
func (r Rarity) Color() string {
	switch r {
	case Rare:
		return "#4a90e2"
	case Epic:
		return "#a335ee"
	case Legendary:
		return "#ff8000"
	default:
		return "#cccccc"
	}
}

// AtLeast reports whether r is the same tier as other or rarer.
func (r Rarity) AtLeast(other Rarity) bool {
	return r >= other
}

// MarshalText encodes the rarity by name.
func (r Rarity) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(r.String())), nil
}

// UnmarshalText decodes a rarity name.
func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Parse parses a rarity name, case-insensitive.
func Parse(s string) (Rarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "common":
		return Common, nil
	case "rare":
		return Rare, nil
	case "epic":
		return Epic, nil
	case "legendary":
		return Legendary, nil
	default:
		return Common, fmt.Errorf("unknown rarity: %s", s)
	}
}

// Source identifies what triggered a card offer.
type Source string

const (
	SourceLevelUp Source = "levelup"
	SourceChest   Source = "chest"
	SourceElite   Source = "elite"
)

// ParseSource parses an offer source, case-insensitive.
func ParseSource(s string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceLevelUp:
		return SourceLevelUp, nil
	case SourceChest:
		return SourceChest, nil
	case SourceElite:
		return SourceElite, nil
	default:
		return "", fmt.Errorf("unknown offer source: %s", s)
	}
}
