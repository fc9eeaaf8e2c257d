package progression

// MaxWeaponLevel is the level cap of every weapon instance.
const MaxWeaponLevel = 5

// MaxEnchantTier is the tier cap of a weapon enchant.
const MaxEnchantTier = 3

// Enchant is the enchant attached to a weapon. Tier 0 means none.
type Enchant struct {
	ID   string `json:"id,omitempty"`
	Tier int    `json:"tier"`
}

// Element is the element attached to a weapon with its taken upgrades.
type Element struct {
	ID       string   `json:"id,omitempty"`
	Upgrades []string `json:"upgrades,omitempty"`
}

// HasUpgrade reports whether the upgrade was already taken.
func (e Element) HasUpgrade(id string) bool {
	for _, u := range e.Upgrades {
		if u == id {
			return true
		}
	}
	return false
}

// Weapon is one owned weapon instance, identified by its weapon type.
type Weapon struct {
	ID      string  `json:"id"`
	Level   int     `json:"level"`
	Enchant Enchant `json:"enchant"`
	Element Element `json:"element"`
}

// HasEnchant reports whether an enchant is attached.
func (w Weapon) HasEnchant() bool {
	return w.Enchant.ID != "" && w.Enchant.Tier > 0
}

// HasElement reports whether an element is attached.
func (w Weapon) HasElement() bool {
	return w.Element.ID != ""
}

// IsMaxLevel reports whether the weapon reached the level cap.
func (w Weapon) IsMaxLevel() bool {
	return w.Level >= MaxWeaponLevel
}

// clone returns a deep copy safe to hand to callers.
func (w *Weapon) clone() Weapon {
	c := *w
	c.Element.Upgrades = append([]string(nil), w.Element.Upgrades...)
	return c
}
