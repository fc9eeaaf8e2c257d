package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lawnchairsociety/draftforge/internal/modifier"
)

//go:embed default.yaml
var defaultCatalog []byte

// JobDefinition represents a job in the YAML file.
type JobDefinition struct {
	Name          string              `yaml:"name"`
	Description   string              `yaml:"description"`
	Weapon        string              `yaml:"weapon"`
	Skills        []string            `yaml:"skills"`
	MasterySkills []string            `yaml:"mastery_skills"`
	Passive       []modifier.Effect   `yaml:"passive"`
	Tiers         [][]modifier.Effect `yaml:"tiers"`
}

// SkillDefinition represents a skill in the YAML file.
type SkillDefinition struct {
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description"`
	Job         string                    `yaml:"job"`
	Kind        string                    `yaml:"kind"`
	MaxLevel    int                       `yaml:"max_level"`
	Mastery     bool                      `yaml:"mastery"`
	Effects     []modifier.Effect         `yaml:"effects"`
	LevelBonus  map[int][]modifier.Effect `yaml:"level_bonus"`
}

// ItemDefinition represents a weapon or enchant in the YAML file.
type ItemDefinition struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ElementUpgradeDefinition represents one element upgrade in the YAML file.
type ElementUpgradeDefinition struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ElementDefinition represents an element in the YAML file.
type ElementDefinition struct {
	Name        string                     `yaml:"name"`
	Description string                     `yaml:"description"`
	Upgrades    []ElementUpgradeDefinition `yaml:"upgrades"`
}

// MalusDefinition represents a trade-off card in the YAML file.
type MalusDefinition struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Bonus       []modifier.Effect `yaml:"bonus"`
	Malus       []modifier.Effect `yaml:"malus"`
}

// BoostDefinition represents a stat boost or range card in the YAML file.
type BoostDefinition struct {
	Name    string            `yaml:"name"`
	Effects []modifier.Effect `yaml:"effects"`
}

// SynergyDefinition represents a synergy in the YAML file.
type SynergyDefinition struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Jobs        []string          `yaml:"jobs"`
	Skill       string            `yaml:"skill"`
	Effects     []modifier.Effect `yaml:"effects"`
	Supersedes  []string          `yaml:"supersedes"`
}

// CatalogConfig represents the structure of a catalog YAML file.
type CatalogConfig struct {
	Jobs       map[string]JobDefinition     `yaml:"jobs"`
	Skills     map[string]SkillDefinition   `yaml:"skills"`
	Weapons    map[string]ItemDefinition    `yaml:"weapons"`
	Enchants   map[string]ItemDefinition    `yaml:"enchants"`
	Elements   map[string]ElementDefinition `yaml:"elements"`
	Maluses    map[string]MalusDefinition   `yaml:"maluses"`
	StatBoosts map[string]BoostDefinition   `yaml:"stat_boosts"`
	RangeCards map[string]BoostDefinition   `yaml:"range_cards"`
	Synergies  map[string]SynergyDefinition `yaml:"synergies"`
}

// ParseCatalog decodes catalog YAML.
func ParseCatalog(data []byte) (*CatalogConfig, error) {
	var config CatalogConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	return &config, nil
}

// LoadFromYAML loads and validates a catalog from a YAML file.
func LoadFromYAML(filename string) (*Registry, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Load(data)
}

// Default returns the catalog embedded in the binary.
func Default() (*Registry, error) {
	return Load(defaultCatalog)
}

// Load builds and validates a registry from catalog YAML.
func Load(data []byte) (*Registry, error) {
	config, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	r := NewRegistry(config)
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return r, nil
}

func createJob(id string, def JobDefinition) *Job {
	return &Job{
		ID:            id,
		Name:          def.Name,
		Description:   def.Description,
		Weapon:        def.Weapon,
		Skills:        def.Skills,
		MasterySkills: def.MasterySkills,
		Passive:       def.Passive,
		Tiers:         def.Tiers,
	}
}

func createSkill(id string, def SkillDefinition) *Skill {
	kind := SkillKind(def.Kind)
	if kind == "" {
		kind = SkillActive
	}
	return &Skill{
		ID:          id,
		Name:        def.Name,
		Description: def.Description,
		Job:         def.Job,
		Kind:        kind,
		MaxLevel:    def.MaxLevel,
		Mastery:     def.Mastery,
		Effects:     def.Effects,
		LevelBonus:  def.LevelBonus,
	}
}

func createElement(id string, def ElementDefinition) *Element {
	upgrades := make([]ElementUpgrade, len(def.Upgrades))
	for i, u := range def.Upgrades {
		upgrades[i] = ElementUpgrade{ID: u.ID, Name: u.Name, Description: u.Description}
	}
	return &Element{
		ID:          id,
		Name:        def.Name,
		Description: def.Description,
		Upgrades:    upgrades,
	}
}

func createSynergy(id string, def SynergyDefinition) *Synergy {
	s := &Synergy{
		ID:          id,
		Name:        def.Name,
		Description: def.Description,
		Skill:       def.Skill,
		Effects:     def.Effects,
		Supersedes:  def.Supersedes,
	}
	copy(s.Jobs[:], def.Jobs)
	return s
}
