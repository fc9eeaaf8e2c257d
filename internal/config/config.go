package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds engine and surface configuration.
type ServerConfig struct {
	Engine      EngineConfig      `yaml:"engine"`
	WebSocket   WebSocketConfig   `yaml:"websocket"`
	Connections ConnectionsConfig `yaml:"connections"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Journal     JournalConfig     `yaml:"journal"`
}

// EngineConfig holds the card generation and roster tuning.
type EngineConfig struct {
	// MaxWeapons bounds the number of owned weapon instances.
	MaxWeapons int `yaml:"max_weapons"`

	// MaxJobs bounds the job roster. Awakening locks it at two.
	MaxJobs int `yaml:"max_jobs"`

	// MalusMinLevel is the player level above which trade-off cards appear.
	MalusMinLevel int `yaml:"malus_min_level"`

	// PoolAttempts is the number of candidate draws per offer.
	PoolAttempts int `yaml:"pool_attempts"`

	// PoolFactor stops drawing once the pool holds PoolFactor*count cards.
	PoolFactor int `yaml:"pool_factor"`

	// RangeCardChance is the chance a stat boost becomes a range card.
	RangeCardChance float64 `yaml:"range_card_chance"`

	// CategoryWeights overrides the selection weight per card category.
	// Missing categories keep their default weight; 0 disables a category.
	CategoryWeights map[string]int `yaml:"category_weights"`

	// Rarity holds the per-source rarity bonuses.
	Rarity RarityConfig `yaml:"rarity"`
}

// RarityConfig holds the bonus added to rare, epic and legendary odds.
type RarityConfig struct {
	ChestBonus float64 `yaml:"chest_bonus"`
	EliteBonus float64 `yaml:"elite_bonus"`
}

// ConnectionsConfig holds connection limit settings.
type ConnectionsConfig struct {
	// MaxPerIP is the maximum concurrent sessions from a single IP address.
	// 0 means unlimited.
	MaxPerIP int `yaml:"max_per_ip"`

	// MaxTotal is the maximum total concurrent sessions. 0 means unlimited.
	MaxTotal int `yaml:"max_total"`
}

// RateLimitConfig holds the malformed request lockout settings.
type RateLimitConfig struct {
	// MaxAttempts is the number of rejected requests before an IP is locked out.
	MaxAttempts int `yaml:"max_attempts"`

	// LockoutSeconds is the first lockout duration. It doubles on each
	// repeated lockout up to MaxLockoutSeconds.
	LockoutSeconds    int `yaml:"lockout_seconds"`
	MaxLockoutSeconds int `yaml:"max_lockout_seconds"`
}

// WebSocketConfig holds WebSocket-specific settings.
type WebSocketConfig struct {
	// AllowedOrigins is a list of origins allowed to connect via WebSocket.
	// Empty list enforces same-origin policy.
	// Use "*" to allow all origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// MaxMessageSize is the maximum WebSocket message size in bytes.
	MaxMessageSize int64 `yaml:"max_message_size"`
}

// JournalConfig selects where runs and picks are recorded.
type JournalConfig struct {
	// Enabled turns the journal on.
	Enabled bool `yaml:"enabled"`

	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`

	SQLitePath string         `yaml:"sqlite_path"`
	Postgres   PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL connection settings for the journal.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// DefaultConfig returns a ServerConfig with the standard tuning.
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Engine: EngineConfig{
			MaxWeapons:      6,
			MaxJobs:         3,
			MalusMinLevel:   5,
			PoolAttempts:    50,
			PoolFactor:      3,
			RangeCardChance: 0.2,
			CategoryWeights: map[string]int{},
			Rarity: RarityConfig{
				ChestBonus: 0.05,
				EliteBonus: 0.10,
			},
		},
		WebSocket: WebSocketConfig{
			AllowedOrigins: []string{}, // Same-origin only by default
			MaxMessageSize: 4096,
		},
		Connections: ConnectionsConfig{
			MaxPerIP: 3,
			MaxTotal: 100,
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:       10,
			LockoutSeconds:    30,
			MaxLockoutSeconds: 300,
		},
		Journal: JournalConfig{
			Enabled:    false,
			Driver:     "sqlite",
			SQLitePath: "data/journal.db",
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    5432,
				SSLMode: "disable",
			},
		},
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*ServerConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// Validate checks the tuning values for consistency.
func (c *ServerConfig) Validate() error {
	var errs []error
	e := c.Engine

	if e.MaxWeapons < 1 {
		errs = append(errs, errors.New("engine.max_weapons must be at least 1"))
	}
	if e.MaxJobs < 1 {
		errs = append(errs, errors.New("engine.max_jobs must be at least 1"))
	}
	if e.PoolAttempts < 1 {
		errs = append(errs, errors.New("engine.pool_attempts must be at least 1"))
	}
	if e.PoolFactor < 1 {
		errs = append(errs, errors.New("engine.pool_factor must be at least 1"))
	}
	if e.RangeCardChance < 0 || e.RangeCardChance > 1 {
		errs = append(errs, fmt.Errorf("engine.range_card_chance %v outside [0,1]", e.RangeCardChance))
	}
	if e.Rarity.ChestBonus < 0 || e.Rarity.EliteBonus < 0 {
		errs = append(errs, errors.New("engine.rarity bonuses must not be negative"))
	}
	if e.Rarity.ChestBonus >= e.Rarity.EliteBonus && e.Rarity.EliteBonus > 0 {
		errs = append(errs, errors.New("engine.rarity.chest_bonus must be below elite_bonus"))
	}
	for name, w := range e.CategoryWeights {
		if w < 0 {
			errs = append(errs, fmt.Errorf("engine.category_weights.%s must not be negative", name))
		}
	}

	if c.RateLimit.MaxAttempts < 0 || c.RateLimit.LockoutSeconds < 0 || c.RateLimit.MaxLockoutSeconds < 0 {
		errs = append(errs, errors.New("rate_limit values must not be negative"))
	}

	switch c.Journal.Driver {
	case "", "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("journal.driver %q must be sqlite or postgres", c.Journal.Driver))
	}

	return errors.Join(errs...)
}

// IsOriginAllowed checks if the given origin is allowed based on the config.
// Returns true if:
// - AllowedOrigins contains "*" (allow all)
// - AllowedOrigins contains the exact origin
// - AllowedOrigins is empty and origin matches the request host (same-origin)
func (c *WebSocketConfig) IsOriginAllowed(origin, requestHost string) bool {
	if len(c.AllowedOrigins) == 0 {
		return isSameOrigin(origin, requestHost)
	}

	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	return false
}

// isSameOrigin checks if the origin matches the request host.
func isSameOrigin(origin, requestHost string) bool {
	if origin == "" {
		return true // No origin header means a non-browser client
	}

	originHost := origin
	if idx := strings.Index(origin, "://"); idx != -1 {
		originHost = origin[idx+3:]
	}
	originHost = strings.TrimSuffix(originHost, "/")

	return originHost == requestHost
}
