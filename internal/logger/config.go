package logger

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
}

// LoggingConfig wraps the Config for YAML parsing
type LoggingConfig struct {
	Logging Config `yaml:"logging"`
}

// DefaultConfig returns console-only text logging at INFO.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FileEnabled:    false,
		FilePath:       "logs/draftforge.log",
		FileFormat:     "json",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// LoadConfig loads logging configuration from a YAML file and applies
// DRAFTFORGE_LOG_* environment overrides. A missing file keeps the defaults;
// a file that exists but does not parse is reported.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			loaded := LoggingConfig{Logging: config}
			if err := yaml.Unmarshal(data, &loaded); err != nil {
				return applyEnv(config), fmt.Errorf("failed to parse logging config: %w", err)
			}
			config = mergeDefaults(loaded.Logging)
		case !os.IsNotExist(err):
			return applyEnv(config), fmt.Errorf("failed to read logging config: %w", err)
		}
	}

	return applyEnv(config), nil
}

// mergeDefaults restores defaults for fields left empty or non-positive.
func mergeDefaults(c Config) Config {
	d := DefaultConfig()
	if c.Level == "" {
		c.Level = d.Level
	}
	if c.ConsoleFormat == "" {
		c.ConsoleFormat = d.ConsoleFormat
	}
	if c.FilePath == "" {
		c.FilePath = d.FilePath
	}
	if c.FileFormat == "" {
		c.FileFormat = d.FileFormat
	}
	if c.FileMaxSizeMB <= 0 {
		c.FileMaxSizeMB = d.FileMaxSizeMB
	}
	if c.FileMaxBackups <= 0 {
		c.FileMaxBackups = d.FileMaxBackups
	}
	if c.FileMaxAgeDays <= 0 {
		c.FileMaxAgeDays = d.FileMaxAgeDays
	}
	return c
}

func applyEnv(config Config) Config {
	if logLevel := os.Getenv("DRAFTFORGE_LOG_LEVEL"); logLevel != "" {
		config.Level = logLevel
	}

	if consoleFormat := os.Getenv("DRAFTFORGE_LOG_CONSOLE_FORMAT"); consoleFormat != "" {
		config.ConsoleFormat = consoleFormat
	}

	if fileEnabled := os.Getenv("DRAFTFORGE_LOG_FILE_ENABLED"); fileEnabled != "" {
		if enabled, err := strconv.ParseBool(fileEnabled); err == nil {
			config.FileEnabled = enabled
		}
	}

	if filePath := os.Getenv("DRAFTFORGE_LOG_FILE_PATH"); filePath != "" {
		config.FilePath = filePath
	}

	return config
}
