/*
Package config manages the TOML config of freqset.

The file is looked up at the path given with -config, then in the user
config directory, and otherwise builtin defaults are used. A file that does
not decode as a whole is recovered key by key: every well typed key is kept
and the rest fall back to their defaults.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/freqset/internal/utils"
	"github.com/bastiangx/freqset/pkg/dataset"
	"github.com/bastiangx/freqset/pkg/mining"
	"github.com/bastiangx/freqset/pkg/support"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Mining MiningConfig `toml:"mining"`
	Source SourceConfig `toml:"source"`
	Server ServerConfig `toml:"server"`
	CLI    CliConfig    `toml:"cli"`
}

// MiningConfig holds the engine options.
type MiningConfig struct {
	MinSupport float64 `toml:"min_support"`
	Threshold  string  `toml:"threshold"`
	Evaluator  string  `toml:"evaluator"`
	Workers    int     `toml:"workers"`
	MaxLevel   int     `toml:"max_level"`
	Prune      bool    `toml:"prune"`
}

// SourceConfig describes where transactions come from.
type SourceConfig struct {
	Path        string `toml:"path"`
	Format      string `toml:"format"`
	OnMalformed string `toml:"on_malformed"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxItemsets int `toml:"max_itemsets"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit int `toml:"default_limit"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", "freqset")
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "freqset")
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from -config flag
// 2. Default path: [UserConfigDir]/freqset/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err == nil {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
			log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}

	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}
	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Mining: MiningConfig{
			MinSupport: 0.05,
			Threshold:  support.Inclusive.String(),
			Evaluator:  support.VerticalName,
			Workers:    1,
			MaxLevel:   0,
			Prune:      true,
		},
		Source: SourceConfig{
			Path:        "data-2016.csv",
			Format:      "auto",
			OnMalformed: dataset.SkipMalformed.String(),
		},
		Server: ServerConfig{
			MaxItemsets: 10000,
		},
		CLI: CliConfig{
			DefaultLimit: 24,
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)
	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()
	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse recovers every well typed key of a TOML file.
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "mining"); ok {
		extractMiningConfig(section, &config.Mining)
	}
	if section, ok := utils.ExtractSection(tempConfig, "source"); ok {
		extractSourceConfig(section, &config.Source)
	}
	if section, ok := utils.ExtractSection(tempConfig, "server"); ok {
		if val, ok := utils.ExtractInt64(section, "max_itemsets"); ok {
			config.Server.MaxItemsets = val
		}
	}
	if section, ok := utils.ExtractSection(tempConfig, "cli"); ok {
		if val, ok := utils.ExtractInt64(section, "default_limit"); ok {
			config.CLI.DefaultLimit = val
		}
	}
	return config, nil
}

func extractMiningConfig(data map[string]any, m *MiningConfig) {
	if val, ok := utils.ExtractFloat(data, "min_support"); ok {
		m.MinSupport = val
	}
	if val, ok := utils.ExtractString(data, "threshold"); ok {
		m.Threshold = val
	}
	if val, ok := utils.ExtractString(data, "evaluator"); ok {
		m.Evaluator = val
	}
	if val, ok := utils.ExtractInt64(data, "workers"); ok {
		m.Workers = val
	}
	if val, ok := utils.ExtractInt64(data, "max_level"); ok {
		m.MaxLevel = val
	}
	if val, ok := utils.ExtractBool(data, "prune"); ok {
		m.Prune = val
	}
}

func extractSourceConfig(data map[string]any, s *SourceConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		s.Path = val
	}
	if val, ok := utils.ExtractString(data, "format"); ok {
		s.Format = val
	}
	if val, ok := utils.ExtractString(data, "on_malformed"); ok {
		s.OnMalformed = val
	}
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// MiningConfig converts the [mining] section into engine options.
func (c *Config) MiningConfig() (mining.Config, error) {
	policy, err := support.ParsePolicy(c.Mining.Threshold)
	if err != nil {
		return mining.Config{}, fmt.Errorf("%w: %w", mining.ErrInvalidConfig, err)
	}
	cfg := mining.Config{
		Threshold: support.Threshold{
			MinSupport: c.Mining.MinSupport,
			Policy:     policy,
		},
		Evaluator: c.Mining.Evaluator,
		Workers:   c.Mining.Workers,
		MaxLevel:  c.Mining.MaxLevel,
		NoPrune:   !c.Mining.Prune,
	}
	if err := cfg.Validate(); err != nil {
		return mining.Config{}, err
	}
	return cfg, nil
}

// LoadOptions converts the [source] section into dataset options.
func (c *Config) LoadOptions() (dataset.Options, error) {
	format, err := dataset.ParseFormat(c.Source.Format)
	if err != nil {
		return dataset.Options{}, err
	}
	policy, err := dataset.ParseMalformedPolicy(c.Source.OnMalformed)
	if err != nil {
		return dataset.Options{}, err
	}
	return dataset.Options{Format: format, OnMalformed: policy}, nil
}

// Validate checks every section, reporting all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.MiningConfig(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.LoadOptions(); err != nil {
		errs = append(errs, err)
	}
	if c.Source.Path == "" {
		errs = append(errs, errors.New("config: source path is empty"))
	}
	if c.Server.MaxItemsets < 0 {
		errs = append(errs, fmt.Errorf("config: server max_itemsets must not be negative, got %d", c.Server.MaxItemsets))
	}
	if c.CLI.DefaultLimit < 0 {
		errs = append(errs, fmt.Errorf("config: cli default_limit must not be negative, got %d", c.CLI.DefaultLimit))
	}
	return errors.Join(errs...)
}
