/*
Package config manages the TOML config shared by the wordrank server and CLI.
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/wordrank/internal/utils"
	"github.com/bastiangx/wordrank/pkg/autocomplete"
	"github.com/charmbracelet/log"
)

const appName = "wordrank"

// Config holds the entire config structure
type Config struct {
	Server ServerConfig `toml:"server"`
	Index  IndexConfig  `toml:"index"`
	CLI    CliConfig    `toml:"cli"`
}

// ServerConfig has server related options.
type ServerConfig struct {
	MaxLimit     int  `toml:"max_limit"`
	DefaultLimit int  `toml:"default_limit"`
	MinPrefix    int  `toml:"min_prefix"`
	MaxPrefix    int  `toml:"max_prefix"`
	EnableCache  bool `toml:"enable_cache"`
	CacheSize    int  `toml:"cache_size"`
	MetricsPort  int  `toml:"metrics_port"`
}

// IndexConfig selects the index implementation and its vocabulary.
type IndexConfig struct {
	Kind       string   `toml:"kind"`
	Dictionary []string `toml:"dictionary"`
}

// CliConfig holds cli interface options.
type CliConfig struct {
	DefaultLimit    int  `toml:"default_limit"`
	DefaultMinLen   int  `toml:"default_min_len"`
	DefaultMaxLen   int  `toml:"default_max_len"`
	DefaultNoFilter bool `toml:"default_no_filter"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			MaxLimit:     64,
			DefaultLimit: 10,
			MinPrefix:    0,
			MaxPrefix:    60,
			EnableCache:  true,
			CacheSize:    4096,
			MetricsPort:  0,
		},
		Index: IndexConfig{
			Kind:       string(autocomplete.KindTrie),
			Dictionary: []string{"data/words.txt"},
		},
		CLI: CliConfig{
			DefaultLimit:    10,
			DefaultMinLen:   1,
			DefaultMaxLen:   60,
			DefaultNoFilter: false,
		},
	}
}

// Validate reports every inconsistent value at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := autocomplete.ParseKind(c.Index.Kind); err != nil {
		errs = append(errs, fmt.Errorf("index.kind: %w", err))
	}
	if len(c.Index.Dictionary) == 0 {
		errs = append(errs, errors.New("index.dictionary: at least one file is required"))
	}
	s := c.Server
	if s.MaxLimit < 1 {
		errs = append(errs, fmt.Errorf("server.max_limit must be positive, got %d", s.MaxLimit))
	}
	if s.DefaultLimit < 1 || s.DefaultLimit > s.MaxLimit {
		errs = append(errs, fmt.Errorf("server.default_limit must be in [1, %d], got %d", s.MaxLimit, s.DefaultLimit))
	}
	if s.MinPrefix < 0 || s.MaxPrefix < s.MinPrefix {
		errs = append(errs, fmt.Errorf("server prefix bounds [%d, %d] are inconsistent", s.MinPrefix, s.MaxPrefix))
	}
	if s.EnableCache && s.CacheSize < 1 {
		errs = append(errs, fmt.Errorf("server.cache_size must be positive when the cache is enabled, got %d", s.CacheSize))
	}
	if s.MetricsPort < 0 || s.MetricsPort > 65535 {
		errs = append(errs, fmt.Errorf("server.metrics_port out of range: %d", s.MetricsPort))
	}
	if c.CLI.DefaultLimit < 1 {
		errs = append(errs, fmt.Errorf("cli.default_limit must be positive, got %d", c.CLI.DefaultLimit))
	}
	if c.CLI.DefaultMinLen < 0 || c.CLI.DefaultMaxLen < c.CLI.DefaultMinLen {
		errs = append(errs, fmt.Errorf("cli length bounds [%d, %d] are inconsistent", c.CLI.DefaultMinLen, c.CLI.DefaultMaxLen))
	}
	return errors.Join(errs...)
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/wordrank
// 2. ~/Library/Application Support/wordrank (macOS)
// 3. Current executable dir
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		return utils.GetExecutableDir()
	}
	primaryPath := filepath.Join(homeDir, ".config", appName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", appName)
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
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/wordrank/config.toml
// 3. Builtin defaults
//
// The returned path is "" when the builtin defaults are in use.
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
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

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	if err := utils.EnsureDir(filepath.Dir(configPath)); err != nil {
		return nil, err
	}
	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			return nil, err
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}
	return LoadConfig(configPath)
}

// LoadConfig loads from a TOML file. A file that does not decode into the
// typed config is salvaged key by key; anything unusable keeps its default.
// The result is validated either way.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	unknown, err := utils.LoadTOMLFile(configPath, config)
	if err != nil {
		config, err = tryPartialParse(configPath)
		if err != nil {
			return nil, err
		}
	}
	for _, key := range unknown {
		log.Warnf("Unknown config key %q in %s", key, configPath)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return config, nil
}

func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	raw, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		return nil, err
	}
	if section, ok := utils.ExtractSection(raw, "server"); ok {
		extractServerConfig(section, &config.Server)
	}
	if section, ok := utils.ExtractSection(raw, "index"); ok {
		extractIndexConfig(section, &config.Index)
	}
	if section, ok := utils.ExtractSection(raw, "cli"); ok {
		extractCliConfig(section, &config.CLI)
	}
	return config, nil
}

func extractServerConfig(data map[string]any, server *ServerConfig) {
	if val, ok := utils.ExtractInt(data, "max_limit"); ok {
		server.MaxLimit = val
	}
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		server.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt(data, "min_prefix"); ok {
		server.MinPrefix = val
	}
	if val, ok := utils.ExtractInt(data, "max_prefix"); ok {
		server.MaxPrefix = val
	}
	if val, ok := utils.ExtractBool(data, "enable_cache"); ok {
		server.EnableCache = val
	}
	if val, ok := utils.ExtractInt(data, "cache_size"); ok {
		server.CacheSize = val
	}
	if val, ok := utils.ExtractInt(data, "metrics_port"); ok {
		server.MetricsPort = val
	}
}

// extractIndexConfig accepts dictionary as a single string or an array.
func extractIndexConfig(data map[string]any, index *IndexConfig) {
	if val, ok := utils.ExtractString(data, "kind"); ok {
		index.Kind = val
	}
	if val, ok := utils.ExtractString(data, "dictionary"); ok {
		index.Dictionary = []string{val}
	}
	if list, ok := data["dictionary"].([]any); ok {
		var paths []string
		for _, item := range list {
			if s, ok := item.(string); ok {
				paths = append(paths, s)
			}
		}
		if len(paths) > 0 {
			index.Dictionary = paths
		}
	}
}

func extractCliConfig(data map[string]any, cli *CliConfig) {
	if val, ok := utils.ExtractInt(data, "default_limit"); ok {
		cli.DefaultLimit = val
	}
	if val, ok := utils.ExtractInt(data, "default_min_len"); ok {
		cli.DefaultMinLen = val
	}
	if val, ok := utils.ExtractInt(data, "default_max_len"); ok {
		cli.DefaultMaxLen = val
	}
	if val, ok := utils.ExtractBool(data, "default_no_filter"); ok {
		cli.DefaultNoFilter = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() (string, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return "", err
	}
	if err := utils.EnsureDir(filepath.Dir(defaultPath)); err != nil {
		return "", err
	}
	return defaultPath, SaveConfig(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of the loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		return "builtin defaults"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Update changes server values, validates and saves to file. Nil pointers
// leave a value unchanged.
func (c *Config) Update(configPath string, maxLimit, minPrefix, maxPrefix *int, enableCache *bool) error {
	updated := *c
	server := &updated.Server
	if maxLimit != nil {
		server.MaxLimit = *maxLimit
	}
	if minPrefix != nil {
		server.MinPrefix = *minPrefix
	}
	if maxPrefix != nil {
		server.MaxPrefix = *maxPrefix
	}
	if enableCache != nil {
		server.EnableCache = *enableCache
	}
	if err := updated.Validate(); err != nil {
		return err
	}
	*c = updated
	return SaveConfig(c, configPath)
}
