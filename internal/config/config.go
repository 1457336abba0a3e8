package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Rule store drivers
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// RuleStoreConfig selects where rule configuration is read from
type RuleStoreConfig struct {
	Driver string `yaml:"driver" validate:"required,oneof=file sqlite postgres"`

	// Path is the rules YAML file (file driver) or the database file (sqlite driver)
	Path string `yaml:"path,omitempty"`

	// DSN is the postgres connection string
	DSN string `yaml:"dsn,omitempty"`

	// NotifyChannel is the postgres LISTEN/NOTIFY channel for rule changes
	NotifyChannel string `yaml:"notifyChannel,omitempty"`
}

// CacheConfig tunes the rule configuration cache
type CacheConfig struct {
	TTL             time.Duration `yaml:"ttl,omitempty"`
	ProviderTimeout time.Duration `yaml:"providerTimeout,omitempty"`
}

// RedisConfig configures the cross-process invalidation bus
type RedisConfig struct {
	Addr     string `yaml:"addr" validate:"required"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty" validate:"min=0"`
	Channel  string `yaml:"channel,omitempty"`
}

// ScheduleSheetConfig points at a Google Sheet holding the schedule grid
type ScheduleSheetConfig struct {
	SpreadsheetID string `yaml:"spreadsheetID" validate:"required"`
	Tab           string `yaml:"tab" validate:"required"`
}

// MetricsConfig enables the Prometheus endpoint
type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
}

// Config represents the application configuration
type Config struct {
	RuleStore     RuleStoreConfig      `yaml:"ruleStore"`
	Cache         CacheConfig          `yaml:"cache,omitempty"`
	Redis         *RedisConfig         `yaml:"redis,omitempty"`
	ScheduleSheet *ScheduleSheetConfig `yaml:"scheduleSheet,omitempty"`
	Metrics       *MetricsConfig       `yaml:"metrics,omitempty"`
}

// Default values applied when a section is omitted
const (
	DefaultRedisChannel  = "rota:config-invalidated"
	DefaultNotifyChannel = "rule_documents_changed"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from rota_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads and validates the configuration with an environment suffix
// For example, env="test" will look for "rota_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Relative store paths are resolved against the config file
	if cfg.RuleStore.Path != "" && !filepath.IsAbs(cfg.RuleStore.Path) {
		cfg.RuleStore.Path = filepath.Join(filepath.Dir(path), cfg.RuleStore.Path)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Validate validates the configuration struct and the fields each driver needs
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Cache.TTL < 0 || cfg.Cache.ProviderTimeout < 0 {
		return fmt.Errorf("config validation failed: cache durations must not be negative")
	}

	switch cfg.RuleStore.Driver {
	case DriverFile, DriverSQLite:
		if cfg.RuleStore.Path == "" {
			return fmt.Errorf("config validation failed: ruleStore.path is required for the %s driver", cfg.RuleStore.Driver)
		}
	case DriverPostgres:
		if cfg.RuleStore.DSN == "" {
			return fmt.Errorf("config validation failed: ruleStore.dsn is required for the postgres driver")
		}
	}

	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.RuleStore.Driver == DriverPostgres && cfg.RuleStore.NotifyChannel == "" {
		cfg.RuleStore.NotifyChannel = DefaultNotifyChannel
	}
	if cfg.Redis != nil && cfg.Redis.Channel == "" {
		cfg.Redis.Channel = DefaultRedisChannel
	}
}

// findConfigFile searches for rota_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "rota_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "rota_config.yaml"
	if env != "" {
		configFileName = "rota_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", configFileName)
}
