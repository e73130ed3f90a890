package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

var GlobalConfig *Config

// Config global configuration
type Config struct {
	Server ServerConfig `yaml:"server"`
	MySQL  MySQLConfig  `yaml:"mysql"`
	Redis  RedisConfig  `yaml:"redis"`
	Logger LoggerConfig `yaml:"logger"`
	Report ReportConfig `yaml:"report"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Port   int    `yaml:"port"`
	Mode   string `yaml:"mode"`    // debug, release
	APIKey string `yaml:"api_key"` // bearer token for the report API (optional, if empty, auth is disabled)
}

// MySQLConfig MySQL configuration
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// RedisConfig Redis configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LoggerConfig logger configuration
type LoggerConfig struct {
	Level  string           `yaml:"level"`  // debug, info, warn, error
	Output string           `yaml:"output"` // console, file, both
	File   LoggerFileConfig `yaml:"file"`
}

// LoggerFileConfig logger file configuration
type LoggerFileConfig struct {
	Path string `yaml:"path"`
}

// ReportConfig reporting engine configuration.
// Exclusion lists are process-wide policy, never request parameters.
type ReportConfig struct {
	ExcludedBatches     []string   `yaml:"excluded_batches"`      // delivery batch names removed before any counting
	ExcludeDraftBatches bool       `yaml:"exclude_draft_batches"` // drop tasks whose batch is still flagged draft
	CacheTTLSeconds     int        `yaml:"cache_ttl_seconds"`     // response cache freshness window
	QueryTimeoutSeconds int        `yaml:"query_timeout_seconds"` // wall-clock budget for one snapshot load
	Warm                WarmConfig `yaml:"warm"`
}

// WarmConfig periodic cache warming configuration
type WarmConfig struct {
	Enabled         bool        `yaml:"enabled"`
	IntervalSeconds int         `yaml:"interval_seconds"`
	Scopes          []WarmScope `yaml:"scopes"`
}

// WarmScope one scope to pre-materialize on each warm cycle
type WarmScope struct {
	ProjectID  string `yaml:"project_id"`
	WindowDays int    `yaml:"window_days"` // trailing date window, 0 means unbounded
}

// Init initializes configuration
func Init() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	GlobalConfig = &cfg
	return nil
}
