// Package config defines the analyzer service configuration.
package config

import (
	"time"

	"github.com/RichGutz/Scraper.Neoauto/internal/configloader"
	"github.com/RichGutz/Scraper.Neoauto/internal/logger"
)

// Default configuration values.
const (
	defaultServiceName   = "market-analyzer"
	defaultServicePort   = 8090
	defaultConcurrency   = 10
	defaultDBHost        = "localhost"
	defaultDBPort        = 5432
	defaultDBUser        = "postgres"
	defaultDBName        = "neoauto"
	defaultDBSSLMode     = "disable"
	defaultPageSize      = 1000
	defaultRulesPath     = "reglas_modelos_base.csv"
	defaultHistoryDays   = 8
	defaultLeadWindow    = 24 * time.Hour
	defaultLeadMinYear   = 2010
)

// Config holds all configuration for the analyzer.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Rules    RulesConfig    `yaml:"rules"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Logging  logger.Config  `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Port        int    `env:"ANALYZER_PORT"        yaml:"port"`
	Concurrency int    `env:"ANALYZER_CONCURRENCY" yaml:"concurrency"`
}

// DatabaseConfig holds Postgres configuration.
type DatabaseConfig struct {
	Host     string `env:"POSTGRES_HOST"     yaml:"host"`
	Port     int    `env:"POSTGRES_PORT"     yaml:"port"`
	User     string `env:"POSTGRES_USER"     yaml:"user"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database string `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode  string `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	PageSize int    `yaml:"page_size"`
}

// RulesConfig selects the normalization rule source. When Source is "db",
// rules load from Postgres; otherwise from the CSV at Path. A missing or
// broken source degrades to an empty table, which is logged but not fatal.
type RulesConfig struct {
	Source string `env:"RULES_SOURCE" yaml:"source"` // "csv" or "db"
	Path   string `env:"RULES_PATH"   yaml:"path"`
}

// AnalysisConfig holds the pipeline thresholds and windows.
type AnalysisConfig struct {
	// HistoryDays bounds the raw fetch: only observations this recent feed
	// the aggregation pass.
	HistoryDays int `yaml:"history_days"`
	// LeadWindow is the recency window for lead candidates (24h for the
	// daily report, 48h for the weekly one).
	LeadWindow time.Duration `env:"LEAD_WINDOW" yaml:"lead_window"`
	// LeadMinYear is the model-year floor for leads.
	LeadMinYear int `yaml:"lead_min_year"`
	// IncludeMultiOwner admits multi-owner listings as leads. Off by
	// default: the report only flags single-owner cars.
	IncludeMultiOwner bool `yaml:"include_multi_owner"`
}

// Load reads configuration from a YAML file with env overrides applied.
func Load(path string) (*Config, error) {
	return configloader.LoadWithDefaults(path, setDefaults)
}

// Default returns the built-in configuration, used when no config file is
// supplied.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = defaultServiceName
	}
	if cfg.Service.Port == 0 {
		cfg.Service.Port = defaultServicePort
	}
	if cfg.Service.Concurrency == 0 {
		cfg.Service.Concurrency = defaultConcurrency
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = defaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = defaultDBUser
	}
	if cfg.Database.Database == "" {
		cfg.Database.Database = defaultDBName
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = defaultDBSSLMode
	}
	if cfg.Database.PageSize == 0 {
		cfg.Database.PageSize = defaultPageSize
	}
	if cfg.Rules.Source == "" {
		cfg.Rules.Source = "csv"
	}
	if cfg.Rules.Path == "" {
		cfg.Rules.Path = defaultRulesPath
	}
	if cfg.Analysis.HistoryDays == 0 {
		cfg.Analysis.HistoryDays = defaultHistoryDays
	}
	if cfg.Analysis.LeadWindow == 0 {
		cfg.Analysis.LeadWindow = defaultLeadWindow
	}
	if cfg.Analysis.LeadMinYear == 0 {
		cfg.Analysis.LeadMinYear = defaultLeadMinYear
	}
	cfg.Logging.SetDefaults()
}
