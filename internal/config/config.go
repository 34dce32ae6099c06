package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"

	"sales-comparison/internal/domain"
)

// EnvPrefix prefixes every environment override, e.g. SALES_LOG_LEVEL.
const EnvPrefix = "SALES"

// Config represents the complete application configuration
type Config struct {
	Report  ReportConfig  `toml:"report" yaml:"report" json:"report" envconfig:"REPORT"`
	Columns ColumnsConfig `toml:"columns" yaml:"columns" json:"columns" envconfig:"COLUMNS"`
	Log     LogConfig     `toml:"log" yaml:"log" json:"log" envconfig:"LOG"`
	Server  ServerConfig  `toml:"server" yaml:"server" json:"server" envconfig:"SERVER"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache" json:"cache" envconfig:"CACHE"`
}

// ReportConfig controls the files written by the report command.
type ReportConfig struct {
	Types []string `toml:"types" yaml:"types" json:"types" envconfig:"TYPES" validate:"dive,oneof=xlsx pdf json"`
	Dir   string   `toml:"dir" yaml:"dir" json:"dir" envconfig:"DIR"`
	Name  string   `toml:"name" yaml:"name" json:"name" envconfig:"NAME" validate:"required"`
}

// ColumnsConfig holds extra header aliases, mapping a label found in the
// extracts to one of the canonical column names.
type ColumnsConfig struct {
	Aliases map[string]string `toml:"aliases" yaml:"aliases" json:"aliases" envconfig:"ALIASES"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level  string `toml:"level" yaml:"level" json:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `toml:"format" yaml:"format" json:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Addr               string  `toml:"addr" yaml:"addr" json:"addr" envconfig:"ADDR" validate:"required"`
	ReadTimeoutSec     int     `toml:"read_timeout_sec" yaml:"read_timeout_sec" json:"read_timeout_sec" envconfig:"READ_TIMEOUT_SEC" validate:"min=1"`
	WriteTimeoutSec    int     `toml:"write_timeout_sec" yaml:"write_timeout_sec" json:"write_timeout_sec" envconfig:"WRITE_TIMEOUT_SEC" validate:"min=1"`
	ShutdownTimeoutSec int     `toml:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec" json:"shutdown_timeout_sec" envconfig:"SHUTDOWN_TIMEOUT_SEC" validate:"min=1"`
	MaxUploadMB        int64   `toml:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb" envconfig:"MAX_UPLOAD_MB" validate:"min=1"`
	RateLimitRPS       float64 `toml:"rate_limit_rps" yaml:"rate_limit_rps" json:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS" validate:"min=0"`
	RateLimitBurst     int     `toml:"rate_limit_burst" yaml:"rate_limit_burst" json:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST" validate:"min=0"`
}

// CacheConfig bounds the in-memory caches. Zero disables a cache.
type CacheConfig struct {
	Datasets int `toml:"datasets" yaml:"datasets" json:"datasets" envconfig:"DATASETS" validate:"min=0"`
	Reports  int `toml:"reports" yaml:"reports" json:"reports" envconfig:"REPORTS" validate:"min=0"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		Report: ReportConfig{
			Types: []string{"xlsx"},
			Name:  "sales_comparison",
		},
		Log: LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Addr:               ":8080",
			ReadTimeoutSec:     30,
			WriteTimeoutSec:    60,
			ShutdownTimeoutSec: 15,
			MaxUploadMB:        64,
			RateLimitRPS:       20,
			RateLimitBurst:     40,
		},
		Cache: CacheConfig{Datasets: 8, Reports: 32},
	}
}

// Load builds the configuration from defaults, the optional file at path
// and SALES_* environment variables, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile decodes a TOML, YAML or JSON file over cfg.
func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("error accessing config file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}
	return nil
}

// ColumnAliases returns the built-in header aliases extended with the
// configured ones. Configured aliases win on conflict.
func (c *Config) ColumnAliases() map[string]string {
	aliases := maps.Clone(domain.DefaultColumnAliases)
	maps.Copy(aliases, c.Columns.Aliases)
	return aliases
}

// DateColumns returns every header label that resolves to the billing date.
func (c *Config) DateColumns() []string {
	cols := []string{domain.ColumnBillingDate}
	for label, canonical := range c.ColumnAliases() {
		if canonical == domain.ColumnBillingDate {
			cols = append(cols, label)
		}
	}
	slices.Sort(cols)
	return cols
}

func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSec) * time.Second
}

func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSec) * time.Second
}

func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSec) * time.Second
}

// MaxUploadBytes is the request body limit of the upload endpoints.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}

// NewLogger builds the application logger writing to w.
func NewLogger(cfg LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
