// Package config loads the tabula CLI configuration from a YAML file and
// TABULA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aretw0/tabula/internal/logging"
	"github.com/aretw0/tabula/pkg/schema"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no --config flag is given and it exists.
const DefaultFile = "tabula.yaml"

// Source types.
const (
	SourceFile  = "file"
	SourceRedis = "redis"
)

// Config is the complete CLI configuration.
type Config struct {
	Source           SourceConfig `yaml:"source"`
	Definitions      string       `yaml:"definitions"` // directory of table declarations; empty means the game tables
	Mode             string       `yaml:"mode"`
	StrictReferences bool         `yaml:"strict_references"`
	Concurrency      int          `yaml:"concurrency"`
	Log              LogConfig    `yaml:"log"`
	Server           ServerConfig `yaml:"server"`
}

// SourceConfig selects where table rows are read from.
type SourceConfig struct {
	Type  string      `yaml:"type"` // file or redis
	Dir   string      `yaml:"dir"`
	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

type ServerConfig struct {
	Port     int           `yaml:"port"`
	Metrics  bool          `yaml:"metrics"`
	Watch    bool          `yaml:"watch"`
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			Type: SourceFile,
			Dir:  ".",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "tabula:table:",
			},
		},
		Mode:        schema.Strict.String(),
		Concurrency: 8,
		Log:         LogConfig{Level: "info", Format: "text"},
		Server: ServerConfig{
			Port:     8080,
			Metrics:  true,
			Debounce: 200 * time.Millisecond,
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// An empty path skips the file; a missing DefaultFile is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Expand environment variables
		data = []byte(os.ExpandEnv(string(data)))
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	strs := map[string]*string{
		"TABULA_SOURCE":         &cfg.Source.Type,
		"TABULA_DIR":            &cfg.Source.Dir,
		"TABULA_REDIS_ADDR":     &cfg.Source.Redis.Addr,
		"TABULA_REDIS_PASSWORD": &cfg.Source.Redis.Password,
		"TABULA_REDIS_PREFIX":   &cfg.Source.Redis.Prefix,
		"TABULA_MODE":           &cfg.Mode,
		"TABULA_DEFINITIONS":    &cfg.Definitions,
		"TABULA_LOG_LEVEL":      &cfg.Log.Level,
		"TABULA_LOG_FORMAT":     &cfg.Log.Format,
	}
	for env, dst := range strs {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"TABULA_REDIS_DB":    &cfg.Source.Redis.DB,
		"TABULA_CONCURRENCY": &cfg.Concurrency,
		"TABULA_PORT":        &cfg.Server.Port,
	}
	for env, dst := range ints {
		if v := os.Getenv(env); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", env, err)
			}
			*dst = n
		}
	}

	bools := map[string]*bool{
		"TABULA_STRICT_REFERENCES": &cfg.StrictReferences,
		"TABULA_METRICS":           &cfg.Server.Metrics,
		"TABULA_WATCH":             &cfg.Server.Watch,
	}
	for env, dst := range bools {
		if v := os.Getenv(env); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%s: %w", env, err)
			}
			*dst = b
		}
	}
	return nil
}

// Validate checks the configuration for values the CLI cannot act on.
func (c *Config) Validate() error {
	var errs []error
	switch c.Source.Type {
	case SourceFile:
		if c.Source.Dir == "" {
			errs = append(errs, errors.New("source.dir is required for the file source"))
		}
	case SourceRedis:
		if c.Source.Redis.Addr == "" {
			errs = append(errs, errors.New("source.redis.addr is required for the redis source"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source type %q (want file or redis)", c.Source.Type))
	}
	if _, err := schema.ParseMode(c.Mode); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	return errors.Join(errs...)
}

// SchemaMode returns the parsed decode mode. Call after Validate.
func (c *Config) SchemaMode() schema.Mode {
	m, _ := schema.ParseMode(c.Mode)
	return m
}
