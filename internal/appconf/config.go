package appconf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"happydash.dev/internal/happiness"
)

// Config holds the settings for one dashboard process.
type Config struct {
	Port      int
	Env       Environment
	ApiKeys   []string
	RateLimit int

	DataPath       string
	Watch          bool
	WatchDebounce  time.Duration
	CacheSize      int
	WorldRankLimit int
	Preferences    []string

	LogLevel  string
	LogFormat string
}

// DefaultConfig returns the settings used when neither a config file nor flags override them.
func DefaultConfig() Config {
	return Config{
		Port:           4000,
		Env:            Development,
		RateLimit:      100,
		DataPath:       "data/happiness.csv",
		CacheSize:      256,
		WorldRankLimit: happiness.WorldRankLimit,
		Preferences:    append([]string(nil), happiness.DefaultPreferences...),
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// fileConfig is the on-disk YAML shape. Pointers distinguish absent keys from zero values.
type fileConfig struct {
	Port      *int     `yaml:"port"`
	Env       *string  `yaml:"env"`
	ApiKeys   []string `yaml:"api_keys"`
	RateLimit *int     `yaml:"rate_limit"`

	Data struct {
		Path          *string `yaml:"path"`
		Watch         *bool   `yaml:"watch"`
		WatchDebounce *string `yaml:"watch_debounce"`
	} `yaml:"data"`

	Views struct {
		CacheSize      *int     `yaml:"cache_size"`
		WorldRankLimit *int     `yaml:"world_rank_limit"`
		Preferences    []string `yaml:"preferences"`
	} `yaml:"views"`

	Log struct {
		Level  *string `yaml:"level"`
		Format *string `yaml:"format"`
	} `yaml:"log"`
}

// LoadFile reads a YAML config at path and layers it over the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML config bytes over DefaultConfig. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.Env != nil {
		cfg.Env = EnvFlagToEnvironment(*fc.Env)
	}
	if fc.ApiKeys != nil {
		cfg.ApiKeys = fc.ApiKeys
	}
	if fc.RateLimit != nil {
		cfg.RateLimit = *fc.RateLimit
	}
	if fc.Data.Path != nil {
		cfg.DataPath = *fc.Data.Path
	}
	if fc.Data.Watch != nil {
		cfg.Watch = *fc.Data.Watch
	}
	if fc.Data.WatchDebounce != nil {
		d, err := time.ParseDuration(*fc.Data.WatchDebounce)
		if err != nil {
			return Config{}, fmt.Errorf("invalid data.watch_debounce: %w", err)
		}
		cfg.WatchDebounce = d
	}
	if fc.Views.CacheSize != nil {
		cfg.CacheSize = *fc.Views.CacheSize
	}
	if fc.Views.WorldRankLimit != nil {
		cfg.WorldRankLimit = *fc.Views.WorldRankLimit
	}
	if fc.Views.Preferences != nil {
		cfg.Preferences = fc.Views.Preferences
	}
	if fc.Log.Level != nil {
		cfg.LogLevel = *fc.Log.Level
	}
	if fc.Log.Format != nil {
		cfg.LogFormat = *fc.Log.Format
	}

	return cfg, cfg.Validate()
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.DataPath == "" {
		errs = append(errs, errors.New("data path is required"))
	}
	if c.WorldRankLimit <= 0 {
		errs = append(errs, fmt.Errorf("world rank limit must be positive, got %d", c.WorldRankLimit))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate limit must not be negative, got %d", c.RateLimit))
	}
	return errors.Join(errs...)
}

// ManagerConfig returns the dataset manager settings.
func (c Config) ManagerConfig() happiness.Config {
	return happiness.Config{
		DataPath:      c.DataPath,
		CacheSize:     c.CacheSize,
		Watch:         c.Watch,
		WatchDebounce: c.WatchDebounce,
		Verbose:       c.Env == Development,
	}
}

// ParseAPIKeys splits a comma separated flag value.
func ParseAPIKeys(s string) []string {
	var keys []string
	for _, key := range strings.Split(s, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
