// Package config loads the estate process configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Duration is a time.Duration that reads "1h30m" style strings from YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration document.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Cache   CacheConfig   `yaml:"cache"`
	Handler HandlerConfig `yaml:"handler"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// StoreConfig selects and configures the document store backend.
type StoreConfig struct {
	Backend        string   `yaml:"backend"`
	MongoURI       string   `yaml:"mongo_uri"`
	MongoDatabase  string   `yaml:"mongo_database"`
	BadgerPath     string   `yaml:"badger_path"`
	BadgerInMemory bool     `yaml:"badger_in_memory"`
	RedisAddr      string   `yaml:"redis_addr"`
	RedisPassword  string   `yaml:"redis_password"`
	RedisDB        int      `yaml:"redis_db"`
	RedisPrefix    string   `yaml:"redis_prefix"`
	ConnectTimeout Duration `yaml:"connect_timeout"`
}

// CacheConfig controls the in-process cache registry.
type CacheConfig struct {
	DefaultTTL    Duration `yaml:"default_ttl"`
	SweepInterval Duration `yaml:"sweep_interval"`
}

// HandlerConfig controls resource handler behaviour.
type HandlerConfig struct {
	BatchSize       int    `yaml:"batch_size"`
	IndexCollection string `yaml:"index_collection"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Backend:        BackendMongo,
			MongoURI:       "mongodb://localhost:27017",
			MongoDatabase:  "estate",
			BadgerPath:     "./badger-data",
			RedisAddr:      "localhost:6379",
			RedisPrefix:    "estate",
			ConnectTimeout: Duration(10 * time.Second),
		},
		Cache: CacheConfig{
			DefaultTTL:    Duration(time.Hour),
			SweepInterval: Duration(5 * time.Minute),
		},
		Handler: HandlerConfig{
			BatchSize:       30,
			IndexCollection: "indexes",
		},
		Log: LogConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Addr: ":9090",
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	overrides := map[string]*string{
		"ESTATE_STORE_BACKEND":  &c.Store.Backend,
		"ESTATE_MONGO_URI":      &c.Store.MongoURI,
		"ESTATE_MONGO_DATABASE": &c.Store.MongoDatabase,
		"ESTATE_REDIS_ADDR":     &c.Store.RedisAddr,
		"ESTATE_BADGER_PATH":    &c.Store.BadgerPath,
		"ESTATE_LOG_LEVEL":      &c.Log.Level,
	}
	for key, field := range overrides {
		if v, ok := lookup(key); ok && v != "" {
			*field = v
		}
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory, BackendBadger:
	case BackendMongo:
		if c.Store.MongoURI == "" || c.Store.MongoDatabase == "" {
			return errors.New("mongo backend requires mongo_uri and mongo_database")
		}
	case BackendRedis:
		if c.Store.RedisAddr == "" {
			return errors.New("redis backend requires redis_addr")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	if c.Cache.DefaultTTL <= 0 {
		return errors.New("cache.default_ttl must be positive")
	}
	if c.Cache.SweepInterval < 0 {
		return errors.New("cache.sweep_interval must not be negative")
	}
	if c.Handler.BatchSize <= 0 || c.Handler.BatchSize > 30 {
		return fmt.Errorf("handler.batch_size must be in 1..30, got %d", c.Handler.BatchSize)
	}
	if c.Handler.IndexCollection == "" {
		return errors.New("handler.index_collection is required")
	}
	return nil
}
