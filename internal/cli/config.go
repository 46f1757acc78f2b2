package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STYLEPANEL_"

// DefaultConfigFile is read when --config is not given and the file exists.
const DefaultConfigFile = "stylepanel.toml"

// Config is the CLI configuration: defaults, then the TOML file, then
// STYLEPANEL_* variables, then command-line flags.
type Config struct {
	// Schema is a schema document path. Empty uses the built-in layout.
	Schema    string `toml:"schema"`
	Debug     bool   `toml:"debug"`
	LogFormat string `toml:"log_format"`

	Server ServerConfig `toml:"server"`
	Store  StoreConfig  `toml:"store"`
}

// ServerConfig configures `serve` and the SSE transport of `mcp`.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// StoreConfig selects where panel visibility is kept.
type StoreConfig struct {
	// Backend is memory, file or redis.
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
	// TTL and LockTTL are Go durations ("24h"). An empty TTL keeps panels forever.
	TTL     string `toml:"ttl"`
	LockTTL string `toml:"lock_ttl"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		LogFormat: "text",
		Server:    ServerConfig{Listen: ":8080"},
		Store: StoreConfig{
			Backend: "file",
			Dir:     ".stylepanel/panels",
		},
	}
}

// LoadConfig reads path over the defaults and applies the environment.
// A missing file is an error only when path was given explicitly.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SCHEMA":         &c.Schema,
		"LOG_FORMAT":     &c.LogFormat,
		"LISTEN":         &c.Server.Listen,
		"STORE":          &c.Store.Backend,
		"STATE_DIR":      &c.Store.Dir,
		"REDIS_ADDR":     &c.Store.RedisAddr,
		"REDIS_PASSWORD": &c.Store.RedisPassword,
		"REDIS_PREFIX":   &c.Store.Prefix,
		"REDIS_TTL":      &c.Store.TTL,
		"LOCK_TTL":       &c.Store.LockTTL,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}

	if v, ok := lookup(EnvPrefix + "DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sDEBUG: %w", EnvPrefix, err)
		}
		c.Debug = b
	}
	if v, ok := lookup(EnvPrefix + "REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%sREDIS_DB: %w", EnvPrefix, err)
		}
		c.Store.RedisDB = n
	}
	return nil
}

// Validate checks enumerations and durations.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "file":
	case "redis":
		if c.Store.RedisAddr == "" {
			return errors.New("store.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want memory, file or redis)", c.Store.Backend)
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	if _, err := c.Store.ttl(); err != nil {
		return err
	}
	if _, err := c.Store.lockTTL(); err != nil {
		return err
	}
	return nil
}

func (s StoreConfig) ttl() (time.Duration, error) {
	return parseDuration("store.ttl", s.TTL)
}

func (s StoreConfig) lockTTL() (time.Duration, error) {
	return parseDuration("store.lock_ttl", s.LockTTL)
}

func parseDuration(name, v string) (time.Duration, error) {
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", name, v)
	}
	return d, nil
}
