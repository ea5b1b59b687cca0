// Package config handles repository configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	CitationsDir = ".citations"
	ConfigFile   = "config.yml"
	EnvFile      = ".env"
	CacheDir     = "cache"
	DBFile       = "citations.db"

	// RootEnv overrides repository discovery.
	RootEnv = "CITE_ROOT"
)

// Supported values.
var (
	ValidDrivers  = []string{"sqlite", "postgres"}
	ValidStyles   = []string{"ieee"}
	ValidLogModes = []string{"dev", "development", "debug", "prod", "production"}
)

// Config represents repository configuration stored in .citations/config.yml.
// Every field can be overridden from the environment.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Style    string         `yaml:"style" env:"CITE_STYLE"`
}

// DatabaseConfig selects the store backend.
type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"CITE_DB_DRIVER"`
	// DSN is the data source name. Empty with the sqlite driver means the
	// repository's cache database.
	DSN string `yaml:"dsn,omitempty" env:"CITE_DB_DSN"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Mode string `yaml:"mode" env:"CITE_LOG_MODE"`
}

// Default returns the configuration written by init.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Driver: "sqlite"},
		Log:      LogConfig{Mode: "dev"},
		Style:    "ieee",
	}
}

// CitationsPath returns the path to the .citations directory from a root path.
func CitationsPath(root string) string {
	return filepath.Join(root, CitationsDir)
}

// ConfigPath returns the path to config.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, CitationsDir, ConfigFile)
}

// EnvPath returns the path to the repository's .env file.
func EnvPath(root string) string {
	return filepath.Join(root, CitationsDir, EnvFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, CitationsDir, CacheDir)
}

// DBPath returns the path to the SQLite database from a root path.
func DBPath(root string) string {
	return filepath.Join(root, CitationsDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a citations repository.
func IsRepository(root string) bool {
	info, err := os.Stat(CitationsPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a citations repository.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a citations repository (no %s directory found)", CitationsDir)
		}
		abs = parent
	}
}

// Load reads configuration for the repository at root. Values are layered:
// defaults, then config.yml, then .citations/.env, then the environment.
// A missing config.yml or .env is not an error.
func Load(root string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ConfigPath(root))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(EnvPath(root)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", EnvPath(root), err)
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Database.Driver == "sqlite" && cfg.Database.DSN == "" {
		cfg.Database.DSN = DBPath(root)
	}
	cfg.Database.DSN = ExpandPath(cfg.Database.DSN)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Init creates the repository layout at root and writes the default config.
// An existing config.yml is left untouched.
func Init(root string) error {
	if err := os.MkdirAll(CachePath(root), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", CachePath(root), err)
	}
	if _, err := os.Stat(ConfigPath(root)); err == nil {
		return nil
	}
	return Default().Save(root)
}

// Validate checks every enumerated setting.
func (c *Config) Validate() error {
	if err := oneOf("database.driver", c.Database.Driver, ValidDrivers); err != nil {
		return err
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for the postgres driver")
	}
	if err := oneOf("style", c.Style, ValidStyles); err != nil {
		return err
	}
	return oneOf("log.mode", c.Log.Mode, ValidLogModes)
}

func oneOf(key, value string, valid []string) error {
	for _, v := range valid {
		if value == v {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %s (valid: %v)", key, value, valid)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
