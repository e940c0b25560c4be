// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
)

// EnvPrefix prefixes environment variables that override config values,
// e.g. NMM_SERVER_PORT or NMM_REPOSITORY_API_KEY.
const EnvPrefix = "NMM_"

// Config is the root configuration structure.
type Config struct {
	Server      ServerConfig      `toml:"server" envPrefix:"SERVER_"`
	Database    DatabaseConfig    `toml:"database" envPrefix:"DATABASE_"`
	Game        GameConfig        `toml:"game" envPrefix:"GAME_"`
	Acquisition AcquisitionConfig `toml:"acquisition" envPrefix:"ACQUISITION_"`
	Repository  RepositoryConfig  `toml:"repository" envPrefix:"REPOSITORY_"`
}

type ServerConfig struct {
	Host     string `toml:"host" env:"HOST"`
	Port     int    `toml:"port" env:"PORT"`
	LogLevel string `toml:"log_level" env:"LOG_LEVEL"`
}

type DatabaseConfig struct {
	Path string `toml:"path" env:"PATH"`
}

// GameConfig selects the game whose mods are managed.
type GameConfig struct {
	Mode    string `toml:"mode" env:"MODE"`         // Repository game domain, e.g. "skyrimspecialedition"
	ModsDir string `toml:"mods_dir" env:"MODS_DIR"` // Where acquired mod files are installed
}

type AcquisitionConfig struct {
	AutoFillMissingInfo bool          `toml:"auto_fill_missing_info" env:"AUTO_FILL_MISSING_INFO"`
	MaxConcurrent       int           `toml:"max_concurrent" env:"MAX_CONCURRENT"`
	ActivityRetention   time.Duration `toml:"activity_retention" env:"ACTIVITY_RETENTION"`
}

type RepositoryConfig struct {
	URL     string        `toml:"url" env:"URL"`
	APIKey  string        `toml:"api_key" env:"API_KEY"`
	Timeout time.Duration `toml:"timeout" env:"TIMEOUT"`
}

// Defaults
const (
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 8585
	DefaultLogLevel      = "info"
	DefaultMaxConcurrent = 3
	DefaultRepositoryURL = "https://api.nexusmods.com"
	DefaultTimeout       = 30 * time.Second
	DefaultRetention     = 10 * time.Minute
)

// Load reads, parses and validates the configuration file.
// Unresolved variables and validation failures are returned together as a *ConfigError.
func Load(path string) (*Config, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, err
	}

	cerr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cerr.HasErrors() {
		return nil, cerr
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file, applying
// substitutions, overrides and defaults but skipping validation.
func LoadWithoutValidation(path string) (*Config, error) {
	cfg, _, err := load(path)
	return cfg, err
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, nil, fmt.Errorf("environment overrides: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Database.Path == "" {
		c.Database.Path = filepath.Join(xdg.DataHome, "nmm", "nmm.db")
	}
	if c.Game.ModsDir == "" && c.Game.Mode != "" {
		c.Game.ModsDir = filepath.Join(xdg.DataHome, "nmm", "mods", c.Game.Mode)
	}
	if c.Acquisition.MaxConcurrent == 0 {
		c.Acquisition.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.Acquisition.ActivityRetention == 0 {
		c.Acquisition.ActivityRetention = DefaultRetention
	}
	if c.Repository.URL == "" {
		c.Repository.URL = DefaultRepositoryURL
	}
	if c.Repository.Timeout == 0 {
		c.Repository.Timeout = DefaultTimeout
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::([-?])([^}]*))?\}`)

// substituteEnvVars replaces variable references with environment values.
// Unresolved references are left in place and reported in missing.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case "-":
			if value == "" {
				return arg
			}
			return value
		case "?":
			if value == "" {
				missing = append(missing, fmt.Sprintf("%s: %s", name, strings.TrimSpace(arg)))
				return match
			}
			return value
		}

		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
