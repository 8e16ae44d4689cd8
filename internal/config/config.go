package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/autou/pkg/database"
	"github.com/JaimeStill/autou/pkg/envvar"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"
	DotEnvFile           = ".env"

	EnvAutouEnv             = "AUTOU_ENV"
	EnvAutouShutdownTimeout = "AUTOU_SHUTDOWN_TIMEOUT"
	EnvAutouVersion         = "AUTOU_VERSION"
)

var databaseEnv = &database.Env{
	URL:             "DATABASE_URL",
	Host:            "AUTOU_DB_HOST",
	Port:            "AUTOU_DB_PORT",
	Name:            "AUTOU_DB_NAME",
	User:            "AUTOU_DB_USER",
	Password:        "AUTOU_DB_PASSWORD",
	SSLMode:         "AUTOU_DB_SSL_MODE",
	MaxOpenConns:    "AUTOU_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "AUTOU_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "AUTOU_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "AUTOU_DB_CONN_TIMEOUT",
}

// Config is the root configuration for the AutoU triage service.
type Config struct {
	Server          ServerConfig     `toml:"server"`
	Database        database.Config  `toml:"database"`
	API             APIConfig        `toml:"api"`
	Classifier      ClassifierConfig `toml:"classifier"`
	Model           ModelConfig      `toml:"model"`
	Scorer          ScorerConfig     `toml:"scorer"`
	ShutdownTimeout string           `toml:"shutdown_timeout"`
	Version         string           `toml:"version"`
}

// Env returns the AUTOU_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvAutouEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load reads a .env file (if present) into the process environment, reads the
// base config (if present), applies any environment overlay, and finalizes all
// values. Variables already set in the environment take precedence over .env.
func Load() (*Config, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", DotEnvFile, err)
	}

	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(o *Config) {
	overlay(&c.ShutdownTimeout, o.ShutdownTimeout)
	overlay(&c.Version, o.Version)
	c.Server.Merge(&o.Server)
	c.Database.Merge(&o.Database)
	c.API.Merge(&o.API)
	c.Classifier.Merge(&o.Classifier)
	c.Model.Merge(&o.Model)
	c.Scorer.Merge(&o.Scorer)
}

// Finalize applies defaults, environment overrides, and validation to the root
// config and every section.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Classifier.Finalize(); err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	if err := c.Model.Finalize(); err != nil {
		return fmt.Errorf("model: %w", err)
	}
	if err := c.Scorer.Finalize(); err != nil {
		return fmt.Errorf("scorer: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	fallback(&c.ShutdownTimeout, "30s")
	fallback(&c.Version, "1.0.0")
}

func (c *Config) loadEnv() {
	envvar.String(&c.ShutdownTimeout, EnvAutouShutdownTimeout)
	envvar.String(&c.Version, EnvAutouVersion)
}

func (c *Config) validate() error {
	return durations([2]string{"shutdown_timeout", c.ShutdownTimeout})
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvAutouEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
