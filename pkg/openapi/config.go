package openapi

import "github.com/JaimeStill/autou/pkg/envvar"

// Config holds OpenAPI metadata for spec generation.
type Config struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ConfigEnv maps config fields to environment variable names for override injection.
type ConfigEnv struct {
	Title       string
	Description string
}

// Finalize applies defaults and environment variable overrides.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
}

func (c *Config) loadDefaults() {
	if c.Title == "" {
		c.Title = "AutoU Email Triage API"
	}
	if c.Description == "" {
		c.Description = "Classifies inbound email as Produtivo or Improdutivo and suggests a reply."
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	envvar.String(&c.Title, env.Title)
	envvar.String(&c.Description, env.Description)
}
