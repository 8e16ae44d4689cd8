package storage

import (
	"fmt"

	"github.com/JaimeStill/autou/pkg/envvar"
)

// Config holds Azure Blob Storage connection parameters.
// Storage is optional: an empty connection string leaves it unconfigured.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
}

// Configured reports whether a connection string has been provided.
func (c *Config) Configured() bool {
	return c.ConnectionString != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ContainerName != "" {
		c.ContainerName = overlay.ContainerName
	}
	if overlay.ConnectionString != "" {
		c.ConnectionString = overlay.ConnectionString
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "model-artifacts"
	}
}

func (c *Config) loadEnv(env *Env) {
	envvar.String(&c.ContainerName, env.ContainerName)
	envvar.String(&c.ConnectionString, env.ConnectionString)
}

func (c *Config) validate() error {
	if c.Configured() && c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	return nil
}
