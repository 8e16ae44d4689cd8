package middleware

import "github.com/JaimeStill/autou/pkg/envvar"

// CORSConfig holds CORS policy settings. The switches are pointers so an
// overlay that omits them leaves the base value alone.
type CORSConfig struct {
	Enabled          *bool    `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials *bool    `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

func (c *CORSConfig) IsEnabled() bool {
	return c.Enabled != nil && *c.Enabled
}

func (c *CORSConfig) CredentialsAllowed() bool {
	return c.AllowCredentials != nil && *c.AllowCredentials
}

// CORSEnv maps CORS config fields to environment variable names for override injection.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize applies defaults and environment variable overrides.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge overwrites the fields overlay sets: non-nil switches and slices,
// positive max age.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	if overlay.Enabled != nil {
		c.Enabled = overlay.Enabled
	}
	if overlay.AllowCredentials != nil {
		c.AllowCredentials = overlay.AllowCredentials
	}

	if overlay.Origins != nil {
		c.Origins = overlay.Origins
	}
	if overlay.AllowedMethods != nil {
		c.AllowedMethods = overlay.AllowedMethods
	}
	if overlay.AllowedHeaders != nil {
		c.AllowedHeaders = overlay.AllowedHeaders
	}
	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

func (c *CORSConfig) loadDefaults() {
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type"}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}
}

func (c *CORSConfig) loadEnv(env *CORSEnv) {
	envvar.BoolPtr(&c.Enabled, env.Enabled)
	envvar.List(&c.Origins, env.Origins)
	envvar.List(&c.AllowedMethods, env.AllowedMethods)
	envvar.List(&c.AllowedHeaders, env.AllowedHeaders)
	envvar.BoolPtr(&c.AllowCredentials, env.AllowCredentials)
	envvar.Int(&c.MaxAge, env.MaxAge)
}
