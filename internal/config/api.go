package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/autou/pkg/envvar"
	"github.com/JaimeStill/autou/pkg/middleware"
	"github.com/JaimeStill/autou/pkg/openapi"
	"github.com/JaimeStill/autou/pkg/pagination"
)

const (
	EnvAPIBasePath = "AUTOU_API_BASE_PATH"

	// EnvCORSOrigins is the comma-separated origin list; setting it enables CORS.
	EnvCORSOrigins = "CORS_ORIGINS"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "AUTOU_CORS_ENABLED",
	Origins:          EnvCORSOrigins,
	AllowedMethods:   "AUTOU_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "AUTOU_CORS_ALLOWED_HEADERS",
	AllowCredentials: "AUTOU_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "AUTOU_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "AUTOU_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "AUTOU_PAGINATION_MAX_PAGE_SIZE",
}

var openapiEnv = &openapi.ConfigEnv{
	Title:       "AUTOU_OPENAPI_TITLE",
	Description: "AUTOU_OPENAPI_DESCRIPTION",
}

// APIConfig holds API routing, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath   string                `toml:"base_path"`
	CORS       middleware.CORSConfig `toml:"cors"`
	Pagination pagination.Config     `toml:"pagination"`
	OpenAPI    openapi.Config        `toml:"openapi"`
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS, pagination, and OpenAPI configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openapiEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(o *APIConfig) {
	overlay(&c.BasePath, o.BasePath)
	c.CORS.Merge(&o.CORS)
	c.Pagination.Merge(&o.Pagination)
	c.OpenAPI.Merge(&o.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	fallback(&c.BasePath, "/api")
}

func (c *APIConfig) loadEnv() {
	envvar.String(&c.BasePath, EnvAPIBasePath)
	if os.Getenv(EnvCORSOrigins) != "" {
		on := true
		c.CORS.Enabled = &on
	}
}
