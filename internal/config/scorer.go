package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/JaimeStill/autou/pkg/envvar"
)

const (
	EnvScorerBaseURL          = "AUTOU_SCORER_BASE_URL"
	EnvScorerTimeout          = "AUTOU_SCORER_TIMEOUT"
	EnvScorerChunkSize        = "AUTOU_SCORER_CHUNK_SIZE"
	EnvScorerMaxConcurrency   = "AUTOU_SCORER_MAX_CONCURRENCY"
	EnvScorerFailureThreshold = "AUTOU_SCORER_FAILURE_THRESHOLD"
	EnvScorerOpenTimeout      = "AUTOU_SCORER_OPEN_TIMEOUT"
)

// ScorerConfig holds connection and resilience settings for the inference server
// that turns email text into Produtivo probabilities.
type ScorerConfig struct {
	BaseURL          string `toml:"base_url"`
	Timeout          string `toml:"timeout"`
	ChunkSize        int    `toml:"chunk_size"`
	MaxConcurrency   int    `toml:"max_concurrency"`
	FailureThreshold int    `toml:"failure_threshold"`
	OpenTimeout      string `toml:"open_timeout"`
}

// TimeoutDuration bounds one scorer request.
func (c *ScorerConfig) TimeoutDuration() time.Duration {
	return duration(c.Timeout)
}

// OpenTimeoutDuration is how long the breaker stays open before probing.
func (c *ScorerConfig) OpenTimeoutDuration() time.Duration {
	return duration(c.OpenTimeout)
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ScorerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ScorerConfig) Merge(o *ScorerConfig) {
	overlay(&c.BaseURL, o.BaseURL)
	overlay(&c.Timeout, o.Timeout)
	overlay(&c.ChunkSize, o.ChunkSize)
	overlay(&c.MaxConcurrency, o.MaxConcurrency)
	overlay(&c.FailureThreshold, o.FailureThreshold)
	overlay(&c.OpenTimeout, o.OpenTimeout)
}

func (c *ScorerConfig) loadDefaults() {
	fallback(&c.BaseURL, "http://127.0.0.1:8001")
	fallback(&c.Timeout, "30s")
	fallback(&c.ChunkSize, 64)
	fallback(&c.MaxConcurrency, 4)
	fallback(&c.FailureThreshold, 5)
	fallback(&c.OpenTimeout, "30s")
}

func (c *ScorerConfig) loadEnv() {
	envvar.String(&c.BaseURL, EnvScorerBaseURL)
	envvar.String(&c.Timeout, EnvScorerTimeout)
	envvar.Int(&c.ChunkSize, EnvScorerChunkSize)
	envvar.Int(&c.MaxConcurrency, EnvScorerMaxConcurrency)
	envvar.Int(&c.FailureThreshold, EnvScorerFailureThreshold)
	envvar.String(&c.OpenTimeout, EnvScorerOpenTimeout)
}

func (c *ScorerConfig) validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url: %q", c.BaseURL)
	}
	if err := durations([2]string{"timeout", c.Timeout}, [2]string{"open_timeout", c.OpenTimeout}); err != nil {
		return err
	}
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be positive: %d", c.ChunkSize)
	}
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be positive: %d", c.MaxConcurrency)
	}
	if c.FailureThreshold < 1 {
		return fmt.Errorf("failure_threshold must be positive: %d", c.FailureThreshold)
	}
	return nil
}
