package config

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/autou/pkg/envvar"
)

const (
	EnvClassifierMaxTextChars  = "AUTOU_CLASSIFIER_MAX_TEXT_CHARS"
	EnvClassifierMaxBatchItems = "AUTOU_CLASSIFIER_MAX_BATCH_ITEMS"
	EnvClassifierThreshold     = "AUTOU_CLASSIFIER_THRESHOLD"
	EnvClassifierTelemetry     = "AUTOU_CLASSIFIER_TELEMETRY"

	// Unprefixed names read by existing deployments. The AUTOU_ names win
	// when both are set.
	EnvMaxTextChars  = "MAX_TEXT_CHARS"
	EnvMaxBatchItems = "MAX_BATCH_ITEMS"
	EnvThreshold     = "THRESHOLD"
	EnvTelemetry     = "TELEMETRY"
)

// ClassifierConfig holds request limits, the optional decision threshold
// override, and the telemetry switch.
type ClassifierConfig struct {
	MaxTextChars  int     `toml:"max_text_chars"`
	MaxBatchItems int     `toml:"max_batch_items"`
	Threshold     float64 `toml:"threshold"`
	Telemetry     string  `toml:"telemetry"`
}

// TelemetryEnabled reports whether Telemetry is one of 1, true, on, yes (case-insensitive).
func (c *ClassifierConfig) TelemetryEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(c.Telemetry)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ClassifierConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ClassifierConfig) Merge(o *ClassifierConfig) {
	overlay(&c.MaxTextChars, o.MaxTextChars)
	overlay(&c.MaxBatchItems, o.MaxBatchItems)
	overlay(&c.Threshold, o.Threshold)
	overlay(&c.Telemetry, o.Telemetry)
}

func (c *ClassifierConfig) loadDefaults() {
	fallback(&c.MaxTextChars, 20000)
	fallback(&c.MaxBatchItems, 200)
	fallback(&c.Telemetry, "on")
}

func (c *ClassifierConfig) loadEnv() {
	envvar.Int(&c.MaxTextChars, EnvMaxTextChars)
	envvar.Int(&c.MaxBatchItems, EnvMaxBatchItems)
	envvar.Float(&c.Threshold, EnvThreshold)
	envvar.String(&c.Telemetry, EnvTelemetry)
	envvar.Int(&c.MaxTextChars, EnvClassifierMaxTextChars)
	envvar.Int(&c.MaxBatchItems, EnvClassifierMaxBatchItems)
	envvar.Float(&c.Threshold, EnvClassifierThreshold)
	envvar.String(&c.Telemetry, EnvClassifierTelemetry)
}

func (c *ClassifierConfig) validate() error {
	if c.MaxTextChars < 1 {
		return fmt.Errorf("max_text_chars must be positive: %d", c.MaxTextChars)
	}
	if c.MaxBatchItems < 1 {
		return fmt.Errorf("max_batch_items must be positive: %d", c.MaxBatchItems)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0, 1]: %g", c.Threshold)
	}
	return nil
}
