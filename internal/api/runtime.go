package api

import (
	"github.com/JaimeStill/autou/internal/classifications"
	"github.com/JaimeStill/autou/internal/config"
	"github.com/JaimeStill/autou/internal/infrastructure"
	"github.com/JaimeStill/autou/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Limits     classifications.Limits
	Pagination pagination.Config
	Telemetry  bool
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    infra.Logger.With("module", "api"),
			Metrics:   infra.Metrics,
			Database:  infra.Database,
			Model:     infra.Model,
			Scorer:    infra.Scorer,
		},
		Limits: classifications.Limits{
			MaxTextChars:  cfg.Classifier.MaxTextChars,
			MaxBatchItems: cfg.Classifier.MaxBatchItems,
		},
		Pagination: cfg.API.Pagination,
		Telemetry:  cfg.Classifier.TelemetryEnabled(),
	}
}
