package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/autou/internal/api"
	"github.com/JaimeStill/autou/internal/config"
	"github.com/JaimeStill/autou/internal/infrastructure"
	"github.com/JaimeStill/autou/pkg/module"
)

type Modules struct {
	API *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{
		API: apiModule,
	}, nil
}

// Mount serves the API module under its prefix and at the root, so clients
// can call /classify as well as /api/classify.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.MountRoot(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		// the database never gates readiness; telemetry degrades silently
		body := map[string]any{"status": "ready", "database": databaseState(infra)}
		status := http.StatusOK
		if pending := infra.Lifecycle.Pending(); len(pending) > 0 {
			body["status"] = "not ready"
			body["pending"] = pending
			status = http.StatusServiceUnavailable
		}

		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	})

	router.HandleNative("GET /metrics", infra.Metrics.Handler().ServeHTTP)

	return router
}

func databaseState(infra *infrastructure.Infrastructure) string {
	switch {
	case infra.Database == nil:
		return "disabled"
	case infra.Database.Ready():
		return "connected"
	default:
		return "unavailable"
	}
}
