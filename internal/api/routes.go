package api

import (
	"fmt"
	"net/http"

	"github.com/JaimeStill/autou/internal/config"
	"github.com/JaimeStill/autou/pkg/openapi"
	"github.com/JaimeStill/autou/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	routes.Register(
		mux,
		spec,
		domain.Classifications.Handler(runtime.Limits).Routes(),
		domain.Feedback.Handler().Routes(),
	)

	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal openapi spec: %w", err)
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
