package main

import (
	"time"

	"github.com/JaimeStill/autou/internal/config"
	"github.com/JaimeStill/autou/internal/infrastructure"
	"github.com/JaimeStill/autou/pkg/module"
)

// Server wires infrastructure, the API module, and the HTTP listener.
type Server struct {
	infra  *infrastructure.Infrastructure
	router *module.Router
	http   *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra)
	modules.Mount(router)

	infra.Logger.Info("server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"model_version", infra.Model.Version,
		"threshold", infra.Model.Threshold,
		"telemetry", cfg.Classifier.TelemetryEnabled() && infra.Database != nil,
	)

	return &Server{
		infra:  infra,
		router: router,
		http:   newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start launches infrastructure hooks and the listener. It returns once the
// listener is bound; readiness is reported by /readyz.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		if pending := s.infra.Lifecycle.Pending(); len(pending) > 0 {
			s.infra.Logger.Warn("startup finished, not ready", "pending", pending)
			return
		}
		s.infra.Logger.Info("startup finished, ready")
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("shutting down", "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}
