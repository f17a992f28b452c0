package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/JaimeStill/trendr/internal/config"
	"github.com/JaimeStill/trendr/internal/infrastructure"
	"github.com/JaimeStill/trendr/pkg/lifecycle"
)

// Server is the API process: infrastructure, the mounted API module, and the
// HTTP listener.
type Server struct {
	infra   *infrastructure.Infrastructure
	modules *Modules
	http    *httpServer
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

	router := buildRouter(infra, readiness{
		"lifecycle": infra.Lifecycle,
		"database":  infra.Database,
		"queue":     infra.Queue,
	})
	modules.Mount(router)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"storage_container", cfg.Storage.ContainerName,
		"queue_stream", cfg.Queue.Stream,
	)

	return &Server{
		infra:   infra,
		modules: modules,
		http:    newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

func (s *Server) Start() error {
	s.infra.Logger.Info("starting api")

	if err := s.infra.Start(); err != nil {
		return err
	}

	if err := s.http.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("startup hooks complete")
	}()

	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown", "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}

// readiness names the subsystems /readyz reports. Every one must be ready for
// the process to accept traffic.
type readiness map[string]lifecycle.ReadinessChecker

func (r readiness) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		checks := make(map[string]string, len(r))
		status, code := "ready", http.StatusOK

		for name, c := range r {
			if c.Ready() {
				checks[name] = "ok"
				continue
			}
			checks[name] = "unavailable"
			status, code = "not ready", http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]any{
			"status": status,
			"checks": checks,
		})
	}
}
