package main

import (
	"encoding/json"
	"net/http"

	"github.com/JaimeStill/trendr/internal/api"
	"github.com/JaimeStill/trendr/internal/config"
	"github.com/JaimeStill/trendr/internal/infrastructure"
	"github.com/JaimeStill/trendr/pkg/module"
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

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
}

func buildRouter(infra *infrastructure.Infrastructure, ready readiness) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", ready.handler())
	router.HandleNativeHandler("GET /metrics", infra.Metrics.Handler())

	return router
}
