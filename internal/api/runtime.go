package api

import (
	"github.com/JaimeStill/trendr/internal/config"
	"github.com/JaimeStill/trendr/internal/infrastructure"
	"github.com/JaimeStill/trendr/internal/media"
	"github.com/JaimeStill/trendr/internal/providers"
	"github.com/JaimeStill/trendr/pkg/pagination"
)

// Runtime extends Infrastructure with the configuration domain systems need.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination pagination.Config
	Providers  providers.Config
	Media      media.Config
}

// NewRuntime creates a runtime whose logger is scoped to module.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure, module string) *Runtime {
	scoped := *infra
	scoped.Logger = infra.Logger.With("module", module)

	return &Runtime{
		Infrastructure: &scoped,
		Pagination:     cfg.API.Pagination,
		Providers:      cfg.Providers,
		Media:          cfg.Media,
	}
}
