package api

import (
	"net/http"

	"github.com/JaimeStill/trendr/internal/generate"
	"github.com/JaimeStill/trendr/internal/ingest"
	"github.com/JaimeStill/trendr/internal/media"
	"github.com/JaimeStill/trendr/internal/providers"
	"github.com/JaimeStill/trendr/internal/workspaces"
	"github.com/JaimeStill/trendr/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	logger := runtime.Logger

	api := routes.Group{
		Middleware: []func(http.Handler) http.Handler{
			workspaces.Middleware(domain.Workspaces, logger),
		},
		Children: []routes.Group{
			domain.Projects.Handler().Routes(),
			domain.Artifacts.Handler().Routes(),
			domain.Jobs.Handler().Routes(),
			domain.Templates.Handler().Routes(),
			domain.Credentials.Handler().Routes(),
			domain.Workflows.Handler(domain.Nodes, domain.Projects, domain.Dispatcher).Routes(),
			ingest.NewHandler(domain.Projects, domain.Dispatcher, logger).Routes(),
			generate.NewHandler(domain.Projects, domain.Templates, domain.Dispatcher, logger).Routes(),
			media.NewHandler(domain.Projects, domain.Artifacts, runtime.Storage, domain.Dispatcher, logger).Routes(),
			providers.NewHandler(domain.Providers.Registry(), logger).Routes(),
		},
	}

	routes.Register(mux, api)
	logger.Debug("api routes registered", "routes", routes.Patterns(api))
}
