package api

import (
	"github.com/JaimeStill/trendr/internal/artifacts"
	"github.com/JaimeStill/trendr/internal/credentials"
	"github.com/JaimeStill/trendr/internal/engine"
	"github.com/JaimeStill/trendr/internal/generate"
	"github.com/JaimeStill/trendr/internal/ingest"
	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/media"
	"github.com/JaimeStill/trendr/internal/projects"
	"github.com/JaimeStill/trendr/internal/providers"
	"github.com/JaimeStill/trendr/internal/tasks"
	"github.com/JaimeStill/trendr/internal/templates"
	"github.com/JaimeStill/trendr/internal/worker"
	"github.com/JaimeStill/trendr/internal/workflows"
	"github.com/JaimeStill/trendr/internal/workspaces"
)

// Domain holds all domain systems shared by the API and the worker.
type Domain struct {
	Workspaces  workspaces.System
	Projects    projects.System
	Artifacts   artifacts.System
	Jobs        jobs.System
	Templates   templates.System
	Credentials credentials.System
	Workflows   workflows.System

	Providers  *providers.Router
	Dispatcher tasks.Dispatcher

	// Units execute queued jobs; Nodes are the workflow node handlers and
	// the task set workflow definitions are validated against.
	Units worker.Units
	Nodes engine.Handlers
}

// NewDomain creates all domain systems from the runtime.
func NewDomain(runtime *Runtime) *Domain {
	db := runtime.Database.Connection()
	logger := runtime.Logger

	jobsSystem := jobs.New(db, logger, runtime.Metrics, runtime.Pagination)
	projectsSystem := projects.New(db, logger, runtime.Pagination)
	artifactsSystem := artifacts.New(db, logger)
	templatesSystem := templates.New(db, logger)
	workflowsSystem := workflows.New(db, logger)

	credentialsSystem := credentials.New(
		db,
		runtime.Secrets,
		credentials.Catalog{
			Providers:   []string{providers.NameOpenAI},
			Environment: providers.EnvironmentKeys(&runtime.Providers),
		},
		logger,
	)

	registry := providers.NewRegistry()
	providers.Register(registry, &runtime.Providers, credentialsSystem, logger)
	router := providers.NewRouter(
		registry,
		runtime.Providers.TextChain(),
		runtime.Providers.ImageChain(),
		runtime.Metrics,
		logger,
	)

	ingestRunner := ingest.NewRunner(jobsSystem, artifactsSystem, ingest.StubSource{}, logger)
	generateRunner := generate.NewRunner(
		jobsSystem,
		artifactsSystem,
		templatesSystem,
		generate.NewWriter(router),
		logger,
	)
	mediaRunner := media.NewRunner(
		jobsSystem,
		artifactsSystem,
		router,
		runtime.Storage,
		runtime.Media.MaxImageSizeBytes(),
		logger,
	)

	nodes := engine.DefaultHandlers(&engine.Runtime{
		Jobs:     jobsSystem,
		Projects: projectsSystem,
		Ingest:   ingestRunner,
		Generate: generateRunner,
		Media:    mediaRunner,
		Logger:   logger,
	})

	executor := engine.NewExecutor(jobsSystem, workflowsSystem, nodes, runtime.Metrics, logger)

	return &Domain{
		Workspaces:  workspaces.New(db, logger),
		Projects:    projectsSystem,
		Artifacts:   artifactsSystem,
		Jobs:        jobsSystem,
		Templates:   templatesSystem,
		Credentials: credentialsSystem,
		Workflows:   workflowsSystem,
		Providers:   router,
		Dispatcher:  tasks.NewDispatcher(jobsSystem, runtime.Queue, logger),
		Units: worker.Units{
			Ingest:   ingestRunner,
			Generate: generateRunner,
			Media:    mediaRunner,
			Workflow: executor,
		},
		Nodes: nodes,
	}
}
