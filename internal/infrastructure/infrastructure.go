// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, queue, metrics,
// credential sealing) that domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/JaimeStill/trendr/internal/config"
	"github.com/JaimeStill/trendr/pkg/database"
	"github.com/JaimeStill/trendr/pkg/lifecycle"
	"github.com/JaimeStill/trendr/pkg/metrics"
	"github.com/JaimeStill/trendr/pkg/queue"
	"github.com/JaimeStill/trendr/pkg/secrets"
	"github.com/JaimeStill/trendr/pkg/storage"
)

// MetricsNamespace prefixes every exported metric.
const MetricsNamespace = "trendr"

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, blob storage, the task queue, metrics, and the
// credential box.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Queue     queue.System
	Metrics   *metrics.Collector
	Secrets   *secrets.Box
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	box, err := secrets.New(cfg.Secrets.Key)
	if err != nil {
		return nil, fmt.Errorf("secrets init failed: %w", err)
	}

	collector := metrics.New(MetricsNamespace)
	collector.WatchDB(db.Connection(), cfg.Database.Name)

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Queue:     queue.New(&cfg.Queue, logger),
		Metrics:   collector,
		Secrets:   box,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// Database, storage, and queue hooks are registered for startup and shutdown coordination.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Queue.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("queue start failed: %w", err)
	}
	return nil
}
