// Package worker routes queued task messages to the units of work that execute them.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/tasks"
	"github.com/JaimeStill/trendr/pkg/metrics"
	"github.com/JaimeStill/trendr/pkg/queue"
)

// ErrUnknownTask indicates a message names a task with no registered runner.
var ErrUnknownTask = errors.New("unknown task")

// JobRunner executes a standalone job and returns it in its final state.
type JobRunner interface {
	Run(ctx context.Context, workspaceID, id uuid.UUID) (*jobs.Job, error)
}

// WorkflowRunner executes a workflow job, recording its outcome on the job.
type WorkflowRunner interface {
	Run(ctx context.Context, workspaceID, id uuid.UUID) error
}

// Units are the runners behind each queued task.
type Units struct {
	Ingest   JobRunner
	Generate JobRunner
	Media    JobRunner
	Workflow WorkflowRunner
}

type runFunc func(ctx context.Context, p tasks.Payload) error

// Router dispatches queue messages by task name.
type Router struct {
	routes map[string]runFunc
	logger *slog.Logger
}

// NewRouter creates a Router over units.
func NewRouter(units Units, logger *slog.Logger) *Router {
	r := &Router{
		routes: map[string]runFunc{},
		logger: logger.With("system", "worker-router"),
	}

	r.routes[tasks.IngestYouTube] = job(units.Ingest)
	r.routes[tasks.GeneratePosts] = job(units.Generate)
	r.routes[tasks.GenerateImage] = job(units.Media)
	r.routes[tasks.RunWorkflow] = func(ctx context.Context, p tasks.Payload) error {
		return units.Workflow.Run(ctx, p.WorkspaceID, p.JobID)
	}

	return r
}

// Tasks returns the routed task names in ascending order.
func (r *Router) Tasks() []string {
	return slices.Sorted(maps.Keys(r.routes))
}

// Handle decodes the task payload and runs the matching unit of work. A job
// that fails is already recorded as failed; its error is still returned so
// the outcome is observed.
func (r *Router) Handle(ctx context.Context, msg queue.Message) error {
	run, ok := r.routes[msg.Task]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, msg.Task)
	}

	var p tasks.Payload
	if err := msg.Decode(&p); err != nil {
		return err
	}

	r.logger.Debug("running task", "task", msg.Task, "job_id", p.JobID, "workspace_id", p.WorkspaceID)
	return run(ctx, p)
}

// Observer returns a queue observer that counts message outcomes.
func Observer(collector *metrics.Collector) queue.Observer {
	return func(task string, err error) {
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeError
		}
		collector.QueueMessage(task, outcome)
	}
}

func job(unit JobRunner) runFunc {
	return func(ctx context.Context, p tasks.Payload) error {
		_, err := unit.Run(ctx, p.WorkspaceID, p.JobID)
		return err
	}
}
