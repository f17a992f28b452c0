// Package tasks names the queued units of work and dispatches them: a job row
// is created, its id enqueued, and the queue message id recorded as task_id.
package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/jobs"
)

// Queue task names.
const (
	IngestYouTube = "ingest_youtube"
	GeneratePosts = "generate_posts"
	GenerateImage = "generate_image"
	RunWorkflow   = "run_workflow"
)

// Payload is the message body of every task.
type Payload struct {
	WorkspaceID uuid.UUID `json:"workspace_id"`
	JobID       uuid.UUID `json:"job_id"`
}

// Enqueuer publishes a task and returns its message id.
type Enqueuer interface {
	Enqueue(ctx context.Context, task string, payload any) (string, error)
}

// JobStore is the job persistence a Dispatcher needs.
type JobStore interface {
	jobs.Store
	SetTaskID(ctx context.Context, workspaceID, id uuid.UUID, taskID string) (*jobs.Job, error)
}

// Dispatcher creates a queued job and hands it to a worker.
type Dispatcher interface {
	Dispatch(ctx context.Context, task string, cmd jobs.CreateCommand) (*jobs.Job, error)
}

type dispatcher struct {
	jobs   JobStore
	queue  Enqueuer
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher over the job store and queue.
func NewDispatcher(store JobStore, queue Enqueuer, logger *slog.Logger) Dispatcher {
	return &dispatcher{
		jobs:   store,
		queue:  queue,
		logger: logger.With("system", "tasks"),
	}
}

// Dispatch creates the job, enqueues task, and records the message id. When
// the enqueue fails the job is marked failed so it never sits queued forever.
func (d *dispatcher) Dispatch(ctx context.Context, task string, cmd jobs.CreateCommand) (*jobs.Job, error) {
	job, err := d.jobs.Create(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("create %s job: %w", cmd.Kind, err)
	}

	taskID, err := d.queue.Enqueue(ctx, task, Payload{WorkspaceID: job.WorkspaceID, JobID: job.ID})
	if err != nil {
		msg := jobs.Describe(err)
		if _, terr := d.jobs.Transition(ctx, job.WorkspaceID, job.ID, jobs.TransitionCommand{
			Status: jobs.StatusFailed,
			Error:  &msg,
		}); terr != nil {
			d.logger.Error("mark undispatched job failed", "job_id", job.ID, "error", terr)
		}
		return nil, fmt.Errorf("enqueue %s: %w", task, err)
	}

	job, err = d.jobs.SetTaskID(ctx, job.WorkspaceID, job.ID, taskID)
	if err != nil {
		return nil, fmt.Errorf("record task id: %w", err)
	}

	d.logger.Info("task dispatched", "task", task, "task_id", taskID, "job_id", job.ID)
	return job, nil
}
