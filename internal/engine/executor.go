package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/workflows"
	"github.com/JaimeStill/trendr/pkg/metrics"
)

// Ledger entry statuses.
const (
	NodeSucceeded = "succeeded"
	NodeFailed    = "failed"
)

// NodeRecord is one ledger entry: the outcome of a single node.
type NodeRecord struct {
	NodeID     string    `json:"node_id"`
	Task       string    `json:"task"`
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Result     any       `json:"result,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Output is the result document of a succeeded workflow job.
type Output struct {
	WorkflowID   uuid.UUID    `json:"workflow_id"`
	WorkflowName string       `json:"workflow_name"`
	ProjectID    *uuid.UUID   `json:"project_id"`
	ArtifactIDs  []uuid.UUID  `json:"artifact_ids"`
	NodeStatuses []NodeRecord `json:"node_statuses"`
}

// FailureOutput is the result document of a failed workflow job.
type FailureOutput struct {
	Error        string       `json:"error"`
	NodeStatuses []NodeRecord `json:"node_statuses"`
}

// Executor runs workflow jobs. A run's outcome is communicated only through
// the persisted parent job.
type Executor struct {
	jobs      jobs.Store
	workflows workflows.Finder
	handlers  Handlers
	metrics   *metrics.Collector
	logger    *slog.Logger
}

// NewExecutor creates an Executor dispatching nodes to handlers.
func NewExecutor(
	jobStore jobs.Store,
	finder workflows.Finder,
	handlers Handlers,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Executor {
	return &Executor{
		jobs:      jobStore,
		workflows: finder,
		handlers:  handlers,
		metrics:   collector,
		logger:    logger.With("system", "engine"),
	}
}

// Handlers returns the registered node handlers.
func (e *Executor) Handlers() Handlers {
	return e.handlers
}

// Run executes the workflow job id. The job is loaded, its workflow loaded
// and validated, and its nodes ordered before it is marked running; any
// failure there fails the job with an empty ledger. Nodes then run one at a
// time and the first failure stops the run. A job that is no longer queued
// is left untouched, so a redelivered task never runs a workflow twice. Run
// returns an error only when the job itself could not be loaded or updated.
func (e *Executor) Run(ctx context.Context, workspaceID, id uuid.UUID) error {
	job, err := e.jobs.Find(ctx, workspaceID, id)
	if err != nil {
		return fmt.Errorf("load workflow job: %w", err)
	}

	logger := e.logger.With("job_id", job.ID, "workspace_id", workspaceID)

	if job.Status != jobs.StatusQueued {
		logger.Warn("workflow job already started, skipping", "status", job.Status)
		return nil
	}

	var in workflows.RunInput
	if err := job.DecodeInput(&in); err != nil {
		return e.fail(ctx, logger, job, err, nil)
	}

	wf, order, err := e.plan(ctx, workspaceID, in.WorkflowID)
	if err != nil {
		return e.fail(ctx, logger, job, err, nil)
	}

	job, err = e.jobs.Transition(ctx, workspaceID, id, jobs.TransitionCommand{Status: jobs.StatusRunning})
	if errors.Is(err, jobs.ErrNotQueued) {
		logger.Warn("workflow job started elsewhere, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("mark workflow job running: %w", err)
	}

	logger = logger.With("workflow_id", wf.ID)
	logger.Info("workflow started", "nodes", len(order))

	exec := Seed(workspaceID, in)
	ledger := make([]NodeRecord, 0, len(order))

	for _, node := range order {
		record, err := e.runNode(ctx, exec, node, job)
		ledger = append(ledger, record)
		if err != nil {
			return e.fail(ctx, logger, job, err, ledger)
		}
	}

	out := Output{
		WorkflowID:   wf.ID,
		WorkflowName: wf.Name,
		ProjectID:    exec.ProjectID,
		ArtifactIDs:  exec.ArtifactIDs,
		NodeStatuses: ledger,
	}

	if _, err := e.jobs.Transition(ctx, workspaceID, id, jobs.TransitionCommand{
		Status: jobs.StatusSucceeded,
		Output: out,
	}); err != nil {
		return fmt.Errorf("mark workflow job succeeded: %w", err)
	}

	logger.Info("workflow succeeded", "artifacts", len(exec.ArtifactIDs))
	return nil
}

// plan loads the workflow within the workspace, validates it against the
// registered handlers, and orders its nodes.
func (e *Executor) plan(ctx context.Context, workspaceID, workflowID uuid.UUID) (*workflows.Workflow, []Node, error) {
	wf, err := e.workflows.Find(ctx, workspaceID, workflowID)
	if err != nil {
		if errors.Is(err, workflows.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("load workflow: %w", err)
	}

	def, err := ValidateJSON(wf.Definition, e.handlers.Tasks())
	if err != nil {
		return nil, nil, err
	}

	order, err := Order(def)
	if err != nil {
		return nil, nil, err
	}
	return wf, order, nil
}

func (e *Executor) runNode(ctx context.Context, exec *ExecutionContext, node Node, parent *jobs.Job) (NodeRecord, error) {
	record := NodeRecord{
		NodeID:    node.ID,
		Task:      node.Task,
		StartedAt: time.Now().UTC(),
	}

	var (
		result any
		err    error
	)

	h, ok := e.handlers[node.Task]
	if !ok {
		err = invalid(ErrUnsupportedTask, node.ID, "No handler registered for task '%s'", node.Task)
	} else {
		params := node.Params
		if params == nil {
			params = Params{}
		}
		result, err = h.Handle(ctx, exec, params, parent)
	}

	record.FinishedAt = time.Now().UTC()
	elapsed := record.FinishedAt.Sub(record.StartedAt)

	if err != nil {
		record.Status = NodeFailed
		record.Error = jobs.Describe(err)
		e.metrics.NodeExecuted(node.Task, NodeFailed, elapsed)
		e.logger.Warn("workflow node failed", "job_id", parent.ID, "node_id", node.ID, "task", node.Task, "error", err)
		return record, &HandlerError{NodeID: node.ID, Task: node.Task, Err: err}
	}

	record.Status = NodeSucceeded
	record.Result = result
	e.metrics.NodeExecuted(node.Task, NodeSucceeded, elapsed)
	e.logger.Debug("workflow node succeeded", "job_id", parent.ID, "node_id", node.ID, "task", node.Task, "duration", elapsed)
	return record, nil
}

// fail marks job failed with the ledger recorded so far.
func (e *Executor) fail(ctx context.Context, logger *slog.Logger, job *jobs.Job, cause error, ledger []NodeRecord) error {
	if ledger == nil {
		ledger = []NodeRecord{}
	}

	msg := jobs.Describe(cause)
	_, err := e.jobs.Transition(ctx, job.WorkspaceID, job.ID, jobs.TransitionCommand{
		Status: jobs.StatusFailed,
		Output: FailureOutput{Error: msg, NodeStatuses: ledger},
		Error:  &msg,
	})
	if err != nil {
		return fmt.Errorf("mark workflow job failed: %w (cause: %v)", err, cause)
	}

	logger.Warn("workflow failed", "error", msg, "nodes_run", len(ledger))
	return nil
}
