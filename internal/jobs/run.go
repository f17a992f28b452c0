package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Work performs the job's unit of work and returns its output document.
type Work func(ctx context.Context, job *Job) (any, error)

// Run loads the job, marks it running, executes work, and persists the outcome.
// On work failure the job is marked failed with Describe(err) and the work
// error is returned alongside the failed job. A nil job is returned only when
// the job could not be loaded or updated. A job that is no longer queued,
// e.g. a redelivered task, is returned as loaded without running work.
func Run(ctx context.Context, store Store, workspaceID, id uuid.UUID, work Work) (*Job, error) {
	job, err := store.Find(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	if job.Status != StatusQueued {
		return job, nil
	}

	loaded := job
	job, err = store.Transition(ctx, workspaceID, id, TransitionCommand{Status: StatusRunning})
	if errors.Is(err, ErrNotQueued) {
		return loaded, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mark job running: %w", err)
	}

	output, workErr := work(ctx, job)
	if workErr != nil {
		msg := Describe(workErr)
		failed, err := store.Transition(ctx, workspaceID, id, TransitionCommand{
			Status: StatusFailed,
			Output: output,
			Error:  &msg,
		})
		if err != nil {
			return nil, fmt.Errorf("mark job failed: %w (work error: %v)", err, workErr)
		}
		return failed, workErr
	}

	done, err := store.Transition(ctx, workspaceID, id, TransitionCommand{
		Status: StatusSucceeded,
		Output: output,
	})
	if err != nil {
		return nil, fmt.Errorf("mark job succeeded: %w", err)
	}
	return done, nil
}
