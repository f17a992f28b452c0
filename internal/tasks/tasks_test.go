package tasks_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/tasks"
)

type memoryJobs struct {
	jobs map[uuid.UUID]*jobs.Job
}

func (m *memoryJobs) Find(_ context.Context, ws, id uuid.UUID) (*jobs.Job, error) {
	j, ok := m.jobs[id]
	if !ok || j.WorkspaceID != ws {
		return nil, jobs.ErrNotFound
	}
	return j, nil
}

func (m *memoryJobs) Create(_ context.Context, cmd jobs.CreateCommand) (*jobs.Job, error) {
	j := &jobs.Job{ID: uuid.New(), WorkspaceID: cmd.WorkspaceID, Kind: cmd.Kind, Status: jobs.StatusQueued}
	m.jobs[j.ID] = j
	return j, nil
}

func (m *memoryJobs) Transition(ctx context.Context, ws, id uuid.UUID, cmd jobs.TransitionCommand) (*jobs.Job, error) {
	j, err := m.Find(ctx, ws, id)
	if err != nil {
		return nil, err
	}
	j.Status = cmd.Status
	j.Error = cmd.Error
	return j, nil
}

func (m *memoryJobs) SetTaskID(ctx context.Context, ws, id uuid.UUID, taskID string) (*jobs.Job, error) {
	j, err := m.Find(ctx, ws, id)
	if err != nil {
		return nil, err
	}
	j.TaskID = &taskID
	return j, nil
}

type fakeQueue struct {
	task    string
	payload any
	err     error
}

func (q *fakeQueue) Enqueue(_ context.Context, task string, payload any) (string, error) {
	q.task = task
	q.payload = payload
	return "1700000000000-0", q.err
}

func TestDispatch(t *testing.T) {
	store := &memoryJobs{jobs: map[uuid.UUID]*jobs.Job{}}
	q := &fakeQueue{}
	d := tasks.NewDispatcher(store, q, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ws := uuid.New()
	job, err := d.Dispatch(context.Background(), tasks.RunWorkflow, jobs.CreateCommand{
		WorkspaceID: ws,
		Kind:        jobs.KindWorkflow,
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	if job.TaskID == nil || *job.TaskID != "1700000000000-0" {
		t.Errorf("task id = %v", job.TaskID)
	}
	if q.task != tasks.RunWorkflow {
		t.Errorf("task = %q", q.task)
	}
	payload, ok := q.payload.(tasks.Payload)
	if !ok {
		t.Fatalf("payload type = %T", q.payload)
	}
	if payload.JobID != job.ID || payload.WorkspaceID != ws {
		t.Errorf("payload = %+v", payload)
	}
}

func TestDispatchEnqueueFailure(t *testing.T) {
	store := &memoryJobs{jobs: map[uuid.UUID]*jobs.Job{}}
	q := &fakeQueue{err: errors.New("redis down")}
	d := tasks.NewDispatcher(store, q, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := d.Dispatch(context.Background(), tasks.IngestYouTube, jobs.CreateCommand{
		WorkspaceID: uuid.New(),
		Kind:        jobs.KindIngest,
	})
	if err == nil {
		t.Fatal("expected error")
	}

	if len(store.jobs) != 1 {
		t.Fatalf("jobs = %d, want 1", len(store.jobs))
	}
	for _, j := range store.jobs {
		if j.Status != jobs.StatusFailed {
			t.Errorf("status = %q, want failed", j.Status)
		}
		if j.ErrorMessage() != "Error: redis down" {
			t.Errorf("error = %q", j.ErrorMessage())
		}
	}
}
