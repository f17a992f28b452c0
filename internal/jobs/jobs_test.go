package jobs_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"testing"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/jobs"
	"github.com/JaimeStill/trendr/internal/memstore"
)

type kindedError struct{}

func (kindedError) Error() string { return "quota exceeded" }
func (kindedError) Kind() string  { return "RateLimitError" }

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", errors.New("boom"), "Error: boom"},
		{"kinded", kindedError{}, "RateLimitError: quota exceeded"},
		{"wrapped kinded", fmt.Errorf("generate: %w", kindedError{}), "RateLimitError: generate: quota exceeded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jobs.Describe(tt.err); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", jobs.ErrNotFound, http.StatusNotFound},
		{"duplicate", jobs.ErrDuplicate, http.StatusConflict},
		{"invalid input", fmt.Errorf("%w: bad json", jobs.ErrInvalidInput), http.StatusBadRequest},
		{"unknown error", errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jobs.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	for status, want := range map[jobs.Status]bool{
		jobs.StatusQueued:    false,
		jobs.StatusRunning:   false,
		jobs.StatusSucceeded: true,
		jobs.StatusFailed:    true,
	} {
		if got := status.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %v, want %v", status, got, want)
		}
	}
}

func TestFiltersFromQuery(t *testing.T) {
	project := uuid.New()

	t.Run("all params present", func(t *testing.T) {
		f := jobs.FiltersFromQuery(url.Values{
			"kind":       {"ingest"},
			"status":     {"failed"},
			"project_id": {project.String()},
		})

		if f.Kind == nil || *f.Kind != "ingest" {
			t.Errorf("Kind = %v, want ingest", f.Kind)
		}
		if f.Status == nil || *f.Status != "failed" {
			t.Errorf("Status = %v, want failed", f.Status)
		}
		if f.ProjectID == nil || *f.ProjectID != project {
			t.Errorf("ProjectID = %v, want %v", f.ProjectID, project)
		}
	})

	t.Run("invalid project_id ignored", func(t *testing.T) {
		f := jobs.FiltersFromQuery(url.Values{"project_id": {"nope"}})
		if f.ProjectID != nil || f.Kind != nil || f.Status != nil {
			t.Errorf("filters = %+v, want empty", f)
		}
	})
}

func TestDecodeInput(t *testing.T) {
	var v struct {
		URL string `json:"url"`
	}

	empty := &jobs.Job{}
	if err := empty.DecodeInput(&v); err != nil {
		t.Errorf("empty input error = %v", err)
	}

	bad := &jobs.Job{Input: []byte(`{"url":`)}
	if err := bad.DecodeInput(&v); !errors.Is(err, jobs.ErrInvalidInput) {
		t.Errorf("malformed input error = %v", err)
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("success records output", func(t *testing.T) {
		store := memstore.NewJobs()
		job, _ := store.Create(ctx, jobs.CreateCommand{WorkspaceID: uuid.New(), Kind: jobs.KindIngest})

		done, err := jobs.Run(ctx, store, job.WorkspaceID, job.ID, func(_ context.Context, j *jobs.Job) (any, error) {
			if j.Status != jobs.StatusRunning {
				t.Errorf("work saw status %q", j.Status)
			}
			return map[string]int{"count": 2}, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if done.Status != jobs.StatusSucceeded || string(done.Output) != `{"count":2}` {
			t.Errorf("job = %s %s", done.Status, done.Output)
		}
		if !slices.Equal(store.Transitions, []jobs.Status{jobs.StatusRunning, jobs.StatusSucceeded}) {
			t.Errorf("transitions = %v", store.Transitions)
		}
	})

	t.Run("failure records described error", func(t *testing.T) {
		store := memstore.NewJobs()
		job, _ := store.Create(ctx, jobs.CreateCommand{WorkspaceID: uuid.New(), Kind: jobs.KindGenerate})

		done, err := jobs.Run(ctx, store, job.WorkspaceID, job.ID, func(context.Context, *jobs.Job) (any, error) {
			return nil, kindedError{}
		})
		if !errors.Is(err, kindedError{}) {
			t.Fatalf("error = %v", err)
		}
		if done.Status != jobs.StatusFailed || done.ErrorMessage() != "RateLimitError: quota exceeded" {
			t.Errorf("job = %s %q", done.Status, done.ErrorMessage())
		}
	})

	t.Run("redelivered job not rerun", func(t *testing.T) {
		store := memstore.NewJobs()
		job, _ := store.Create(ctx, jobs.CreateCommand{WorkspaceID: uuid.New(), Kind: jobs.KindIngest})

		calls := 0
		work := func(context.Context, *jobs.Job) (any, error) {
			calls++
			return map[string]int{"count": calls}, nil
		}

		if _, err := jobs.Run(ctx, store, job.WorkspaceID, job.ID, work); err != nil {
			t.Fatal(err)
		}
		again, err := jobs.Run(ctx, store, job.WorkspaceID, job.ID, work)
		if err != nil {
			t.Fatal(err)
		}

		if calls != 1 {
			t.Errorf("work ran %d times", calls)
		}
		if again.Status != jobs.StatusSucceeded || string(again.Output) != `{"count":1}` {
			t.Errorf("job = %s %s", again.Status, again.Output)
		}
		if !slices.Equal(store.Transitions, []jobs.Status{jobs.StatusRunning, jobs.StatusSucceeded}) {
			t.Errorf("transitions = %v", store.Transitions)
		}
	})

	t.Run("started job skipped", func(t *testing.T) {
		for _, status := range []jobs.Status{jobs.StatusRunning, jobs.StatusFailed} {
			store := memstore.NewJobs()
			job := store.Seed(&jobs.Job{WorkspaceID: uuid.New(), Kind: jobs.KindGenerate, Status: status})

			got, err := jobs.Run(ctx, store, job.WorkspaceID, job.ID, func(context.Context, *jobs.Job) (any, error) {
				t.Errorf("work ran for a %s job", status)
				return nil, nil
			})
			if err != nil || got.Status != status || len(store.Transitions) != 0 {
				t.Errorf("%s: job = %v, err = %v, transitions = %v", status, got, err, store.Transitions)
			}
		}
	})

	t.Run("workspace scoped", func(t *testing.T) {
		store := memstore.NewJobs()
		job, _ := store.Create(ctx, jobs.CreateCommand{WorkspaceID: uuid.New(), Kind: jobs.KindMedia})

		_, err := jobs.Run(ctx, store, uuid.New(), job.ID, func(context.Context, *jobs.Job) (any, error) {
			t.Error("work ran for a foreign workspace")
			return nil, nil
		})
		if !errors.Is(err, jobs.ErrNotFound) {
			t.Errorf("error = %v, want not found", err)
		}
	})
}
