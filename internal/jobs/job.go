// Package jobs persists units of asynchronous work and their status transitions.
package jobs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind identifies the unit of work a job performs.
type Kind string

const (
	KindIngest   Kind = "ingest"
	KindGenerate Kind = "generate"
	KindWorkflow Kind = "workflow"
	KindMedia    Kind = "media"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Job is a persisted unit of work. Input and Output are opaque JSON documents
// whose shape depends on Kind.
type Job struct {
	ID          uuid.UUID       `json:"id"`
	WorkspaceID uuid.UUID       `json:"workspace_id"`
	ProjectID   *uuid.UUID      `json:"project_id,omitempty"`
	Kind        Kind            `json:"kind"`
	Status      Status          `json:"status"`
	TaskID      *string         `json:"task_id,omitempty"`
	Input       json.RawMessage `json:"input"`
	Output      json.RawMessage `json:"output"`
	Error       *string         `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// DecodeInput unmarshals the job input into v. An empty input leaves v unchanged.
func (j *Job) DecodeInput(v any) error {
	if len(j.Input) == 0 || string(j.Input) == "null" {
		return nil
	}
	if err := json.Unmarshal(j.Input, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// ErrorMessage returns the persisted error or an empty string.
func (j *Job) ErrorMessage() string {
	if j.Error == nil {
		return ""
	}
	return *j.Error
}

// CreateCommand holds the fields for creating a queued job.
type CreateCommand struct {
	WorkspaceID uuid.UUID
	ProjectID   *uuid.UUID
	Kind        Kind
	Input       any
}

// TransitionCommand moves a job to Status. A nil Output keeps the stored output;
// Error replaces the stored error.
type TransitionCommand struct {
	Status Status
	Output any
	Error  *string
}
