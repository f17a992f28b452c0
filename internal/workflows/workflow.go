// Package workflows stores workspace-owned workflow definitions and starts workflow runs.
package workflows

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Workflow is a named DAG definition of task nodes. Definition is kept as
// submitted and validated by the engine on create and on every run.
type Workflow struct {
	ID          uuid.UUID       `json:"id"`
	WorkspaceID uuid.UUID       `json:"workspace_id"`
	Name        string          `json:"name"`
	Definition  json.RawMessage `json:"definition"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateCommand holds the fields for creating a workflow.
type CreateCommand struct {
	WorkspaceID uuid.UUID       `json:"-"`
	Name        string          `json:"name"`
	Definition  json.RawMessage `json:"definition"`
}

// RunInput is the payload of a workflow job. The request body of
// POST /workflows/{id}/run carries every field except WorkflowID.
type RunInput struct {
	WorkflowID  uuid.UUID      `json:"workflow_id"`
	ProjectID   *uuid.UUID     `json:"project_id,omitempty"`
	URL         string         `json:"url,omitempty"`
	ProjectName string         `json:"project_name,omitempty"`
	Outputs     []string       `json:"outputs,omitempty"`
	Tone        string         `json:"tone,omitempty"`
	BrandVoice  *string        `json:"brand_voice,omitempty"`
	TemplateID  *uuid.UUID     `json:"template_id,omitempty"`
	Meta        map[string]any `json:"meta,omitempty"`
}
