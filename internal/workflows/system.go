package workflows

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/projects"
	"github.com/JaimeStill/trendr/internal/tasks"
)

// Finder loads a workflow within a workspace.
type Finder interface {
	Find(ctx context.Context, workspaceID, id uuid.UUID) (*Workflow, error)
}

// Validator checks a definition against the registered node handlers.
type Validator interface {
	Validate(definition json.RawMessage) error
}

// System defines the public contract for workflow domain operations.
type System interface {
	Finder

	Handler(v Validator, projectStore projects.Store, dispatcher tasks.Dispatcher) *Handler

	List(ctx context.Context, workspaceID uuid.UUID) ([]Workflow, error)
	Create(ctx context.Context, cmd CreateCommand) (*Workflow, error)
}
