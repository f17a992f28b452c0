package workflows

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/projects"
	"github.com/JaimeStill/trendr/internal/tasks"
	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a workflow repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "workflows"),
	}
}

func (r *repo) Handler(v Validator, projectStore projects.Store, dispatcher tasks.Dispatcher) *Handler {
	return NewHandler(r, v, projectStore, dispatcher, r.logger)
}

func (r *repo) List(ctx context.Context, workspaceID uuid.UUID) ([]Workflow, error) {
	q, args := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("WorkspaceID", workspaceID).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanWorkflow)
	if err != nil {
		return nil, fmt.Errorf("query workflows: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, workspaceID, id uuid.UUID) (*Workflow, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("WorkspaceID", workspaceID).
		WhereEquals("ID", id).
		BuildSingleOrNull()

	w, err := repository.QueryOne(ctx, r.db, q, args, scanWorkflow)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &w, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Workflow, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	q := `
		INSERT INTO workflows(id, workspace_id, name, definition)
		VALUES ($1, $2, $3, $4)
		RETURNING id, workspace_id, name, definition, created_at`

	args := []any{uuid.New(), cmd.WorkspaceID, cmd.Name, repository.JSONArg(cmd.Definition)}

	w, err := repository.QueryOne(ctx, r.db, q, args, scanWorkflow)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("workflow created", "id", w.ID, "name", w.Name)
	return &w, nil
}
