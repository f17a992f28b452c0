package artifacts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates an artifact repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "artifacts"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context, workspaceID uuid.UUID, filters Filters) ([]Artifact, error) {
	qb := query.
		NewBuilder(projection, newestFirst...).
		WhereEquals("WorkspaceID", workspaceID)

	filters.Apply(qb)

	q, args := qb.Build()
	items, err := repository.QueryMany(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, workspaceID, id uuid.UUID) (*Artifact, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("WorkspaceID", workspaceID).
		WhereEquals("ID", id).
		BuildSingleOrNull()

	a, err := repository.QueryOne(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Latest(ctx context.Context, workspaceID, projectID uuid.UUID, kind Kind) (*Artifact, error) {
	q, args := query.
		NewBuilder(projection, newestFirst...).
		WhereEquals("WorkspaceID", workspaceID).
		WhereEquals("ProjectID", projectID).
		WhereEquals("Kind", string(kind)).
		BuildSingleOrNull()

	a, err := repository.QueryOne(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &a, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Artifact, error) {
	meta := cmd.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	q := `
		INSERT INTO artifacts(id, workspace_id, project_id, kind, title, content, meta)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + returning

	args := []any{
		uuid.New(),
		cmd.WorkspaceID,
		cmd.ProjectID,
		cmd.Kind,
		cmd.Title,
		cmd.Content,
		repository.JSONArg(meta),
	}

	a, err := repository.QueryOne(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("artifact created", "id", a.ID, "kind", a.Kind, "project_id", a.ProjectID)
	return &a, nil
}

func (r *repo) Update(ctx context.Context, workspaceID, id uuid.UUID, cmd UpdateCommand) (*Artifact, error) {
	if cmd.Empty() {
		return r.Find(ctx, workspaceID, id)
	}

	var meta any
	if cmd.Meta != nil {
		m := *cmd.Meta
		if m == nil {
			m = map[string]any{}
		}
		meta = m
	}

	q := `
		UPDATE artifacts
		SET title = COALESCE($3, title),
			content = COALESCE($4, content),
			meta = COALESCE($5::jsonb, meta),
			updated_at = now()
		WHERE workspace_id = $1 AND id = $2
		RETURNING ` + returning

	args := []any{workspaceID, id, cmd.Title, cmd.Content, repository.JSONArg(meta)}

	a, err := repository.QueryOne(ctx, r.db, q, args, scanArtifact)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("artifact updated", "id", a.ID)
	return &a, nil
}
