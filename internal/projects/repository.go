package projects

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/pkg/pagination"
	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a project repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "projects"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	workspaceID uuid.UUID,
	page pagination.PageRequest,
) (*pagination.PageResult[Project], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("WorkspaceID", workspaceID).
		WhereSearch(page.Search, "Name", "SourceRef")

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanProject)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, workspaceID, id uuid.UUID) (*Project, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("WorkspaceID", workspaceID).
		WhereEquals("ID", id).
		BuildSingleOrNull()

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Project, error) {
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.SourceRef = strings.TrimSpace(cmd.SourceRef)
	if cmd.SourceType == "" {
		cmd.SourceType = SourceYouTube
	}
	if cmd.Name == "" || cmd.SourceRef == "" {
		return nil, fmt.Errorf("%w: name and source_ref are required", ErrInvalidInput)
	}

	q := `
		INSERT INTO projects(id, workspace_id, name, source_type, source_ref)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, workspace_id, name, source_type, source_ref, created_at`

	args := []any{uuid.New(), cmd.WorkspaceID, cmd.Name, cmd.SourceType, cmd.SourceRef}

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProject)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("project created", "id", p.ID, "workspace_id", p.WorkspaceID)
	return &p, nil
}
