package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/pkg/metrics"
	"github.com/JaimeStill/trendr/pkg/pagination"
	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	metrics    *metrics.Collector
	pagination pagination.Config
}

// New creates a job repository implementing the System interface.
func New(
	db *sql.DB,
	logger *slog.Logger,
	collector *metrics.Collector,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "jobs"),
		metrics:    collector,
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
	filters Filters,
) (*pagination.PageResult[Job], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("WorkspaceID", workspaceID)

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	result, err := repository.QueryPage(ctx, r.db, qb, page, scanJob)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return result, nil
}

func (r *repo) Find(ctx context.Context, workspaceID, id uuid.UUID) (*Job, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("WorkspaceID", workspaceID).
		WhereEquals("ID", id).
		BuildSingleOrNull()

	j, err := repository.QueryOne(ctx, r.db, q, args, scanJob)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &j, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Job, error) {
	input := cmd.Input
	if input == nil {
		input = map[string]any{}
	}

	q := `
		INSERT INTO jobs(id, workspace_id, project_id, kind, status, input, output)
		VALUES ($1, $2, $3, $4, $5, $6, '{}'::jsonb)
		RETURNING ` + returning

	args := []any{
		uuid.New(),
		cmd.WorkspaceID,
		cmd.ProjectID,
		cmd.Kind,
		StatusQueued,
		repository.JSONArg(input),
	}

	j, err := repository.QueryOne(ctx, r.db, q, args, scanJob)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.metrics.JobTransition(string(j.Kind), string(j.Status))
	r.logger.Info("job created", "id", j.ID, "kind", j.Kind, "workspace_id", j.WorkspaceID)
	return &j, nil
}

func (r *repo) Transition(ctx context.Context, workspaceID, id uuid.UUID, cmd TransitionCommand) (*Job, error) {
	where := "workspace_id = $1 AND id = $2"
	if cmd.Status == StatusRunning {
		where += " AND status = 'queued'"
	}

	q := `
		UPDATE jobs
		SET status = $3,
			output = COALESCE($4::jsonb, output),
			error = $5,
			updated_at = now()
		WHERE ` + where + `
		RETURNING ` + returning

	args := []any{
		workspaceID,
		id,
		cmd.Status,
		repository.JSONArg(cmd.Output),
		cmd.Error,
	}

	j, err := repository.QueryOne(ctx, r.db, q, args, scanJob)
	if err != nil {
		if cmd.Status == StatusRunning && errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotQueued
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.metrics.JobTransition(string(j.Kind), string(j.Status))
	r.logger.Info("job transitioned", "id", j.ID, "kind", j.Kind, "status", j.Status)
	return &j, nil
}

func (r *repo) SetTaskID(ctx context.Context, workspaceID, id uuid.UUID, taskID string) (*Job, error) {
	q := `
		UPDATE jobs
		SET task_id = $3, updated_at = now()
		WHERE workspace_id = $1 AND id = $2
		RETURNING ` + returning

	j, err := repository.QueryOne(ctx, r.db, q, []any{workspaceID, id, taskID}, scanJob)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &j, nil
}
