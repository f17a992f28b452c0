package templates

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/internal/artifacts"
	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
)

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a template repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "templates"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context, workspaceID uuid.UUID, kind *string) ([]Template, error) {
	q, args := query.
		NewBuilder(projection, defaultSort...).
		WhereEquals("WorkspaceID", workspaceID).
		WhereEquals("Kind", kind).
		Build()

	items, err := repository.QueryMany(ctx, r.db, q, args, scanTemplate)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	return items, nil
}

func (r *repo) Find(ctx context.Context, workspaceID, id uuid.UUID) (*Template, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("WorkspaceID", workspaceID).
		WhereEquals("ID", id).
		BuildSingleOrNull()

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTemplate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &t, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Template, error) {
	if err := validateCreate(&cmd); err != nil {
		return nil, err
	}

	meta := cmd.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Template, error) {
		version := 0
		if cmd.Version != nil {
			version = *cmd.Version
		} else {
			var latest int
			err := tx.QueryRowContext(
				ctx,
				`SELECT COALESCE(MAX(version), 0) FROM templates
				 WHERE workspace_id = $1 AND name = $2 AND kind = $3`,
				cmd.WorkspaceID, cmd.Name, cmd.Kind,
			).Scan(&latest)
			if err != nil {
				return Template{}, err
			}
			version = latest + 1
		}

		q := `
			INSERT INTO templates(id, workspace_id, name, kind, version, content, meta)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING ` + returning

		args := []any{
			uuid.New(),
			cmd.WorkspaceID,
			cmd.Name,
			cmd.Kind,
			version,
			cmd.Content,
			repository.JSONArg(meta),
		}
		return repository.QueryOne(ctx, tx, q, args, scanTemplate)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("template created", "id", t.ID, "name", t.Name, "kind", t.Kind, "version", t.Version)
	return &t, nil
}

func (r *repo) Update(ctx context.Context, workspaceID, id uuid.UUID, cmd UpdateCommand) (*Template, error) {
	if cmd.Version != nil && *cmd.Version < 1 {
		return nil, fmt.Errorf("%w: version must be >= 1", ErrInvalidInput)
	}
	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
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
		UPDATE templates
		SET name = COALESCE($3, name),
			version = COALESCE($4, version),
			content = COALESCE($5, content),
			meta = COALESCE($6::jsonb, meta)
		WHERE workspace_id = $1 AND id = $2
		RETURNING ` + returning

	args := []any{workspaceID, id, cmd.Name, cmd.Version, cmd.Content, repository.JSONArg(meta)}

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTemplate)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("template updated", "id", t.ID)
	return &t, nil
}

func (r *repo) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM templates WHERE workspace_id = $1 AND id = $2",
		workspaceID, id,
	)
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("template deleted", "id", id)
	return nil
}

func validateCreate(cmd *CreateCommand) error {
	cmd.Name = strings.TrimSpace(cmd.Name)
	if cmd.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !slices.Contains(artifacts.TextKinds, artifacts.Kind(cmd.Kind)) {
		return fmt.Errorf("%w: kind must be one of tweet, linkedin, blog", ErrInvalidInput)
	}
	if strings.TrimSpace(cmd.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if cmd.Version != nil && *cmd.Version < 1 {
		return fmt.Errorf("%w: version must be >= 1", ErrInvalidInput)
	}
	return nil
}
