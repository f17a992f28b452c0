package workspaces

import (
	"context"
	"database/sql"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "workspaces", "w").
	Project("id", "ID").
	Project("name", "Name").
	Project("slug", "Slug").
	Project("created_at", "CreatedAt")

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a workspace repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "workspaces"),
	}
}

func (r *repo) Resolve(ctx context.Context, slug string) (*Workspace, error) {
	slug = NormalizeSlug(slug)
	if len(slug) > 64 || strings.ContainsAny(slug, "/?#") {
		return nil, ErrInvalidSlug
	}

	q := `
		INSERT INTO workspaces(id, name, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET slug = EXCLUDED.slug
		RETURNING id, name, slug, created_at`

	w, err := repository.QueryOne(ctx, r.db, q, []any{uuid.New(), slug, slug}, scanWorkspace)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &w, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Workspace, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	w, err := repository.QueryOne(ctx, r.db, q, args, scanWorkspace)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &w, nil
}

func scanWorkspace(s repository.Scanner) (Workspace, error) {
	var w Workspace
	err := s.Scan(&w.ID, &w.Name, &w.Slug, &w.CreatedAt)
	return w, err
}
