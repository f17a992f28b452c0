package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
	"github.com/JaimeStill/trendr/pkg/secrets"
)

type repo struct {
	db      *sql.DB
	box     *secrets.Box
	catalog Catalog
	logger  *slog.Logger
}

// New creates a credential repository implementing the System interface.
// Keys are sealed with box, bound to their workspace and provider.
func New(db *sql.DB, box *secrets.Box, catalog Catalog, logger *slog.Logger) System {
	return &repo{
		db:      db,
		box:     box,
		catalog: catalog,
		logger:  logger.With("system", "credentials"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Settings(ctx context.Context, workspaceID uuid.UUID) ([]Setting, error) {
	q, args := query.
		NewBuilder(projection, query.SortField{Field: "Provider"}).
		WhereEquals("WorkspaceID", workspaceID).
		Build()

	creds, err := repository.QueryMany(ctx, r.db, q, args, scanCredential)
	if err != nil {
		return nil, fmt.Errorf("query provider credentials: %w", err)
	}

	byProvider := make(map[string]*Credential, len(creds))
	for i := range creds {
		byProvider[creds[i].Provider] = &creds[i]
	}

	settings := make([]Setting, 0, len(r.catalog.Providers))
	for _, p := range r.catalog.Providers {
		settings = append(settings, r.catalog.setting(p, byProvider[p]))
	}
	return settings, nil
}

func (r *repo) Upsert(
	ctx context.Context,
	workspaceID uuid.UUID,
	provider string,
	cmd UpsertCommand,
) (*Setting, error) {
	if !r.catalog.known(provider) {
		return nil, fmt.Errorf("%w '%s'", ErrUnknownProvider, provider)
	}

	key := strings.TrimSpace(cmd.APIKey)
	if key == "" {
		return nil, fmt.Errorf("%w: api_key is required", ErrInvalidInput)
	}

	sealed, err := r.box.Seal(key, scope(workspaceID, provider))
	if err != nil {
		return nil, fmt.Errorf("seal api key: %w", err)
	}

	q := `
		INSERT INTO provider_credentials(id, workspace_id, provider, encrypted_api_key, key_hint)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (workspace_id, provider) DO UPDATE
		SET encrypted_api_key = EXCLUDED.encrypted_api_key,
			key_hint = EXCLUDED.key_hint,
			updated_at = now()
		RETURNING ` + returning

	args := []any{uuid.New(), workspaceID, provider, sealed, secrets.Hint(key)}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCredential)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("provider credential stored", "provider", provider, "workspace_id", workspaceID)
	s := r.catalog.setting(provider, &c)
	return &s, nil
}

func (r *repo) Delete(ctx context.Context, workspaceID uuid.UUID, provider string) (bool, error) {
	if !r.catalog.known(provider) {
		return false, fmt.Errorf("%w '%s'", ErrUnknownProvider, provider)
	}

	err := repository.ExecExpectOne(
		ctx, r.db,
		"DELETE FROM provider_credentials WHERE workspace_id = $1 AND provider = $2",
		workspaceID, provider,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete provider credential: %w", err)
	}

	r.logger.Info("provider credential deleted", "provider", provider, "workspace_id", workspaceID)
	return true, nil
}

func (r *repo) APIKey(ctx context.Context, workspaceID uuid.UUID, provider string) (string, bool, error) {
	q, args := query.
		NewBuilder(projection).
		WhereEquals("WorkspaceID", workspaceID).
		WhereEquals("Provider", provider).
		BuildSingleOrNull()

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCredential)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query provider credential: %w", err)
	}

	key, err := r.box.Open(c.EncryptedAPIKey, scope(workspaceID, provider))
	if err != nil {
		return "", false, fmt.Errorf("open %s credential: %w", provider, err)
	}
	return key, true, nil
}
