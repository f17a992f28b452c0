package providers

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// keySource picks the API key for a call: the workspace credential when one
// is stored, otherwise the global key.
type keySource struct {
	credential string
	global     string
	creds      CredentialResolver
	logger     *slog.Logger
}

func (k keySource) resolve(ctx context.Context, workspaceID uuid.UUID) string {
	if k.creds != nil && workspaceID != uuid.Nil {
		key, ok, err := k.creds.APIKey(ctx, workspaceID, k.credential)
		switch {
		case err != nil:
			k.logger.Warn("workspace credential lookup failed",
				"provider", k.credential,
				"workspace_id", workspaceID,
				"error", err,
			)
		case ok && key != "":
			return key
		}
	}
	return k.global
}
