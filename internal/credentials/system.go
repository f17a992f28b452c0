package credentials

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for provider credential operations.
type System interface {
	Handler() *Handler

	// Settings reports the configuration of every catalog provider.
	Settings(ctx context.Context, workspaceID uuid.UUID) ([]Setting, error)
	Upsert(ctx context.Context, workspaceID uuid.UUID, provider string, cmd UpsertCommand) (*Setting, error)
	// Delete removes the workspace key and reports whether one existed.
	Delete(ctx context.Context, workspaceID uuid.UUID, provider string) (bool, error)

	// APIKey returns the decrypted workspace key for provider.
	// ok is false when the workspace has none.
	APIKey(ctx context.Context, workspaceID uuid.UUID, provider string) (key string, ok bool, err error)
}
