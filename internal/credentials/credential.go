// Package credentials stores workspace-owned provider API keys, sealed at rest.
package credentials

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Where a provider's key comes from.
const (
	ViaWorkspace   = "workspace"
	ViaEnvironment = "environment"
)

// Credential is a sealed API key for one provider in one workspace.
// The plaintext key is never serialized.
type Credential struct {
	ID              uuid.UUID `json:"id"`
	WorkspaceID     uuid.UUID `json:"workspace_id"`
	Provider        string    `json:"provider"`
	EncryptedAPIKey string    `json:"-"`
	KeyHint         string    `json:"key_hint"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Setting describes how a provider is configured for a workspace.
type Setting struct {
	Provider      string     `json:"provider"`
	HasAPIKey     bool       `json:"has_api_key"`
	KeyHint       *string    `json:"key_hint"`
	ConfiguredVia *string    `json:"configured_via"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

// UpsertCommand holds the key supplied for a provider.
type UpsertCommand struct {
	APIKey string `json:"api_key"`
}

// Catalog lists the providers that accept workspace keys and reports which of
// them already have a global key from the environment.
type Catalog struct {
	Providers   []string
	Environment map[string]bool
}

func (c Catalog) known(provider string) bool {
	return slices.Contains(c.Providers, provider)
}

func scope(workspaceID uuid.UUID, provider string) string {
	return workspaceID.String() + "/" + provider
}
