package credentials

import (
	"github.com/JaimeStill/trendr/pkg/query"
	"github.com/JaimeStill/trendr/pkg/repository"
)

const returning = "id, workspace_id, provider, encrypted_api_key, key_hint, created_at, updated_at"

var projection = query.
	NewProjectionMap("public", "provider_credentials", "c").
	Project("id", "ID").
	Project("workspace_id", "WorkspaceID").
	Project("provider", "Provider").
	Project("encrypted_api_key", "EncryptedAPIKey").
	Project("key_hint", "KeyHint").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

func scanCredential(s repository.Scanner) (Credential, error) {
	var c Credential
	err := s.Scan(
		&c.ID,
		&c.WorkspaceID,
		&c.Provider,
		&c.EncryptedAPIKey,
		&c.KeyHint,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

func (c Catalog) setting(provider string, cred *Credential) Setting {
	if cred != nil {
		via := ViaWorkspace
		hint := cred.KeyHint
		updated := cred.UpdatedAt
		s := Setting{
			Provider:      provider,
			HasAPIKey:     true,
			ConfiguredVia: &via,
			UpdatedAt:     &updated,
		}
		if hint != "" {
			s.KeyHint = &hint
		}
		return s
	}

	s := Setting{Provider: provider}
	if c.Environment[provider] {
		via := ViaEnvironment
		s.HasAPIKey = true
		s.ConfiguredVia = &via
	}
	return s
}
