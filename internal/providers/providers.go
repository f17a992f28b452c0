// Package providers defines the pluggable text and image generation backends,
// the registry that names them, and the failover router every generation call
// goes through.
package providers

import (
	"context"

	"github.com/google/uuid"
)

// Category separates text and image providers.
type Category string

const (
	CategoryText  Category = "text"
	CategoryImage Category = "image"
)

// Capabilities is advisory metadata describing a provider. The router does not enforce it.
type Capabilities struct {
	MaxInputTokens       *int `json:"max_input_tokens"`
	MaxOutputTokens      *int `json:"max_output_tokens"`
	SupportsJSONMode     bool `json:"supports_json_mode"`
	SupportsStreaming    bool `json:"supports_streaming"`
	SupportsSystemPrompt bool `json:"supports_system_prompt"`
}

// TextRequest is a single text generation call.
// Preferred overrides the configured default provider.
type TextRequest struct {
	WorkspaceID uuid.UUID
	Prompt      string
	System      string
	Meta        map[string]any
	Preferred   string
}

// ImageRequest is a single image generation call.
type ImageRequest struct {
	WorkspaceID uuid.UUID
	Prompt      string
	Size        string
	Meta        map[string]any
	Preferred   string
}

// ImageResult carries either a URL or an inline base64 payload.
type ImageResult struct {
	Provider      string `json:"provider"`
	URL           string `json:"url,omitempty"`
	B64           string `json:"b64,omitempty"`
	Size          string `json:"size,omitempty"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
	Note          string `json:"note,omitempty"`
}

// TextProvider generates text. Available reports whether the provider can
// serve req, which may depend on workspace-scoped credentials.
type TextProvider interface {
	Name() string
	Capabilities() Capabilities
	Available(ctx context.Context, req TextRequest) bool
	Generate(ctx context.Context, req TextRequest) (string, error)
}

// ImageProvider generates images.
type ImageProvider interface {
	Name() string
	Capabilities() Capabilities
	Available(ctx context.Context, req ImageRequest) bool
	GenerateImage(ctx context.Context, req ImageRequest) (*ImageResult, error)
}

// Info is the listing view of a provider.
type Info struct {
	Name         string       `json:"name"`
	Available    bool         `json:"available"`
	Capabilities Capabilities `json:"capabilities"`
}

// CredentialResolver returns the workspace-scoped API key for a provider.
// ok is false when the workspace has not configured one.
type CredentialResolver interface {
	APIKey(ctx context.Context, workspaceID uuid.UUID, provider string) (key string, ok bool, err error)
}

func intPtr(n int) *int {
	return &n
}
